package algo

import (
	"math"
	"sort"

	"github.com/seamosgenios/panel/schema"
)

// Mean returns the arithmetic mean, or 0 for no values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Median returns the middle value, averaging the two middle values for even counts.
// The input is not modified.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// StdDev returns the population standard deviation.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	sq := 0.0
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}

// Histogram counts values into the given half-open [Min, Max) buckets.
// Values outside every bucket are ignored. The buckets are copied, not modified.
func Histogram(values []float64, buckets []schema.HistogramBucket) []schema.HistogramBucket {
	out := make([]schema.HistogramBucket, len(buckets))
	copy(out, buckets)
	for i := range out {
		out[i].Count = 0
	}
	for _, v := range values {
		for i := range out {
			if v >= out[i].Min && v < out[i].Max {
				out[i].Count++
				break
			}
		}
	}
	return out
}

// Ints converts integer samples for the float statistics.
func Ints(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

// DurationBuckets are the duration distribution ranges in minutes.
var DurationBuckets = []schema.HistogramBucket{
	{Label: "< 15 min", Min: 0, Max: 15},
	{Label: "15-30 min", Min: 15, Max: 30},
	{Label: "30-60 min", Min: 30, Max: 60},
	{Label: "1-1.5 h", Min: 60, Max: 90},
	{Label: "1.5-2 h", Min: 90, Max: 120},
	{Label: "> 2 h", Min: 120, Max: 9999},
}

// EngagementBuckets are the engagement distribution ranges.
var EngagementBuckets = []schema.HistogramBucket{
	{Label: "0-20 (" + schema.LabelCritical + ")", Min: 0, Max: 20},
	{Label: "20-40 (" + schema.LabelLow + ")", Min: 20, Max: 40},
	{Label: "40-60 (" + schema.LabelMedium + ")", Min: 40, Max: 60},
	{Label: "60-80 (" + schema.LabelHigh + ")", Min: 60, Max: 80},
	{Label: "80-100 (" + schema.LabelExcellent + ")", Min: 80, Max: 101},
}
