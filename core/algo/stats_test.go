package algo

import (
	"testing"

	"github.com/seamosgenios/panel/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"empty", nil, 0},
		{"single", []float64{42}, 42},
		{"odd", []float64{90, 10, 50}, 50},
		{"even", []float64{10, 40, 20, 30}, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Median(tt.values), 1e-9)
		})
	}
}

func TestMedian_DoesNotSortInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Median(values)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestStdDev(t *testing.T) {
	assert.Zero(t, StdDev(nil))
	assert.Zero(t, StdDev([]float64{5, 5, 5}))
	assert.InDelta(t, 2.0, StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-9)
}

func TestMean(t *testing.T) {
	assert.Zero(t, Mean(nil))
	assert.InDelta(t, 2.5, Mean(Ints([]int{1, 2, 3, 4})), 1e-9)
}

func TestHistogram(t *testing.T) {
	values := []float64{0, 14, 15, 29, 59, 60, 89, 90, 119, 120, 500}
	got := Histogram(values, DurationBuckets)
	require.Len(t, got, len(DurationBuckets))

	counts := make([]int, len(got))
	for i, b := range got {
		counts[i] = b.Count
	}
	assert.Equal(t, []int{2, 2, 1, 2, 2, 2}, counts)
	assert.Zero(t, DurationBuckets[0].Count, "bucket templates are not modified")
}

func TestHistogram_Engagement(t *testing.T) {
	got := Histogram([]float64{0, 19, 20, 59, 80, 100}, EngagementBuckets)
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, 1, got[1].Count)
	assert.Equal(t, 1, got[2].Count)
	assert.Equal(t, 0, got[3].Count)
	assert.Equal(t, 2, got[4].Count)
}

func TestHistogram_OutOfRangeIgnored(t *testing.T) {
	got := Histogram([]float64{-1}, []schema.HistogramBucket{{Label: "x", Min: 0, Max: 10}})
	assert.Zero(t, got[0].Count)
}
