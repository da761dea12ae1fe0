// Package algo has the scoring formulas, ranking and statistics of the attendance panel.
package algo

import (
	"math"
	"sort"

	"github.com/seamosgenios/panel/core/identity"
	"github.com/seamosgenios/panel/core/parse"
	"github.com/seamosgenios/panel/schema"
)

// Formula weights. Each formula's weights sum to 1.
const (
	// Engagement
	EngagementAttendanceWeight  = 0.40
	EngagementDurationWeight    = 0.35
	EngagementConsistencyWeight = 0.25

	// Unified ranking
	UnifiedAttendanceWeight  = 0.40
	UnifiedDurationWeight    = 0.35
	UnifiedPunctualityWeight = 0.25

	// Per-class ranking
	ClassDurationWeight    = 0.50
	ClassPunctualityWeight = 0.50
)

// Sub-score constants.
const (
	DurationCeilingMinutes = 120.0 // durations beyond two hours earn no extra credit
	DelayPenaltyPerMinute  = 2.0
	MinClassDuration       = 0.5 // minutes a row needs to count as a class attendee
)

// Consistency tiers.
const (
	TierHighShare = 0.8
	TierMidShare  = 0.5
	TierHigh      = 100.0
	TierMid       = 70.0
	TierLow       = 30.0
)

// Excluder reports whether a StudentKey must be left out of rankings.
type Excluder interface {
	Contains(key string) bool
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// AttendanceSubScore is attended/total as a percentage, 0 when there are no sessions.
func AttendanceSubScore(attended, totalSessions int) float64 {
	if totalSessions <= 0 {
		return 0
	}
	return clamp(float64(attended)/float64(totalSessions)*100, 0, 100)
}

// DurationSubScore normalizes an average duration against the two-hour ceiling.
func DurationSubScore(avgDuration float64) float64 {
	return clamp(avgDuration/DurationCeilingMinutes, 0, 1) * 100
}

// PunctualitySubScore subtracts two points per minute of average delay, floored at 0.
func PunctualitySubScore(avgDelay float64) float64 {
	return clamp(100-avgDelay*DelayPenaltyPerMinute, 0, 100)
}

// ConsistencyTier is the three-step attendance bonus used by engagement.
func ConsistencyTier(attended, totalSessions int) float64 {
	if totalSessions <= 0 {
		return 0
	}
	a, t := float64(attended), float64(totalSessions)
	switch {
	case a >= TierHighShare*t:
		return TierHigh
	case a >= TierMidShare*t:
		return TierMid
	default:
		return TierLow
	}
}

// EngagementScore blends attendance, duration and the consistency tier into an integer in [0,100].
func EngagementScore(attended, totalSessions int, avgDuration float64) int {
	raw := EngagementAttendanceWeight*AttendanceSubScore(attended, totalSessions) +
		EngagementDurationWeight*DurationSubScore(avgDuration) +
		EngagementConsistencyWeight*ConsistencyTier(attended, totalSessions)
	return int(math.Round(clamp(raw, 0, 100)))
}

// EntryDelay is how late a join was against a start, in minutes.
// Unknown join or start times count as no delay.
func EntryDelay(joinMinutes, startMinutes int) int {
	if joinMinutes <= 0 || startMinutes <= 0 {
		return 0
	}
	return max(0, joinMinutes-startMinutes)
}

// AverageDelay is the mean EntryDelay over a student's entries.
func AverageDelay(entries []schema.AttendanceEntry, referenceStart int) float64 {
	if len(entries) == 0 {
		return 0
	}
	total := 0
	for _, e := range entries {
		total += EntryDelay(e.JoinMinutes, referenceStart)
	}
	return float64(total) / float64(len(entries))
}

// UnifiedScore is the cross-session ranking score rounded to one decimal.
// Punctuality is 100 when there is no reference start or no entries.
func UnifiedScore(student schema.StudentMetrics, referenceStart, totalSessions int) float64 {
	punctuality := 100.0
	if len(student.Entries) > 0 && referenceStart > 0 {
		punctuality = PunctualitySubScore(AverageDelay(student.Entries, referenceStart))
	}
	raw := UnifiedAttendanceWeight*AttendanceSubScore(student.Attended, totalSessions) +
		UnifiedDurationWeight*DurationSubScore(student.AvgDuration) +
		UnifiedPunctualityWeight*punctuality
	return round1(clamp(raw, 0, 100))
}

// EarliestJoin returns the earliest parseable join time among rows, or 0 when none parse.
func EarliestJoin(rows []schema.AttendeeRow) int {
	earliest := 0
	for _, r := range rows {
		if t := parse.ParseTime12(r.JoinText); t > 0 && (earliest == 0 || t < earliest) {
			earliest = t
		}
	}
	return earliest
}

// ReferenceStart is the rounded mean of each session's earliest join.
// Sessions without any parseable join are left out; 0 means no reference exists.
func ReferenceStart(sessions []schema.Session) int {
	sum, n := 0, 0
	for _, s := range sessions {
		if start := EarliestJoin(s.Rows); start > 0 {
			sum += start
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}

// ClassScore is the single-session score rounded to one decimal.
func ClassScore(durationMinutes, delay int) float64 {
	raw := ClassDurationWeight*DurationSubScore(float64(durationMinutes)) +
		ClassPunctualityWeight*PunctualitySubScore(float64(delay))
	return round1(clamp(raw, 0, 100))
}

// ClassScores ranks the valid attendees of one session by duration and punctuality.
// Valid attendees are not excluded and stayed at least MinClassDuration minutes.
// The reference start is the earliest join among valid attendees.
func ClassScores(session schema.Session, excluded Excluder) schema.ClassRanking {
	type attendee struct {
		row      schema.AttendeeRow
		key      string
		duration int
	}

	var valid []attendee
	var validRows []schema.AttendeeRow
	for _, row := range session.Rows {
		key := identity.StudentKey(row)
		if excluded != nil && excluded.Contains(key) {
			continue
		}
		duration := parse.ParseDuration(row.DurationText)
		if float64(duration) < MinClassDuration {
			continue
		}
		valid = append(valid, attendee{row: row, key: key, duration: duration})
		validRows = append(validRows, row)
	}

	start := EarliestJoin(validRows)
	scores := make([]schema.ClassScore, 0, len(valid))
	for _, a := range valid {
		delay := EntryDelay(parse.ParseTime12(a.row.JoinText), start)
		scores = append(scores, schema.ClassScore{
			Name:            a.key,
			Sede:            identity.ResolveSede(a.row, session),
			DurationMinutes: a.duration,
			JoinTime:        a.row.JoinText,
			Delay:           delay,
			Score:           ClassScore(a.duration, delay),
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	for i := range scores {
		scores[i].Rank = i + 1
	}

	return schema.ClassRanking{
		SessionID:    session.ID,
		SessionName:  session.Name,
		Date:         session.Date,
		StartMinutes: start,
		Scores:       scores,
	}
}
