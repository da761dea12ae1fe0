package algo

import (
	"math"
	"testing"

	"github.com/seamosgenios/panel/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// excludeSet is a minimal Excluder for tests.
type excludeSet map[string]bool

func (e excludeSet) Contains(key string) bool { return e[key] }

func TestSubScores(t *testing.T) {
	assert.InDelta(t, 100.0, AttendanceSubScore(2, 2), 1e-9)
	assert.InDelta(t, 25.0, AttendanceSubScore(1, 4), 1e-9)
	assert.Zero(t, AttendanceSubScore(3, 0))

	assert.InDelta(t, 87.5, DurationSubScore(105), 1e-9)
	assert.InDelta(t, 100.0, DurationSubScore(240), 1e-9, "capped at the two-hour ceiling")
	assert.Zero(t, DurationSubScore(-10))

	assert.InDelta(t, 100.0, PunctualitySubScore(0), 1e-9)
	assert.InDelta(t, 80.0, PunctualitySubScore(10), 1e-9)
	assert.Zero(t, PunctualitySubScore(50))
	assert.Zero(t, PunctualitySubScore(75))
}

func TestConsistencyTier(t *testing.T) {
	tests := []struct {
		name     string
		attended int
		total    int
		expected float64
	}{
		{"all", 5, 5, TierHigh},
		{"exactly 80 percent", 4, 5, TierHigh},
		{"just below 80 percent", 7, 9, TierMid},
		{"exactly half", 2, 4, TierMid},
		{"below half", 1, 4, TierLow},
		{"none", 0, 4, TierLow},
		{"no sessions", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ConsistencyTier(tt.attended, tt.total))
		})
	}
}

func TestEngagementScore(t *testing.T) {
	tests := []struct {
		name     string
		attended int
		total    int
		avg      float64
		expected int
	}{
		{"full attendance long sessions", 2, 2, 105, 96},
		{"quarter attendance short sessions", 1, 4, 20, 23},
		{"perfect", 3, 3, 150, 100},
		{"no sessions", 0, 0, 0, 0},
		{"mid tier", 2, 4, 60, 55}, // 20 + 17.5 + 17.5
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EngagementScore(tt.attended, tt.total, tt.avg))
		})
	}
}

func TestEntryDelay(t *testing.T) {
	assert.Equal(t, 10, EntryDelay(880, 870))
	assert.Equal(t, 0, EntryDelay(860, 870), "early joins are not negative")
	assert.Equal(t, 0, EntryDelay(0, 870), "unknown join counts as on time")
	assert.Equal(t, 0, EntryDelay(880, 0), "no reference start")
}

func TestUnifiedScore(t *testing.T) {
	student := schema.StudentMetrics{
		Attended:    2,
		AvgDuration: 105,
		Entries: []schema.AttendanceEntry{
			{JoinMinutes: 870},
			{JoinMinutes: 880},
		},
	}

	// Attendance 100, duration 87.5, delay avg 5 -> punctuality 90.
	assert.Equal(t, 93.1, UnifiedScore(student, 870, 2))

	// No reference start means full punctuality.
	assert.Equal(t, 95.6, UnifiedScore(student, 0, 2))

	// Unparseable joins contribute zero delay.
	student.Entries[1].JoinMinutes = 0
	assert.Equal(t, 95.6, UnifiedScore(student, 870, 2))
}

func TestUnifiedScore_NoEntries(t *testing.T) {
	assert.Equal(t, 25.0, UnifiedScore(schema.StudentMetrics{}, 870, 3))
}

func TestReferenceStart(t *testing.T) {
	sessions := []schema.Session{
		{Rows: []schema.AttendeeRow{{JoinText: "2:35 p.m."}, {JoinText: "2:30 p.m."}}}, // 870
		{Rows: []schema.AttendeeRow{{JoinText: "sin dato"}}},                         // skipped
		{Rows: []schema.AttendeeRow{{JoinText: "2:41 p.m."}}},                        // 881
	}
	assert.Equal(t, 876, ReferenceStart(sessions)) // round(875.5)
	assert.Zero(t, ReferenceStart(nil))
	assert.Zero(t, ReferenceStart(sessions[1:2]))
}

func TestClassScores(t *testing.T) {
	session := schema.Session{
		ID:   3,
		Name: "Ciencias SG",
		Rows: []schema.AttendeeRow{
			{FirstName: "SG - ANA", LastName: "RUIZ", DurationText: "2 h", JoinText: "2:30 p.m."},
			{FirstName: "LUIS", LastName: "GOMEZ", DurationText: "1 h", JoinText: "2:40 p.m."},
			{FirstName: "DANIEL", LastName: "SOLARTE", DurationText: "3 h", JoinText: "2:00 p.m."},
			{FirstName: "EVA", LastName: "DIAZ", DurationText: "0 min", JoinText: "1:00 p.m."},
			{FirstName: "IETAC - JUAN", LastName: "PAZ", DurationText: "30 min", JoinText: ""},
		},
	}

	ranking := ClassScores(session, excludeSet{"DANIEL SOLARTE": true})

	assert.Equal(t, 3, ranking.SessionID)
	assert.Equal(t, 870, ranking.StartMinutes, "excluded and zero-duration rows do not set the start")
	require.Len(t, ranking.Scores, 3)

	assert.Equal(t, "ANA RUIZ", ranking.Scores[0].Name)
	assert.Equal(t, 100.0, ranking.Scores[0].Score)
	assert.Equal(t, schema.SedeSG, ranking.Scores[0].Sede)
	assert.Equal(t, 1, ranking.Scores[0].Rank)

	// JUAN: 30 min, unknown join is not penalized -> 12.5 + 50.
	// LUIS: 60 min, delay 10 -> 25 + 40.
	assert.Equal(t, "LUIS GOMEZ", ranking.Scores[1].Name)
	assert.Equal(t, 65.0, ranking.Scores[1].Score)
	assert.Equal(t, 10, ranking.Scores[1].Delay)
	assert.Equal(t, "JUAN PAZ", ranking.Scores[2].Name)
	assert.Equal(t, 62.5, ranking.Scores[2].Score)
	assert.Equal(t, 0, ranking.Scores[2].Delay)
	assert.Equal(t, schema.SedeIETAC, ranking.Scores[2].Sede)
}

func TestClassScores_NoJoinTimes(t *testing.T) {
	session := schema.Session{Rows: []schema.AttendeeRow{
		{FirstName: "ANA", DurationText: "1 h"},
		{FirstName: "LUIS", DurationText: "2 h"},
	}}
	ranking := ClassScores(session, nil)
	assert.Zero(t, ranking.StartMinutes)
	require.Len(t, ranking.Scores, 2)
	assert.Equal(t, "LUIS", ranking.Scores[0].Name)
	assert.Equal(t, 100.0, ranking.Scores[0].Score)
	assert.Equal(t, 75.0, ranking.Scores[1].Score)
}

func TestClassScores_StableTies(t *testing.T) {
	session := schema.Session{Rows: []schema.AttendeeRow{
		{FirstName: "ZOE", DurationText: "1 h", JoinText: "8:00 a.m."},
		{FirstName: "ANA", DurationText: "1 h", JoinText: "8:00 a.m."},
	}}
	ranking := ClassScores(session, nil)
	require.Len(t, ranking.Scores, 2)
	assert.Equal(t, "ZOE", ranking.Scores[0].Name, "ties keep row order")
}

func TestScoresRoundToOneDecimal(t *testing.T) {
	for d := 0; d <= 130; d += 7 {
		for delay := 0; delay <= 60; delay += 3 {
			score := ClassScore(d, delay)
			assert.InDelta(t, score, math.Round(score*10)/10, 1e-9)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 100.0)
		}
	}
}
