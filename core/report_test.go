package core

import (
	"testing"

	"github.com/seamosgenios/panel/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary(t *testing.T) {
	p := newTestPanel(t)
	notes := map[string]string{"BRUNO DÍAZ": "Llamar a la familia", "NADIE": "ignored"}
	contacted := map[string]bool{"BRUNO DÍAZ": true, "VALERIA AUSECHA CAMPO": false}

	summary := p.Summary(notes, contacted)

	assert.Equal(t, schema.DefaultFilter, summary.Filter)
	assert.Equal(t, 3, summary.TotalStudents)
	assert.Equal(t, 3, summary.TotalSessions)
	assert.Zero(t, summary.FullAttendance)
	assert.Equal(t, 1, summary.AtRisk)
	assert.Equal(t, 1, summary.Contacted)
	assert.Equal(t, 1, summary.WithNotes)
	assert.InDelta(t, 55.56, summary.AvgAttendancePct, 0.01)

	assert.Equal(t, 5, summary.TotalEntries)
	assert.Equal(t, 3, summary.EntriesOver1h)
	assert.Equal(t, 1, summary.EntriesUnder30)
	assert.InDelta(t, 60, summary.MedianDuration, 1e-9)

	assert.Equal(t, []schema.SedeCount{
		{Sede: schema.SedeSG, Count: 1},
		{Sede: schema.SedeIETAC, Count: 1},
		{Sede: schema.SedeOther, Count: 1},
	}, summary.Sedes)
	assert.Equal(t, schema.PunctualityBuckets{Early: 4, OnTime: 1}, summary.Punctuality)

	require.Len(t, summary.JoinSlots, 2)
	assert.Equal(t, 14, summary.JoinSlots[0].Hour)
	assert.Equal(t, 3, summary.JoinSlots[0].Count)
	assert.Equal(t, 2, summary.JoinSlots[1].Count)
}

func TestSummaryWithNilSideState(t *testing.T) {
	p := newTestPanel(t)
	summary := p.Summary(nil, nil)
	assert.Zero(t, summary.Contacted)
	assert.Zero(t, summary.WithNotes)
}

func TestSelectorCountsIgnoreFilters(t *testing.T) {
	p := newTestPanel(t)
	sedes, areas := p.SelectorCounts()

	assert.Equal(t, 3, sedes[schema.AllSedes])
	assert.Equal(t, 1, sedes[schema.SedeFilter(schema.SedeSG)])
	assert.Equal(t, 1, sedes[schema.SedeFilter(schema.SedeIETAC)])
	// ALEXANDRA PÉREZ is OTRO in the science class
	assert.Equal(t, 2, sedes[schema.SedeFilter(schema.SedeOther)])

	assert.Equal(t, 3, areas[schema.AllAreas])
	assert.Equal(t, 2, areas[schema.AreaFilter(schema.AreaMatematicas)])
	assert.Equal(t, 1, areas[schema.AreaFilter(schema.AreaCiencias)])

	require.NoError(t, p.SetFilter(schema.FilterState{
		Sede: schema.SedeFilter(schema.SedeSG),
		Area: schema.AreaFilter(schema.AreaCiencias),
	}))
	filteredSedes, filteredAreas := p.SelectorCounts()
	assert.Equal(t, sedes, filteredSedes)
	assert.Equal(t, areas, filteredAreas)
}

func TestSessionStats(t *testing.T) {
	p := newTestPanel(t)
	stats := p.SessionStats()
	require.Len(t, stats, 3)

	first := stats[0]
	assert.Equal(t, 1, first.Index)
	assert.Equal(t, "Matemáticas 1", first.Name)
	assert.Equal(t, schema.AreaMatematicas, first.Area)
	assert.Equal(t, schema.SedeIETAC, first.Sede)
	assert.Equal(t, 2, first.Attendees)
	assert.InDelta(t, 87.5, first.AvgDuration, 1e-9)
	assert.Equal(t, 1, first.Retained)
	assert.Equal(t, 50, first.RetentionPct)
	assert.Equal(t, 1, first.Deserted)

	assert.Equal(t, 100, stats[1].RetentionPct)
	assert.Equal(t, schema.AreaCiencias, stats[2].Area)
}

func TestSessionStatsFollowSedeFilter(t *testing.T) {
	p := newTestPanel(t)
	require.NoError(t, p.SetSedeFilter(schema.SedeFilter(schema.SedeSG)))

	stats := p.SessionStats()
	require.Len(t, stats, 3)
	assert.Equal(t, 1, stats[0].Attendees)
	assert.Zero(t, stats[2].Attendees)
	assert.Zero(t, stats[2].RetentionPct)
}

func TestSessionReport(t *testing.T) {
	p := newTestPanel(t)
	report := p.SessionReport()

	require.Len(t, report.Sessions, 3)
	require.NotNil(t, report.Comparison)
	assert.Equal(t, -1, report.Comparison.AttendeesDelta)
	assert.InDelta(t, 2.5, report.Comparison.DurationDelta, 1e-9)

	require.NoError(t, p.SetAreaFilter(schema.AreaFilter(schema.AreaCiencias)))
	assert.Nil(t, p.SessionReport().Comparison)
}

func TestSessionDetail(t *testing.T) {
	p := newTestPanel(t)

	detail, err := p.SessionDetail(1)
	require.NoError(t, err)
	require.Len(t, detail.Attendees, 2)
	assert.Equal(t, "VALERIA AUSECHA CAMPO", detail.Attendees[0].Name)
	assert.Equal(t, 100, detail.Attendees[0].ProgressPct)
	assert.Equal(t, "ALEXANDRA PÉREZ", detail.Attendees[1].Name)
	assert.Equal(t, 35, detail.Attendees[1].ProgressPct)
	assert.Equal(t, 2, detail.Stats.Attendees)

	for _, index := range []int{0, 4, -1} {
		_, err := p.SessionDetail(index)
		assert.Error(t, err, "index %d", index)
	}
}

func TestHeatLevelFor(t *testing.T) {
	tests := []struct {
		name     string
		attended bool
		minutes  int
		expected schema.HeatLevel
	}{
		{"absent", false, 120, schema.HeatAbsent},
		{"attended zero minutes", true, 0, schema.HeatLow},
		{"just under low", true, 44, schema.HeatLow},
		{"low boundary", true, 45, schema.HeatMid},
		{"just under mid", true, 89, schema.HeatMid},
		{"mid boundary", true, 90, schema.HeatHigh},
		{"long", true, 200, schema.HeatHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HeatLevelFor(tt.attended, tt.minutes))
		})
	}
}

func TestHeatmap(t *testing.T) {
	p := newTestPanel(t)

	heatmap := p.Heatmap(0)
	require.Len(t, heatmap.Sessions, 3)
	require.Len(t, heatmap.Rows, 3)
	assert.Equal(t, "ALEXANDRA PÉREZ", heatmap.Rows[0].Name)

	assert.Equal(t, []schema.HeatCell{
		{SessionID: 1, DurationMinutes: 45, Level: schema.HeatMid},
		{SessionID: 2, Level: schema.HeatAbsent},
		{SessionID: 3, DurationMinutes: 20, Level: schema.HeatLow},
	}, heatmap.Rows[0].Cells)

	valeria := heatmap.Rows[2]
	assert.Equal(t, "VALERIA AUSECHA CAMPO", valeria.Name)
	assert.Equal(t, schema.HeatHigh, valeria.Cells[0].Level)
	assert.Equal(t, schema.HeatHigh, valeria.Cells[1].Level)

	assert.Len(t, p.Heatmap(2).Rows, 2)
}

func TestAlerts(t *testing.T) {
	p := newTestPanel(t)

	alerts := p.Alerts()
	require.Len(t, alerts.Risk, 1)
	assert.Equal(t, "BRUNO DÍAZ", alerts.Risk[0].Name)
	require.Len(t, alerts.Warn, 1)
	assert.Equal(t, "ALEXANDRA PÉREZ", alerts.Warn[0].Name)
	assert.Empty(t, alerts.Excellent)

	require.NoError(t, p.SetAreaFilter(schema.AreaFilter(schema.AreaMatematicas)))
	alerts = p.Alerts()
	// Half attendance is not a risk and 45 minutes is not a warning
	assert.Empty(t, alerts.Risk)
	assert.Empty(t, alerts.Warn)
	require.Len(t, alerts.Excellent, 1)
	assert.Equal(t, "VALERIA AUSECHA CAMPO", alerts.Excellent[0].Name)
}

func TestAlertsExcellentOrder(t *testing.T) {
	seed := []schema.Session{
		{Name: "Lectura 1", Rows: []schema.AttendeeRow{
			row("Ana", "Mora", "", "1 h 30 min", "2:30 p.m.", "4:00 p.m."),
			row("Zoe", "Luna", "", "2 h", "2:30 p.m.", "4:30 p.m."),
		}},
	}
	p := NewPanel(nil, seed...)

	alerts := p.Alerts()
	require.Len(t, alerts.Excellent, 2)
	assert.Equal(t, "ZOE LUNA", alerts.Excellent[0].Name)
	assert.Equal(t, "ANA MORA", alerts.Excellent[1].Name)
}

func TestStudentDetail(t *testing.T) {
	p := newTestPanel(t)
	notes := map[string]string{"VALERIA AUSECHA CAMPO": "Monitora"}
	contacted := map[string]bool{"VALERIA AUSECHA CAMPO": true}

	detail, err := p.StudentDetail("sg - valeria ausecha campo", notes, contacted)
	require.NoError(t, err)
	assert.Equal(t, "VALERIA AUSECHA CAMPO", detail.Metrics.Name)
	assert.Equal(t, 1, detail.UnifiedRank)
	assert.Positive(t, detail.Unified)
	assert.Equal(t, "Monitora", detail.Note)
	assert.True(t, detail.Contacted)

	_, err = p.StudentDetail("Nadie", nil, nil)
	assert.ErrorIs(t, err, ErrStudentNotFound)
}
