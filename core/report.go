package core

import (
	"fmt"
	"math"
	"sort"

	"github.com/seamosgenios/panel/core/algo"
	"github.com/seamosgenios/panel/core/identity"
	"github.com/seamosgenios/panel/core/parse"
	"github.com/seamosgenios/panel/schema"
)

// Report thresholds in minutes unless noted.
const (
	ValidAttendeeMinutes   = 1
	RetentionMinutes       = 60
	SessionTargetMinutes   = 130
	LongEntryMinutes       = 60
	ShortEntryMinutes      = 30
	RiskAttendanceRate     = 0.5 // fraction of sessions
	WarnDurationMinutes    = 45
	ExcellentDurationMins  = 90
	HeatLowMinutes         = 45
	HeatMidMinutes         = 90
	PunctualEarlyMinutes   = 5
	PunctualOnTimeMinutes  = 15
	PunctualLateMinutes    = 30
	SessionProgressCeiling = 100 // percent
)

// pct returns part/total as a rounded percentage, 0 when total is 0.
func pct(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// visibleRows returns the rows of a session that aggregation would count
// under the active sede filter, paired with their StudentKeys.
func (p *Panel) visibleRows(session schema.Session) ([]schema.AttendeeRow, []string) {
	var rows []schema.AttendeeRow
	var keys []string
	for _, row := range session.Rows {
		key := identity.StudentKey(row)
		if p.excluded.Contains(key) {
			continue
		}
		if !identity.MatchesSede(identity.ResolveSede(row, session), p.filter.Sede) {
			continue
		}
		rows = append(rows, row)
		keys = append(keys, key)
	}
	return rows, keys
}

// Summary builds the dashboard KPIs. Side-state maps may be nil.
func (p *Panel) Summary(notes map[string]string, contacted map[string]bool) schema.Summary {
	filtered := p.GetFilteredSessions()
	students := algo.SortedByName(p.metrics)

	summary := schema.Summary{
		Filter:        p.filter,
		TotalStudents: len(students),
		TotalSessions: len(filtered),
	}

	var rates, avgs, engagement, durations []float64
	sedeCounts := make(map[schema.Sede]int)
	for _, s := range students {
		if s.TotalSessions > 0 && s.Attended == s.TotalSessions {
			summary.FullAttendance++
		}
		if s.AttRate < RiskAttendanceRate {
			summary.AtRisk++
		}
		if contacted[s.Name] {
			summary.Contacted++
		}
		if notes[s.Name] != "" {
			summary.WithNotes++
		}
		rates = append(rates, s.AttRate)
		avgs = append(avgs, s.AvgDuration)
		engagement = append(engagement, float64(s.Engagement))
		sedeCounts[s.Sede]++

		for _, e := range s.Entries {
			durations = append(durations, float64(e.DurationMinutes))
			if e.DurationMinutes >= LongEntryMinutes {
				summary.EntriesOver1h++
			}
			if e.DurationMinutes < ShortEntryMinutes {
				summary.EntriesUnder30++
			}
		}
	}

	summary.TotalEntries = len(durations)
	summary.AvgAttendancePct = algo.Mean(rates) * 100
	summary.AvgEngagement = algo.Mean(engagement)
	summary.AvgDuration = algo.Mean(avgs)
	summary.MedianDuration = algo.Median(durations)
	summary.StdDevDuration = algo.StdDev(durations)
	summary.DurationHistogram = algo.Histogram(durations, algo.DurationBuckets)
	summary.EngagementBuckets = algo.Histogram(engagement, algo.EngagementBuckets)

	for _, sede := range schema.AllSedeValues {
		summary.Sedes = append(summary.Sedes, schema.SedeCount{Sede: sede, Count: sedeCounts[sede]})
	}

	summary.Punctuality = p.punctuality(filtered)
	summary.JoinSlots = joinSlots(students)
	summary.SelectorSedeCounts, summary.SelectorAreaCounts = p.SelectorCounts()
	return summary
}

// punctuality buckets each visible row's delay against its session's earliest join.
// Sessions without a parseable join and rows without a join time are skipped.
func (p *Panel) punctuality(filtered []schema.Session) schema.PunctualityBuckets {
	var buckets schema.PunctualityBuckets
	for _, session := range filtered {
		start := algo.EarliestJoin(session.Rows)
		if start <= 0 {
			continue
		}
		rows, _ := p.visibleRows(session)
		for _, row := range rows {
			join := parse.ParseTime12(row.JoinText)
			if join <= 0 {
				continue
			}
			switch delay := algo.EntryDelay(join, start); {
			case delay <= PunctualEarlyMinutes:
				buckets.Early++
			case delay <= PunctualOnTimeMinutes:
				buckets.OnTime++
			case delay <= PunctualLateMinutes:
				buckets.Late++
			default:
				buckets.VeryLate++
			}
		}
	}
	return buckets
}

// joinSlots counts entries per join hour, ordered by hour.
func joinSlots(students []schema.StudentMetrics) []schema.JoinSlot {
	counts := make(map[int]int)
	for _, s := range students {
		for _, e := range s.Entries {
			if e.JoinMinutes > 0 {
				counts[e.JoinMinutes/60]++
			}
		}
	}
	slots := make([]schema.JoinSlot, 0, len(counts))
	for hour, n := range counts {
		slots = append(slots, schema.JoinSlot{Hour: hour, Label: parse.FormatClock(hour * 60), Count: n})
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Hour < slots[j].Hour })
	return slots
}

// SelectorCounts returns unique students per sede and sessions per area over the
// entire unfiltered history. These are system-wide totals that ignore both filters.
func (p *Panel) SelectorCounts() (map[schema.SedeFilter]int, map[schema.AreaFilter]int) {
	all := p.store.Sessions()

	seen := make(map[schema.Sede]map[string]struct{})
	everyone := make(map[string]struct{})
	areas := make(map[schema.AreaFilter]int)
	for _, session := range all {
		areas[schema.AreaFilter(identity.SessionArea(session))]++
		for _, row := range session.Rows {
			key := identity.StudentKey(row)
			if p.excluded.Contains(key) {
				continue
			}
			sede := identity.ResolveSede(row, session)
			if seen[sede] == nil {
				seen[sede] = make(map[string]struct{})
			}
			seen[sede][key] = struct{}{}
			everyone[key] = struct{}{}
		}
	}

	sedes := map[schema.SedeFilter]int{schema.AllSedes: len(everyone)}
	for _, sede := range schema.AllSedeValues {
		sedes[schema.SedeFilter(sede)] = len(seen[sede])
	}
	areas[schema.AllAreas] = len(all)
	return sedes, areas
}

// SessionStats summarizes each filtered session over its visible rows.
func (p *Panel) SessionStats() []schema.SessionStats {
	filtered := p.GetFilteredSessions()
	stats := make([]schema.SessionStats, 0, len(filtered))
	for i, session := range filtered {
		stats = append(stats, p.sessionStats(i+1, session))
	}
	return stats
}

func (p *Panel) sessionStats(index int, session schema.Session) schema.SessionStats {
	rows, _ := p.visibleRows(session)
	var durations []float64
	retained := 0
	for _, row := range rows {
		d := parse.ParseDuration(row.DurationText)
		if d < ValidAttendeeMinutes {
			continue
		}
		durations = append(durations, float64(d))
		if d >= RetentionMinutes {
			retained++
		}
	}
	valid := len(durations)
	return schema.SessionStats{
		Index:          index,
		SessionID:      session.ID,
		Name:           session.Name,
		Date:           session.Date,
		Time:           session.Time,
		Area:           identity.SessionArea(session),
		Sede:           identity.SessionSede(session),
		Attendees:      valid,
		AvgDuration:    algo.Mean(durations),
		MedianDuration: algo.Median(durations),
		Retained:       retained,
		RetentionPct:   pct(retained, valid),
		Deserted:       valid - retained,
		DesertionPct:   pct(valid-retained, valid),
	}
}

// SessionReport returns the per-session stats plus a comparison of the first two sessions.
func (p *Panel) SessionReport() schema.SessionReport {
	report := schema.SessionReport{Sessions: p.SessionStats()}
	if len(report.Sessions) >= 2 {
		first, second := report.Sessions[0], report.Sessions[1]
		report.Comparison = &schema.SessionComparison{
			First:          first,
			Second:         second,
			AttendeesDelta: second.Attendees - first.Attendees,
			DurationDelta:  second.AvgDuration - first.AvgDuration,
		}
	}
	return report
}

// SessionDetail lists the visible attendees of the filtered session at a 1-based index,
// longest stay first.
func (p *Panel) SessionDetail(index int) (schema.SessionDetail, error) {
	filtered := p.GetFilteredSessions()
	if index < 1 || index > len(filtered) {
		return schema.SessionDetail{}, fmt.Errorf("session %d out of range (1..%d)", index, len(filtered))
	}
	session := filtered[index-1]
	rows, keys := p.visibleRows(session)

	attendees := make([]schema.SessionAttendee, 0, len(rows))
	for i, row := range rows {
		d := parse.ParseDuration(row.DurationText)
		attendees = append(attendees, schema.SessionAttendee{
			Name:            keys[i],
			Email:           row.Email,
			DurationText:    row.DurationText,
			DurationMinutes: d,
			JoinTime:        row.JoinText,
			LeaveTime:       row.LeaveText,
			ProgressPct:     min(SessionProgressCeiling, pct(d, SessionTargetMinutes)),
		})
	}
	sort.SliceStable(attendees, func(i, j int) bool {
		if attendees[i].DurationMinutes != attendees[j].DurationMinutes {
			return attendees[i].DurationMinutes > attendees[j].DurationMinutes
		}
		return attendees[i].Name < attendees[j].Name
	})

	return schema.SessionDetail{
		Stats:     p.sessionStats(index, session),
		Attendees: attendees,
	}, nil
}

// HeatLevelFor classifies a cell duration.
func HeatLevelFor(attended bool, minutes int) schema.HeatLevel {
	switch {
	case !attended:
		return schema.HeatAbsent
	case minutes < HeatLowMinutes:
		return schema.HeatLow
	case minutes < HeatMidMinutes:
		return schema.HeatMid
	default:
		return schema.HeatHigh
	}
}

// Heatmap builds the student × session grid over the filtered sessions.
// Rows are ordered by name and limited to 'limit' students when limit > 0.
func (p *Panel) Heatmap(limit int) schema.Heatmap {
	stats := p.SessionStats()
	students := algo.SortedByName(p.metrics)
	if limit > 0 && len(students) > limit {
		students = students[:limit]
	}

	rows := make([]schema.HeatRow, 0, len(students))
	for _, s := range students {
		byID := make(map[int]int, len(s.Entries))
		for _, e := range s.Entries {
			byID[e.SessionID] = e.DurationMinutes
		}
		cells := make([]schema.HeatCell, 0, len(stats))
		for _, st := range stats {
			minutes, attended := byID[st.SessionID]
			cells = append(cells, schema.HeatCell{
				SessionID:       st.SessionID,
				DurationMinutes: minutes,
				Level:           HeatLevelFor(attended, minutes),
			})
		}
		rows = append(rows, schema.HeatRow{Name: s.Name, Cells: cells})
	}
	return schema.Heatmap{Sessions: stats, Rows: rows}
}

// Alerts groups students needing follow-up and the ones to recognize.
func (p *Panel) Alerts() schema.AlertList {
	var alerts schema.AlertList
	for _, s := range algo.SortedByName(p.metrics) {
		switch {
		case s.AttRate < RiskAttendanceRate:
			alerts.Risk = append(alerts.Risk, s)
		case s.AvgDuration < WarnDurationMinutes:
			alerts.Warn = append(alerts.Warn, s)
		}
		if s.TotalSessions > 0 && s.Attended == s.TotalSessions && s.AvgDuration >= ExcellentDurationMins {
			alerts.Excellent = append(alerts.Excellent, s)
		}
	}

	// Inputs are name-ordered, so stable sorts keep name as the tie-breaker.
	sort.SliceStable(alerts.Risk, func(i, j int) bool {
		return alerts.Risk[i].Attended < alerts.Risk[j].Attended
	})
	sort.SliceStable(alerts.Warn, func(i, j int) bool {
		return alerts.Warn[i].AvgDuration < alerts.Warn[j].AvgDuration
	})
	sort.SliceStable(alerts.Excellent, func(i, j int) bool {
		return alerts.Excellent[i].TotalDuration > alerts.Excellent[j].TotalDuration
	})
	return alerts
}

// StudentDetail returns a student's metrics with its unified rank and side-state.
func (p *Panel) StudentDetail(name string, notes map[string]string, contacted map[string]bool) (schema.StudentDetail, error) {
	m, err := p.GetStudent(name)
	if err != nil {
		return schema.StudentDetail{}, err
	}
	detail := schema.StudentDetail{
		Metrics:   m,
		Note:      notes[m.Name],
		Contacted: contacted[m.Name],
	}
	for _, r := range p.GlobalRanking(0).Students {
		if r.Name == m.Name {
			detail.UnifiedRank = r.Rank
			detail.Unified = r.Score
			break
		}
	}
	return detail, nil
}
