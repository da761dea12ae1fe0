// Package agg has the filter and aggregation logic that turns sessions into per-student metrics.
package agg

import (
	"github.com/seamosgenios/panel/core/algo"
	"github.com/seamosgenios/panel/core/identity"
	"github.com/seamosgenios/panel/core/parse"
	"github.com/seamosgenios/panel/schema"
)

// ExcludedSet holds StudentKeys skipped by aggregation.
type ExcludedSet map[string]struct{}

// NewExcludedSet builds a set from display names, normalizing them like StudentKeys.
func NewExcludedSet(names []string) ExcludedSet {
	set := make(ExcludedSet, len(names))
	for _, n := range names {
		if key := identity.NormalizeKey(n); key != "" {
			set[key] = struct{}{}
		}
	}
	return set
}

// Contains reports whether key is excluded. A nil set excludes nothing.
func (e ExcludedSet) Contains(key string) bool {
	_, ok := e[key]
	return ok
}

// FilterSessions returns the sessions that pass the area filter, in store order.
// The sede filter never removes sessions because one session can mix sedes.
func FilterSessions(sessions []schema.Session, filter schema.FilterState) []schema.Session {
	filtered := make([]schema.Session, 0, len(sessions))
	for _, s := range sessions {
		if identity.MatchesArea(s, filter.Area) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// accumulator collects a student's rows before the final pass.
type accumulator struct {
	metrics   schema.StudentMetrics
	areaOrder []schema.Area
	areaCount map[schema.Area]int
}

// Aggregate builds the per-student metrics for the given filters.
// It is a pure function of its inputs and never mutates the sessions.
func Aggregate(sessions []schema.Session, excluded ExcludedSet, filter schema.FilterState) map[string]schema.StudentMetrics {
	filtered := FilterSessions(sessions, filter)
	totalSessions := len(filtered)

	accs := make(map[string]*accumulator)
	for _, session := range filtered {
		area := identity.SessionArea(session)
		for _, row := range session.Rows {
			key := identity.StudentKey(row)
			if excluded.Contains(key) {
				continue
			}
			sede := identity.ResolveSede(row, session)
			if !identity.MatchesSede(sede, filter.Sede) {
				continue
			}

			acc, ok := accs[key]
			if !ok {
				acc = &accumulator{
					metrics: schema.StudentMetrics{
						Name:  key,
						Email: row.Email,
						Sede:  sede,
					},
					areaCount: make(map[schema.Area]int),
				}
				accs[key] = acc
			}
			acc.add(session, row, area)
		}
	}

	result := make(map[string]schema.StudentMetrics, len(accs))
	for key, acc := range accs {
		result[key] = acc.finalize(totalSessions)
	}
	return result
}

// add records one attended row. Repeated rows of the same session (reconnections)
// are merged into one entry so a session is never counted twice.
func (a *accumulator) add(session schema.Session, row schema.AttendeeRow, area schema.Area) {
	duration := parse.ParseDuration(row.DurationText)
	join := parse.ParseTime12(row.JoinText)
	a.metrics.TotalDuration += duration

	if n := len(a.metrics.Entries); n > 0 && a.metrics.Entries[n-1].SessionID == session.ID {
		last := &a.metrics.Entries[n-1]
		last.DurationMinutes += duration
		last.DurationText += " + " + row.DurationText
		last.LeaveTime = row.LeaveText
		if join > 0 && (last.JoinMinutes == 0 || join < last.JoinMinutes) {
			last.JoinMinutes = join
			last.JoinTime = row.JoinText
		}
		return
	}

	a.metrics.Attended++
	a.metrics.Entries = append(a.metrics.Entries, schema.AttendanceEntry{
		SessionID:       session.ID,
		SessionName:     session.Name,
		Date:            session.Date,
		DurationMinutes: duration,
		DurationText:    row.DurationText,
		JoinTime:        row.JoinText,
		LeaveTime:       row.LeaveText,
		JoinMinutes:     join,
	})
	if _, seen := a.areaCount[area]; !seen {
		a.areaOrder = append(a.areaOrder, area)
	}
	a.areaCount[area]++
}

// finalize derives rates, averages, the dominant area and the engagement score.
func (a *accumulator) finalize(totalSessions int) schema.StudentMetrics {
	m := a.metrics
	m.TotalSessions = totalSessions
	if totalSessions > 0 {
		m.AttRate = float64(m.Attended) / float64(totalSessions)
	}
	if len(m.Entries) > 0 {
		m.AvgDuration = float64(m.TotalDuration) / float64(len(m.Entries))
	}

	// Strictly greater keeps the first-seen area on ties.
	best := 0
	for _, area := range a.areaOrder {
		if c := a.areaCount[area]; c > best {
			best = c
			m.Area = area
		}
	}

	m.Engagement = algo.EngagementScore(m.Attended, totalSessions, m.AvgDuration)
	return m
}
