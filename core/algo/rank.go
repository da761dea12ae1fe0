package algo

import (
	"sort"

	"github.com/seamosgenios/panel/schema"
)

// RankStudents scores students with the unified formula, sorts them descending
// with ties broken by name, and returns the top 'limit' entries. A limit of zero
// or less returns everyone.
func RankStudents(students []schema.StudentMetrics, referenceStart, totalSessions, limit int) []schema.RankedStudent {
	ranked := make([]schema.RankedStudent, 0, len(students))
	for _, s := range students {
		score := UnifiedScore(s, referenceStart, totalSessions)
		ranked = append(ranked, schema.RankedStudent{
			Name:        s.Name,
			Sede:        s.Sede,
			Area:        s.Area,
			Attended:    s.Attended,
			AvgDuration: s.AvgDuration,
			AvgDelay:    AverageDelay(s.Entries, referenceStart),
			Score:       score,
			Label:       schema.GetPlainLabel(score),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Name < ranked[j].Name
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	if limit > 0 && len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}

// RankByEngagement sorts students by engagement descending, then by name,
// and returns the top 'limit' entries. A limit of zero or less returns everyone.
func RankByEngagement(students []schema.StudentMetrics, limit int) []schema.StudentMetrics {
	sort.Slice(students, func(i, j int) bool {
		if students[i].Engagement != students[j].Engagement {
			return students[i].Engagement > students[j].Engagement
		}
		return students[i].Name < students[j].Name
	})
	if limit > 0 && len(students) > limit {
		return students[:limit]
	}
	return students
}

// SortedByName returns the metrics map as a slice ordered by StudentKey.
func SortedByName(metrics map[string]schema.StudentMetrics) []schema.StudentMetrics {
	students := make([]schema.StudentMetrics, 0, len(metrics))
	for _, m := range metrics {
		students = append(students, m)
	}
	sort.Slice(students, func(i, j int) bool {
		return students[i].Name < students[j].Name
	})
	return students
}
