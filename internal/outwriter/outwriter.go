// Package outwriter renders panel reports as tables, CSV, JSON or parquet.
package outwriter

import (
	"time"

	"github.com/seamosgenios/panel/internal/contract"
	"github.com/seamosgenios/panel/schema"
)

// OutWriter gives the executors a single handle over every report writer.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteStudents prints the student listing.
func (ow *OutWriter) WriteStudents(students []schema.EnrichedStudent, cfg *contract.Config, duration time.Duration) error {
	return WriteStudents(students, cfg, duration)
}

// WriteStudentDetail prints one student.
func (ow *OutWriter) WriteStudentDetail(detail schema.StudentDetail, cfg *contract.Config) error {
	return WriteStudentDetail(detail, cfg)
}

// WriteRanking prints the unified ranking.
func (ow *OutWriter) WriteRanking(ranking schema.GlobalRanking, cfg *contract.Config, duration time.Duration) error {
	return WriteRanking(ranking, cfg, duration)
}

// WriteClassRanking prints the ranking of one session.
func (ow *OutWriter) WriteClassRanking(ranking schema.ClassRanking, cfg *contract.Config, duration time.Duration) error {
	return WriteClassRanking(ranking, cfg, duration)
}

// WriteSessions prints the session stats.
func (ow *OutWriter) WriteSessions(report schema.SessionReport, cfg *contract.Config, duration time.Duration) error {
	return WriteSessions(report, cfg, duration)
}

// WriteSessionDetail prints the attendees of one session.
func (ow *OutWriter) WriteSessionDetail(detail schema.SessionDetail, cfg *contract.Config) error {
	return WriteSessionDetail(detail, cfg)
}

// WriteAlerts prints the alert lists.
func (ow *OutWriter) WriteAlerts(alerts schema.AlertList, cfg *contract.Config, duration time.Duration) error {
	return WriteAlerts(alerts, cfg, duration)
}

// WriteSummary prints the dashboard KPIs.
func (ow *OutWriter) WriteSummary(summary schema.Summary, cfg *contract.Config, duration time.Duration) error {
	return WriteSummary(summary, cfg, duration)
}

// WriteHeatmap prints the attendance grid.
func (ow *OutWriter) WriteHeatmap(heatmap schema.Heatmap, cfg *contract.Config, duration time.Duration) error {
	return WriteHeatmap(heatmap, cfg, duration)
}

// WriteMetrics prints the scoring formula definitions.
func (ow *OutWriter) WriteMetrics(cfg *contract.Config) error {
	return WriteMetricsDefinitions(cfg)
}
