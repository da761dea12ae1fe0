// Package parquet provides data structures and functions for exporting panel
// metrics and run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/seamosgenios/panel/schema"
)

// HistoryRun represents a single recorded pipeline run.
// This struct maps to the panel_runs database table.
type HistoryRun struct {
	// RunID is the UUID of this run
	RunID string `parquet:"run_id,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	SedeFilter    string `parquet:"sede_filter,snappy"`
	AreaFilter    string `parquet:"area_filter,snappy"`
	TotalSessions int32  `parquet:"total_sessions,snappy"`
	TotalStudents int32  `parquet:"total_students,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// StudentScore is the score snapshot of one student in one run.
// This struct maps to the panel_student_scores database table.
type StudentScore struct {
	RunID        string    `parquet:"run_id,snappy"`
	StudentKey   string    `parquet:"student_key,snappy"`
	RecordedAt   time.Time `parquet:"recorded_at,snappy"`
	Sede         string    `parquet:"sede,snappy"`
	Area         string    `parquet:"area,snappy"`
	Attended     int32     `parquet:"attended,snappy"`
	AttRate      float64   `parquet:"att_rate,snappy"`
	AvgDuration  float64   `parquet:"avg_duration,snappy"`
	Engagement   int32     `parquet:"engagement,snappy"`
	UnifiedScore float64   `parquet:"unified_score,snappy"`
}

// StudentMetricsRow is the flat projection of an enriched student used by `students --output parquet`.
type StudentMetricsRow struct {
	Rank          int32   `parquet:"rank,snappy"`
	Name          string  `parquet:"name,snappy"`
	Email         string  `parquet:"email,snappy"`
	Sede          string  `parquet:"sede,snappy"`
	Area          string  `parquet:"area,snappy"`
	Attended      int32   `parquet:"attended,snappy"`
	TotalSessions int32   `parquet:"total_sessions,snappy"`
	AttRate       float64 `parquet:"att_rate,snappy"`
	TotalDuration int32   `parquet:"total_duration,snappy"`
	AvgDuration   float64 `parquet:"avg_duration,snappy"`
	Engagement    int32   `parquet:"engagement,snappy"`
	Label         string  `parquet:"label,snappy"`
	Status        string  `parquet:"status,snappy"`
	Contacted     bool    `parquet:"contacted,snappy"`
	Note          *string `parquet:"note,optional,snappy"`
}

// writeRows writes rows with a schema inferred from the struct tags of T.
func writeRows[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// writeFile creates outputPath and writes rows into it.
func writeFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return writeRows(file, data)
}

// WriteHistoryRunsParquet writes a slice of HistoryRun structs to a Parquet file.
func WriteHistoryRunsParquet(data []HistoryRun, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteStudentScoresParquet writes a slice of StudentScore structs to a Parquet file.
func WriteStudentScoresParquet(data []StudentScore, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteStudents writes student rows to w.
func WriteStudents(w io.Writer, data []StudentMetricsRow) error {
	return writeRows(w, data)
}

// ConvertHistoryRunRecords converts schema.HistoryRunRecord to HistoryRun for Parquet export.
func ConvertHistoryRunRecords(records []schema.HistoryRunRecord) []HistoryRun {
	result := make([]HistoryRun, len(records))
	for i, record := range records {
		result[i] = HistoryRun{
			RunID:         record.RunID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			SedeFilter:    record.SedeFilter,
			AreaFilter:    record.AreaFilter,
			TotalSessions: record.TotalSessions,
			TotalStudents: record.TotalStudents,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertStudentScoreRecords converts schema.StudentScoreRecord to StudentScore for Parquet export.
func ConvertStudentScoreRecords(records []schema.StudentScoreRecord) []StudentScore {
	result := make([]StudentScore, len(records))
	for i, record := range records {
		result[i] = StudentScore{
			RunID:        record.RunID,
			StudentKey:   record.StudentKey,
			RecordedAt:   record.RecordedAt,
			Sede:         record.Sede,
			Area:         record.Area,
			Attended:     record.Attended,
			AttRate:      record.AttRate,
			AvgDuration:  record.AvgDuration,
			Engagement:   record.Engagement,
			UnifiedScore: record.UnifiedScore,
		}
	}
	return result
}

// ConvertEnrichedStudents flattens enriched students for Parquet export.
func ConvertEnrichedStudents(students []schema.EnrichedStudent) []StudentMetricsRow {
	result := make([]StudentMetricsRow, len(students))
	for i, s := range students {
		row := StudentMetricsRow{
			Rank:          int32(s.Rank),
			Name:          s.Name,
			Email:         s.Email,
			Sede:          string(s.Sede),
			Area:          string(s.Area),
			Attended:      int32(s.Attended),
			TotalSessions: int32(s.TotalSessions),
			AttRate:       s.AttRate,
			TotalDuration: int32(s.TotalDuration),
			AvgDuration:   s.AvgDuration,
			Engagement:    int32(s.Engagement),
			Label:         s.Label,
			Status:        s.Status,
			Contacted:     s.Contacted,
		}
		if s.Note != "" {
			note := s.Note
			row.Note = &note
		}
		result[i] = row
	}
	return result
}
