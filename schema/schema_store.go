package schema

import "time"

// StudentScores is what a history run stores for one student.
type StudentScores struct {
	Sede         Sede
	Area         Area
	Attended     int
	AttRate      float64
	AvgDuration  float64
	Engagement   int
	UnifiedScore float64
}

// HistoryRunRecord represents a row from the panel_runs table.
type HistoryRunRecord struct {
	RunID         string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	SedeFilter    string
	AreaFilter    string
	TotalSessions int32
	TotalStudents int32
	ConfigParams  *string
}

// StudentScoreRecord represents a row from the panel_student_scores table.
type StudentScoreRecord struct {
	RunID        string
	StudentKey   string
	RecordedAt   time.Time
	Sede         string
	Area         string
	Attended     int32
	AttRate      float64
	AvgDuration  float64
	Engagement   int32
	UnifiedScore float64
}

// IngestFailure reports a file of a batch that produced no session.
type IngestFailure struct {
	Path string `json:"path"`
	Err  error  `json:"-"`
}

// BatchResult is the outcome of one ingestion batch.
// Completed counts every file, including failed ones.
type BatchResult struct {
	BatchID   string          `json:"batch_id"`
	Requested int             `json:"requested"`
	Completed int             `json:"completed"`
	Sessions  []Session       `json:"sessions"`
	Failures  []IngestFailure `json:"failures"`
}
