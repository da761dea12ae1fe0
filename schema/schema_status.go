package schema

import "time"

// SideStateStatus represents the status of the notes and contacted store.
type SideStateStatus struct {
	Backend        string    `json:"backend"`
	Connected      bool      `json:"connected"`
	TotalEntries   int       `json:"total_entries"`
	NotesCount     int       `json:"notes_count"`
	ContactedCount int       `json:"contacted_count"`
	LastUpdateTime time.Time `json:"last_update_time"`
	OldestUpdate   time.Time `json:"oldest_update_time"`
}

// HistoryStatus represents the status of the run history store.
type HistoryStatus struct {
	Backend            string           `json:"backend"`
	Connected          bool             `json:"connected"`
	TotalRuns          int              `json:"total_runs"`
	LastRunID          string           `json:"last_run_id"`
	LastRunTime        time.Time        `json:"last_run_time"`
	OldestRunTime      time.Time        `json:"oldest_run_time"`
	TotalStudentScores int              `json:"total_student_scores"`
	TableSizes         map[string]int64 `json:"table_sizes"`
}
