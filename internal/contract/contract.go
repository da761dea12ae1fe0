// Package contract provides interfaces and shared utilities for the panel's internal architecture.
package contract

import (
	"time"

	"github.com/seamosgenios/panel/schema"
)

// StoreManager defines the interface for reaching the side-state and history stores.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetSideStateStore() SideStateStore
	GetHistoryStore() HistoryStore
}

// SideStateStore keeps per-student notes and contacted flags keyed by StudentKey.
// It is never consulted by aggregation; scores are independent of side-state.
type SideStateStore interface {
	// Get returns the note and contacted flag for a key. Unknown keys return zero values.
	Get(key string) (note string, contacted bool, err error)

	// SetNote stores a free-text note. An empty note clears it.
	SetNote(key string, note string) error

	// SetContacted stores the contacted flag.
	SetContacted(key string, contacted bool) error

	// LoadAll returns every note and contacted flag.
	LoadAll() (notes map[string]string, contacted map[string]bool, err error)

	// GetStatus returns status information about the store
	GetStatus() (schema.SideStateStatus, error)

	// Close closes the underlying connection
	Close() error
}

// HistoryStore records pipeline runs and the per-student scores they produced.
type HistoryStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(startTime time.Time, filter schema.FilterState, configParams map[string]any) (string, error)

	// EndRun updates the run with completion data
	EndRun(runID string, endTime time.Time, totalSessions, totalStudents int) error

	// RecordStudentScores stores the scores a run computed for one student
	RecordStudentScores(runID string, studentKey string, scores schema.StudentScores) error

	// GetAllRuns returns every recorded run ordered by start time
	GetAllRuns() ([]schema.HistoryRunRecord, error)

	// GetAllStudentScores returns every recorded student score ordered by run and key
	GetAllStudentScores() ([]schema.StudentScoreRecord, error)

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// Close closes the underlying connection
	Close() error
}
