package persist

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/seamosgenios/panel/internal/contract"
	"github.com/seamosgenios/panel/schema"
)

// Table names for run history.
const (
	runsTable          = "panel_runs"
	studentScoresTable = "panel_student_scores"
)

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		return &HistoryStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, contract.GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}
	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// createHistoryTables creates the run and score tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{studentScoresTable, getCreateStudentScoresQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for panel_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quoted := quoteTableName(runsTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id CHAR(36) PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				sede_filter VARCHAR(32) NOT NULL,
				area_filter VARCHAR(64) NOT NULL,
				total_sessions INT NOT NULL DEFAULT 0,
				total_students INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				sede_filter TEXT NOT NULL,
				area_filter TEXT NOT NULL,
				total_sessions INT NOT NULL DEFAULT 0,
				total_students INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quoted)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				sede_filter TEXT NOT NULL,
				area_filter TEXT NOT NULL,
				total_sessions INTEGER NOT NULL DEFAULT 0,
				total_students INTEGER NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quoted)
	}
}

// getCreateStudentScoresQuery returns the CREATE TABLE query for panel_student_scores.
func getCreateStudentScoresQuery(backend schema.DatabaseBackend) string {
	quoted := quoteTableName(studentScoresTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id CHAR(36) NOT NULL,
				student_key VARCHAR(255) NOT NULL,
				recorded_at DATETIME(6) NOT NULL,
				sede VARCHAR(16) NOT NULL,
				area VARCHAR(64) NOT NULL,
				attended INT NOT NULL,
				att_rate DOUBLE NOT NULL,
				avg_duration DOUBLE NOT NULL,
				engagement INT NOT NULL,
				unified_score DOUBLE NOT NULL,
				PRIMARY KEY (run_id, student_key)
			);
		`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT NOT NULL,
				student_key TEXT NOT NULL,
				recorded_at TIMESTAMPTZ NOT NULL,
				sede TEXT NOT NULL,
				area TEXT NOT NULL,
				attended INT NOT NULL,
				att_rate DOUBLE PRECISION NOT NULL,
				avg_duration DOUBLE PRECISION NOT NULL,
				engagement INT NOT NULL,
				unified_score DOUBLE PRECISION NOT NULL,
				PRIMARY KEY (run_id, student_key)
			);
		`, quoted)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT NOT NULL,
				student_key TEXT NOT NULL,
				recorded_at TEXT NOT NULL,
				sede TEXT NOT NULL,
				area TEXT NOT NULL,
				attended INTEGER NOT NULL,
				att_rate REAL NOT NULL,
				avg_duration REAL NOT NULL,
				engagement INTEGER NOT NULL,
				unified_score REAL NOT NULL,
				PRIMARY KEY (run_id, student_key)
			);
		`, quoted)
	}
}

// BeginRun creates a new run and returns its ID.
func (hs *HistoryStoreImpl) BeginRun(startTime time.Time, filter schema.FilterState, configParams map[string]any) (string, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return "", nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config params: %w", err)
	}

	runID := uuid.NewString()
	query := fmt.Sprintf(`INSERT INTO %s (run_id, start_time, sede_filter, area_filter, config_params) VALUES (%s)`,
		quoteTableName(runsTable, hs.backend), placeholders(hs.backend, 5))
	_, err = hs.db.Exec(query, runID, formatTime(startTime, hs.backend), string(filter.Sede), string(filter.Area), string(configJSON))
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// EndRun stores the completion time, duration and totals of a run.
func (hs *HistoryStoreImpl) EndRun(runID string, endTime time.Time, totalSessions, totalStudents int) error {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	quoted := quoteTableName(runsTable, hs.backend)
	var start timeScanner
	selectQuery := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quoted, placeholder(hs.backend, 1))
	if err := hs.db.QueryRow(selectQuery, runID).Scan(&start); err != nil {
		return fmt.Errorf("failed to get start_time for run %s: %w", runID, err)
	}
	durationMs := endTime.Sub(start.Time).Milliseconds()

	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_sessions = %s, total_students = %s WHERE run_id = %s`,
		quoted,
		placeholder(hs.backend, 1), placeholder(hs.backend, 2), placeholder(hs.backend, 3),
		placeholder(hs.backend, 4), placeholder(hs.backend, 5))
	if _, err := hs.db.Exec(updateQuery, formatTime(endTime, hs.backend), durationMs, totalSessions, totalStudents, runID); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// RecordStudentScores stores the scores one run computed for a student.
func (hs *HistoryStoreImpl) RecordStudentScores(runID string, studentKey string, scores schema.StudentScores) error {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, student_key, recorded_at, sede, area, attended,
		                att_rate, avg_duration, engagement, unified_score)
		VALUES (%s)
	`, quoteTableName(studentScoresTable, hs.backend), placeholders(hs.backend, 10))
	_, err := hs.db.Exec(query,
		runID, studentKey, formatTime(time.Now(), hs.backend), string(scores.Sede), string(scores.Area), scores.Attended,
		scores.AttRate, scores.AvgDuration, scores.Engagement, scores.UnifiedScore,
	)
	if err != nil {
		return fmt.Errorf("failed to insert scores for %q: %w", studentKey, err)
	}
	return nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	quotedRuns := quoteTableName(runsTable, hs.backend)
	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var last, oldest timeScanner
		lastQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY start_time DESC LIMIT 1", quotedRuns)
		if err := hs.db.QueryRow(lastQuery).Scan(&status.LastRunID, &last); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunTime = last.Time

		oldestQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY start_time ASC LIMIT 1", quotedRuns)
		if err := hs.db.QueryRow(oldestQuery).Scan(&oldest); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldest.Time
	}

	for _, table := range []string{runsTable, studentScoresTable} {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))
		if err := hs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalStudentScores = int(status.TableSizes[studentScoresTable])

	return status, nil
}

// GetAllRuns retrieves every run ordered by start time.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.HistoryRunRecord, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, start_time, end_time, run_duration_ms, sede_filter, area_filter,
		total_sessions, total_students, config_params FROM %s ORDER BY start_time, run_id`, quoteTableName(runsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.HistoryRunRecord
	for rows.Next() {
		var record schema.HistoryRunRecord
		var start, end timeScanner
		if err := rows.Scan(&record.RunID, &start, &end, &record.RunDurationMs, &record.SedeFilter, &record.AreaFilter,
			&record.TotalSessions, &record.TotalStudents, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		record.StartTime = start.Time
		record.EndTime = end.ptr()
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllStudentScores retrieves every score row ordered by run and student key.
func (hs *HistoryStoreImpl) GetAllStudentScores() ([]schema.StudentScoreRecord, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, student_key, recorded_at, sede, area, attended,
		att_rate, avg_duration, engagement, unified_score
		FROM %s ORDER BY run_id, student_key`, quoteTableName(studentScoresTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query student scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.StudentScoreRecord
	for rows.Next() {
		var record schema.StudentScoreRecord
		var recorded timeScanner
		if err := rows.Scan(&record.RunID, &record.StudentKey, &recorded, &record.Sede, &record.Area, &record.Attended,
			&record.AttRate, &record.AvgDuration, &record.Engagement, &record.UnifiedScore); err != nil {
			return nil, fmt.Errorf("failed to scan student scores: %w", err)
		}
		record.RecordedAt = recorded.Time
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student scores: %w", err)
	}
	return results, nil
}
