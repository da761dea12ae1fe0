package persist

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/seamosgenios/panel/internal/contract"
	"github.com/seamosgenios/panel/schema"
)

// sideStateTable is the name of the table for notes and contacted flags.
const sideStateTable = "student_side_state"

// SideStateStoreImpl stores notes and contacted flags in a SQL backend.
type SideStateStoreImpl struct {
	db        *sql.DB
	tableName string
	backend   schema.DatabaseBackend
}

var _ contract.SideStateStore = &SideStateStoreImpl{} // Compile-time check

// NewSideStateStore initializes the side-state store for the backend.
func NewSideStateStore(tableName string, backend schema.DatabaseBackend, connStr string) (contract.SideStateStore, error) {
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}
	if backend == schema.NoneBackend {
		return &SideStateStoreImpl{tableName: tableName, backend: backend}, nil
	}

	db, err := openDB(backend, connStr, contract.GetNotesDBFilePath())
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(getCreateSideStateQuery(tableName, backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &SideStateStoreImpl{db: db, tableName: tableName, backend: backend}, nil
}

// getCreateSideStateQuery returns the CREATE TABLE query for the given backend.
func getCreateSideStateQuery(tableName string, backend schema.DatabaseBackend) string {
	quoted := quoteTableName(tableName, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				student_key VARCHAR(255) PRIMARY KEY,
				note TEXT NOT NULL,
				contacted BOOLEAN NOT NULL,
				updated_at BIGINT NOT NULL
			);
		`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				student_key TEXT PRIMARY KEY,
				note TEXT NOT NULL DEFAULT '',
				contacted BOOLEAN NOT NULL DEFAULT FALSE,
				updated_at BIGINT NOT NULL
			);
		`, quoted)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				student_key TEXT PRIMARY KEY,
				note TEXT NOT NULL DEFAULT '',
				contacted INTEGER NOT NULL DEFAULT 0,
				updated_at INTEGER NOT NULL
			);
		`, quoted)
	}
}

// getUpsertQuery returns an upsert that writes column and leaves the other value untouched.
func (ss *SideStateStoreImpl) getUpsertQuery(column string) string {
	quoted := quoteTableName(ss.tableName, ss.backend)
	insert := fmt.Sprintf(`INSERT INTO %s (student_key, note, contacted, updated_at) VALUES (%s)`,
		quoted, placeholders(ss.backend, 4))

	switch ss.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`%s AS new ON DUPLICATE KEY UPDATE %s = new.%s, updated_at = new.updated_at`, insert, column, column)
	default: // PostgreSQL and SQLite share the ON CONFLICT form
		return fmt.Sprintf(`%s ON CONFLICT (student_key) DO UPDATE SET %s = excluded.%s, updated_at = excluded.updated_at`, insert, column, column)
	}
}

// Get returns the note and contacted flag for a key.
func (ss *SideStateStoreImpl) Get(key string) (string, bool, error) {
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return "", false, nil
	}

	query := fmt.Sprintf(`SELECT note, contacted FROM %s WHERE student_key = %s`,
		quoteTableName(ss.tableName, ss.backend), placeholder(ss.backend, 1))
	var note string
	var contacted bool
	if err := ss.db.QueryRow(query, key).Scan(&note, &contacted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read side-state for %q: %w", key, err)
	}
	return note, contacted, nil
}

// SetNote stores a note for a key. An empty note clears it.
func (ss *SideStateStoreImpl) SetNote(key string, note string) error {
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return nil
	}
	_, err := ss.db.Exec(ss.getUpsertQuery("note"), key, note, false, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to store note for %q: %w", key, err)
	}
	return nil
}

// SetContacted stores the contacted flag for a key.
func (ss *SideStateStoreImpl) SetContacted(key string, contacted bool) error {
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return nil
	}
	_, err := ss.db.Exec(ss.getUpsertQuery("contacted"), key, "", contacted, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to store contacted flag for %q: %w", key, err)
	}
	return nil
}

// LoadAll returns every non-empty note and every key flagged as contacted.
func (ss *SideStateStoreImpl) LoadAll() (map[string]string, map[string]bool, error) {
	notes := make(map[string]string)
	contacted := make(map[string]bool)
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return notes, contacted, nil
	}

	query := fmt.Sprintf(`SELECT student_key, note, contacted FROM %s`, quoteTableName(ss.tableName, ss.backend))
	rows, err := ss.db.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query side-state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var key, note string
		var flag bool
		if err := rows.Scan(&key, &note, &flag); err != nil {
			return nil, nil, fmt.Errorf("failed to scan side-state: %w", err)
		}
		if note != "" {
			notes[key] = note
		}
		if flag {
			contacted[key] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating side-state: %w", err)
	}
	return notes, contacted, nil
}

// Close closes the underlying DB connection.
func (ss *SideStateStoreImpl) Close() error {
	if ss.db != nil {
		return ss.db.Close()
	}
	return nil
}

// GetStatus returns status information about the side-state store.
func (ss *SideStateStoreImpl) GetStatus() (schema.SideStateStatus, error) {
	status := schema.SideStateStatus{
		Backend:   string(ss.backend),
		Connected: ss.db != nil,
	}
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return status, nil
	}

	quoted := quoteTableName(ss.tableName, ss.backend)
	if err := ss.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoted)).Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}
	if status.TotalEntries == 0 {
		return status, nil
	}

	notesQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE note <> ''", quoted)
	if err := ss.db.QueryRow(notesQuery).Scan(&status.NotesCount); err != nil {
		return status, fmt.Errorf("failed to count notes: %w", err)
	}
	contactedQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE contacted = %s", quoted, placeholder(ss.backend, 1))
	if err := ss.db.QueryRow(contactedQuery, true).Scan(&status.ContactedCount); err != nil {
		return status, fmt.Errorf("failed to count contacted students: %w", err)
	}

	var newest, oldest int64
	rangeQuery := fmt.Sprintf("SELECT MAX(updated_at), MIN(updated_at) FROM %s", quoted)
	if err := ss.db.QueryRow(rangeQuery).Scan(&newest, &oldest); err != nil {
		return status, fmt.Errorf("failed to get update range: %w", err)
	}
	status.LastUpdateTime = time.Unix(0, newest)
	status.OldestUpdate = time.Unix(0, oldest)

	return status, nil
}
