package persist

import (
	"testing"
	"time"

	"github.com/seamosgenios/panel/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name      string
		tableName string
		wantErr   bool
	}{
		{"simple", "student_side_state", false},
		{"leading underscore", "_runs", false},
		{"mixed case with digits", "Runs_2025", false},
		{"empty", "", true},
		{"leading digit", "1runs", true},
		{"dash", "panel-runs", true},
		{"injection", "runs; DROP TABLE x", true},
		{"quote", `runs"`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.tableName)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`panel_runs`", quoteTableName("panel_runs", schema.MySQLBackend))
	assert.Equal(t, `"panel_runs"`, quoteTableName("panel_runs", schema.PostgreSQLBackend))
	assert.Equal(t, `"panel_runs"`, quoteTableName("panel_runs", schema.SQLiteBackend))
}

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		name     string
		backend  schema.DatabaseBackend
		n        int
		expected string
	}{
		{"postgres", schema.PostgreSQLBackend, 3, "$1, $2, $3"},
		{"mysql", schema.MySQLBackend, 2, "?, ?"},
		{"sqlite", schema.SQLiteBackend, 1, "?"},
		{"none", schema.SQLiteBackend, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, placeholders(tt.backend, tt.n))
		})
	}
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2025, 3, 10, 14, 30, 5, 500, time.FixedZone("COT", -5*3600))

	assert.Equal(t, "2025-03-10T19:30:05.000000500Z", formatTime(ts, schema.SQLiteBackend))
	assert.Equal(t, ts, formatTime(ts, schema.PostgreSQLBackend))
}

func TestTimeScanner(t *testing.T) {
	want := time.Date(2025, 3, 10, 19, 30, 5, 0, time.UTC)
	tests := []struct {
		name  string
		src   any
		valid bool
	}{
		{"nil", nil, false},
		{"time", want, true},
		{"sqlite text", "2025-03-10T19:30:05.000000000Z", true},
		{"mysql bytes", []byte("2025-03-10 19:30:05.000000"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts timeScanner
			require.NoError(t, ts.Scan(tt.src))
			assert.Equal(t, tt.valid, ts.Valid)
			if tt.valid {
				assert.True(t, want.Equal(ts.Time))
				assert.NotNil(t, ts.ptr())
			} else {
				assert.Nil(t, ts.ptr())
			}
		})
	}

	var ts timeScanner
	assert.Error(t, ts.Scan(42))
	assert.Error(t, ts.Scan("yesterday"))
}

func TestDriverName(t *testing.T) {
	name, err := driverName(schema.PostgreSQLBackend)
	require.NoError(t, err)
	assert.Equal(t, "pgx", name)

	_, err = driverName(schema.NoneBackend)
	assert.Error(t, err)
}
