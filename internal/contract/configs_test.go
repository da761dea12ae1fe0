package contract

import (
	"errors"
	"testing"

	"github.com/seamosgenios/panel/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns a raw input that passes validation.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Limit:        10,
		Workers:      4,
		Precision:    1,
		Output:       "text",
		Emoji:        "no",
		Color:        "yes",
		NotesBackend: string(schema.SQLiteBackend),
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*ConfigRawInput)
		expectError bool
	}{
		{
			name:   "valid minimal config",
			modify: func(*ConfigRawInput) {},
		},
		{
			name:        "invalid limit (zero)",
			modify:      func(in *ConfigRawInput) { in.Limit = 0 },
			expectError: true,
		},
		{
			name:        "invalid limit (too large)",
			modify:      func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 },
			expectError: true,
		},
		{
			name:        "invalid workers (zero)",
			modify:      func(in *ConfigRawInput) { in.Workers = 0 },
			expectError: true,
		},
		{
			name:        "invalid precision",
			modify:      func(in *ConfigRawInput) { in.Precision = MaxPrecision + 1 },
			expectError: true,
		},
		{
			name:        "invalid output format",
			modify:      func(in *ConfigRawInput) { in.Output = "xlsx" },
			expectError: true,
		},
		{
			name:   "parquet output",
			modify: func(in *ConfigRawInput) { in.Output = "PARQUET" },
		},
		{
			name:        "invalid emoji value",
			modify:      func(in *ConfigRawInput) { in.Emoji = "maybe" },
			expectError: true,
		},
		{
			name:        "negative session",
			modify:      func(in *ConfigRawInput) { in.Session = -1 },
			expectError: true,
		},
		{
			name:        "invalid sede",
			modify:      func(in *ConfigRawInput) { in.Sede = "UNAL" },
			expectError: true,
		},
		{
			name:        "invalid area",
			modify:      func(in *ConfigRawInput) { in.Area = "Música" },
			expectError: true,
		},
		{
			name:        "invalid notes backend",
			modify:      func(in *ConfigRawInput) { in.NotesBackend = "redis" },
			expectError: true,
		},
		{
			name:        "mysql notes backend without connection string",
			modify:      func(in *ConfigRawInput) { in.NotesBackend = string(schema.MySQLBackend) },
			expectError: true,
		},
		{
			name: "mysql notes backend with connection string",
			modify: func(in *ConfigRawInput) {
				in.NotesBackend = string(schema.MySQLBackend)
				in.NotesDBConnect = "user:pass@tcp(localhost:3306)/panel"
			},
		},
		{
			name: "postgresql history backend with connection string",
			modify: func(in *ConfigRawInput) {
				in.HistoryBackend = string(schema.PostgreSQLBackend)
				in.HistoryDBConnect = "host=localhost port=5432 user=postgres dbname=panel"
			},
		},
		{
			name:        "invalid history backend",
			modify:      func(in *ConfigRawInput) { in.HistoryBackend = "mongo" },
			expectError: true,
		},
		{
			name: "notes and history on the same sqlite file",
			modify: func(in *ConfigRawInput) {
				in.HistoryBackend = string(schema.SQLiteBackend)
				in.NotesDBConnect = "/tmp/panel.db"
				in.HistoryDBConnect = "/tmp/panel.db"
			},
			expectError: true,
		},
		{
			name: "notes and history on default sqlite files",
			modify: func(in *ConfigRawInput) {
				in.HistoryBackend = string(schema.SQLiteBackend)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.modify(input)

			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)

			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, input.Limit, cfg.ResultLimit)
			assert.Equal(t, input.Workers, cfg.Workers)
		})
	}
}

func TestProcessAndValidate_Defaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.Equal(t, schema.DefaultFilter, cfg.Filter)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, schema.DefaultExcludedAccounts, cfg.ExcludedAccounts)
	assert.Empty(t, cfg.HistoryBackend)
	assert.False(t, cfg.UseEmojis)
	assert.True(t, cfg.UseColors)
}

func TestProcessAndValidate_DataPaths(t *testing.T) {
	t.Run("positional args win", func(t *testing.T) {
		input := validInput()
		input.Data = []string{"configured/"}
		input.DataArgs = []string{"a.csv", " ", "b.csv"}

		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, []string{"a.csv", "b.csv"}, cfg.DataPaths)
	})

	t.Run("falls back to configured data", func(t *testing.T) {
		input := validInput()
		input.Data = []string{"configured/"}

		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, []string{"configured/"}, cfg.DataPaths)
	})
}

func TestProcessAndValidate_ExcludedAccounts(t *testing.T) {
	input := validInput()
	input.ExcludedAccounts = []string{" PROFE DEMO ", ""}

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, []string{"PROFE DEMO"}, cfg.ExcludedAccounts)
	assert.Len(t, schema.DefaultExcludedAccounts, 4, "defaults must not be mutated")
}

func TestParseSedeFilter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected schema.SedeFilter
		wantErr  bool
	}{
		{name: "empty means all", input: "", expected: schema.AllSedes},
		{name: "todas", input: "Todas", expected: schema.AllSedes},
		{name: "lowercase sg", input: "sg", expected: schema.SedeFilter(schema.SedeSG)},
		{name: "ietac", input: "IETAC", expected: schema.SedeFilter(schema.SedeIETAC)},
		{name: "otro", input: "otro", expected: schema.SedeFilter(schema.SedeOther)},
		{name: "unknown", input: "UNAL", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSedeFilter(tt.input)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidFilter))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseAreaFilter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected schema.AreaFilter
		wantErr  bool
	}{
		{name: "empty means all", input: "", expected: schema.AllAreas},
		{name: "exact", input: "Matemáticas", expected: schema.AreaFilter(schema.AreaMatematicas)},
		{name: "without accents", input: "matematicas", expected: schema.AreaFilter(schema.AreaMatematicas)},
		{name: "uppercase", input: "LECTURA CRITICA", expected: schema.AreaFilter(schema.AreaLectura)},
		{name: "ingles", input: "ingles", expected: schema.AreaFilter(schema.AreaIngles)},
		{name: "general", input: "General", expected: schema.AreaFilter(schema.AreaGeneral)},
		{name: "unknown", input: "Química", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAreaFilter(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFilter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{
		DataPaths:        []string{"a.csv"},
		ExcludedAccounts: []string{"X"},
		Filter:           schema.DefaultFilter,
	}
	clone := cfg.CloneWithFilter(schema.FilterState{Sede: schema.SedeFilter(schema.SedeSG), Area: schema.AllAreas})
	clone.DataPaths[0] = "b.csv"
	clone.ExcludedAccounts[0] = "Y"

	assert.Equal(t, "a.csv", cfg.DataPaths[0])
	assert.Equal(t, "X", cfg.ExcludedAccounts[0])
	assert.Equal(t, schema.AllSedes, cfg.Filter.Sede)
	assert.Equal(t, schema.SedeFilter(schema.SedeSG), clone.Filter.Sede)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "root:pw@tcp(localhost:3306)/panel", false},
		{"mysql missing tcp", schema.MySQLBackend, "root:pw@localhost/panel", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost dbname=panel", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
