package contract

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"strings"
	"unicode"

	"github.com/seamosgenios/panel/schema"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Default values for configuration.
const (
	DefaultResultLimit = 25
	MaxResultLimit     = 1000
	DefaultPrecision   = 1
	MaxPrecision       = 4
)

// DefaultWorkers is the default number of concurrent file reads.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// ErrInvalidFilter is returned when a sede or area filter value is not recognized.
var ErrInvalidFilter = errors.New("invalid filter")

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for the panel.
// This struct is the "final, validated" config.
type Config struct {
	DataPaths        []string
	SeedPath         string
	Filter           schema.FilterState
	ResultLimit      int
	Workers          int
	Precision        int
	Output           schema.OutputMode
	OutputFile       string
	Width            int // Terminal width override (0 = auto-detect)
	SessionIndex     int // 1-based session for the per-class ranking, 0 = global ranking
	ExcludedAccounts []string

	NotesBackend   schema.DatabaseBackend
	NotesDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	DataArgs []string

	// --- Fields from rootCmd.PersistentFlags() ---
	Data             []string `mapstructure:"data"`
	Seed             string   `mapstructure:"seed"`
	Sede             string   `mapstructure:"sede"`
	Area             string   `mapstructure:"area"`
	Limit            int      `mapstructure:"limit"`
	Workers          int      `mapstructure:"workers"`
	Precision        int      `mapstructure:"precision"`
	Output           string   `mapstructure:"output"`
	OutputFile       string   `mapstructure:"output-file"`
	Width            int      `mapstructure:"width"`
	Emoji            string   `mapstructure:"emoji"`
	Color            string   `mapstructure:"color"`
	ExcludedAccounts []string `mapstructure:"excluded-accounts"`
	NotesBackend     string   `mapstructure:"notes-backend"`
	NotesDBConnect   string   `mapstructure:"notes-db-connect"`
	HistoryBackend   string   `mapstructure:"history-backend"`
	HistoryDBConnect string   `mapstructure:"history-db-connect"`

	// --- Fields from rankingCmd.Flags() ---
	Session int `mapstructure:"session"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.DataPaths = slices.Clone(c.DataPaths)
	clone.ExcludedAccounts = slices.Clone(c.ExcludedAccounts)
	return &clone
}

// CloneWithFilter creates a copy of the Config with a different filter state.
func (c *Config) CloneWithFilter(filter schema.FilterState) *Config {
	clone := c.Clone()
	clone.Filter = filter
	return clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processFilters(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	processDataPaths(cfg, input)
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.SeedPath = strings.TrimSpace(input.Seed)

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	if input.Session < 0 {
		return fmt.Errorf("session must be 0 or a 1-based session index (received %d)", input.Session)
	}
	cfg.SessionIndex = input.Session

	cfg.ExcludedAccounts = slices.Clone(schema.DefaultExcludedAccounts)
	if len(input.ExcludedAccounts) > 0 {
		cfg.ExcludedAccounts = cfg.ExcludedAccounts[:0]
		for _, name := range input.ExcludedAccounts {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				cfg.ExcludedAccounts = append(cfg.ExcludedAccounts, trimmed)
			}
		}
	}

	return nil
}

// processFilters resolves the sede and area filters.
func processFilters(cfg *Config, input *ConfigRawInput) error {
	sede, err := ParseSedeFilter(input.Sede)
	if err != nil {
		return err
	}
	area, err := ParseAreaFilter(input.Area)
	if err != nil {
		return err
	}
	cfg.Filter = schema.FilterState{Sede: sede, Area: area}
	return nil
}

// processDataPaths picks positional args over the configured data paths.
func processDataPaths(cfg *Config, input *ConfigRawInput) {
	paths := input.DataArgs
	if len(paths) == 0 {
		paths = input.Data
	}
	cfg.DataPaths = cfg.DataPaths[:0]
	for _, p := range paths {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			cfg.DataPaths = append(cfg.DataPaths, trimmed)
		}
	}
}

// ParseSedeFilter resolves a sede filter case-insensitively. Empty means all sedes.
func ParseSedeFilter(value string) (schema.SedeFilter, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, string(schema.AllSedes)) {
		return schema.AllSedes, nil
	}
	for _, sede := range schema.AllSedeValues {
		if strings.EqualFold(value, string(sede)) {
			return schema.SedeFilter(sede), nil
		}
	}
	return "", fmt.Errorf("%w: sede '%s'. must be todas, SG, IETAC, OTRO", ErrInvalidFilter, value)
}

// ParseAreaFilter resolves an area filter ignoring case and accents. Empty means all areas.
func ParseAreaFilter(value string) (schema.AreaFilter, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, string(schema.AllAreas)) {
		return schema.AllAreas, nil
	}
	folded := foldAccents(value)
	for _, area := range schema.AllAreaValues {
		if strings.EqualFold(folded, foldAccents(string(area))) {
			return schema.AreaFilter(area), nil
		}
	}
	names := make([]string, len(schema.AllAreaValues))
	for i, area := range schema.AllAreaValues {
		names[i] = string(area)
	}
	return "", fmt.Errorf("%w: area '%s'. must be todas or one of: %s", ErrInvalidFilter, value, strings.Join(names, ", "))
}

// foldAccents removes combining marks so "Matematicas" matches "Matemáticas".
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates notes and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Notes Backend Validation ---
	cfg.NotesBackend = schema.DatabaseBackend(strings.ToLower(input.NotesBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.NotesBackend]; !ok {
		return fmt.Errorf("invalid notes backend '%s'. must be sqlite, mysql, postgresql, none", input.NotesBackend)
	}
	cfg.NotesDBConnect = input.NotesDBConnect
	if err := ValidateDatabaseConnectionString(cfg.NotesBackend, cfg.NotesDBConnect); err != nil {
		return err
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	// For SQLite, resolve to actual file paths to catch default path conflicts
	if cfg.NotesBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		notesPath := cfg.NotesDBConnect
		if notesPath == "" {
			notesPath = GetNotesDBFilePath()
		}
		historyPath := cfg.HistoryDBConnect
		if historyPath == "" {
			historyPath = GetHistoryDBFilePath()
		}
		if notesPath == historyPath {
			return fmt.Errorf("notes and history storage must use different SQLite database files. Both resolve to %q", notesPath)
		}
	}

	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
