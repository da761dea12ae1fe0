package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/seamosgenios/panel/schema"
)

// Color variables for console output.
var (
	CriticalColor  = color.New(color.FgRed, color.Bold)   // CriticalColor represents standard danger.
	LowColor       = color.New(color.FgRed)               // LowColor is a weaker warning than critical.
	MediumColor    = color.New(color.FgYellow)            // MediumColor represents standard caution, not bold.
	HighColor      = color.New(color.FgCyan)              // HighColor represents a healthy signal.
	ExcellentColor = color.New(color.FgGreen, color.Bold) // ExcellentColor represents the best band.
	WarnColor      = color.New(color.FgYellow)            // WarnColor is used by LogWarn.
)

// sedeColors mirror the institution palette: violet, cyan and amber.
var sedeColors = map[schema.Sede]*color.Color{
	schema.SedeSG:    color.New(color.FgMagenta),
	schema.SedeIETAC: color.New(color.FgCyan),
	schema.SedeOther: color.New(color.FgYellow),
}

// GetColorLabel returns a colored engagement label for console output (table).
// It uses schema.GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(score float64) string {
	text := schema.GetPlainLabel(score)

	switch text {
	case schema.LabelExcellent:
		return ExcellentColor.Sprint(text)
	case schema.LabelHigh:
		return HighColor.Sprint(text)
	case schema.LabelMedium:
		return MediumColor.Sprint(text)
	case schema.LabelLow:
		return LowColor.Sprint(text)
	default:
		return CriticalColor.Sprint(text)
	}
}

// GetColorStatus returns a colored attendance status.
func GetColorStatus(status string) string {
	switch status {
	case schema.StatusExcellent:
		return ExcellentColor.Sprint(status)
	case schema.StatusAttention:
		return MediumColor.Sprint(status)
	default:
		return CriticalColor.Sprint(status)
	}
}

// GetColorSede returns the sede colored with its institution color.
func GetColorSede(sede schema.Sede) string {
	if c, ok := sedeColors[sede]; ok {
		return c.Sprint(string(sede))
	}
	return string(sede)
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It returns os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintln(os.Stderr, WarnColor.Sprintf("Warn %s: %v", msg, err))
}

// GetNotesDBFilePath returns the path to the SQLite DB file for notes and contacted flags.
func GetNotesDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".panel_notes.db"
	}
	return filepath.Join(homeDir, ".panel_notes.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".panel_history.db"
	}
	return filepath.Join(homeDir, ".panel_history.db")
}

// TruncateName truncates a name to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the "..." and at least one character.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
