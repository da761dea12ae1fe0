package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/seamosgenios/panel/core"
	"github.com/seamosgenios/panel/internal/contract"
	"github.com/seamosgenios/panel/internal/persist"
	"github.com/seamosgenios/panel/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// notesSetup loads the minimal configuration needed for note operations.
// This is used by commands that need the side-state store without loading attendance data.
func notesSetup() error {
	if err := readConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("notes-backend")))
	connStr := viper.GetString("notes-db-connect")
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid notes backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// No history tracking for note commands
	if err := persist.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize notes: %w", err)
	}

	cfg.NotesBackend = backend
	cfg.NotesDBConnect = connStr
	return nil
}

// notesSetupWrapper wraps notesSetup to provide PreRunE for note commands.
func notesSetupWrapper(_ *cobra.Command, _ []string) error {
	return notesSetup()
}

// sqliteFilePath is the database file a SQLite store uses for a connection string.
func sqliteFilePath(connStr, defaultPath string) string {
	if connStr != "" {
		return connStr
	}
	return defaultPath
}

// notesCmd focused on per-student notes and contacted flags.
//
// Note: Notes subcommands use minimal initialization (notesSetup) instead of
// the full sharedSetup. No attendance data is read.
var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Manage per-student notes and contacted flags",
	Long: `Keep free-text notes and a contacted flag for each student.

Notes never change any score. They show up in the students report, the student
detail and the summary counts.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  set     - Store or clear a note
  show    - Print the note and contacted flag of a student
  contact - Mark a student as contacted (or not, with --off)
  status  - Show store statistics and connection info
  clear   - Remove every note and flag`,
}

// notesSetCmd stores a note.
var notesSetCmd = &cobra.Command{
	Use:   "set <name> [note...]",
	Short: "Store a note for a student (no text clears it)",
	Long: `Store a free-text note for a student. Names are matched like attendance rows,
so "sg - valeria ausecha campo" and "Valeria Ausecha Campo" are the same student.

Examples:
  panel notes set "Valeria Ausecha Campo" "Llamar a la familia el lunes"

  # Clear the note
  panel notes set "Valeria Ausecha Campo"`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: notesSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		note := strings.TrimSpace(strings.Join(args[1:], " "))
		if err := core.ExecuteNoteSet(args[0], note)(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Failed to save note", err)
		}
	},
}

// notesShowCmd prints the side-state of a student.
var notesShowCmd = &cobra.Command{
	Use:     "show <name>",
	Short:   "Print the note and contacted flag of a student",
	Args:    cobra.ExactArgs(1),
	PreRunE: notesSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteNoteShow(args[0])(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Failed to read note", err)
		}
	},
}

// notesContactCmd sets or clears the contacted flag.
var notesContactCmd = &cobra.Command{
	Use:   "contact <name>",
	Short: "Mark a student as contacted",
	Long: `Mark a student as contacted. Use --off to clear the flag.

Examples:
  panel notes contact "Bruno Díaz"
  panel notes contact "Bruno Díaz" --off`,
	Args:    cobra.ExactArgs(1),
	PreRunE: notesSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		contacted := !viper.GetBool("off")
		if err := core.ExecuteContact(args[0], contacted)(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Failed to update contacted flag", err)
		}
	},
}

// notesStatusCmd shows the side-state store status.
var notesStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display notes statistics and connection details",
	Long: `Show the backend, the number of students with a note or a contacted flag, and
the last and oldest update timestamps.

Examples:
  panel notes status`,
	PreRunE: notesSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := persist.Manager.GetSideStateStore()
		if store == nil {
			contract.LogFatal("Failed to get notes status", fmt.Errorf("notes are disabled"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get notes status", err)
		}
		persist.PrintSideStateStatus(os.Stdout, status)
	},
}

// notesClearCmd removes every note.
var notesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every note and contacted flag",
	Long: `Delete all notes and contacted flags from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the notes table

WARNING: This action cannot be undone.

Examples:
  PANEL_NOTES_BACKEND=mysql PANEL_NOTES_DB_CONNECT="..." panel notes clear`,
	PreRunE: notesSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dbPath := sqliteFilePath(cfg.NotesDBConnect, contract.GetNotesDBFilePath())
		if err := persist.ClearSideState(cfg.NotesBackend, dbPath, cfg.NotesDBConnect); err != nil {
			contract.LogFatal("Failed to clear notes", err)
		}
		fmt.Println("Notes cleared successfully.")
	},
}
