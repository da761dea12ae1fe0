// Package cmd defines the command-line interface for panel.
package cmd

import (
	"github.com/seamosgenios/panel/internal/contract"
	"github.com/seamosgenios/panel/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(studentsCmd)
	rootCmd.AddCommand(studentCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(rankingCmd)
	rootCmd.AddCommand(alertsCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(heatmapCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(notesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the notes subcommands to the parent notes command
	notesCmd.AddCommand(notesSetCmd)
	notesCmd.AddCommand(notesShowCmd)
	notesCmd.AddCommand(notesContactCmd)
	notesCmd.AddCommand(notesStatusCmd)
	notesCmd.AddCommand(notesClearCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringSlice("data", []string{"."}, "Attendance CSV files or directories (positional args take precedence)")
	rootCmd.PersistentFlags().String("seed", "", "JSON file of sessions loaded before the attendance files")
	rootCmd.PersistentFlags().String("sede", string(schema.AllSedes), "Institution filter: todas or SG or IETAC or OTRO")
	rootCmd.PersistentFlags().String("area", string(schema.AllAreas), "Area filter: todas or an area name such as Matemáticas")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent file reads")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().StringSlice("excluded-accounts", schema.DefaultExcludedAccounts, "Accounts left out of every metric")
	rootCmd.PersistentFlags().String("notes-backend", string(schema.SQLiteBackend), "Notes backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("notes-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("history-backend", "", "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for run history (must differ from notes-db-connect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("emoji", "no", "Enable emojis in output headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// The session flag is bound to Viper by the PreRunE of the command that runs
	rankingCmd.Flags().Int("session", 0, "1-based session index for the per-class ranking (0 = unified ranking)")
	sessionsCmd.Flags().Int("session", 0, "1-based session index to list its attendees (0 = all sessions)")

	// Bind all flags of notesContactCmd to Viper
	notesContactCmd.Flags().Bool("off", false, "Clear the contacted flag instead of setting it")
	if err := viper.BindPFlags(notesContactCmd.Flags()); err != nil {
		contract.LogFatal("Error binding notes contact flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
