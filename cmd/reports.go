package cmd

import (
	"github.com/seamosgenios/panel/core"
	"github.com/seamosgenios/panel/internal/contract"
	"github.com/spf13/cobra"
)

// alertsCmd lists students who need follow-up or recognition.
var alertsCmd = &cobra.Command{
	Use:   "alerts [data-path...]",
	Short: "List students at risk, needing attention, or with excellent attendance.",
	Long: `Group students for follow-up:
- Risk: attended less than half of the sessions
- Attention: attends enough but stays less than 45 minutes on average
- Excellent: attended every session and stays at least 90 minutes

Examples:
  panel alerts ./asistencia --sede IETAC`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAlerts(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot build alerts", err)
		}
	},
}

// summaryCmd prints the dashboard KPIs.
var summaryCmd = &cobra.Command{
	Use:   "summary [data-path...]",
	Short: "Show dashboard KPIs and distributions.",
	Long: `Show the dashboard indicators for the active filters: totals, average attendance
and engagement, stay statistics, punctuality, join hours, sede distribution and
histograms. Filter selector counts cover the whole history.

Examples:
  panel summary ./asistencia
  panel summary ./asistencia --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSummary(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot build summary", err)
		}
	},
}

// heatmapCmd prints the student by session grid.
var heatmapCmd = &cobra.Command{
	Use:   "heatmap [data-path...]",
	Short: "Show a student by session grid of minutes attended.",
	Long: `Show one row per student and one column per filtered session. Cells hold the
minutes attended, shaded low (< 45), mid (< 90) or high.

Examples:
  panel heatmap ./asistencia --area lectura --limit 40`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHeatmap(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot build heatmap", err)
		}
	},
}
