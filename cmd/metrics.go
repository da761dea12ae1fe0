package cmd

import (
	"github.com/seamosgenios/panel/core"
	"github.com/seamosgenios/panel/internal/contract"
	"github.com/spf13/cobra"
)

// metricsCmd displays the formal definitions of the scoring formulas.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display the formulas behind engagement and the rankings",
	Long: `Show the definitions, factor weights and rounding of the three scores:
- Engagement: attendance, average stay and a consistency tier
- Unified ranking: attendance, average stay and punctuality
- Class ranking: stay and delay within one session

No attendance data is read - this is purely informational.

Examples:
  panel metrics
  panel metrics --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetrics(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot display metrics", err)
		}
	},
}
