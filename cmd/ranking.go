package cmd

import (
	"github.com/seamosgenios/panel/core"
	"github.com/seamosgenios/panel/internal/contract"
	"github.com/spf13/cobra"
)

// rankingCmd ranks students across sessions or within one session.
var rankingCmd = &cobra.Command{
	Use:   "ranking [data-path...]",
	Short: "Rank students by the unified score or one session by the class score.",
	Long: `Rank students across every filtered session by the unified score, which blends
attendance, average stay and punctuality against the typical class start.

With --session N only the attendees of the N-th filtered session are ranked,
by stay and by delay against the first join of that class.

Examples:
  # Top 10 students overall
  panel ranking ./asistencia --limit 10

  # Ranking of the third math class
  panel ranking ./asistencia --area matematicas --session 3`,
	PreRunE: sessionSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRanking(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot build ranking", err)
		}
	},
}
