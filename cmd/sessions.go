package cmd

import (
	"github.com/seamosgenios/panel/core"
	"github.com/seamosgenios/panel/internal/contract"
	"github.com/spf13/cobra"
)

// sessionsCmd summarizes the loaded sessions.
var sessionsCmd = &cobra.Command{
	Use:   "sessions [data-path...]",
	Short: "Summarize each class session, or list the attendees of one.",
	Long: `Show attendance statistics for every session that passes the area filter:
valid attendees, mean and median stay, retention (stayed at least an hour)
and desertion. The first two sessions are compared.

With --session N the attendees of the N-th filtered session are listed, longest
stay first, with their progress toward the full class length.

Examples:
  panel sessions ./asistencia
  panel sessions ./asistencia --session 2`,
	PreRunE: sessionSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSessions(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot summarize sessions", err)
		}
	},
}
