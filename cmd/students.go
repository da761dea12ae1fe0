package cmd

import (
	"github.com/seamosgenios/panel/core"
	"github.com/seamosgenios/panel/internal/contract"
	"github.com/spf13/cobra"
)

// studentsCmd lists every student with attendance metrics.
var studentsCmd = &cobra.Command{
	Use:   "students [data-path...]",
	Short: "List every student with attendance, duration and engagement.",
	Long: `Load the attendance exports and list every student under the active filters.

Each student shows:
- Sede and dominant subject area
- Sessions attended out of the filtered sessions
- Average stay and engagement score
- Status, contacted flag and note

Students are sorted by name. When --history-backend is set, the run and each
student's scores are recorded for later export.

Examples:
  # All students from the exports in ./asistencia
  panel students ./asistencia

  # Only Seamos Genios students in math classes
  panel students ./asistencia --sede SG --area matematicas

  # Export the report for a spreadsheet
  panel students ./asistencia --output csv --output-file reporte.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStudents(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot list students", err)
		}
	},
}

// studentCmd shows one student in detail.
var studentCmd = &cobra.Command{
	Use:   "student <name>",
	Short: "Show one student's sessions, metrics, rank and note.",
	Long: `Show the detail of one student: every attended session with its duration and
join time, the aggregated metrics, the position in the unified ranking and the
stored note and contacted flag.

The name is matched like attendance rows: case, surrounding spaces and sede
prefixes such as "SG - " are ignored. Data paths come from --data.

Examples:
  panel student "Valeria Ausecha Campo" --data ./asistencia`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return sharedSetup(rootCtx, cmd, nil)
	},
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteStudent(args[0])(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot show student", err)
		}
	},
}
