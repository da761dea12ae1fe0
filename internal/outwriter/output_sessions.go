package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/seamosgenios/panel/core/parse"
	"github.com/seamosgenios/panel/internal/contract"
	"github.com/seamosgenios/panel/schema"
)

// progressBarWidth is the number of cells in a session detail progress bar.
const progressBarWidth = 10

var sessionStatsHeader = []string{
	"index", "session_id", "name", "date", "time", "area", "sede", "attendees",
	"avg_duration", "median_duration", "retained", "retention_pct", "deserted", "desertion_pct",
}

// WriteSessions outputs the per-session stats and the two-session comparison.
func WriteSessions(report schema.SessionReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, sessionStatsHeader, func(cw *csv.Writer) error {
				records := make([][]string, 0, len(report.Sessions))
				for _, s := range report.Sessions {
					records = append(records, sessionStatsRecord(s, fmtFloat))
				}
				return writeRecords(cw, records)
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSessionsTable(w, report, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
}

func sessionStatsRecord(s schema.SessionStats, fmtFloat func(float64) string) []string {
	return []string{
		strconv.Itoa(s.Index),
		strconv.Itoa(s.SessionID),
		s.Name,
		s.Date,
		s.Time,
		string(s.Area),
		string(s.Sede),
		strconv.Itoa(s.Attendees),
		fmtFloat(s.AvgDuration),
		fmtFloat(s.MedianDuration),
		strconv.Itoa(s.Retained),
		strconv.Itoa(s.RetentionPct),
		strconv.Itoa(s.Deserted),
		strconv.Itoa(s.DesertionPct),
	}
}

func writeSessionsTable(w io.Writer, report schema.SessionReport, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	if err := writeTitle(w, cfg, "📅", "Sesiones"); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Sesión", "Fecha", "Área", "Sede", "Asistentes", "Prom.", "Mediana", "Retención", "Deserción"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxNameWidth(cfg, 100)
	var data [][]string
	for _, s := range report.Sessions {
		data = append(data, []string{
			strconv.Itoa(s.Index),
			contract.TruncateName(s.Name, nameWidth),
			s.Date,
			string(s.Area),
			contract.GetColorSede(s.Sede),
			strconv.Itoa(s.Attendees),
			parse.FormatMinutes(s.AvgDuration),
			parse.FormatMinutes(s.MedianDuration),
			fmt.Sprintf("%d%%", s.RetentionPct),
			fmt.Sprintf("%d%%", s.DesertionPct),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if c := report.Comparison; c != nil {
		if _, err := fmt.Fprintf(w, "\n%s\n", heading(cfg, "🔁", "Comparación")); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s (%s) -> %s (%s): asistentes %+d, duración %s min\n",
			c.First.Name, c.First.Date, c.Second.Name, c.Second.Date,
			c.AttendeesDelta, signed(fmtFloat(c.DurationDelta))); err != nil {
			return err
		}
	}
	return writeFooter(w, cfg, fmt.Sprintf("Summarized %d sessions in %v", len(report.Sessions), duration))
}

// signed prefixes non-negative formatted numbers with '+'.
func signed(formatted string) string {
	if strings.HasPrefix(formatted, "-") {
		return formatted
	}
	return "+" + formatted
}

// WriteSessionDetail outputs the attendees of one session.
func WriteSessionDetail(detail schema.SessionDetail, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, detail)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"Estudiante", "Correo", "Duración", "Minutos", "Ingreso", "Salida", "Permanencia"}
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				records := make([][]string, 0, len(detail.Attendees))
				for _, a := range detail.Attendees {
					records = append(records, []string{
						a.Name, a.Email, a.DurationText, strconv.Itoa(a.DurationMinutes),
						a.JoinTime, a.LeaveTime, fmt.Sprintf("%d%%", a.ProgressPct),
					})
				}
				return writeRecords(cw, records)
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSessionDetailTable(w, detail, cfg)
		}, "Wrote table")
	}
}

// progressBar draws a fixed-width bar for a 0-100 percentage.
func progressBar(pct int) string {
	filled := min(max(pct, 0), 100) * progressBarWidth / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", progressBarWidth-filled)
}

func writeSessionDetailTable(w io.Writer, detail schema.SessionDetail, cfg *contract.Config) error {
	st := detail.Stats
	if err := writeTitle(w, cfg, "📋", fmt.Sprintf("%s (%s)", st.Name, st.Date)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Área: %s. Sede: %s. Asistentes: %d. Retención: %d%%\n",
		st.Area, contract.GetColorSede(st.Sede), st.Attendees, st.RetentionPct); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Estudiante", "Correo", "Duración", "Ingreso", "Salida", "Permanencia"})

	nameWidth := getMaxNameWidth(cfg, 90)
	var data [][]string
	for _, a := range detail.Attendees {
		data = append(data, []string{
			contract.TruncateName(a.Name, nameWidth),
			a.Email,
			a.DurationText,
			a.JoinTime,
			a.LeaveTime,
			fmt.Sprintf("%s %3d%%", progressBar(a.ProgressPct), a.ProgressPct),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
