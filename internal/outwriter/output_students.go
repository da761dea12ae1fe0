package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/seamosgenios/panel/core/parse"
	"github.com/seamosgenios/panel/internal/contract"
	"github.com/seamosgenios/panel/internal/parquet"
	"github.com/seamosgenios/panel/schema"
)

// ErrParquetNeedsFile is returned when parquet output is requested without --output-file.
var ErrParquetNeedsFile = errors.New("parquet output requires --output-file")

// studentReportHeader is the column layout of the exported student report.
var studentReportHeader = []string{
	"Estudiante", "Sede", "Área", "Correo", "Sesiones Asistidas", "Total Sesiones",
	"% Asistencia", "Duración Promedio", "Engagement", "Estado", "Contactado", "Nota",
}

// WriteStudents outputs the student listing in the configured format.
func WriteStudents(students []schema.EnrichedStudent, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, students)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStudentsCSV(w, students)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return ErrParquetNeedsFile
		}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteStudents(w, parquet.ConvertEnrichedStudents(students))
		}, "Wrote parquet")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStudentsTable(w, students, cfg, fmtFloat, intFmt, duration)
		}, "Wrote table")
	}
}

// writeStudentsCSV writes the spreadsheet-friendly report, BOM included.
func writeStudentsCSV(w io.Writer, students []schema.EnrichedStudent) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}
	return writeCSVWithHeader(w, studentReportHeader, func(cw *csv.Writer) error {
		records := make([][]string, 0, len(students))
		for _, s := range students {
			records = append(records, []string{
				s.Name,
				string(s.Sede),
				string(s.Area),
				s.Email,
				strconv.Itoa(s.Attended),
				strconv.Itoa(s.TotalSessions),
				percent(s.AttRate),
				parse.FormatMinutes(s.AvgDuration),
				strconv.Itoa(s.Engagement),
				s.Status,
				yesNo(s.Contacted),
				flattenNote(s.Note),
			})
		}
		return writeRecords(cw, records)
	})
}

// writeStudentsTable renders the student listing as a table.
func writeStudentsTable(w io.Writer, students []schema.EnrichedStudent, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Estudiante", "Sede", "Área", "Asist.", "%", "Prom.", "Engagement", "Nivel", "Estado", "Contactado"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxNameWidth(cfg, 110)
	var data [][]string
	for _, s := range students {
		data = append(data, []string{
			strconv.Itoa(s.Rank),
			contract.TruncateName(s.Name, nameWidth),
			contract.GetColorSede(s.Sede),
			string(s.Area),
			fmt.Sprintf("%d/%d", s.Attended, s.TotalSessions),
			fmtFloat(s.AttRate * 100),
			parse.FormatMinutes(s.AvgDuration),
			fmt.Sprintf(intFmt, s.Engagement),
			contract.GetColorLabel(float64(s.Engagement)),
			contract.GetColorStatus(s.Status),
			yesNo(s.Contacted),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	totalSessions := 0
	if len(students) > 0 {
		totalSessions = students[0].TotalSessions
	}
	if _, err := fmt.Fprintf(w, "Showing %d students over %d sessions\n", len(students), totalSessions); err != nil {
		return err
	}
	return writeFooter(w, cfg, fmt.Sprintf("Computed in %v with %d workers", duration, cfg.Workers))
}

// WriteStudentDetail outputs a single student's metrics, attendance history and side-state.
func WriteStudentDetail(detail schema.StudentDetail, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, detail)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStudentEntriesCSV(w, detail)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStudentDetailText(w, detail, cfg)
		}, "Wrote text")
	}
}

// writeStudentEntriesCSV writes one line per attended session.
func writeStudentEntriesCSV(w io.Writer, detail schema.StudentDetail) error {
	header := []string{"Estudiante", "Sesión", "Fecha", "Duración", "Minutos", "Ingreso", "Salida"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		records := make([][]string, 0, len(detail.Metrics.Entries))
		for _, e := range detail.Metrics.Entries {
			records = append(records, []string{
				detail.Metrics.Name,
				e.SessionName,
				e.Date,
				e.DurationText,
				strconv.Itoa(e.DurationMinutes),
				e.JoinTime,
				e.LeaveTime,
			})
		}
		return writeRecords(cw, records)
	})
}

func writeStudentDetailText(w io.Writer, detail schema.StudentDetail, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	m := detail.Metrics

	if err := writeTitle(w, cfg, "🎓", m.Name); err != nil {
		return err
	}
	institution := schema.Institutions[m.Sede].FullName
	lines := []string{
		fmt.Sprintf("Correo:        %s", m.Email),
		fmt.Sprintf("Sede:          %s (%s)", contract.GetColorSede(m.Sede), institution),
		fmt.Sprintf("Área:          %s", m.Area),
		fmt.Sprintf("Asistencia:    %d/%d (%s) %s", m.Attended, m.TotalSessions, percent(m.AttRate), contract.GetColorStatus(schema.GetAttendanceStatus(m.AttRate))),
		fmt.Sprintf("Duración:      %s total, %s promedio", parse.FormatMinutes(float64(m.TotalDuration)), parse.FormatMinutes(m.AvgDuration)),
		fmt.Sprintf("Engagement:    %d %s", m.Engagement, contract.GetColorLabel(float64(m.Engagement))),
		fmt.Sprintf("Ranking:       #%d (puntaje %s)", detail.UnifiedRank, fmtFloat(detail.Unified)),
		fmt.Sprintf("Contactado:    %s", yesNo(detail.Contacted)),
	}
	if detail.Note != "" {
		lines = append(lines, fmt.Sprintf("Nota:          %s", flattenNote(detail.Note)))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Sesión", "Fecha", "Duración", "Ingreso", "Salida"})
	var data [][]string
	for _, e := range m.Entries {
		data = append(data, []string{e.SessionName, e.Date, e.DurationText, e.JoinTime, e.LeaveTime})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
