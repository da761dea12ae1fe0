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

// histogramBarWidth is the widest bar drawn in text histograms.
const histogramBarWidth = 30

// Alert categories as they appear in CSV output.
const (
	alertRisk      = "riesgo"
	alertWarn      = "atencion"
	alertExcellent = "excelente"
)

// heatSymbols maps each heat level to its text cell.
var heatSymbols = map[schema.HeatLevel]string{
	schema.HeatAbsent: "·",
	schema.HeatLow:    "░",
	schema.HeatMid:    "▒",
	schema.HeatHigh:   "█",
}

// WriteAlerts outputs the risk, warn and excellent lists.
func WriteAlerts(alerts schema.AlertList, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, alerts)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAlertsCSV(w, alerts, fmtFloat)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAlertsText(w, alerts, cfg, duration)
		}, "Wrote text")
	}
}

func writeAlertsCSV(w io.Writer, alerts schema.AlertList, fmtFloat func(float64) string) error {
	header := []string{"category", "name", "sede", "attended", "total_sessions", "att_rate", "avg_duration", "total_duration", "engagement"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		groups := []struct {
			category string
			students []schema.StudentMetrics
		}{
			{alertRisk, alerts.Risk},
			{alertWarn, alerts.Warn},
			{alertExcellent, alerts.Excellent},
		}
		for _, g := range groups {
			for _, s := range g.students {
				rec := []string{
					g.category,
					s.Name,
					string(s.Sede),
					strconv.Itoa(s.Attended),
					strconv.Itoa(s.TotalSessions),
					fmtFloat(s.AttRate),
					fmtFloat(s.AvgDuration),
					strconv.Itoa(s.TotalDuration),
					strconv.Itoa(s.Engagement),
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func writeAlertsText(w io.Writer, alerts schema.AlertList, cfg *contract.Config, duration time.Duration) error {
	sections := []struct {
		emoji, title string
		students     []schema.StudentMetrics
	}{
		{"🚨", "En riesgo (asistencia < 50%)", alerts.Risk},
		{"⚠️", "Atención (duración promedio < 45 min)", alerts.Warn},
		{"🌟", "Excelentes (asistencia completa y >= 90 min)", alerts.Excellent},
	}

	nameWidth := getMaxNameWidth(cfg, 60)
	for _, sec := range sections {
		if err := writeTitle(w, cfg, sec.emoji, fmt.Sprintf("%s: %d", sec.title, len(sec.students))); err != nil {
			return err
		}
		if len(sec.students) == 0 {
			if _, err := fmt.Fprintln(w, "Sin estudiantes"); err != nil {
				return err
			}
		} else {
			table := tablewriter.NewWriter(w)
			table.Header([]string{"Estudiante", "Sede", "Asist.", "Prom.", "Total", "Engagement"})
			table.Configure(func(c *tablewriter.Config) {
				c.Row.Alignment.Global = tw.AlignRight
			})
			var data [][]string
			for _, s := range sec.students {
				data = append(data, []string{
					contract.TruncateName(s.Name, nameWidth),
					contract.GetColorSede(s.Sede),
					fmt.Sprintf("%d/%d", s.Attended, s.TotalSessions),
					parse.FormatMinutes(s.AvgDuration),
					parse.FormatMinutes(float64(s.TotalDuration)),
					strconv.Itoa(s.Engagement),
				})
			}
			if err := table.Bulk(data); err != nil {
				return err
			}
			if err := table.Render(); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return writeFooter(w, cfg, fmt.Sprintf("Alerts computed in %v", duration))
}

// WriteSummary outputs the dashboard KPIs.
func WriteSummary(summary schema.Summary, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summary)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"Métrica", "Valor"}, func(cw *csv.Writer) error {
				return writeRecords(cw, summaryRecords(summary, fmtFloat))
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryText(w, summary, cfg, fmtFloat, duration)
		}, "Wrote text")
	}
}

// kpiRecords returns the headline KPIs as metric/value pairs.
func kpiRecords(s schema.Summary, fmtFloat func(float64) string) [][]string {
	return [][]string{
		{"Total Estudiantes", strconv.Itoa(s.TotalStudents)},
		{"Total Sesiones", strconv.Itoa(s.TotalSessions)},
		{"Asistencia Completa", strconv.Itoa(s.FullAttendance)},
		{"En Riesgo (<50%)", strconv.Itoa(s.AtRisk)},
		{"Tasa Promedio", fmtFloat(s.AvgAttendancePct) + "%"},
		{"Engagement Promedio", fmtFloat(s.AvgEngagement)},
		{"Duración Promedio", parse.FormatMinutes(s.AvgDuration)},
		{"Duración Mediana", parse.FormatMinutes(s.MedianDuration)},
		{"Desviación Duración", fmtFloat(s.StdDevDuration)},
		{"Registros", strconv.Itoa(s.TotalEntries)},
		{"Registros >= 1h", strconv.Itoa(s.EntriesOver1h)},
		{"Registros < 30m", strconv.Itoa(s.EntriesUnder30)},
		{"Contactados", strconv.Itoa(s.Contacted)},
		{"Con Nota", strconv.Itoa(s.WithNotes)},
	}
}

// summaryRecords flattens the KPIs and distributions into metric/value pairs.
func summaryRecords(s schema.Summary, fmtFloat func(float64) string) [][]string {
	records := kpiRecords(s, fmtFloat)
	for _, sc := range s.Sedes {
		records = append(records, []string{"Sede " + string(sc.Sede), strconv.Itoa(sc.Count)})
	}
	for _, b := range s.DurationHistogram {
		records = append(records, []string{"Duración " + b.Label, strconv.Itoa(b.Count)})
	}
	for _, b := range s.EngagementBuckets {
		records = append(records, []string{"Engagement " + b.Label, strconv.Itoa(b.Count)})
	}
	records = append(records,
		[]string{"Puntualidad <= 5m", strconv.Itoa(s.Punctuality.Early)},
		[]string{"Puntualidad <= 15m", strconv.Itoa(s.Punctuality.OnTime)},
		[]string{"Puntualidad <= 30m", strconv.Itoa(s.Punctuality.Late)},
		[]string{"Puntualidad > 30m", strconv.Itoa(s.Punctuality.VeryLate)},
	)
	for _, slot := range s.JoinSlots {
		records = append(records, []string{"Ingreso " + slot.Label, strconv.Itoa(slot.Count)})
	}
	return records
}

// bar scales count against maxCount into a text bar.
func bar(count, maxCount int) string {
	if maxCount <= 0 || count <= 0 {
		return ""
	}
	return strings.Repeat("▇", max(1, count*histogramBarWidth/maxCount))
}

func writeHistogram(w io.Writer, title string, buckets []schema.HistogramBucket) error {
	if _, err := fmt.Fprintf(w, "\n%s\n", title); err != nil {
		return err
	}
	maxCount := 0
	for _, b := range buckets {
		maxCount = max(maxCount, b.Count)
	}
	for _, b := range buckets {
		if _, err := fmt.Fprintf(w, "  %-8s %4d %s\n", b.Label, b.Count, bar(b.Count, maxCount)); err != nil {
			return err
		}
	}
	return nil
}

func writeSummaryText(w io.Writer, s schema.Summary, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	if err := writeTitle(w, cfg, "📊", "Resumen de Asistencia"); err != nil {
		return err
	}
	for _, rec := range kpiRecords(s, fmtFloat) {
		if _, err := fmt.Fprintf(w, "%-22s %s\n", rec[0]+":", rec[1]); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\n%s\n", heading(cfg, "🏫", "Estudiantes por sede")); err != nil {
		return err
	}
	for _, sc := range s.Sedes {
		if _, err := fmt.Fprintf(w, "  %-6s %4d  %s\n", contract.GetColorSede(sc.Sede), sc.Count, schema.Institutions[sc.Sede].FullName); err != nil {
			return err
		}
	}

	if err := writeHistogram(w, heading(cfg, "⏱️", "Distribución de duración (min)"), s.DurationHistogram); err != nil {
		return err
	}
	if err := writeHistogram(w, heading(cfg, "💡", "Distribución de engagement"), s.EngagementBuckets); err != nil {
		return err
	}

	punctuality := []schema.HistogramBucket{
		{Label: "<= 5m", Count: s.Punctuality.Early},
		{Label: "<= 15m", Count: s.Punctuality.OnTime},
		{Label: "<= 30m", Count: s.Punctuality.Late},
		{Label: "> 30m", Count: s.Punctuality.VeryLate},
	}
	if err := writeHistogram(w, heading(cfg, "⏰", "Puntualidad"), punctuality); err != nil {
		return err
	}

	slots := make([]schema.HistogramBucket, 0, len(s.JoinSlots))
	for _, slot := range s.JoinSlots {
		slots = append(slots, schema.HistogramBucket{Label: slot.Label, Count: slot.Count})
	}
	if err := writeHistogram(w, heading(cfg, "🕑", "Hora de ingreso"), slots); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\n%s\n", heading(cfg, "🔎", "Selectores (todo el historial)")); err != nil {
		return err
	}
	if err := writeSelectorCounts(w, s); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return writeFooter(w, cfg, fmt.Sprintf("Summary computed in %v", duration))
}

// writeSelectorCounts lists sede and area options in display order.
func writeSelectorCounts(w io.Writer, s schema.Summary) error {
	sedes := []schema.SedeFilter{schema.AllSedes}
	for _, sede := range schema.AllSedeValues {
		sedes = append(sedes, schema.SedeFilter(sede))
	}
	var parts []string
	for _, sf := range sedes {
		parts = append(parts, fmt.Sprintf("%s (%d)", sf, s.SelectorSedeCounts[sf]))
	}
	if _, err := fmt.Fprintf(w, "  Sede: %s\n", strings.Join(parts, ", ")); err != nil {
		return err
	}

	areas := []schema.AreaFilter{schema.AllAreas}
	for _, area := range schema.AllAreaValues {
		areas = append(areas, schema.AreaFilter(area))
	}
	parts = parts[:0]
	for _, af := range areas {
		parts = append(parts, fmt.Sprintf("%s (%d)", af, s.SelectorAreaCounts[af]))
	}
	_, err := fmt.Fprintf(w, "  Área: %s\n", strings.Join(parts, ", "))
	return err
}

// WriteHeatmap outputs the student × session grid.
func WriteHeatmap(heatmap schema.Heatmap, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, heatmap)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHeatmapCSV(w, heatmap)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHeatmapTable(w, heatmap, cfg, duration)
		}, "Wrote table")
	}
}

// writeHeatmapCSV writes minutes per cell, empty when absent.
func writeHeatmapCSV(w io.Writer, heatmap schema.Heatmap) error {
	header := []string{"Estudiante"}
	for _, s := range heatmap.Sessions {
		header = append(header, fmt.Sprintf("%s (%s)", s.Name, s.Date))
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, row := range heatmap.Rows {
			rec := []string{row.Name}
			for _, c := range row.Cells {
				if c.Level == schema.HeatAbsent {
					rec = append(rec, "")
					continue
				}
				rec = append(rec, strconv.Itoa(c.DurationMinutes))
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeHeatmapTable(w io.Writer, heatmap schema.Heatmap, cfg *contract.Config, duration time.Duration) error {
	if err := writeTitle(w, cfg, "🗺️", "Mapa de asistencia"); err != nil {
		return err
	}

	headers := []string{"Estudiante"}
	for _, s := range heatmap.Sessions {
		headers = append(headers, "S"+strconv.Itoa(s.Index))
	}
	table := tablewriter.NewWriter(w)
	table.Header(headers)

	nameWidth := getMaxNameWidth(cfg, 10+6*len(heatmap.Sessions))
	var data [][]string
	for _, row := range heatmap.Rows {
		rec := []string{contract.TruncateName(row.Name, nameWidth)}
		for _, c := range row.Cells {
			cell := heatSymbols[c.Level]
			if c.Level != schema.HeatAbsent {
				cell = fmt.Sprintf("%s %d", cell, c.DurationMinutes)
			}
			rec = append(rec, cell)
		}
		data = append(data, rec)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	levels := []schema.HeatLevel{schema.HeatAbsent, schema.HeatLow, schema.HeatMid, schema.HeatHigh}
	legend := make([]string, 0, len(levels))
	for _, l := range levels {
		legend = append(legend, fmt.Sprintf("%s %s", heatSymbols[l], l))
	}
	if _, err := fmt.Fprintf(w, "Leyenda: %s (low < 45m, mid < 90m)\n", strings.Join(legend, "  ")); err != nil {
		return err
	}
	for _, s := range heatmap.Sessions {
		if _, err := fmt.Fprintf(w, "  S%d: %s (%s)\n", s.Index, s.Name, s.Date); err != nil {
			return err
		}
	}
	return writeFooter(w, cfg, fmt.Sprintf("Heatmap built in %v", duration))
}
