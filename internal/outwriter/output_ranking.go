package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/seamosgenios/panel/core/parse"
	"github.com/seamosgenios/panel/internal/contract"
	"github.com/seamosgenios/panel/schema"
)

// WriteRanking outputs the cross-session ranking.
func WriteRanking(ranking schema.GlobalRanking, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, ranking)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRankingCSV(w, ranking, fmtFloat)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRankingTable(w, ranking, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
}

func writeRankingCSV(w io.Writer, ranking schema.GlobalRanking, fmtFloat func(float64) string) error {
	header := []string{"rank", "name", "sede", "area", "attended", "avg_duration", "avg_delay", "score", "label"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		records := make([][]string, 0, len(ranking.Students))
		for _, s := range ranking.Students {
			records = append(records, []string{
				strconv.Itoa(s.Rank),
				s.Name,
				string(s.Sede),
				string(s.Area),
				strconv.Itoa(s.Attended),
				fmtFloat(s.AvgDuration),
				fmtFloat(s.AvgDelay),
				fmtFloat(s.Score),
				s.Label,
			})
		}
		return writeRecords(cw, records)
	})
}

func writeRankingTable(w io.Writer, ranking schema.GlobalRanking, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	if err := writeTitle(w, cfg, "🏆", "Ranking Unificado"); err != nil {
		return err
	}
	reference := "sin referencia"
	if ranking.ReferenceStart > 0 {
		reference = parse.FormatClock(ranking.ReferenceStart)
	}
	if _, err := fmt.Fprintf(w, "Inicio de referencia: %s, sesiones: %d\n", reference, ranking.TotalSessions); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Estudiante", "Sede", "Asist.", "Prom.", "Retraso", "Puntaje", "Nivel"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxNameWidth(cfg, 75)
	var data [][]string
	for _, s := range ranking.Students {
		data = append(data, []string{
			strconv.Itoa(s.Rank),
			contract.TruncateName(s.Name, nameWidth),
			contract.GetColorSede(s.Sede),
			strconv.Itoa(s.Attended),
			parse.FormatMinutes(s.AvgDuration),
			fmtFloat(s.AvgDelay),
			fmtFloat(s.Score),
			contract.GetColorLabel(s.Score),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	return writeFooter(w, cfg, fmt.Sprintf("Ranked %d students in %v", len(ranking.Students), duration))
}

// WriteClassRanking outputs the ranking of a single session.
func WriteClassRanking(ranking schema.ClassRanking, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, ranking)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeClassRankingCSV(w, ranking, fmtFloat)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeClassRankingTable(w, ranking, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
}

func writeClassRankingCSV(w io.Writer, ranking schema.ClassRanking, fmtFloat func(float64) string) error {
	header := []string{"rank", "name", "sede", "duration_minutes", "join_time", "delay", "score"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		records := make([][]string, 0, len(ranking.Scores))
		for _, s := range ranking.Scores {
			records = append(records, []string{
				strconv.Itoa(s.Rank),
				s.Name,
				string(s.Sede),
				strconv.Itoa(s.DurationMinutes),
				s.JoinTime,
				strconv.Itoa(s.Delay),
				fmtFloat(s.Score),
			})
		}
		return writeRecords(cw, records)
	})
}

func writeClassRankingTable(w io.Writer, ranking schema.ClassRanking, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	if err := writeTitle(w, cfg, "🥇", fmt.Sprintf("Ranking de %s (%s)", ranking.SessionName, ranking.Date)); err != nil {
		return err
	}
	if ranking.StartMinutes > 0 {
		if _, err := fmt.Fprintf(w, "Primer ingreso: %s\n", parse.FormatClock(ranking.StartMinutes)); err != nil {
			return err
		}
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Estudiante", "Sede", "Duración", "Ingreso", "Retraso", "Puntaje"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxNameWidth(cfg, 70)
	var data [][]string
	for _, s := range ranking.Scores {
		data = append(data, []string{
			strconv.Itoa(s.Rank),
			contract.TruncateName(s.Name, nameWidth),
			contract.GetColorSede(s.Sede),
			parse.FormatMinutes(float64(s.DurationMinutes)),
			s.JoinTime,
			fmt.Sprintf("%d min", s.Delay),
			fmtFloat(s.Score),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	return writeFooter(w, cfg, fmt.Sprintf("Ranked %d attendees in %v", len(ranking.Scores), duration))
}
