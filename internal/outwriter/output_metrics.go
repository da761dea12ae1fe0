package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/seamosgenios/panel/core/algo"
	"github.com/seamosgenios/panel/internal/contract"
	"github.com/seamosgenios/panel/schema"
)

// formulaEmojis decorates formula names in text output.
var formulaEmojis = map[string]string{
	"engagement": "💡",
	"unified":    "🏆",
	"class":      "🥇",
}

// formatWeights renders "0.40*attendance+0.35*duration" for the factors in order.
func formatWeights(weights map[string]float64, factors []string) string {
	parts := make([]string, 0, len(factors))
	for _, factor := range factors {
		if weight, ok := weights[factor]; ok && weight > 0 {
			parts = append(parts, fmt.Sprintf("%.2f*%s", weight, factor))
		}
	}
	return strings.Join(parts, " + ")
}

// buildMetricsRenderModel describes the three scoring formulas with their live weights.
func buildMetricsRenderModel() schema.MetricsRenderModel {
	formulas := []schema.MetricsFormula{
		{
			Name:    "engagement",
			Purpose: "Long-run commitment under the active filters",
			Factors: []string{"attendance", "duration", "consistency"},
			Weights: map[string]float64{
				"attendance":  algo.EngagementAttendanceWeight,
				"duration":    algo.EngagementDurationWeight,
				"consistency": algo.EngagementConsistencyWeight,
			},
			Rounding: "nearest integer",
		},
		{
			Name:    "unified",
			Purpose: "Cross-session leaderboard against one averaged reference start",
			Factors: []string{"attendance", "duration", "punctuality"},
			Weights: map[string]float64{
				"attendance":  algo.UnifiedAttendanceWeight,
				"duration":    algo.UnifiedDurationWeight,
				"punctuality": algo.UnifiedPunctualityWeight,
			},
			Rounding: "1 decimal",
		},
		{
			Name:    "class",
			Purpose: "Single session ranking against its earliest join",
			Factors: []string{"duration", "punctuality"},
			Weights: map[string]float64{
				"duration":    algo.ClassDurationWeight,
				"punctuality": algo.ClassPunctualityWeight,
			},
			Rounding: "1 decimal",
		},
	}
	for i := range formulas {
		formulas[i].Formula = formatWeights(formulas[i].Weights, formulas[i].Factors)
	}

	return schema.MetricsRenderModel{
		Title:       "Panel Scoring Formulas",
		Description: "All scores are clamped to [0,100] weighted sums of sub-scores",
		SubScores: []schema.MetricsSubScore{
			{Name: "attendance", Definition: "attended / total sessions × 100"},
			{Name: "duration", Definition: fmt.Sprintf("min(avg minutes / %.0f, 1) × 100", algo.DurationCeilingMinutes)},
			{Name: "punctuality", Definition: fmt.Sprintf("max(0, 100 − %.0f × avg delay minutes)", algo.DelayPenaltyPerMinute)},
			{Name: "consistency", Definition: fmt.Sprintf("%.0f if attended >= %.0f%% of sessions, %.0f if >= %.0f%%, else %.0f",
				algo.TierHigh, algo.TierHighShare*100, algo.TierMid, algo.TierMidShare*100, algo.TierLow)},
		},
		Formulas: formulas,
	}
}

// WriteMetricsDefinitions outputs the scoring formula definitions.
func WriteMetricsDefinitions(cfg *contract.Config) error {
	model := buildMetricsRenderModel()

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, model)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"Formula", "Purpose", "Factors", "Expression", "Rounding"}, func(cw *csv.Writer) error {
				records := make([][]string, 0, len(model.Formulas))
				for _, f := range model.Formulas {
					records = append(records, []string{f.Name, f.Purpose, strings.Join(f.Factors, "|"), f.Formula, f.Rounding})
				}
				return writeRecords(cw, records)
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMetricsText(w, model, cfg)
		}, "Wrote text")
	}
}

func writeMetricsText(w io.Writer, model schema.MetricsRenderModel, cfg *contract.Config) error {
	if err := writeTitle(w, cfg, "📐", model.Title); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\n%s\n\n", model.Description); err != nil {
		return err
	}

	for _, f := range model.Formulas {
		name := heading(cfg, formulaEmojis[f.Name], strings.ToUpper(f.Name))
		if _, err := fmt.Fprintf(w, "%s: %s\n", name, f.Purpose); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   Formula: Score = %s (%s)\n\n", f.Formula, f.Rounding); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, "Sub-scores"); err != nil {
		return err
	}
	for _, sub := range model.SubScores {
		if _, err := fmt.Fprintf(w, "   %-12s %s\n", sub.Name, sub.Definition); err != nil {
			return err
		}
	}
	return nil
}
