package persist

import (
	"errors"
	"fmt"
	"io"

	"github.com/seamosgenios/panel/internal/contract"
	"github.com/seamosgenios/panel/internal/parquet"
)

// ErrNoHistory is returned when an export finds no recorded runs.
var ErrNoHistory = errors.New("no history data found to export")

// ExportHistory writes the recorded runs and student scores to Parquet files
// named after outputFile.
func ExportHistory(w io.Writer, store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history tracking is disabled. Set --history-backend to enable it")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return ErrNoHistory
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total student score records: %d\n", status.TotalStudentScores)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	scores, err := store.GetAllStudentScores()
	if err != nil {
		return fmt.Errorf("failed to retrieve student scores: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	parquetRuns := parquet.ConvertHistoryRunRecords(runs)
	if err := parquet.WriteHistoryRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	scoresFile := outputFile + ".student_scores.parquet"
	parquetScores := parquet.ConvertStudentScoreRecords(scores)
	if err := parquet.WriteStudentScoresParquet(parquetScores, scoresFile); err != nil {
		return fmt.Errorf("failed to write student scores: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d student score records to: %s\n", len(parquetScores), scoresFile)

	return nil
}
