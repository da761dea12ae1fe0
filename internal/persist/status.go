package persist

import (
	"fmt"
	"io"
	"slices"

	"github.com/seamosgenios/panel/schema"
)

const statusTimeLayout = "2006-01-02 15:04:05"

// PrintSideStateStatus prints side-state status information.
func PrintSideStateStatus(w io.Writer, status schema.SideStateStatus) {
	_, _ = fmt.Fprintf(w, "Notes Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Entries: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		_, _ = fmt.Fprintf(w, "Notes: %d\n", status.NotesCount)
		_, _ = fmt.Fprintf(w, "Contacted: %d\n", status.ContactedCount)
		_, _ = fmt.Fprintf(w, "Last Update: %s\n", status.LastUpdateTime.Format(statusTimeLayout))
		_, _ = fmt.Fprintf(w, "Oldest Update: %s\n", status.OldestUpdate.Format(statusTimeLayout))
	}
}

// PrintHistoryStatus prints history status information.
func PrintHistoryStatus(w io.Writer, status schema.HistoryStatus) {
	_, _ = fmt.Fprintf(w, "History Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		_, _ = fmt.Fprintf(w, "Last Run ID: %s\n", status.LastRunID)
		_, _ = fmt.Fprintf(w, "Last Run: %s\n", status.LastRunTime.Format(statusTimeLayout))
		_, _ = fmt.Fprintf(w, "Oldest Run: %s\n", status.OldestRunTime.Format(statusTimeLayout))
		_, _ = fmt.Fprintf(w, "Total Student Scores: %d\n", status.TotalStudentScores)
	}
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	slices.Sort(tables)
	for _, table := range tables {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}
