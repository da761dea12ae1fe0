package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/seamosgenios/panel/internal/contract"
)

// utf8BOM makes spreadsheet tools detect UTF-8 in exported CSV reports.
const utf8BOM = "\ufeff"

// writeWithFile opens the target (stdout when empty), runs writer against it and reports
// where the output went.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON encodes data with two-space indentation.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader writes header followed by whatever writeRows emits.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	return writeRows(csvWriter)
}

// writeRecords writes every record through a CSV writer.
func writeRecords(w *csv.Writer, records [][]string) error {
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	return nil
}

// createFormatters returns a float formatter honoring precision and the integer verb.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
	return fmtFloat, intFmt
}

// heading renders a section title, with its emoji only when emojis are enabled.
func heading(cfg *contract.Config, emoji, title string) string {
	if cfg.UseEmojis && emoji != "" {
		return emoji + " " + title
	}
	return title
}

// writeTitle prints a heading underlined with '='.
func writeTitle(w io.Writer, cfg *contract.Config, emoji, title string) error {
	text := heading(cfg, emoji, title)
	_, err := fmt.Fprintf(w, "%s\n%s\n", text, strings.Repeat("=", len([]rune(text))))
	return err
}

// yesNo renders a boolean the way the Spanish reports do.
func yesNo(v bool) string {
	if v {
		return "Sí"
	}
	return "No"
}

// flattenNote keeps a note on one line.
func flattenNote(note string) string {
	return strings.Join(strings.Fields(note), " ")
}

// percent formats a [0,1] rate as a whole percentage.
func percent(rate float64) string {
	return fmt.Sprintf("%.0f%%", rate*100)
}

// writeFooter prints the timing line shared by every report.
func writeFooter(w io.Writer, cfg *contract.Config, what string) error {
	_, err := fmt.Fprintf(w, "%s. Filters: sede=%s area=%s. Notes backend: %s\n",
		what, cfg.Filter.Sede, cfg.Filter.Area, cfg.NotesBackend)
	return err
}
