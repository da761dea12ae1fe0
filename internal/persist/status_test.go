package persist

import (
	"bytes"
	"testing"
	"time"

	"github.com/seamosgenios/panel/schema"
	"github.com/stretchr/testify/assert"
)

func TestPrintSideStateStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintSideStateStatus(&buf, schema.SideStateStatus{Backend: "none"})
	assert.Contains(t, buf.String(), "Connected: false")
	assert.NotContains(t, buf.String(), "Total Entries")

	buf.Reset()
	PrintSideStateStatus(&buf, schema.SideStateStatus{
		Backend: "sqlite", Connected: true, TotalEntries: 3, NotesCount: 2, ContactedCount: 1,
		LastUpdateTime: time.Date(2025, 3, 12, 16, 0, 0, 0, time.Local),
	})
	output := buf.String()
	assert.Contains(t, output, "Notes Backend: sqlite")
	assert.Contains(t, output, "Notes: 2")
	assert.Contains(t, output, "Contacted: 1")
	assert.Contains(t, output, "Last Update: 2025-03-12 16:00:00")
}

func TestPrintHistoryStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintHistoryStatus(&buf, schema.HistoryStatus{
		Backend: "sqlite", Connected: true, TotalRuns: 2, LastRunID: "abc", TotalStudentScores: 5,
		TableSizes: map[string]int64{studentScoresTable: 5, runsTable: 2},
	})

	output := buf.String()
	assert.Contains(t, output, "Last Run ID: abc")
	assert.Contains(t, output, "Total Student Scores: 5")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte(runsTable+":")), bytes.Index(buf.Bytes(), []byte(studentScoresTable+":")))
}
