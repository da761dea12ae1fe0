package persist

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/seamosgenios/panel/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportHistory(t *testing.T) {
	store := newTestHistoryStore(t)
	runID, err := store.BeginRun(time.Now(), schema.DefaultFilter, map[string]any{"command": "ranking"})
	require.NoError(t, err)
	require.NoError(t, store.RecordStudentScores(runID, "ANA", schema.StudentScores{Sede: schema.SedeSG, Attended: 1}))
	require.NoError(t, store.EndRun(runID, time.Now(), 1, 1))

	outputFile := filepath.Join(t.TempDir(), "panel")
	var buf bytes.Buffer
	require.NoError(t, ExportHistory(&buf, store, outputFile))

	for _, suffix := range []string{".runs.parquet", ".student_scores.parquet"} {
		info, err := os.Stat(outputFile + suffix)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
	assert.Contains(t, buf.String(), "Exported 1 runs")
	assert.Contains(t, buf.String(), "Exported 1 student score records")
}

func TestExportHistoryErrors(t *testing.T) {
	t.Run("missing output file", func(t *testing.T) {
		err := ExportHistory(&bytes.Buffer{}, newTestHistoryStore(t), "")
		assert.ErrorContains(t, err, "--output-file")
	})

	t.Run("disabled store", func(t *testing.T) {
		err := ExportHistory(&bytes.Buffer{}, nil, "out")
		assert.ErrorContains(t, err, "disabled")
	})

	t.Run("no runs", func(t *testing.T) {
		err := ExportHistory(&bytes.Buffer{}, newTestHistoryStore(t), filepath.Join(t.TempDir(), "out"))
		assert.ErrorIs(t, err, ErrNoHistory)
	})

	t.Run("status failure", func(t *testing.T) {
		store := &MockHistoryStore{}
		store.On("GetStatus").Return(schema.HistoryStatus{}, errors.New("boom"))

		err := ExportHistory(&bytes.Buffer{}, store, "out")
		assert.ErrorContains(t, err, "boom")
		store.AssertExpectations(t)
	})

	t.Run("runs failure", func(t *testing.T) {
		store := &MockHistoryStore{}
		store.On("GetStatus").Return(schema.HistoryStatus{Backend: "mysql", TotalRuns: 1}, nil)
		store.On("GetAllRuns").Return(nil, errors.New("lost connection"))

		err := ExportHistory(&bytes.Buffer{}, store, "out")
		assert.ErrorContains(t, err, "lost connection")
		store.AssertExpectations(t)
	})
}
