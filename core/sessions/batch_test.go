package sessions

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapReader serves file contents from memory and fails for unknown names.
type mapReader struct {
	files map[string]string
	reads atomic.Int32
}

func (r *mapReader) ReadFile(name string) ([]byte, error) {
	r.reads.Add(1)
	content, ok := r.files[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return []byte(content), nil
}

func TestReadBatch_AllSucceed(t *testing.T) {
	reader := &mapReader{files: map[string]string{}}
	var paths []string
	for i := range 12 {
		name := fmt.Sprintf("Asistencia de Clase %02d (2025_03_%02d).csv", i, i+1)
		reader.files[name] = sampleCSV
		paths = append(paths, name)
	}

	result := ReadBatch(context.Background(), reader, paths, 4, fixedNow)

	assert.NotEmpty(t, result.BatchID)
	assert.Equal(t, 12, result.Requested)
	assert.Equal(t, 12, result.Completed)
	assert.Empty(t, result.Failures)
	require.Len(t, result.Sessions, 12)
	for i, s := range result.Sessions {
		assert.Equal(t, fmt.Sprintf("Clase %02d", i), s.Name, "input order is preserved")
	}
	assert.Equal(t, int32(12), reader.reads.Load())
}

func TestReadBatch_FailuresCountAsComplete(t *testing.T) {
	reader := &mapReader{files: map[string]string{
		"Asistencia de A (2025_03_01).csv": sampleCSV,
		"Asistencia de C (2025_03_03).csv": sampleCSV,
		"vacio.csv":                        "solo encabezado\n",
	}}
	paths := []string{
		"Asistencia de A (2025_03_01).csv",
		"missing.csv",
		"Asistencia de C (2025_03_03).csv",
		"vacio.csv",
	}

	result := ReadBatch(context.Background(), reader, paths, 2, fixedNow)

	assert.Equal(t, 4, result.Requested)
	assert.Equal(t, 4, result.Completed)
	require.Len(t, result.Sessions, 2)
	assert.Equal(t, "A", result.Sessions[0].Name)
	assert.Equal(t, "C", result.Sessions[1].Name)

	require.Len(t, result.Failures, 2)
	assert.Equal(t, "missing.csv", result.Failures[0].Path)
	assert.True(t, errors.Is(result.Failures[0].Err, os.ErrNotExist))
	assert.Equal(t, "vacio.csv", result.Failures[1].Path)
	assert.ErrorIs(t, result.Failures[1].Err, ErrEmptyFile)
}

func TestReadBatch_CancelledContext(t *testing.T) {
	reader := &mapReader{files: map[string]string{"a.csv": sampleCSV}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := ReadBatch(ctx, reader, []string{"a.csv", "b.csv"}, 2, fixedNow)
	assert.Equal(t, 2, result.Completed)
	assert.Len(t, result.Failures, 2)
	assert.Empty(t, result.Sessions)
	assert.Equal(t, int32(0), reader.reads.Load())
}

func TestReadBatch_Empty(t *testing.T) {
	result := ReadBatch(context.Background(), &mapReader{}, nil, 4, fixedNow)
	assert.Zero(t, result.Requested)
	assert.Zero(t, result.Completed)
	assert.Empty(t, result.Sessions)
}

func TestReadBatch_ZeroWorkers(t *testing.T) {
	reader := &mapReader{files: map[string]string{"a.csv": sampleCSV}}
	result := ReadBatch(context.Background(), reader, []string{"a.csv"}, 0, fixedNow)
	assert.Equal(t, 1, result.Completed)
	assert.Len(t, result.Sessions, 1)
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.CSV", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0o755))
	single := filepath.Join(dir, "notes.txt")

	files, err := ExpandPaths([]string{dir, single})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.CSV"), filepath.Join(dir, "b.csv"), single}, files)

	_, err = ExpandPaths([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}

func TestLoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	content := `[{"id":7,"name":"Ciencias","date":"2025-03-01","time":"2:30 p.m. - 4:00 p.m.","program":"PREICFES SG",
		"students":[["ANA","RUIZ","a@x.co","1 h 0 min","2:30 p.m.","3:30 p.m."]]}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	seed, err := LoadSeed(path)
	require.NoError(t, err)
	require.Len(t, seed, 1)
	assert.Equal(t, "PREICFES SG", seed[0].Program)
	assert.Equal(t, "1 h 0 min", seed[0].Rows[0].DurationText)

	store := NewStore(seed...)
	got, ok := store.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Ciencias", got.Name)

	_, err = LoadSeed(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
