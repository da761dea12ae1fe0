package core

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/seamosgenios/panel/internal/contract"
	"github.com/seamosgenios/panel/internal/persist"
	"github.com/seamosgenios/panel/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const attendanceHeader = "Nombre,Apellido,Correo,Duración,Hora de unión,Hora de salida\n"

// writeSeed stores the test sessions as a seed file and returns its path.
func writeSeed(t *testing.T) string {
	t.Helper()
	data, err := json.Marshal(seedSessions())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// writeAttendanceDir stores two attendance exports plus a file that is not a CSV.
func writeAttendanceDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"Asistencia de Lectura Crítica 1 (2025_03_20).csv": attendanceHeader +
			"SG - Valeria,Ausecha Campo,v@example.com,1 h 40 min,2:30 p.m.,4:10 p.m.\n",
		"Asistencia de Lectura Crítica 2 (2025_03_21).csv": attendanceHeader +
			"Bruno,Díaz,b@example.com,50 min,2:40 p.m.,3:30 p.m.\n",
		"notas.txt": "not an attendance export",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func testConfig(t *testing.T) *contract.Config {
	t.Helper()
	return &contract.Config{
		Filter:           schema.DefaultFilter,
		ResultLimit:      contract.DefaultResultLimit,
		Workers:          2,
		Precision:        contract.DefaultPrecision,
		Output:           schema.JSONOut,
		OutputFile:       filepath.Join(t.TempDir(), "out.json"),
		ExcludedAccounts: schema.DefaultExcludedAccounts,
	}
}

func TestLoadPanel(t *testing.T) {
	cfg := testConfig(t)
	cfg.SeedPath = writeSeed(t)
	cfg.DataPaths = []string{writeAttendanceDir(t)}

	p, err := LoadPanel(context.Background(), cfg)
	require.NoError(t, err)

	all := p.Sessions()
	require.Len(t, all, 5)
	assert.Equal(t, "Matemáticas 1", all[0].Name)
	assert.Equal(t, "Lectura Crítica 1", all[3].Name)
	assert.Equal(t, "2025-03-21", all[4].Date)
	assert.Equal(t, 5, all[4].ID)

	valeria, err := p.GetStudent("Valeria Ausecha Campo")
	require.NoError(t, err)
	assert.Equal(t, 3, valeria.Attended)
	assert.Equal(t, 5, valeria.TotalSessions)
}

func TestLoadPanelAppliesFilter(t *testing.T) {
	cfg := testConfig(t)
	cfg.SeedPath = writeSeed(t)
	cfg.Filter = schema.FilterState{Sede: schema.AllSedes, Area: schema.AreaFilter(schema.AreaMatematicas)}

	p, err := LoadPanel(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.Filter, p.Filter())
	assert.Len(t, p.GetFilteredSessions(), 2)
}

func TestLoadPanelErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(cfg *contract.Config)
		check  func(t *testing.T, err error)
	}{
		{
			name:   "nothing to load",
			modify: func(*contract.Config) {},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNoSessions)
			},
		},
		{
			name: "missing seed",
			modify: func(cfg *contract.Config) {
				cfg.SeedPath = filepath.Join(t.TempDir(), "missing.json")
			},
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "failed to read seed file")
			},
		},
		{
			name: "missing data path",
			modify: func(cfg *contract.Config) {
				cfg.DataPaths = []string{filepath.Join(t.TempDir(), "missing")}
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, os.ErrNotExist)
			},
		},
		{
			name: "invalid filter",
			modify: func(cfg *contract.Config) {
				cfg.Filter.Sede = "Cali"
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, contract.ErrInvalidFilter)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.modify(cfg)
			_, err := LoadPanel(context.Background(), cfg)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestLoadPanelSkipsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vacio.csv"), []byte(attendanceHeader), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Asistencia de Sociales 1 (2025_03_17).csv"),
		[]byte(attendanceHeader+"Ana,Mora,am@example.com,1 h,2:30 p.m.,3:30 p.m.\n"), 0o644))

	cfg := testConfig(t)
	cfg.DataPaths = []string{dir}

	p, err := LoadPanel(context.Background(), cfg)
	require.NoError(t, err)
	assert.Len(t, p.Sessions(), 1)
}

func TestLoadPanelCancelled(t *testing.T) {
	cfg := testConfig(t)
	cfg.DataPaths = []string{writeAttendanceDir(t)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadPanel(ctx, cfg)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadSideState(t *testing.T) {
	t.Run("nil manager", func(t *testing.T) {
		notes, contacted := loadSideState(nil)
		assert.Empty(t, notes)
		assert.NotNil(t, contacted)
	})

	t.Run("disabled store", func(t *testing.T) {
		mgr := &persist.MockStoreManager{}
		mgr.On("GetSideStateStore").Return(nil)

		notes, contacted := loadSideState(mgr)
		assert.Empty(t, notes)
		assert.Empty(t, contacted)
		mgr.AssertExpectations(t)
	})

	t.Run("load error", func(t *testing.T) {
		store := &persist.MockSideStateStore{}
		store.On("LoadAll").Return(nil, nil, errors.New("database is locked"))
		mgr := &persist.MockStoreManager{}
		mgr.On("GetSideStateStore").Return(store)

		notes, contacted := loadSideState(mgr)
		assert.NotNil(t, notes)
		assert.Empty(t, contacted)
		store.AssertExpectations(t)
	})

	t.Run("loaded", func(t *testing.T) {
		store := &persist.MockSideStateStore{}
		store.On("LoadAll").Return(map[string]string{"ANA MORA": "nota"}, map[string]bool{"ANA MORA": true}, nil)
		mgr := &persist.MockStoreManager{}
		mgr.On("GetSideStateStore").Return(store)

		notes, contacted := loadSideState(mgr)
		assert.Equal(t, "nota", notes["ANA MORA"])
		assert.True(t, contacted["ANA MORA"])
	})
}

func TestBeginRun(t *testing.T) {
	cfg := testConfig(t)
	cfg.DataPaths = []string{"data"}

	t.Run("tracking disabled", func(t *testing.T) {
		ctx := beginRun(context.Background(), cfg, "students")
		_, ok := getRunID(ctx)
		assert.False(t, ok)
	})

	t.Run("stores run id", func(t *testing.T) {
		history := &persist.MockHistoryStore{}
		history.On("BeginRun", mock.AnythingOfType("time.Time"), schema.DefaultFilter,
			mock.MatchedBy(func(params map[string]any) bool {
				return params["command"] == "ranking" && params["workers"] == 2
			})).Return("run-1", nil)
		mgr := &persist.MockStoreManager{}
		mgr.On("GetHistoryStore").Return(history)

		ctx := beginRun(contextWithStoreManager(context.Background(), mgr), cfg, "ranking")
		runID, ok := getRunID(ctx)
		assert.True(t, ok)
		assert.Equal(t, "run-1", runID)
		history.AssertExpectations(t)
	})

	t.Run("begin failure is not fatal", func(t *testing.T) {
		history := &persist.MockHistoryStore{}
		history.On("BeginRun", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("no such table"))
		mgr := &persist.MockStoreManager{}
		mgr.On("GetHistoryStore").Return(history)

		ctx := beginRun(contextWithStoreManager(context.Background(), mgr), cfg, "students")
		_, ok := getRunID(ctx)
		assert.False(t, ok)
	})
}

func TestRecordRun(t *testing.T) {
	p := newTestPanel(t)

	history := &persist.MockHistoryStore{}
	// A failing student does not stop the others from being recorded
	history.On("RecordStudentScores", "run-1", "BRUNO DÍAZ", mock.Anything).Return(errors.New("duplicate key"))
	history.On("RecordStudentScores", "run-1", mock.AnythingOfType("string"), mock.AnythingOfType("schema.StudentScores")).Return(nil)
	history.On("EndRun", "run-1", mock.AnythingOfType("time.Time"), 3, 3).Return(nil)
	mgr := &persist.MockStoreManager{}
	mgr.On("GetHistoryStore").Return(history)

	ctx := withRunID(contextWithStoreManager(context.Background(), mgr), "run-1")
	recordRun(ctx, p)

	history.AssertNumberOfCalls(t, "RecordStudentScores", 3)
	history.AssertCalled(t, "RecordStudentScores", "run-1", "VALERIA AUSECHA CAMPO", mock.MatchedBy(func(s schema.StudentScores) bool {
		return s.Sede == schema.SedeSG && s.Attended == 2 && s.Engagement == 76 && s.UnifiedScore > 80
	}))
	history.AssertCalled(t, "EndRun", "run-1", mock.Anything, 3, 3)
}

func TestRecordRunWithoutRunID(t *testing.T) {
	p := newTestPanel(t)
	history := &persist.MockHistoryStore{}
	mgr := &persist.MockStoreManager{}
	mgr.On("GetHistoryStore").Return(history)

	recordRun(contextWithStoreManager(context.Background(), mgr), p)
	history.AssertNotCalled(t, "EndRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBeginRunStartTime(t *testing.T) {
	history := &persist.MockHistoryStore{}
	before := time.Now()
	history.On("BeginRun", mock.MatchedBy(func(start time.Time) bool {
		return !start.Before(before)
	}), mock.Anything, mock.Anything).Return("run-2", nil)
	mgr := &persist.MockStoreManager{}
	mgr.On("GetHistoryStore").Return(history)

	beginRun(contextWithStoreManager(context.Background(), mgr), testConfig(t), "students")
	history.AssertExpectations(t)
}
