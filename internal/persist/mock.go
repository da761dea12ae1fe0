package persist

import (
	"time"

	"github.com/seamosgenios/panel/internal/contract"
	"github.com/seamosgenios/panel/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetSideStateStore implements the StoreManager interface.
func (m *MockStoreManager) GetSideStateStore() contract.SideStateStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.SideStateStore)
	return store
}

// GetHistoryStore implements the StoreManager interface.
func (m *MockStoreManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// MockSideStateStore is a mock implementation of SideStateStore for testing.
type MockSideStateStore struct {
	mock.Mock
}

var _ contract.SideStateStore = &MockSideStateStore{} // Compile-time check

// Get implements the SideStateStore interface.
func (m *MockSideStateStore) Get(key string) (string, bool, error) {
	args := m.Called(key)
	return args.String(0), args.Bool(1), args.Error(2)
}

// SetNote implements the SideStateStore interface.
func (m *MockSideStateStore) SetNote(key string, note string) error {
	return m.Called(key, note).Error(0)
}

// SetContacted implements the SideStateStore interface.
func (m *MockSideStateStore) SetContacted(key string, contacted bool) error {
	return m.Called(key, contacted).Error(0)
}

// LoadAll implements the SideStateStore interface.
func (m *MockSideStateStore) LoadAll() (map[string]string, map[string]bool, error) {
	args := m.Called()
	notes, _ := args.Get(0).(map[string]string)
	contacted, _ := args.Get(1).(map[string]bool)
	return notes, contacted, args.Error(2)
}

// GetStatus implements the SideStateStore interface.
func (m *MockSideStateStore) GetStatus() (schema.SideStateStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.SideStateStatus), args.Error(1)
}

// Close implements the SideStateStore interface.
func (m *MockSideStateStore) Close() error {
	return m.Called().Error(0)
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// BeginRun implements the HistoryStore interface.
func (m *MockHistoryStore) BeginRun(startTime time.Time, filter schema.FilterState, configParams map[string]any) (string, error) {
	args := m.Called(startTime, filter, configParams)
	return args.String(0), args.Error(1)
}

// EndRun implements the HistoryStore interface.
func (m *MockHistoryStore) EndRun(runID string, endTime time.Time, totalSessions, totalStudents int) error {
	return m.Called(runID, endTime, totalSessions, totalStudents).Error(0)
}

// RecordStudentScores implements the HistoryStore interface.
func (m *MockHistoryStore) RecordStudentScores(runID string, studentKey string, scores schema.StudentScores) error {
	return m.Called(runID, studentKey, scores).Error(0)
}

// GetAllRuns implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllRuns() ([]schema.HistoryRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.HistoryRunRecord)
	return runs, args.Error(1)
}

// GetAllStudentScores implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllStudentScores() ([]schema.StudentScoreRecord, error) {
	args := m.Called()
	scores, _ := args.Get(0).([]schema.StudentScoreRecord)
	return scores, args.Error(1)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	return m.Called().Error(0)
}
