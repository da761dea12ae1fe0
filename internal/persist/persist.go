// Package persist keeps the panel's durable state: student side-state and run history.
package persist

import (
	"sync"

	"github.com/seamosgenios/panel/internal/contract"
)

// StoreManager holds the side-state and history stores.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	sideState    contract.SideStateStore
	history      contract.HistoryStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetSideStateStore returns the notes and contacted store.
func (mgr *StoreManager) GetSideStateStore() contract.SideStateStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.sideState
}

// GetHistoryStore returns the run history store.
func (mgr *StoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
