package backup

import (
	"sync"

	"github.com/thoreinstein/lighthub/internal/errors"
)

// snapshotOnce tracks per-data-directory safety snapshots within a process.
// This prevents a snapshot per mutation when several run back to back.
var (
	snapshotOnce  = make(map[string]*sync.Once)
	snapshotMutex sync.Mutex
)

// EnsureSnapshot takes a snapshot of src before it is modified, at most once
// per data directory per process.
//
// The function is safe for concurrent calls. If the snapshot fails the state
// is reset so a later call can retry, and the error is returned so the
// caller does not go ahead with the modification.
func (m *Manager) EnsureSnapshot(src Source) error {
	key := src.Dir()

	snapshotMutex.Lock()
	once, exists := snapshotOnce[key]
	if !exists {
		once = &sync.Once{}
		snapshotOnce[key] = once
	}
	snapshotMutex.Unlock()

	var snapErr error
	once.Do(func() {
		_, snapErr = m.Create(src)
		if snapErr != nil {
			snapshotMutex.Lock()
			delete(snapshotOnce, key)
			snapshotMutex.Unlock()
		}
	})

	if snapErr != nil {
		return errors.Wrapf(snapErr, "creating safety backup of %s", key)
	}
	return nil
}

// ResetSnapshotState clears the snapshot state for all data directories.
// This is primarily useful for testing to reset state between tests.
func ResetSnapshotState() {
	snapshotMutex.Lock()
	defer snapshotMutex.Unlock()
	snapshotOnce = make(map[string]*sync.Once)
}
