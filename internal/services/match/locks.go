package match

import (
	"sync"

	"github.com/stakeplay/tictactoe-go/internal/model"
)

// lockManager provides per-match mutual exclusion. Every lifecycle
// operation acquires the match's lock for its full
// read-validate-compute-persist-notify sequence; operations on
// different matches run in parallel.
type lockManager struct {
	mu    sync.Mutex
	locks map[model.MatchID]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newLockManager() *lockManager {
	return &lockManager{
		locks: make(map[model.MatchID]*lockEntry),
	}
}

// acquire blocks until the match's lock is held and returns the release
// function. Entries are reference-counted so idle locks are reclaimed.
func (lm *lockManager) acquire(id model.MatchID) func() {
	lm.mu.Lock()
	entry, ok := lm.locks[id]
	if !ok {
		entry = &lockEntry{}
		lm.locks[id] = entry
	}
	entry.refs++
	lm.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		lm.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(lm.locks, id)
		}
		lm.mu.Unlock()
	}
}
