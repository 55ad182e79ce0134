package indexer

import (
	"sync"

	"github.com/veridex/evidenceAPI/internal/domain/evidenceModel"
)

// ownerLeases serializes writes per owner inside this process. Two batches
// for the same owner never interleave their store writes; different owners
// run in parallel.
type ownerLeases struct {
	mu    sync.Mutex
	locks map[string]*ownerLock
}

type ownerLock struct {
	mu   sync.Mutex
	refs int
}

func newOwnerLeases() *ownerLeases {
	return &ownerLeases{locks: make(map[string]*ownerLock)}
}

// acquire blocks until the owner's lease is free and returns the release
// func. The entry is dropped once the last holder releases, the map does
// not grow with every owner ever seen.
func (l *ownerLeases) acquire(owner evidenceModel.OwnerRef) func() {
	key := owner.CaseID + "/" + string(owner.EvidenceType) + "/" + owner.OwnerID

	l.mu.Lock()
	lock, exists := l.locks[key]
	if !exists {
		lock = &ownerLock{}
		l.locks[key] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()
		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}
