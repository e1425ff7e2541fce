package services

import (
	"sync"
	"time"
)

// documentLocks serializes mutating operations per document id. Storage here
// is a single MySQL/SQLite database behind gorm, so an in-process keyed
// mutex is sufficient; operations on different documents never contend.
//
// Acquisition waits at most `wait` before giving up with a Busy error, so
// the service never blocks a request indefinitely. Entries are reference
// counted and removed once the last holder or waiter is gone, so the map
// stays proportional to the documents currently being operated on.
type documentLocks struct {
	mu    sync.Mutex
	locks map[int]*documentLock
	wait  time.Duration
}

type documentLock struct {
	ch   chan struct{}
	refs int
}

func newDocumentLocks(wait time.Duration) *documentLocks {
	return &documentLocks{
		locks: make(map[int]*documentLock),
		wait:  wait,
	}
}

// retain returns the entry for documentID, creating it if needed, with its
// reference count bumped.
func (l *documentLocks) retain(documentID int) *documentLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.locks[documentID]
	if !ok {
		entry = &documentLock{ch: make(chan struct{}, 1)}
		l.locks[documentID] = entry
	}
	entry.refs++
	return entry
}

// release drops one reference and deletes the entry when nobody holds or
// waits on it anymore.
func (l *documentLocks) release(documentID int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.locks[documentID]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, documentID)
	}
}

// Acquire takes the exclusive lock for documentID, waiting up to the
// configured bound.
func (l *documentLocks) Acquire(documentID int) error {
	entry := l.retain(documentID)
	select {
	case entry.ch <- struct{}{}:
		return nil
	default:
	}

	timer := time.NewTimer(l.wait)
	defer timer.Stop()
	select {
	case entry.ch <- struct{}{}:
		return nil
	case <-timer.C:
		l.release(documentID)
		return newError(KindBusy, "document %d is busy with another operation, retry shortly", documentID)
	}
}

// Release frees the lock. Must only be called after a successful Acquire.
func (l *documentLocks) Release(documentID int) {
	l.mu.Lock()
	entry := l.locks[documentID]
	l.mu.Unlock()
	<-entry.ch
	l.release(documentID)
}
