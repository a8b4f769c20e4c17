// Package lock provides the advisory cross-process lock that guards
// mutations to the hot and cold weight files (spec.md §5).
//
// The underlying acquire/release primitive (tryFlock/unlockFile) is
// chosen at compile time via build tag: flock_unix.go's //go:build unix
// variant uses an OS-level flock(2) advisory lock, while sentinel.go's
// //go:build !unix variant falls back to the create-exclusive sentinel
// scheme documented in spec.md §9 for platforms where flock has no
// equivalent. Acquisition never blocks indefinitely: it retries a fixed
// number of times with a short sleep and gives up, logging, rather than
// stalling a mutation forever.
package lock

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"
)

// ErrLockBusy is returned when the lock could not be acquired after
// all retries were exhausted.
var ErrLockBusy = errors.New("lock: could not acquire after retries")

const (
	maxRetries    = 5
	retryInterval = 50 * time.Millisecond
)

// Lock guards a single path with an advisory, best-effort lock.
type Lock struct {
	path string
	file *os.File
}

// New returns a Lock bound to the given path (e.g. ".observer.lock").
// The file is created on first Acquire if it does not exist.
func New(path string) *Lock {
	return &Lock{path: path}
}

// Acquire attempts to take the lock, retrying up to 5 times with a
// ~50ms backoff. On exhaustion it returns ErrLockBusy; callers must
// abandon the mutation and log rather than block indefinitely.
func (l *Lock) Acquire() error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryInterval)
		}
		f, err := tryFlock(l.path)
		if err == nil {
			l.file = f
			return nil
		}
		lastErr = err
	}
	log.Printf("lock: %s busy after %d attempts: %v", l.path, maxRetries, lastErr)
	return fmt.Errorf("%w: %s", ErrLockBusy, l.path)
}

// Release unlocks and closes the underlying file descriptor. It is
// guaranteed to be safe to call even if Acquire failed or was never
// called.
func (l *Lock) Release() {
	if l.file == nil {
		return
	}
	if err := unlockFile(l.file); err != nil {
		log.Printf("lock: release %s: %v", l.path, err)
	}
	l.file.Close()
	l.file = nil
}

// WithLock runs fn while holding the lock, releasing it on every exit
// path (success, panic-free error return, or early return). If the
// lock cannot be acquired, fn is not called and ErrLockBusy-wrapping
// error is returned — the caller's prior persisted state remains the
// system of record.
func WithLock(path string, fn func() error) error {
	l := New(path)
	if err := l.Acquire(); err != nil {
		return err
	}
	defer l.Release()
	return fn()
}
