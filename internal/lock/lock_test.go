package lock

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestAcquireReleaseRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".observer.lock")
	l := New(path)

	if err := l.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	l.Release()

	// A second, independent Lock over the same path must succeed once
	// the first is released.
	l2 := New(path)
	if err := l2.Acquire(); err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	l2.Release()
}

func TestSimultaneousSecondWriterGetsErrLockBusy(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".observer.lock")

	first := New(path)
	if err := first.Acquire(); err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	defer first.Release()

	second := New(path)
	err := second.Acquire()
	if err == nil {
		t.Fatal("expected second Acquire to fail while first holds the lock")
	}
	if !errors.Is(err, ErrLockBusy) {
		t.Errorf("err = %v, want wrapping ErrLockBusy", err)
	}
}

func TestWithLockRunsFnThenReleases(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".observer.lock")

	ran := false
	if err := WithLock(path, func() error {
		ran = true
		return nil
	}); err != nil {
		t.Fatalf("WithLock: %v", err)
	}
	if !ran {
		t.Fatal("expected fn to run while holding the lock")
	}

	// The lock must be released on return so a subsequent WithLock over
	// the same path succeeds.
	ran2 := false
	if err := WithLock(path, func() error {
		ran2 = true
		return nil
	}); err != nil {
		t.Fatalf("second WithLock: %v", err)
	}
	if !ran2 {
		t.Fatal("expected second WithLock to run after the first released")
	}
}

func TestWithLockSkipsFnWhenBusy(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".observer.lock")

	holder := New(path)
	if err := holder.Acquire(); err != nil {
		t.Fatalf("holder Acquire: %v", err)
	}
	defer holder.Release()

	ran := false
	err := WithLock(path, func() error {
		ran = true
		return nil
	})
	if err == nil {
		t.Fatal("expected WithLock to fail while the file is already locked")
	}
	if !errors.Is(err, ErrLockBusy) {
		t.Errorf("err = %v, want wrapping ErrLockBusy", err)
	}
	if ran {
		t.Error("fn must not run when the lock could not be acquired — no weight file may be touched")
	}
}

func TestReleaseIsSafeWithoutAcquire(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), ".observer.lock"))
	l.Release() // must not panic or error
}

func TestAcquireCreatesLockFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".observer.lock")
	l := New(path)
	if err := l.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer l.Release()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected lock file to exist at %s: %v", path, err)
	}
}
