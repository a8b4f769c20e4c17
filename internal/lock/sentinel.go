//go:build !unix

package lock

import (
	"fmt"
	"os"
)

// tryFlock falls back to the sentinel create-exclusive scheme on
// non-unix platforms, per spec.md §9: flock(2) has no portable
// equivalent there, and the sentinel approach is documented as
// race-prone but acceptable for cooperative participants.
func tryFlock(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("create sentinel: %w", err)
	}
	return f, nil
}

func unlockFile(f *os.File) error {
	path := f.Name()
	f.Close()
	return os.Remove(path)
}
