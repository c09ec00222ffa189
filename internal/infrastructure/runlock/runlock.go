package runlock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Lock serializes whole runs. Overlapping dump processes against the same
// server are not supported, so one invocation holds the lock from before the
// first database until after the last.
type Lock struct {
	fl *flock.Flock
}

// Acquire takes the run lock under dir without blocking. A held lock means
// another run is in progress and this one must not start.
func Acquire(dir, name string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	fl := flock.New(filepath.Join(dir, name))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another run holds the lock %s", fl.Path())
	}
	return &Lock{fl: fl}, nil
}

func (l *Lock) Release() error {
	return l.fl.Unlock()
}
