package fileutil

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
)

// ErrLocked reports that another run holds the output lock.
var ErrLocked = errors.New("output is locked by another run")

// LockOutput takes an exclusive advisory lock on path + ".lock". The returned
// func releases it. The lock file stays on disk so every run contends on the
// same inode.
func LockOutput(path string) (func(), error) {
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	switch {
	case err != nil:
		return nil, fmt.Errorf("acquire lock: %w", err)
	case !ok:
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}
	return func() { _ = lock.Unlock() }, nil
}
