// Package runlock keeps two flatdir runs from writing into the same
// destination at once. The lock is an flock(2) on a file under the state
// directory keyed by the destination root.
package runlock

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/flatdir/pkg/errors"
	"github.com/arthur-debert/flatdir/pkg/logging"
	"github.com/arthur-debert/flatdir/pkg/paths"
	"github.com/gofrs/flock"
)

// Lock is a held or releasable run lock
type Lock struct {
	flock *flock.Flock
	path  string
	dest  string
}

// ForDestination returns the lock guarding destRoot, stored under p's lock dir
func ForDestination(p paths.Paths, destRoot string) *Lock {
	return New(p.LockPath(destRoot), destRoot)
}

// New creates a lock backed by the file at path
func New(path, dest string) *Lock {
	return &Lock{
		flock: flock.New(path),
		path:  path,
		dest:  dest,
	}
}

// Path returns the lock file path
func (l *Lock) Path() string {
	return l.path
}

// Acquire takes the lock without blocking. It fails with ErrLocked when
// another run holds it.
func (l *Lock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create lock directory for %s", l.path).
			WithDetail("path", l.path)
	}

	acquired, err := l.flock.TryLock()
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "failed to try lock on %s", l.path).
			WithDetail("path", l.path)
	}
	if !acquired {
		return errors.Newf(errors.ErrLocked, "another run is writing to %s", l.dest).
			WithDetails(map[string]interface{}{"lockFile": l.path, "destination": l.dest})
	}

	logger := logging.GetLogger("runlock")
	logger.Debug().
		Str("lock", l.path).
		Str("destination", l.dest).
		Msg("Run lock acquired")
	return nil
}

// Release drops the lock; releasing an unheld lock is a no-op
func (l *Lock) Release() error {
	if !l.flock.Locked() {
		return nil
	}
	if err := l.flock.Unlock(); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "failed to release lock on %s", l.path)
	}
	return nil
}

// Locked reports whether this handle holds the lock
func (l *Lock) Locked() bool {
	return l.flock.Locked()
}
