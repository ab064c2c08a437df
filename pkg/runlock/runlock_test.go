package runlock_test

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/flatdir/pkg/errors"
	"github.com/arthur-debert/flatdir/pkg/paths"
	"github.com/arthur-debert/flatdir/pkg/runlock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locks", "a.lock")

	first := runlock.New(path, "/dest")
	require.NoError(t, first.Acquire())
	assert.True(t, first.Locked())

	second := runlock.New(path, "/dest")
	err := second.Acquire()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrLocked))
	assert.Equal(t, path, errors.GetErrorDetails(err)["lockFile"])
	assert.False(t, second.Locked())

	require.NoError(t, first.Release())
	assert.False(t, first.Locked())

	require.NoError(t, second.Acquire())
	require.NoError(t, second.Release())
}

func TestReleaseUnheld(t *testing.T) {
	l := runlock.New(filepath.Join(t.TempDir(), "x.lock"), "/dest")
	assert.NoError(t, l.Release())
}

func TestForDestination(t *testing.T) {
	t.Setenv(paths.EnvStateDir, t.TempDir())
	p := paths.New()

	a := runlock.ForDestination(p, "/data/out")
	b := runlock.ForDestination(p, "/data/out/")
	c := runlock.ForDestination(p, "/data/other")

	assert.Equal(t, a.Path(), b.Path())
	assert.NotEqual(t, a.Path(), c.Path())
	assert.Equal(t, p.LockDir(), filepath.Dir(a.Path()))

	require.NoError(t, a.Acquire())
	defer func() { _ = a.Release() }()
	assert.True(t, errors.IsErrorCode(b.Acquire(), errors.ErrLocked))
	require.NoError(t, c.Acquire())
	require.NoError(t, c.Release())
}
