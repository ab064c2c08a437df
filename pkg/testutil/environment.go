package testutil

import (
	"testing"

	"github.com/arthur-debert/flatdir/pkg/paths"
)

// Environment points flatdir's state and config directories at temporary
// directories for the duration of a test
type Environment struct {
	StateDir  string
	ConfigDir string
}

// NewEnvironment isolates t from the user's flatdir files and disables
// colored output
func NewEnvironment(t *testing.T) *Environment {
	t.Helper()
	env := &Environment{StateDir: t.TempDir(), ConfigDir: t.TempDir()}
	t.Setenv(paths.EnvStateDir, env.StateDir)
	t.Setenv(paths.EnvConfigDir, env.ConfigDir)
	t.Setenv("NO_COLOR", "1")
	return env
}

// Paths returns the flatdir paths for this environment
func (e *Environment) Paths() paths.Paths {
	return paths.New()
}
