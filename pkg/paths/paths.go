package paths

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/flatdir/pkg/errors"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for flatdir
	EnvConfigDir = "FLATDIR_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for flatdir
	EnvStateDir = "FLATDIR_STATE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// AppDirName is the directory name for flatdir-specific files
	AppDirName = "flatdir"

	// ConfigFileName is the name of the user level config file
	ConfigFileName = "config.toml"

	// LogFileName is the name of the log file
	LogFileName = "flatdir.log"

	// LedgerFileName is the name of the run ledger
	LedgerFileName = "ledger.jsonl"

	// LocksDir is the subdirectory holding run locks
	LocksDir = "locks"
)

// Paths provides the locations of flatdir's own files
type Paths interface {
	ConfigDir() string
	ConfigFilePath() string
	StateDir() string
	LogFilePath() string
	LedgerPath() string
	LockDir() string
	LockPath(destRoot string) string
}

type paths struct {
	configDir string
	stateDir  string
}

// New creates a new Paths instance, respecting environment overrides
func New() Paths {
	p := &paths{}

	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.configDir = ExpandHome(configDir)
	} else {
		p.configDir = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	// xdg resolves StateHome once at init; read the variable directly so
	// changes made after start-up are honoured.
	switch {
	case os.Getenv(EnvStateDir) != "":
		p.stateDir = ExpandHome(os.Getenv(EnvStateDir))
	case os.Getenv("XDG_STATE_HOME") != "":
		p.stateDir = filepath.Join(os.Getenv("XDG_STATE_HOME"), AppDirName)
	default:
		p.stateDir = filepath.Join(xdg.StateHome, AppDirName)
	}

	return p
}

// ConfigDir returns the config directory for flatdir
func (p *paths) ConfigDir() string {
	return p.configDir
}

// ConfigFilePath returns the user level config file path
func (p *paths) ConfigFilePath() string {
	return filepath.Join(p.configDir, ConfigFileName)
}

// StateDir returns the state directory for flatdir
func (p *paths) StateDir() string {
	return p.stateDir
}

// LogFilePath returns the path to the log file
func (p *paths) LogFilePath() string {
	return filepath.Join(p.stateDir, LogFileName)
}

// LedgerPath returns the default path of the run ledger
func (p *paths) LedgerPath() string {
	return filepath.Join(p.stateDir, LedgerFileName)
}

// LockDir returns the directory holding run locks
func (p *paths) LockDir() string {
	return filepath.Join(p.stateDir, LocksDir)
}

// LockPath returns the lock file guarding a destination root.
// The name is derived from the cleaned destination path so that two
// spellings of the same directory share one lock.
func (p *paths) LockPath(destRoot string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(destRoot)))
	return filepath.Join(p.LockDir(), fmt.Sprintf("%x.lock", sum[:8]))
}

// ResolveDir expands ~ and returns the clean absolute form of path
func ResolveDir(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrConfigInvalid, "path is empty")
	}
	abs, err := filepath.Abs(ExpandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrConfigInvalid, "failed to get absolute path for %s", path)
	}
	return abs, nil
}

// Rel returns target relative to base, falling back to target itself
// when no relative form exists.
func Rel(base, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return target
	}
	return rel
}

// ExpandHome expands ~ to the home directory
func ExpandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				return path
			}
		}

		if len(path) == 1 {
			return homeDir
		}

		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}

		// ~something (not the user's home)
		return path
	}

	return path
}
