// Package paths provides centralized path handling for flatdir.
//
// This package implements the XDG Base Directory specification for the
// files flatdir keeps outside of the trees it processes:
//
//   - Config: $XDG_CONFIG_HOME/flatdir (user configuration)
//   - State: $XDG_STATE_HOME/flatdir (log file, run ledger, run locks)
//
// # Environment Variables
//
//   - FLATDIR_CONFIG_DIR: Override the config directory
//   - FLATDIR_STATE_DIR: Override the state directory
//
// It also resolves user supplied source and destination roots to clean
// absolute paths, expanding a leading ~.
package paths
