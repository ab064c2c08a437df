// Package filesystem provides filesystem implementations for flatdir.
//
// This package contains implementations of the types.FS interface,
// the OS filesystem used by the CLI and an afero-backed filesystem used
// for in-memory trees in tests.
package filesystem
