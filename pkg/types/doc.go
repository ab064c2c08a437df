// Package types defines the interfaces shared across flatdir packages.
// The filesystem abstraction lives here so that the walker, the hashing
// helpers and the tests can agree on one contract without importing the
// concrete implementations in pkg/filesystem.
package types
