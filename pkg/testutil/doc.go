// Package testutil provides helpers shared by flatdir's tests: in-memory
// trees built from a path map, a sorted listing of a tree, filesystems
// that inject faults, and an isolated state/config environment.
package testutil
