package testutil

import (
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/arthur-debert/flatdir/pkg/filesystem"
	"github.com/arthur-debert/flatdir/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// NewTestFS creates a new in-memory filesystem for testing.
func NewTestFS() types.FS {
	return filesystem.NewAferoFS(afero.NewMemMapFs())
}

// BuildTree creates entries on fsys. Keys ending in "/" are directories,
// everything else is a file with the given content.
func BuildTree(t *testing.T, fsys types.FS, entries map[string]string) {
	t.Helper()
	for path, content := range entries {
		if strings.HasSuffix(path, "/") {
			require.NoError(t, fsys.MkdirAll(path, 0755))
			continue
		}
		require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, fsys.WriteFile(path, []byte(content), 0644))
	}
}

// MemTree is BuildTree on a fresh in-memory filesystem
func MemTree(t *testing.T, entries map[string]string) types.FS {
	t.Helper()
	fsys := NewTestFS()
	BuildTree(t, fsys, entries)
	return fsys
}

// ListTree returns every path below root, relative to it and sorted, with a
// trailing "/" for directories
func ListTree(t *testing.T, fsys types.FS, root string) []string {
	t.Helper()
	var out []string
	var walk func(dir string)
	walk = func(dir string) {
		entries, err := fsys.ReadDir(dir)
		require.NoError(t, err)
		for _, e := range entries {
			full := filepath.Join(dir, e.Name())
			rel, err := filepath.Rel(root, full)
			require.NoError(t, err)
			rel = filepath.ToSlash(rel)
			if e.IsDir() {
				out = append(out, rel+"/")
				walk(full)
				continue
			}
			out = append(out, rel)
		}
	}
	walk(root)
	sort.Strings(out)
	return out
}

// ReadString reads a whole file from fsys
func ReadString(t *testing.T, fsys types.FS, path string) string {
	t.Helper()
	data, err := fsys.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
