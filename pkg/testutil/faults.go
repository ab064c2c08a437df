package testutil

import (
	"io/fs"

	"github.com/arthur-debert/flatdir/pkg/types"
)

// CorruptingFS appends a byte to every file written through OpenFile when
// it is closed, so a copy succeeds but no longer matches its source
type CorruptingFS struct {
	types.FS
}

// OpenFile wraps the returned file
func (c CorruptingFS) OpenFile(name string, flag int, perm fs.FileMode) (types.File, error) {
	f, err := c.FS.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &corruptingFile{File: f}, nil
}

type corruptingFile struct {
	types.File
}

func (c *corruptingFile) Close() error {
	if _, err := c.File.Write([]byte{0xFF}); err != nil {
		return err
	}
	return c.File.Close()
}

// FailingListFS refuses to list Path
type FailingListFS struct {
	types.FS
	Path string
}

// ReadDir fails with fs.ErrPermission for Path
func (f FailingListFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if name == f.Path {
		return nil, fs.ErrPermission
	}
	return f.FS.ReadDir(name)
}

// FailingWriteFS opens files normally but every Write on them fails
type FailingWriteFS struct {
	types.FS
}

// OpenFile wraps the returned file
func (f FailingWriteFS) OpenFile(name string, flag int, perm fs.FileMode) (types.File, error) {
	file, err := f.FS.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return failingWriteFile{File: file}, nil
}

type failingWriteFile struct {
	types.File
}

func (failingWriteFile) Write([]byte) (int, error) {
	return 0, fs.ErrPermission
}
