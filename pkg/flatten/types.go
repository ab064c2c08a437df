package flatten

import (
	"io/fs"

	"github.com/arthur-debert/flatdir/pkg/events"
	"github.com/arthur-debert/flatdir/pkg/sanitize"
	"github.com/arthur-debert/flatdir/pkg/types"
)

// Separator joins the basenames of collapsed directories
const Separator = "++"

// DefaultDirPerm is the mode used for created destination directories
const DefaultDirPerm fs.FileMode = 0755

// Options configures a Walker
type Options struct {
	// FS is the filesystem both trees live on; defaults to the OS
	FS types.FS
	// Sanitizer rewrites accumulated names; nil means no rules
	Sanitizer *sanitize.Sanitizer
	// Observer receives progress events; nil discards them
	Observer events.Observer
	// DryRun classifies and names everything but writes nothing
	DryRun bool
	// DirPerm is the mode for created directories; zero uses DefaultDirPerm
	DirPerm fs.FileMode
	// RunID tags events and results; generated when empty
	RunID string
}

// State is the traversal position handed to each recursive step
type State struct {
	SourceDir   string
	DestParent  string
	Accumulated string
	SourceRoot  string
	DestRoot    string
}

// CopyResult is the verified outcome of copying one file
type CopyResult struct {
	Source      string
	Destination string
	// RelPath is Destination relative to the destination root
	RelPath    string
	Size       int64
	SourceHash string
	DestHash   string
	Match      bool
}

// DirResult describes one materialized destination directory
type DirResult struct {
	// RelPath is relative to the destination root; "." for the root itself
	RelPath    string
	SourcePath string
	Created    bool
	Files      []string
}

// Result summarizes a run
type Result struct {
	RunID      string
	SourceRoot string
	DestRoot   string
	DryRun     bool

	Dirs      []DirResult
	Copies    []CopyResult
	Flattened int
	Bytes     int64
}

// DirsCreated counts directories the run created (or would create)
func (r *Result) DirsCreated() int {
	n := 0
	for _, d := range r.Dirs {
		if d.Created {
			n++
		}
	}
	return n
}

// DirsReused counts destination directories that already existed,
// excluding the destination root
func (r *Result) DirsReused() int {
	n := 0
	for _, d := range r.Dirs {
		if !d.Created && d.RelPath != "." {
			n++
		}
	}
	return n
}

// FilesCopied counts copied (or planned) files
func (r *Result) FilesCopied() int {
	n := 0
	for _, d := range r.Dirs {
		n += len(d.Files)
	}
	return n
}
