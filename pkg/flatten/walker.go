package flatten

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/flatdir/pkg/errors"
	"github.com/arthur-debert/flatdir/pkg/events"
	"github.com/arthur-debert/flatdir/pkg/filesystem"
	"github.com/arthur-debert/flatdir/pkg/logging"
	"github.com/arthur-debert/flatdir/pkg/paths"
	"github.com/arthur-debert/flatdir/pkg/sanitize"
	"github.com/arthur-debert/flatdir/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Walker performs collapsing copies. A Walker is not safe for concurrent
// Runs.
type Walker struct {
	fs        types.FS
	sanitizer *sanitize.Sanitizer
	observer  events.Observer
	dryRun    bool
	dirPerm   fs.FileMode
	runID     string
	logger    zerolog.Logger

	result *Result
}

// New creates a Walker from options
func New(opts Options) *Walker {
	w := &Walker{
		fs:        opts.FS,
		sanitizer: opts.Sanitizer,
		dryRun:    opts.DryRun,
		dirPerm:   opts.DirPerm,
		runID:     opts.RunID,
		logger:    logging.GetLogger("flatten"),
	}
	if w.fs == nil {
		w.fs = filesystem.NewOS()
	}
	if w.sanitizer == nil {
		w.sanitizer = sanitize.New(nil)
	}
	if w.dirPerm == 0 {
		w.dirPerm = DefaultDirPerm
	}
	if w.runID == "" {
		w.runID = uuid.NewString()
	}
	observer := opts.Observer
	if observer == nil {
		observer = events.Discard
	}
	w.observer = events.Stamp(w.runID, observer)
	return w
}

// RunID returns the identifier attached to this walker's events
func (w *Walker) RunID() string {
	return w.runID
}

// Run flattens the contents of sourceRoot into destRoot
func (w *Walker) Run(sourceRoot, destRoot string) (*Result, error) {
	done := logging.LogOperationStart(w.logger, "flatten")
	defer done()

	src, dst, err := w.prepareRoots(sourceRoot, destRoot)
	if err != nil {
		return nil, err
	}

	w.result = &Result{
		RunID:      w.runID,
		SourceRoot: src,
		DestRoot:   dst,
		DryRun:     w.dryRun,
	}
	w.emit(events.Event{Kind: events.RunStarted, SourcePath: src, DestPath: dst})

	err = w.walk(State{
		SourceDir:  src,
		DestParent: dst,
		SourceRoot: src,
		DestRoot:   dst,
	})

	w.emit(events.Event{
		Kind:  events.RunFinished,
		Files: w.result.FilesCopied(),
		Dirs:  w.result.DirsCreated(),
		Size:  w.result.Bytes,
		Err:   err,
	})

	return w.result, err
}

// prepareRoots validates both roots and creates the destination root when
// it does not exist yet
func (w *Walker) prepareRoots(sourceRoot, destRoot string) (string, string, error) {
	src, err := paths.ResolveDir(sourceRoot)
	if err != nil {
		return "", "", err
	}
	dst, err := paths.ResolveDir(destRoot)
	if err != nil {
		return "", "", err
	}

	info, err := w.fs.Stat(src)
	if err != nil {
		return "", "", errors.Wrapf(err, errors.ErrRootNotFound, "source root %s not found", src).
			WithDetail("path", src)
	}
	if !info.IsDir() {
		return "", "", errors.Newf(errors.ErrRootNotFound, "source root %s is not a directory", src).
			WithDetail("path", src)
	}

	if dst == src || strings.HasPrefix(dst, src+string(filepath.Separator)) {
		return "", "", errors.Newf(errors.ErrConfigInvalid,
			"destination %s must not be inside source %s", dst, src).
			WithDetail("source", src).
			WithDetail("destination", dst)
	}

	info, err = w.fs.Stat(dst)
	switch {
	case err == nil && !info.IsDir():
		return "", "", errors.Newf(errors.ErrDestNotDir, "destination %s exists but is not a directory", dst).
			WithDetail("path", dst)
	case err != nil && !os.IsNotExist(err):
		return "", "", errors.Wrapf(err, errors.ErrDirCreate, "cannot access destination %s", dst).
			WithDetail("path", dst)
	case err != nil:
		if !w.dryRun {
			if err := w.fs.MkdirAll(dst, w.dirPerm); err != nil {
				return "", "", errors.Wrapf(err, errors.ErrDirCreate, "failed to create destination %s", dst).
					WithDetail("path", dst)
			}
		}
		w.emit(events.Event{Kind: events.DestRootCreated, DestPath: dst})
	}

	return src, dst, nil
}

// walk handles one source directory. It either folds the directory into
// the accumulated name and descends into its only child, or materializes
// a destination directory for it.
func (w *Walker) walk(st State) error {
	if st.Accumulated != "" {
		st.Accumulated = w.sanitizer.Sanitize(st.Accumulated)
	}

	dirs, files, err := w.list(st.SourceDir)
	if err != nil {
		return err
	}

	w.emit(events.Event{
		Kind:        events.DirEntered,
		SourcePath:  st.SourceDir,
		DestPath:    st.DestParent,
		Accumulated: st.Accumulated,
		Files:       len(files),
		Dirs:        len(dirs),
	})

	// The root is never folded into a name; only its contents are placed.
	isRoot := st.SourceDir == st.SourceRoot && st.Accumulated == ""
	if len(dirs) == 1 && len(files) == 0 && !isRoot {
		return w.flatten(st, dirs[0])
	}
	return w.materialize(st, dirs, files)
}

func (w *Walker) flatten(st State, child string) error {
	childName := filepath.Base(child)

	next := st
	next.SourceDir = child
	if st.Accumulated == "" {
		next.Accumulated = filepath.Base(st.SourceDir) + Separator + childName
	} else {
		next.Accumulated = st.Accumulated + Separator + childName
	}

	w.result.Flattened++
	w.emit(events.Event{
		Kind:        events.Flattened,
		SourcePath:  st.SourceDir,
		Accumulated: next.Accumulated,
	})

	return w.walk(next)
}

func (w *Walker) materialize(st State, dirs, files []string) error {
	destDir, err := w.destinationFor(st)
	if err != nil {
		return err
	}

	rel := paths.Rel(st.DestRoot, destDir)
	dirResult := DirResult{RelPath: rel, SourcePath: st.SourceDir}

	if destDir != st.DestRoot {
		created, err := w.ensureDir(destDir, rel)
		if err != nil {
			return err
		}
		dirResult.Created = created
	}

	for _, file := range files {
		target := filepath.Join(destDir, filepath.Base(file))
		if w.dryRun {
			w.emit(events.Event{
				Kind:       events.FileCopied,
				SourcePath: file,
				DestPath:   target,
				RelPath:    paths.Rel(st.DestRoot, target),
			})
		} else {
			res, err := w.copyVerified(file, target, st.DestRoot)
			if err != nil {
				return err
			}
			w.result.Copies = append(w.result.Copies, res)
			w.result.Bytes += res.Size
		}
		dirResult.Files = append(dirResult.Files, filepath.Base(file))
	}
	w.result.Dirs = append(w.result.Dirs, dirResult)

	if len(dirs) == 0 && len(files) == 0 {
		w.emit(events.Event{Kind: events.DirEmpty, SourcePath: st.SourceDir})
	}

	for _, dir := range dirs {
		err := w.walk(State{
			SourceDir:   dir,
			DestParent:  destDir,
			Accumulated: "",
			SourceRoot:  st.SourceRoot,
			DestRoot:    st.DestRoot,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// destinationFor computes the directory a materialized source maps to
func (w *Walker) destinationFor(st State) (string, error) {
	if st.SourceDir == st.SourceRoot && st.Accumulated == "" {
		return st.DestParent, nil
	}

	name := st.Accumulated
	if name == "" {
		name = filepath.Base(st.SourceDir)
	}
	if err := validateName(name, st.SourceDir); err != nil {
		return "", err
	}
	return filepath.Join(st.DestParent, name), nil
}

func validateName(name, source string) error {
	switch {
	case name == "" || name == string(filepath.Separator):
		return errors.Newf(errors.ErrEmptyName, "computed directory name is empty for source %s", source).
			WithDetail("source", source)
	case name == "." || name == "..":
		return errors.Newf(errors.ErrConfigInvalid, "computed directory name %q for source %s is not usable", name, source).
			WithDetail("source", source).
			WithDetail("name", name)
	case strings.ContainsRune(name, filepath.Separator) || strings.ContainsRune(name, '/'):
		return errors.Newf(errors.ErrConfigInvalid, "computed directory name %q for source %s contains a path separator", name, source).
			WithDetail("source", source).
			WithDetail("name", name)
	}
	return nil
}

// ensureDir creates dir unless it already exists. It reports whether the
// directory was created.
func (w *Walker) ensureDir(dir, rel string) (bool, error) {
	info, err := w.fs.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return false, errors.Newf(errors.ErrDirCreate, "destination %s exists but is not a directory", rel).
				WithDetail("path", dir)
		}
		w.emit(events.Event{Kind: events.DirReused, DestPath: dir, RelPath: rel})
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, errors.Wrapf(err, errors.ErrDirCreate, "cannot access destination %s", rel).
			WithDetail("path", dir)
	}

	if !w.dryRun {
		if err := w.fs.MkdirAll(dir, w.dirPerm); err != nil {
			return false, errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory %s", rel).
				WithDetail("path", dir)
		}
	}
	w.emit(events.Event{Kind: events.DirCreated, DestPath: dir, RelPath: rel})
	return true, nil
}

// list returns the absolute paths of the directories and regular files
// directly inside dir, sorted by name
func (w *Walker) list(dir string) ([]string, []string, error) {
	entries, err := w.fs.ReadDir(dir)
	if err != nil {
		return nil, nil, errors.Wrapf(err, errors.ErrDirList, "error reading contents of %s", dir).
			WithDetail("path", dir)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	var dirs, files []string
	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		switch {
		case entry.IsDir():
			dirs = append(dirs, full)
		case entry.Type().IsRegular():
			files = append(files, full)
		default:
			w.emit(events.Event{Kind: events.EntrySkipped, SourcePath: full})
		}
	}
	return dirs, files, nil
}

func (w *Walker) emit(e events.Event) {
	e.DryRun = w.dryRun
	w.observer.Observe(e)
}
