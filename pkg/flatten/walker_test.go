package flatten

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/arthur-debert/flatdir/pkg/errors"
	"github.com/arthur-debert/flatdir/pkg/events"
	"github.com/arthur-debert/flatdir/pkg/filesystem"
	"github.com/arthur-debert/flatdir/pkg/sanitize"
	"github.com/arthur-debert/flatdir/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_FlattensSingleChildChains(t *testing.T) {
	fsys := testutil.MemTree(t, map[string]string{
		"/src/A/B/C/D/one.txt": "1",
		"/src/A/B/C/D/two.txt": "2",
		"/src/top.txt":         "top",
	})

	res, err := New(Options{FS: fsys}).Run("/src", "/dst")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"A++B++C++D/",
		"A++B++C++D/one.txt",
		"A++B++C++D/two.txt",
		"top.txt",
	}, testutil.ListTree(t, fsys, "/dst"))
	assert.Equal(t, 3, res.Flattened)
	assert.Equal(t, 3, res.FilesCopied())
}

func TestRun_SanitizesAccumulatedName(t *testing.T) {
	fsys := testutil.MemTree(t, map[string]string{
		"/src/A/B/C/D/one.txt": "1",
		"/src/other/":          "",
	})
	s := sanitize.New([]sanitize.Rule{sanitize.Literal{From: "A++B++C++D", To: "ABCD"}})

	_, err := New(Options{FS: fsys, Sanitizer: s}).Run("/src", "/dst")
	require.NoError(t, err)

	assert.Equal(t, []string{"ABCD/", "ABCD/one.txt", "other/"}, testutil.ListTree(t, fsys, "/dst"))
}

func TestRun_RootIsElided(t *testing.T) {
	fsys := testutil.MemTree(t, map[string]string{
		"/data/src/a.txt":     "a",
		"/data/src/sub/b.txt": "b",
		"/data/src/sub/c.txt": "c",
	})

	_, err := New(Options{FS: fsys}).Run("/data/src", "/out")
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt", "sub/", "sub/b.txt", "sub/c.txt"}, testutil.ListTree(t, fsys, "/out"))
}

func TestRun_RootWithSingleChildIsNotFolded(t *testing.T) {
	fsys := testutil.MemTree(t, map[string]string{
		"/root/build/PS3/pal_en/file.bin": "payload",
	})
	s := sanitize.New([]sanitize.Rule{
		sanitize.Regex{Expr: `build\+\+PS3\+\+pal_en`, To: "EU_EN"},
	})

	_, err := New(Options{FS: fsys, Sanitizer: s}).Run("/root", "/dest")
	require.NoError(t, err)

	assert.Equal(t, []string{"EU_EN/", "EU_EN/file.bin"}, testutil.ListTree(t, fsys, "/dest"))
}

func TestRun_BranchResetsAccumulator(t *testing.T) {
	fsys := testutil.MemTree(t, map[string]string{
		"/src/P/Q/R/q.txt": "q",
		"/src/P/S/T/s.txt": "s",
	})

	_, err := New(Options{FS: fsys}).Run("/src", "/dst")
	require.NoError(t, err)

	// P branches, so Q and S each begin their own chain below it
	assert.Equal(t, []string{
		"P/",
		"P/Q++R/",
		"P/Q++R/q.txt",
		"P/S++T/",
		"P/S++T/s.txt",
	}, testutil.ListTree(t, fsys, "/dst"))
}

func TestRun_SiblingsStartFreshChains(t *testing.T) {
	fsys := testutil.MemTree(t, map[string]string{
		"/src/P/Q/R/q.txt": "q",
		"/src/P/S/T/s.txt": "s",
		"/src/P/p.txt":     "p",
	})

	_, err := New(Options{FS: fsys}).Run("/src", "/dst")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"P/",
		"P/Q++R/",
		"P/Q++R/q.txt",
		"P/S++T/",
		"P/S++T/s.txt",
		"P/p.txt",
	}, testutil.ListTree(t, fsys, "/dst"))
}

func TestRun_LoneFileForcesMaterialization(t *testing.T) {
	fsys := testutil.MemTree(t, map[string]string{
		"/src/A/B/only.txt": "x",
		"/src/C/lonely.txt": "y",
	})

	_, err := New(Options{FS: fsys}).Run("/src", "/dst")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"A++B/",
		"A++B/only.txt",
		"C/",
		"C/lonely.txt",
	}, testutil.ListTree(t, fsys, "/dst"))
}

func TestRun_EmptyDirectoriesMaterialize(t *testing.T) {
	fsys := testutil.MemTree(t, map[string]string{
		"/src/E/":       "",
		"/src/A/empty/": "",
	})
	rec := &events.Recorder{}

	_, err := New(Options{FS: fsys, Observer: rec}).Run("/src", "/dst")
	require.NoError(t, err)

	assert.Equal(t, []string{"A++empty/", "E/"}, testutil.ListTree(t, fsys, "/dst"))
	assert.Len(t, rec.OfKind(events.DirEmpty), 2)
}

func TestRun_ProgressiveSanitization(t *testing.T) {
	// The accumulator is sanitized at every level, so a rule can match the
	// output of an earlier rule combined with the next basename.
	fsys := testutil.MemTree(t, map[string]string{
		"/src/texture_dictionary/Level1/design/Act_1_folderstream/tex.bin": "t",
		"/src/readme.txt": "r",
	})
	s := sanitize.New([]sanitize.Rule{
		sanitize.Regex{Expr: `^texture_dictionary\+\+(.*?)\+\+design$`, To: "${1}_Textures"},
		sanitize.Regex{Expr: `^.*?_Textures\+\+Act_.*_folderstream$`, To: "Textures"},
	})

	_, err := New(Options{FS: fsys, Sanitizer: s}).Run("/src", "/dst")
	require.NoError(t, err)

	assert.Equal(t, []string{"Textures/", "Textures/tex.bin", "readme.txt"}, testutil.ListTree(t, fsys, "/dst"))
}

func TestRun_HiddenAndEmptyFilesAreOrdinaryFiles(t *testing.T) {
	fsys := testutil.MemTree(t, map[string]string{
		"/src/A/.hidden": "",
	})

	_, err := New(Options{FS: fsys}).Run("/src", "/dst")
	require.NoError(t, err)

	assert.Equal(t, []string{"A/", "A/.hidden"}, testutil.ListTree(t, fsys, "/dst"))
}

func TestRun_HashMismatchAborts(t *testing.T) {
	mem := testutil.MemTree(t, map[string]string{
		"/src/A/first.bin":  "payload",
		"/src/A/second.bin": "payload",
	})
	rec := &events.Recorder{}

	res, err := New(Options{FS: testutil.CorruptingFS{FS: mem}, Observer: rec}).Run("/src", "/dst")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrHashMismatch))

	details := errors.GetErrorDetails(err)
	srcHash, _ := details["sourceHash"].(string)
	dstHash, _ := details["destinationHash"].(string)
	assert.Len(t, srcHash, 64)
	assert.Len(t, dstHash, 64)
	assert.NotEqual(t, srcHash, dstHash)
	assert.Equal(t, filepath.Join("A", "first.bin"), details["relativePath"])
	assert.Contains(t, err.Error(), srcHash)
	assert.Contains(t, err.Error(), dstHash)

	mismatches := rec.OfKind(events.HashMismatch)
	require.Len(t, mismatches, 1)
	assert.Equal(t, srcHash, mismatches[0].SourceHash)
	assert.Equal(t, dstHash, mismatches[0].DestHash)

	// The run stops at the first failure
	assert.Len(t, rec.OfKind(events.FileCopied), 1)
	assert.Empty(t, res.Copies)

	finished := rec.OfKind(events.RunFinished)
	require.Len(t, finished, 1)
	assert.Error(t, finished[0].Err)
}

func TestRun_ListingFailureAborts(t *testing.T) {
	mem := testutil.MemTree(t, map[string]string{
		"/src/locked/inner/f": "x",
		"/src/open/g":         "y",
	})

	_, err := New(Options{FS: testutil.FailingListFS{FS: mem, Path: "/src/locked"}}).Run("/src", "/dst")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDirList))
	assert.Equal(t, "/src/locked", errors.GetErrorDetails(err)["path"])
}

func TestRun_RootValidation(t *testing.T) {
	tests := []struct {
		name     string
		entries  map[string]string
		src, dst string
		code     errors.ErrorCode
	}{
		{
			name:    "missing source",
			entries: map[string]string{"/dst/": ""},
			src:     "/nope",
			dst:     "/dst",
			code:    errors.ErrRootNotFound,
		},
		{
			name:    "source is a file",
			entries: map[string]string{"/src": "file"},
			src:     "/src",
			dst:     "/dst",
			code:    errors.ErrRootNotFound,
		},
		{
			name:    "destination is a file",
			entries: map[string]string{"/src/a": "a", "/dst": "file"},
			src:     "/src",
			dst:     "/dst",
			code:    errors.ErrDestNotDir,
		},
		{
			name:    "destination inside source",
			entries: map[string]string{"/src/a": "a"},
			src:     "/src",
			dst:     "/src/out",
			code:    errors.ErrConfigInvalid,
		},
		{
			name:    "destination equals source",
			entries: map[string]string{"/src/a": "a"},
			src:     "/src",
			dst:     "/src",
			code:    errors.ErrConfigInvalid,
		},
		{
			name:    "empty source",
			entries: map[string]string{"/dst/": ""},
			src:     "",
			dst:     "/dst",
			code:    errors.ErrConfigInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := testutil.MemTree(t, tt.entries)
			_, err := New(Options{FS: fsys}).Run(tt.src, tt.dst)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetErrorCode(err))
		})
	}
}

func TestRun_MissingDestinationIsCreated(t *testing.T) {
	fsys := testutil.MemTree(t, map[string]string{"/src/a.txt": "a"})
	rec := &events.Recorder{}

	_, err := New(Options{FS: fsys, Observer: rec}).Run("/src", "/deep/dst")
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt"}, testutil.ListTree(t, fsys, "/deep/dst"))
	assert.Len(t, rec.OfKind(events.DestRootCreated), 1)
}

func TestRun_UnusableSanitizedNames(t *testing.T) {
	tests := []struct {
		name string
		rule sanitize.Rule
		code errors.ErrorCode
	}{
		{"separator", sanitize.Literal{From: "A++B", To: "A/B"}, errors.ErrConfigInvalid},
		{"parent reference", sanitize.Literal{From: "A++B", To: ".."}, errors.ErrConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := testutil.MemTree(t, map[string]string{"/src/A/B/f": "x", "/src/g": "y"})
			w := New(Options{FS: fsys, Sanitizer: sanitize.New([]sanitize.Rule{tt.rule})})

			_, err := w.Run("/src", "/dst")
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetErrorCode(err))
		})
	}
}

func TestRun_SanitizedToEmptyRestartsChain(t *testing.T) {
	// A rule that erases the accumulator makes the next level start a new
	// chain from its own basename.
	fsys := testutil.MemTree(t, map[string]string{"/src/A/B/C/f": "x", "/src/g": "y"})
	s := sanitize.New([]sanitize.Rule{sanitize.Literal{From: "A++B", To: ""}})

	_, err := New(Options{FS: fsys, Sanitizer: s}).Run("/src", "/dst")
	require.NoError(t, err)

	assert.Equal(t, []string{"B++C/", "B++C/f", "g"}, testutil.ListTree(t, fsys, "/dst"))
}

func TestRun_RerunReusesDirectories(t *testing.T) {
	fsys := testutil.MemTree(t, map[string]string{
		"/src/A/B/f.txt": "v1",
		"/src/c.txt":     "c",
	})

	_, err := New(Options{FS: fsys}).Run("/src", "/dst")
	require.NoError(t, err)

	require.NoError(t, fsys.WriteFile("/src/A/B/f.txt", []byte("v2"), 0644))
	rec := &events.Recorder{}
	res, err := New(Options{FS: fsys, Observer: rec}).Run("/src", "/dst")
	require.NoError(t, err)

	assert.Empty(t, rec.OfKind(events.DirCreated))
	assert.Len(t, rec.OfKind(events.DirReused), 1)
	assert.Len(t, rec.OfKind(events.HashVerified), 2, "every file is copied and verified again")
	assert.Equal(t, 0, res.DirsCreated())
	assert.Equal(t, 1, res.DirsReused())

	data, err := fsys.ReadFile("/dst/A++B/f.txt")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	fsys := testutil.MemTree(t, map[string]string{
		"/src/build/PS3/pal_en/file.bin": "x",
		"/src/docs/a.txt":                "a",
		"/src/docs/b.txt":                "b",
	})
	s := sanitize.New([]sanitize.Rule{sanitize.Literal{From: "build++PS3++pal_en", To: "EU_EN"}})
	rec := &events.Recorder{}

	res, err := New(Options{FS: fsys, Sanitizer: s, Observer: rec, DryRun: true}).Run("/src", "/dst")
	require.NoError(t, err)

	_, statErr := fsys.Stat("/dst")
	assert.True(t, os.IsNotExist(statErr), "dry run must not create the destination root")

	assert.True(t, res.DryRun)
	assert.Empty(t, res.Copies)
	assert.Equal(t, 3, res.FilesCopied())
	assert.Equal(t, 2, res.DirsCreated())

	var planned []string
	for _, d := range res.Dirs {
		planned = append(planned, d.RelPath)
	}
	assert.Equal(t, []string{".", "EU_EN", "docs"}, planned)

	for _, e := range rec.Events() {
		assert.True(t, e.DryRun)
	}
}

func TestRun_EventsCarryRunID(t *testing.T) {
	fsys := testutil.MemTree(t, map[string]string{"/src/a/b": "x"})
	rec := &events.Recorder{}

	w := New(Options{FS: fsys, Observer: rec, RunID: "fixed-run"})
	res, err := w.Run("/src", "/dst")
	require.NoError(t, err)

	assert.Equal(t, "fixed-run", res.RunID)
	for _, e := range rec.Events() {
		assert.Equal(t, "fixed-run", e.RunID)
	}

	generated := New(Options{FS: fsys})
	assert.Len(t, generated.RunID(), 36)
}

func TestRun_ResultRecordsVerifiedCopies(t *testing.T) {
	fsys := testutil.MemTree(t, map[string]string{
		"/src/A/x.bin": "12345",
		"/src/A/y.bin": "",
	})

	res, err := New(Options{FS: fsys}).Run("/src", "/dst")
	require.NoError(t, err)

	require.Len(t, res.Copies, 2)
	for _, c := range res.Copies {
		assert.True(t, c.Match)
		assert.Equal(t, c.SourceHash, c.DestHash)
	}
	assert.Equal(t, filepath.Join("A", "x.bin"), res.Copies[0].RelPath)
	assert.Equal(t, int64(5), res.Copies[0].Size)
	assert.Equal(t, int64(5), res.Bytes)
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", res.Copies[1].SourceHash)
}

func TestRun_OSFilesystemPreservesMetadata(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	dst := filepath.Join(tmp, "dst")
	file := filepath.Join(src, "pack", "data", "asset.bin")
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0755))
	require.NoError(t, os.WriteFile(file, []byte("asset"), 0640))
	require.NoError(t, os.WriteFile(filepath.Join(src, "other.txt"), []byte("o"), 0644))

	mtime := time.Date(2019, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(file, mtime, mtime))

	_, err := New(Options{FS: filesystem.NewOS()}).Run(src, dst)
	require.NoError(t, err)

	copied := filepath.Join(dst, "pack++data", "asset.bin")
	info, err := os.Stat(copied)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(mtime))
	if runtime.GOOS != "windows" {
		assert.Equal(t, os.FileMode(0640), info.Mode().Perm())
	}
}

func TestRun_SymlinksAreSkipped(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	dst := filepath.Join(tmp, "dst")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "A"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "A", "real.txt"), []byte("r"), 0644))
	require.NoError(t, os.Symlink(filepath.Join(src, "A", "real.txt"), filepath.Join(src, "A", "link.txt")))
	rec := &events.Recorder{}

	_, err := New(Options{FS: filesystem.NewOS(), Observer: rec}).Run(src, dst)
	require.NoError(t, err)

	_, err = os.Lstat(filepath.Join(dst, "A", "link.txt"))
	assert.True(t, os.IsNotExist(err))
	assert.Len(t, rec.OfKind(events.EntrySkipped), 1)
}
