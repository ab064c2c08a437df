package flatten

import (
	"io"
	"os"

	"github.com/arthur-debert/flatdir/pkg/errors"
	"github.com/arthur-debert/flatdir/pkg/events"
	"github.com/arthur-debert/flatdir/pkg/internal/hashutil"
	"github.com/arthur-debert/flatdir/pkg/paths"
)

// copyVerified copies src to dst, carries over permission bits and
// modification time, then compares the SHA-256 of both files
func (w *Walker) copyVerified(src, dst, destRoot string) (CopyResult, error) {
	rel := paths.Rel(destRoot, dst)
	res := CopyResult{Source: src, Destination: dst, RelPath: rel}

	size, err := w.copyFile(src, dst)
	if err != nil {
		return res, errors.Wrapf(err, errors.ErrFileCopy, "error copying %s to %s", src, rel).
			WithDetail("source", src).
			WithDetail("destination", dst)
	}
	res.Size = size
	w.emit(events.Event{Kind: events.FileCopied, SourcePath: src, DestPath: dst, RelPath: rel, Size: size})

	res.SourceHash, err = hashutil.CalculateFileChecksum(w.fs, src)
	if err != nil {
		return res, errors.Wrapf(err, errors.ErrFileHash, "error hashing %s", src).
			WithDetail("path", src)
	}
	res.DestHash, err = hashutil.CalculateFileChecksum(w.fs, dst)
	if err != nil {
		return res, errors.Wrapf(err, errors.ErrFileHash, "error hashing %s", rel).
			WithDetail("path", dst)
	}

	res.Match = res.SourceHash == res.DestHash
	if !res.Match {
		w.emit(events.Event{
			Kind:       events.HashMismatch,
			SourcePath: src,
			DestPath:   dst,
			RelPath:    rel,
			SourceHash: res.SourceHash,
			DestHash:   res.DestHash,
			Size:       size,
		})
		return res, errors.Newf(errors.ErrHashMismatch, "hash mismatch for %s: source %s, destination %s",
			rel, res.SourceHash, res.DestHash).
			WithDetail("relativePath", rel).
			WithDetail("sourceHash", res.SourceHash).
			WithDetail("destinationHash", res.DestHash)
	}

	w.emit(events.Event{
		Kind:       events.HashVerified,
		SourcePath: src,
		DestPath:   dst,
		RelPath:    rel,
		SourceHash: res.SourceHash,
		DestHash:   res.DestHash,
		Size:       size,
	})
	return res, nil
}

func (w *Walker) copyFile(src, dst string) (int64, error) {
	in, err := w.fs.Open(src)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = in.Close()
	}()

	info, err := in.Stat()
	if err != nil {
		return 0, err
	}

	out, err := w.fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if err != nil {
		_ = out.Close()
		return n, err
	}
	if err := out.Close(); err != nil {
		return n, err
	}

	// The open mode is filtered by the umask and ignored for existing files
	if err := w.fs.Chmod(dst, info.Mode().Perm()); err != nil {
		return n, err
	}
	if err := w.fs.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return n, err
	}
	return n, nil
}
