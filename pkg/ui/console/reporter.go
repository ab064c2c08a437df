package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/arthur-debert/flatdir/pkg/events"
	"github.com/arthur-debert/flatdir/pkg/ui/styles"
)

// Options tunes the progress stream
type Options struct {
	// Verbose adds directory traversal, folding and hash lines
	Verbose bool
	// Quiet suppresses everything except warnings, errors and the summary
	Quiet bool
}

// Reporter prints run progress as events arrive
type Reporter struct {
	mu   sync.Mutex
	w    io.Writer
	opts Options
}

// NewReporter creates a reporter writing to w
func NewReporter(w io.Writer, opts Options) *Reporter {
	return &Reporter{w: w, opts: opts}
}

// Observe implements events.Observer
func (r *Reporter) Observe(e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch e.Kind {
	case events.RunStarted:
		title := fmt.Sprintf("Flattening %s into %s", e.SourcePath, e.DestPath)
		if e.DryRun {
			title += " " + styles.Render("DryRun", "(preview)")
		}
		r.line(false, styles.Render("Header", title))
	case events.DestRootCreated:
		r.line(true, styles.Render("Warning", fmt.Sprintf("Destination %s did not exist, created", e.DestPath)))
	case events.DirEntered:
		if r.opts.Verbose {
			r.line(false, styles.Render("Muted", "Processing "+e.SourcePath))
		}
	case events.Flattened:
		if r.opts.Verbose {
			r.line(false, "  "+styles.Render("Flattened", "folding "+e.Accumulated))
		}
	case events.DirCreated:
		r.line(false, styles.Render("Dir", "+ "+e.RelPath+"/"))
	case events.DirReused:
		if r.opts.Verbose {
			r.line(false, styles.Render("Muted", "= "+e.RelPath+"/"))
		}
	case events.FileCopied:
		r.line(false, "  "+styles.Render("File", e.RelPath)+sizeSuffix(e))
	case events.HashVerified:
		if r.opts.Verbose {
			r.line(false, "    "+styles.Render("Hash", "sha256 "+e.SourceHash))
		}
	case events.HashMismatch:
		r.line(true, styles.Render("Error", "Hash mismatch for "+e.RelPath))
		r.line(true, fmt.Sprintf("    source      %s", e.SourceHash))
		r.line(true, fmt.Sprintf("    destination %s", e.DestHash))
	case events.RuleSkipped:
		r.line(true, styles.Render("Warning", fmt.Sprintf("Rule %d (%s) skipped: %v", e.RuleIndex, e.Pattern, e.Err)))
	case events.EntrySkipped:
		if r.opts.Verbose {
			r.line(false, styles.Render("Muted", "skipped "+e.SourcePath))
		}
	case events.RunFinished:
		r.summary(e)
	}
}

func (r *Reporter) summary(e events.Event) {
	if e.Err != nil {
		_, _ = fmt.Fprintln(r.w, styles.Render("Error", "Run failed: ")+e.Err.Error())
		return
	}
	files := fmt.Sprintf("%d %s", e.Files, plural(e.Files, "file", "files"))
	dirs := fmt.Sprintf("%d new %s", e.Dirs, plural(e.Dirs, "directory", "directories"))
	msg := fmt.Sprintf("Copied %s (%s) into %s", files, FormatBytes(e.Size), dirs)
	if e.DryRun {
		msg = fmt.Sprintf("Would copy %s into %s", files, dirs)
	}
	_, _ = fmt.Fprintln(r.w, styles.Render("Success", msg))
}

func (r *Reporter) line(important bool, s string) {
	if r.opts.Quiet && !important {
		return
	}
	_, _ = fmt.Fprintln(r.w, s)
}

func sizeSuffix(e events.Event) string {
	if e.DryRun {
		return ""
	}
	return " " + styles.Render("Muted", "("+FormatBytes(e.Size)+")")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatBytes renders a byte count with a binary unit
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
