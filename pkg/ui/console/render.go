package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/flatdir/pkg/events"
	"github.com/arthur-debert/flatdir/pkg/flatten"
	"github.com/arthur-debert/flatdir/pkg/ledger"
	"github.com/arthur-debert/flatdir/pkg/sanitize"
	"github.com/arthur-debert/flatdir/pkg/ui/styles"
)

// RenderPlan prints the destination layout a run produced or, for a dry
// run, would produce
func RenderPlan(w io.Writer, res *flatten.Result) {
	_, _ = fmt.Fprintln(w, styles.Render("Header", res.DestRoot))
	for _, d := range res.Dirs {
		depth := 0
		name := "./"
		if d.RelPath != "." {
			depth = strings.Count(d.RelPath, "/") + 1
			parts := strings.Split(d.RelPath, "/")
			name = parts[len(parts)-1] + "/"
		}
		indent := strings.Repeat("  ", depth)

		label := styles.Render("Dir", name)
		if strings.Contains(name, flatten.Separator) {
			label = styles.Render("Flattened", name)
		}
		if !d.Created && d.RelPath != "." {
			label += " " + styles.Render("Muted", "(exists)")
		}
		_, _ = fmt.Fprintln(w, indent+label)

		for _, f := range d.Files {
			_, _ = fmt.Fprintln(w, indent+"  "+styles.Render("File", f))
		}
	}
	_, _ = fmt.Fprintln(w, styles.Render("Muted",
		fmt.Sprintf("%d directories (%d new), %d files, %d chains folded",
			len(res.Dirs), res.DirsCreated(), res.FilesCopied(), res.Flattened)))
}

// RenderRules prints the active rule list in application order
func RenderRules(w io.Writer, s *sanitize.Sanitizer) {
	rules := s.Rules()
	if len(rules) == 0 {
		_, _ = fmt.Fprintln(w, styles.Render("Muted", "No rules configured"))
		return
	}

	skipped := map[int]error{}
	for _, sk := range s.Skipped() {
		skipped[sk.Index] = sk.Err
	}

	for i, r := range rules {
		line := fmt.Sprintf("%s %-7s %s -> %q",
			styles.Render("RuleIndex", fmt.Sprintf("%d", i)),
			r.Kind(), r.Pattern(), r.Replacement())
		if err, ok := skipped[i]; ok {
			line += " " + styles.Render("Warning", "skipped: "+err.Error())
		}
		_, _ = fmt.Fprintln(w, line)
	}
}

// RenderTrace prints how each rule transformed name
func RenderTrace(w io.Writer, name, result string, steps []sanitize.Step) {
	_, _ = fmt.Fprintln(w, styles.Render("Label", name))
	for _, st := range steps {
		idx := styles.Render("RuleIndex", fmt.Sprintf("%d", st.Index))
		switch {
		case st.Err != nil:
			_, _ = fmt.Fprintf(w, "%s %s\n", idx, styles.Render("Warning", "error: "+st.Err.Error()))
		case st.Applied:
			_, _ = fmt.Fprintf(w, "%s %s  %s -> %s\n", idx,
				styles.Render("RuleApplied", "applied"), st.Before, st.After)
		}
	}
	if result == name {
		_, _ = fmt.Fprintln(w, "  = "+styles.Render("Muted", result+" (unchanged)"))
		return
	}
	_, _ = fmt.Fprintln(w, "  = "+styles.Render("Success", result))
}

// RenderHistory prints one line per run recorded in the ledger, newest last
func RenderHistory(w io.Writer, records []ledger.Record) {
	runs := ledger.Runs(records)
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(w, styles.Render("Muted", "No runs recorded"))
		return
	}

	for _, run := range runs {
		var started, finished *ledger.Record
		verified, mismatched := 0, 0
		for i := range run {
			switch run[i].Kind {
			case events.RunStarted:
				started = &run[i]
			case events.RunFinished:
				finished = &run[i]
			case events.HashVerified:
				verified++
			case events.HashMismatch:
				mismatched++
			}
		}

		id := run[0].Run
		if len(id) > 8 {
			id = id[:8]
		}
		when := run[0].Time.Local().Format("2006-01-02 15:04:05")
		roots := ""
		if started != nil {
			roots = fmt.Sprintf("%s -> %s", started.Source, started.Destination)
		}

		status := styles.Render("Warning", "incomplete")
		switch {
		case finished != nil && finished.Error != "":
			status = styles.Render("Error", "failed: "+finished.Error)
		case finished != nil:
			status = styles.Render("Success", "ok")
		}

		line := fmt.Sprintf("%s %s %s  %d verified", styles.Render("Muted", when), id, roots, verified)
		if mismatched > 0 {
			line += fmt.Sprintf(", %s", styles.Render("Error", fmt.Sprintf("%d mismatched", mismatched)))
		}
		_, _ = fmt.Fprintln(w, line+"  "+status)
	}
}
