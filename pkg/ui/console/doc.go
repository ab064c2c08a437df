// Package console renders flatdir's human-facing output: the progress
// stream of a run, its closing summary, preview trees, rule listings,
// rule traces and the ledger history.
//
// Reporter is an events.Observer and is normally combined with the log and
// ledger observers through events.Multi. The Render* functions write to any
// io.Writer and take their styling from pkg/ui/styles.
package console
