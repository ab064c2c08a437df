package events

import (
	"sync"
	"time"
)

// Kind identifies what happened
type Kind string

const (
	RunStarted      Kind = "run_started"
	RunFinished     Kind = "run_finished"
	DestRootCreated Kind = "dest_root_created"
	DirEntered      Kind = "dir_entered"
	Flattened       Kind = "flattened"
	DirCreated      Kind = "dir_created"
	DirReused       Kind = "dir_reused"
	DirEmpty        Kind = "dir_empty"
	FileCopied      Kind = "file_copied"
	HashVerified    Kind = "hash_verified"
	HashMismatch    Kind = "hash_mismatch"
	RuleApplied     Kind = "rule_applied"
	RuleSkipped     Kind = "rule_skipped"
	EntrySkipped    Kind = "entry_skipped"
)

// Event is a single observable step of a run. Only the fields relevant to
// the Kind are populated.
type Event struct {
	Kind  Kind
	RunID string
	Time  time.Time

	// Paths
	SourcePath string
	DestPath   string
	// RelPath is DestPath relative to the destination root
	RelPath string

	// Accumulated is the flattened name carried at this point
	Accumulated string

	// Rule application
	RuleIndex   int
	Pattern     string
	Replacement string
	Before      string
	After       string

	// Copy verification
	SourceHash string
	DestHash   string
	Size       int64

	// Counts for RunFinished and DirEntered
	Files int
	Dirs  int

	DryRun bool
	Err    error
}

// Observer receives events
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to an Observer
type ObserverFunc func(Event)

// Observe calls f(e)
func (f ObserverFunc) Observe(e Event) { f(e) }

// Discard drops every event
var Discard Observer = ObserverFunc(func(Event) {})

// Multi fans an event out to several observers in order
type Multi []Observer

// Observe implements Observer
func (m Multi) Observe(e Event) {
	for _, o := range m {
		if o != nil {
			o.Observe(e)
		}
	}
}

// Stamp returns an observer that fills RunID and Time before forwarding
func Stamp(runID string, next Observer) Observer {
	return ObserverFunc(func(e Event) {
		if e.RunID == "" {
			e.RunID = runID
		}
		if e.Time.IsZero() {
			e.Time = time.Now()
		}
		next.Observe(e)
	})
}

// Recorder keeps every event it sees. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Observe implements Observer
func (r *Recorder) Observe(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// OfKind returns the recorded events with the given kind
func (r *Recorder) OfKind(kind Kind) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
