// Package ledger keeps an append-only JSON-lines record of flatdir runs:
// one line when a run starts, one per verified (or mismatched) file and one
// when the run finishes. Each line carries the run ID so interleaved runs
// against different destinations can be told apart.
package ledger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/arthur-debert/flatdir/pkg/errors"
	"github.com/arthur-debert/flatdir/pkg/events"
	"github.com/arthur-debert/flatdir/pkg/logging"
	"github.com/arthur-debert/flatdir/pkg/types"
)

// Record is one ledger line
type Record struct {
	Time        time.Time   `json:"time"`
	Run         string      `json:"run"`
	Kind        events.Kind `json:"kind"`
	Source      string      `json:"source,omitempty"`
	Destination string      `json:"destination,omitempty"`
	Path        string      `json:"path,omitempty"`
	Size        int64       `json:"size,omitempty"`
	SourceHash  string      `json:"sourceHash,omitempty"`
	DestHash    string      `json:"destinationHash,omitempty"`
	Files       int         `json:"files,omitempty"`
	Dirs        int         `json:"dirs,omitempty"`
	DryRun      bool        `json:"dryRun,omitempty"`
	Error       string      `json:"error,omitempty"`
}

// Ledger is an events.Observer appending records to a file
type Ledger struct {
	mu   sync.Mutex
	fs   types.FS
	path string
	file types.File
	enc  *json.Encoder
	err  error
}

var recorded = map[events.Kind]bool{
	events.RunStarted:   true,
	events.RunFinished:  true,
	events.HashVerified: true,
	events.HashMismatch: true,
}

// Open opens (creating if needed) the ledger at path for appending
func Open(fsys types.FS, path string) (*Ledger, error) {
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create ledger directory for %s", path).
			WithDetail("path", path)
	}
	f, err := fsys.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileCopy, "failed to open ledger %s", path).
			WithDetail("path", path)
	}
	return &Ledger{fs: fsys, path: path, file: f, enc: json.NewEncoder(f)}, nil
}

// Path returns the ledger file path
func (l *Ledger) Path() string {
	return l.path
}

// Observe implements events.Observer. Write failures are logged once and
// kept for Err; they never interrupt the run.
func (l *Ledger) Observe(e events.Event) {
	if !recorded[e.Kind] {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.enc == nil || l.err != nil {
		return
	}

	rec := Record{
		Time:        e.Time,
		Run:         e.RunID,
		Kind:        e.Kind,
		Source:      e.SourcePath,
		Destination: e.DestPath,
		Path:        e.RelPath,
		Size:        e.Size,
		SourceHash:  e.SourceHash,
		DestHash:    e.DestHash,
		Files:       e.Files,
		Dirs:        e.Dirs,
		DryRun:      e.DryRun,
	}
	if rec.Time.IsZero() {
		rec.Time = time.Now()
	}
	if e.Err != nil {
		rec.Error = e.Err.Error()
	}

	if err := l.enc.Encode(rec); err != nil {
		l.err = errors.Wrapf(err, errors.ErrFileCopy, "failed to write ledger %s", l.path)
		logger := logging.GetLogger("ledger")
		logger.Warn().Err(err).Str("path", l.path).Msg("Ledger write failed, disabling ledger")
	}
}

// Err returns the first write error, if any
func (l *Ledger) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Close closes the underlying file
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.enc = nil
	return err
}

// ReadRecords parses every record in the ledger at path. A missing ledger
// yields no records.
func ReadRecords(fsys types.FS, path string) ([]Record, error) {
	f, err := fsys.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to open ledger %s", path)
	}
	defer func() { _ = f.Close() }()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return records, errors.Wrapf(err, errors.ErrConfigParse, "malformed ledger line %d", line).
				WithDetail("path", path).
				WithDetail("line", line)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return records, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read ledger %s", path)
	}
	return records, nil
}

// Runs groups records by run ID, preserving first-seen order
func Runs(records []Record) [][]Record {
	index := map[string]int{}
	var runs [][]Record
	for _, r := range records {
		i, ok := index[r.Run]
		if !ok {
			i = len(runs)
			index[r.Run] = i
			runs = append(runs, nil)
		}
		runs[i] = append(runs[i], r)
	}
	return runs
}
