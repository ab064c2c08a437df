package events

import (
	"github.com/rs/zerolog"
)

// LogObserver writes events as structured log records
type LogObserver struct {
	logger zerolog.Logger
}

// NewLogObserver creates an observer logging through logger
func NewLogObserver(logger zerolog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

// Observe implements Observer
func (l *LogObserver) Observe(e Event) {
	ev := l.logger.WithLevel(levelFor(e.Kind))
	if e.RunID != "" {
		ev = ev.Str("run", e.RunID)
	}
	if e.DryRun {
		ev = ev.Bool("dryRun", true)
	}

	switch e.Kind {
	case RunStarted:
		ev.Str("source", e.SourcePath).Str("destination", e.DestPath).Msg("Run started")
	case RunFinished:
		ev.Int("files", e.Files).Int("dirs", e.Dirs).Int64("bytes", e.Size).Msg("Run finished")
	case DestRootCreated:
		ev.Str("destination", e.DestPath).Msg("Destination root not found, created")
	case DirEntered:
		ev.Str("source", e.SourcePath).
			Str("destParent", e.DestPath).
			Str("accumulated", e.Accumulated).
			Int("files", e.Files).
			Int("dirs", e.Dirs).
			Msg("Processing source directory")
	case Flattened:
		ev.Str("source", e.SourcePath).Str("accumulated", e.Accumulated).Msg("Flattening single-child directory")
	case DirCreated:
		ev.Str("dir", e.RelPath).Msg("Creating directory")
	case DirReused:
		ev.Str("dir", e.RelPath).Msg("Destination directory already exists")
	case DirEmpty:
		ev.Str("source", e.SourcePath).Msg("Source directory is empty")
	case FileCopied:
		ev.Str("file", e.RelPath).Int64("size", e.Size).Msg("Copied file")
	case HashVerified:
		ev.Str("file", e.RelPath).Str("sha256", e.SourceHash).Msg("Hash match confirmed")
	case HashMismatch:
		ev.Str("file", e.RelPath).
			Str("sourceHash", e.SourceHash).
			Str("destinationHash", e.DestHash).
			Msg("Hash mismatch")
	case RuleApplied:
		ev.Int("rule", e.RuleIndex).
			Str("pattern", e.Pattern).
			Str("before", e.Before).
			Str("after", e.After).
			Msg("Rule applied")
	case RuleSkipped:
		ev.Int("rule", e.RuleIndex).Str("pattern", e.Pattern).Err(e.Err).Msg("Rule skipped")
	case EntrySkipped:
		ev.Str("source", e.SourcePath).Msg("Skipping entry that is neither a regular file nor a directory")
	default:
		ev.Str("kind", string(e.Kind)).Msg("Event")
	}
}

func levelFor(kind Kind) zerolog.Level {
	switch kind {
	case HashMismatch:
		return zerolog.ErrorLevel
	case RuleSkipped, DestRootCreated:
		return zerolog.WarnLevel
	case RunStarted, RunFinished, DirCreated, FileCopied:
		return zerolog.InfoLevel
	case RuleApplied, HashVerified, Flattened, DirReused, DirEntered, DirEmpty, EntrySkipped:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}
