package flatdir

import (
	"io"

	"github.com/arthur-debert/flatdir/pkg/config"
	"github.com/arthur-debert/flatdir/pkg/events"
	"github.com/arthur-debert/flatdir/pkg/filesystem"
	"github.com/arthur-debert/flatdir/pkg/flatten"
	"github.com/arthur-debert/flatdir/pkg/ledger"
	"github.com/arthur-debert/flatdir/pkg/logging"
	"github.com/arthur-debert/flatdir/pkg/paths"
	"github.com/arthur-debert/flatdir/pkg/runlock"
	"github.com/arthur-debert/flatdir/pkg/sanitize"
	"github.com/arthur-debert/flatdir/pkg/ui/console"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newRunCmd(g *globalOptions) *cobra.Command {
	var noLedger bool

	cmd := &cobra.Command{
		Use:     "run [SOURCE] [DEST]",
		Short:   MsgRunShort,
		Long:    MsgRunLong,
		Example: MsgRunExample,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := executeRun(cmd.OutOrStdout(), g, args, runOptions{noLedger: noLedger})
			return err
		},
	}
	cmd.Flags().BoolVar(&noLedger, "no-ledger", false, MsgFlagNoLedger)
	return cmd
}

func newPreviewCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "preview [SOURCE] [DEST]",
		Short:   MsgPreviewShort,
		Long:    MsgPreviewLong,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := executeRun(cmd.OutOrStdout(), g, args, runOptions{dryRun: true})
			if res != nil {
				console.RenderPlan(cmd.OutOrStdout(), res)
			}
			return err
		},
	}
}

type runOptions struct {
	dryRun   bool
	noLedger bool
}

// executeRun wires configuration, observers, the run lock and the walker
// together for a single run
func executeRun(out io.Writer, g *globalOptions, args []string, opts runOptions) (*flatten.Result, error) {
	overrides, err := rootOverrides(args)
	if err != nil {
		return nil, err
	}
	cfg, err := g.loadConfig(overrides)
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateRoots(); err != nil {
		return nil, err
	}
	logger := logging.GetLogger("run")

	runID := uuid.NewString()
	observers := events.Multi{
		events.NewLogObserver(logger),
		console.NewReporter(out, console.Options{Verbose: g.verbosity > 0, Quiet: g.quiet}),
	}

	if cfg.Ledger.Enabled && !opts.dryRun && !opts.noLedger {
		l, err := openLedger(cfg)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := l.Close(); err != nil {
				logger.Warn().Err(err).Str("path", l.Path()).Msg("Failed to close ledger")
			}
		}()
		observers = append(observers, l)
	}
	observer := events.Stamp(runID, observers)

	if !opts.dryRun {
		dest, err := paths.ResolveDir(cfg.Destination)
		if err != nil {
			return nil, err
		}
		lock := runlock.ForDestination(paths.New(), dest)
		if err := lock.Acquire(); err != nil {
			return nil, err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn().Err(err).Str("lock", lock.Path()).Msg("Failed to release run lock")
			}
		}()
	}

	walker := flatten.New(flatten.Options{
		FS:        filesystem.NewOS(),
		Sanitizer: sanitize.New(cfg.SanitizeRules(), sanitize.WithObserver(observer)),
		Observer:  observer,
		DryRun:    opts.dryRun,
		RunID:     runID,
	})
	return walker.Run(cfg.Source, cfg.Destination)
}

func openLedger(cfg *config.Config) (*ledger.Ledger, error) {
	path := cfg.Ledger.Path
	if path == "" {
		path = paths.New().LedgerPath()
	}
	return ledger.Open(filesystem.NewOS(), paths.ExpandHome(path))
}
