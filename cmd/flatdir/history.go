package flatdir

import (
	"fmt"

	"github.com/arthur-debert/flatdir/pkg/filesystem"
	"github.com/arthur-debert/flatdir/pkg/ledger"
	"github.com/arthur-debert/flatdir/pkg/paths"
	"github.com/arthur-debert/flatdir/pkg/ui/console"
	"github.com/spf13/cobra"
)

func newHistoryCmd(g *globalOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "history",
		Short:   MsgHistoryShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig(nil)
			if err != nil {
				return err
			}
			if !cfg.Ledger.Enabled {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), MsgLedgerDisabled)
				return nil
			}

			path := cfg.Ledger.Path
			if path == "" {
				path = paths.New().LedgerPath()
			}
			records, err := ledger.ReadRecords(filesystem.NewOS(), paths.ExpandHome(path))
			if err != nil {
				return err
			}

			if limit > 0 {
				runs := ledger.Runs(records)
				if len(runs) > limit {
					runs = runs[len(runs)-limit:]
				}
				var kept []ledger.Record
				for _, run := range runs {
					kept = append(kept, run...)
				}
				records = kept
			}
			console.RenderHistory(cmd.OutOrStdout(), records)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, MsgFlagLimit)
	return cmd
}
