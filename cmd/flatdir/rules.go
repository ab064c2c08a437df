package flatdir

import (
	"github.com/arthur-debert/flatdir/pkg/sanitize"
	"github.com/arthur-debert/flatdir/pkg/ui/console"
	"github.com/spf13/cobra"
)

func newRulesCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rules",
		Short:   MsgRulesShort,
		GroupID: "core",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: MsgRulesListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig(nil)
			if err != nil {
				return err
			}
			console.RenderRules(cmd.OutOrStdout(), sanitize.New(cfg.SanitizeRules()))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "test NAME...",
		Short: MsgRulesTestShort,
		Long:  MsgRulesTestLong,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig(nil)
			if err != nil {
				return err
			}
			s := sanitize.New(cfg.SanitizeRules())
			for _, name := range args {
				result, steps := s.Trace(name)
				console.RenderTrace(cmd.OutOrStdout(), name, result, steps)
			}
			return nil
		},
	})

	return cmd
}
