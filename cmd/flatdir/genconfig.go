package flatdir

import (
	"fmt"
	"os"

	"github.com/arthur-debert/flatdir/pkg/config"
	"github.com/arthur-debert/flatdir/pkg/errors"
	"github.com/spf13/cobra"
)

func newGenConfigCmd(g *globalOptions) *cobra.Command {
	var (
		output string
		force  bool
		source string
		dest   string
	)

	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := config.GenerateConfigContent(source, dest)
			if err != nil {
				return err
			}

			if output == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			}

			if _, err := os.Stat(output); err == nil && !force {
				return errors.Newf(errors.ErrInvalidInput, MsgErrOutputExists, output).
					WithDetail("path", output)
			}
			if err := os.WriteFile(output, []byte(content), 0644); err != nil {
				return errors.Wrapf(err, errors.ErrFileCopy, "failed to write %s", output)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", MsgFlagOutput)
	cmd.Flags().BoolVarP(&force, "force", "f", false, MsgFlagForce)
	cmd.Flags().StringVar(&source, "source", "", MsgFlagSource)
	cmd.Flags().StringVar(&dest, "dest", "", MsgFlagDest)
	return cmd
}
