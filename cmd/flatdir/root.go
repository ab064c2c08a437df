package flatdir

import (
	"fmt"

	"github.com/arthur-debert/flatdir/internal/version"
	"github.com/arthur-debert/flatdir/pkg/config"
	"github.com/arthur-debert/flatdir/pkg/logging"
	"github.com/arthur-debert/flatdir/pkg/ui/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by every command
type globalOptions struct {
	verbosity  int
	configFile string
	logFile    string
	quiet      bool
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	g := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "flatdir",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			g.setupLogging(0, "")
			styles.ConfigureOutput(cmd.OutOrStdout())
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("%s", MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&g.configFile, "config", "c", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&g.logFile, "log-file", "", MsgFlagLogFile)
	rootCmd.PersistentFlags().BoolVarP(&g.quiet, "quiet", "q", false, MsgFlagQuiet)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.AddCommand(newRunCmd(g))
	rootCmd.AddCommand(newPreviewCmd(g))
	rootCmd.AddCommand(newRulesCmd(g))
	rootCmd.AddCommand(newHistoryCmd(g))
	rootCmd.AddCommand(newGenConfigCmd(g))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// setupLogging (re)configures the global logger. Flags win over the
// configured values.
func (g *globalOptions) setupLogging(cfgVerbosity int, cfgLogFile string) {
	verbosity := g.verbosity
	if verbosity == 0 {
		verbosity = cfgVerbosity
	}
	logFile := g.logFile
	if logFile == "" {
		logFile = cfgLogFile
	}
	logging.SetupLoggerWithOptions(logging.Options{Verbosity: verbosity, LogFile: logFile})
}

// loadConfig loads the layered configuration with the given overrides and
// applies its logging settings
func (g *globalOptions) loadConfig(overrides map[string]interface{}) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: g.configFile,
		Overrides:  overrides,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Logging.Verbosity != 0 || cfg.Logging.File != "" {
		g.setupLogging(cfg.Logging.Verbosity, cfg.Logging.File)
	}
	if cfg.ConfigFile != "" {
		log.Debug().Str("path", cfg.ConfigFile).Msgf(MsgUsingConfigFile, cfg.ConfigFile)
	}
	return cfg, nil
}

// rootOverrides maps positional SOURCE and DEST arguments onto config keys
func rootOverrides(args []string) (map[string]interface{}, error) {
	if len(args) > 2 {
		return nil, fmt.Errorf(MsgErrTooManyRoots, len(args))
	}
	overrides := map[string]interface{}{}
	if len(args) > 0 {
		overrides["source"] = args[0]
	}
	if len(args) > 1 {
		overrides["destination"] = args[1]
	}
	return overrides, nil
}
