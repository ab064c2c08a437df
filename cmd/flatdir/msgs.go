package flatdir

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Copy a directory tree, collapsing single-child directory chains"
	MsgRunShort        = "Flatten SOURCE into DEST"
	MsgPreviewShort    = "Show the layout a run would produce without writing anything"
	MsgRulesShort      = "Inspect the name rules"
	MsgRulesListShort  = "List the configured rules in application order"
	MsgRulesTestShort  = "Show how the rules rewrite one or more names"
	MsgGenConfigShort  = "Print a starter configuration file"
	MsgHistoryShort    = "List runs recorded in the ledger"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgLedgerDisabled  = "The ledger is disabled in the configuration."
	MsgConfigWritten   = "Wrote configuration to %s\n"
	MsgVersionFormat   = "flatdir %s (commit %s, built %s)\n"
	MsgUsingConfigFile = "Using config file %s"

	// Error messages
	MsgErrNoCommand    = "no command specified"
	MsgErrTooManyRoots = "expected at most SOURCE and DEST, got %d arguments"
	MsgErrOutputExists = "%s already exists, use --force to overwrite"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig   = "Config file (TOML or YAML); defaults to ./flatdir.toml"
	MsgFlagLogFile  = "Log file path, \"-\" to disable"
	MsgFlagQuiet    = "Only print warnings, errors and the summary"
	MsgFlagOutput   = "Write to this file instead of stdout"
	MsgFlagForce    = "Overwrite an existing output file"
	MsgFlagSource   = "Source directory written into the generated file"
	MsgFlagDest     = "Destination directory written into the generated file"
	MsgFlagLimit    = "Show only the most recent N runs (0 for all)"
	MsgFlagNoLedger = "Do not record this run in the ledger"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/run-long.txt
	msgRunLongRaw string
	MsgRunLong    = strings.TrimSpace(msgRunLongRaw)

	//go:embed msgs/run-example.txt
	msgRunExampleRaw string
	MsgRunExample    = strings.TrimRight(msgRunExampleRaw, "\n")

	//go:embed msgs/preview-long.txt
	msgPreviewLongRaw string
	MsgPreviewLong    = strings.TrimSpace(msgPreviewLongRaw)

	//go:embed msgs/rules-test-long.txt
	msgRulesTestLongRaw string
	MsgRulesTestLong    = strings.TrimSpace(msgRulesTestLongRaw)

	//go:embed msgs/genconfig-long.txt
	msgGenConfigLongRaw string
	MsgGenConfigLong    = strings.TrimSpace(msgGenConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)
