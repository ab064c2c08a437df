package config

import (
	"bytes"
	"strings"

	"github.com/arthur-debert/flatdir/pkg/errors"
	toml "github.com/pelletier/go-toml/v2"
)

const generatedHeader = `# flatdir configuration
#
# source and destination may also be given on the command line or as
# FLATDIR_SOURCE / FLATDIR_DESTINATION.
#
# rules are applied in order to every accumulated directory name; each rule
# sees the output of the previous one. Set regex = true for a regular
# expression; refer to captured groups as ${1} in the replacement.

`

// Generate renders cfg as a TOML config file
func Generate(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(generatedHeader)

	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
	}
	return buf.Bytes(), nil
}

// GenerateConfigContent renders the built-in defaults with placeholder roots
func GenerateConfigContent(source, destination string) (string, error) {
	cfg, err := LoadDefaults()
	if err != nil {
		return "", err
	}
	cfg.Source = source
	cfg.Destination = destination

	out, err := Generate(cfg)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(out), "\n") + "\n", nil
}
