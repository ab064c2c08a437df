package config

import (
	"github.com/arthur-debert/flatdir/pkg/errors"
	"github.com/arthur-debert/flatdir/pkg/sanitize"
)

// Config is the complete flatdir configuration
type Config struct {
	// Source is the tree whose contents are flattened
	Source string `koanf:"source" toml:"source,omitempty" yaml:"source,omitempty"`
	// Destination receives the flattened tree
	Destination string `koanf:"destination" toml:"destination,omitempty" yaml:"destination,omitempty"`

	// Rules replace the built-in rule list when set in a config file
	Rules []RuleConfig `koanf:"rules" toml:"rules" yaml:"rules"`
	// ExtraRules are appended after Rules
	ExtraRules []RuleConfig `koanf:"extra_rules" toml:"extra_rules,omitempty" yaml:"extra_rules,omitempty"`

	Logging LoggingConfig `koanf:"logging" toml:"logging" yaml:"logging"`
	Ledger  LedgerConfig  `koanf:"ledger" toml:"ledger" yaml:"ledger"`

	// ConfigFile is the file that was loaded, if any
	ConfigFile string `koanf:"-" toml:"-" yaml:"-"`
}

// RuleConfig is the on-disk form of a sanitization rule
type RuleConfig struct {
	Pattern     string `koanf:"pattern" toml:"pattern" yaml:"pattern"`
	Replacement string `koanf:"replacement" toml:"replacement" yaml:"replacement"`
	Regex       bool   `koanf:"regex" toml:"regex" yaml:"regex"`
}

// LoggingConfig controls the log output
type LoggingConfig struct {
	// Verbosity is the default -v count
	Verbosity int `koanf:"verbosity" toml:"verbosity" yaml:"verbosity"`
	// File overrides the log file path; "-" disables the file
	File string `koanf:"file" toml:"file" yaml:"file"`
}

// LedgerConfig controls the append-only run ledger
type LedgerConfig struct {
	Enabled bool `koanf:"enabled" toml:"enabled" yaml:"enabled"`
	// Path overrides the ledger location
	Path string `koanf:"path" toml:"path" yaml:"path"`
}

// SanitizeRules converts the configured rules, in order, into the typed
// rule list used by the sanitizer
func (c *Config) SanitizeRules() []sanitize.Rule {
	rules := make([]sanitize.Rule, 0, len(c.Rules)+len(c.ExtraRules))
	for _, r := range c.Rules {
		rules = append(rules, sanitize.NewRule(r.Pattern, r.Replacement, r.Regex))
	}
	for _, r := range c.ExtraRules {
		rules = append(rules, sanitize.NewRule(r.Pattern, r.Replacement, r.Regex))
	}
	return rules
}

// ValidateRoots checks that both roots are set
func (c *Config) ValidateRoots() error {
	if c.Source == "" {
		return errors.New(errors.ErrConfigInvalid, "source directory is not set").
			WithDetail("key", "source")
	}
	if c.Destination == "" {
		return errors.New(errors.ErrConfigInvalid, "destination directory is not set").
			WithDetail("key", "destination")
	}
	return nil
}
