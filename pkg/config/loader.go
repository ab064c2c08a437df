package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/flatdir/pkg/errors"
	"github.com/arthur-debert/flatdir/pkg/logging"
	"github.com/arthur-debert/flatdir/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read as configuration
const EnvPrefix = "FLATDIR_"

// ConfigFileNames are looked up, in order, in the working directory
var ConfigFileNames = []string{"flatdir.toml", ".flatdir.toml", "flatdir.yaml", "flatdir.yml"}

// LoadOptions selects the configuration sources
type LoadOptions struct {
	// ConfigFile is an explicit config file; it must exist
	ConfigFile string
	// WorkDir is searched for ConfigFileNames; defaults to the current directory
	WorkDir string
	// Overrides are applied last, keyed by koanf path (e.g. "source")
	Overrides map[string]interface{}
	// SkipUserConfig ignores the XDG config file
	SkipUserConfig bool
}

// Load builds the configuration from defaults, config file, environment
// and overrides, in increasing priority
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Built-in defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. Config file
	configFile, err := findConfigFile(opts)
	if err != nil {
		return nil, err
	}
	if configFile != "" {
		if err := k.Load(file.Provider(configFile), parserFor(configFile)); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", configFile).
				WithDetail("path", configFile)
		}
		logger.Debug().Str("path", configFile).Msg("Loaded config file")
	}

	// 3. Environment
	err = k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	// 5. Unmarshal
	cfg, err := unmarshal(k)
	if err != nil {
		return nil, err
	}
	cfg.ConfigFile = configFile

	if err := postProcessConfig(cfg); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("source", cfg.Source).
		Str("destination", cfg.Destination).
		Int("rules", len(cfg.Rules)+len(cfg.ExtraRules)).
		Msg("Configuration loaded")

	return cfg, nil
}

// LoadDefaults returns the built-in configuration only
func LoadDefaults() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}
	return unmarshal(k)
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	return &cfg, nil
}

func postProcessConfig(cfg *Config) error {
	logger := logging.GetLogger("config")
	for i, r := range append(append([]RuleConfig(nil), cfg.Rules...), cfg.ExtraRules...) {
		if r.Pattern == "" {
			logger.Warn().Int("rule", i).Str("replacement", r.Replacement).
				Msg("Rule has an empty pattern and will be skipped")
		}
	}
	if cfg.Source != "" {
		cfg.Source = paths.ExpandHome(cfg.Source)
	}
	if cfg.Destination != "" {
		cfg.Destination = paths.ExpandHome(cfg.Destination)
	}
	return nil
}

func findConfigFile(opts LoadOptions) (string, error) {
	if opts.ConfigFile != "" {
		path := paths.ExpandHome(opts.ConfigFile)
		if _, err := os.Stat(path); err != nil {
			return "", errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not found", path).
				WithDetail("path", path)
		}
		return path, nil
	}

	workDir := opts.WorkDir
	if workDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, errors.ErrConfigLoad, "failed to get current directory")
		}
		workDir = cwd
	}
	for _, name := range ConfigFileNames {
		path := filepath.Join(workDir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if !opts.SkipUserConfig {
		path := paths.New().ConfigFilePath()
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}
