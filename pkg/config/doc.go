// Package config handles configuration management for flatdir.
// It layers built-in defaults, an optional TOML or YAML config file,
// FLATDIR_* environment variables and command-line overrides with koanf,
// and decodes the result into Config.
package config
