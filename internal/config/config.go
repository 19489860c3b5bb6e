// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

// Package config loads layered server configuration: built-in defaults,
// then an optional YAML file, then EMBER_* environment variables, then
// command-line flags. Later layers win.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/embermud/ember/internal/xdg"
)

// Config holds all settings for the ember processes.
type Config struct {
	// Server settings.
	TelnetAddr  string `koanf:"telnet_addr"`
	AuthURL     string `koanf:"auth_url"`
	MetricsAddr string `koanf:"metrics_addr"`
	LogFormat   string `koanf:"log_format"`

	// Authd settings.
	AuthdAddr   string `koanf:"authd_addr"`
	DatabaseURL string `koanf:"database_url"`
	TokenSecret string `koanf:"token_secret"`
}

// Defaults for all configuration keys.
const (
	DefaultTelnetAddr  = ":4000"
	DefaultAuthURL     = "http://127.0.0.1:4001"
	DefaultMetricsAddr = "127.0.0.1:9101"
	DefaultLogFormat   = "json"
	DefaultAuthdAddr   = ":4001"
)

func defaults() map[string]any {
	return map[string]any{
		"telnet_addr":  DefaultTelnetAddr,
		"auth_url":     DefaultAuthURL,
		"metrics_addr": DefaultMetricsAddr,
		"log_format":   DefaultLogFormat,
		"authd_addr":   DefaultAuthdAddr,
	}
}

// DefaultPath returns the default config file location under the XDG
// config directory.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigDir(), "ember.yaml")
}

// Load builds a Config from defaults, the YAML file at path (optional if
// path is the default location), EMBER_* environment variables, and the
// given flag set. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, oops.Code("CONFIG_INVALID").With("layer", "defaults").Wrap(err)
	}

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		// A missing file is only an error when the user asked for it.
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, oops.Code("CONFIG_INVALID").With("path", path).Wrap(err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: "EMBER_",
		TransformFunc: func(key, value string) (string, any) {
			return strings.ToLower(strings.TrimPrefix(key, "EMBER_")), value
		},
	}), nil); err != nil {
		return nil, oops.Code("CONFIG_INVALID").With("layer", "env").Wrap(err)
	}

	if flags != nil {
		// Flag names are dashed on the CLI, underscored as config keys.
		provider := posflag.ProviderWithValue(flags, ".", k, func(key, value string) (string, any) {
			return strings.ReplaceAll(key, "-", "_"), value
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_INVALID").With("layer", "flags").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").With("operation", "unmarshal").Wrap(err)
	}

	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, oops.Code("CONFIG_INVALID").
			With("log_format", cfg.LogFormat).
			Errorf("log format must be 'json' or 'text'")
	}

	return &cfg, nil
}
