package main

import (
	"github.com/tinytelemetry/datafix/internal/fix"
	"github.com/tinytelemetry/datafix/internal/logsource"
)

const (
	defaultMaxLineSize = logsource.DefaultMaxLineSize
	defaultOnMalformed = string(fix.PolicySkip)
	defaultOnMissingTS = string(fix.PolicySkip)
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	MaxLineSize int    `mapstructure:"max-line-size"`
	OnMalformed string `mapstructure:"on-malformed"`
	OnMissingTS string `mapstructure:"on-missing-ts"`
	LogFile     string `mapstructure:"log-file"`
	Debug       bool   `mapstructure:"debug"`
	AllowTTY    bool   `mapstructure:"allow-tty"`
	ConfigPath  string `mapstructure:"-"` // not from config file

	malformed fix.Policy
	missingTS fix.Policy
}

// fixConfig maps the validated settings onto the transformer's config.
func (c appConfig) fixConfig() fix.Config {
	return fix.Config{
		OnMalformed: c.malformed,
		OnMissingTS: c.missingTS,
		Debug:       c.Debug,
	}
}
