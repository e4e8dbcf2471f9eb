package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"

	"github.com/tinytelemetry/datafix/internal/fix"
	"github.com/tinytelemetry/datafix/internal/logsource"
)

// Build variables - set by ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/datafix/config.yml)")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Println(versionBanner())
		return
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(2)
	}

	if err := checkStdin(cfg, logsource.IsTerminal(os.Stdin)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	src := logsource.NewStdinReader(logsource.ReaderConfig{MaxLineSize: cfg.MaxLineSize})
	if err := runFilter(context.Background(), cfg, src, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// checkStdin refuses an interactive stdin unless allow-tty is set.
func checkStdin(cfg appConfig, stdinIsTerminal bool) error {
	if stdinIsTerminal && !cfg.AllowTTY {
		return errors.New("stdin is a terminal; datafix reads NDJSON from a pipe (set allow-tty to override)")
	}
	return nil
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	v := viper.New()
	v.SetEnvPrefix("DATAFIX")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("max-line-size", defaultMaxLineSize)
	v.SetDefault("on-malformed", defaultOnMalformed)
	v.SetDefault("on-missing-ts", defaultOnMissingTS)
	v.SetDefault("log-file", "")
	v.SetDefault("debug", false)
	v.SetDefault("allow-tty", false)

	home, homeErr := os.UserHomeDir()

	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return cfg, fmt.Errorf("config file: %w", err)
		}
		v.SetConfigFile(configPath)
	} else if homeErr == nil {
		v.SetConfigFile(filepath.Join(home, ".config", "datafix", "config.yml"))
	}

	configRead := false
	if configPath != "" || homeErr == nil {
		if err := v.ReadInConfig(); err != nil {
			var configFileNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
				return cfg, err
			}
		} else {
			configRead = true
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	if configRead {
		cfg.ConfigPath = v.ConfigFileUsed()
	}

	if cfg.MaxLineSize <= 0 {
		return cfg, fmt.Errorf("invalid max-line-size: %d", cfg.MaxLineSize)
	}

	var err error
	if cfg.malformed, err = fix.ParsePolicy(cfg.OnMalformed); err != nil {
		return cfg, fmt.Errorf("invalid on-malformed: %w", err)
	}
	if cfg.missingTS, err = fix.ParsePolicy(cfg.OnMissingTS); err != nil {
		return cfg, fmt.Errorf("invalid on-missing-ts: %w", err)
	}

	// Expand ~ in log-file
	if strings.HasPrefix(cfg.LogFile, "~/") {
		if homeErr != nil {
			return cfg, fmt.Errorf("finding home directory: %w", homeErr)
		}
		cfg.LogFile = filepath.Join(home, cfg.LogFile[2:])
	}

	return cfg, nil
}

func versionBanner() string {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)

	lines := []string{
		cyan.Render("datafix") + dim.Render(" - reindex data fix filter"),
		fmt.Sprintf("  Version:    %s", version),
		fmt.Sprintf("  Commit:     %s", commit),
		fmt.Sprintf("  Built:      %s", dim.Render(buildTime)),
		fmt.Sprintf("  Go version: %s", dim.Render(goVersion)),
	}
	return strings.Join(lines, "\n")
}
