package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/tinytelemetry/datafix/internal/fix"
	"github.com/tinytelemetry/datafix/internal/logsource"
	"github.com/tinytelemetry/datafix/internal/model"
)

// runFilter streams src through the transformer into out until end of stream
// or until ctx is cancelled.
func runFilter(parent context.Context, cfg appConfig, src logsource.LineSource, out io.Writer) error {
	cleanupLogger := configureRuntimeLogger(cfg.LogFile, os.Stderr)
	defer cleanupLogger()

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	transformer := fix.New(cfg.fixConfig())
	configFile := cfg.ConfigPath
	if configFile == "" {
		configFile = "default (no file)"
	}
	log.Printf("datafix: start source=%s config=%s on-malformed=%s on-missing-ts=%s",
		src.Name(), configFile, cfg.malformed, cfg.missingTS)

	var stats model.Stats
	done := make(chan struct{})

	g, gctx := errgroup.WithContext(ctx)

	// Record loop. Single goroutine, one line at a time.
	g.Go(func() error {
		defer close(done)
		var err error
		stats, err = transformer.Run(gctx, src, out)
		return err
	})

	// Signal watcher: first signal stops the loop before the next line,
	// a second one forces exit. A read already blocked on an idle pipe is not
	// interrupted; the loop notices at the next line or at EOF.
	g.Go(func() error {
		select {
		case <-done:
			return nil
		case sig := <-sigCh:
			log.Printf("datafix: received %s, stopping after current line (send again to force)", sig)
			cancel()
		}
		select {
		case <-done:
		case <-sigCh:
			log.Printf("datafix: force shutdown")
			os.Exit(1)
		}
		return nil
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		err = fmt.Errorf("interrupted: %w", err)
	}

	if err != nil {
		log.Printf("datafix: stopped with error: %v %s", err, stats)
		return err
	}
	log.Printf("datafix: finished %s", stats)
	return nil
}

// configureRuntimeLogger points the standard logger at logPath, or at fallback
// when logPath is empty or cannot be opened.
func configureRuntimeLogger(logPath string, fallback io.Writer) func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.SetOutput(fallback)

	if logPath == "" {
		return func() {}
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("datafix: log-file dir: %v, using default log output", err)
		return func() {}
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("datafix: log-file: %v, using default log output", err)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		log.SetOutput(fallback)
		_ = f.Close()
	}
}
