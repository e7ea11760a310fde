// Command savvy prints the metadata, dictionary, cases or column summaries
// of SPSS system files, and optionally copies the cases into SQLite.
//
// Usage:
//
//	savvy [flags] file.sav [more.sav | s3://bucket/key ...]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mhermher/savvy/config"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML configuration file")
	mode := flag.String("mode", "", "What to print (meta, schema, all, describe)")
	outputFormat := flag.String("format", "", "Output format (json, yaml)")
	sqlitePath := flag.String("sqlite", "", "Also write the cases of every input into this SQLite database")
	logLevel := flag.String("log-level", "", "Logging level (debug, info, warn, error)")
	logOutput := flag.String("log-output", "", "Log output (stderr, stdout, file, none)")
	logFile := flag.String("log-file", "", "Path to log file if output is 'file'")
	workers := flag.Int("workers", 0, "Number of files decoded concurrently")
	charset := flag.String("charset", "", "Character set of the file text, overriding the file's declaration")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: savvy [flags] file.sav [more.sav | s3://bucket/key ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Flags override the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			cfg.Output.Mode = *mode
		case "format":
			cfg.Output.Format = *outputFormat
		case "sqlite":
			cfg.Output.SQLite = *sqlitePath
		case "log-level":
			cfg.Logging.Level = *logLevel
		case "log-output":
			cfg.Logging.Output = *logOutput
		case "log-file":
			cfg.Logging.File = *logFile
		case "workers":
			cfg.Workers = *workers
		case "charset":
			cfg.Reader.Charset = *charset
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(2)
	}

	logger, closeLog, err := newLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, flag.Args(), os.Stdout, logger); err != nil {
		logger.Error("savvy failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		closeLog()
		os.Exit(1)
	}
}

func newLogger(cfg config.LoggingConfig) (*slog.Logger, func(), error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	var output io.Writer = os.Stderr
	closeFn := func() {}
	switch strings.ToLower(cfg.Output) {
	case "stderr":
		// Already set
	case "stdout":
		output = os.Stdout
	case "file":
		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file %s: %w", cfg.File, err)
		}
		output = file
		closeFn = func() { _ = file.Close() }
	case "none":
		output = io.Discard
	}

	return slog.New(slog.NewJSONHandler(output, &slog.HandlerOptions{Level: level})), closeFn, nil
}

// encoder writes one document per input.
type encoder interface {
	Encode(v any) error
}

func newEncoder(w io.Writer, name string) (encoder, func() error, error) {
	switch strings.ToLower(name) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc, func() error { return nil }, nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		return enc, enc.Close, nil
	default:
		return nil, nil, errors.New("unknown output format: " + name)
	}
}
