// Package main provides the cpdbld binary entry point.
// cpdbld converts ConsensusPathDB TSV exports into JSON-Lines of
// JSON-LD node records, optionally repacked into size-bounded JSON-LD
// documents.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/cpdbld/config"
)

// Version and BuildTime identify the binary; appName names it in logs and help.
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "cpdbld"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "ConsensusPathDB TSV to JSON-LD converter",
		Long: `cpdbld converts tabular ConsensusPathDB interaction records into a
linked-data representation.

It provides:
- Header-aware TSV parsing with per-organism column mappings
- JSON-Lines emission of JSON-LD node records
- Optional repacking into size-bounded JSON-LD documents

Use "convert" for a single file and "flow" for a source manifest.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	loadConfig := func() (*config.Config, *slog.Logger, error) {
		logger := newLogger(logLevel, nil)
		cfg, err := config.NewLoader(logger).Load(configPath)
		if err != nil {
			return nil, nil, fmt.Errorf("load config: %w", err)
		}

		// Rebuild the logger once log file routing is known.
		logger = newLogger(logLevel, &cfg.Log)
		slog.SetDefault(logger)
		return cfg, logger, nil
	}

	cmd.AddCommand(convertCmd(loadConfig))
	cmd.AddCommand(flowCmd(loadConfig))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

// newLogger builds the slog logger: text on stderr, optionally teed to
// the configured info log file, with error-level records additionally
// appended to the error log file.
func newLogger(logLevel string, logCfg *config.LogConfig) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	out := io.Writer(os.Stderr)
	if logCfg != nil && logCfg.InfoPath != "" {
		if f, err := os.OpenFile(logCfg.InfoPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			out = io.MultiWriter(os.Stderr, f)
		}
	}

	handler := slog.Handler(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))

	if logCfg != nil && logCfg.ErrorPath != "" {
		if f, err := os.OpenFile(logCfg.ErrorPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			errHandler := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelError})
			handler = teeHandler{primary: handler, secondary: errHandler}
		}
	}

	return slog.New(handler)
}
