package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/cpdbld/flow"
	"github.com/c360studio/cpdbld/metric"
)

func flowCmd(loadConfig configLoader) *cobra.Command {
	var (
		manifestPath string
		outputDir    string
		taxonomy     string
		hideProgress bool
		jsonldOutput bool
		watchDir     string
		metricsAddr  string
	)

	cmd := &cobra.Command{
		Use:   "flow",
		Short: "Convert every file named in a source manifest",
		Long: `Convert each file named in a source manifest (whitespace-separated
local paths, glob patterns, or URLs already fetched into the output
directory). Per-file failures are logged and the run continues with
the next entry; the exit code is non-zero when any file failed.

With --watch, the manifest is ignored and TSV files are converted as
they appear in the watched directory until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if manifestPath == "" {
				manifestPath = cfg.Flow.ManifestPath
			}
			if outputDir == "" {
				outputDir = cfg.Output.Dir
			}

			metrics := metric.New()
			if metricsAddr != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", metrics.Handler())
				go func() {
					if err := http.ListenAndServe(metricsAddr, mux); err != nil {
						logger.Error("Metrics endpoint failed", "error", err)
					}
				}()
			}

			converter, err := flow.NewConverter(cfg, metrics, logger)
			if err != nil {
				return err
			}

			opts := flow.Options{
				Taxonomy:     taxonomy,
				HideProgress: hideProgress,
				JSONLDOutput: jsonldOutput,
			}

			if watchDir != "" {
				ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()
				if err := converter.Watch(ctx, watchDir, outputDir, opts); err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				return nil
			}

			_, err = converter.RunManifest(manifestPath, outputDir, opts)
			return err
		},
	}

	cmd.Flags().StringVar(&manifestPath, "input-urls-file", "", "Source manifest path (default from config)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Output directory (default from config)")
	cmd.Flags().StringVar(&taxonomy, "taxonomy", "", "Organism name applied to every file (derived per file if empty)")
	cmd.Flags().BoolVar(&hideProgress, "hide-progress", false, "Hide the progress display")
	cmd.Flags().BoolVar(&jsonldOutput, "jsonld-output", false, "Also repack output into JSON-LD documents")
	cmd.Flags().StringVar(&watchDir, "watch", "", "Watch a directory and convert TSV files as they appear")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")

	return cmd
}
