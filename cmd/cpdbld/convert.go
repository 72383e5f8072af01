package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/c360studio/cpdbld/config"
	"github.com/c360studio/cpdbld/flow"
	"github.com/c360studio/cpdbld/metric"
)

// configLoader resolves flags and files into a validated configuration
// plus the routed logger.
type configLoader func() (*config.Config, *slog.Logger, error)

func convertCmd(loadConfig configLoader) *cobra.Command {
	var (
		taxonomy     string
		hideProgress bool
		jsonldOutput bool
	)

	cmd := &cobra.Command{
		Use:   "convert <input.tsv> <output.jsonl>",
		Short: "Convert a single TSV file to JSON-Lines",
		Long: `Convert one ConsensusPathDB TSV export to a JSON-Lines file of
JSON-LD node records. With --jsonld-output the JSON-Lines output is
additionally repacked into size-bounded JSON-LD documents under
<output basename>_jsonld/.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			converter, err := flow.NewConverter(cfg, metric.New(), logger)
			if err != nil {
				return err
			}

			_, err = converter.ConvertFile(args[0], args[1], flow.Options{
				Taxonomy:     taxonomy,
				HideProgress: hideProgress,
				JSONLDOutput: jsonldOutput,
			})
			return err
		},
	}

	cmd.Flags().StringVar(&taxonomy, "taxonomy", "", "Organism name (derived from the input filename if empty)")
	cmd.Flags().BoolVar(&hideProgress, "hide-progress", false, "Hide the progress display")
	cmd.Flags().BoolVar(&jsonldOutput, "jsonld-output", false, "Also repack output into JSON-LD documents")

	return cmd
}
