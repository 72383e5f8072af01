// Package flow orchestrates conversions: a single file in manual mode,
// every file named by a source manifest in flow mode, and optionally a
// watched directory. The pipeline itself is strictly linear: read row,
// build node, write line; then, as an independent pass, repack lines
// into JSON-LD documents.
package flow

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/c360studio/cpdbld/config"
	"github.com/c360studio/cpdbld/export"
	"github.com/c360studio/cpdbld/graph"
	"github.com/c360studio/cpdbld/mapping"
	"github.com/c360studio/cpdbld/metric"
	"github.com/c360studio/cpdbld/taxonomy"
	"github.com/c360studio/cpdbld/tsv"
)

// Options control one file conversion.
type Options struct {
	// Taxonomy is the explicit organism name; empty means derive it
	// from the input filename.
	Taxonomy string

	// HideProgress suppresses the terminal progress display.
	HideProgress bool

	// JSONLDOutput additionally repacks the JSON-Lines output into
	// size-bounded JSON-LD documents.
	JSONLDOutput bool
}

// Result summarizes one file conversion.
type Result struct {
	RunID        string
	Input        string
	Output       string
	Organism     string
	TaxonomyID   string
	RowsConsumed int
	RowsSkipped  int
	NodesWritten int
	Documents    []string
}

// Converter sequences the pipeline components for file conversions.
// The context and taxonomy table load once at construction and stay
// read-only; column mappings load lazily per organism.
type Converter struct {
	cfg      *config.Config
	registry *mapping.Registry
	resolver *taxonomy.Resolver
	ctx      *export.Context
	metrics  *metric.Metrics
	logger   *slog.Logger
}

// NewConverter creates a converter from configuration. metrics may be
// nil to disable instrumentation.
func NewConverter(cfg *config.Config, metrics *metric.Metrics, logger *slog.Logger) (*Converter, error) {
	if logger == nil {
		logger = slog.Default()
	}

	resolver := taxonomy.NewResolver(nil)
	if cfg.Taxonomy.Path != "" {
		var err error
		resolver, err = taxonomy.NewResolverFromFile(cfg.Taxonomy.Path)
		if err != nil {
			return nil, fmt.Errorf("load taxonomy table: %w", err)
		}
	}

	ctx, err := export.LoadContext(cfg.Context.Path, cfg.Context.URI)
	if err != nil {
		return nil, fmt.Errorf("load context: %w", err)
	}

	return &Converter{
		cfg:      cfg,
		registry: mapping.NewRegistry(cfg.Mapping.Dir),
		resolver: resolver,
		ctx:      ctx,
		metrics:  metrics,
		logger:   logger,
	}, nil
}

// ConvertFile converts one TSV file to JSON-Lines (and optionally
// JSON-LD documents). Row-level failures are logged and skipped;
// the returned error is only non-nil for file-level failures.
func (c *Converter) ConvertFile(inputPath, outputPath string, opts Options) (*Result, error) {
	result := &Result{
		RunID:  uuid.NewString(),
		Input:  inputPath,
		Output: outputPath,
	}
	logger := c.logger.With(
		slog.String("run_id", result.RunID),
		slog.String("input", inputPath))

	logger.Info("Starting TSV to JSON-LD conversion")

	organism, taxID, err := c.resolver.Resolve(opts.Taxonomy, inputPath)
	if err != nil {
		return nil, err
	}
	result.Organism = organism
	result.TaxonomyID = taxID
	logger.Info("Resolved taxonomy",
		slog.String("organism", organism),
		slog.String("taxonomy_id", taxID))

	columnMapping, err := c.registry.Get(organism)
	if err != nil {
		return nil, err
	}

	totalRows, err := c.countDataRows(inputPath)
	if err != nil {
		return nil, err
	}

	observer := Observer(NopObserver{})
	if !opts.HideProgress {
		observer = NewTerminalProgress(os.Stderr)
	}

	if err := c.convertRows(inputPath, outputPath, columnMapping, taxID, totalRows, observer, logger, result); err != nil {
		return nil, err
	}

	if opts.JSONLDOutput {
		packager, err := export.NewPackager(c.ctx, c.cfg.Output.JSONLDMaxFileSize, logger)
		if err != nil {
			return nil, err
		}
		documents, err := packager.Pack(outputPath)
		if err != nil {
			return nil, err
		}
		result.Documents = documents
		c.metrics.DocumentsWritten(len(documents))
	}

	logger.Info("Conversion finished",
		slog.Int("rows", result.RowsConsumed),
		slog.Int("skipped", result.RowsSkipped),
		slog.Int("nodes", result.NodesWritten),
		slog.Int("documents", len(result.Documents)))

	return result, nil
}

// convertRows runs the row loop. The writer handle is released on all
// exit paths.
func (c *Converter) convertRows(inputPath, outputPath string, columnMapping *mapping.ColumnMapping, taxID string, totalRows int, observer Observer, logger *slog.Logger, result *Result) (err error) {
	input, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer input.Close()

	reader := tsv.NewReader(input, tsv.Options{
		HeaderRowNumber: c.cfg.Input.HeaderRowNumber,
		HeaderPrefix:    c.cfg.Input.HeaderPrefix,
		FieldDelimiter:  c.cfg.Input.FieldDelimiter,
	})

	table, err := reader.ParseHeader(columnMapping)
	if err != nil {
		return err
	}

	writer, err := export.NewLineWriter(outputPath, c.ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := writer.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	builder := graph.NewBuilder(c.cfg.Node, columnMapping, table, c.cfg.Input.ListDelimiter, taxID)

	observer.Start(totalRows)
	defer observer.Done()

	for {
		row, ok, readErr := reader.Next()
		if readErr != nil {
			return readErr
		}
		if !ok {
			break
		}

		observer.Increment()
		c.metrics.RowConsumed()
		result.RowsConsumed++

		node, buildErr := builder.Build(row)
		if buildErr != nil {
			logger.Warn("Skipping row",
				slog.Int("line", row.Line),
				slog.String("error", buildErr.Error()))
			c.metrics.RowSkipped()
			result.RowsSkipped++
			continue
		}

		if writeErr := writer.WriteNode(node); writeErr != nil {
			return writeErr
		}
		c.metrics.NodeWritten()
		result.NodesWritten++
	}

	return nil
}

// countDataRows sizes the progress display: total lines minus the
// preamble and header.
func (c *Converter) countDataRows(inputPath string) (int, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return 0, fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	lines, err := tsv.CountLines(file)
	if err != nil {
		return 0, err
	}

	rows := lines - c.cfg.Input.HeaderRowNumber
	if rows < 0 {
		rows = 0
	}
	return rows, nil
}

// OutputPathFor returns the JSON-Lines output path for an input file
// inside outputDir: the input basename with a .jsonl extension.
func OutputPathFor(inputPath, outputDir string) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, base+".jsonl")
}
