package flow

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// RunSummary reports a manifest run. Failed counts files whose
// conversion aborted; skipped rows inside successful files do not fail
// a run.
type RunSummary struct {
	Converted int
	Failed    int
	Results   []*Result
}

// RunManifest converts every file named in a source manifest. Entries
// are whitespace-separated and may be local paths, glob patterns
// (doublestar syntax), or URLs already downloaded into the data
// directory by an external fetcher. Per-file failures are logged and
// the run continues; the returned error is non-nil when any file
// failed.
func (c *Converter) RunManifest(manifestPath, outputDir string, opts Options) (*RunSummary, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	entries := strings.Fields(string(data))
	c.logger.Info("Starting flow execution",
		slog.String("manifest", manifestPath),
		slog.Int("entries", len(entries)))

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	summary := &RunSummary{}
	for _, entry := range entries {
		paths, err := c.resolveEntry(entry, outputDir)
		if err != nil {
			c.logger.Error("Skipping manifest entry",
				slog.String("entry", entry),
				slog.String("error", err.Error()))
			c.metrics.FileFailed()
			summary.Failed++
			continue
		}

		for _, inputPath := range paths {
			outputPath := OutputPathFor(inputPath, outputDir)
			result, err := c.ConvertFile(inputPath, outputPath, opts)
			if err != nil {
				c.logger.Error("File conversion failed",
					slog.String("input", inputPath),
					slog.String("error", err.Error()))
				c.metrics.FileFailed()
				summary.Failed++
				continue
			}
			summary.Converted++
			summary.Results = append(summary.Results, result)
		}
	}

	c.logger.Info("Flow execution completed",
		slog.Int("converted", summary.Converted),
		slog.Int("failed", summary.Failed))

	if summary.Failed > 0 {
		return summary, fmt.Errorf("%d of %d manifest entries failed", summary.Failed, summary.Failed+summary.Converted)
	}
	return summary, nil
}

// resolveEntry turns a manifest entry into concrete input paths.
// URL entries map to their decompressed basename inside the data
// directory (source download is an external concern); other entries
// are glob-expanded relative to the working directory.
func (c *Converter) resolveEntry(entry, dataDir string) ([]string, error) {
	if strings.Contains(entry, "://") {
		base := filepath.Base(entry)
		// Downloads arrive gzipped; the decompressed file drops the
		// final extension.
		base = strings.TrimSuffix(base, filepath.Ext(base))
		path := filepath.Join(dataDir, base)
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("source file not found for %s: %w", entry, err)
		}
		return []string{path}, nil
	}

	if !strings.ContainsAny(entry, "*?[{") {
		if _, err := os.Stat(entry); err != nil {
			return nil, fmt.Errorf("source file not found: %w", err)
		}
		return []string{entry}, nil
	}

	matches, err := doublestar.FilepathGlob(entry)
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match pattern %s", entry)
	}
	return matches, nil
}
