package flow

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is used when the configured debounce fails to parse.
const defaultDebounce = 500 * time.Millisecond

// Watch converts TSV files as they appear in dir. Writes are debounced
// so a file is converted once after its producer finishes, not on
// every partial write. Watch blocks until ctx is cancelled.
func (c *Converter) Watch(ctx context.Context, dir, outputDir string, opts Options) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	debounce, err := time.ParseDuration(c.cfg.Flow.WatchDebounce)
	if err != nil || debounce <= 0 {
		debounce = defaultDebounce
	}

	c.logger.Info("Watching for TSV files",
		slog.String("dir", dir),
		slog.Duration("debounce", debounce))

	// pending maps path to the deadline after which it converts.
	pending := make(map[string]time.Time)

	// Seed files already in the directory. Events only cover files
	// appearing after Add, so anything present at startup would
	// otherwise never convert.
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("scan %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".tsv") {
			continue
		}
		pending[filepath.Join(dir, entry.Name())] = time.Now().Add(debounce)
	}
	ticker := time.NewTicker(debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".tsv") {
				continue
			}
			pending[event.Name] = time.Now().Add(debounce)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Error("Watcher error", slog.String("error", watchErr.Error()))

		case now := <-ticker.C:
			for path, deadline := range pending {
				if now.Before(deadline) {
					continue
				}
				delete(pending, path)

				outputPath := OutputPathFor(path, outputDir)
				if _, err := c.ConvertFile(path, outputPath, opts); err != nil {
					c.logger.Error("File conversion failed",
						slog.String("input", path),
						slog.String("error", err.Error()))
					c.metrics.FileFailed()
				}
			}
		}
	}
}
