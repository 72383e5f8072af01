package flow

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Watch(t *testing.T) {
	cfg, inputPath := testSetup(t)
	cfg.Flow.WatchDebounce = "50ms"

	watchDir := filepath.Join(filepath.Dir(inputPath), "incoming")
	require.NoError(t, os.MkdirAll(watchDir, 0755))

	c := newTestConverter(t, cfg)

	// Files already in the directory when the watch starts convert via
	// the startup scan, with no event ever firing for them.
	data, err := os.ReadFile(inputPath)
	require.NoError(t, err)
	existing := filepath.Join(watchDir, "ConsensusPathDB_human_complexes.tsv")
	require.NoError(t, os.WriteFile(existing, data, 0644))

	// Non-TSV files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(watchDir, "notes.txt"), []byte("ignored"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- c.Watch(ctx, watchDir, cfg.Output.Dir, Options{HideProgress: true})
	}()

	outputPath := filepath.Join(cfg.Output.Dir, "ConsensusPathDB_human_complexes.jsonl")
	require.Eventually(t, func() bool {
		_, err := os.Stat(outputPath)
		return err == nil
	}, 5*time.Second, 50*time.Millisecond, "existing file should convert")

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	records := readLines(t, outputPath)
	assert.Len(t, records, 2)
}
