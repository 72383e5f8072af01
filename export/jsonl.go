package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/c360studio/cpdbld/graph"
)

// LineWriter appends nodes to a JSON-Lines file, one self-contained
// JSON-LD object per line with the context referenced by URI. Nodes
// are written in production order.
type LineWriter struct {
	file *os.File
	buf  *bufio.Writer
	ctx  *Context
	n    int
}

// NewLineWriter opens (creating or truncating) the destination file.
// Callers must Close the writer on all exit paths.
func NewLineWriter(path string, ctx *Context) (*LineWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &LineWriter{
		file: file,
		buf:  bufio.NewWriter(file),
		ctx:  ctx,
	}, nil
}

// WriteNode serializes one node as a single line. Map keys marshal
// sorted, so repeated runs over the same input are byte-identical.
func (w *LineWriter) WriteNode(node *graph.Node) error {
	obj := node.JSONObject()
	obj["@context"] = w.ctx.URI

	data, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("failed to marshal node %s: %w", node.ID, err)
	}

	if _, err := w.buf.Write(data); err != nil {
		return fmt.Errorf("failed to write node %s: %w", node.ID, err)
	}
	if err := w.buf.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write node %s: %w", node.ID, err)
	}

	w.n++
	return nil
}

// Count returns the number of nodes written.
func (w *LineWriter) Count() int {
	return w.n
}

// Close flushes buffered output and releases the file handle.
func (w *LineWriter) Close() error {
	flushErr := w.buf.Flush()
	closeErr := w.file.Close()
	if flushErr != nil {
		return fmt.Errorf("failed to flush output: %w", flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close output: %w", closeErr)
	}
	return nil
}
