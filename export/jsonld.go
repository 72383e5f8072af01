package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	semerrors "github.com/c360studio/semstreams/pkg/errs"
)

// maxLineSize bounds a single JSON-Lines record during repacking.
const maxLineSize = 16 * 1024 * 1024

// Packager repacks a completed JSON-Lines file into one or more
// JSON-LD documents, each with the full context inlined and a @graph
// array, splitting so every document stays within the byte budget.
type Packager struct {
	ctx     *Context
	maxSize int
	logger  *slog.Logger

	// envelopeSize is the serialized size of a document with an empty
	// @graph, computed once: adding records only grows the graph array.
	envelopeSize int
}

// NewPackager creates a packager with the given size budget in bytes.
func NewPackager(ctx *Context, maxSize int, logger *slog.Logger) (*Packager, error) {
	if logger == nil {
		logger = slog.Default()
	}

	empty, err := json.Marshal(map[string]any{
		"@context": ctx.Body,
		"@graph":   []json.RawMessage{},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to size context envelope: %w", err)
	}

	return &Packager{
		ctx:          ctx,
		maxSize:      maxSize,
		logger:       logger,
		envelopeSize: len(empty),
	}, nil
}

// chunk is one packaging unit: records appended while the projected
// document size stays within budget, then sealed and discarded.
type chunk struct {
	records []json.RawMessage
	size    int
}

// projected returns the serialized document size if record were
// appended: envelope + record bytes + one comma per additional record.
func (c *chunk) projected(envelope, record int) int {
	return envelope + c.size + record + len(c.records)
}

func (c *chunk) append(record json.RawMessage) {
	c.records = append(c.records, record)
	c.size += len(record)
}

// Pack reads the JSON-Lines file and writes sealed documents to
// <basename>_jsonld/<basename>_NNN.jsonld. It returns the written
// document paths in emission order.
func (p *Packager) Pack(jsonlPath string) ([]string, error) {
	base := strings.TrimSuffix(jsonlPath, filepath.Ext(jsonlPath))
	dir := base + "_jsonld"
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create document directory: %w", err)
	}

	file, err := os.Open(jsonlPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open JSON-Lines file: %w", err)
	}
	defer file.Close()

	var (
		paths   []string
		current chunk
		index   = 1
	)

	seal := func() error {
		if len(current.records) == 0 {
			return nil
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_%03d.jsonld", filepath.Base(base), index))
		if err := p.writeDocument(path, current.records); err != nil {
			return err
		}
		p.logger.Info("Wrote JSON-LD document",
			slog.String("path", path),
			slog.Int("entries", len(current.records)))
		paths = append(paths, path)
		current = chunk{}
		index++
		return nil
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		record, err := p.stripContext([]byte(text))
		if err != nil {
			return nil, fmt.Errorf("failed to parse record at line %d: %w", line, err)
		}

		if p.envelopeSize+len(record) > p.maxSize {
			return nil, semerrors.WrapFatal(ErrOversizedRecord, "Packager", "Pack",
				fmt.Sprintf("record at line %d (%d bytes, budget %d)", line, len(record), p.maxSize))
		}

		if current.projected(p.envelopeSize, len(record)) > p.maxSize {
			if err := seal(); err != nil {
				return nil, err
			}
		}
		current.append(record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read JSON-Lines file: %w", err)
	}

	if err := seal(); err != nil {
		return nil, err
	}

	return paths, nil
}

// stripContext re-serializes a record without its @context reference;
// packaged documents carry the context once at the top level.
func (p *Packager) stripContext(line []byte) (json.RawMessage, error) {
	var record map[string]any
	if err := json.Unmarshal(line, &record); err != nil {
		return nil, err
	}
	delete(record, "@context")
	return json.Marshal(record)
}

// writeDocument seals a chunk: inlined context plus the @graph array.
func (p *Packager) writeDocument(path string, records []json.RawMessage) error {
	doc, err := json.Marshal(map[string]any{
		"@context": p.ctx.Body,
		"@graph":   records,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	if err := os.WriteFile(path, doc, 0644); err != nil {
		return fmt.Errorf("failed to write document %s: %w", path, err)
	}
	return nil
}
