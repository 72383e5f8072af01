// Package tsv reads delimited ConsensusPathDB export files.
//
// Source files carry a document preamble before a comment-prefixed
// header row; everything after the header is data. The reader locates
// the header at a configured 1-indexed row, zips its labels through a
// column mapping, and then yields data rows positionally aligned with
// the resulting column table.
package tsv

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	semerrors "github.com/c360studio/semstreams/pkg/errs"

	"github.com/c360studio/cpdbld/mapping"
)

// ErrHeaderParse is returned when the configured header row does not
// exist or yields zero mapped columns.
var ErrHeaderParse = errors.New("header parse failed")

// maxLineSize bounds a single input line. CPDB rows with large
// participant lists stay well under this.
const maxLineSize = 4 * 1024 * 1024

// Options configures header location and tokenization.
type Options struct {
	// HeaderRowNumber is the 1-indexed row carrying the column labels.
	HeaderRowNumber int
	// HeaderPrefix is the comment prefix stripped from the header row.
	HeaderPrefix string
	// FieldDelimiter separates columns within a row.
	FieldDelimiter string
}

// ColumnTable pairs each column index with its mapped property name.
// Unmapped columns carry an empty name and are dropped downstream.
type ColumnTable struct {
	properties []string
}

// Len returns the number of header columns.
func (t *ColumnTable) Len() int {
	return len(t.properties)
}

// Property returns the property name for a column index, or "" when
// the column is unmapped or out of range.
func (t *ColumnTable) Property(i int) string {
	if i < 0 || i >= len(t.properties) {
		return ""
	}
	return t.properties[i]
}

// Row is one data row: raw cell values positionally aligned with the
// column table, plus its 1-indexed line number for diagnostics.
type Row struct {
	Cells []string
	Line  int
}

// Reader reads a TSV stream: header first, then data rows.
type Reader struct {
	scanner *bufio.Scanner
	opts    Options
	line    int
}

// NewReader creates a reader over r.
func NewReader(r io.Reader, opts Options) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	return &Reader{scanner: scanner, opts: opts}
}

// ParseHeader skips the preamble, reads the configured header row,
// strips the comment prefix, tokenizes on the field delimiter, and
// zips each label through the column mapping.
func (r *Reader) ParseHeader(m *mapping.ColumnMapping) (*ColumnTable, error) {
	var header string
	found := false
	for r.scanner.Scan() {
		r.line++
		if r.line == r.opts.HeaderRowNumber {
			header = r.scanner.Text()
			found = true
			break
		}
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if !found {
		return nil, semerrors.WrapInvalid(ErrHeaderParse, "Reader", "ParseHeader",
			fmt.Sprintf("locating row %d", r.opts.HeaderRowNumber))
	}

	header = strings.TrimPrefix(header, r.opts.HeaderPrefix)
	labels := strings.Split(header, r.opts.FieldDelimiter)

	properties := make([]string, len(labels))
	mapped := 0
	for i, label := range labels {
		if property, ok := m.Columns[strings.TrimSpace(label)]; ok {
			properties[i] = property
			mapped++
		}
	}
	if mapped == 0 {
		return nil, semerrors.WrapInvalid(ErrHeaderParse, "Reader", "ParseHeader",
			fmt.Sprintf("mapping %d header labels", len(labels)))
	}

	return &ColumnTable{properties: properties}, nil
}

// Next returns the next data row, or ok=false on end of input.
// Blank lines are skipped.
func (r *Reader) Next() (Row, bool, error) {
	for r.scanner.Scan() {
		r.line++
		text := r.scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		return Row{Cells: strings.Split(text, r.opts.FieldDelimiter), Line: r.line}, true, nil
	}
	if err := r.scanner.Err(); err != nil {
		return Row{}, false, fmt.Errorf("failed to read row: %w", err)
	}
	return Row{}, false, nil
}

// CountLines returns the number of lines in r. Flow mode uses it to
// size progress reporting before conversion starts.
func CountLines(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	n := 0
	for scanner.Scan() {
		n++
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("failed to count lines: %w", err)
	}
	return n, nil
}
