package graph

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/c360studio/cpdbld/config"
	"github.com/c360studio/cpdbld/mapping"
	"github.com/c360studio/cpdbld/tsv"
	"github.com/c360studio/cpdbld/vocabulary/cpdb"
)

// Builder constructs one Node per data row using the column table and
// the organism's mapping. All fields are read-only after construction,
// so a single builder serves an entire file.
type Builder struct {
	cfg        config.NodeConfig
	mapping    *mapping.ColumnMapping
	table      *tsv.ColumnTable
	listDelim  string
	taxonomyID string
}

// NewBuilder creates a builder for one source file.
func NewBuilder(cfg config.NodeConfig, m *mapping.ColumnMapping, table *tsv.ColumnTable, listDelim, taxonomyID string) *Builder {
	return &Builder{
		cfg:        cfg,
		mapping:    m,
		table:      table,
		listDelim:  listDelim,
		taxonomyID: taxonomyID,
	}
}

// Build produces exactly one node from a row, or a per-row error the
// caller logs and skips.
func (b *Builder) Build(row tsv.Row) (*Node, error) {
	if len(row.Cells) != b.table.Len() {
		return nil, fmt.Errorf("%w: line %d has %d cells, header has %d columns",
			ErrMalformedRow, row.Line, len(row.Cells), b.table.Len())
	}

	record := make(map[string]any, len(row.Cells))
	for i, cell := range row.Cells {
		property := b.table.Property(i)
		if property == "" {
			continue
		}
		value := b.parseCell(cell)
		if value == nil {
			continue
		}
		record[property] = value
	}

	id := identifierString(record[b.mapping.IdentifierProperty])
	if id == "" {
		return nil, fmt.Errorf("%w: line %d column %q", ErrEmptyIdentifier, row.Line, b.mapping.IdentifierProperty)
	}

	node := &Node{
		ID:       b.cfg.IDPrefix + id,
		Type:     b.cfg.Type,
		Taxonomy: b.cfg.TaxonomyPrefix + b.taxonomyID,
	}
	record[cpdb.PredicateLabel] = id

	b.applyDataSource(record)
	b.extractReferences(record, node)
	b.extractParticipants(record, node)

	node.Properties = record
	return node, nil
}

// applyDataSource turns raw data-source names into dereferenceable
// identifiers, preserving the scalar/list shape of the cell.
func (b *Builder) applyDataSource(record map[string]any) {
	property := b.mapping.DataSourceProperty
	if property == "" {
		return
	}
	value, ok := record[property]
	if !ok {
		return
	}

	prefix := func(v any) any {
		if v == nil {
			return nil
		}
		return b.cfg.DataSourcePrefix + strings.ToLower(valueString(v))
	}

	if list, ok := value.([]any); ok {
		prefixed := make([]any, len(list))
		for i, v := range list {
			prefixed[i] = prefix(v)
		}
		record[property] = prefixed
	} else {
		record[property] = prefix(value)
	}
}

// extractReferences moves literature references out of the scalar
// record and onto the node's evidence, applying the reference prefix.
func (b *Builder) extractReferences(record map[string]any, node *Node) {
	property := b.mapping.ReferenceProperty
	if property == "" {
		return
	}
	value, ok := record[property]
	if !ok {
		return
	}
	delete(record, property)

	if list, ok := value.([]any); ok {
		for _, v := range list {
			if v == nil {
				continue
			}
			node.References = append(node.References, b.cfg.ReferencePrefix+valueString(v))
		}
	} else {
		node.References = append(node.References, b.cfg.ReferencePrefix+valueString(value))
		node.referenceScalar = true
	}
}

// extractParticipants builds the participant list from the declared
// participant properties. When none of them appear in the record, the
// fallback participant property is used instead, which covers header
// vocabularies without accession columns.
func (b *Builder) extractParticipants(record map[string]any, node *Node) {
	targets := make([]string, len(b.mapping.ParticipantProperties))
	copy(targets, b.mapping.ParticipantProperties)

	present := false
	for _, property := range targets {
		if _, ok := record[property]; ok {
			present = true
			break
		}
	}
	if !present && b.mapping.FallbackParticipant != "" && !contains(targets, b.mapping.FallbackParticipant) {
		targets = append(targets, b.mapping.FallbackParticipant)
	}

	// The identifier is already captured as @id and label; it only
	// stays in the record when it doubles as a participant source.
	if !contains(targets, b.mapping.IdentifierProperty) {
		delete(record, b.mapping.IdentifierProperty)
	}

	for _, property := range targets {
		value, ok := record[property]
		if !ok {
			continue
		}
		delete(record, property)

		literal := b.mapping.IsLiteralParticipant(property)
		appendOne := func(v any) {
			if v == nil {
				return
			}
			if literal {
				node.Participants = append(node.Participants, NewLiteralParticipant(valueString(v)))
			} else {
				node.Participants = append(node.Participants, NewReferenceParticipant(property, valueString(v)))
			}
		}

		if list, ok := value.([]any); ok {
			for _, v := range list {
				appendOne(v)
			}
		} else {
			appendOne(value)
		}
	}
}

// parseCell coerces a raw cell value: list cells split on the list
// delimiter, "NA" becomes nil, numeric strings become numbers, empty
// cells are dropped.
func (b *Builder) parseCell(cell string) any {
	if strings.Contains(cell, b.listDelim) {
		parts := strings.Split(cell, b.listDelim)
		values := make([]any, len(parts))
		for i, part := range parts {
			values[i] = parseScalar(part)
		}
		return values
	}
	return parseScalar(cell)
}

func parseScalar(field string) any {
	if field == "" || field == "NA" {
		return nil
	}
	if i, err := strconv.ParseInt(field, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(field, 64); err == nil {
		return f
	}
	return field
}

// identifierString flattens the identifier cell value: multi-valued
// cells are sorted and joined with "-" so the same member set always
// yields the same node identifier.
func identifierString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			parts = append(parts, valueString(item))
		}
		sort.Strings(parts)
		return strings.Join(parts, "-")
	default:
		return valueString(v)
	}
}

func valueString(v any) string {
	return fmt.Sprintf("%v", v)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
