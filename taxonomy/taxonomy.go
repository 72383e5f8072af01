// Package taxonomy resolves organism names to taxonomy identifiers.
//
// Resolution is a pure lookup against a static name table. An explicit
// organism name always wins; otherwise the resolver scans the source
// filename for a known organism substring, which matches how
// ConsensusPathDB names its per-organism export files.
package taxonomy

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	semerrors "github.com/c360studio/semstreams/pkg/errs"
	"gopkg.in/yaml.v3"
)

// ErrUnknownTaxonomy is returned when no organism name is given and
// none can be derived from the filename, or the name has no table entry.
var ErrUnknownTaxonomy = errors.New("unknown taxonomy")

// Resolver maps organism names (and filename hints) to taxonomy IDs.
type Resolver struct {
	table map[string]string
	// names holds the table keys in deterministic order so filename
	// matching does not depend on map iteration order.
	names []string
}

// DefaultTable returns the built-in organism name table.
func DefaultTable() map[string]string {
	return map[string]string{
		"human": "9606",
		"mouse": "10090",
		"yeast": "4932",
	}
}

// NewResolver creates a resolver over the given name table.
// A nil table uses the built-in defaults.
func NewResolver(table map[string]string) *Resolver {
	if table == nil {
		table = DefaultTable()
	}
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return &Resolver{table: table, names: names}
}

// NewResolverFromFile loads a name table from a YAML file and creates a
// resolver over it.
func NewResolverFromFile(path string) (*Resolver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy table: %w", err)
	}

	var table map[string]string
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy table: %w", err)
	}
	if len(table) == 0 {
		return nil, semerrors.WrapInvalid(ErrUnknownTaxonomy, "Resolver", "NewResolverFromFile", "table validation")
	}

	return NewResolver(table), nil
}

// Resolve returns the organism name and taxonomy ID for an explicit
// name, or derives the organism from the source filename when the name
// is empty.
func (r *Resolver) Resolve(name, filename string) (string, string, error) {
	if name != "" {
		id, ok := r.table[name]
		if !ok {
			return "", "", semerrors.WrapInvalid(ErrUnknownTaxonomy, "Resolver", "Resolve",
				fmt.Sprintf("lookup of %q", name))
		}
		return name, id, nil
	}

	base := filepath.Base(filename)
	for _, candidate := range r.names {
		if strings.Contains(base, candidate) {
			return candidate, r.table[candidate], nil
		}
	}

	return "", "", semerrors.WrapInvalid(ErrUnknownTaxonomy, "Resolver", "Resolve",
		fmt.Sprintf("organism detection in filename %q", base))
}
