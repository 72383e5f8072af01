// Package mapping loads per-organism column mapping definitions.
//
// Header vocabularies differ between ConsensusPathDB source files
// (human/mouse/yeast), so each organism carries its own definition
// translating raw TSV header labels into vocabulary property names.
// Definitions live in data files rather than logic, isolating schema
// drift to the mapping directory.
package mapping

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	semerrors "github.com/c360studio/semstreams/pkg/errs"
	"gopkg.in/yaml.v3"
)

// ErrMappingNotFound is returned when no definition exists for an organism.
var ErrMappingNotFound = errors.New("column mapping not found")

// ErrInvalidMapping is returned when a definition fails validation.
var ErrInvalidMapping = errors.New("invalid column mapping")

// ColumnMapping translates raw TSV header labels into property names
// and declares which properties carry special participant or reference
// semantics.
type ColumnMapping struct {
	// Columns maps raw header label to property name. Header labels
	// absent from this map are dropped, not errors.
	Columns map[string]string `yaml:"columns"`

	// IdentifierProperty is the property whose cell value forms the
	// node identifier.
	IdentifierProperty string `yaml:"identifier_property"`

	// ParticipantProperties lists properties whose cell values become
	// node participants.
	ParticipantProperties []string `yaml:"participant_properties"`

	// LiteralParticipants names the participant properties whose
	// values stay literal (e.g. gene symbols) instead of becoming
	// entity references.
	LiteralParticipants []string `yaml:"literal_participants"`

	// FallbackParticipant is used as a participant property when none
	// of ParticipantProperties appear in the header vocabulary.
	FallbackParticipant string `yaml:"fallback_participant"`

	// DataSourceProperty names the property carrying the originating
	// database, prefixed into a dereferenceable identifier.
	DataSourceProperty string `yaml:"data_source_property"`

	// ReferenceProperty names the property carrying literature
	// references, moved under evidence on the output node.
	ReferenceProperty string `yaml:"reference_property"`
}

// Validate checks internal consistency of a mapping definition.
func (m *ColumnMapping) Validate() error {
	if len(m.Columns) == 0 {
		return fmt.Errorf("%w: no columns declared", ErrInvalidMapping)
	}
	if m.IdentifierProperty == "" {
		return fmt.Errorf("%w: identifier_property is required", ErrInvalidMapping)
	}

	produced := make(map[string]bool, len(m.Columns))
	for _, property := range m.Columns {
		produced[property] = true
	}

	if !produced[m.IdentifierProperty] {
		return fmt.Errorf("%w: identifier property %q not produced by any column", ErrInvalidMapping, m.IdentifierProperty)
	}
	if m.FallbackParticipant != "" && !produced[m.FallbackParticipant] {
		return fmt.Errorf("%w: fallback participant %q not produced by any column", ErrInvalidMapping, m.FallbackParticipant)
	}
	for _, property := range m.ParticipantProperties {
		if !produced[property] {
			return fmt.Errorf("%w: participant property %q not produced by any column", ErrInvalidMapping, property)
		}
	}
	if m.DataSourceProperty != "" && !produced[m.DataSourceProperty] {
		return fmt.Errorf("%w: data source property %q not produced by any column", ErrInvalidMapping, m.DataSourceProperty)
	}
	if m.ReferenceProperty != "" && !produced[m.ReferenceProperty] {
		return fmt.Errorf("%w: reference property %q not produced by any column", ErrInvalidMapping, m.ReferenceProperty)
	}
	for _, literal := range m.LiteralParticipants {
		if !m.isParticipant(literal) {
			return fmt.Errorf("%w: literal participant %q not in participant_properties", ErrInvalidMapping, literal)
		}
	}

	return nil
}

func (m *ColumnMapping) isParticipant(property string) bool {
	for _, p := range m.ParticipantProperties {
		if p == property {
			return true
		}
	}
	return false
}

// IsLiteralParticipant reports whether a participant property's values
// stay literal instead of becoming entity references.
func (m *ColumnMapping) IsLiteralParticipant(property string) bool {
	for _, p := range m.LiteralParticipants {
		if p == property {
			return true
		}
	}
	return false
}

// Registry manages loaded column mappings keyed by organism.
type Registry struct {
	mu       sync.RWMutex
	dir      string
	mappings map[string]*ColumnMapping
}

// NewRegistry creates a registry loading definitions from dir.
func NewRegistry(dir string) *Registry {
	return &Registry{
		dir:      dir,
		mappings: make(map[string]*ColumnMapping),
	}
}

// Register adds a mapping under an organism key, replacing any existing
// entry. The mapping must validate.
func (r *Registry) Register(organism string, m *ColumnMapping) error {
	if err := m.Validate(); err != nil {
		return semerrors.WrapInvalid(err, "Registry", "Register", fmt.Sprintf("validation of %q", organism))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.mappings[organism] = m
	return nil
}

// Get returns the mapping for an organism, loading its definition file
// on first use. Fails with ErrMappingNotFound when no definition exists.
func (r *Registry) Get(organism string) (*ColumnMapping, error) {
	r.mu.RLock()
	m, ok := r.mappings[organism]
	r.mu.RUnlock()
	if ok {
		return m, nil
	}

	m, err := r.loadFromFile(organism)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.mappings[organism] = m
	return m, nil
}

// List returns the organisms currently registered.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	organisms := make([]string, 0, len(r.mappings))
	for organism := range r.mappings {
		organisms = append(organisms, organism)
	}
	return organisms
}

func (r *Registry) loadFromFile(organism string) (*ColumnMapping, error) {
	path := filepath.Join(r.dir, organism+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, semerrors.WrapInvalid(ErrMappingNotFound, "Registry", "Get",
				fmt.Sprintf("definition lookup for %q", organism))
		}
		return nil, fmt.Errorf("failed to read mapping definition %s: %w", path, err)
	}

	m := &ColumnMapping{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("failed to parse mapping definition %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, semerrors.WrapInvalid(err, "Registry", "Get", fmt.Sprintf("validation of %q", organism))
	}

	return m, nil
}
