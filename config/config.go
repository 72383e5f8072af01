// Package config provides configuration loading and management for cpdbld.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/cpdbld/vocabulary/cpdb"
)

// Config represents the complete cpdbld configuration
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Node     NodeConfig     `yaml:"node"`
	Context  ContextConfig  `yaml:"context"`
	Mapping  MappingConfig  `yaml:"mapping"`
	Taxonomy TaxonomyConfig `yaml:"taxonomy"`
	Output   OutputConfig   `yaml:"output"`
	Flow     FlowConfig     `yaml:"flow"`
	Log      LogConfig      `yaml:"log"`
}

// InputConfig describes the shape of source TSV files
type InputConfig struct {
	// HeaderRowNumber is the 1-indexed row carrying the column labels
	HeaderRowNumber int `yaml:"header_row_number"`
	// HeaderPrefix is the comment prefix stripped from the header row
	HeaderPrefix string `yaml:"header_prefix"`
	// FieldDelimiter separates columns within a row
	FieldDelimiter string `yaml:"field_delimiter"`
	// ListDelimiter separates values within a multi-valued cell
	ListDelimiter string `yaml:"list_delimiter"`
}

// NodeConfig controls identifier and type minting for emitted nodes
type NodeConfig struct {
	// IDPrefix is prepended to the identifier column value (e.g. "cpdb:")
	IDPrefix string `yaml:"id_prefix"`
	// Type is the @type asserted on every node
	Type string `yaml:"type"`
	// DataSourcePrefix makes data-source accessions dereferenceable
	DataSourcePrefix string `yaml:"data_source_prefix"`
	// ReferencePrefix is prepended to literature reference accessions
	ReferencePrefix string `yaml:"reference_prefix"`
	// TaxonomyPrefix is prepended to the resolved taxonomy identifier
	TaxonomyPrefix string `yaml:"taxonomy_prefix"`
}

// ContextConfig locates the JSON-LD context document
type ContextConfig struct {
	// Path is the local context file (JSON object with an @context member)
	Path string `yaml:"path"`
	// URI is the public context URI embedded in JSON-Lines records
	URI string `yaml:"uri"`
}

// MappingConfig locates the per-organism column mapping definitions
type MappingConfig struct {
	// Dir holds one <organism>.yaml definition per organism
	Dir string `yaml:"dir"`
}

// TaxonomyConfig configures the organism name resolver
type TaxonomyConfig struct {
	// Path optionally overrides the built-in name table (YAML)
	Path string `yaml:"path"`
}

// OutputConfig controls output placement and JSON-LD packaging
type OutputConfig struct {
	// Dir is the default output directory for flow mode
	Dir string `yaml:"dir"`
	// JSONLDMaxFileSize caps the byte size of each packaged document
	JSONLDMaxFileSize int `yaml:"jsonld_max_file_size"`
}

// FlowConfig configures manifest-driven conversion
type FlowConfig struct {
	// ManifestPath is the default source manifest
	ManifestPath string `yaml:"manifest_path"`
	// WatchDebounce is the fsnotify debounce delay (e.g. "500ms")
	WatchDebounce string `yaml:"watch_debounce"`
}

// LogConfig routes informational and error diagnostics
type LogConfig struct {
	// InfoPath appends informational records (empty = stderr only)
	InfoPath string `yaml:"info_path"`
	// ErrorPath appends error records (empty = stderr only)
	ErrorPath string `yaml:"error_path"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			HeaderRowNumber: 2,
			HeaderPrefix:    "#  ",
			FieldDelimiter:  "\t",
			ListDelimiter:   ",",
		},
		Node: NodeConfig{
			IDPrefix:         cpdb.NodeIDPrefix,
			Type:             cpdb.NodeType,
			DataSourcePrefix: cpdb.DataSourcePrefix,
			ReferencePrefix:  cpdb.ReferencePrefix,
			TaxonomyPrefix:   cpdb.TaxonomyPrefix,
		},
		Context: ContextConfig{
			Path: "context.jsonld",
			URI:  "http://example.com/context.jsonld",
		},
		Mapping: MappingConfig{
			Dir: "column_mapper",
		},
		Taxonomy: TaxonomyConfig{
			Path: "",
		},
		Output: OutputConfig{
			Dir:               "output",
			JSONLDMaxFileSize: 3 * 1024 * 1024,
		},
		Flow: FlowConfig{
			ManifestPath:  "urls.txt",
			WatchDebounce: "500ms",
		},
		Log: LogConfig{},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Input.HeaderRowNumber < 1 {
		return fmt.Errorf("input.header_row_number must be >= 1")
	}
	if c.Input.FieldDelimiter == "" {
		return fmt.Errorf("input.field_delimiter is required")
	}
	if c.Input.ListDelimiter == "" {
		return fmt.Errorf("input.list_delimiter is required")
	}
	if c.Node.IDPrefix == "" {
		return fmt.Errorf("node.id_prefix is required")
	}
	if c.Node.Type == "" {
		return fmt.Errorf("node.type is required")
	}
	if c.Context.URI == "" {
		return fmt.Errorf("context.uri is required")
	}
	if c.Output.JSONLDMaxFileSize <= 0 {
		return fmt.Errorf("output.jsonld_max_file_size must be positive")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Input
	if other.Input.HeaderRowNumber != 0 {
		c.Input.HeaderRowNumber = other.Input.HeaderRowNumber
	}
	if other.Input.HeaderPrefix != "" {
		c.Input.HeaderPrefix = other.Input.HeaderPrefix
	}
	if other.Input.FieldDelimiter != "" {
		c.Input.FieldDelimiter = other.Input.FieldDelimiter
	}
	if other.Input.ListDelimiter != "" {
		c.Input.ListDelimiter = other.Input.ListDelimiter
	}

	// Node
	if other.Node.IDPrefix != "" {
		c.Node.IDPrefix = other.Node.IDPrefix
	}
	if other.Node.Type != "" {
		c.Node.Type = other.Node.Type
	}
	if other.Node.DataSourcePrefix != "" {
		c.Node.DataSourcePrefix = other.Node.DataSourcePrefix
	}
	if other.Node.ReferencePrefix != "" {
		c.Node.ReferencePrefix = other.Node.ReferencePrefix
	}
	if other.Node.TaxonomyPrefix != "" {
		c.Node.TaxonomyPrefix = other.Node.TaxonomyPrefix
	}

	// Context
	if other.Context.Path != "" {
		c.Context.Path = other.Context.Path
	}
	if other.Context.URI != "" {
		c.Context.URI = other.Context.URI
	}

	// Mapping
	if other.Mapping.Dir != "" {
		c.Mapping.Dir = other.Mapping.Dir
	}

	// Taxonomy
	if other.Taxonomy.Path != "" {
		c.Taxonomy.Path = other.Taxonomy.Path
	}

	// Output
	if other.Output.Dir != "" {
		c.Output.Dir = other.Output.Dir
	}
	if other.Output.JSONLDMaxFileSize != 0 {
		c.Output.JSONLDMaxFileSize = other.Output.JSONLDMaxFileSize
	}

	// Flow
	if other.Flow.ManifestPath != "" {
		c.Flow.ManifestPath = other.Flow.ManifestPath
	}
	if other.Flow.WatchDebounce != "" {
		c.Flow.WatchDebounce = other.Flow.WatchDebounce
	}

	// Log
	if other.Log.InfoPath != "" {
		c.Log.InfoPath = other.Log.InfoPath
	}
	if other.Log.ErrorPath != "" {
		c.Log.ErrorPath = other.Log.ErrorPath
	}
}
