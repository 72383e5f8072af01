// Package export serializes graph nodes: JSON-Lines emission with a
// context reference, and repacking into size-bounded JSON-LD documents
// with the context inlined.
package export

import (
	"encoding/json"
	"fmt"
	"os"
)

// Context is the JSON-LD @context, loaded once from a local file and
// read-only afterwards. JSON-Lines records carry only the public URI
// to keep lines compact; packaged documents inline the body so each
// document is self-contained.
type Context struct {
	// Body is the @context object itself.
	Body map[string]any

	// URI is the public context URI embedded in JSON-Lines records.
	URI string
}

// LoadContext reads a local JSON-LD context document and pairs its
// @context member with the public URI.
func LoadContext(path, uri string) (*Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read context document: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse context document: %w", err)
	}

	body, ok := doc["@context"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingContext, path)
	}

	return &Context{Body: body, URI: uri}, nil
}
