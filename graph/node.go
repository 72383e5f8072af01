// Package graph models the output graph entities: interaction and
// complex nodes with their participants, and the builder that
// constructs one node per source row.
package graph

import "github.com/c360studio/cpdbld/vocabulary/cpdb"

// ParticipantKind distinguishes the two participant shapes.
type ParticipantKind string

// ParticipantLiteral and ParticipantReference enumerate the participant kinds.
const (
	// ParticipantLiteral is a participant that stays a plain value,
	// e.g. a gene symbol annotation.
	ParticipantLiteral ParticipantKind = "literal"

	// ParticipantReference is a participant referring to another
	// identified entity by curie.
	ParticipantReference ParticipantKind = "reference"
)

// Participant is one member of a node: either a literal value or a
// reference to another identified entity, never both. A participant is
// owned exclusively by its parent node.
type Participant struct {
	Kind  ParticipantKind
	Value string
}

// NewLiteralParticipant creates a literal-valued participant.
func NewLiteralParticipant(value string) Participant {
	return Participant{Kind: ParticipantLiteral, Value: value}
}

// NewReferenceParticipant creates an entity-reference participant
// using the property name as curie prefix.
func NewReferenceParticipant(property, value string) Participant {
	return Participant{Kind: ParticipantReference, Value: property + ":" + value}
}

// Token returns the serialized form: the raw value for literals, the
// curie for references.
func (p Participant) Token() string {
	return p.Value
}

// Node is one output graph entity. Construction order follows row
// order; identifiers are unique within an output file.
type Node struct {
	// ID is the full node identifier (prefix + identifier column value).
	ID string

	// Type is the node's type IRI.
	Type string

	// Taxonomy is the prefixed taxonomy identifier.
	Taxonomy string

	// Properties holds the scalar properties by name.
	Properties map[string]any

	// Participants lists the node's members in cell order.
	Participants []Participant

	// References lists prefixed literature reference identifiers.
	References []string

	// referenceScalar records whether the source cell held a single
	// reference, so serialization preserves the input shape.
	referenceScalar bool
}

// JSONObject returns the node as a JSON-ready map. Callers attach the
// @context themselves; map keys serialize sorted, so repeated runs are
// byte-identical.
func (n *Node) JSONObject() map[string]any {
	obj := make(map[string]any, len(n.Properties)+5)
	for k, v := range n.Properties {
		obj[k] = v
	}

	obj["@id"] = n.ID
	obj["@type"] = n.Type
	obj[cpdb.PredicateTaxonomy] = n.Taxonomy

	participants := make([]any, len(n.Participants))
	for i, p := range n.Participants {
		participants[i] = p.Token()
	}
	obj[cpdb.PredicateParticipant] = participants

	if len(n.References) > 0 {
		var refs any
		if n.referenceScalar && len(n.References) == 1 {
			refs = n.References[0]
		} else {
			list := make([]any, len(n.References))
			for i, r := range n.References {
				list[i] = r
			}
			refs = list
		}
		obj[cpdb.PredicateEvidence] = map[string]any{cpdb.PredicateReference: refs}
	}

	return obj
}
