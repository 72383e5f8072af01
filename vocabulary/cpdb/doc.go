// Package cpdb defines the vocabulary terms used when converting
// ConsensusPathDB interaction records to linked data.
//
// The package provides:
//   - IRI namespaces and curie prefixes for node identifiers, data
//     sources, references, and taxonomy identifiers (iris.go)
//   - Property (predicate) names attached to emitted nodes
//     (predicates.go)
//
// Terms here are the single source of truth for the output shape;
// column mapping definitions translate raw TSV header labels into
// these property names.
package cpdb
