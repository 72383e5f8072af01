package cpdb

// NodeIDPrefix is the curie prefix for emitted node identifiers.
const NodeIDPrefix = "cpdb:"

// NodeType is the type IRI (curie form) asserted on every emitted node.
const NodeType = "m2r:MacromolecularComplex"

// DataSourcePrefix is prepended to data-source accessions so they
// resolve as dereferenceable identifiers.
const DataSourcePrefix = "http://identifiers.org/"

// ReferencePrefix is the curie prefix for literature references.
const ReferencePrefix = "pmid:"

// TaxonomyPrefix is the curie prefix for taxonomy identifiers.
const TaxonomyPrefix = "taxid:"
