package cpdb

// Node predicates define the attributes attached to emitted interaction
// and complex nodes. Column mapping definitions map raw TSV header
// labels onto these names.
const (
	// PredicateLabel is the human-readable node label.
	PredicateLabel = "label"

	// PredicateDataSource links a node to the originating database.
	PredicateDataSource = "data_source"

	// PredicateReference is a literature reference accession (input
	// side). During node construction references move under evidence.
	PredicateReference = "reference"

	// PredicateEvidence wraps reference links on the output node.
	PredicateEvidence = "evidence"

	// PredicateParticipant lists the molecular participants of a node.
	PredicateParticipant = "participant"

	// PredicateTaxonomy is the organism taxonomy identifier.
	PredicateTaxonomy = "taxonomy"

	// PredicateUniProtEntry is the UniProt entry name property. Doubles
	// as the node identifier source and the fallback participant
	// property for header vocabularies without accession columns.
	PredicateUniProtEntry = "uniprot_entry"

	// PredicateUniProtID is the UniProt accession property, the primary
	// participant property.
	PredicateUniProtID = "uniprot_id"

	// PredicateGeneSymbol is the gene symbol annotation, a
	// literal-valued participant property.
	PredicateGeneSymbol = "gene_symbol"

	// PredicateConfidence is the interaction confidence score.
	PredicateConfidence = "confidence"
)
