package commonterms

import (
	"github.com/c360studio/semstreams/vocabulary"
	"github.com/cayleygraph/quad/voc"
)

// Vocabulary-level predicates, read from the ontology subject.
const (
	// VocabTitle is the short title of a vocabulary.
	VocabTitle = "vocab.meta.title"

	// VocabDescription is the long-form description of a vocabulary.
	VocabDescription = "vocab.meta.description"

	// VocabLegacyTitle is the Dublin Core elements title, still common in
	// older vocabularies.
	VocabLegacyTitle = "vocab.meta.legacy_title"

	// VocabCreator names an author of the vocabulary.
	VocabCreator = "vocab.meta.creator"

	// VocabNamespace is the namespace IRI declared via VANN.
	VocabNamespace = "vocab.namespace.uri"

	// VocabPrefix is the namespace prefix declared via VANN.
	VocabPrefix = "vocab.namespace.prefix"

	// VocabDeclare links a vocabulary to a SHACL prefix declaration.
	VocabDeclare = "vocab.namespace.declare"

	// DeclarationNamespace is the namespace IRI of a SHACL prefix declaration.
	DeclarationNamespace = "vocab.declaration.namespace"

	// DeclarationPrefix is the prefix of a SHACL prefix declaration.
	DeclarationPrefix = "vocab.declaration.prefix"
)

// Term-level predicates.
const (
	TermType          = "vocab.term.type"
	TermLabel         = "vocab.term.label"
	TermComment       = "vocab.term.comment"
	TermDefinition    = "vocab.term.definition"
	TermLiteralForm   = "vocab.term.literal_form"
	TermAlternateName = "vocab.term.alternate_name"
	TermSeeAlso       = "vocab.term.see_also"
	TermIsDefinedBy   = "vocab.term.is_defined_by"
	TermSubClassOf    = "vocab.term.sub_class_of"
	TermSubPropertyOf = "vocab.term.sub_property_of"
)

// DescriptionPredicates is the order in which vocabulary descriptions are
// looked up. The first predicate with any value wins.
var DescriptionPredicates = []string{
	VocabDescription,
	VocabTitle,
	TermComment,
	VocabLegacyTitle,
	TermDefinition,
	TermLabel,
}

// PredicateIRI returns the standard IRI registered for a dotted predicate,
// or "" if the predicate is unknown.
func PredicateIRI(predicate string) string {
	meta := vocabulary.GetPredicateMetadata(predicate)
	if meta == nil {
		return ""
	}
	return meta.StandardIRI
}

// Prefixes maps namespace prefixes to namespace IRIs for serialization.
var Prefixes = map[string]string{
	"rdf":                RDF,
	"rdfs":               RDFS,
	"owl":                OWL,
	"xsd":                XSD,
	"dcterms":            DCTerms,
	"dc":                 DCElements,
	"skos":               SKOS,
	"skosxl":             SKOSXL,
	"vann":               VANN,
	"sh":                 SHACL,
	"schema":             Schema,
	"artifact_generator": ArtifactGenerator,
}

func init() {
	for prefix, ns := range Prefixes {
		switch prefix {
		case "rdf", "rdfs", "owl":
			// Registered by cayley's own voc packages.
			continue
		}
		voc.RegisterPrefix(prefix+":", ns)
	}

	vocabulary.Register(VocabTitle,
		vocabulary.WithDescription("Short human-readable title of the vocabulary"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(DCTermsTitle))

	vocabulary.Register(VocabDescription,
		vocabulary.WithDescription("Long-form description of the vocabulary"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(DCTermsDescription))

	vocabulary.Register(VocabLegacyTitle,
		vocabulary.WithDescription("Dublin Core elements title of the vocabulary"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(DCElementsTitle))

	vocabulary.Register(VocabCreator,
		vocabulary.WithDescription("Author of the vocabulary"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(DCTermsCreator))

	vocabulary.Register(VocabNamespace,
		vocabulary.WithDescription("Preferred namespace IRI of the vocabulary"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(VANNPreferredNamespaceURI))

	vocabulary.Register(VocabPrefix,
		vocabulary.WithDescription("Preferred namespace prefix of the vocabulary"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(VANNPreferredNamespacePrefix))

	vocabulary.Register(VocabDeclare,
		vocabulary.WithDescription("SHACL prefix declaration of the vocabulary"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(SHACLDeclare))

	vocabulary.Register(DeclarationNamespace,
		vocabulary.WithDescription("Namespace IRI of a SHACL prefix declaration"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(SHACLNamespace))

	vocabulary.Register(DeclarationPrefix,
		vocabulary.WithDescription("Prefix of a SHACL prefix declaration"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(SHACLPrefix))

	vocabulary.Register(TermType,
		vocabulary.WithDescription("RDF type of a vocabulary term"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(RDFType))

	vocabulary.Register(TermLabel,
		vocabulary.WithDescription("Human-readable label of a term, one per language"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(RDFSLabel))

	vocabulary.Register(TermComment,
		vocabulary.WithDescription("Long-form comment describing a term"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(RDFSComment))

	vocabulary.Register(TermDefinition,
		vocabulary.WithDescription("SKOS definition of a term, also the value of generated constants"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(SKOSDefinition))

	vocabulary.Register(TermLiteralForm,
		vocabulary.WithDescription("SKOS-XL literal form used as a label"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(SKOSXLLiteralForm))

	vocabulary.Register(TermAlternateName,
		vocabulary.WithDescription("schema.org alternate name, preferred over rdfs:label"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(SchemaAlternateName))

	vocabulary.Register(TermSeeAlso,
		vocabulary.WithDescription("Related resource of a term"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(RDFSSeeAlso))

	vocabulary.Register(TermIsDefinedBy,
		vocabulary.WithDescription("Vocabulary that defines a term"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(RDFSIsDefinedBy))

	vocabulary.Register(TermSubClassOf,
		vocabulary.WithDescription("Superclass of a class term"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(RDFSSubClassOf))

	vocabulary.Register(TermSubPropertyOf,
		vocabulary.WithDescription("Superproperty of a property term"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(RDFSSubPropertyOf))
}
