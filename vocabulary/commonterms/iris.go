package commonterms

import (
	"strings"

	"github.com/cayleygraph/quad/voc/owl"
	"github.com/cayleygraph/quad/voc/rdf"
	"github.com/cayleygraph/quad/voc/rdfs"
)

// Namespace IRIs.
const (
	RDF               = rdf.NS
	RDFS              = rdfs.NS
	OWL               = owl.NS
	XSD               = "http://www.w3.org/2001/XMLSchema#"
	DCTerms           = "http://purl.org/dc/terms/"
	DCElements        = "http://purl.org/dc/elements/1.1/"
	SKOS              = "http://www.w3.org/2004/02/skos/core#"
	SKOSXL            = "http://www.w3.org/2008/05/skos-xl#"
	VANN              = "http://purl.org/vocab/vann/"
	SHACL             = "http://www.w3.org/ns/shacl#"
	Schema            = "https://schema.org/"
	ArtifactGenerator = "https://inrupt.com/vocab/tool/artifact_generator/"
	BestPractice      = "https://w3id.org/inrupt/vocab/bestPractice/"
)

// RDF and RDFS terms.
const (
	RDFType       = RDF + "type"
	RDFProperty   = RDF + "Property"
	RDFList       = RDF + "List"
	RDFLangString = RDF + "langString"

	RDFSClass         = RDFS + "Class"
	RDFSResource      = RDFS + "Resource"
	RDFSDatatype      = RDFS + "Datatype"
	RDFSLiteral       = RDFS + "Literal"
	RDFSLabel         = RDFS + "label"
	RDFSComment       = RDFS + "comment"
	RDFSSubClassOf    = RDFS + "subClassOf"
	RDFSSubPropertyOf = RDFS + "subPropertyOf"
	RDFSSeeAlso       = RDFS + "seeAlso"
	RDFSIsDefinedBy   = RDFS + "isDefinedBy"
)

// OWL terms.
const (
	OWLOntology           = OWL + "Ontology"
	OWLClass              = OWL + "Class"
	OWLObjectProperty     = OWL + "ObjectProperty"
	OWLDatatypeProperty   = OWL + "DatatypeProperty"
	OWLAnnotationProperty = OWL + "AnnotationProperty"
	OWLNamedIndividual    = OWL + "NamedIndividual"
)

// XSDString is the datatype of plain literals.
const XSDString = XSD + "string"

// Dublin Core terms.
const (
	DCTermsTitle       = DCTerms + "title"
	DCTermsDescription = DCTerms + "description"
	DCTermsCreator     = DCTerms + "creator"
	DCElementsTitle    = DCElements + "title"
)

// SKOS and SKOS-XL terms.
const (
	SKOSConcept       = SKOS + "Concept"
	SKOSDefinition    = SKOS + "definition"
	SKOSXLLabel       = SKOSXL + "Label"
	SKOSXLLiteralForm = SKOSXL + "literalForm"
)

// VANN and SHACL terms used to declare a vocabulary namespace.
const (
	VANNPreferredNamespaceURI    = VANN + "preferredNamespaceUri"
	VANNPreferredNamespacePrefix = VANN + "preferredNamespacePrefix"

	SHACLDeclare   = SHACL + "declare"
	SHACLNamespace = SHACL + "namespace"
	SHACLPrefix    = SHACL + "prefix"
)

// schema.org terms.
const (
	SchemaAlternateName     = Schema + "alternateName"
	SchemaPaymentStatusType = Schema + "PaymentStatusType"
)

// Generator-specific term types. Terms of these types are emitted as
// constants whose value comes from their single skos:definition.
const (
	ConstantString = ArtifactGenerator + "ConstantString"
	ConstantIri    = ArtifactGenerator + "ConstantIri"
)

// ClassTypes are the rdf:type values that make a subject a class.
var ClassTypes = []string{RDFSClass, OWLClass, SKOSConcept, SchemaPaymentStatusType}

// PropertyTypes are the rdf:type values that make a subject a property.
var PropertyTypes = []string{
	RDFSResource,
	RDFProperty,
	RDFList,
	RDFSDatatype,
	OWLObjectProperty,
	OWLNamedIndividual,
	OWLAnnotationProperty,
	OWLDatatypeProperty,
	SKOSXLLabel,
}

// ReservedNamespaces hold terms a vocabulary may reference without them
// being treated as stray non-vocabulary terms.
var ReservedNamespaces = []string{RDF, RDFS, OWL, XSD}

type knownDomain struct {
	namespace string
	prefix    string
}

// knownDomains is scanned in order and the last match wins.
var knownDomains = []knownDomain{
	{"http://xmlns.com/foaf/0.1", "foaf"},
	{"http://www.w3.org/1999/02/22-rdf-syntax-ns", "rdf"},
	{"http://www.w3.org/2000/01/rdf-schema", "rdfs"},
	{"http://www.w3.org/2006/vcard/ns", "vcard"},
	{"https://schema.org", "schema"},
	{"http://schema.org", "schema"},
	{"http://www.w3.org/2002/07/owl", "owl"},
	{"http://rdf-extension.com#", "rdf-ext"},
}

// LookupKnownPrefix returns the conventional prefix for namespaceIRI when
// it belongs to one of a handful of well-known vocabularies.
func LookupKnownPrefix(namespaceIRI string) (string, bool) {
	prefix := ""
	for _, d := range knownDomains {
		if strings.HasPrefix(namespaceIRI, d.namespace) {
			prefix = d.prefix
		}
	}
	return prefix, prefix != ""
}

// IsReserved reports whether iri lives in one of the core RDF namespaces.
func IsReserved(iri string) bool {
	for _, ns := range ReservedNamespaces {
		if strings.HasPrefix(iri, ns) {
			return true
		}
	}
	return false
}
