// Package commonterms holds the well-known RDF namespaces and term IRIs the
// artifact generator reads from source vocabularies.
//
// # Semstreams Integration
//
// The predicates the generator interprets are registered with the semstreams
// vocabulary registry on import, using dotted notation (vocab.term.label) and
// an IRI mapping back to the standard term:
//
//	import "github.com/c360studio/artifactgen/vocabulary/commonterms"
//
//	iri := commonterms.PredicateIRI(commonterms.TermLabel) // rdfs:label
//
// The namespaces are also registered as cayley voc prefixes, so shortened
// IRIs (rdfs:label, skos:definition) are available for logs and Turtle output.
package commonterms
