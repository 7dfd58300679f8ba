// Package dataset provides the in-memory RDF dataset the generator works on.
//
// Quads are cayley quad values. Parsing covers Turtle, N3 and RDF/XML
// (via knakk/rdf), N-Triples and N-Quads (via cayley's nquads reader) and
// JSON-LD (via cayley's jsonld reader).
package dataset
