package dataset

import (
	"mime"
	"path/filepath"
	"strings"
)

// Format is an RDF serialization, identified by its media type.
type Format string

// Supported serializations.
const (
	Turtle   Format = "text/turtle"
	N3       Format = "text/n3"
	RDFXML   Format = "application/rdf+xml"
	JSONLD   Format = "application/ld+json"
	NTriples Format = "application/n-triples"
	NQuads   Format = "application/n-quads"
)

// mediaTypes maps response content types to parsers. Some servers label
// Turtle as text/plain or application/x-turtle.
var mediaTypes = map[string]Format{
	"text/turtle":           Turtle,
	"application/x-turtle":  Turtle,
	"text/plain":            Turtle,
	"text/n3":               N3,
	"application/ld+json":   JSONLD,
	"application/rdf+xml":   RDFXML,
	"application/n-triples": NTriples,
	"application/n-quads":   NQuads,
}

var extensions = map[string]Format{
	".ttl":    Turtle,
	".turtle": Turtle,
	".n3":     N3,
	".rdf":    RDFXML,
	".owl":    RDFXML,
	".xml":    RDFXML,
	".jsonld": JSONLD,
	".json":   JSONLD,
	".nt":     NTriples,
	".nq":     NQuads,
}

// DefaultAcceptHeader lists every media type we can parse, Turtle first.
const DefaultAcceptHeader = "text/turtle, application/x-turtle, text/n3, application/ld+json, application/rdf+xml, application/n-triples;q=0.9, application/n-quads;q=0.9, text/plain;q=0.5"

// FormatForMediaType returns the format for a Content-Type value. Media
// type parameters (charset etc.) are ignored.
func FormatForMediaType(contentType string) (Format, bool) {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return "", false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	}
	f, ok := mediaTypes[mediaType]
	return f, ok
}

// FormatForPath returns the format implied by a file extension, defaulting
// to Turtle.
func FormatForPath(path string) Format {
	if f, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return f
	}
	return Turtle
}
