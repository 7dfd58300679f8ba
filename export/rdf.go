// Package export serializes datasets back to RDF, for local vocabulary
// copies and for dumping what the generator actually read.
package export

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"

	"github.com/c360studio/artifactgen/dataset"
	"github.com/c360studio/artifactgen/vocabulary/commonterms"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"
)

const rdfType = commonterms.RDFType

// defaultPrefixes returns the standard namespace prefixes for RDF export.
func defaultPrefixes() map[string]string {
	prefixes := make(map[string]string, len(commonterms.Prefixes))
	for k, v := range commonterms.Prefixes {
		prefixes[k] = v
	}
	return prefixes
}

// Exporter serializes a dataset. Extra prefixes (typically the vocabulary's
// own) are declared alongside the defaults.
type Exporter struct {
	prefixes map[string]string
}

// NewExporter creates an exporter with the default prefixes.
func NewExporter() *Exporter {
	return &Exporter{prefixes: make(map[string]string)}
}

// WithPrefix declares an additional prefix and returns the exporter.
func (e *Exporter) WithPrefix(prefix, iri string) *Exporter {
	if prefix != "" && iri != "" {
		e.prefixes[prefix] = iri
	}
	return e
}

// Export serializes d to the specified format.
func (e *Exporter) Export(d *dataset.Dataset, format Format) (string, error) {
	switch format {
	case FormatTurtle:
		return e.toTurtle(d), nil
	case FormatNTriples:
		return toNTriples(d)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

type subjectBlock struct {
	subject    quad.Value
	predicates []quad.Value
	objects    map[quad.Value][]quad.Value
}

// toTurtle groups quads by subject in first-seen order. Predicates are
// sorted with rdf:type first.
func (e *Exporter) toTurtle(d *dataset.Dataset) string {
	namespaces := defaultPrefixes()
	for k, v := range e.prefixes {
		namespaces[k] = v
	}
	w := newTurtle(namespaces)
	w.declare()

	var blocks []*subjectBlock
	index := make(map[quad.Value]*subjectBlock)
	for _, q := range d.Quads() {
		b, ok := index[q.Subject]
		if !ok {
			b = &subjectBlock{subject: q.Subject, objects: make(map[quad.Value][]quad.Value)}
			index[q.Subject] = b
			blocks = append(blocks, b)
		}
		if _, seen := b.objects[q.Predicate]; !seen {
			b.predicates = append(b.predicates, q.Predicate)
		}
		b.objects[q.Predicate] = append(b.objects[q.Predicate], q.Object)
	}

	for i, b := range blocks {
		sort.SliceStable(b.predicates, func(x, y int) bool {
			px, py := dataset.Value(b.predicates[x]), dataset.Value(b.predicates[y])
			if px == rdfType || py == rdfType {
				return px == rdfType && py != rdfType
			}
			return px < py
		})
		w.subject(b.subject)
		for j, p := range b.predicates {
			w.predicate(p, b.objects[p], j == len(b.predicates)-1)
		}
		if i < len(blocks)-1 {
			w.gap()
		}
	}
	return w.String()
}

func toNTriples(d *dataset.Dataset) (string, error) {
	var buf bytes.Buffer
	w := nquads.NewWriter(&buf)
	for _, q := range d.Quads() {
		q.Label = nil
		if err := w.WriteQuad(q); err != nil {
			return "", fmt.Errorf("failed to write N-Triples: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to write N-Triples: %w", err)
	}
	return buf.String(), nil
}
