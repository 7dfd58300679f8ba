package dataset

import (
	"github.com/cayleygraph/quad"

	"github.com/c360studio/artifactgen/vocabulary/commonterms"
)

// Dataset is an ordered set of quads. Duplicate quads (same subject,
// predicate and object) are stored once; graph labels are ignored for
// identity.
type Dataset struct {
	quads []quad.Quad
	index map[string]struct{}
}

// New returns a dataset holding the given quads.
func New(quads ...quad.Quad) *Dataset {
	d := &Dataset{index: make(map[string]struct{})}
	for _, q := range quads {
		d.Add(q)
	}
	return d
}

func quadKey(q quad.Quad) string {
	return termKey(q.Subject) + " " + termKey(q.Predicate) + " " + termKey(q.Object)
}

func termKey(v quad.Value) string {
	if v == nil {
		return ""
	}
	return v.String()
}

// Add inserts q and reports whether it was new.
func (d *Dataset) Add(q quad.Quad) bool {
	if d.index == nil {
		d.index = make(map[string]struct{})
	}
	key := quadKey(q)
	if _, ok := d.index[key]; ok {
		return false
	}
	d.index[key] = struct{}{}
	d.quads = append(d.quads, q)
	return true
}

// AddTriple inserts a quad in the default graph.
func (d *Dataset) AddTriple(subject, predicate, object quad.Value) bool {
	return d.Add(quad.Quad{Subject: subject, Predicate: predicate, Object: object})
}

// AddAll inserts every quad of other.
func (d *Dataset) AddAll(other *Dataset) {
	if other == nil {
		return
	}
	for _, q := range other.quads {
		d.Add(q)
	}
}

// Merge returns a new dataset with the quads of all the given datasets.
func Merge(datasets ...*Dataset) *Dataset {
	merged := New()
	for _, d := range datasets {
		merged.AddAll(d)
	}
	return merged
}

// Len returns the number of quads.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.quads)
}

// Quads returns a copy of the quads in insertion order.
func (d *Dataset) Quads() []quad.Quad {
	if d == nil {
		return nil
	}
	out := make([]quad.Quad, len(d.quads))
	copy(out, d.quads)
	return out
}

// Match returns the quads matching the pattern. A nil term matches anything.
func (d *Dataset) Match(subject, predicate, object quad.Value) []quad.Quad {
	if d == nil {
		return nil
	}
	var out []quad.Quad
	for _, q := range d.quads {
		if subject != nil && q.Subject != subject {
			continue
		}
		if predicate != nil && q.Predicate != predicate {
			continue
		}
		if object != nil && q.Object != object {
			continue
		}
		out = append(out, q)
	}
	return out
}

// Objects returns the objects of subject's predicate triples, in order.
func (d *Dataset) Objects(subject quad.Value, predicate string) []quad.Value {
	matches := d.Match(subject, quad.IRI(predicate), nil)
	out := make([]quad.Value, 0, len(matches))
	for _, q := range matches {
		out = append(out, q.Object)
	}
	return out
}

// HasType reports whether subject has an rdf:type among types.
func (d *Dataset) HasType(subject quad.Value, types ...string) bool {
	for _, t := range types {
		if len(d.Match(subject, quad.IRI(commonterms.RDFType), quad.IRI(t))) > 0 {
			return true
		}
	}
	return false
}

// IsSubjectOf reports whether subject appears with predicate at all.
func (d *Dataset) IsSubjectOf(subject quad.Value, predicate string) bool {
	return len(d.Match(subject, quad.IRI(predicate), nil)) > 0
}

// SubjectsOfType returns the unique subjects with the given rdf:type.
func (d *Dataset) SubjectsOfType(typeIRI string) []quad.Value {
	return uniqueSubjects(d.Match(nil, quad.IRI(commonterms.RDFType), quad.IRI(typeIRI)))
}

// Subjects returns the unique subjects in insertion order. The owl:Ontology
// IRI itself is never treated as a subject.
func (d *Dataset) Subjects() []quad.Value {
	if d == nil {
		return nil
	}
	return uniqueSubjects(d.quads)
}

func uniqueSubjects(quads []quad.Quad) []quad.Value {
	seen := make(map[string]struct{})
	var out []quad.Value
	for _, q := range quads {
		if v, ok := q.Subject.(quad.IRI); ok && string(v) == commonterms.OWLOntology {
			continue
		}
		key := termKey(q.Subject)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, q.Subject)
	}
	return out
}
