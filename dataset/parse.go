package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/jsonld"
	"github.com/cayleygraph/quad/nquads"
	"github.com/knakk/rdf"

	"github.com/c360studio/artifactgen/vocabulary/commonterms"
)

type quadReader interface {
	ReadQuad() (quad.Quad, error)
}

// Parse reads r as the given format. name identifies the resource in errors.
func Parse(r io.Reader, format Format, name string) (*Dataset, error) {
	switch format {
	case Turtle, N3:
		return decodeTriples(rdf.NewTripleDecoder(r, rdf.Turtle), name)
	case RDFXML:
		return decodeTriples(rdf.NewTripleDecoder(r, rdf.RDFXML), name)
	case NTriples, NQuads:
		return readQuads(nquads.NewReader(r, true), name)
	case JSONLD:
		return readQuads(jsonld.NewReader(r), name)
	default:
		return nil, fmt.Errorf("unsupported RDF format [%s] for resource [%s]", format, name)
	}
}

// ParseFile reads a local file, choosing the parser from its extension.
func ParseFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open resource [%s]: %w", path, err)
	}
	defer f.Close()
	return Parse(f, FormatForPath(path), path)
}

// ParseString is a convenience for inline Turtle and tests.
func ParseString(content string, format Format) (*Dataset, error) {
	return Parse(strings.NewReader(content), format, "<inline>")
}

func decodeTriples(dec rdf.TripleDecoder, name string) (*Dataset, error) {
	d := New()
	for {
		t, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			return d, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse resource [%s]: %w", name, err)
		}
		d.AddTriple(fromRDFTerm(t.Subj), fromRDFTerm(t.Pred), fromRDFTerm(t.Obj))
	}
}

func readQuads(r quadReader, name string) (*Dataset, error) {
	d := New()
	for {
		q, err := r.ReadQuad()
		if errors.Is(err, io.EOF) {
			return d, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse resource [%s]: %w", name, err)
		}
		d.Add(q)
	}
}

func fromRDFTerm(t rdf.Term) quad.Value {
	switch v := t.(type) {
	case rdf.IRI:
		return quad.IRI(v.String())
	case rdf.Blank:
		return quad.BNode(strings.TrimPrefix(v.String(), "_:"))
	case rdf.Literal:
		if lang := v.Lang(); lang != "" {
			return quad.LangString{Value: quad.String(v.String()), Lang: lang}
		}
		dt := v.DataType.String()
		if dt == "" || dt == commonterms.XSDString {
			return quad.String(v.String())
		}
		return quad.TypedString{Value: quad.String(v.String()), Type: quad.IRI(dt)}
	default:
		return quad.String(t.String())
	}
}
