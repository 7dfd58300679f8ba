package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cayleygraph/quad"

	"github.com/c360studio/artifactgen/dataset"
)

// Serialization is how an export format lands on disk: the file extension
// of local copies and dumps, and the media type dataset reads it back with.
type Serialization struct {
	Format    Format
	MediaType dataset.Format
	Extension string
}

var serializations = map[Format]Serialization{
	FormatTurtle:   {Format: FormatTurtle, MediaType: dataset.Turtle, Extension: ".ttl"},
	FormatNTriples: {Format: FormatNTriples, MediaType: dataset.NTriples, Extension: ".nt"},
}

// SerializationOf reports the serialization of format, and false for
// formats the exporter cannot write.
func SerializationOf(format Format) (Serialization, bool) {
	s, ok := serializations[format]
	return s, ok
}

// turtle accumulates a Turtle document one subject block at a time.
type turtle struct {
	namespaces map[string]string
	out        strings.Builder
}

func newTurtle(namespaces map[string]string) *turtle {
	return &turtle{namespaces: namespaces}
}

// declare writes one @prefix line per namespace, sorted by prefix.
func (t *turtle) declare() {
	prefixes := make([]string, 0, len(t.namespaces))
	for prefix := range t.namespaces {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)

	for _, prefix := range prefixes {
		fmt.Fprintf(&t.out, "@prefix %s: %s .\n", prefix, iriRef(t.namespaces[prefix]))
	}
	t.out.WriteString("\n")
}

func (t *turtle) subject(s quad.Value) {
	t.out.WriteString(t.term(s))
	t.out.WriteString("\n")
}

// predicate writes one predicate line. The subject's last line closes the
// statement with " .".
func (t *turtle) predicate(p quad.Value, objects []quad.Value, closes bool) {
	verb := t.term(p)
	if dataset.Value(p) == rdfType {
		verb = "a"
	}
	rendered := make([]string, len(objects))
	for i, o := range objects {
		rendered[i] = t.term(o)
	}
	end := " ;"
	if closes {
		end = " ."
	}
	fmt.Fprintf(&t.out, "    %s %s%s\n", verb, strings.Join(rendered, ", "), end)
}

func (t *turtle) gap() {
	t.out.WriteString("\n")
}

func (t *turtle) String() string {
	return t.out.String()
}

func (t *turtle) term(v quad.Value) string {
	switch v := v.(type) {
	case quad.IRI:
		return t.iri(string(v))
	case quad.BNode:
		return "_:" + string(v)
	case quad.String:
		return quoteLiteral(string(v))
	case quad.LangString:
		return quoteLiteral(string(v.Value)) + "@" + v.Lang
	case quad.TypedString:
		return quoteLiteral(string(v.Value)) + "^^" + t.iri(string(v.Type))
	default:
		return quoteLiteral(dataset.Value(v))
	}
}

// iri shortens iri with the longest declared namespace whose remainder is a
// plain local name, and writes it in full otherwise.
func (t *turtle) iri(iri string) string {
	best, bestNS := "", ""
	for prefix, ns := range t.namespaces {
		local, ok := strings.CutPrefix(iri, ns)
		if !ok || !isSimpleLocalName(local) {
			continue
		}
		if best == "" || len(ns) > len(bestNS) || (len(ns) == len(bestNS) && prefix < best) {
			best, bestNS = prefix, ns
		}
	}
	if best == "" {
		return iriRef(iri)
	}
	return best + ":" + strings.TrimPrefix(iri, bestNS)
}

// iriRef writes iri between angle brackets. Characters an IRIREF cannot
// hold are written as \u escapes.
func iriRef(iri string) string {
	var b strings.Builder
	b.Grow(len(iri) + 2)
	b.WriteByte('<')
	for _, r := range iri {
		if r <= 0x20 || strings.ContainsRune("<>\"{}|^`\\", r) {
			fmt.Fprintf(&b, `\u%04X`, r)
			continue
		}
		b.WriteRune(r)
	}
	b.WriteByte('>')
	return b.String()
}

func isSimpleLocalName(s string) bool {
	if s == "" || s[0] == '-' {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

func quoteLiteral(s string) string {
	return `"` + literalEscaper.Replace(s) + `"`
}

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)
