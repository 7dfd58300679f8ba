package dataset

import (
	"fmt"
	"strings"

	"github.com/cayleygraph/quad"

	"github.com/c360studio/artifactgen/vocabulary/commonterms"
)

// Value returns the lexical value of a term: the IRI, blank node label or
// literal string, without any N-Quads decoration.
func Value(v quad.Value) string {
	switch v := v.(type) {
	case nil:
		return ""
	case quad.IRI:
		return string(v)
	case quad.BNode:
		return string(v)
	case quad.String:
		return string(v)
	case quad.LangString:
		return string(v.Value)
	case quad.TypedString:
		return string(v.Value)
	default:
		return fmt.Sprint(v.Native())
	}
}

// Lang returns the language tag of a literal, or "".
func Lang(v quad.Value) string {
	if ls, ok := v.(quad.LangString); ok {
		return ls.Lang
	}
	return ""
}

// Datatype returns the datatype IRI of a literal, or "" for IRIs and blank
// nodes.
func Datatype(v quad.Value) string {
	switch v := v.(type) {
	case quad.String:
		return commonterms.XSDString
	case quad.LangString:
		return commonterms.RDFLangString
	case quad.TypedString:
		return string(v.Type)
	default:
		return ""
	}
}

// IsIRI reports whether v is an IRI.
func IsIRI(v quad.Value) bool {
	_, ok := v.(quad.IRI)
	return ok
}

// IsBlank reports whether v is a blank node.
func IsBlank(v quad.Value) bool {
	_, ok := v.(quad.BNode)
	return ok
}

// IsLiteral reports whether v is a literal of any kind.
func IsLiteral(v quad.Value) bool {
	return v != nil && !IsIRI(v) && !IsBlank(v)
}

// LangMatches reports whether a literal's language tag starts with prefix,
// case-insensitively. An empty prefix matches only untagged literals.
func LangMatches(v quad.Value, prefix string) bool {
	lang := strings.ToLower(Lang(v))
	if prefix == "" {
		return lang == ""
	}
	return strings.HasPrefix(lang, strings.ToLower(prefix))
}
