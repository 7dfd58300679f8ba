package vocab

import (
	"sort"
	"strings"

	"github.com/cayleygraph/quad"

	"github.com/c360studio/artifactgen/dataset"
)

// Literal is a label, comment or definition of a term in one language.
type Literal struct {
	Value                     string
	ValueEscapedForJava       string
	ValueEscapedForJavaScript string
	Language                  string
}

// Term is a single generated vocabulary term.
type Term struct {
	// Name is the local part of the term IRI.
	Name string

	// NameEscapedForLanguage is Name made into a valid identifier.
	NameEscapedForLanguage string

	// NameEscapedForJava additionally avoids Java keywords.
	NameEscapedForJava string

	// Comment is the single best description of the term.
	Comment string

	Labels      []Literal
	Comments    []Literal
	Definitions []Literal

	SeeAlsos     []string
	IsDefinedBys []string
	RDFTypes     []string

	// TermDescription summarises which translations the term provides.
	TermDescription string
}

// IsDefinedBy reports whether the term has any rdfs:isDefinedBy value.
func (t Term) IsDefinedBy() bool { return len(t.IsDefinedBys) > 0 }

// Definition returns the first definition, which is the value of a
// constant term.
func (t Term) Definition() string {
	if len(t.Definitions) == 0 {
		return ""
	}
	return t.Definitions[0].Value
}

var javaKeywords = map[string]bool{
	"boolean":    true,
	"float":      true,
	"double":     true,
	"byte":       true,
	"int":        true,
	"long":       true,
	"short":      true,
	"class":      true,
	"abstract":   true,
	"for":        true,
	"default":    true,
	"protected":  true,
	"import":     true,
	"implements": true,
	"extends":    true,
	"this":       true,
}

var identifierReplacer = strings.NewReplacer("-", "_", "/", "_", ".", "_")

// EscapeName makes a term's local name usable as an identifier: a leading
// digit gets an underscore prefix, and '-', '/' and '.' become '_'.
func EscapeName(name string) string {
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return identifierReplacer.Replace(name)
}

// EscapeNameForJava appends an underscore to escaped names that are Java
// keywords.
func EscapeNameForJava(escaped string) string {
	if javaKeywords[escaped] {
		return escaped + "_"
	}
	return escaped
}

var javaReplacer = strings.NewReplacer(
	`\`, `\\\\`,
	`"`, `\"`,
	"\n", "\\n\" +\n\"",
)

// EscapeForJava escapes a value for a Java string literal. Newlines split
// the literal into concatenated lines.
func EscapeForJava(value string) string {
	return javaReplacer.Replace(value)
}

// EscapeForJavaScript escapes a value for a JavaScript template literal.
func EscapeForJavaScript(value string) string {
	return strings.ReplaceAll(value, "`", "\\`")
}

// addLiteral appends the object of q unless lits already holds a value in
// the same language.
func addLiteral(lits []Literal, q quad.Quad) []Literal {
	lang := dataset.Lang(q.Object)
	for _, l := range lits {
		if l.Language == lang {
			return lits
		}
	}
	value := dataset.Value(q.Object)
	return append(lits, Literal{
		Value:                     value,
		ValueEscapedForJava:       EscapeForJava(value),
		ValueEscapedForJavaScript: EscapeForJavaScript(value),
		Language:                  lang,
	})
}

func lookupEnglishOrNoLanguage(lits []Literal) (Literal, bool) {
	for _, lang := range []string{"en", ""} {
		for _, l := range lits {
			if l.Language == lang {
				return l, true
			}
		}
	}
	return Literal{}, false
}

// bestComment picks the term's single description: an English or untagged
// comment, definition or label, in that order, else the first comment.
func bestComment(comments, definitions, labels []Literal) string {
	for _, lits := range [][]Literal{comments, definitions, labels} {
		if l, ok := lookupEnglishOrNoLanguage(lits); ok {
			return l.Value
		}
	}
	if len(comments) > 0 {
		return comments[0].Value
	}
	return ""
}

// sortByLanguage sorts lits in place and returns their language tags joined
// by ", ", with NoLocale for untagged values. It returns "" for no literals.
func sortByLanguage(lits []Literal) string {
	if len(lits) == 0 {
		return ""
	}
	sort.SliceStable(lits, func(i, j int) bool {
		return compareLang(lits[i].Language, lits[j].Language) < 0
	})
	tags := make([]string, len(lits))
	for i, l := range lits {
		if l.Language == "" {
			tags[i] = "NoLocale"
		} else {
			tags[i] = l.Language
		}
	}
	return strings.Join(tags, ", ")
}

func compareLang(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func isEnglishOrNoLocale(lang string) bool {
	return lang == "" || strings.HasPrefix(lang, "en")
}

func nonEnglishLanguages(lits []Literal) string {
	var tags []string
	for _, l := range lits {
		if !isEnglishOrNoLocale(l.Language) {
			tags = append(tags, l.Language)
		}
	}
	return strings.Join(tags, ", ")
}

func countEnglishOrNoLocale(lits []Literal) int {
	n := 0
	for _, l := range lits {
		if isEnglishOrNoLocale(l.Language) {
			n++
		}
	}
	return n
}

func plural(n int, s string) string {
	if n == 1 {
		return ""
	}
	return s
}
