// Package templates holds the built-in text/template files used to render
// generated source code, packaging files and the initial configuration.
//
// Templates are referenced by their path inside the package (for example
// "java/rdf4j/vocab.tmpl"). The older Handlebars names used by existing
// vocab list files are accepted as aliases.
package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"text/template"

	"github.com/c360studio/artifactgen/vocab"
)

//go:embed java javascript *.tmpl
var FS embed.FS

// EmbeddedPrefix marks a resolved template reference as built-in.
const EmbeddedPrefix = "embedded:"

// Built-in template names.
const (
	JavaRDF4J         = "java/rdf4j/vocab.tmpl"
	JavaVocabTerm     = "java/rdf4j/vocabterm.tmpl"
	JavaPOM           = "java/pom.tmpl"
	JavaScriptVocab   = "javascript/vocab.tmpl"
	JavaScriptPackage = "javascript/package.tmpl"
	JavaScriptIndex   = "javascript/index.tmpl"
	JavaScriptWrapper = "javascript/wrapper.tmpl"
	RollupConfig      = "javascript/rollup.config.tmpl"
	Readme            = "README-package.tmpl"
	Gitignore         = "gitignore.tmpl"
	InitialConfig     = "initial-config.tmpl"
)

var aliases = map[string]string{
	"solidCommonVocabDependent/java/rdf4j/vocab.hbs": JavaVocabTerm,
	"rdfLibraryDependent/java/rdf4j/vocab.hbs":       JavaRDF4J,
	"java/rdf4j/vocab.hbs":                           JavaRDF4J,
	"stringLiteral/javascript/vocab.hbs":             JavaScriptVocab,
	"solidCommonVocabDependent/javascript/vocab.hbs": JavaScriptVocab,
	"stringLiteral/javascript/package.hbs":           JavaScriptPackage,
	"generic/javascript/index.hbs":                   JavaScriptIndex,
	"generic/javascript/wrapper.hbs":                 JavaScriptWrapper,
	"generic/javascript/rollup.config.hbs":           RollupConfig,
	"java/rdf4j/pom.hbs":                             JavaPOM,
	"solidCommonVocabDependent/java/rdf4j/pom.hbs":   JavaPOM,
	".gitignore.hbs":                                 Gitignore,
	"README-package.hbs":                             Readme,
	"initial-config.hbs":                             InitialConfig,
}

// Resolve maps an internal template name to the embedded file, returning
// false if there is no such template.
func Resolve(name string) (string, bool) {
	name = path.Clean(strings.ReplaceAll(name, "\\", "/"))
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	if _, err := fs.Stat(FS, name); err != nil {
		return "", false
	}
	return name, true
}

// Embedded returns the resolved reference of a built-in template.
func Embedded(name string) string {
	return EmbeddedPrefix + name
}

// Funcs returns the functions available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"escapeJava": vocab.EscapeForJava,
		"escapeJS":   vocab.EscapeForJavaScript,
		"escapeJSON": EscapeForJSON,
		"javaPrefix": func(prefix string) string { return strings.ReplaceAll(prefix, "-", "_") },
		"lower":      strings.ToLower,
		"upper":      strings.ToUpper,
		"join":       strings.Join,
	}
}

// EscapeForJSON encodes s for use inside a JSON string, without the
// surrounding quotes. HTML characters are left as they are.
func EscapeForJSON(s string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", fmt.Errorf("escape for JSON: %w", err)
	}
	b := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	return string(b[1 : len(b)-1]), nil
}

// Load parses a resolved template reference: an embedded template, or a
// path on disk.
func Load(ref string) (*template.Template, error) {
	var (
		data []byte
		err  error
	)
	if name, ok := strings.CutPrefix(ref, EmbeddedPrefix); ok {
		data, err = FS.ReadFile(name)
	} else {
		data, err = os.ReadFile(ref)
	}
	if err != nil {
		return nil, fmt.Errorf("read template [%s]: %w", ref, err)
	}

	tmpl, err := template.New(path.Base(ref)).
		Funcs(Funcs()).
		Option("missingkey=error").
		Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse template [%s]: %w", ref, err)
	}
	return tmpl, nil
}
