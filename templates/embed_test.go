package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{name: JavaPOM, want: JavaPOM, ok: true},
		{name: "java/rdf4j/../rdf4j/vocab.tmpl", want: JavaRDF4J, ok: true},
		{name: "solidCommonVocabDependent/java/rdf4j/vocab.hbs", want: JavaVocabTerm, ok: true},
		{name: "stringLiteral/javascript/vocab.hbs", want: JavaScriptVocab, ok: true},
		{name: ".gitignore.hbs", want: Gitignore, ok: true},
		{name: "java/rdf4j/missing.tmpl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEveryBuiltInTemplateParses(t *testing.T) {
	for _, name := range []string{
		JavaRDF4J, JavaVocabTerm, JavaPOM,
		JavaScriptVocab, JavaScriptPackage, JavaScriptIndex, JavaScriptWrapper, RollupConfig,
		Readme, Gitignore, InitialConfig,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(Embedded(name))
			require.NoError(t, err)
		})
	}
}

func TestLoadCustomTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.tmpl")
	require.NoError(t, os.WriteFile(path, []byte(`{{escapeJSON .}}`), 0644))

	tmpl, err := Load(path)
	require.NoError(t, err)

	var out strings.Builder
	require.NoError(t, tmpl.Execute(&out, "line\n\"quoted\""))
	assert.Equal(t, `line\n\"quoted\"`, out.String())

	_, err = Load(filepath.Join(t.TempDir(), "missing.tmpl"))
	assert.ErrorContains(t, err, "read template")
}

func TestEscapeForJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "tab\there", want: `tab\there`},
		{in: "", want: ""},
		{in: "line\n\"quoted\"", want: `line\n\"quoted\"`},
		{in: "<b>bold</b> & more", want: "<b>bold</b> & more"},
	}
	for _, tt := range tests {
		got, err := EscapeForJSON(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
