package generator

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/c360studio/artifactgen/config"
	"github.com/c360studio/artifactgen/source"
)

const petTurtle = `@prefix rdf:     <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .
@prefix rdfs:    <http://www.w3.org/2000/01/rdf-schema#> .
@prefix owl:     <http://www.w3.org/2002/07/owl#> .
@prefix dcterms: <http://purl.org/dc/terms/> .
@prefix vann:    <http://purl.org/vocab/vann/> .
@prefix pet:     <https://example.com/pet#> .

<https://example.com/pet#> a owl:Ontology ;
    dcterms:title "Pet vocabulary"@en ;
    dcterms:description "Terms for <b>describing</b> pets."@en ;
    dcterms:creator "Jane Doe" ;
    vann:preferredNamespaceUri "https://example.com/pet#" ;
    vann:preferredNamespacePrefix "pet" .

pet:Dog a rdfs:Class ;
    rdfs:label "Dog"@en ;
    rdfs:comment "A domestic dog."@en .

pet:name a rdf:Property ;
    rdfs:label "name" ;
    rdfs:comment "The name of the pet." .
`

const plantTurtle = `@prefix rdfs:    <http://www.w3.org/2000/01/rdf-schema#> .
@prefix owl:     <http://www.w3.org/2002/07/owl#> .
@prefix dcterms: <http://purl.org/dc/terms/> .
@prefix vann:    <http://purl.org/vocab/vann/> .
@prefix plant:   <https://example.com/plant#> .

<https://example.com/plant#> a owl:Ontology ;
    dcterms:description "Terms for plants."@en ;
    dcterms:creator "John Roe", "Jane Doe" ;
    vann:preferredNamespaceUri "https://example.com/plant#" ;
    vann:preferredNamespacePrefix "plant" .

plant:Tree a rdfs:Class ;
    rdfs:label "Tree"@en .
`

var fixedNow = func() time.Time { return time.Date(2020, time.March, 4, 15, 7, 0, 0, time.UTC) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newReader() *source.Reader {
	return source.NewReader(source.NewFetcher(5*time.Second, "artifactgen-test", 1<<20), source.WithLogger(discardLogger()))
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

// commandLineConfig configures a JavaScript artifact for a local pet
// vocabulary.
func commandLineConfig(t *testing.T) *config.Configuration {
	t.Helper()
	input := writeFile(t, filepath.Join(t.TempDir(), "pet.ttl"), petTurtle)
	cfg, err := config.FromCommandLine(config.CommandLine{
		InputResources:          []string{input},
		ArtifactVersion:         "1.2.3",
		SolidCommonVocabVersion: "^0.5.3",
	})
	require.NoError(t, err)
	return cfg
}

func serveTurtle(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/turtle")
		w.Header().Set("Last-Modified", time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC).Format(http.TimeFormat))
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}
