package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/cayleygraph/quad"

	"github.com/c360studio/artifactgen/dataset"
	"github.com/c360studio/artifactgen/export"
	"github.com/c360studio/artifactgen/source/iri"
)

const localCopySeparator = "__"

// LocalCopyFileName returns the name a stored copy of a vocabulary gets:
// <vocabName>-<content hash>__<mangled namespace>.ttl.
func LocalCopyFileName(vocabName, namespaceIRI string, d *dataset.Dataset) string {
	return vocabName + "-" + strconv.FormatInt(int64(DatasetHash(d)), 10) +
		localCopySeparator + iri.Mangle(namespaceIRI) + ".ttl"
}

// StoreLocalCopy writes d as Turtle into dir, unless an identical copy is
// already there. It returns the path of the copy.
func StoreLocalCopy(dir, vocabName, namespaceIRI string, d *dataset.Dataset) (string, error) {
	path := filepath.Join(dir, LocalCopyFileName(vocabName, namespaceIRI, d))
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create local copy directory [%s]: %w", dir, err)
	}

	turtle, err := export.NewExporter().WithPrefix(vocabName, namespaceIRI).Export(d, export.FormatTurtle)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(turtle), 0644); err != nil {
		return "", fmt.Errorf("failed to write local copy of vocabulary [%s]: %w", path, err)
	}
	return path, nil
}

// ReadLocalCopy loads the stored copy of resource from dir. When no copy
// can be found, cause (the error that sent us looking) is returned.
func ReadLocalCopy(dir, resource string, cause error) (*dataset.Dataset, error) {
	if cause == nil {
		cause = fmt.Errorf("no local copy requested for resource [%s]", resource)
	}
	if dir == "" {
		return nil, cause
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, cause
	}

	suffix := localCopySeparator + iri.Mangle(resource)
	if !strings.HasSuffix(suffix, ".ttl") {
		suffix += ".ttl"
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		d, err := dataset.ParseFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, errors.Join(cause, err)
		}
		return d, nil
	}
	return nil, cause
}

// QuadStringIgnoringBNodes concatenates the subject, predicate and object
// values of q. Blank nodes all read as "BNode", so re-parsing a vocabulary
// (which relabels its blank nodes) gives the same string.
func QuadStringIgnoringBNodes(q quad.Quad) string {
	return termStringIgnoringBNodes(q.Subject) + termStringIgnoringBNodes(q.Predicate) + termStringIgnoringBNodes(q.Object)
}

func termStringIgnoringBNodes(v quad.Value) string {
	if dataset.IsBlank(v) {
		return "BNode"
	}
	return dataset.Value(v)
}

// DatasetHash hashes the sorted quad strings of d.
func DatasetHash(d *dataset.Dataset) int32 {
	quads := d.Quads()
	lines := make([]string, len(quads))
	for i, q := range quads {
		lines[i] = QuadStringIgnoringBNodes(q)
	}
	sort.Strings(lines)
	return SimpleStringHash(strings.Join(lines, ""))
}

// SimpleStringHash is the 32-bit h = 31*h + c string hash over UTF-16 code
// units, matching the hashes already embedded in stored file names.
func SimpleStringHash(s string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = 31*h + int32(c)
	}
	return h
}
