package bestpractice_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/c360studio/artifactgen/bestpractice"
	"github.com/c360studio/artifactgen/vocab"
)

const ns = "https://example.com/ns#"

func term(name string, definedBy ...string) vocab.Term {
	return vocab.Term{Name: name, IsDefinedBys: definedBy}
}

func TestNamespaceReport(t *testing.T) {
	tests := []struct {
		name string
		in   vocab.TemplateInput
		want string
	}{
		{
			name: "override",
			in:   vocab.TemplateInput{LocalNamespaceIRI: ns, NamespaceIRI: "https://other.org/", NamespaceIRIOverride: "https://other.org/"},
			want: "Local namespace IRI [https://example.com/ns#] was specifically overridden with [https://other.org/] " +
				"(either it wasn't explicitly stated by the vocab itself via VANN, or SHACL predicates. or there were " +
				"multiple ontologies in the input, or it couldn't be correctly determined heuristically).",
		},
		{
			name: "matches",
			in:   vocab.TemplateInput{LocalNamespaceIRI: ns, NamespaceIRI: ns},
			want: "Namespace IRI [https://example.com/ns#] matches the vocab Subject IRI too.",
		},
		{
			name: "heuristic",
			in:   vocab.TemplateInput{},
			want: "Namespace IRI [] has to be determined by heuristic (instead of being explicitly stated by the vocab " +
				"itself via VANN, or SHACL predicates).",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bestpractice.Build(&tt.in).BP0)
		})
	}
}

func TestIsDefinedByCoverage(t *testing.T) {
	var many []vocab.Term
	for i := range 7 {
		many = append(many, term(fmt.Sprintf("t%d", i)))
	}
	many = append(many, term("defined", ns))

	tests := []struct {
		name       string
		classes    []vocab.Term
		properties []vocab.Term
		want       string
	}{
		{
			name:    "none",
			classes: []vocab.Term{term("A")},
			want:    "None of the [1] terms have any 'rdfs:isDefinedBy' triples.",
		},
		{
			name:       "all",
			classes:    []vocab.Term{term("A", ns)},
			properties: []vocab.Term{term("b", ns)},
			want:       "All [2] terms have 'rdfs:isDefinedBy' triples.",
		},
		{
			name:       "some",
			classes:    []vocab.Term{term("A", ns)},
			properties: []vocab.Term{term("b"), term("c")},
			want:       "Only [1] terms have 'rdfs:isDefinedBy' triples, of [3]. Missing [2]: [b, c].",
		},
		{
			name:    "truncated",
			classes: many,
			want: "Only [1] terms have 'rdfs:isDefinedBy' triples, of [8]. Missing [7] (but only displaying the " +
				"first 5): [t0, t1, t2, t3, t4].",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := bestpractice.Build(&vocab.TemplateInput{NamespaceIRI: ns, Classes: tt.classes, Properties: tt.properties})
			assert.Equal(t, tt.want, r.BP1)
		})
	}
}

func TestIsDefinedByTargets(t *testing.T) {
	tests := []struct {
		name  string
		terms []vocab.Term
		want  string
	}{
		{
			name:  "not applicable",
			terms: []vocab.Term{term("A")},
			want:  "Not applicable - as none of our [1] terms have 'rdfs:isDefinedBy' triples.",
		},
		{
			name:  "all namespace",
			terms: []vocab.Term{term("A", ns), term("b", ns), term("c")},
			want: "All [2] terms that have 'rdfs:isDefinedBy' triples (of the [3] total terms) are defined by the " +
				"vocab namespace IRI of [https://example.com/ns#].",
		},
		{
			name:  "stripped namespace",
			terms: []vocab.Term{term("A", "https://example.com/ns"), term("b", "https://example.com/ns")},
			want: "None of the [2] terms that have 'rdfs:isDefinedBy' triples (of the [2] total terms) are defined by " +
				"the vocab namespace IRI of [https://example.com/ns#]. But [2] terms match the stripped namespace IRI " +
				"of [https://example.com/ns]...",
		},
		{
			name:  "one other IRI",
			terms: []vocab.Term{term("A", "https://other.org/"), term("b", "https://other.org/")},
			want: "None of the [2] terms that have 'rdfs:isDefinedBy' triples (of the [2] total terms) are defined by " +
				"the vocab namespace IRI of [https://example.com/ns#]. But all [2] terms with 'rdfs:isDefinedBy' do " +
				"reference just one other, non-vocab-namespace IRI of [https://other.org/].",
		},
		{
			name:  "several other IRIs",
			terms: []vocab.Term{term("A", ns), term("b", "https://one.org/"), term("c", "https://two.org/")},
			want: "Only [1] terms of the total [3] that have 'rdfs:isDefinedBy' triples (of the [3] total terms) are " +
				"defined by the vocab namespace IRI of [https://example.com/ns#]. But [2] terms with " +
				"'rdfs:isDefinedBy' did reference [2] other IRIs: [https://one.org/, https://two.org/].",
		},
		{
			name:  "all other IRIs",
			terms: []vocab.Term{term("A", "https://one.org/"), term("b", "https://two.org/")},
			want: "None of the [2] terms that have 'rdfs:isDefinedBy' triples (of the [2] total terms) are defined by " +
				"the vocab namespace IRI of [https://example.com/ns#]. But all [2] terms with 'rdfs:isDefinedBy' did " +
				"reference [2] other IRIs: [https://one.org/, https://two.org/].",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := bestpractice.Build(&vocab.TemplateInput{NamespaceIRI: ns, Properties: tt.terms})
			assert.Equal(t, tt.want, r.BP2)
			assert.Len(t, r.Lines(), 3)
		})
	}
}
