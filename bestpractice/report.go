// Package bestpractice reports how well a vocabulary follows the
// publication guidelines the generator checks: an explicit namespace, and
// rdfs:isDefinedBy on every term pointing back at it.
package bestpractice

import (
	"fmt"
	"slices"
	"strings"

	"github.com/c360studio/artifactgen/vocab"
)

// DisplayTermLimit caps how many missing terms a report lists.
const DisplayTermLimit = 5

// Report is the compliance report of one vocabulary.
type Report struct {
	TotalTermCount int

	// BP0 describes how the namespace IRI was determined.
	BP0 string

	// BP1 covers how many terms have rdfs:isDefinedBy.
	BP1 string

	// BP2 covers what those rdfs:isDefinedBy values point at.
	BP2 string

	TermsWithIsDefinedBy []vocab.Term
}

// Build computes the report for in. Only classes and properties count.
func Build(in *vocab.TemplateInput) *Report {
	r := &Report{TotalTermCount: len(in.Classes) + len(in.Properties)}

	terms := make([]vocab.Term, 0, r.TotalTermCount)
	terms = append(terms, in.Classes...)
	terms = append(terms, in.Properties...)
	for _, t := range terms {
		if t.IsDefinedBy() {
			r.TermsWithIsDefinedBy = append(r.TermsWithIsDefinedBy, t)
		}
	}

	r.BP0 = namespaceReport(in)
	r.BP1 = isDefinedByCoverage(r, terms)
	r.BP2 = isDefinedByTargets(r, in.NamespaceIRI)
	return r
}

// Lines returns the three findings in order.
func (r *Report) Lines() []string {
	return []string{r.BP0, r.BP1, r.BP2}
}

func namespaceReport(in *vocab.TemplateInput) string {
	switch {
	case in.NamespaceIRIOverride != "":
		return fmt.Sprintf("Local namespace IRI [%s] was specifically overridden with [%s] (either it wasn't explicitly "+
			"stated by the vocab itself via VANN, or SHACL predicates. or there were multiple ontologies in the input, "+
			"or it couldn't be correctly determined heuristically).", in.LocalNamespaceIRI, in.NamespaceIRIOverride)
	case in.NamespaceIRI != "" && in.NamespaceIRI == in.LocalNamespaceIRI:
		return fmt.Sprintf("Namespace IRI [%s] matches the vocab Subject IRI too.", in.NamespaceIRI)
	default:
		return fmt.Sprintf("Namespace IRI [%s] has to be determined by heuristic (instead of being explicitly stated "+
			"by the vocab itself via VANN, or SHACL predicates).", in.NamespaceIRI)
	}
}

func isDefinedByCoverage(r *Report, terms []vocab.Term) string {
	withCount := len(r.TermsWithIsDefinedBy)
	switch withCount {
	case 0:
		return fmt.Sprintf("None of the [%d] terms have any 'rdfs:isDefinedBy' triples.", r.TotalTermCount)
	case r.TotalTermCount:
		return fmt.Sprintf("All [%d] terms have 'rdfs:isDefinedBy' triples.", r.TotalTermCount)
	}

	report := fmt.Sprintf("Only [%d] terms have 'rdfs:isDefinedBy' triples, of [%d].", withCount, r.TotalTermCount)

	var missing []string
	for _, t := range terms {
		if !t.IsDefinedBy() {
			missing = append(missing, t.Name)
		}
	}
	if len(missing) > DisplayTermLimit {
		return report + fmt.Sprintf(" Missing [%d] (but only displaying the first %d): [%s].",
			len(missing), DisplayTermLimit, strings.Join(missing[:DisplayTermLimit], ", "))
	}
	return report + fmt.Sprintf(" Missing [%d]: [%s].", len(missing), strings.Join(missing, ", "))
}

func isDefinedByTargets(r *Report, namespaceIRI string) string {
	with := r.TermsWithIsDefinedBy
	if len(with) == 0 {
		return fmt.Sprintf("Not applicable - as none of our [%d] terms have 'rdfs:isDefinedBy' triples.", r.TotalTermCount)
	}

	matching := definedBy(with, namespaceIRI)
	if len(matching) == len(with) {
		return fmt.Sprintf("All [%d] terms that have 'rdfs:isDefinedBy' triples (of the [%d] total terms) are defined "+
			"by the vocab namespace IRI of [%s].", len(with), r.TotalTermCount, namespaceIRI)
	}

	var report string
	if len(matching) == 0 {
		report = fmt.Sprintf("None of the [%d] terms that have 'rdfs:isDefinedBy' triples (of the [%d] total terms) "+
			"are defined by the vocab namespace IRI of [%s].", len(with), r.TotalTermCount, namespaceIRI)
	} else {
		report = fmt.Sprintf("Only [%d] terms of the total [%d] that have 'rdfs:isDefinedBy' triples (of the [%d] total "+
			"terms) are defined by the vocab namespace IRI of [%s].", len(matching), len(with), r.TotalTermCount, namespaceIRI)
	}

	stripped := stripLast(namespaceIRI)
	if n := len(definedBy(with, stripped)); n > 0 {
		report += fmt.Sprintf(" But [%d] terms match the stripped namespace IRI of [%s]...", n, stripped)
	}

	others, otherIRIs := definedByOther(with, namespaceIRI, stripped)
	switch {
	case len(otherIRIs) == 1 && len(others) == len(with):
		report += fmt.Sprintf(" But all [%d] terms with 'rdfs:isDefinedBy' do reference just one other, "+
			"non-vocab-namespace IRI of [%s].", len(with), otherIRIs[0])
	case len(otherIRIs) > 0:
		all := ""
		if len(others) == len(with) {
			all = "all "
		}
		report += fmt.Sprintf(" But %s[%d] terms with 'rdfs:isDefinedBy' did reference [%d] other IRIs: [%s].",
			all, len(others), len(otherIRIs), strings.Join(otherIRIs, ", "))
	}
	return report
}

// stripLast drops the trailing separator of a namespace IRI.
func stripLast(s string) string {
	if s == "" {
		return s
	}
	return s[:len(s)-1]
}

func definedBy(terms []vocab.Term, iri string) []vocab.Term {
	var out []vocab.Term
	for _, t := range terms {
		if slices.Contains(t.IsDefinedBys, iri) {
			out = append(out, t)
		}
	}
	return out
}

// definedByOther returns the terms with an rdfs:isDefinedBy outside
// ignore, and those other IRIs in first-seen order.
func definedByOther(terms []vocab.Term, ignore ...string) ([]vocab.Term, []string) {
	var (
		matched []vocab.Term
		iris    []string
	)
	seen := make(map[string]struct{})
	for _, t := range terms {
		found := false
		for _, d := range t.IsDefinedBys {
			if slices.Contains(ignore, d) {
				continue
			}
			found = true
			if _, ok := seen[d]; !ok {
				seen[d] = struct{}{}
				iris = append(iris, d)
			}
		}
		if found {
			matched = append(matched, t)
		}
	}
	return matched, iris
}
