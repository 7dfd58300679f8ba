package vocab

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/cayleygraph/quad"

	"github.com/c360studio/artifactgen/dataset"
	"github.com/c360studio/artifactgen/vocabulary/commonterms"
)

// NamespaceDetails records every source of namespace information found in
// a vocabulary, and the values finally chosen from them.
type NamespaceDetails struct {
	VANNNamespaceIRI    string
	VANNNamespacePrefix string

	SHACLDeclareIRI      string
	SHACLNamespaceIRI    string
	SHACLNamespacePrefix string

	HeuristicNamespaceIRI string

	// DetectedNamespaceIRI is what the vocabulary itself says, ignoring any
	// override.
	DetectedNamespaceIRI string

	NamespaceIRI    string
	NamespacePrefix string
}

// lookupVocabularyIRI finds the single owl:Ontology subject.
func (h *Handler) lookupVocabularyIRI(override string) (string, error) {
	ontologies := h.full.Match(nil, quad.IRI(commonterms.RDFType), quad.IRI(commonterms.OWLOntology))

	switch len(ontologies) {
	case 0:
		if override != "" {
			h.logger.Debug("Found no 'rdf:type owl:Ontology' triples, using vocabularyIriOverride",
				slog.String("override", override))
		}
		return override, nil
	case 1:
		return dataset.Value(ontologies[0].Subject), nil
	}

	subjects := make([]string, len(ontologies))
	for i, q := range ontologies {
		subjects[i] = dataset.Value(q.Subject)
	}
	if override != "" {
		h.logger.Debug("Found multiple 'rdf:type owl:Ontology' instances, using vocabularyIriOverride",
			slog.Int("count", len(ontologies)),
			slog.String("override", override))
		return override, nil
	}
	return "", fmt.Errorf("Found [%d] 'rdf:type owl:Ontology' instances (we can only process 1): [%s], "+
		"and we weren't configured with a 'vocabularyIriOverride' so we can't know which one to use.",
		len(ontologies), strings.Join(subjects, ", "))
}

// lookupOneAndOnlyOnePredicate returns the single object of subject's
// predicate triple. Multiple values are an error unless an override makes
// the lookup moot.
func (h *Handler) lookupOneAndOnlyOnePredicate(subject quad.Value, override, predicate string) (quad.Value, error) {
	if subject == nil {
		return nil, nil
	}
	matches := h.full.Match(subject, quad.IRI(predicate), nil)

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0].Object, nil
	}

	values := make([]string, len(matches))
	for i, q := range matches {
		values[i] = dataset.Value(q.Object)
	}
	if override != "" {
		h.logger.Debug("Found multiple values for predicate, using override",
			slog.String("predicate", predicate),
			slog.String("subject", dataset.Value(subject)),
			slog.String("values", strings.Join(values, ", ")))
		return nil, nil
	}
	return nil, fmt.Errorf("Found [%d] [%s] triples for our vocabulary IRI [%s] (we can only process 1): [%s], "+
		"and we weren't configured with an Override, so we can't know which one to use.",
		len(matches), predicate, dataset.Value(subject), strings.Join(values, ", "))
}

func (h *Handler) lookupOneAndOnlyOneValue(subject quad.Value, override, predicate string) (string, error) {
	v, err := h.lookupOneAndOnlyOnePredicate(subject, override, predicate)
	return dataset.Value(v), err
}

// heuristicNamespaceIRI cuts the longest subject after its last '/' or '#'.
// The longest name avoids picking the vocabulary IRI itself when it is the
// namespace minus its trailing separator.
func (h *Handler) heuristicNamespaceIRI() string {
	longest := ""
	for _, s := range h.full.Subjects() {
		if v := dataset.Value(s); len(v) >= len(longest) {
			longest = v
		}
	}
	cut := max(strings.LastIndex(longest, "/"), strings.LastIndex(longest, "#"))
	return longest[:cut+1]
}

func (h *Handler) lookupNamespaceDetails(vocabularyIRI, namespaceOverride, prefixOverride string) (*NamespaceDetails, error) {
	var (
		details NamespaceDetails
		vocab   quad.Value
		err     error
	)
	if vocabularyIRI != "" {
		vocab = quad.IRI(vocabularyIRI)
	}

	if details.VANNNamespaceIRI, err = h.lookupOneAndOnlyOneValue(vocab, namespaceOverride, commonterms.VANNPreferredNamespaceURI); err != nil {
		return nil, err
	}
	if details.VANNNamespacePrefix, err = h.lookupOneAndOnlyOneValue(vocab, prefixOverride, commonterms.VANNPreferredNamespacePrefix); err != nil {
		return nil, err
	}

	// The declaration is usually a blank node, so keep the term itself.
	declaration, err := h.lookupOneAndOnlyOnePredicate(vocab, "", commonterms.SHACLDeclare)
	if err != nil {
		return nil, err
	}
	if declaration != nil {
		details.SHACLDeclareIRI = dataset.Value(declaration)
		if details.SHACLNamespaceIRI, err = h.lookupOneAndOnlyOneValue(declaration, namespaceOverride, commonterms.SHACLNamespace); err != nil {
			return nil, err
		}
		if details.SHACLNamespacePrefix, err = h.lookupOneAndOnlyOneValue(declaration, prefixOverride, commonterms.SHACLPrefix); err != nil {
			return nil, err
		}
	}

	details.HeuristicNamespaceIRI = h.heuristicNamespaceIRI()
	details.DetectedNamespaceIRI = firstNonEmpty(details.VANNNamespaceIRI, details.SHACLNamespaceIRI, details.HeuristicNamespaceIRI)
	details.NamespaceIRI = firstNonEmpty(namespaceOverride, details.DetectedNamespaceIRI)
	details.NamespacePrefix = firstNonEmpty(prefixOverride, details.VANNNamespacePrefix, details.SHACLNamespacePrefix)

	if details.NamespaceIRI == "" {
		return nil, fmt.Errorf("Namespace IRI could not be determined for vocabulary with IRI [%s] and no "+
			"'namespaceIriOverride' was configured, so we can't continue (it's possible we failed to parse any "+
			"triples at all from the 'inputResources' provided, possibly due to content negotiation problems on "+
			"the vocab-serving server).",
			firstNonEmpty(vocabularyIRI, "--Could not be determined, as not explicitly provided and not overridden by configuration--"))
	}

	if details.NamespacePrefix == "" {
		prefix, ok := commonterms.LookupKnownPrefix(details.NamespaceIRI)
		if !ok {
			return nil, missingPrefixError(vocabularyIRI)
		}
		h.logger.Debug("Determined vocabulary prefix from well known vocabularies", slog.String("prefix", prefix))
		details.NamespacePrefix = prefix
	}
	return &details, nil
}

func missingPrefixError(vocabularyIRI string) error {
	described := firstNonEmpty(vocabularyIRI,
		"--Could not be determined, as not explicitly provided, not overridden by configuration, and namespace IRI couldn't be 'guessed' either--")
	return fmt.Errorf(`No prefix defined for vocabulary IRI [%s]. Trying to guess a prefix is very error-prone, so we suggest three options to resolve this:
      - If you control the vocabulary, we strongly recommend that you either:
        - Add a triple explicitly providing a preferred prefix (e.g., [%s %s "prefix" .]) to your vocabulary.
        - Add a SHACL:PrefixDeclaration (see [SHACL Prefix Declaration](https://www.w3.org/TR/shacl/#sparql-prefixes)) to your vocabulary.
      - If you do not control the vocabulary but you use a configuration file, then you can set the 'nameAndPrefixOverride' option for this vocabulary.
      - If you do not control the vocabulary, you can use the 'termSelectionResource' option to point to an extension file that includes a preferred prefix as described above.`,
		described, vocabularyIRI, commonterms.VANNPreferredNamespacePrefix)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
