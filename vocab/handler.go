package vocab

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cayleygraph/quad"

	"github.com/c360studio/artifactgen/dataset"
	"github.com/c360studio/artifactgen/source"
	"github.com/c360studio/artifactgen/source/iri"
	"github.com/c360studio/artifactgen/vocabulary/commonterms"
)

// Options are the per-vocabulary settings the handler needs.
type Options struct {
	InputResources        []string
	VocabListFile         string
	TermSelectionResource string

	NameAndPrefixOverride string
	NamespaceIRIOverride  string
	VocabularyIRIOverride string
	DescriptionFallback   string
	IgnoreNonVocabTerms   bool

	// ArtifactName, if set, replaces ModuleNamePrefix plus the vocab name.
	ArtifactName     string
	ModuleNamePrefix string

	// StoreLocalCopyOfVocabDirectory, if set, receives a Turtle copy of the
	// full vocabulary.
	StoreLocalCopyOfVocabDirectory string

	GeneratedTimestamp       string
	GeneratorName            string
	ArtifactGeneratorVersion string

	Logger *slog.Logger
}

// TemplateInput is everything the source code templates know about one
// vocabulary.
type TemplateInput struct {
	GeneratedTimestamp       string
	GeneratorName            string
	ArtifactGeneratorVersion string
	SourceRdfResources       string
	InputResources           []string
	VocabListFile            string

	VocabularyIRI        string
	LocalNamespaceIRI    string
	NamespaceIRI         string
	NamespaceIRIOverride string
	NamespaceDetails     NamespaceDetails

	VocabName             string
	VocabNameUpperCase    string
	NameAndPrefixOverride string
	ArtifactName          string
	Description           string

	AuthorSet          []string
	AuthorSetFormatted string

	StoreLocalCopyOfVocabDirectory string

	Classes         []Term
	Properties      []Term
	Literals        []Term
	ConstantIris    []Term
	ConstantStrings []Term
}

// TermCount returns the number of generated terms of every kind.
func (in *TemplateInput) TermCount() int {
	return len(in.Classes) + len(in.Properties) + len(in.Literals) + len(in.ConstantIris) + len(in.ConstantStrings)
}

// Handler builds the TemplateInput of one vocabulary.
type Handler struct {
	full          *dataset.Dataset
	termSelection *dataset.Dataset
	opts          Options
	logger        *slog.Logger

	processed map[string]struct{}
}

// NewHandler creates a handler over the full vocabulary and an optional
// term selection.
func NewHandler(full, termSelection *dataset.Dataset, opts Options) *Handler {
	if termSelection == nil {
		termSelection = dataset.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		full:          full,
		termSelection: termSelection,
		opts:          opts,
		logger:        logger,
		processed:     make(map[string]struct{}),
	}
}

// BuildTemplateInput analyses the vocabulary. It can only be called once
// per handler.
func (h *Handler) BuildTemplateInput(ctx context.Context) (*TemplateInput, error) {
	in := &TemplateInput{
		GeneratedTimestamp:       h.opts.GeneratedTimestamp,
		GeneratorName:            h.opts.GeneratorName,
		ArtifactGeneratorVersion: h.opts.ArtifactGeneratorVersion,
		SourceRdfResources:       "Vocabulary built from " + DescribeInput(h.opts.VocabListFile, h.opts.InputResources) + ".",
		InputResources:           h.opts.InputResources,
		VocabListFile:            h.opts.VocabListFile,
		NamespaceIRIOverride:     h.opts.NamespaceIRIOverride,
		NameAndPrefixOverride:    h.opts.NameAndPrefixOverride,
	}

	vocabularyIRI, err := h.lookupVocabularyIRI(h.opts.VocabularyIRIOverride)
	if err != nil {
		return nil, err
	}
	details, err := h.lookupNamespaceDetails(vocabularyIRI, h.opts.NamespaceIRIOverride, h.opts.NameAndPrefixOverride)
	if err != nil {
		return nil, err
	}
	in.NamespaceDetails = *details

	// A vocabulary without an owl:Ontology is identified by its namespace.
	in.VocabularyIRI = firstNonEmpty(vocabularyIRI, details.NamespaceIRI)
	in.LocalNamespaceIRI = details.DetectedNamespaceIRI
	in.VocabName = details.NamespacePrefix
	in.VocabNameUpperCase = VocabNameUpperCase(in.VocabName)
	in.NamespaceIRI = firstNonEmpty(h.opts.NamespaceIRIOverride, in.LocalNamespaceIRI)
	in.ArtifactName = h.artifactName(in.VocabName)

	in.Description = h.findDescription(in.VocabularyIRI, h.opts.DescriptionFallback)
	if in.Description == "" {
		return nil, fmt.Errorf("Cannot find a description of this vocabulary [%s] with IRI [%s] and namespace IRI [%s] "+
			"for artifact [%s], not in the vocab itself (e.g., via properties 'dcterms:title', 'dcterms:description', "+
			"'dcelements:title', 'rdfs:comment', or 'rdfs:label'), and our configuration doesn't provide one.",
			in.VocabName, in.VocabularyIRI, in.NamespaceIRI, in.ArtifactName)
	}

	in.AuthorSet = h.findAuthors(in.VocabularyIRI)
	in.AuthorSetFormatted = strings.Join(in.AuthorSet, ", ")

	if dir := h.opts.StoreLocalCopyOfVocabDirectory; dir != "" {
		in.StoreLocalCopyOfVocabDirectory = dir
		path, err := source.StoreLocalCopy(dir, in.VocabName, in.NamespaceIRI, h.full)
		if err != nil {
			return nil, err
		}
		h.logger.Debug("Stored local copy of vocabulary", slog.String("path", path))
	}

	subjects := h.termSelection.Subjects()
	if len(subjects) == 0 {
		subjects = h.full.Subjects()
	}
	if len(subjects) == 1 && dataset.Value(subjects[0]) == in.NamespaceIRI {
		return nil, fmt.Errorf("[%s] does not contain any terms.", in.NamespaceIRI)
	}

	for _, subject := range subjects {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := h.classify(subject, in); err != nil {
			return nil, err
		}
	}
	return in, nil
}

// classify adds subject to the first term list whose types it has.
func (h *Handler) classify(subject quad.Value, in *TemplateInput) error {
	rdfType := quad.IRI(commonterms.RDFType)

	for _, t := range commonterms.ClassTypes {
		for _, q := range h.full.Match(subject, rdfType, quad.IRI(t)) {
			if err := h.addIfNew(q, in.LocalNamespaceIRI, t, &in.Classes); err != nil {
				return err
			}
		}
	}
	for _, q := range h.full.Match(subject, quad.IRI(commonterms.RDFSSubClassOf), nil) {
		if err := h.addIfNew(q, in.LocalNamespaceIRI, dataset.Value(q.Object), &in.Classes); err != nil {
			return err
		}
	}

	// Properties are handled before the new-term check, so a class that is
	// also typed as a property outside the namespace is still reported.
	for _, t := range commonterms.PropertyTypes {
		for _, q := range h.full.Match(subject, rdfType, quad.IRI(t)) {
			if err := h.addProperty(q, in.LocalNamespaceIRI, t, in); err != nil {
				return err
			}
		}
	}
	for _, q := range h.full.Match(subject, quad.IRI(commonterms.RDFSSubPropertyOf), nil) {
		if err := h.addProperty(q, in.LocalNamespaceIRI, dataset.Value(q.Object), in); err != nil {
			return err
		}
	}

	kinds := []struct {
		typeIRI string
		list    *[]Term
	}{
		{commonterms.RDFSLiteral, &in.Literals},
		{commonterms.ConstantIri, &in.ConstantIris},
		{commonterms.ConstantString, &in.ConstantStrings},
	}
	for _, k := range kinds {
		for _, q := range h.full.Match(subject, rdfType, quad.IRI(k.typeIRI)) {
			if err := h.addIfNew(q, in.LocalNamespaceIRI, k.typeIRI, k.list); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *Handler) addIfNew(q quad.Quad, namespace, rdfType string, list *[]Term) error {
	if !h.isNewTerm(dataset.Value(q.Subject)) {
		return nil
	}
	term, err := h.handleTerm(q, namespace, rdfType)
	if err != nil || term == nil {
		return err
	}
	*list = append(*list, *term)
	return nil
}

func (h *Handler) addProperty(q quad.Quad, namespace, rdfType string, in *TemplateInput) error {
	term, err := h.handleTerm(q, namespace, rdfType)
	if err != nil || term == nil {
		return err
	}
	if h.isNewTerm(dataset.Value(q.Subject)) {
		in.Properties = append(in.Properties, *term)
	}
	return nil
}

func (h *Handler) isNewTerm(name string) bool {
	if _, ok := h.processed[name]; ok {
		return false
	}
	h.processed[name] = struct{}{}
	return true
}

func describeNamespaceInUse(namespace, override string) string {
	if override == "" {
		return fmt.Sprintf("we detected namespace [%s]", namespace)
	}
	return fmt.Sprintf("we detected namespace [%s], but we're using namespace OVERRIDE [%s])", namespace, override)
}

// handleTerm builds the Term for q's subject. It returns nil for subjects
// that are deliberately skipped.
func (h *Handler) handleTerm(q quad.Quad, namespace, rdfType string) (*Term, error) {
	fullName := dataset.Value(q.Subject)
	namespaceInUse := firstNonEmpty(h.opts.NamespaceIRIOverride, namespace)

	if !strings.HasPrefix(fullName, namespaceInUse) {
		if h.opts.IgnoreNonVocabTerms {
			h.logger.Debug("Ignoring vocabulary term outside our namespace",
				slog.String("term", fullName),
				slog.String("type", rdfType),
				slog.String("namespace", namespaceInUse))
			return nil, nil
		}
		if commonterms.IsReserved(fullName) {
			h.logger.Debug("Ignoring common RDF vocabulary term",
				slog.String("term", fullName),
				slog.String("namespace", namespaceInUse))
			return nil, nil
		}
		return nil, fmt.Errorf("Vocabulary term [%s] found that is not in the namespace we're using - %s - "+
			"currently this is disallowed (as it indicates a probable typo!), but you can override this error and "+
			"ignore non-vocabulary terms by setting the 'ignoreNonVocabTerms' option to 'true'",
			fullName, describeNamespaceInUse(namespace, h.opts.NamespaceIRIOverride))
	}

	// Vocabularies sometimes type themselves as a term type.
	if fullName == namespaceInUse {
		return nil, nil
	}

	name := fullName[len(namespaceInUse):]
	escaped := EscapeName(name)
	subject := q.Subject

	var labels, comments, definitions []Literal
	for _, m := range h.termSelection.Match(subject, quad.IRI(commonterms.SchemaAlternateName), nil) {
		labels = addLiteral(labels, m)
	}
	for _, m := range h.termSelection.Match(subject, quad.IRI(commonterms.RDFSLabel), nil) {
		labels = addLiteral(labels, m)
	}
	for _, pred := range []string{commonterms.RDFSLabel, commonterms.SKOSXLLiteralForm, commonterms.SchemaAlternateName} {
		for _, m := range h.full.Match(subject, quad.IRI(pred), nil) {
			labels = addLiteral(labels, m)
		}
	}

	for _, d := range []*dataset.Dataset{h.termSelection, h.full} {
		for _, m := range d.Match(subject, quad.IRI(commonterms.RDFSComment), nil) {
			comments = addLiteral(comments, m)
		}
	}

	for _, m := range h.termSelection.Match(subject, quad.IRI(commonterms.SKOSDefinition), nil) {
		definitions = addLiteral(definitions, m)
	}
	skosMatches := h.full.Match(subject, quad.IRI(commonterms.SKOSDefinition), nil)
	if rdfType == commonterms.ConstantIri || rdfType == commonterms.ConstantString {
		if len(skosMatches) > 1 {
			return nil, fmt.Errorf("Vocabulary term [%s] in %s - found [%d] values for constant of type [%s] "+
				"when one, and only one, value is required",
				fullName, describeNamespaceInUse(namespace, h.opts.NamespaceIRIOverride), len(skosMatches), rdfType)
		}
		if rdfType == commonterms.ConstantIri {
			for _, m := range skosMatches {
				if value := dataset.Value(m.Object); !iri.IsValid(value) {
					return nil, fmt.Errorf("Vocabulary term [%s] in %s - constant IRI value [%s] does not appear to be a valid IRI",
						fullName, describeNamespaceInUse(namespace, h.opts.NamespaceIRIOverride), value)
				}
			}
		}
	}
	for _, m := range skosMatches {
		definitions = addLiteral(definitions, m)
	}

	term := &Term{
		Name:                   name,
		NameEscapedForLanguage: escaped,
		NameEscapedForJava:     EscapeNameForJava(escaped),
		Comment:                bestComment(comments, definitions, labels),
		Labels:                 labels,
		Comments:               comments,
		Definitions:            definitions,
		SeeAlsos:               h.objectValues(subject, commonterms.RDFSSeeAlso),
		IsDefinedBys:           h.objectValues(subject, commonterms.RDFSIsDefinedBy),
		RDFTypes:               h.objectValues(subject, commonterms.RDFType),
	}
	// Sorts term.Labels by language too.
	term.TermDescription = compositeDescription(term.Labels, term.Comments, term.Definitions)
	return term, nil
}

// objectValues collects the unique object values of subject's predicate
// across both datasets. It returns nil when there are none.
func (h *Handler) objectValues(subject quad.Value, predicate string) []string {
	var values []string
	seen := make(map[string]struct{})
	for _, d := range []*dataset.Dataset{h.termSelection, h.full} {
		for _, obj := range d.Objects(subject, predicate) {
			v := dataset.Value(obj)
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			values = append(values, v)
		}
	}
	return values
}

// findDescription looks up the vocabulary's description predicates in
// order, preferring English.
func (h *Handler) findDescription(vocabularyIRI, fallback string) string {
	subject := quad.IRI(vocabularyIRI)
	for _, pred := range commonterms.DescriptionPredicates {
		matches := h.full.Match(subject, quad.IRI(commonterms.PredicateIRI(pred)), nil)
		if len(matches) > 0 {
			return firstValue(matches, "en", fallback)
		}
	}
	return fallback
}

// firstValue prefers a literal whose language starts with lang, then a
// plain string, then the first match.
func firstValue(matches []quad.Quad, lang, fallback string) string {
	for _, q := range matches {
		if l := dataset.Lang(q.Object); l != "" && strings.HasPrefix(l, lang) {
			return dataset.Value(q.Object)
		}
	}
	for _, q := range matches {
		if dataset.Datatype(q.Object) == commonterms.XSDString {
			return dataset.Value(q.Object)
		}
	}
	if len(matches) > 0 {
		return dataset.Value(matches[0].Object)
	}
	return fallback
}

func (h *Handler) findAuthors(vocabularyIRI string) []string {
	authors := []string{}
	seen := make(map[string]struct{})
	for _, obj := range h.full.Objects(quad.IRI(vocabularyIRI), commonterms.DCTermsCreator) {
		v := dataset.Value(obj)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		authors = append(authors, v)
	}
	return authors
}

func (h *Handler) artifactName(vocabName string) string {
	if h.opts.ArtifactName != "" {
		return h.opts.ArtifactName
	}
	return h.opts.ModuleNamePrefix + strings.ReplaceAll(strings.ToLower(vocabName), "_", "-")
}

// VocabNameUpperCase upper-cases a prefix for use as a class name.
func VocabNameUpperCase(name string) string {
	return strings.ReplaceAll(strings.ToUpper(name), "-", "_")
}

// DescribeInput names where a vocabulary came from.
func DescribeInput(vocabListFile string, inputResources []string) string {
	switch {
	case vocabListFile != "":
		return fmt.Sprintf("vocab list file: [%s]", vocabListFile)
	case len(inputResources) == 1:
		return fmt.Sprintf("input: [%s]", inputResources[0])
	default:
		return fmt.Sprintf("inputs: [%s]", strings.Join(inputResources, ", "))
	}
}
