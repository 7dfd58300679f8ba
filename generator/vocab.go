package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/c360studio/artifactgen/bestpractice"
	"github.com/c360studio/artifactgen/config"
	"github.com/c360studio/artifactgen/dataset"
	"github.com/c360studio/artifactgen/source"
	"github.com/c360studio/artifactgen/verify"
	"github.com/c360studio/artifactgen/vocab"
)

// VocabOptions are the run-wide settings of vocabulary generation.
type VocabOptions struct {
	ArtifactName                   string
	ModuleNamePrefix               string
	StoreLocalCopyOfVocabDirectory string
	GeneratedTimestamp             string
	VocabListFile                  string

	ReportBestPracticeCompliance bool
	VerifySyntax                 bool
}

// VocabGenerator generates the source files of one vocabulary.
type VocabGenerator struct {
	reader *source.Reader
	files  *FileGenerator
	logger *slog.Logger
}

// NewVocabGenerator creates a vocabulary generator reading through reader.
func NewVocabGenerator(reader *source.Reader, files *FileGenerator, logger *slog.Logger) *VocabGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &VocabGenerator{reader: reader, files: files, logger: logger}
}

// Vocabulary is a vocabulary ready to be rendered.
type Vocabulary struct {
	Input        *vocab.TemplateInput
	BestPractice *bestpractice.Report
}

// Read reads the input resources of v into one dataset. The term selection
// resource, if any, is returned on its own and merged into the full
// vocabulary as well.
func (g *VocabGenerator) Read(ctx context.Context, v config.Vocab, localCopyDirectory string) (full, selection *dataset.Dataset, err error) {
	readOpts := source.ReadOptions{
		Accept:              v.VocabAcceptHeaderOverride,
		ContentTypeOverride: v.VocabContentTypeHeaderOverride,
		ContentTypeFallback: v.VocabContentTypeHeaderFallback,
		LocalCopyDirectory:  localCopyDirectory,
	}

	full = dataset.New()
	for _, resource := range v.InputResources {
		d, err := g.reader.Read(ctx, resource, readOpts)
		if err != nil {
			return nil, nil, fmt.Errorf("Failed to generate: [%w]", err)
		}
		full.AddAll(d)
	}

	if v.TermSelectionResource != "" {
		d, err := g.reader.Read(ctx, v.TermSelectionResource, readOpts)
		if err != nil {
			return nil, nil, fmt.Errorf("Failed to read term selection resource [%s]: %w", v.TermSelectionResource, err)
		}
		selection = d
		full.AddAll(d)
	}
	return full, selection, nil
}

// Build reads the resources of v and analyses them.
func (g *VocabGenerator) Build(ctx context.Context, v config.Vocab, opts VocabOptions) (*Vocabulary, error) {
	full, selection, err := g.Read(ctx, v, opts.StoreLocalCopyOfVocabDirectory)
	if err != nil {
		return nil, err
	}

	handler := vocab.NewHandler(full, selection, vocab.Options{
		InputResources:                 v.InputResources,
		VocabListFile:                  opts.VocabListFile,
		TermSelectionResource:          v.TermSelectionResource,
		NameAndPrefixOverride:          v.NameAndPrefixOverride,
		NamespaceIRIOverride:           v.NamespaceIRIOverride,
		VocabularyIRIOverride:          v.VocabularyIRIOverride,
		DescriptionFallback:            v.Fallback(),
		IgnoreNonVocabTerms:            v.IgnoreNonVocabTerms,
		ArtifactName:                   opts.ArtifactName,
		ModuleNamePrefix:               opts.ModuleNamePrefix,
		StoreLocalCopyOfVocabDirectory: opts.StoreLocalCopyOfVocabDirectory,
		GeneratedTimestamp:             opts.GeneratedTimestamp,
		GeneratorName:                  config.GeneratorName,
		ArtifactGeneratorVersion:       config.Version,
		Logger:                         g.logger,
	})
	in, err := handler.BuildTemplateInput(ctx)
	if err != nil {
		return nil, err
	}

	result := &Vocabulary{Input: in}
	if opts.ReportBestPracticeCompliance {
		result.BestPractice = bestpractice.Build(in)
	}
	return result, nil
}

// Generate renders the source file of vocabulary for artifact into
// artifactDirectory, and checks its syntax if requested.
func (g *VocabGenerator) Generate(ctx context.Context, v *Vocabulary, artifact config.Artifact, license *config.License, artifactDirectory string, verifySyntax bool) (string, error) {
	data := newSourceData(v.Input, artifact, license, v.BestPractice)

	g.logger.Info("Generating vocabulary source code file",
		slog.String("vocab", v.Input.VocabName),
		slog.String("class", data.ClassName),
		slog.String("language", artifact.ProgrammingLanguage),
		slog.Bool("override", v.Input.NameAndPrefixOverride != ""))

	path, err := g.files.CreateSourceCodeFile(data, artifactDirectory)
	if err != nil {
		return "", err
	}

	if verifySyntax {
		if err := verify.CheckFile(ctx, path); err != nil {
			var syntaxErr *verify.SyntaxError
			if errors.As(err, &syntaxErr) {
				return path, fmt.Errorf("template [%s]: %w", artifact.SourceCodeTemplate, err)
			}
			return path, err
		}
	}
	return path, nil
}
