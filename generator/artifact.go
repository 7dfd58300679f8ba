package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/c360studio/artifactgen/config"
	"github.com/c360studio/artifactgen/metrics"
	"github.com/c360studio/artifactgen/notify"
	"github.com/c360studio/artifactgen/source"
)

// MarkerFile records, by its modification time, when the bundle in a root
// directory was last generated.
const MarkerFile = ".artifact-generator-output"

const bundleDescriptionHeading = "Bundle of vocabularies that includes the following:"

// Options are the settings of one generation run.
type Options struct {
	OutputDirectory string

	// Force regenerates even when the artifacts are up to date.
	Force bool
	// ClearOutputDirectory removes the whole bundle root instead of just
	// the artifact directories.
	ClearOutputDirectory bool

	ModuleNamePrefix               string
	StoreLocalCopyOfVocabDirectory string
	ReportBestPracticeCompliance   bool
	VerifySyntax                   bool

	// Concurrency bounds how many vocabularies are generated at once.
	Concurrency int

	// Now defaults to time.Now.
	Now func() time.Time
}

// Result describes a generation run.
type Result struct {
	ArtifactName string
	Skipped      bool
	Vocabularies []*Vocabulary
	Files        []string
	Duration     time.Duration
}

// ArtifactGenerator generates every artifact of one configuration.
type ArtifactGenerator struct {
	cfg       *config.Configuration
	opts      Options
	reader    *source.Reader
	files     *FileGenerator
	vocabs    *VocabGenerator
	metrics   *metrics.Metrics
	publisher *notify.Publisher
	logger    *slog.Logger
}

// Option configures an ArtifactGenerator.
type Option func(*ArtifactGenerator)

// WithMetrics records every run in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *ArtifactGenerator) { g.metrics = m }
}

// WithPublisher publishes an event for every run.
func WithPublisher(p *notify.Publisher) Option {
	return func(g *ArtifactGenerator) { g.publisher = p }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(g *ArtifactGenerator) { g.logger = l }
}

// New creates a generator for cfg, reading vocabularies through reader.
func New(cfg *config.Configuration, reader *source.Reader, opts Options, options ...Option) *ArtifactGenerator {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	g := &ArtifactGenerator{cfg: cfg, opts: opts, reader: reader, logger: slog.Default()}
	for _, opt := range options {
		opt(g)
	}
	g.files = NewFileGenerator(g.logger)
	g.vocabs = NewVocabGenerator(reader, g.files, g.logger)
	return g
}

// Generate runs the generation, recording and publishing its outcome.
func (g *ArtifactGenerator) Generate(ctx context.Context) (*Result, error) {
	start := time.Now()
	event := notify.NewEvent(g.cfg.ArtifactName)

	result, err := g.generate(ctx)

	status := metrics.StatusSucceeded
	switch {
	case err != nil:
		status = metrics.StatusFailed
	case result.Skipped:
		status = metrics.StatusSkipped
	}
	g.metrics.RecordGeneration(status, time.Since(start))

	if result != nil {
		result.Duration = time.Since(start)
		if result.ArtifactName != "" {
			event.ArtifactName = result.ArtifactName
		}
		for _, v := range result.Vocabularies {
			event.Vocabs = append(event.Vocabs, v.Input.VocabName)
		}
	}
	event.Finish(status, err)
	if pubErr := g.publisher.Publish(ctx, event); pubErr != nil {
		g.logger.Warn("Failed to publish generation event", slog.String("error", pubErr.Error()))
	}

	return result, err
}

func (g *ArtifactGenerator) generate(ctx context.Context) (*Result, error) {
	rootDirectory := g.cfg.RootDirectory(g.opts.OutputDirectory)
	marker := filepath.Join(rootDirectory, MarkerFile)

	if !g.opts.Force {
		upToDate, err := g.upToDate(ctx, marker)
		if err != nil {
			return nil, err
		}
		if upToDate {
			g.logger.Info("Skipping generation: artifacts are newer than their input resources",
				slog.String("directory", rootDirectory))
			return &Result{ArtifactName: g.cfg.ArtifactName, Skipped: true}, nil
		}
	}

	if err := g.clear(rootDirectory); err != nil {
		return nil, err
	}

	vocabularies, sourceFiles, err := g.generateVocabularies(ctx)
	if err != nil {
		return &Result{ArtifactName: g.cfg.ArtifactName}, err
	}
	result := &Result{ArtifactName: g.cfg.ArtifactName, Vocabularies: vocabularies, Files: sourceFiles}

	data := g.packageData(vocabularies)
	result.ArtifactName = data.ArtifactName

	for _, artifact := range g.cfg.ArtifactToGenerate {
		artifactData := data
		artifactData.Artifact = artifact
		files, err := g.files.CreatePackagingFiles(artifactData, g.cfg.ArtifactDirectory(g.opts.OutputDirectory, artifact))
		result.Files = append(result.Files, files...)
		if err != nil {
			return result, err
		}
	}

	files, err := g.files.CreateVersioningFiles(data, rootDirectory)
	result.Files = append(result.Files, files...)
	if err != nil {
		return result, err
	}

	for _, v := range vocabularies {
		g.metrics.RecordTerms("class", len(v.Input.Classes))
		g.metrics.RecordTerms("property", len(v.Input.Properties))
		g.metrics.RecordTerms("literal", len(v.Input.Literals))
		g.metrics.RecordTerms("constant", len(v.Input.ConstantIris)+len(v.Input.ConstantStrings))
	}

	if err := os.MkdirAll(rootDirectory, 0755); err != nil {
		return result, fmt.Errorf("create output directory: %w", err)
	}
	if err := source.TouchFile(marker); err != nil {
		return result, err
	}

	g.logger.Info("Generated artifacts",
		slog.String("artifact", result.ArtifactName),
		slog.Int("vocabularies", len(vocabularies)),
		slog.Int("files", len(result.Files)),
		slog.String("directory", rootDirectory))
	return result, nil
}

// upToDate reports whether every artifact directory exists and no input
// resource, term selection resource or vocab list file changed since the
// marker was last touched.
func (g *ArtifactGenerator) upToDate(ctx context.Context, marker string) (bool, error) {
	info, err := os.Stat(marker)
	if err != nil {
		return false, nil
	}
	generated := info.ModTime()

	for _, artifact := range g.cfg.ArtifactToGenerate {
		if _, err := os.Stat(g.cfg.ArtifactDirectory(g.opts.OutputDirectory, artifact)); err != nil {
			return false, nil
		}
	}

	if g.cfg.VocabListFile != "" {
		listInfo, err := os.Stat(g.cfg.VocabListFile)
		if err != nil {
			return false, fmt.Errorf("stat vocab list file: %w", err)
		}
		if listInfo.ModTime().After(generated) {
			return false, nil
		}
	}

	changed, err := g.cfg.InputResourcesChangedSince(ctx, g.reader, generated)
	if err != nil {
		return false, err
	}
	if len(changed) > 0 {
		g.logger.Debug("Input resources changed since last generation", slog.Any("resources", changed))
		return false, nil
	}
	return true, nil
}

func (g *ArtifactGenerator) clear(rootDirectory string) error {
	if g.opts.ClearOutputDirectory {
		g.logger.Info("Clearing output directory", slog.String("directory", rootDirectory))
		if err := os.RemoveAll(rootDirectory); err != nil {
			return fmt.Errorf("clear output directory [%s]: %w", rootDirectory, err)
		}
		return nil
	}

	for _, artifact := range g.cfg.ArtifactToGenerate {
		dir := g.cfg.ArtifactDirectory(g.opts.OutputDirectory, artifact)
		g.logger.Debug("Deleting artifact directory", slog.String("directory", dir))
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("clear artifact directory [%s]: %w", dir, err)
		}
	}
	return nil
}

// generateVocabularies builds each vocabulary and renders it for every
// artifact. Vocabularies run concurrently; results keep configuration
// order.
func (g *ArtifactGenerator) generateVocabularies(ctx context.Context) ([]*Vocabulary, []string, error) {
	opts := VocabOptions{
		ArtifactName:                   g.cfg.ArtifactName,
		ModuleNamePrefix:               g.opts.ModuleNamePrefix,
		StoreLocalCopyOfVocabDirectory: g.opts.StoreLocalCopyOfVocabDirectory,
		GeneratedTimestamp:             config.Timestamp(g.opts.Now()),
		VocabListFile:                  g.cfg.VocabListFile,
		ReportBestPracticeCompliance:   g.opts.ReportBestPracticeCompliance,
		VerifySyntax:                   g.opts.VerifySyntax,
	}

	vocabularies := make([]*Vocabulary, len(g.cfg.VocabList))
	files := make([][]string, len(g.cfg.VocabList))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.Concurrency)
	for i, v := range g.cfg.VocabList {
		eg.Go(func() error {
			built, err := g.vocabs.Build(egCtx, v, opts)
			if err != nil {
				return err
			}
			vocabularies[i] = built

			for _, artifact := range g.cfg.ArtifactToGenerate {
				dir := g.cfg.ArtifactDirectory(g.opts.OutputDirectory, artifact)
				path, err := g.vocabs.Generate(egCtx, built, artifact, g.cfg.License, dir, opts.VerifySyntax)
				if err != nil {
					return err
				}
				files[i] = append(files[i], path)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}

	var all []string
	for _, f := range files {
		all = append(all, f...)
	}
	return vocabularies, all, nil
}

// packageData collects the bundle details shared by every packaging file.
// A configuration from the command line takes its artifact name from the
// first vocabulary.
func (g *ArtifactGenerator) packageData(vocabularies []*Vocabulary) PackageData {
	data := PackageData{
		ArtifactName:             g.cfg.ArtifactName,
		GeneratorName:            config.GeneratorName,
		ArtifactGeneratorVersion: config.Version,
		License:                  g.cfg.License,
		VocabListFile:            g.cfg.VocabListFile,
		InputResources:           g.cfg.InputResources(),
		Versioning:               g.cfg.Versioning,
	}
	if len(vocabularies) > 0 {
		data.GeneratedTimestamp = vocabularies[0].Input.GeneratedTimestamp
		if data.ArtifactName == "" {
			data.ArtifactName = vocabularies[0].Input.ArtifactName
		}
	}

	var description strings.Builder
	description.WriteString(bundleDescriptionHeading)
	var authors []string
	seen := make(map[string]bool)

	for _, v := range vocabularies {
		in := v.Input
		fmt.Fprintf(&description, "\n\n  %s: %s", in.VocabName, in.Description)

		className := in.VocabNameUpperCase
		if in.NameAndPrefixOverride != "" {
			className = in.NameAndPrefixOverride
		}
		data.GeneratedVocabs = append(data.GeneratedVocabs, GeneratedVocab{
			VocabName:          in.VocabName,
			VocabNameUpperCase: in.VocabNameUpperCase,
			ClassName:          className,
			Description:        in.Description,
		})

		for _, author := range in.AuthorSet {
			if !seen[author] {
				seen[author] = true
				authors = append(authors, author)
			}
		}
	}
	data.Description = description.String()
	data.Authors = fmt.Sprintf("Vocabularies authored by: %s.", strings.Join(authors, ", "))
	return data
}

var errNoVocabularies = errors.New("no vocabularies to generate")

// Validate checks that cfg can be generated without reading any resource.
func Validate(cfg *config.Configuration) error {
	if len(cfg.VocabList) == 0 {
		return errNoVocabularies
	}
	for _, artifact := range cfg.ArtifactToGenerate {
		if artifact.SourceCodeTemplate == "" {
			return fmt.Errorf("artifact [%s] has no source code template", artifact.ProgrammingLanguage)
		}
	}
	return nil
}
