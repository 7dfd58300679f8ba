package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/artifactgen/config"
	"github.com/c360studio/artifactgen/generator"
	"github.com/c360studio/artifactgen/metrics"
	"github.com/c360studio/artifactgen/notify"
	"github.com/c360studio/artifactgen/publish"
	"github.com/c360studio/artifactgen/source"
)

type generateOptions struct {
	inputResources        []string
	vocabListFile         string
	vocabListFileIgnore   string
	termSelectionResource string

	namespaceIRIOverride           string
	nameAndPrefixOverride          string
	vocabAcceptHeaderOverride      string
	vocabContentTypeHeaderOverride string
	vocabContentTypeHeaderFallback string

	artifactVersion         string
	solidCommonVocabVersion string
	moduleNamePrefix        string
	npmRegistry             string

	ignoreNonVocabTerms          bool
	supportBundling              bool
	force                        bool
	clearOutputDirectory         bool
	reportBestPracticeCompliance bool
	verifySyntax                 bool

	runNpmInstall   bool
	runMavenInstall bool
	runWidoco       bool
	publish         []string

	storeLocalCopyOfVocabDirectory string
	cache                          string
	metricsTextfile                string
}

func generateCmd(global *globalOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate artifacts from a vocab list file or input resources",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			if err := runGenerate(ctx, global, opts); err != nil {
				return fmt.Errorf("Generation process failed: [%w]", err)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringSliceVarP(&opts.inputResources, "input-resources", "i", nil, "Vocabulary resources (files or IRIs) to generate from")
	f.StringVarP(&opts.vocabListFile, "vocab-list-file", "l", "", "YAML vocab list file (glob patterns allowed)")
	f.StringVar(&opts.vocabListFileIgnore, "vocab-list-file-ignore", "", "Glob of vocab list files to ignore")
	f.StringVar(&opts.termSelectionResource, "term-selection-resource", "", "Resource selecting the terms to generate")

	f.StringVar(&opts.namespaceIRIOverride, "namespace-iri-override", "", "Namespace IRI, when it cannot be detected")
	f.StringVar(&opts.nameAndPrefixOverride, "name-and-prefix-override", "", "Vocabulary name and prefix")
	f.StringVar(&opts.vocabAcceptHeaderOverride, "vocab-accept-header-override", "", "Accept header for online vocabularies")
	f.StringVar(&opts.vocabContentTypeHeaderOverride, "vocab-content-type-header-override", "", "Content type forced for online vocabularies")
	f.StringVar(&opts.vocabContentTypeHeaderFallback, "vocab-content-type-header-fallback", "", "Content type for responses without a usable one")

	f.StringVar(&opts.artifactVersion, "artifact-version", "0.0.1", "Version of the generated artifact")
	f.StringVar(&opts.solidCommonVocabVersion, "solid-common-vocab-version", "^1.4.0", "Version of the VocabTerm dependency")
	f.StringVar(&opts.moduleNamePrefix, "module-name-prefix", "generated-vocab-", "Prefix of the generated module name")
	f.StringVar(&opts.npmRegistry, "npm-registry", "", "npm registry to publish to")

	f.BoolVar(&opts.ignoreNonVocabTerms, "ignore-non-vocab-terms", false, "Ignore terms outside the vocabulary namespace")
	f.BoolVar(&opts.supportBundling, "support-bundling", false, "Bundle the JavaScript artifact with rollup")
	f.BoolVarP(&opts.force, "force", "f", false, "Regenerate even when the artifacts are up to date")
	f.BoolVarP(&opts.clearOutputDirectory, "clear-output-directory", "c", false, "Remove the whole output root before generating")
	f.BoolVar(&opts.reportBestPracticeCompliance, "report-best-practice-compliance", true, "Report vocabulary best-practice compliance in generated code")
	f.BoolVar(&opts.verifySyntax, "verify-syntax", true, "Check the syntax of the generated source files")

	f.BoolVar(&opts.runNpmInstall, "run-npm-install", false, "Run 'npm install' in the JavaScript artifacts")
	f.BoolVar(&opts.runMavenInstall, "run-maven-install", false, "Run 'mvn install' in the Java artifacts")
	f.BoolVarP(&opts.runWidoco, "run-widoco", "w", false, "Generate documentation with Widoco ($WIDOCO_JAR)")
	f.StringSliceVarP(&opts.publish, "publish", "p", nil, "Publish commands to run, by key")

	f.StringVar(&opts.storeLocalCopyOfVocabDirectory, "store-local-copy-of-vocab-directory", "", "Directory for local copies of the vocabularies")
	f.StringVar(&opts.cache, "cache", "", "Cache file for fetched vocabularies")
	f.StringVar(&opts.metricsTextfile, "metrics-textfile", "", "Write metrics to this file after generation")

	cmd.MarkFlagsMutuallyExclusive("input-resources", "vocab-list-file")
	return cmd
}

// loadConfigurations returns the configurations of the vocab list files
// matching the flags, or the single configuration the command line
// describes.
func loadConfigurations(opts *generateOptions, command string) ([]*config.Configuration, error) {
	if opts.vocabListFile == "" {
		cfg, err := config.FromCommandLine(config.CommandLine{
			Command:                        command,
			InputResources:                 opts.inputResources,
			TermSelectionResource:          opts.termSelectionResource,
			NameAndPrefixOverride:          opts.nameAndPrefixOverride,
			NamespaceIRIOverride:           opts.namespaceIRIOverride,
			IgnoreNonVocabTerms:            opts.ignoreNonVocabTerms,
			VocabAcceptHeaderOverride:      opts.vocabAcceptHeaderOverride,
			VocabContentTypeHeaderOverride: opts.vocabContentTypeHeaderOverride,
			VocabContentTypeHeaderFallback: opts.vocabContentTypeHeaderFallback,
			ArtifactVersion:                opts.artifactVersion,
			SolidCommonVocabVersion:        opts.solidCommonVocabVersion,
			NpmRegistry:                    opts.npmRegistry,
			SupportBundling:                opts.supportBundling,
		})
		if err != nil {
			return nil, err
		}
		return []*config.Configuration{cfg}, nil
	}

	files, err := config.ExpandVocabListFiles(opts.vocabListFile, opts.vocabListFileIgnore)
	if err != nil {
		return nil, err
	}
	configs := make([]*config.Configuration, 0, len(files))
	for _, file := range files {
		cfg, err := config.FromConfigFile(file)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

func runGenerate(ctx context.Context, global *globalOptions, opts *generateOptions) error {
	a, err := newApp(global)
	if err != nil {
		return err
	}
	if opts.cache != "" {
		a.settings.Cache.Path = opts.cache
	}
	if opts.metricsTextfile != "" {
		a.settings.Metrics.Textfile = opts.metricsTextfile
	}

	configs, err := loadConfigurations(opts, "generate")
	if err != nil {
		return err
	}

	m := metrics.New()
	reader, closeReader, err := a.reader(m)
	if err != nil {
		return err
	}
	defer closeReader()

	pub := a.publisher()
	defer pub.Close()

	for _, cfg := range configs {
		if err := a.generate(ctx, cfg, reader, m, pub, opts, opts.force); err != nil {
			return err
		}
	}

	if err := m.WriteTextfile(a.settings.Metrics.Textfile); err != nil {
		a.logger.Warn("Failed to write metrics", slog.String("error", err.Error()))
	}
	return nil
}

// generate generates the artifacts of cfg, then runs the requested
// post-generation steps.
func (a *app) generate(ctx context.Context, cfg *config.Configuration, reader *source.Reader, m *metrics.Metrics, pub *notify.Publisher, opts *generateOptions, force bool) error {
	g := generator.New(cfg, reader, generator.Options{
		OutputDirectory:                a.opts.outputDirectory,
		Force:                          force,
		ClearOutputDirectory:           opts.clearOutputDirectory,
		ModuleNamePrefix:               opts.moduleNamePrefix,
		StoreLocalCopyOfVocabDirectory: opts.storeLocalCopyOfVocabDirectory,
		ReportBestPracticeCompliance:   opts.reportBestPracticeCompliance,
		VerifySyntax:                   opts.verifySyntax,
		Concurrency:                    a.settings.Generate.Concurrency,
	}, generator.WithLogger(a.logger), generator.WithMetrics(m), generator.WithPublisher(pub))

	result, err := g.Generate(ctx)
	if err != nil {
		return err
	}
	if !result.Skipped {
		a.logger.Info("Generation complete",
			slog.String("artifact", result.ArtifactName),
			slog.Int("files", len(result.Files)),
			slog.Duration("duration", result.Duration))
	}

	runner := publish.NewRunner(publish.NewExecutor(a.logger, 0), cfg, a.opts.outputDirectory)
	if opts.runNpmInstall {
		if err := runner.NpmInstall(ctx); err != nil {
			return err
		}
	}
	if opts.runMavenInstall {
		if err := runner.MavenInstall(ctx); err != nil {
			return err
		}
	}
	if opts.runWidoco {
		if err := runner.Widoco(ctx); err != nil {
			return err
		}
	}
	if len(opts.publish) > 0 {
		if err := runner.Publish(ctx, opts.publish); err != nil {
			return err
		}
	}
	return nil
}
