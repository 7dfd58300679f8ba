package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/c360studio/artifactgen/config"
	"github.com/c360studio/artifactgen/export"
	"github.com/c360studio/artifactgen/generator"
	"github.com/c360studio/artifactgen/metrics"
	"github.com/c360studio/artifactgen/verify"
	"github.com/c360studio/artifactgen/watcher"
)

func initCmd(global *globalOptions) *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   config.CommandInitialize,
		Short: "Create an initial vocab list file",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(global)
			if err != nil {
				return err
			}
			if interactive && global.noPrompt {
				return errors.New("--interactive cannot be combined with --no-prompt")
			}

			g := generator.NewConfigFileGenerator(cmd.InOrStdin(), cmd.OutOrStdout())
			var path string
			if interactive {
				path, err = g.GenerateInteractive(global.outputDirectory)
			} else {
				path, err = g.GenerateDefault(global.outputDirectory)
			}
			if err != nil {
				return err
			}
			a.logger.Info("Created configuration file", slog.String("path", path))
			return nil
		},
	}
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Ask for the configuration instead of writing the default")
	return cmd
}

func validateCmd(global *globalOptions) *cobra.Command {
	var vocabListFile, dumpDirectory, dumpFormat string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a vocab list file and the artifacts generated from it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runValidate(cmd.Context(), global, vocabListFile, dumpDirectory, export.Format(dumpFormat)); err != nil {
				return fmt.Errorf("Configuration validation failed: [%w]", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&vocabListFile, "vocab-list-file", "l", "", "YAML vocab list file")
	cmd.Flags().StringVar(&dumpDirectory, "dump", "", "Write the RDF read for each vocabulary to this directory")
	cmd.Flags().StringVar(&dumpFormat, "dump-format", string(export.FormatTurtle), "Serialization of the dumped RDF (turtle, ntriples)")
	_ = cmd.MarkFlagRequired("vocab-list-file")
	return cmd
}

func runValidate(ctx context.Context, global *globalOptions, vocabListFile, dumpDirectory string, dumpFormat export.Format) error {
	a, err := newApp(global)
	if err != nil {
		return err
	}

	cfg, err := config.FromConfigFile(vocabListFile)
	if err != nil {
		return err
	}
	if err := generator.Validate(cfg); err != nil {
		return err
	}
	a.logger.Info("Configuration is valid", slog.String("file", vocabListFile))

	if dumpDirectory != "" {
		if err := a.dump(ctx, cfg, dumpDirectory, dumpFormat); err != nil {
			return err
		}
	}

	var problems []string
	for _, artifact := range cfg.ArtifactToGenerate {
		dir := cfg.ArtifactDirectory(global.outputDirectory, artifact)
		if _, err := os.Stat(dir); err != nil {
			a.logger.Debug("No generated artifact to check", slog.String("directory", dir))
			continue
		}
		invalid, err := verify.CheckDirectory(ctx, dir)
		if err != nil {
			return err
		}
		for _, syntaxErr := range invalid {
			problems = append(problems, syntaxErr.Error())
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("generated artifacts have syntax errors:\n%s", strings.Join(problems, "\n"))
	}
	return nil
}

// dump writes what the generator reads for each vocabulary of cfg, one file
// per vocabulary.
func (a *app) dump(ctx context.Context, cfg *config.Configuration, dir string, format export.Format) error {
	serialization, ok := export.SerializationOf(format)
	if !ok {
		return fmt.Errorf("unsupported dump format: %s", format)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create dump directory: %w", err)
	}

	reader, closeReader, err := a.reader(nil)
	if err != nil {
		return err
	}
	defer closeReader()

	g := generator.NewVocabGenerator(reader, nil, a.logger)
	for i, v := range cfg.VocabList {
		full, _, err := g.Read(ctx, v, "")
		if err != nil {
			return err
		}
		out, err := export.NewExporter().WithPrefix(v.NameAndPrefixOverride, v.NamespaceIRIOverride).Export(full, format)
		if err != nil {
			return err
		}

		name := v.NameAndPrefixOverride
		if name == "" {
			name = fmt.Sprintf("vocab-%d", i+1)
		}
		path := filepath.Join(dir, name+serialization.Extension)
		if err := os.WriteFile(path, []byte(out), 0644); err != nil {
			return fmt.Errorf("write dump: %w", err)
		}
		a.logger.Info("Dumped vocabulary", slog.String("path", path), slog.Int("quads", full.Len()))
	}
	return nil
}

func watchCmd(global *globalOptions) *cobra.Command {
	opts := &generateOptions{reportBestPracticeCompliance: true, verifySyntax: true, moduleNamePrefix: "generated-vocab-"}
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate artifacts whenever their vocabularies change",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return runWatch(ctx, global, opts, metricsAddr)
		},
	}
	cmd.Flags().StringVarP(&opts.vocabListFile, "vocab-list-file", "l", "", "YAML vocab list file (glob patterns allowed)")
	cmd.Flags().StringVar(&opts.vocabListFileIgnore, "vocab-list-file-ignore", "", "Glob of vocab list files to ignore")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	_ = cmd.MarkFlagRequired("vocab-list-file")
	return cmd
}

func runWatch(ctx context.Context, global *globalOptions, opts *generateOptions, metricsAddr string) error {
	a, err := newApp(global)
	if err != nil {
		return err
	}
	if metricsAddr != "" {
		a.settings.Metrics.Addr = metricsAddr
	}

	configs, err := loadConfigurations(opts, "watch")
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
		if err := a.generate(ctx, cfg, reader, m, pub, opts, false); err != nil {
			a.logger.Error("Generation process failed", slog.String("source", cfg.Source), slog.String("error", err.Error()))
		}
	}

	regenerate := func(ctx context.Context, changed []string) error {
		var errs []error
		for i, cfg := range configs {
			if !uses(cfg, changed) {
				continue
			}
			if listChanged(cfg, changed) {
				reloaded, err := config.FromConfigFile(cfg.VocabListFile)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				configs[i], cfg = reloaded, reloaded
			}
			if err := a.generate(ctx, cfg, reader, m, pub, opts, true); err != nil {
				errs = append(errs, fmt.Errorf("[%s]: %w", cfg.Source, err))
			}
		}
		if err := m.WriteTextfile(a.settings.Metrics.Textfile); err != nil {
			a.logger.Warn("Failed to write metrics", slog.String("error", err.Error()))
		}
		return errors.Join(errs...)
	}

	w, err := watcher.New(watcher.Config{
		Debounce:     a.settings.Watch.Debounce,
		PollInterval: a.settings.Watch.PollInterval,
	}, configs, reader, regenerate, a.logger)
	if err != nil {
		return fmt.Errorf("Failed to initialise watcher: [%w]", err)
	}

	eg, egCtx := errgroup.WithContext(ctx)
	if addr := a.settings.Metrics.Addr; addr != "" {
		eg.Go(func() error { return m.Serve(egCtx, addr, a.logger) })
	}
	eg.Go(func() error { return w.Run(egCtx) })
	return eg.Wait()
}

// uses reports whether cfg reads any of the changed resources.
func uses(cfg *config.Configuration, changed []string) bool {
	local, online := watcher.Targets([]*config.Configuration{cfg})
	for _, resource := range changed {
		if slices.Contains(local, resource) || slices.Contains(online, resource) {
			return true
		}
	}
	return false
}

// listChanged reports whether the vocab list file of cfg itself changed.
func listChanged(cfg *config.Configuration, changed []string) bool {
	if cfg.VocabListFile == "" {
		return false
	}
	path, err := filepath.Abs(cfg.VocabListFile)
	if err != nil {
		return false
	}
	return slices.Contains(changed, path)
}
