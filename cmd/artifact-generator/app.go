package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/artifactgen/config"
	"github.com/c360studio/artifactgen/metrics"
	"github.com/c360studio/artifactgen/notify"
	"github.com/c360studio/artifactgen/source"
	"github.com/c360studio/artifactgen/storage"
)

// globalOptions are the persistent flags of every command.
type globalOptions struct {
	configPath      string
	logLevel        string
	quiet           bool
	outputDirectory string
	noPrompt        bool
	stderr          io.Writer
}

func rootCmd() *cobra.Command {
	opts := &globalOptions{stderr: os.Stderr}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Generate source-code artifacts from RDF vocabularies",
		Long: `The artifact generator reads RDF vocabularies, from local files or online
IRIs, and generates source-code artifacts for them:

- Java classes (RDF4J IRIs, or VocabTerms with labels and comments)
- JavaScript modules of VocabTerms

Each artifact comes with its packaging files (pom.xml, package.json), a
README, and optional versioning files.`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Settings file path (YAML)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress informational logging")
	flags.StringVarP(&opts.outputDirectory, "output-directory", "o", ".", "Output directory for the generated artifacts")
	flags.BoolVar(&opts.noPrompt, "no-prompt", false, "Never ask questions")

	cmd.AddCommand(
		generateCmd(opts),
		initCmd(opts),
		validateCmd(opts),
		watchCmd(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, config.Version, BuildTime)
			},
		},
	)
	return cmd
}

// app holds what every command shares: the settings and the logger.
type app struct {
	opts     *globalOptions
	settings *config.Settings
	logger   *slog.Logger
}

// newApp loads the settings and installs the default logger.
func newApp(opts *globalOptions) (*app, error) {
	bootstrap := slog.New(slog.NewTextHandler(opts.stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	settings, err := config.NewLoader(bootstrap).Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if opts.logLevel != "" {
		settings.Log.Level = strings.ToLower(opts.logLevel)
		if err := settings.Validate(); err != nil {
			return nil, fmt.Errorf("invalid --log-level %q: %w", opts.logLevel, err)
		}
	}
	level := slog.LevelInfo
	switch strings.ToLower(settings.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if opts.quiet && level < slog.LevelWarn {
		level = slog.LevelWarn
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(opts.stderr, handlerOpts)
	if settings.Log.Format == "json" {
		handler = slog.NewJSONHandler(opts.stderr, handlerOpts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	return &app{opts: opts, settings: settings, logger: logger}, nil
}

// reader creates the resource reader, with the fetch cache when one is
// configured. The returned function closes the cache.
func (a *app) reader(m *metrics.Metrics) (*source.Reader, func(), error) {
	fetch := a.settings.Fetch
	readerOpts := []source.ReaderOption{source.WithLogger(a.logger)}
	if m != nil {
		readerOpts = append(readerOpts, source.WithRecorder(m))
	}

	closer := func() {}
	if path := a.settings.Cache.Path; path != "" {
		cache, err := storage.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open cache: %w", err)
		}
		a.logger.Debug("Using vocabulary cache", slog.String("path", cache.Path()))
		readerOpts = append(readerOpts, source.WithCache(cache))
		closer = func() {
			if err := cache.Close(); err != nil {
				a.logger.Warn("Failed to close cache", slog.String("error", err.Error()))
			}
		}
	}

	f := source.NewFetcher(fetch.Timeout, fetch.UserAgent, fetch.MaxContentSize)
	return source.NewReader(f, readerOpts...), closer, nil
}

// publisher connects to NATS when a URL is configured. Generation does
// not depend on it, so a failed connection is only logged.
func (a *app) publisher() *notify.Publisher {
	if a.settings.NATS.URL == "" {
		return nil
	}
	p, err := notify.Connect(a.settings.NATS.URL, a.settings.NATS.Subject, a.logger)
	if err != nil {
		a.logger.Warn("Generation events will not be published",
			slog.String("url", a.settings.NATS.URL),
			slog.String("error", err.Error()))
		return nil
	}
	return p
}
