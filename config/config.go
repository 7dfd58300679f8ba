// Package config provides the artifact generator's settings and the vocab
// list file configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings represents the tool settings, independent of any vocab list.
type Settings struct {
	Log      LogSettings      `yaml:"log"`
	Cache    CacheSettings    `yaml:"cache"`
	Fetch    FetchSettings    `yaml:"fetch"`
	NATS     NATSSettings     `yaml:"nats"`
	Metrics  MetricsSettings  `yaml:"metrics"`
	Generate GenerateSettings `yaml:"generate"`
	Watch    WatchSettings    `yaml:"watch"`
}

// LogSettings configures the slog handler.
type LogSettings struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`
	// Format is text or json
	Format string `yaml:"format"`
}

// CacheSettings configures the fetched-vocabulary cache.
type CacheSettings struct {
	// Path is the bbolt file (empty = no cache)
	Path string `yaml:"path"`
}

// FetchSettings configures online vocabulary fetching.
type FetchSettings struct {
	Timeout        time.Duration `yaml:"timeout"`
	UserAgent      string        `yaml:"user_agent"`
	MaxContentSize int64         `yaml:"max_content_size"`
}

// NATSSettings configures generation event publication.
type NATSSettings struct {
	// URL is the NATS server URL (empty = events are not published)
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// MetricsSettings configures Prometheus metrics exposure.
type MetricsSettings struct {
	// Addr is the listen address of the metrics endpoint in watch mode
	Addr string `yaml:"addr"`
	// Textfile is written after each generation, for the node exporter
	Textfile string `yaml:"textfile"`
}

// GenerateSettings configures generation.
type GenerateSettings struct {
	// Concurrency bounds how many vocabularies are generated at once
	Concurrency int `yaml:"concurrency"`
}

// WatchSettings configures watch mode.
type WatchSettings struct {
	Debounce     time.Duration `yaml:"debounce"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// DefaultSettings returns Settings with sensible defaults.
func DefaultSettings() *Settings {
	return &Settings{
		Log: LogSettings{
			Level:  "info",
			Format: "text",
		},
		Fetch: FetchSettings{
			Timeout:        30 * time.Second,
			UserAgent:      GeneratorName + "/" + Version,
			MaxContentSize: 50 * 1024 * 1024,
		},
		NATS: NATSSettings{
			Subject: "artifactgen.generation",
		},
		Generate: GenerateSettings{
			Concurrency: 4,
		},
		Watch: WatchSettings{
			Debounce:     500 * time.Millisecond,
			PollInterval: 5 * time.Minute,
		},
	}
}

// Validate checks that the settings are usable.
func (s *Settings) Validate() error {
	switch s.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	if s.Log.Format != "text" && s.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json")
	}
	if s.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive")
	}
	if s.Generate.Concurrency < 1 {
		return fmt.Errorf("generate.concurrency must be at least 1")
	}
	if s.NATS.URL != "" && s.NATS.Subject == "" {
		return fmt.Errorf("nats.subject is required when nats.url is set")
	}
	if s.Watch.Debounce <= 0 {
		return fmt.Errorf("watch.debounce must be positive")
	}
	return nil
}

// LoadFromFile loads settings from a YAML file. Fields the file leaves
// unset keep their defaults.
func LoadFromFile(path string) (*Settings, error) {
	layer, err := readLayer(path)
	if err != nil {
		return nil, err
	}
	settings := DefaultSettings()
	settings.Merge(layer)
	return settings, nil
}

// readLayer decodes one settings file into zero-valued Settings, so that
// Merge only copies what the file sets.
func readLayer(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	layer := &Settings{}
	if err := yaml.Unmarshal(data, layer); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}
	return layer, nil
}

// SaveToFile saves settings to a YAML file
func (s *Settings) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}

// Merge merges other into s (other takes precedence for non-zero values)
func (s *Settings) Merge(other *Settings) {
	if other == nil {
		return
	}

	if other.Log.Level != "" {
		s.Log.Level = other.Log.Level
	}
	if other.Log.Format != "" {
		s.Log.Format = other.Log.Format
	}

	if other.Cache.Path != "" {
		s.Cache.Path = other.Cache.Path
	}

	if other.Fetch.Timeout != 0 {
		s.Fetch.Timeout = other.Fetch.Timeout
	}
	if other.Fetch.UserAgent != "" {
		s.Fetch.UserAgent = other.Fetch.UserAgent
	}
	if other.Fetch.MaxContentSize != 0 {
		s.Fetch.MaxContentSize = other.Fetch.MaxContentSize
	}

	if other.NATS.URL != "" {
		s.NATS.URL = other.NATS.URL
	}
	if other.NATS.Subject != "" {
		s.NATS.Subject = other.NATS.Subject
	}

	if other.Metrics.Addr != "" {
		s.Metrics.Addr = other.Metrics.Addr
	}
	if other.Metrics.Textfile != "" {
		s.Metrics.Textfile = other.Metrics.Textfile
	}

	if other.Generate.Concurrency != 0 {
		s.Generate.Concurrency = other.Generate.Concurrency
	}

	if other.Watch.Debounce != 0 {
		s.Watch.Debounce = other.Watch.Debounce
	}
	if other.Watch.PollInterval != 0 {
		s.Watch.PollInterval = other.Watch.PollInterval
	}
}
