package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.Log.Level != "info" {
		t.Errorf("expected default log level info, got %s", s.Log.Level)
	}
	if s.Fetch.Timeout != 30*time.Second {
		t.Errorf("expected default fetch timeout 30s, got %v", s.Fetch.Timeout)
	}
	if s.Fetch.UserAgent != "artifact-generator/"+Version {
		t.Errorf("unexpected default user agent %s", s.Fetch.UserAgent)
	}
	if s.NATS.URL != "" {
		t.Error("expected no NATS URL by default")
	}
	if s.NATS.Subject != "artifactgen.generation" {
		t.Errorf("expected default subject artifactgen.generation, got %s", s.NATS.Subject)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("default settings should be valid: %v", err)
	}
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Settings)
		wantErr bool
	}{
		{
			name:    "valid defaults",
			modify:  func(s *Settings) {},
			wantErr: false,
		},
		{
			name:    "unknown log level",
			modify:  func(s *Settings) { s.Log.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "unknown log format",
			modify:  func(s *Settings) { s.Log.Format = "xml" },
			wantErr: true,
		},
		{
			name:    "zero fetch timeout",
			modify:  func(s *Settings) { s.Fetch.Timeout = 0 },
			wantErr: true,
		},
		{
			name:    "no concurrency",
			modify:  func(s *Settings) { s.Generate.Concurrency = 0 },
			wantErr: true,
		},
		{
			name: "nats url without subject",
			modify: func(s *Settings) {
				s.NATS.URL = "nats://localhost:4222"
				s.NATS.Subject = ""
			},
			wantErr: true,
		},
		{
			name:    "zero debounce",
			modify:  func(s *Settings) { s.Watch.Debounce = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	content := `
log:
  level: debug
cache:
  path: /tmp/vocabs.db
fetch:
  timeout: 5s
nats:
  url: "nats://test:4222"
generate:
  concurrency: 2
watch:
  poll_interval: 1m
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test settings: %v", err)
	}

	s, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if s.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %s", s.Log.Level)
	}
	// Unset values keep their defaults
	if s.Log.Format != "text" {
		t.Errorf("expected log format text, got %s", s.Log.Format)
	}
	if s.Cache.Path != "/tmp/vocabs.db" {
		t.Errorf("expected cache path /tmp/vocabs.db, got %s", s.Cache.Path)
	}
	if s.Fetch.Timeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", s.Fetch.Timeout)
	}
	if s.NATS.URL != "nats://test:4222" {
		t.Errorf("expected NATS URL nats://test:4222, got %s", s.NATS.URL)
	}
	if s.Generate.Concurrency != 2 {
		t.Errorf("expected concurrency 2, got %d", s.Generate.Concurrency)
	}
	if s.Watch.PollInterval != time.Minute {
		t.Errorf("expected poll interval 1m, got %v", s.Watch.PollInterval)
	}
}

func TestSettingsMerge(t *testing.T) {
	base := DefaultSettings()
	override := &Settings{
		Log: LogSettings{
			Level: "warn",
		},
		Metrics: MetricsSettings{
			Addr: ":9090",
		},
	}

	base.Merge(override)

	if base.Log.Level != "warn" {
		t.Errorf("expected log level warn, got %s", base.Log.Level)
	}
	if base.Log.Format != "text" {
		t.Errorf("expected log format to remain default, got %s", base.Log.Format)
	}
	if base.Metrics.Addr != ":9090" {
		t.Errorf("expected metrics addr :9090, got %s", base.Metrics.Addr)
	}

	base.Merge(nil)
	if base.Log.Level != "warn" {
		t.Error("merging nil should change nothing")
	}
}

func TestSettingsSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "subdir", "config.yaml")

	s := DefaultSettings()
	s.Cache.Path = "saved.db"

	if err := s.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("failed to load saved settings: %v", err)
	}
	if loaded.Cache.Path != "saved.db" {
		t.Errorf("expected cache path saved.db, got %s", loaded.Cache.Path)
	}
	if loaded.Watch.Debounce != s.Watch.Debounce {
		t.Errorf("expected debounce %v, got %v", s.Watch.Debounce, loaded.Watch.Debounce)
	}
}

func TestLoaderLayers(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	work := filepath.Join(project, "vocabs", "nested")
	if err := os.MkdirAll(work, 0755); err != nil {
		t.Fatal(err)
	}

	userPath := filepath.Join(home, UserSettingsDir, UserSettingsFile)
	if err := os.MkdirAll(filepath.Dir(userPath), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(userPath, []byte("log:\n  level: debug\ncache:\n  path: user.db\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(project, ProjectSettingsFile), []byte("cache:\n  path: project.db\n"), 0644); err != nil {
		t.Fatal(err)
	}
	explicit := filepath.Join(t.TempDir(), "explicit.yaml")
	if err := os.WriteFile(explicit, []byte("generate:\n  concurrency: 8\n"), 0644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(nil)
	l.homeDir = home
	l.workDir = work

	s, err := l.Load(explicit)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Log.Level != "debug" {
		t.Errorf("expected user log level debug, got %s", s.Log.Level)
	}
	if s.Cache.Path != "project.db" {
		t.Errorf("expected project settings to win, got %s", s.Cache.Path)
	}
	if s.Generate.Concurrency != 8 {
		t.Errorf("expected explicit concurrency 8, got %d", s.Generate.Concurrency)
	}

	if _, err := l.Load(filepath.Join(project, "missing.yaml")); err == nil {
		t.Error("expected an error for a missing explicit settings file")
	}
}

func TestLoaderEnsureUserSettings(t *testing.T) {
	l := NewLoader(nil)
	l.homeDir = t.TempDir()

	if err := l.EnsureUserSettings(); err != nil {
		t.Fatalf("EnsureUserSettings() error = %v", err)
	}
	path := filepath.Join(l.homeDir, UserSettingsDir, UserSettingsFile)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("user settings not created: %v", err)
	}
	// A second call leaves the file alone
	if err := l.EnsureUserSettings(); err != nil {
		t.Errorf("second EnsureUserSettings() error = %v", err)
	}
}

func TestLoaderKeepsEarlierLayers(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()

	userPath := filepath.Join(home, UserSettingsDir, UserSettingsFile)
	if err := os.MkdirAll(filepath.Dir(userPath), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(userPath, []byte("log:\n  level: debug\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(project, ProjectSettingsFile), []byte("generate:\n  concurrency: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(nil)
	l.homeDir = home
	l.workDir = project

	s, err := l.Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Log.Level != "debug" {
		t.Errorf("project settings reset the user log level: got %s", s.Log.Level)
	}
	if s.Generate.Concurrency != 2 {
		t.Errorf("expected project concurrency 2, got %d", s.Generate.Concurrency)
	}
	if s.Log.Format != "text" || s.Watch.Debounce != DefaultSettings().Watch.Debounce {
		t.Errorf("unset values should keep their defaults, got format %q debounce %v", s.Log.Format, s.Watch.Debounce)
	}
}

func TestReadLayerLeavesUnsetFieldsZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layer.yaml")
	if err := os.WriteFile(path, []byte("cache:\n  path: layer.db\n"), 0644); err != nil {
		t.Fatal(err)
	}

	layer, err := readLayer(path)
	if err != nil {
		t.Fatalf("readLayer() error = %v", err)
	}
	if layer.Cache.Path != "layer.db" {
		t.Errorf("expected cache path layer.db, got %s", layer.Cache.Path)
	}
	if layer.Log.Level != "" || layer.Generate.Concurrency != 0 {
		t.Errorf("expected unset fields to be zero, got level %q concurrency %d", layer.Log.Level, layer.Generate.Concurrency)
	}
}
