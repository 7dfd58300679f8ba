package config

import (
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// ProjectSettingsFile is the name of the project-level settings file
	ProjectSettingsFile = "artifact-generator.yaml"
	// UserSettingsDir is the directory for user-level settings
	UserSettingsDir = ".config/artifact-generator"
	// UserSettingsFile is the name of the user-level settings file
	UserSettingsFile = "config.yaml"
)

// Loader handles settings loading with layered precedence
type Loader struct {
	logger *slog.Logger

	// workDir and homeDir default to the process's; tests override them.
	workDir string
	homeDir string
}

// NewLoader creates a new settings loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load loads settings with layered precedence:
// 1. Default settings
// 2. User settings (~/.config/artifact-generator/config.yaml)
// 3. Project settings (artifact-generator.yaml in current or parent directories)
// 4. An explicit file, if path is set
func (l *Loader) Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	userPath := l.userSettingsPath()
	if userPath != "" {
		if user, err := readLayer(userPath); err == nil {
			l.logger.Debug("Loaded user settings", slog.String("path", userPath))
			settings.Merge(user)
		} else if _, statErr := os.Stat(userPath); !os.IsNotExist(statErr) {
			l.logger.Warn("Failed to load user settings", slog.String("path", userPath), slog.String("error", err.Error()))
		}
	}

	if projectPath := l.findProjectSettings(); projectPath != "" {
		if project, err := readLayer(projectPath); err == nil {
			l.logger.Debug("Loaded project settings", slog.String("path", projectPath))
			settings.Merge(project)
		} else {
			l.logger.Warn("Failed to load project settings", slog.String("path", projectPath), slog.String("error", err.Error()))
		}
	} else {
		l.logger.Debug("No project settings found")
	}

	if path != "" {
		explicit, err := readLayer(path)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded settings", slog.String("path", path))
		settings.Merge(explicit)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

// EnsureUserSettings creates the user settings file with defaults if it doesn't exist
func (l *Loader) EnsureUserSettings() error {
	userPath := l.userSettingsPath()

	if _, err := os.Stat(userPath); err == nil {
		return nil
	}

	if err := DefaultSettings().SaveToFile(userPath); err != nil {
		return err
	}

	l.logger.Info("Created default user settings", slog.String("path", userPath))
	return nil
}

// userSettingsPath returns the path to the user settings file
func (l *Loader) userSettingsPath() string {
	home := l.homeDir
	if home == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(home, UserSettingsDir, UserSettingsFile)
}

// findProjectSettings searches for artifact-generator.yaml in current and parent directories
func (l *Loader) findProjectSettings() string {
	dir := l.workDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return ""
		}
		dir = cwd
	}

	for {
		path := filepath.Join(dir, ProjectSettingsFile)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
