package publish

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/c360studio/artifactgen/config"
)

// Runner runs the post-generation steps of one configuration.
type Runner struct {
	exec            *Executor
	cfg             *config.Configuration
	outputDirectory string
	logger          *slog.Logger
}

// NewRunner creates a runner for the artifacts of cfg generated below
// outputDirectory.
func NewRunner(e *Executor, cfg *config.Configuration, outputDirectory string) *Runner {
	return &Runner{exec: e, cfg: cfg, outputDirectory: outputDirectory, logger: e.logger}
}

// Publish runs every configured publish command whose key is in keys, in
// its artifact's directory. It fails if a key matches no command.
func (r *Runner) Publish(ctx context.Context, keys []string) error {
	matched := make(map[string]bool, len(keys))
	for _, artifact := range r.cfg.ArtifactToGenerate {
		dir := r.cfg.ArtifactDirectory(r.outputDirectory, artifact)
		for _, packaging := range artifact.Packaging {
			for _, publish := range packaging.Publish {
				if !slices.Contains(keys, publish.Key) {
					continue
				}
				matched[publish.Key] = true
				r.logger.Info("Publishing artifact",
					slog.String("language", artifact.ProgrammingLanguage),
					slog.String("packaging", packaging.PackagingTool),
					slog.String("key", publish.Key))
				if _, err := r.exec.Run(ctx, dir, publish.Command); err != nil {
					return fmt.Errorf("publish [%s] artifact with key [%s]: %w", artifact.ProgrammingLanguage, publish.Key, err)
				}
			}
		}
	}

	for _, key := range keys {
		if !matched[key] {
			return fmt.Errorf("no publish command with key [%s] is configured in [%s]", key, r.cfg.Source)
		}
	}
	return nil
}

// NpmInstall runs 'npm install' in every JavaScript artifact directory,
// followed by 'npm run dev' for bundled artifacts.
func (r *Runner) NpmInstall(ctx context.Context) error {
	for _, artifact := range r.cfg.ArtifactToGenerate {
		if !strings.EqualFold(artifact.ProgrammingLanguage, "javascript") {
			continue
		}
		command := "npm install"
		if artifact.SupportBundling {
			command += " && npm run dev"
		}
		if _, err := r.exec.Run(ctx, r.cfg.ArtifactDirectory(r.outputDirectory, artifact), command); err != nil {
			return err
		}
	}
	return nil
}

// MavenInstall runs 'mvn install' in every Java artifact directory.
func (r *Runner) MavenInstall(ctx context.Context) error {
	for _, artifact := range r.cfg.ArtifactToGenerate {
		if !artifact.IsJava() {
			continue
		}
		if _, err := r.exec.Run(ctx, r.cfg.ArtifactDirectory(r.outputDirectory, artifact), "mvn install"); err != nil {
			return err
		}
	}
	return nil
}

// Widoco generates documentation for the first input resource into the
// Widoco directory of the bundle. The jar is taken from $WIDOCO_JAR.
func (r *Runner) Widoco(ctx context.Context) error {
	resources := r.cfg.InputResources()
	if len(resources) == 0 {
		return fmt.Errorf("no input resource to document")
	}
	outFolder := filepath.Join(r.cfg.RootDirectory(r.outputDirectory), "Widoco")
	r.logger.Info("Running Widoco",
		slog.String("input", resources[0]),
		slog.String("out", outFolder))
	_, err := r.exec.Run(ctx, "", WidocoCommand(resources[0], outFolder))
	return err
}

// WidocoCommand builds the Widoco command line for input.
func WidocoCommand(input, outFolder string) string {
	inputSwitch := "-ontFile"
	if strings.HasPrefix(input, "http") {
		inputSwitch = "-ontURI"
	}
	return fmt.Sprintf(`java -Dlog4j.configuration=file:"./widoco.log4j.properties" -jar $WIDOCO_JAR %s %s -outFolder %s `+
		"-rewriteAll -getOntologyMetadata -oops -webVowl -htaccess -licensius", inputSwitch, input, outFolder)
}
