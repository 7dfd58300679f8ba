package generator

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/c360studio/artifactgen/config"
	"github.com/c360studio/artifactgen/templates"
)

// ReadmeFile is generated in every packaged artifact directory.
const ReadmeFile = "README.md"

var undefinedVariableRe = regexp.MustCompile(`(?:can't evaluate field|map has no entry for key) "?([A-Za-z0-9_]+)"?`)

// FileGenerator renders templates into files.
type FileGenerator struct {
	markdown *markdownConverter
	logger   *slog.Logger
}

// NewFileGenerator creates a file generator.
func NewFileGenerator(logger *slog.Logger) *FileGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileGenerator{markdown: newMarkdownConverter(), logger: logger}
}

// Render renders the template ref with data into outputFile, creating its
// directory. from names the configuration in undefined-variable errors.
func (g *FileGenerator) Render(ref string, data any, outputFile, from string) error {
	name := strings.TrimPrefix(ref, templates.EmbeddedPrefix)

	tmpl, err := templates.Load(ref)
	if err != nil {
		return fmt.Errorf("Failed to read template file [%s] trying to generate output file [%s]. Error: %w", name, outputFile, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		if m := undefinedVariableRe.FindStringSubmatch(err.Error()); m != nil {
			return fmt.Errorf("Undefined template variable: [%s] was used in template [%s], but was not defined. "+
				"Configuration from: [%s].", m[1], name, from)
		}
		return fmt.Errorf("render template [%s]: %w", name, err)
	}

	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return fmt.Errorf("create directory for [%s]: %w", outputFile, err)
	}
	if err := os.WriteFile(outputFile, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write [%s]: %w", outputFile, err)
	}

	g.logger.Debug("Generated file", slog.String("path", outputFile), slog.String("template", name))
	return nil
}

// SourceCodeDirectory is where the vocabulary source files of an artifact
// go: the Maven source layout of the Java package, or GeneratedVocab.
func SourceCodeDirectory(artifactDirectory string, a config.Artifact) string {
	if a.JavaPackageName != "" {
		pkgPath := strings.ReplaceAll(a.JavaPackageName, ".", string(filepath.Separator))
		return filepath.Join(artifactDirectory, "src", "main", "java", pkgPath)
	}
	return filepath.Join(artifactDirectory, "GeneratedVocab")
}

// SourceCodeFile is the path of the source file generated for className.
func SourceCodeFile(artifactDirectory string, a config.Artifact, className string) string {
	return filepath.Join(SourceCodeDirectory(artifactDirectory, a), className+"."+a.SourceFileExtension)
}

// CreateSourceCodeFile renders the artifact's source template for one
// vocabulary and returns the generated file.
func (g *FileGenerator) CreateSourceCodeFile(data *SourceData, artifactDirectory string) (string, error) {
	path := SourceCodeFile(artifactDirectory, data.Artifact, data.ClassName)
	from := configuredFrom(data.VocabListFile, data.InputResources)

	if err := g.Render(data.Artifact.SourceCodeTemplate, data, path, from); err != nil {
		return "", fmt.Errorf("Failed to generate [%s] source-code file in artifact directory [%s]. Error: %w",
			data.Artifact.ProgrammingLanguage, artifactDirectory, err)
	}
	return path, nil
}

// CreatePackagingFiles renders the packaging templates of every packaging
// tool of the artifact, followed by the artifact's README.
func (g *FileGenerator) CreatePackagingFiles(data PackageData, artifactDirectory string) ([]string, error) {
	var files []string
	from := configuredFrom(data.VocabListFile, data.InputResources)

	for _, packaging := range data.Artifact.Packaging {
		dir := artifactDirectory
		if packaging.PackagingDirectory != "" {
			dir = filepath.Join(artifactDirectory, packaging.PackagingDirectory)
		}

		for _, file := range packaging.PackagingTemplates {
			fileData := data
			fileData.Packaging = packaging
			fileData.TemplateFile = file.Template
			if strings.EqualFold(filepath.Ext(file.FileName), ".json") {
				escaped, err := templates.EscapeForJSON(data.Description)
				if err != nil {
					return files, err
				}
				fileData.Description = escaped
			}

			path := filepath.Join(dir, file.FileName)
			if err := g.Render(file.Template, fileData, path, from); err != nil {
				return files, err
			}
			files = append(files, path)
		}
	}

	if len(data.Artifact.Packaging) == 0 {
		return files, nil
	}
	readme, err := g.CreateReadme(data, artifactDirectory)
	if err != nil {
		return files, err
	}
	return append(files, readme), nil
}

// CreateReadme renders the README of an artifact, with the first packaging
// tool's details. HTML in vocabulary descriptions becomes Markdown, and a
// bundle from a vocab list file lists its vocabularies as bullet points.
func (g *FileGenerator) CreateReadme(data PackageData, artifactDirectory string) (string, error) {
	if len(data.Artifact.Packaging) > 0 {
		data.Packaging = data.Artifact.Packaging[0]
	}
	data.Description = g.readmeDescription(data)
	data.TemplateFile = templates.Embedded(templates.Readme)

	path := filepath.Join(artifactDirectory, ReadmeFile)
	if err := g.Render(data.TemplateFile, data, path, configuredFrom(data.VocabListFile, data.InputResources)); err != nil {
		return "", err
	}
	return path, nil
}

func (g *FileGenerator) readmeDescription(data PackageData) string {
	if data.VocabListFile == "" || len(data.GeneratedVocabs) == 0 {
		return g.markdown.Convert(data.Description)
	}

	var b strings.Builder
	b.WriteString(bundleDescriptionHeading)
	for _, v := range data.GeneratedVocabs {
		b.WriteString("\n\n  * ")
		b.WriteString(v.VocabName)
		b.WriteString(": ")
		b.WriteString(g.markdown.Convert(v.Description))
	}
	return b.String()
}

// CreateVersioningFiles renders the versioning templates into the bundle's
// root directory.
func (g *FileGenerator) CreateVersioningFiles(data PackageData, rootDirectory string) ([]string, error) {
	if data.Versioning == nil {
		return nil, nil
	}

	var files []string
	for _, file := range data.Versioning.VersioningTemplates {
		fileData := data
		fileData.TemplateFile = file.Template

		path := filepath.Join(rootDirectory, file.FileName)
		if err := g.Render(file.Template, fileData, path, configuredFrom(data.VocabListFile, data.InputResources)); err != nil {
			return files, err
		}
		files = append(files, path)
	}
	return files, nil
}
