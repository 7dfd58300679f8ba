package generator

import (
	"strings"

	"github.com/c360studio/artifactgen/bestpractice"
	"github.com/c360studio/artifactgen/config"
	"github.com/c360studio/artifactgen/vocab"
)

// SourceData is the data of a vocabulary source code template.
type SourceData struct {
	*vocab.TemplateInput

	Artifact config.Artifact
	License  *config.License

	// ClassName is the generated class (and file) name:
	// nameAndPrefixOverride, or the upper-cased vocab name.
	ClassName string
	// VocabPrefix is nameAndPrefixOverride, or the vocab name.
	VocabPrefix string

	// BestPractice is nil unless compliance reporting is enabled.
	BestPractice *bestpractice.Report

	TemplateFile string
}

func newSourceData(in *vocab.TemplateInput, artifact config.Artifact, license *config.License, report *bestpractice.Report) *SourceData {
	data := &SourceData{
		TemplateInput: in,
		Artifact:      artifact,
		License:       license,
		ClassName:     in.VocabNameUpperCase,
		VocabPrefix:   in.VocabName,
		BestPractice:  report,
		TemplateFile:  artifact.SourceCodeTemplate,
	}
	if in.NameAndPrefixOverride != "" {
		data.ClassName = in.NameAndPrefixOverride
		data.VocabPrefix = in.NameAndPrefixOverride
	}
	return data
}

// GeneratedVocab is one vocabulary of the bundle, as listed by the index
// and README templates.
type GeneratedVocab struct {
	VocabName          string
	VocabNameUpperCase string
	ClassName          string
	Description        string
}

// PackageData is the data of packaging, README and versioning templates.
type PackageData struct {
	ArtifactName             string
	GeneratorName            string
	ArtifactGeneratorVersion string
	GeneratedTimestamp       string

	// Description is the bundle description, escaped for JSON when the
	// target file is JSON.
	Description string
	Authors     string
	License     *config.License

	VocabListFile   string
	InputResources  []string
	GeneratedVocabs []GeneratedVocab

	Artifact   config.Artifact
	Packaging  config.Packaging
	Versioning *config.Versioning

	TemplateFile string
}

// configuredFrom names the configuration in undefined-variable errors.
func configuredFrom(vocabListFile string, inputResources []string) string {
	if vocabListFile != "" {
		return vocabListFile
	}
	return strings.Join(inputResources, ",")
}
