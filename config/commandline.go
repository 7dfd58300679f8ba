package config

import (
	"errors"
	"strings"

	"github.com/c360studio/artifactgen/templates"
)

// ErrMissingInput is returned when the command line names no vocabulary.
var ErrMissingInput = errors.New("Missing input resource. Please provide either a YAML configuration file, or at least one input resource.")

const npmPublishLocal = "npm unpublish --force --registry " + DefaultNpmRegistry +
	" && npm install --registry " + DefaultNpmRegistry +
	" && npm publish --registry " + DefaultNpmRegistry

// CommandLine holds the generation options given as flags instead of a
// vocab list file.
type CommandLine struct {
	// Command is the subcommand being run. init needs no input.
	Command string

	InputResources        []string
	TermSelectionResource string
	NameAndPrefixOverride string
	NamespaceIRIOverride  string
	IgnoreNonVocabTerms   bool

	VocabAcceptHeaderOverride      string
	VocabContentTypeHeaderOverride string
	VocabContentTypeHeaderFallback string

	ArtifactVersion         string
	SolidCommonVocabVersion string
	NpmRegistry             string
	SupportBundling         bool
}

// FromCommandLine builds a configuration of one vocabulary and a single
// JavaScript artifact packaged with npm.
func FromCommandLine(cl CommandLine) (*Configuration, error) {
	if cl.Command != CommandInitialize && len(cl.InputResources) == 0 {
		return nil, ErrMissingInput
	}

	cfg := &Configuration{
		ArtifactGeneratorVersion: Version,
		ArtifactToGenerate:       []Artifact{commandLineArtifact(cl)},
		VocabList: []Vocab{{
			InputResources:                 cl.InputResources,
			TermSelectionResource:          cl.TermSelectionResource,
			NameAndPrefixOverride:          cl.NameAndPrefixOverride,
			NamespaceIRIOverride:           cl.NamespaceIRIOverride,
			IgnoreNonVocabTerms:            cl.IgnoreNonVocabTerms,
			VocabAcceptHeaderOverride:      cl.VocabAcceptHeaderOverride,
			VocabContentTypeHeaderOverride: cl.VocabContentTypeHeaderOverride,
			VocabContentTypeHeaderFallback: cl.VocabContentTypeHeaderFallback,
		}},
		Source: CommandLineSource,
	}

	if err := cfg.normalizePaths(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func commandLineArtifact(cl CommandLine) Artifact {
	npm := Packaging{
		PackagingTool: "npm",
		Publish: []PublishCommand{{
			Key:     "local",
			Command: npmPublishLocal,
		}},
		PackagingTemplates: []TemplateFile{
			{TemplateInternal: templates.JavaScriptPackage, FileName: "package.json"},
			{TemplateInternal: templates.JavaScriptIndex, FileName: "index.js"},
		},
	}
	if cl.NpmRegistry != "" {
		npm.Publish[0] = PublishCommand{
			Key:     DefaultPublishKey,
			Command: strings.ReplaceAll(npmPublishLocal, DefaultNpmRegistry, cl.NpmRegistry),
		}
	}

	artifact := Artifact{
		ProgrammingLanguage:     "JavaScript",
		ArtifactDirectoryName:   defaultCLIArtifactDir,
		TemplateInternal:        templates.JavaScriptVocab,
		SourceFileExtension:     "js",
		ArtifactVersion:         cl.ArtifactVersion,
		SolidCommonVocabVersion: cl.SolidCommonVocabVersion,
		SupportBundling:         cl.SupportBundling,
	}

	if cl.SupportBundling {
		artifact.Packaging = []Packaging{npm, {
			PackagingTool:      "rollup",
			PackagingDirectory: "config",
			PackagingTemplates: []TemplateFile{
				{TemplateInternal: templates.RollupConfig, FileName: "rollup.config.js"},
			},
		}}
	} else {
		npm.PackagingTemplates = append(npm.PackagingTemplates,
			TemplateFile{TemplateInternal: templates.JavaScriptWrapper, FileName: "wrapper.js"})
		artifact.Packaging = []Packaging{npm}
	}
	return artifact
}
