package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/artifactgen/templates"
)

const validConfig = `
artifactName: generated-vocab-common
artifactGeneratorVersion: 2.0.0
license:
  name: MIT
  path: LICENSE
artifactToGenerate:
  - programmingLanguage: Java
    artifactDirectoryName: Java
    templateInternal: java/rdf4j/vocabterm.tmpl
    sourceFileExtension: java
    artifactVersion: 0.1.0
    javaPackageName: com.example.vocab
    packaging:
      - packagingTool: maven
        groupId: com.example
        packagingTemplates:
          - templateInternal: java/pom.tmpl
            fileName: pom.xml
  - programmingLanguage: JavaScript
    artifactDirectoryName: JavaScript
    templateCustom: templates/custom.tmpl
    sourceFileExtension: js
    artifactVersion: 0.1.0
versioning:
  type: git
  versioningTemplates:
    - templateInternal: .gitignore.hbs
      fileName: .gitignore
vocabList:
  - description: Schema.org subset
    inputResources:
      - https://schema.org/version/latest/schemaorg-current-https.ttl
    termSelectionResource: selection/schema.ttl
  - inputResources:
      - vocabs/local.ttl
      - /abs/other.ttl
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vocab-list.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFromConfigFile(t *testing.T) {
	path := writeConfig(t, validConfig)
	dir := filepath.Dir(path)

	cfg, err := FromConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, "generated-vocab-common", cfg.ArtifactName)
	assert.Equal(t, path, cfg.Source)
	assert.Equal(t, path, cfg.VocabListFile)
	assert.Equal(t, filepath.Join(dir, "LICENSE"), cfg.License.Path)

	require.Len(t, cfg.ArtifactToGenerate, 2)
	java := cfg.ArtifactToGenerate[0]
	assert.True(t, java.IsJava())
	assert.Equal(t, templates.Embedded(templates.JavaVocabTerm), java.SourceCodeTemplate)
	assert.Equal(t, templates.Embedded(templates.JavaPOM), java.Packaging[0].PackagingTemplates[0].Template)
	assert.Equal(t, filepath.Join(dir, "templates", "custom.tmpl"), cfg.ArtifactToGenerate[1].SourceCodeTemplate)
	assert.Equal(t, templates.Embedded(templates.Gitignore), cfg.Versioning.VersioningTemplates[0].Template)

	require.Len(t, cfg.VocabList, 2)
	assert.Equal(t, "https://schema.org/version/latest/schemaorg-current-https.ttl", cfg.VocabList[0].InputResources[0])
	assert.Equal(t, filepath.Join(dir, "selection", "schema.ttl"), cfg.VocabList[0].TermSelectionResource)
	assert.Equal(t, []string{filepath.Join(dir, "vocabs", "local.ttl"), "/abs/other.ttl"}, cfg.VocabList[1].InputResources)
	assert.Equal(t, "Schema.org subset", cfg.VocabList[0].Fallback())
}

func TestFromConfigFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "empty file",
			content: "",
			wantErr: "Empty configuration file",
		},
		{
			name:    "invalid yaml",
			content: "artifactName: [unclosed",
			wantErr: "Failed to read configuration file",
		},
		{
			name:    "missing artifact name",
			content: "artifactGeneratorVersion: 2.0.0\n",
			wantErr: "Missing 'artifactName' field in",
		},
		{
			name:    "missing generator version",
			content: "artifactName: x\n",
			wantErr: "Missing 'artifactGeneratorVersion' field in",
		},
		{
			name:    "no artifacts",
			content: "artifactName: x\nartifactGeneratorVersion: 2.0.0\n",
			wantErr: "No artifacts found: nothing to generate.",
		},
		{
			name: "artifact without directory",
			content: `artifactName: x
artifactGeneratorVersion: 2.0.0
artifactToGenerate:
  - programmingLanguage: Java
`,
			wantErr: "The target directory name for the [Java] artifact is missing.",
		},
		{
			name: "packaging without templates",
			content: `artifactName: x
artifactGeneratorVersion: 2.0.0
artifactToGenerate:
  - programmingLanguage: Java
    artifactDirectoryName: Java
    packaging:
      - packagingTool: maven
`,
			wantErr: "No templates associated to packaging tool [maven]",
		},
		{
			name: "no vocabularies",
			content: `artifactName: x
artifactGeneratorVersion: 2.0.0
artifactToGenerate:
  - programmingLanguage: Java
    artifactDirectoryName: Java
    templateInternal: java/rdf4j/vocab.tmpl
`,
			wantErr: "No vocabularies found: nothing to generate.",
		},
		{
			name: "vocab without input resources",
			content: `artifactName: x
artifactGeneratorVersion: 2.0.0
artifactToGenerate:
  - programmingLanguage: Java
    artifactDirectoryName: Java
    templateInternal: java/rdf4j/vocab.tmpl
vocabList:
  - inputResource:
      - a.ttl
`,
			wantErr: "has no input resources (in vocab position [0])",
		},
		{
			name: "trailing colon on input resource",
			content: `artifactName: x
artifactGeneratorVersion: 2.0.0
artifactToGenerate:
  - programmingLanguage: Java
    artifactDirectoryName: Java
    templateInternal: java/rdf4j/vocab.tmpl
vocabList:
  - inputResources:
      - a.ttl
  - inputResources:
      - b.ttl
      - c.ttl:
`,
			wantErr: "(in vocab position [1] and input resource position [1])",
		},
		{
			name: "no template",
			content: `artifactName: x
artifactGeneratorVersion: 2.0.0
artifactToGenerate:
  - programmingLanguage: Java
    artifactDirectoryName: Java
vocabList:
  - inputResources:
      - a.ttl
`,
			wantErr: "We require either an internal or a custom template file",
		},
		{
			name: "unknown internal template",
			content: `artifactName: x
artifactGeneratorVersion: 2.0.0
artifactToGenerate:
  - programmingLanguage: Java
    artifactDirectoryName: Java
    templateInternal: java/nope.tmpl
vocabList:
  - inputResources:
      - a.ttl
`,
			wantErr: "Unknown internal template [java/nope.tmpl]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromConfigFile(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFromConfigFileVersionMismatchIsNotAnError(t *testing.T) {
	content := `artifactName: x
artifactGeneratorVersion: 0.1.0
artifactToGenerate:
  - programmingLanguage: Java
    artifactDirectoryName: Java
    templateInternal: java/rdf4j/vocab.tmpl
vocabList:
  - inputResources:
      - a.ttl
`
	cfg, err := FromConfigFile(writeConfig(t, content))
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", cfg.ArtifactGeneratorVersion)
}

func TestFromCommandLine(t *testing.T) {
	t.Run("requires input", func(t *testing.T) {
		_, err := FromCommandLine(CommandLine{Command: "generate"})
		assert.ErrorIs(t, err, ErrMissingInput)

		_, err = FromCommandLine(CommandLine{Command: CommandInitialize})
		assert.NoError(t, err)
	})

	t.Run("default npm packaging", func(t *testing.T) {
		cfg, err := FromCommandLine(CommandLine{
			Command:         "generate",
			InputResources:  []string{"relative/schema.ttl"},
			ArtifactVersion: "1.0.0",
		})
		require.NoError(t, err)

		assert.Equal(t, CommandLineSource, cfg.Source)
		assert.Empty(t, cfg.VocabListFile)
		assert.Equal(t, []string{"relative/schema.ttl"}, cfg.InputResources())

		require.Len(t, cfg.ArtifactToGenerate, 1)
		a := cfg.ArtifactToGenerate[0]
		assert.Equal(t, "JavaScript", a.ArtifactDirectoryName)
		assert.Equal(t, "js", a.SourceFileExtension)
		assert.Equal(t, templates.Embedded(templates.JavaScriptVocab), a.SourceCodeTemplate)

		require.Len(t, a.Packaging, 1)
		npm := a.Packaging[0]
		assert.Equal(t, "local", npm.Publish[0].Key)
		assert.Contains(t, npm.Publish[0].Command, "--registry http://localhost:4873/")
		require.Len(t, npm.PackagingTemplates, 3)
		assert.Equal(t, "wrapper.js", npm.PackagingTemplates[2].FileName)
		assert.Equal(t, templates.Embedded(templates.JavaScriptWrapper), npm.PackagingTemplates[2].Template)
	})

	t.Run("custom registry and bundling", func(t *testing.T) {
		cfg, err := FromCommandLine(CommandLine{
			InputResources:  []string{"a.ttl"},
			NpmRegistry:     "https://registry.example.com/",
			SupportBundling: true,
		})
		require.NoError(t, err)

		a := cfg.ArtifactToGenerate[0]
		require.Len(t, a.Packaging, 2)
		assert.Equal(t, DefaultPublishKey, a.Packaging[0].Publish[0].Key)
		assert.NotContains(t, a.Packaging[0].Publish[0].Command, "localhost")
		assert.Contains(t, a.Packaging[0].Publish[0].Command, "npm publish --registry https://registry.example.com/")
		assert.Len(t, a.Packaging[0].PackagingTemplates, 2)
		assert.Equal(t, "rollup", a.Packaging[1].PackagingTool)
		assert.Equal(t, "config", a.Packaging[1].PackagingDirectory)
	})
}

func TestDirectories(t *testing.T) {
	cfg := &Configuration{}
	a := Artifact{ArtifactDirectoryName: "Java"}

	assert.Equal(t, filepath.Join("out", "Generated"), cfg.RootDirectory("out"))
	assert.Equal(t, filepath.Join("out", "Generated", "SourceCodeArtifacts", "Java"), cfg.ArtifactDirectory("out", a))

	cfg.ArtifactDirectoryRootOverride = "Bundle"
	assert.Equal(t, filepath.Join("out", "Bundle", "SourceCodeArtifacts"), cfg.SourceCodeDirectory("out"))
}

func TestTimestamp(t *testing.T) {
	ts := time.Date(2020, time.March, 4, 15, 7, 0, 0, time.UTC)
	assert.Equal(t, "Wednesday, March 4, 2020 3:07 PM", Timestamp(ts))
}

type fakeModified map[string]time.Time

func (f fakeModified) LastModified(_ context.Context, resource string) (time.Time, error) {
	return f[resource], nil
}

func TestInputResourcesChangedSince(t *testing.T) {
	since := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	before := since.Add(-time.Hour)
	after := since.Add(time.Hour)

	cfg := &Configuration{VocabList: []Vocab{
		{InputResources: []string{"a.ttl", "b.ttl"}, TermSelectionResource: "sel.ttl"},
		{InputResources: []string{"c.ttl", "d.ttl"}},
	}}

	tests := []struct {
		name     string
		modified fakeModified
		want     []string
	}{
		{
			name:     "nothing changed",
			modified: fakeModified{"a.ttl": before, "b.ttl": before, "sel.ttl": before, "c.ttl": before, "d.ttl": before},
		},
		{
			name:     "one input changed",
			modified: fakeModified{"a.ttl": before, "b.ttl": before, "sel.ttl": before, "c.ttl": before, "d.ttl": after},
			want:     []string{"d.ttl"},
		},
		{
			name:     "term selection changed",
			modified: fakeModified{"a.ttl": before, "b.ttl": before, "sel.ttl": after, "c.ttl": before, "d.ttl": before},
			want:     []string{"a.ttl", "b.ttl"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cfg.InputResourcesChangedSince(context.Background(), tt.modified, since)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandVocabListFiles(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"a/one.yml", "a/b/two.yml", "skip/three.yml", "a/notes.txt"} {
		path := filepath.Join(dir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}

	files, err := ExpandVocabListFiles(filepath.Join(dir, "**", "*.yml"), filepath.Join(dir, "skip"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a", "b", "two.yml"),
		filepath.Join(dir, "a", "one.yml"),
	}, files)

	_, err = ExpandVocabListFiles(filepath.Join(dir, "**", "*.json"), "")
	assert.ErrorContains(t, err, "No vocab list files found")
}
