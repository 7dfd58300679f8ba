package generator

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/artifactgen/config"
	"github.com/c360studio/artifactgen/templates"
	"github.com/c360studio/artifactgen/vocab"
)

func TestRenderUndefinedVariable(t *testing.T) {
	dir := t.TempDir()
	tmpl := writeFile(t, filepath.Join(dir, "custom.tmpl"), "const x = {{.NoSuchField}};\n")

	g := NewFileGenerator(discardLogger())
	data := newSourceData(&vocab.TemplateInput{VocabName: "pet", VocabNameUpperCase: "PET"}, config.Artifact{}, nil, nil)

	err := g.Render(tmpl, data, filepath.Join(dir, "out.js"), "vocab-list.yml")
	require.Error(t, err)
	assert.Equal(t, "Undefined template variable: [NoSuchField] was used in template ["+tmpl+
		"], but was not defined. Configuration from: [vocab-list.yml].", err.Error())
	assert.NoFileExists(t, filepath.Join(dir, "out.js"))
}

func TestRenderMissingTemplate(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.tmpl")

	err := NewFileGenerator(discardLogger()).Render(missing, nil, filepath.Join(dir, "out.txt"), "cli")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to read template file ["+missing+"] trying to generate output file [")
}

func TestSourceCodeFile(t *testing.T) {
	tests := []struct {
		name     string
		artifact config.Artifact
		want     string
	}{
		{
			name:     "java package layout",
			artifact: config.Artifact{JavaPackageName: "com.example.vocab", SourceFileExtension: "java"},
			want:     filepath.Join("out", "src", "main", "java", "com", "example", "vocab", "PET.java"),
		},
		{
			name:     "generated vocab directory",
			artifact: config.Artifact{SourceFileExtension: "js"},
			want:     filepath.Join("out", "GeneratedVocab", "PET.js"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SourceCodeFile("out", tt.artifact, "PET"))
		})
	}
}

func TestSourceDataOverride(t *testing.T) {
	in := &vocab.TemplateInput{VocabName: "pet", VocabNameUpperCase: "PET"}
	data := newSourceData(in, config.Artifact{}, nil, nil)
	assert.Equal(t, "PET", data.ClassName)
	assert.Equal(t, "pet", data.VocabPrefix)

	in.NameAndPrefixOverride = "animal"
	data = newSourceData(in, config.Artifact{}, nil, nil)
	assert.Equal(t, "animal", data.ClassName)
	assert.Equal(t, "animal", data.VocabPrefix)
}

func TestCreatePackagingFilesEscapesJSON(t *testing.T) {
	dir := t.TempDir()
	pkg := writeFile(t, filepath.Join(dir, "pkg.tmpl"), `{"description": "{{.Description}}"}`)
	txt := writeFile(t, filepath.Join(dir, "notes.tmpl"), `{{.Description}}`)

	data := PackageData{
		Description: "Line one \"quoted\"\n\nline two",
		Artifact: config.Artifact{
			ProgrammingLanguage: "JavaScript",
			Packaging: []config.Packaging{{
				PackagingTool: "npm",
				PackagingTemplates: []config.TemplateFile{
					{FileName: "package.json", Template: pkg},
					{FileName: "notes.txt", Template: txt},
				},
			}},
		},
	}

	out := filepath.Join(dir, "artifact")
	files, err := NewFileGenerator(discardLogger()).CreatePackagingFiles(data, out)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(out, "package.json"),
		filepath.Join(out, "notes.txt"),
		filepath.Join(out, ReadmeFile),
	}, files)

	assert.Equal(t, `{"description": "Line one \"quoted\"\n\nline two"}`, readFile(t, filepath.Join(out, "package.json")))
	assert.Equal(t, "Line one \"quoted\"\n\nline two", readFile(t, filepath.Join(out, "notes.txt")))
}

func TestCreatePackagingFilesDirectory(t *testing.T) {
	dir := t.TempDir()
	data := PackageData{
		ArtifactName: "generated-vocab-pet",
		Artifact: config.Artifact{
			ProgrammingLanguage: "JavaScript",
			Packaging: []config.Packaging{{
				PackagingTool:      "rollup",
				PackagingDirectory: "config",
				PackagingTemplates: []config.TemplateFile{
					{FileName: "rollup.config.js", Template: templates.Embedded(templates.RollupConfig)},
				},
			}},
		},
	}

	files, err := NewFileGenerator(discardLogger()).CreatePackagingFiles(data, dir)
	require.NoError(t, err)
	assert.Contains(t, files, filepath.Join(dir, "config", "rollup.config.js"))
	assert.FileExists(t, filepath.Join(dir, ReadmeFile))
}

func TestCreatePackagingFilesWithoutPackaging(t *testing.T) {
	files, err := NewFileGenerator(discardLogger()).CreatePackagingFiles(PackageData{}, t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestReadmeDescription(t *testing.T) {
	g := NewFileGenerator(discardLogger())

	single := PackageData{Description: "Terms for <b>describing</b> pets."}
	assert.Equal(t, "Terms for **describing** pets.", g.readmeDescription(single))

	bundle := PackageData{
		VocabListFile: "vocab-list.yml",
		Description:   "ignored",
		GeneratedVocabs: []GeneratedVocab{
			{VocabName: "pet", Description: "Terms for <b>describing</b> pets."},
			{VocabName: "plant", Description: "Terms for plants."},
		},
	}
	assert.Equal(t, bundleDescriptionHeading+
		"\n\n  * pet: Terms for **describing** pets."+
		"\n\n  * plant: Terms for plants.", g.readmeDescription(bundle))
}

func TestCreateVersioningFiles(t *testing.T) {
	dir := t.TempDir()
	g := NewFileGenerator(discardLogger())

	files, err := g.CreateVersioningFiles(PackageData{}, dir)
	require.NoError(t, err)
	assert.Empty(t, files)

	data := PackageData{Versioning: &config.Versioning{
		Type: "git",
		VersioningTemplates: []config.TemplateFile{
			{FileName: ".gitignore", Template: templates.Embedded(templates.Gitignore)},
		},
	}}
	files, err = g.CreateVersioningFiles(data, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, ".gitignore")}, files)
}

func TestMarkdownConvert(t *testing.T) {
	m := newMarkdownConverter()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain text untouched", in: "Terms for pets.", want: "Terms for pets."},
		{name: "bold", in: "Terms for <b>describing</b> pets.", want: "Terms for **describing** pets."},
		{name: "script removed", in: "<p>Hello</p><script>alert(1)</script>", want: "Hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Convert(tt.in))
		})
	}
}
