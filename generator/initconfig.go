package generator

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/artifactgen/config"
	"github.com/c360studio/artifactgen/templates"
)

// DefaultConfigFile is the vocab list file created by 'init'.
const DefaultConfigFile = "vocab-list.yml"

// ErrNoLanguage is returned when no target language was chosen.
var ErrNoLanguage = errors.New("You must choose at least one target language.")

// ConfigFileGenerator creates an initial vocab list file, either the
// built-in default or one assembled from answers to prompts.
type ConfigFileGenerator struct {
	in  *bufio.Reader
	out io.Writer
	now func() time.Time
}

// NewConfigFileGenerator creates a generator prompting on out and reading
// answers from in.
func NewConfigFileGenerator(in io.Reader, out io.Writer) *ConfigFileGenerator {
	return &ConfigFileGenerator{in: bufio.NewReader(in), out: out, now: time.Now}
}

// GenerateDefault writes the built-in default configuration into dir and
// returns its path.
func (g *ConfigFileGenerator) GenerateDefault(dir string) (string, error) {
	tmpl, err := templates.Load(templates.Embedded(templates.InitialConfig))
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, map[string]string{
		"GeneratorName":            config.GeneratorName,
		"ArtifactGeneratorVersion": config.Version,
		"GeneratedTimestamp":       config.Timestamp(g.now()),
	})
	if err != nil {
		return "", fmt.Errorf("render initial configuration: %w", err)
	}
	return writeConfigFile(dir, buf.Bytes())
}

// GenerateInteractive asks for the bundle settings, then writes the
// resulting configuration into dir and returns its path.
func (g *ConfigFileGenerator) GenerateInteractive(dir string) (string, error) {
	cfg, err := g.collect()
	if err != nil {
		return "", err
	}
	if len(cfg.ArtifactToGenerate) == 0 && len(cfg.VocabList) == 0 {
		return "", fmt.Errorf("Invalid configuration: [%s] cannot be used to generate the configuration YAML file.", describeConfig(cfg))
	}

	body, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal configuration: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "#\n# Generated by [%s], version [%s] on '%s'.\n#\n",
		config.GeneratorName, config.Version, config.Timestamp(g.now()))
	buf.Write(body)
	return writeConfigFile(dir, buf.Bytes())
}

func writeConfigFile(dir string, content []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create directory [%s]: %w", dir, err)
	}
	path := filepath.Join(dir, DefaultConfigFile)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("write configuration file [%s]: %w", path, err)
	}
	return path, nil
}

func describeConfig(cfg *config.Configuration) string {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return cfg.ArtifactName
	}
	return strings.TrimSpace(string(b))
}

func (g *ConfigFileGenerator) collect() (*config.Configuration, error) {
	cfg := &config.Configuration{ArtifactGeneratorVersion: config.Version}

	var err error
	if cfg.ArtifactName, err = g.ask("Name of the artifacts:", ""); err != nil {
		return nil, err
	}

	if cfg.Versioning, err = g.askVersioning(); err != nil {
		return nil, err
	}

	languages, err := g.ask("Target languages (Java, JavaScript), comma-separated:", "JavaScript")
	if err != nil {
		return nil, err
	}
	chosen := splitList(languages)
	if len(chosen) == 0 {
		return nil, ErrNoLanguage
	}
	for _, language := range chosen {
		artifact, err := g.askArtifact(language)
		if err != nil {
			return nil, err
		}
		cfg.ArtifactToGenerate = append(cfg.ArtifactToGenerate, artifact)
	}

	for {
		more, err := g.confirm("Do you want to add a vocabulary to the list ?", false)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
		v, err := g.askVocab()
		if err != nil {
			return nil, err
		}
		cfg.VocabList = append(cfg.VocabList, v)
	}
	return cfg, nil
}

func (g *ConfigFileGenerator) askVersioning() (*config.Versioning, error) {
	kind, err := g.ask("Versioning system (git, svn, none):", "git")
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(kind, "none") {
		return nil, nil
	}

	v := &config.Versioning{Type: kind}
	if v.URL, err = g.ask("What is the URL of the repository ?", ""); err != nil {
		return nil, err
	}
	tmpl, err := g.ask("Versioning template:", ".gitignore.hbs")
	if err != nil {
		return nil, err
	}
	v.VersioningTemplates = []config.TemplateFile{{TemplateInternal: tmpl, FileName: ".gitignore"}}
	return v, nil
}

func (g *ConfigFileGenerator) askArtifact(language string) (config.Artifact, error) {
	var (
		a   config.Artifact
		err error
	)
	switch strings.ToLower(language) {
	case "java":
		a = config.Artifact{
			ProgrammingLanguage:   "Java",
			ArtifactDirectoryName: "Java",
			TemplateInternal:      templates.JavaVocabTerm,
			SourceFileExtension:   "java",
		}
		if a.JavaPackageName, err = g.ask("Enter Java package name", "com.example.java.packagename"); err != nil {
			return a, err
		}
	case "javascript":
		a = config.Artifact{
			ProgrammingLanguage:   "JavaScript",
			ArtifactDirectoryName: "JavaScript",
			TemplateInternal:      templates.JavaScriptVocab,
			SourceFileExtension:   "js",
		}
	default:
		return a, fmt.Errorf("Unsported language: no config generator is registered for [%s]", language)
	}

	if a.ArtifactVersion, err = g.ask("Version of the artifact:", "0.1.0"); err != nil {
		return a, err
	}
	termDefault := "0.1.0"
	if a.IsJava() {
		termDefault = "0.1.0-SNAPSHOT"
	}
	if a.SolidCommonVocabVersion, err = g.ask("Version string for Vocab Term dependency:", termDefault); err != nil {
		return a, err
	}

	var p config.Packaging
	if a.IsJava() {
		p, err = g.askMaven()
	} else {
		p, err = g.askNpm()
	}
	if err != nil {
		return a, err
	}
	a.Packaging = []config.Packaging{p}
	return a, nil
}

func (g *ConfigFileGenerator) askMaven() (config.Packaging, error) {
	p := config.Packaging{PackagingTool: "maven"}

	var err error
	if p.GroupID, err = g.ask("Maven groupId:", "com.example.groupId"); err != nil {
		return p, err
	}
	if p.Publish, err = g.askPublish("mvn install", "mvn deploy"); err != nil {
		return p, err
	}
	pom, err := g.ask("POM template:", templates.JavaPOM)
	if err != nil {
		return p, err
	}
	p.PackagingTemplates = []config.TemplateFile{{TemplateInternal: pom, FileName: "pom.xml"}}

	for {
		more, err := g.confirm("Do you want to add a repository to the list ?", false)
		if err != nil {
			return p, err
		}
		if !more {
			return p, nil
		}
		var r config.Repository
		if r.ID, err = g.ask("Repository id:", ""); err != nil {
			return p, err
		}
		if r.Type, err = g.ask("Repository type (repository, snapshotRepository):", "repository"); err != nil {
			return p, err
		}
		if r.URL, err = g.ask("Repository URL:", ""); err != nil {
			return p, err
		}
		p.Repository = append(p.Repository, r)
	}
}

func (g *ConfigFileGenerator) askNpm() (config.Packaging, error) {
	p := config.Packaging{PackagingTool: "npm"}

	var err error
	if p.NpmModuleScope, err = g.ask("npm module scope:", "@example/scope"); err != nil {
		return p, err
	}
	if p.Publish, err = g.askPublish("npm publish --registry http://localhost:4873", "npm publish"); err != nil {
		return p, err
	}
	pkg, err := g.ask("package.json template:", templates.JavaScriptPackage)
	if err != nil {
		return p, err
	}
	index, err := g.ask("index.js template:", templates.JavaScriptIndex)
	if err != nil {
		return p, err
	}
	p.PackagingTemplates = []config.TemplateFile{
		{TemplateInternal: pkg, FileName: "package.json"},
		{TemplateInternal: index, FileName: "index.js"},
	}
	return p, nil
}

func (g *ConfigFileGenerator) askPublish(local, remote string) ([]config.PublishCommand, error) {
	localCmd, err := g.ask("Command to publish locally:", local)
	if err != nil {
		return nil, err
	}
	remoteCmd, err := g.ask("Command to publish remotely:", remote)
	if err != nil {
		return nil, err
	}
	return []config.PublishCommand{
		{Key: "local", Command: localCmd},
		{Key: "remote", Command: remoteCmd},
	}, nil
}

func (g *ConfigFileGenerator) askVocab() (config.Vocab, error) {
	var v config.Vocab

	resources, err := g.ask("Input resources (comma-separated):", "")
	if err != nil {
		return v, err
	}
	v.InputResources = splitList(resources)
	if v.NameAndPrefixOverride, err = g.ask("Name and prefix override:", ""); err != nil {
		return v, err
	}
	if v.Description, err = g.ask("Description:", ""); err != nil {
		return v, err
	}
	if v.TermSelectionResource, err = g.ask("Term selection resource:", ""); err != nil {
		return v, err
	}
	return v, nil
}

// ask prints question and returns the trimmed answer, or def when the
// answer is empty. End of input answers with the default.
func (g *ConfigFileGenerator) ask(question, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(g.out, "%s (%s) ", question, def)
	} else {
		fmt.Fprintf(g.out, "%s ", question)
	}

	line, err := g.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read answer: %w", err)
	}
	answer := strings.TrimSpace(line)
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

func (g *ConfigFileGenerator) confirm(question string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	answer, err := g.ask(question+" ["+hint+"]", "")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	}
	return def, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
