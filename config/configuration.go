package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/artifactgen/templates"
)

const (
	// GeneratorName is reported in every generated artifact.
	GeneratorName = "artifact-generator"
	// Version is the generator version reported in every generated artifact.
	Version = "2.0.0"
)

// CommandLineSource names the configuration source when no vocab list
// file is used.
const CommandLineSource = "<Command Line Config>"

// Output layout, below the output directory.
const (
	DefaultDirectoryRoot  = "Generated"
	DirectorySourceCode   = "SourceCodeArtifacts"
	DefaultPublishKey     = "_default"
	DefaultNpmRegistry    = "http://localhost:4873/"
	CommandInitialize     = "init"
	TimestampFormat       = "Monday, January 2, 2006 3:04 PM"
	defaultCLIArtifactDir = "JavaScript"
)

// Configuration describes one artifact bundle: the vocabularies it is
// generated from and the programming language artifacts to produce. It is
// usually read from a vocab list file.
type Configuration struct {
	ArtifactName                  string      `yaml:"artifactName"`
	ArtifactNamePrefix            string      `yaml:"artifactNamePrefix,omitempty"`
	ArtifactNameSuffix            string      `yaml:"artifactNameSuffix,omitempty"`
	ArtifactGeneratorVersion      string      `yaml:"artifactGeneratorVersion"`
	ArtifactDirectoryRootOverride string      `yaml:"artifactDirectoryRootOverride,omitempty"`
	License                       *License    `yaml:"license,omitempty"`
	Versioning                    *Versioning `yaml:"versioning,omitempty"`
	ArtifactToGenerate            []Artifact  `yaml:"artifactToGenerate"`
	VocabList                     []Vocab     `yaml:"vocabList"`

	// Source is the vocab list file, or CommandLineSource.
	Source string `yaml:"-"`
	// VocabListFile is empty when configured from the command line.
	VocabListFile string `yaml:"-"`
}

// License is the license of the generated artifacts. Header is the text of
// the license header file once loaded.
type License struct {
	Name   string `yaml:"name"`
	Path   string `yaml:"path,omitempty"`
	Header string `yaml:"header,omitempty"`
}

// Versioning lists the files generated for the bundle's version control.
type Versioning struct {
	Type                string         `yaml:"type,omitempty"`
	URL                 string         `yaml:"url,omitempty"`
	VersioningTemplates []TemplateFile `yaml:"versioningTemplates,omitempty"`
}

// TemplateFile is a template and the file it renders to. Template is the
// resolved reference, set when the configuration is loaded.
type TemplateFile struct {
	TemplateInternal string `yaml:"templateInternal,omitempty"`
	TemplateCustom   string `yaml:"templateCustom,omitempty"`
	FileName         string `yaml:"fileName"`

	Template string `yaml:"-"`
}

// Artifact configures one programming language artifact.
type Artifact struct {
	ProgrammingLanguage     string      `yaml:"programmingLanguage"`
	ArtifactDirectoryName   string      `yaml:"artifactDirectoryName"`
	TemplateInternal        string      `yaml:"templateInternal,omitempty"`
	TemplateCustom          string      `yaml:"templateCustom,omitempty"`
	SourceFileExtension     string      `yaml:"sourceFileExtension"`
	ArtifactVersion         string      `yaml:"artifactVersion"`
	JavaPackageName         string      `yaml:"javaPackageName,omitempty"`
	SolidCommonVocabVersion string      `yaml:"solidCommonVocabVersion,omitempty"`
	NpmModuleScope          string      `yaml:"npmModuleScope,omitempty"`
	GitRepository           string      `yaml:"gitRepository,omitempty"`
	SupportBundling         bool        `yaml:"supportBundling,omitempty"`
	Packaging               []Packaging `yaml:"packaging,omitempty"`

	SourceCodeTemplate string `yaml:"-"`
}

// IsJava reports whether the artifact is a Java artifact.
func (a Artifact) IsJava() bool {
	return strings.EqualFold(a.ProgrammingLanguage, "java")
}

// Packaging configures a packaging tool (maven, npm, rollup) for an
// artifact.
type Packaging struct {
	PackagingTool      string           `yaml:"packagingTool"`
	PackagingDirectory string           `yaml:"packagingDirectory,omitempty"`
	GroupID            string           `yaml:"groupId,omitempty"`
	NpmModuleScope     string           `yaml:"npmModuleScope,omitempty"`
	Publish            []PublishCommand `yaml:"publish,omitempty"`
	PackagingTemplates []TemplateFile   `yaml:"packagingTemplates"`
	Repository         []Repository     `yaml:"repository,omitempty"`
}

// PublishCommand is a shell command run by 'generate --publish <key>'.
type PublishCommand struct {
	Key     string `yaml:"key"`
	Command string `yaml:"command"`
}

// Repository is a Maven distribution repository.
type Repository struct {
	ID   string `yaml:"id"`
	Type string `yaml:"type"`
	URL  string `yaml:"url"`
}

// Vocab configures one vocabulary of the bundle.
type Vocab struct {
	Description                    string   `yaml:"description,omitempty"`
	InputResources                 []string `yaml:"inputResources"`
	TermSelectionResource          string   `yaml:"termSelectionResource,omitempty"`
	NameAndPrefixOverride          string   `yaml:"nameAndPrefixOverride,omitempty"`
	NamespaceIRIOverride           string   `yaml:"namespaceIriOverride,omitempty"`
	VocabularyIRIOverride          string   `yaml:"vocabularyIriOverride,omitempty"`
	DescriptionFallback            string   `yaml:"descriptionFallback,omitempty"`
	IgnoreNonVocabTerms            bool     `yaml:"ignoreNonVocabTerms,omitempty"`
	VocabAcceptHeaderOverride      string   `yaml:"vocabAcceptHeaderOverride,omitempty"`
	VocabContentTypeHeaderOverride string   `yaml:"vocabContentTypeHeaderOverride,omitempty"`
	VocabContentTypeHeaderFallback string   `yaml:"vocabContentTypeHeaderFallback,omitempty"`
}

// Fallback returns the description to use when the vocabulary has none.
func (v Vocab) Fallback() string {
	if v.DescriptionFallback != "" {
		return v.DescriptionFallback
	}
	return v.Description
}

// FromConfigFile reads and validates a vocab list file.
func FromConfigFile(path string) (*Configuration, error) {
	cfg, err := readConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("Failed to read configuration file [%s]: %w", path, err)
	}
	cfg.Source = path
	cfg.VocabListFile = path

	if err := cfg.normalizePaths(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readConfigFile(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("Empty configuration file: [%s]", path)
	}
	if err := checkInputResourceNodes(root.Content[0], path); err != nil {
		return nil, err
	}

	var cfg Configuration
	if err := root.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.License != nil {
		if cfg.License.Path != "" {
			cfg.License.Path = relativeTo(path, cfg.License.Path)
		}
		if cfg.License.Header != "" {
			header, err := os.ReadFile(relativeTo(path, cfg.License.Header))
			if err != nil {
				return nil, fmt.Errorf("read license header: %w", err)
			}
			cfg.License.Header = string(header)
		}
	}

	if err := cfg.Validate(path); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// checkInputResourceNodes rejects input resources that YAML parsed as
// something other than a string, usually because of a trailing colon.
func checkInputResourceNodes(doc *yaml.Node, source string) error {
	vocabList := mappingValue(doc, "vocabList")
	if vocabList == nil || vocabList.Kind != yaml.SequenceNode {
		return nil
	}
	for i, vocab := range vocabList.Content {
		resources := mappingValue(vocab, "inputResources")
		if resources == nil || resources.Kind != yaml.SequenceNode {
			continue
		}
		for j, resource := range resources.Content {
			if resource.Kind != yaml.ScalarNode {
				return fmt.Errorf("The YAML configuration file [%s] has an invalid non-string input resource "+
					"(in vocab position [%d] and input resource position [%d]) - check if you mistakenly have a "+
					"trailing colon ':' character.", source, i, j)
			}
		}
	}
	return nil
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// Validate checks that every required value is present. source names the
// configuration in error messages.
func (c *Configuration) Validate(source string) error {
	if c.ArtifactName == "" {
		return fmt.Errorf("Missing 'artifactName' field in [%s].", source)
	}
	if c.ArtifactGeneratorVersion == "" {
		return fmt.Errorf("Missing 'artifactGeneratorVersion' field in [%s].", source)
	}
	if c.ArtifactGeneratorVersion != Version {
		slog.Warn("Configuration file was validated for a different version of the generator",
			slog.String("running", Version),
			slog.String("configured", c.ArtifactGeneratorVersion),
			slog.String("source", source))
	}

	if c.ArtifactToGenerate == nil {
		return fmt.Errorf("No artifacts found: nothing to generate. Please edit the YAML configuration file [%s] "+
			"to provide artifacts to be generated.", source)
	}
	for _, artifact := range c.ArtifactToGenerate {
		if err := validateArtifact(artifact); err != nil {
			return err
		}
	}

	if c.VocabList == nil {
		return fmt.Errorf("No vocabularies found: nothing to generate. Please edit the YAML configuration file [%s] "+
			"to provide vocabularies to generate from.", source)
	}
	for i, vocab := range c.VocabList {
		if vocab.InputResources == nil {
			return fmt.Errorf("The YAML configuration file [%s] has no input resources (in vocab position [%d]) - "+
				"check if you have a typo in your intended 'inputResources' fieldname.", source, i)
		}
	}
	return nil
}

func validateArtifact(a Artifact) error {
	if a.ArtifactDirectoryName == "" {
		return fmt.Errorf("The target directory name for the [%s] artifact is missing. Please set a value for "+
			"'artifactDirectoryName'.", a.ProgrammingLanguage)
	}
	for _, p := range a.Packaging {
		if p.PackagingTemplates == nil {
			return fmt.Errorf("No templates associated to packaging tool [%s]", p.PackagingTool)
		}
	}
	return nil
}

// normalizePaths resolves every template reference, and makes local
// vocabulary resources relative to the vocab list file.
func (c *Configuration) normalizePaths() error {
	if c.Versioning != nil {
		for i := range c.Versioning.VersioningTemplates {
			if err := c.resolveTemplateFile(&c.Versioning.VersioningTemplates[i]); err != nil {
				return err
			}
		}
	}

	for i := range c.ArtifactToGenerate {
		a := &c.ArtifactToGenerate[i]
		ref, err := ResolveTemplate(a.TemplateInternal, a.TemplateCustom, c.Source)
		if err != nil {
			return err
		}
		a.SourceCodeTemplate = ref

		for j := range a.Packaging {
			for k := range a.Packaging[j].PackagingTemplates {
				if err := c.resolveTemplateFile(&a.Packaging[j].PackagingTemplates[k]); err != nil {
					return err
				}
			}
		}
	}

	if c.Source == CommandLineSource {
		return nil
	}
	for i := range c.VocabList {
		v := &c.VocabList[i]
		for j, resource := range v.InputResources {
			if !isOnline(resource) {
				v.InputResources[j] = relativeTo(c.Source, resource)
			}
		}
		if v.TermSelectionResource != "" && !isOnline(v.TermSelectionResource) {
			v.TermSelectionResource = relativeTo(c.Source, v.TermSelectionResource)
		}
	}
	return nil
}

func (c *Configuration) resolveTemplateFile(f *TemplateFile) error {
	ref, err := ResolveTemplate(f.TemplateInternal, f.TemplateCustom, c.Source)
	if err != nil {
		return err
	}
	f.Template = ref
	return nil
}

// ResolveTemplate resolves a template given as an internal name or as a
// custom path relative to source.
func ResolveTemplate(internal, custom, source string) (string, error) {
	switch {
	case internal != "":
		name, ok := templates.Resolve(internal)
		if !ok {
			return "", fmt.Errorf("Unknown internal template [%s] (working with a normalized configuration file "+
				"path of [%s]).", internal, source)
		}
		return templates.Embedded(name), nil
	case custom != "":
		return relativeTo(source, custom), nil
	default:
		return "", fmt.Errorf("We require either an internal or a custom template file, but neither was provided "+
			"(working with a normalized configuration file path of [%s]).", source)
	}
}

// relativeTo resolves p against the directory of source. Absolute paths
// are returned unchanged.
func relativeTo(source, p string) string {
	if filepath.IsAbs(p) || source == CommandLineSource {
		return p
	}
	return filepath.Join(filepath.Dir(source), p)
}

func isOnline(resource string) bool {
	return strings.HasPrefix(resource, "http")
}

// ArtifactDirectoryRoot is the bundle's directory below the output
// directory.
func (c *Configuration) ArtifactDirectoryRoot() string {
	if c.ArtifactDirectoryRootOverride != "" {
		return c.ArtifactDirectoryRootOverride
	}
	return DefaultDirectoryRoot
}

// RootDirectory is the bundle's directory.
func (c *Configuration) RootDirectory(outputDirectory string) string {
	return filepath.Join(outputDirectory, c.ArtifactDirectoryRoot())
}

// SourceCodeDirectory holds one directory per programming language.
func (c *Configuration) SourceCodeDirectory(outputDirectory string) string {
	return filepath.Join(c.RootDirectory(outputDirectory), DirectorySourceCode)
}

// ArtifactDirectory is where the artifact for a is generated.
func (c *Configuration) ArtifactDirectory(outputDirectory string, a Artifact) string {
	return filepath.Join(c.SourceCodeDirectory(outputDirectory), a.ArtifactDirectoryName)
}

// Timestamp formats t the way generated files report it.
func Timestamp(t time.Time) string {
	return t.Format(TimestampFormat)
}
