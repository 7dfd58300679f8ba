package verify

import (
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
)

// LanguageFactory returns the tree-sitter grammar of a language.
type LanguageFactory func() *sitter.Language

// Registry maps programming language names and source file extensions to
// grammars. Thread-safe for concurrent access.
type Registry struct {
	mu        sync.RWMutex
	languages map[string]LanguageFactory // lower-cased name → grammar
	extMap    map[string]string          // extension → name
}

// DefaultRegistry knows the languages the built-in templates generate.
var DefaultRegistry = NewRegistry()

func init() {
	DefaultRegistry.Register("java", []string{".java"}, java.GetLanguage)
	DefaultRegistry.Register("javascript", []string{".js", ".mjs", ".cjs"}, javascript.GetLanguage)
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		languages: make(map[string]LanguageFactory),
		extMap:    make(map[string]string),
	}
}

// Register adds a grammar. The first registration of an extension wins.
func (r *Registry) Register(name string, extensions []string, factory LanguageFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name = strings.ToLower(name)
	r.languages[name] = factory
	for _, ext := range extensions {
		if _, exists := r.extMap[ext]; !exists {
			r.extMap[ext] = name
		}
	}
}

// Language returns the grammar registered under name, ignoring case.
func (r *Registry) Language(name string) (*sitter.Language, bool) {
	r.mu.RLock()
	factory, ok := r.languages[strings.ToLower(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return factory(), true
}

// LanguageForExtension returns the language name registered for ext, which
// includes the leading dot.
func (r *Registry) LanguageForExtension(ext string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.extMap[strings.ToLower(ext)]
	return name, ok
}
