package extract

import (
	"sync"

	"github.com/pkg/errors"
)

// Factory creates an Extractor instance.
type Factory func() Extractor

// Registry maintains language extractors keyed by name and file extension.
// Thread-safe for concurrent access.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory // language name → factory
	extMap    map[string]string  // extension → language name
}

// NewRegistry creates an empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		extMap:    make(map[string]string),
	}
}

// Register adds an extractor factory for the given extensions. Extensions
// include the leading dot (".ts", ".py"). The first registration wins on an
// extension conflict.
func (r *Registry) Register(name string, extensions []string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[name] = factory
	for _, ext := range extensions {
		if _, exists := r.extMap[ext]; !exists {
			r.extMap[ext] = name
		}
	}
}

// Create instantiates an extractor by language name.
func (r *Registry) Create(name string) (Extractor, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.Errorf("no extractor registered for language: %s", name)
	}
	return factory(), nil
}

// LanguageForExtension returns the language registered for a file extension.
func (r *Registry) LanguageForExtension(ext string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.extMap[ext]
	return name, ok
}

// ExtensionsFor returns all extensions mapped to a language.
func (r *Registry) ExtensionsFor(name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var extensions []string
	for ext, lang := range r.extMap {
		if lang == name {
			extensions = append(extensions, ext)
		}
	}
	return extensions
}

// Languages returns all registered language names.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}

// HasLanguage returns true if an extractor is registered under name.
func (r *Registry) HasLanguage(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[name]
	return ok
}

// DefaultRegistry is the global extractor registry. Language packages
// register themselves via init().
var DefaultRegistry = NewRegistry()
