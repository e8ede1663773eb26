package vault

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/FelixBrandt/PressPass/internal/pkg/env"
)

// Locator is the internal storage address of a premium article. Locators
// come exclusively from configuration; no caller-supplied string ever
// participates in building one, which removes path traversal as a
// representable state.
type Locator struct {
	Backend     string `json:"backend"` // "local" or "s3"
	Path        string `json:"path"`    // relative file path or object key
	ContentType string `json:"content_type"`
}

// Registry is the fixed mapping from public article slugs to storage
// locators. It is the only component allowed to resolve a slug.
type Registry struct {
	entries map[string]Locator
}

var (
	registry     *Registry
	registryOnce sync.Once
)

// NewRegistry builds a registry from a slug -> locator map.
func NewRegistry(entries map[string]Locator) *Registry {
	m := make(map[string]Locator, len(entries))
	for slug, loc := range entries {
		m[slug] = loc
	}
	return &Registry{entries: m}
}

// LoadRegistryFile reads a JSON slug -> locator map from disk.
func LoadRegistryFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read article registry: %w", err)
	}
	var entries map[string]Locator
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse article registry: %w", err)
	}
	return NewRegistry(entries), nil
}

// SetupRegistry loads the registry from ARTICLE_REGISTRY_FILE; without one
// the service starts with an empty registry and serves nothing.
func SetupRegistry() {
	registryOnce.Do(func() {
		path := env.GetEnv("ARTICLE_REGISTRY_FILE", "")
		if path == "" {
			registry = NewRegistry(nil)
			return
		}
		r, err := LoadRegistryFile(path)
		if err != nil {
			panic(err)
		}
		registry = r
	})
}

// GetRegistry returns the global registry instance.
func GetRegistry() *Registry {
	if registry == nil {
		SetupRegistry()
	}
	return registry
}

// SetRegistry overrides the global registry, used by tests.
func SetRegistry(r *Registry) {
	registry = r
}

// Resolve maps a public slug to its locator. The second return value is
// false for any slug not present in the registry.
func (r *Registry) Resolve(slug string) (Locator, bool) {
	loc, ok := r.entries[slug]
	return loc, ok
}
