package integrations

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const catalogOverrideEnv = "INTEGRATION_CATALOG_YAML"

//go:embed catalog.yaml
var catalogFS embed.FS

type catalogFile struct {
	Catalog   string     `yaml:"catalog"`
	Version   int        `yaml:"version"`
	Providers []Provider `yaml:"providers"`
}

// Provider is one catalog entry.
type Provider struct {
	Key         string   `yaml:"key"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	RequiredEnv string   `yaml:"required_env"`
	EntityTypes []string `yaml:"entity_types"`
}

// LoadCatalog reads the embedded provider catalog, or the file named by
// INTEGRATION_CATALOG_YAML when set.
func LoadCatalog() ([]Provider, error) {
	data, err := readCatalog()
	if err != nil {
		return nil, err
	}
	return parseCatalog(data)
}

func readCatalog() ([]byte, error) {
	if path := strings.TrimSpace(os.Getenv(catalogOverrideEnv)); path != "" {
		return os.ReadFile(path)
	}
	return catalogFS.ReadFile("catalog.yaml")
}

func parseCatalog(data []byte) ([]Provider, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if strings.TrimSpace(f.Catalog) != "integrations" {
		return nil, fmt.Errorf("unexpected catalog: %s", f.Catalog)
	}
	if len(f.Providers) == 0 {
		return nil, errors.New("no providers defined")
	}
	seen := map[string]bool{}
	for i := range f.Providers {
		p := &f.Providers[i]
		p.Key = strings.TrimSpace(p.Key)
		if p.Key == "" {
			return nil, errors.New("provider key is required")
		}
		if seen[p.Key] {
			return nil, fmt.Errorf("duplicate provider key: %s", p.Key)
		}
		seen[p.Key] = true
		if p.Name == "" {
			p.Name = p.Key
		}
	}
	return f.Providers, nil
}

// Registry joins the catalog with the handlers that can actually run.
type Registry struct {
	providers []Provider
	byKey     map[string]Provider
	handlers  map[string]Handler
	getenv    func(string) string
}

// NewRegistry builds a registry. A nil getenv reads the process environment.
func NewRegistry(catalog []Provider, handlers map[string]Handler, getenv func(string) string) *Registry {
	if getenv == nil {
		getenv = os.Getenv
	}
	r := &Registry{
		providers: catalog,
		byKey:     make(map[string]Provider, len(catalog)),
		handlers:  handlers,
		getenv:    getenv,
	}
	if r.handlers == nil {
		r.handlers = map[string]Handler{}
	}
	for _, p := range catalog {
		r.byKey[p.Key] = p
	}
	return r
}

func (r *Registry) Get(key string) (Provider, bool) {
	p, ok := r.byKey[key]
	return p, ok
}

// IsAvailable reports whether key is catalogued and its credential, if any, is set.
func (r *Registry) IsAvailable(key string) bool {
	p, ok := r.byKey[key]
	if !ok {
		return false
	}
	return p.RequiredEnv == "" || strings.TrimSpace(r.getenv(p.RequiredEnv)) != ""
}

// Available lists available providers in catalog order.
func (r *Registry) Available() []Provider {
	out := make([]Provider, 0, len(r.providers))
	for _, p := range r.providers {
		if r.IsAvailable(p.Key) {
			out = append(out, p)
		}
	}
	return out
}

// Handler returns the handler for key. Catalogued providers without a
// processor (igdb) report false.
func (r *Registry) Handler(key string) (Handler, bool) {
	h, ok := r.handlers[key]
	return h, ok
}

// PromptLines renders "key: name - Relevant for: types" for each provider.
func PromptLines(providers []Provider) string {
	var b strings.Builder
	for _, p := range providers {
		fmt.Fprintf(&b, "%s: %s - Relevant for: %s\n", p.Key, p.Name, strings.Join(p.EntityTypes, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}
