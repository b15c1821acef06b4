package providers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Package providers contains pluggable news provider configs (YAML/JSON) and fetchers.

const (
	// Selection policies.
	SelectFirst  = "first"
	SelectSource = "source"
)

// Provider describes one news API endpoint and how to pick a candidate from it.
type Provider struct {
	ID         string         `json:"id" yaml:"id"`
	Name       string         `json:"name" yaml:"name"`
	Type       string         `json:"type" yaml:"type"`
	SourceURL  string         `json:"source_url" yaml:"source_url"`
	Country    string         `json:"country" yaml:"country"`
	Selection  string         `json:"selection" yaml:"selection"`
	SourceName string         `json:"source_name" yaml:"source_name"`
	Config     map[string]any `json:"config" yaml:"config"`
}

type registryFile struct {
	Providers []Provider `json:"providers" yaml:"providers"`
}

// Registry holds the providers loaded from a config file.
type Registry struct {
	mu        sync.RWMutex
	providers []Provider
	idx       map[string]Provider
}

// DefaultProvider mirrors the stock deployment: GNews top headlines for Japan, first article wins.
func DefaultProvider() Provider {
	return sanitizeProvider(Provider{
		ID:        "gnews-jp",
		Name:      "GNews Japan top headlines",
		Type:      ProviderTypeGNews,
		SourceURL: "https://gnews.io/api/v4/top-headlines",
		Country:   "jp",
		Selection: SelectFirst,
	})
}

// NewRegistry builds a registry from in-memory provider definitions.
func NewRegistry(list ...Provider) (*Registry, error) {
	if len(list) == 0 {
		return nil, errors.New("providers registry requires at least one provider")
	}

	reg := &Registry{
		providers: make([]Provider, len(list)),
		idx:       make(map[string]Provider, len(list)),
	}
	for i := range list {
		p := sanitizeProvider(list[i])
		if err := validateProvider(p); err != nil {
			return nil, fmt.Errorf("provider[%d]: %w", i, err)
		}
		if _, exists := reg.idx[p.ID]; exists {
			return nil, fmt.Errorf("duplicate provider id %q", p.ID)
		}
		reg.providers[i] = p
		reg.idx[p.ID] = p
	}
	return reg, nil
}

// LoadRegistry loads the provider registry from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("providers file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open providers file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read providers file: %w", err)
	}

	parsed, err := parseRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.Providers) == 0 {
		return nil, errors.New("providers file contains no providers entries")
	}
	return NewRegistry(parsed.Providers...)
}

func parseRegistry(data []byte, ext string) (registryFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		if reg, err := unmarshalRegistry(d.name, data, d.fn); err == nil {
			return reg, nil
		}
	}

	return registryFile{}, errors.New("providers file format not recognized (expected YAML or JSON)")
}

type unmarshalFn func([]byte, any) error

func unmarshalRegistry(name string, data []byte, fn unmarshalFn) (registryFile, error) {
	var reg registryFile
	if err := fn(data, &reg); err != nil {
		return registryFile{}, fmt.Errorf("decode %s providers: %w", name, err)
	}
	return reg, nil
}

func sanitizeProvider(p Provider) Provider {
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	p.Type = strings.ToLower(strings.TrimSpace(p.Type))
	p.SourceURL = strings.TrimSpace(p.SourceURL)
	p.Country = strings.ToLower(strings.TrimSpace(p.Country))
	p.Selection = strings.ToLower(strings.TrimSpace(p.Selection))
	p.SourceName = strings.TrimSpace(p.SourceName)

	if p.Config == nil {
		p.Config = map[string]any{}
	}
	if p.Selection == "" {
		p.Selection = SelectFirst
	}
	return p
}

func validateProvider(p Provider) error {
	if p.ID == "" {
		return errors.New("id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("name is required for provider %q", p.ID)
	}
	if p.Type == "" {
		return fmt.Errorf("type is required for provider %q", p.ID)
	}
	if p.SourceURL == "" {
		return fmt.Errorf("source_url is required for provider %q", p.ID)
	}
	switch p.Selection {
	case SelectFirst:
	case SelectSource:
		if p.SourceName == "" {
			return fmt.Errorf("source_name is required for provider %q with source selection", p.ID)
		}
	default:
		return fmt.Errorf("unsupported selection %q for provider %q", p.Selection, p.ID)
	}
	return nil
}

// All returns a copy of the loaded providers in file order.
func (r *Registry) All() []Provider {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Provider, len(r.providers))
	copy(out, r.providers)
	return out
}

// ByID returns the provider entry for the given id, if loaded.
func (r *Registry) ByID(id string) (Provider, bool) {
	if r == nil {
		return Provider{}, false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Provider{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.idx[id]
	return p, ok
}

// Resolve returns the provider named by id, or the first provider when id is empty.
func (r *Registry) Resolve(id string) (Provider, error) {
	if strings.TrimSpace(id) != "" {
		p, ok := r.ByID(id)
		if !ok {
			return Provider{}, fmt.Errorf("provider %q not found in registry", id)
		}
		return p, nil
	}
	all := r.All()
	if len(all) == 0 {
		return Provider{}, errors.New("providers registry is empty")
	}
	return all[0], nil
}
