package providers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "providers.yaml")
	content := `
providers:
  - id: gnews-jp
    name: GNews Japan
    type: GNews
    source_url: https://gnews.io/api/v4/top-headlines
    country: JP
  - id: newsapi-us-cnn
    name: NewsAPI US (CNN)
    type: newsapi
    source_url: https://newsapi.org/v2/top-headlines
    country: us
    selection: source
    source_name: CNN
`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write providers file: %v", err)
	}

	reg, err := LoadRegistry(file)
	if err != nil {
		t.Fatalf("LoadRegistry returned error: %v", err)
	}
	if len(reg.All()) != 2 {
		t.Fatalf("expected 2 providers, got %d", len(reg.All()))
	}

	p, ok := reg.ByID("gnews-jp")
	if !ok {
		t.Fatalf("expected provider id gnews-jp to be loaded")
	}
	if p.Type != ProviderTypeGNews || p.Country != "jp" {
		t.Fatalf("expected normalised type/country, got %q/%q", p.Type, p.Country)
	}
	if p.Selection != SelectFirst {
		t.Fatalf("expected default selection %q, got %q", SelectFirst, p.Selection)
	}

	first, err := reg.Resolve("")
	if err != nil || first.ID != "gnews-jp" {
		t.Fatalf("Resolve(\"\") = %v, %v", first.ID, err)
	}
	cnn, err := reg.Resolve("newsapi-us-cnn")
	if err != nil || cnn.SourceName != "CNN" {
		t.Fatalf("Resolve(newsapi-us-cnn) = %+v, %v", cnn, err)
	}
	if _, err := reg.Resolve("missing"); err == nil {
		t.Fatalf("expected error for unknown provider id")
	}
}

func TestLoadRegistryDuplicateID(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "providers.yaml")
	content := `
providers:
  - id: duplicate
    name: Provider One
    type: gnews
    source_url: https://p1.example
  - id: duplicate
    name: Provider Two
    type: gnews
    source_url: https://p2.example
`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write providers file: %v", err)
	}

	if _, err := LoadRegistry(file); err == nil {
		t.Fatalf("expected duplicate provider error, got nil")
	}
}

func TestValidateProviderRequiresSourceNameForSourceSelection(t *testing.T) {
	_, err := NewRegistry(Provider{
		ID:        "p",
		Name:      "P",
		Type:      ProviderTypeNewsAPI,
		SourceURL: "https://newsapi.org/v2/top-headlines",
		Selection: SelectSource,
	})
	if err == nil {
		t.Fatalf("expected validation error when source_name is missing")
	}
}

func TestDefaultProviderIsValid(t *testing.T) {
	p := DefaultProvider()
	if err := validateProvider(p); err != nil {
		t.Fatalf("default provider invalid: %v", err)
	}
	if p.Country != "jp" || p.Type != ProviderTypeGNews {
		t.Fatalf("unexpected default provider %+v", p)
	}
}
