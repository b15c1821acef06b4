package notifiers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notifiers.yaml")
	raw := `
notifiers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: HTTP
    http:
      url: " https://example.com/2 "
  - id: failures
    type: sns
    only_failures: true
    sns:
      topic_arn: arn:aws:sns:ap-northeast-1:123456789012:relay
      region: ap-northeast-1
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 2 || enabled[0].ID != "http2" || enabled[1].ID != "failures" {
		t.Fatalf("expected http2 and failures enabled, got %#v", enabled)
	}

	h, ok := reg.ByID("http2")
	if !ok {
		t.Fatalf("ByID(http2) not found")
	}
	if h.Type != TypeHTTP || h.HTTP.URL != "https://example.com/2" {
		t.Fatalf("config not sanitized: %#v", h.HTTP)
	}
	if h.HTTP.Method != "POST" || h.HTTP.TimeoutSeconds != 5 {
		t.Fatalf("defaults not applied: %#v", h.HTTP)
	}
	if f, _ := reg.ByID("failures"); !f.OnlyFailures {
		t.Fatalf("only_failures not decoded")
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notifiers.json")
	raw := `{"notifiers":[{"id":"q","type":"sqs","sqs":{"uri":"https://sqs.example/q","region":"us-east-1"}}]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if len(reg.All()) != 1 {
		t.Fatalf("expected 1 notifier, got %d", len(reg.All()))
	}
}

func TestLoadRegistryRejectsDuplicateIDs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notifiers.yaml")
	raw := `
notifiers:
  - id: dup
    type: http
    http: {url: https://a.example}
  - id: dup
    type: http
    http: {url: https://b.example}
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestValidateNotifierConfig(t *testing.T) {
	cases := map[string]NotifierConfig{
		"missing id":      {Type: TypeHTTP},
		"missing type":    {ID: "x"},
		"missing http":    {ID: "h1", Type: TypeHTTP},
		"sqs no region":   {ID: "q", Type: TypeSQS, SQS: &SQSConfig{QueueURL: "https://q"}},
		"sns no topic":    {ID: "s", Type: TypeSNS, SNS: &SNSConfig{Region: "us-east-1"}},
		"pubsub no topic": {ID: "g", Type: TypeGCPPubSub, GCP: &GCPQueueConfig{ProjectID: "p"}},
	}
	for name, cfg := range cases {
		if err := validateNotifierConfig(cfg); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}
