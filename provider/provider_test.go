package provider

import (
	"strings"
	"testing"
)

func TestRegistryHasBuiltinProviders(t *testing.T) {
	got := strings.Join(SupportedProviders(), ",")
	if got != "anthropic,compat,openai" {
		t.Fatalf("SupportedProviders() = %s", got)
	}
	if DefaultModel("openai") != "gpt-3.5-turbo" {
		t.Fatalf("DefaultModel(openai) = %q", DefaultModel("openai"))
	}
	if SupportedModelsForProvider("nope") != nil {
		t.Fatal("unknown provider should have no models")
	}
}

func TestNewUnknownProvider(t *testing.T) {
	if _, err := New("bogus", Settings{}); err == nil {
		t.Fatal("New(bogus) should fail")
	}
}

func TestNewFillsDefaultModel(t *testing.T) {
	p, err := New("compat", Settings{APIKey: "k"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if p.(*CompatProvider).model != "gpt-3.5-turbo" {
		t.Fatalf("model = %q", p.(*CompatProvider).model)
	}
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "https://api.openai.com/v1"},
		{"https://gw.example/v1/", "https://gw.example/v1"},
		{"https://gw.example/v1/chat/completions", "https://gw.example/v1"},
	}
	for _, tt := range tests {
		if got := normalizeBaseURL(tt.in, "https://api.openai.com/v1", "/chat/completions"); got != tt.want {
			t.Errorf("normalizeBaseURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{Provider: "compat", StatusCode: 429, Code: "rate_limit", Message: "slow down"}
	if got := err.Error(); got != "compat api error (status 429): [rate_limit] slow down" {
		t.Fatalf("Error() = %q", got)
	}
	err = &APIError{Provider: "openai"}
	if got := err.Error(); got != "openai api error: unknown error" {
		t.Fatalf("Error() = %q", got)
	}
}
