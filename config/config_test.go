package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func useTempConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	SetConfigDir(dir)
	t.Cleanup(func() { SetConfigDir("") })
	return dir
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	useTempConfigDir(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Chat.Provider != "openai" || cfg.Chat.Model != "gpt-3.5-turbo" {
		t.Fatalf("provider/model = %s/%s, want openai/gpt-3.5-turbo", cfg.Chat.Provider, cfg.Chat.Model)
	}
	if cfg.Chat.MaxTokens != 1000 {
		t.Fatalf("MaxTokens = %d, want 1000", cfg.Chat.MaxTokens)
	}
	if cfg.GetTemperature() != 1.0 {
		t.Fatalf("temperature = %v, want 1.0", cfg.GetTemperature())
	}
	if cfg.Display.SpinnerInterval().Milliseconds() != 100 || cfg.Display.TypewriterInterval().Milliseconds() != 20 {
		t.Fatalf("intervals = %v/%v", cfg.Display.SpinnerInterval(), cfg.Display.TypewriterInterval())
	}
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	dir := useTempConfigDir(t)
	content := `chat:
  provider: anthropic
  model: claude-3-5-haiku-latest
  temperature: 0
display:
  prompt: "> "
logging:
  level: debug
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Chat.Provider != "anthropic" || cfg.Chat.Model != "claude-3-5-haiku-latest" {
		t.Fatalf("chat = %+v", cfg.Chat)
	}
	if cfg.GetTemperature() != 0 {
		t.Fatalf("explicit zero temperature should survive defaults, got %v", cfg.GetTemperature())
	}
	if cfg.Chat.MaxTokens != 1000 {
		t.Fatalf("MaxTokens = %d, want default 1000", cfg.Chat.MaxTokens)
	}
	if cfg.Display.Prompt != "> " || cfg.Display.ReplyLabel != "ChatGPT: " {
		t.Fatalf("display = %+v", cfg.Display)
	}
	if cfg.ProviderSettings().APIKeyEnv != "ANTHROPIC_API_KEY" {
		t.Fatalf("APIKeyEnv = %q, want ANTHROPIC_API_KEY", cfg.ProviderSettings().APIKeyEnv)
	}
	lc := cfg.BuildLoggerConfig()
	if !lc.Enabled || lc.Level != "debug" || !lc.Stderr {
		t.Fatalf("logger config = %+v", lc)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := useTempConfigDir(t)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("chat: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail on malformed yaml")
	}
}

func TestSaveAndReloadRoundTrip(t *testing.T) {
	useTempConfigDir(t)

	cfg := DefaultConfig()
	cfg.Chat.Model = "gpt-4o-mini"
	cfg.SetTemperature(0.3)
	cfg.Providers["openai"].APIBase = "http://localhost:8080/v1"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Chat.Model != "gpt-4o-mini" || got.GetTemperature() != 0.3 {
		t.Fatalf("reloaded chat = %+v", got.Chat)
	}
	if got.ProviderSettings().APIBase != "http://localhost:8080/v1" {
		t.Fatalf("APIBase = %q", got.ProviderSettings().APIBase)
	}
}

func TestCredential(t *testing.T) {
	cfg := DefaultConfig()

	t.Setenv("CHATGPT_API_KEY", "")
	_, err := cfg.Credential()
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("Credential() error = %v, want ErrMissingCredential", err)
	}
	if !strings.Contains(err.Error(), "CHATGPT_API_KEY") {
		t.Fatalf("error should name the variable: %v", err)
	}

	t.Setenv("CHATGPT_API_KEY", "  sk-test  ")
	key, err := cfg.Credential()
	if err != nil {
		t.Fatalf("Credential() error = %v", err)
	}
	if key != "sk-test" {
		t.Fatalf("Credential() = %q, want sk-test", key)
	}
}

func TestCredentialHonoursCustomVariable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Providers["openai"].APIKeyEnv = "MY_GATEWAY_KEY"
	t.Setenv("MY_GATEWAY_KEY", "gw-key")

	key, err := cfg.Credential()
	if err != nil {
		t.Fatalf("Credential() error = %v", err)
	}
	if key != "gw-key" {
		t.Fatalf("Credential() = %q, want gw-key", key)
	}
}
