// Package config handles configuration loading and saving.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/linanwx/chatcli/logger"
)

const (
	configFileName = "config.yaml"
	configDirName  = ".chatcli"
	configDirEnv   = "CHATCLI_CONFIG_DIR"
)

// ErrMissingCredential is returned when the API credential variable is unset.
var ErrMissingCredential = errors.New("no API credential")

var configDirOverride string

// SetConfigDir overrides the config directory for the current process.
// Empty value clears the override.
func SetConfigDir(dir string) {
	configDirOverride = strings.TrimSpace(dir)
}

// Config is the root configuration structure.
type Config struct {
	Chat      ChatConfig                 `json:"chat" yaml:"chat"`
	Providers map[string]*ProviderConfig `json:"providers,omitempty" yaml:"providers,omitempty"`
	Display   DisplayConfig              `json:"display,omitempty" yaml:"display,omitempty"`
	Logging   LoggingConfig              `json:"logging,omitempty" yaml:"logging,omitempty"`
}

// ChatConfig holds the generation parameters sent with every request.
type ChatConfig struct {
	Provider            string         `json:"provider" yaml:"provider"` // openai, compat, anthropic
	Model               string         `json:"model" yaml:"model"`
	MaxTokens           int            `json:"maxTokens,omitempty" yaml:"maxTokens,omitempty"`                     // defaults to 1000
	Temperature         *float64       `json:"temperature,omitempty" yaml:"temperature,omitempty"`                 // defaults to 1.0
	SystemPrompt        string         `json:"systemPrompt,omitempty" yaml:"systemPrompt,omitempty"`               // optional first turn
	ContextWindowTokens int            `json:"contextWindowTokens,omitempty" yaml:"contextWindowTokens,omitempty"` // defaults to 16385
	ContextWarnRatio    float64        `json:"contextWarnRatio,omitempty" yaml:"contextWarnRatio,omitempty"`       // defaults to 0.8
	ExtraBody           map[string]any `json:"extraBody,omitempty" yaml:"extraBody,omitempty"`                     // extra top-level request fields
}

// ProviderConfig contains endpoint settings for a provider.
// The credential itself is never stored; only the variable holding it.
type ProviderConfig struct {
	APIKeyEnv string `json:"apiKeyEnv,omitempty" yaml:"apiKeyEnv,omitempty"`
	APIBase   string `json:"apiBase,omitempty" yaml:"apiBase,omitempty"` // optional custom base URL
}

// DisplayConfig contains terminal presentation settings.
type DisplayConfig struct {
	Banner               string `json:"banner,omitempty" yaml:"banner,omitempty"`
	Prompt               string `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	ContinuationPrompt   string `json:"continuationPrompt,omitempty" yaml:"continuationPrompt,omitempty"`
	ReplyLabel           string `json:"replyLabel,omitempty" yaml:"replyLabel,omitempty"`
	Spinner              string `json:"spinner,omitempty" yaml:"spinner,omitempty"` // ellipsis, line, dot, ...
	SpinnerIntervalMs    int    `json:"spinnerIntervalMs,omitempty" yaml:"spinnerIntervalMs,omitempty"`
	TypewriterIntervalMs int    `json:"typewriterIntervalMs,omitempty" yaml:"typewriterIntervalMs,omitempty"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Enabled *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Level   string `json:"level,omitempty" yaml:"level,omitempty"`   // debug, info, warn, error
	Stderr  bool   `json:"stderr,omitempty" yaml:"stderr,omitempty"` // log to stderr
	File    string `json:"file,omitempty" yaml:"file,omitempty"`     // log file path
}

// ConfigDir returns the directory holding config.yaml and logs.
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	if dir := strings.TrimSpace(os.Getenv(configDirEnv)); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

// ConfigPath returns the full path of config.yaml.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads config.yaml. A missing file yields the defaults.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the config to config.yaml, creating the directory if needed.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// ProviderSettings returns the endpoint settings of the active provider.
func (c *Config) ProviderSettings() ProviderConfig {
	if pc, ok := c.Providers[c.Chat.Provider]; ok && pc != nil {
		out := *pc
		if out.APIKeyEnv == "" {
			out.APIKeyEnv = defaultAPIKeyEnv(c.Chat.Provider)
		}
		return out
	}
	return ProviderConfig{APIKeyEnv: defaultAPIKeyEnv(c.Chat.Provider)}
}

// Credential reads the API credential of the active provider from the environment.
func (c *Config) Credential() (string, error) {
	env := c.ProviderSettings().APIKeyEnv
	key := strings.TrimSpace(os.Getenv(env))
	if key == "" {
		return "", fmt.Errorf("%w: set %s", ErrMissingCredential, env)
	}
	return key, nil
}

// GetTemperature returns the configured sampling temperature.
func (c *Config) GetTemperature() float64 {
	if c.Chat.Temperature == nil {
		return defaultTemperature
	}
	return *c.Chat.Temperature
}

// SetTemperature sets the sampling temperature.
func (c *Config) SetTemperature(t float64) {
	c.Chat.Temperature = &t
}

// SpinnerInterval returns the spinner tick period.
func (d DisplayConfig) SpinnerInterval() time.Duration {
	return time.Duration(d.SpinnerIntervalMs) * time.Millisecond
}

// TypewriterInterval returns the per-character delay.
func (d DisplayConfig) TypewriterInterval() time.Duration {
	return time.Duration(d.TypewriterIntervalMs) * time.Millisecond
}

// BuildLoggerConfig converts logging settings for logger.Init.
func (c *Config) BuildLoggerConfig() logger.Config {
	enabled := true
	if c.Logging.Enabled != nil {
		enabled = *c.Logging.Enabled
	}
	return logger.Config{
		Enabled: enabled,
		Level:   c.Logging.Level,
		Stderr:  c.Logging.Stderr,
		File:    c.Logging.File,
	}
}
