package config

const (
	defaultProvider            = "openai"
	defaultModel               = "gpt-3.5-turbo"
	defaultMaxTokens           = 1000
	defaultTemperature         = 1.0
	defaultContextWindowTokens = 16385
	defaultContextWarnRatio    = 0.8

	defaultBanner               = "Press Enter on an empty line to send, type q or exit to quit"
	defaultPrompt               = "You: "
	defaultReplyLabel           = "ChatGPT: "
	defaultSpinner              = "ellipsis"
	defaultSpinnerIntervalMs    = 100
	defaultTypewriterIntervalMs = 20
)

// defaultAPIKeyEnvs maps providers to the variable holding their credential.
var defaultAPIKeyEnvs = map[string]string{
	"openai":    "CHATGPT_API_KEY",
	"compat":    "CHATGPT_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
}

func defaultAPIKeyEnv(provider string) string {
	if env, ok := defaultAPIKeyEnvs[provider]; ok {
		return env
	}
	return defaultAPIKeyEnvs[defaultProvider]
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	temperature := defaultTemperature
	return &Config{
		Chat: ChatConfig{
			Provider:            defaultProvider,
			Model:               defaultModel,
			MaxTokens:           defaultMaxTokens,
			Temperature:         &temperature,
			ContextWindowTokens: defaultContextWindowTokens,
			ContextWarnRatio:    defaultContextWarnRatio,
		},
		Providers: map[string]*ProviderConfig{
			defaultProvider: {APIKeyEnv: defaultAPIKeyEnv(defaultProvider)},
		},
		Display: DisplayConfig{
			Banner:               defaultBanner,
			Prompt:               defaultPrompt,
			ReplyLabel:           defaultReplyLabel,
			Spinner:              defaultSpinner,
			SpinnerIntervalMs:    defaultSpinnerIntervalMs,
			TypewriterIntervalMs: defaultTypewriterIntervalMs,
		},
		Logging: defaultLoggingConfig(),
	}
}

func defaultLoggingConfig() LoggingConfig {
	enabled := true
	return LoggingConfig{
		Enabled: &enabled,
		Level:   "warn",
		Stderr:  true,
	}
}

func (c *Config) applyDefaults() {
	if c.Chat.Provider == "" {
		c.Chat.Provider = defaultProvider
	}
	if c.Chat.Model == "" {
		c.Chat.Model = defaultModel
	}
	if c.Chat.MaxTokens <= 0 {
		c.Chat.MaxTokens = defaultMaxTokens
	}
	if c.Chat.Temperature == nil {
		temperature := defaultTemperature
		c.Chat.Temperature = &temperature
	}
	if c.Chat.ContextWindowTokens <= 0 {
		c.Chat.ContextWindowTokens = defaultContextWindowTokens
	}
	if c.Chat.ContextWarnRatio <= 0 || c.Chat.ContextWarnRatio >= 1 {
		c.Chat.ContextWarnRatio = defaultContextWarnRatio
	}

	if c.Providers == nil {
		c.Providers = map[string]*ProviderConfig{}
	}

	if c.Display.Banner == "" {
		c.Display.Banner = defaultBanner
	}
	if c.Display.Prompt == "" {
		c.Display.Prompt = defaultPrompt
	}
	if c.Display.ReplyLabel == "" {
		c.Display.ReplyLabel = defaultReplyLabel
	}
	if c.Display.Spinner == "" {
		c.Display.Spinner = defaultSpinner
	}
	if c.Display.SpinnerIntervalMs <= 0 {
		c.Display.SpinnerIntervalMs = defaultSpinnerIntervalMs
	}
	if c.Display.TypewriterIntervalMs <= 0 {
		c.Display.TypewriterIntervalMs = defaultTypewriterIntervalMs
	}

	def := defaultLoggingConfig()
	if c.Logging == (LoggingConfig{}) {
		c.Logging = def
		return
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Level
	}
	if !c.Logging.Stderr && c.Logging.File == "" {
		c.Logging.Stderr = def.Stderr
	}
	if c.Logging.Enabled == nil {
		c.Logging.Enabled = def.Enabled
	}
}
