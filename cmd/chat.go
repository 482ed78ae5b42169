package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/linanwx/chatcli/config"
	"github.com/linanwx/chatcli/console"
	"github.com/linanwx/chatcli/conversation"
	"github.com/linanwx/chatcli/logger"
	"github.com/linanwx/chatcli/provider"
)

var (
	providerFlag    string
	modelFlag       string
	maxTokensFlag   int
	temperatureFlag float64
	apiBaseFlag     string
	systemFlag      string
	verboseFlag     bool
	plainFlag       bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session.

Each message may span several lines; an empty line sends it. The whole
conversation is sent with every request, so the model sees all prior turns.

When stdout is not a terminal (or with --plain) the spinner is not drawn
and replies are printed at once instead of typed.

Use --provider, --model, --max-tokens, --temperature and --api-base to
override config at runtime.

Examples:
  chatcli                                   # Chat with the configured model
  chatcli chat --model gpt-4o-mini
  chatcli chat --provider compat --api-base http://localhost:11434/v1
  echo -e "hello\n" | chatcli chat --plain`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
	registerChatFlags(chatCmd)
}

func registerChatFlags(c *cobra.Command) {
	c.Flags().StringVar(&providerFlag, "provider", "", "Override provider ("+strings.Join(provider.SupportedProviders(), ", ")+")")
	c.Flags().StringVar(&modelFlag, "model", "", "Override model (e.g. gpt-4o-mini)")
	c.Flags().IntVar(&maxTokensFlag, "max-tokens", 0, "Override the reply token limit")
	c.Flags().Float64Var(&temperatureFlag, "temperature", 0, "Override the sampling temperature")
	c.Flags().StringVar(&apiBaseFlag, "api-base", "", "Override API base URL")
	c.Flags().StringVar(&systemFlag, "system", "", "Send this system prompt as the first turn")
	c.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log request details to stderr")
	c.Flags().BoolVar(&plainFlag, "plain", false, "Disable the spinner and the typing effect (automatic when stdout is not a terminal)")
}

func runChat(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w\nRun 'chatcli onboard' to recreate it", err)
	}
	applyChatOverrides(cmd, cfg)

	if verboseFlag {
		lc := cfg.BuildLoggerConfig()
		lc.Enabled = true
		lc.Level = "debug"
		lc.Stderr = true
		dir, _ := config.ConfigDir()
		if err := logger.Init(lc, dir); err != nil {
			fmt.Fprintln(os.Stderr, "logger init error:", err)
		}
	}

	interactive := !plainFlag && term.IsTerminal(int(os.Stdout.Fd()))
	return startChat(cmd.Context(), cfg, os.Stdin, os.Stdout, os.Stderr, interactive)
}

// applyChatOverrides applies CLI flag overrides to config.
func applyChatOverrides(cmd *cobra.Command, cfg *config.Config) {
	if providerFlag != "" && providerFlag != cfg.Chat.Provider {
		cfg.Chat.Provider = providerFlag
		// the configured model belongs to the previous provider
		cfg.Chat.Model = provider.DefaultModel(providerFlag)
	}
	if modelFlag != "" {
		cfg.Chat.Model = modelFlag
	}
	if maxTokensFlag > 0 {
		cfg.Chat.MaxTokens = maxTokensFlag
	}
	if cmd.Flags().Changed("temperature") {
		cfg.SetTemperature(temperatureFlag)
	}
	if apiBaseFlag != "" {
		if cfg.Providers == nil {
			cfg.Providers = map[string]*config.ProviderConfig{}
		}
		pc := cfg.Providers[cfg.Chat.Provider]
		if pc == nil {
			pc = &config.ProviderConfig{}
			cfg.Providers[cfg.Chat.Provider] = pc
		}
		pc.APIBase = apiBaseFlag
	}
	if systemFlag != "" {
		cfg.Chat.SystemPrompt = systemFlag
	}
}

// startChat wires the session and runs it until the user leaves. API errors
// go to errOut. When interactive is false no spinner is drawn and replies are
// printed at once.
func startChat(ctx context.Context, cfg *config.Config, in io.Reader, out, errOut io.Writer, interactive bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	apiKey, err := cfg.Credential()
	if err != nil {
		return err
	}

	ps := cfg.ProviderSettings()
	p, err := provider.New(cfg.Chat.Provider, provider.Settings{
		APIKey:      apiKey,
		APIBase:     ps.APIBase,
		Model:       cfg.Chat.Model,
		MaxTokens:   cfg.Chat.MaxTokens,
		Temperature: cfg.GetTemperature(),
		ExtraBody:   cfg.Chat.ExtraBody,
	})
	if err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}

	clock := clockwork.NewRealClock()
	var (
		progress        *console.Progress
		typewriterDelay time.Duration
	)
	if interactive {
		s, ok := console.SpinnerByName(cfg.Display.Spinner)
		if !ok {
			logger.Warn("unknown spinner, using default", "spinner", cfg.Display.Spinner, "available", console.SpinnerNames())
			s = console.DefaultSpinner
		}
		progress = console.NewProgress(out, clock, s, cfg.Display.SpinnerInterval())
		typewriterDelay = cfg.Display.TypewriterInterval()
	}

	transcript := conversation.NewTranscript()
	if sp := strings.TrimSpace(cfg.Chat.SystemPrompt); sp != "" {
		transcript.Append(provider.SystemMessage(sp))
	}

	budget, err := conversation.NewBudget(cfg.Chat.Model, cfg.Chat.ContextWindowTokens, cfg.Chat.ContextWarnRatio)
	if err != nil {
		logger.Warn("token estimate unavailable", "model", cfg.Chat.Model, "err", err)
		budget = nil
	}

	loop := conversation.NewLoop(conversation.Config{
		Provider:   p,
		Input:      console.NewCollector(in, out, cfg.Display.Prompt, cfg.Display.ContinuationPrompt),
		Output:     console.NewTypewriter(out, clock, typewriterDelay),
		Progress:   progress,
		Transcript: transcript,
		Budget:     budget,
		ReplyLabel: cfg.Display.ReplyLabel,
		Errors:     errOut,
	})

	logger.Info(
		"chat session started",
		"provider", cfg.Chat.Provider,
		"model", cfg.Chat.Model,
		"maxTokens", cfg.Chat.MaxTokens,
		"temperature", cfg.GetTemperature(),
		"interactive", interactive,
	)
	fmt.Fprintln(out, cfg.Display.Banner)

	if err := loop.Run(ctx); err != nil {
		return err
	}
	logger.Info("chat session ended", "turns", loop.Transcript().Len())
	return nil
}
