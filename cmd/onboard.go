package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/linanwx/chatcli/config"
	"github.com/linanwx/chatcli/provider"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Create the chatcli configuration file",
	Long:  `Create the chatcli configuration directory and write a config file interactively.`,
	RunE:  runOnboard,
}

func init() {
	rootCmd.AddCommand(onboardCmd)
}

// providerURLs maps provider names to their API key portal URLs.
var providerURLs = map[string]string{
	"openai":    "https://platform.openai.com/api-keys",
	"compat":    "your server's documentation",
	"anthropic": "https://console.anthropic.com",
}

func runOnboard(_ *cobra.Command, _ []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(configPath); err == nil {
		fmt.Println("Config already exists at:", configPath)
		fmt.Println("To reconfigure, edit the file directly or delete it first.")
		return nil
	}

	// --- interactive wizard ---

	var (
		selectedProvider string
		selectedModel    string
		apiBase          string
		maxTokens        = "1000"
		temperature      = "1.0"
	)

	// Step 1: select provider
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose your completion provider").
				Description("openai talks to the official API; compat posts to any OpenAI-compatible endpoint.").
				Options(buildProviderOptions()...).
				Value(&selectedProvider),
		),
	).Run()
	if err != nil {
		return err
	}

	// Step 2: model and endpoint
	fields := []huh.Field{
		huh.NewSelect[string]().
			Title("Choose model for " + selectedProvider).
			Description("The first option is the recommended default.").
			Options(buildModelOptions(selectedProvider)...).
			Value(&selectedModel),
	}
	if selectedProvider == "compat" {
		fields = append(fields, huh.NewInput().
			Title("API base URL").
			Description("For example http://localhost:11434/v1").
			Validate(requireNonEmpty("API base URL")).
			Value(&apiBase))
	}
	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return err
	}

	// Step 3: generation parameters
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Max tokens per reply").
				Validate(func(s string) error {
					_, err := parseMaxTokens(s)
					return err
				}).
				Value(&maxTokens),
			huh.NewInput().
				Title("Temperature").
				Description("0 is deterministic, 2 is the most random.").
				Validate(func(s string) error {
					_, err := parseTemperature(s)
					return err
				}).
				Value(&temperature),
		),
	).Run()
	if err != nil {
		return err
	}

	// --- apply config ---

	cfg := config.DefaultConfig()
	cfg.Chat.Provider = selectedProvider
	cfg.Chat.Model = selectedModel
	cfg.Chat.MaxTokens, _ = parseMaxTokens(maxTokens)
	t, _ := parseTemperature(temperature)
	cfg.SetTemperature(t)
	cfg.Providers = map[string]*config.ProviderConfig{
		selectedProvider: {APIBase: strings.TrimSpace(apiBase)},
	}
	keyEnv := cfg.ProviderSettings().APIKeyEnv
	cfg.Providers[selectedProvider].APIKeyEnv = keyEnv

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("chatcli initialized successfully!")
	fmt.Println()
	fmt.Println("  Config:", configPath)
	fmt.Println("  Provider:", selectedProvider)
	fmt.Println("  Model:", selectedModel)
	fmt.Println()
	fmt.Println("The API key is read from the environment. Create one at " + providerURLs[selectedProvider] + ", then:")
	fmt.Println()
	fmt.Printf("  export %s=<your key>\n", keyEnv)
	fmt.Println()
	fmt.Println("Run 'chatcli' to start chatting.")
	return nil
}

func buildProviderOptions() []huh.Option[string] {
	names := provider.SupportedProviders()
	// Put openai first.
	sorted := make([]string, 0, len(names))
	for _, n := range names {
		if n == "openai" {
			sorted = append([]string{n}, sorted...)
		} else {
			sorted = append(sorted, n)
		}
	}
	options := make([]huh.Option[string], 0, len(sorted))
	for _, name := range sorted {
		models := provider.SupportedModelsForProvider(name)
		label := name + " (" + strings.Join(models, ", ") + ")"
		if name == "openai" {
			label += " [Recommended]"
		}
		options = append(options, huh.NewOption(label, name))
	}
	return options
}

func buildModelOptions(providerName string) []huh.Option[string] {
	models := provider.SupportedModelsForProvider(providerName)
	options := make([]huh.Option[string], 0, len(models))
	for _, m := range models {
		options = append(options, huh.NewOption(m, m))
	}
	return options
}

func requireNonEmpty(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

func parseMaxTokens(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("max tokens must be a positive integer")
	}
	return n, nil
}

func parseTemperature(s string) (float64, error) {
	t, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || t < 0 || t > 2 {
		return 0, fmt.Errorf("temperature must be a number between 0 and 2")
	}
	return t, nil
}
