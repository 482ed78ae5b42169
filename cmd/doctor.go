package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linanwx/chatcli/config"
	"github.com/linanwx/chatcli/internal/health"
	"github.com/linanwx/chatcli/provider"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that a chat session can start",
	Long: `Print the effective provider, model and endpoint, and check that the
API credential variable is set. The credential value is never printed.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	path, _ := config.ConfigPath()
	ps := cfg.ProviderSettings()

	snapshot := health.Collect(health.Options{
		ConfigPath: path,
		Provider:   cfg.Chat.Provider,
		Model:      cfg.Chat.Model,
		APIBase:    ps.APIBase,
		APIKeyEnv:  ps.APIKeyEnv,
		Providers:  provider.SupportedProviders(),
	})

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	if snapshot.Status != "healthy" {
		return fmt.Errorf("%d problem(s) found", len(snapshot.Problems))
	}
	return nil
}
