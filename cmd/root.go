// Package cmd implements the chatcli command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/linanwx/chatcli/config"
	"github.com/linanwx/chatcli/logger"
)

var configDirFlag string

var rootCmd = &cobra.Command{
	Use:   "chatcli",
	Short: "Chat with a completion model from the terminal",
	Long: `chatcli is a console chat client for chat-completion APIs.

Type a message over one or more lines and press Enter on an empty line
to send it. Type q or exit to quit.

Running chatcli without a subcommand starts a chat session.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if configDirFlag == "" {
			return nil
		}
		// main initialized logging from the default directory; redo it.
		config.SetConfigDir(configDirFlag)
		return initLogger()
	},
	RunE: runChat,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "Override config directory (default ~/.chatcli)")
	registerChatFlags(rootCmd)
}

func initLogger() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	dir, _ := config.ConfigDir()
	return logger.Init(cfg.BuildLoggerConfig(), dir)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
