// chatcli is a console client for chat-completion APIs.
package main

import (
	"fmt"
	"os"

	"github.com/linanwx/chatcli/cmd"
	"github.com/linanwx/chatcli/config"
	"github.com/linanwx/chatcli/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	configDir, _ := config.ConfigDir()
	if err := logger.Init(cfg.BuildLoggerConfig(), configDir); err != nil {
		fmt.Fprintln(os.Stderr, "logger init error:", err)
	}
	cmd.Execute()
}
