package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWritesRelativeFileUnderConfigDir(t *testing.T) {
	dir := t.TempDir()
	if err := Init(Config{Enabled: true, Level: "info", File: "logs/chatcli.log"}, dir); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { _ = Init(Config{Enabled: false}, "") })

	Info("completion request", "provider", "compat")

	data, err := os.ReadFile(filepath.Join(dir, "logs", "chatcli.log"))
	if err != nil {
		t.Fatalf("log file should exist: %v", err)
	}
	if !strings.Contains(string(data), "completion request") || !strings.Contains(string(data), "provider=compat") {
		t.Fatalf("log file content = %q", string(data))
	}
}

func TestLevelFiltersConsole(t *testing.T) {
	var buf bytes.Buffer
	setConsole(&buf)
	t.Cleanup(func() {
		setConsole(nil)
		_ = Init(Config{Enabled: false}, "")
	})

	if err := Init(Config{Enabled: true, Level: "warn", Stderr: true}, ""); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	Info("hidden")
	Error("visible", "status", 401)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "visible") || !strings.Contains(out, "status=401") {
		t.Fatalf("error line missing: %q", out)
	}
}

func TestDisabledLoggerDiscards(t *testing.T) {
	var buf bytes.Buffer
	setConsole(&buf)
	t.Cleanup(func() { setConsole(nil) })

	if err := Init(Config{Enabled: false, Stderr: true}, ""); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	Error("dropped")
	if buf.Len() != 0 {
		t.Fatalf("disabled logger wrote %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"debug", "DEBUG"},
		{"INFO", "INFO"},
		{"error", "ERROR"},
		{"", "WARN"},
		{"bogus", "WARN"},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in).String(); got != tt.want {
			t.Errorf("parseLevel(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
