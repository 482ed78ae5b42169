// Package health reports whether a chat session could start.
package health

import (
	"os"
	"runtime"
	"strings"
	"time"
)

// Options selects what Collect inspects.
type Options struct {
	ConfigPath string
	Provider   string
	Model      string
	APIBase    string
	APIKeyEnv  string
	// Providers lists every registered provider name.
	Providers []string
}

// Snapshot is a point-in-time view of the process and its configuration.
type Snapshot struct {
	Status    string      `json:"status"`
	Problems  []string    `json:"problems,omitempty"`
	Runtime   RuntimeInfo `json:"runtime"`
	Config    ConfigInfo  `json:"config"`
	Timestamp string      `json:"timestamp"`
}

// RuntimeInfo describes the Go runtime.
type RuntimeInfo struct {
	Version string `json:"version"`
	OS      string `json:"os"`
	Arch    string `json:"arch"`
}

// ConfigInfo describes the effective chat configuration.
type ConfigInfo struct {
	Path          string `json:"path"`
	Exists        bool   `json:"exists"`
	Provider      string `json:"provider"`
	Model         string `json:"model"`
	APIBase       string `json:"apiBase,omitempty"`
	APIKeyEnv     string `json:"apiKeyEnv"`
	CredentialSet bool   `json:"credentialSet"`
}

// Collect returns a health snapshot for the current process.
// The credential value itself is never included.
func Collect(opts Options) Snapshot {
	s := Snapshot{
		Status: "healthy",
		Runtime: RuntimeInfo{
			Version: runtime.Version(),
			OS:      runtime.GOOS,
			Arch:    runtime.GOARCH,
		},
		Config: ConfigInfo{
			Path:      opts.ConfigPath,
			Provider:  opts.Provider,
			Model:     opts.Model,
			APIBase:   opts.APIBase,
			APIKeyEnv: opts.APIKeyEnv,
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	if opts.ConfigPath != "" {
		if _, err := os.Stat(opts.ConfigPath); err == nil {
			s.Config.Exists = true
		}
	}
	s.Config.CredentialSet = opts.APIKeyEnv != "" && strings.TrimSpace(os.Getenv(opts.APIKeyEnv)) != ""

	if !s.Config.CredentialSet {
		s.Problems = append(s.Problems, "environment variable "+opts.APIKeyEnv+" is not set")
	}
	if !knownProvider(opts.Provider, opts.Providers) {
		s.Problems = append(s.Problems, "unknown provider "+opts.Provider)
	}
	if len(s.Problems) > 0 {
		s.Status = "unhealthy"
	}
	return s
}

func knownProvider(name string, providers []string) bool {
	for _, p := range providers {
		if p == name {
			return true
		}
	}
	return false
}
