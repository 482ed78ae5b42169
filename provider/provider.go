// Package provider defines the completion client interface and common types.
package provider

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Provider is the interface for chat-completion endpoints.
type Provider interface {
	// Chat sends the full transcript and returns the assistant's reply.
	Chat(ctx context.Context, req *Request) (*Response, error)
}

// Request represents a chat completion request.
type Request struct {
	Messages []Message
}

// Role is the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of the conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Response represents a chat completion response.
type Response struct {
	Content      string // first candidate's message content
	FinishReason string
	Usage        Usage
}

// Usage represents token usage information.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Settings carries the fixed generation parameters and endpoint details.
type Settings struct {
	APIKey      string
	APIBase     string
	Model       string
	MaxTokens   int
	Temperature float64
	ExtraBody   map[string]any // extra top-level request fields
}

// ProviderConstructor builds a provider for the given settings.
type ProviderConstructor func(s Settings) Provider

// ProviderRegistration defines metadata and constructor for a provider.
type ProviderRegistration struct {
	Models      []string // suggested models, first is the default
	Constructor ProviderConstructor
}

var providerRegistry = map[string]ProviderRegistration{}

// RegisterProvider registers provider metadata and constructor.
func RegisterProvider(name string, reg ProviderRegistration) {
	name = strings.TrimSpace(name)
	if name == "" || reg.Constructor == nil {
		return
	}

	models := make([]string, 0, len(reg.Models))
	for _, model := range reg.Models {
		model = strings.TrimSpace(model)
		if model == "" {
			continue
		}
		models = append(models, model)
	}
	reg.Models = models
	providerRegistry[name] = reg
}

// New builds the named provider.
func New(name string, s Settings) (Provider, error) {
	reg, ok := providerRegistry[strings.TrimSpace(name)]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s (supported: %s)", name, strings.Join(SupportedProviders(), ", "))
	}
	if s.Model == "" {
		s.Model = DefaultModel(name)
	}
	return reg.Constructor(s), nil
}

// SupportedProviders returns all registered provider names in sorted order.
func SupportedProviders() []string {
	names := make([]string, 0, len(providerRegistry))
	for name := range providerRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SupportedModelsForProvider returns suggested models for the given provider.
func SupportedModelsForProvider(providerName string) []string {
	reg, ok := providerRegistry[providerName]
	if !ok {
		return nil
	}
	out := make([]string, len(reg.Models))
	copy(out, reg.Models)
	return out
}

// DefaultModel returns the first suggested model of a provider.
func DefaultModel(providerName string) string {
	models := SupportedModelsForProvider(providerName)
	if len(models) == 0 {
		return ""
	}
	return models[0]
}

// UserMessage creates a user message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// SystemMessage creates a system message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// AssistantMessage creates an assistant message.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

func inputChars(messages []Message) int {
	total := 0
	for _, m := range messages {
		total += len(m.Role)
		total += len(m.Content)
	}
	return total
}

// normalizeBaseURL trims a trailing slash and an endpoint suffix so both
// "https://host/v1" and "https://host/v1/chat/completions" are accepted.
func normalizeBaseURL(apiBase, defaultBase, endpoint string) string {
	base := strings.TrimSpace(apiBase)
	if base == "" {
		base = defaultBase
	}
	base = strings.TrimRight(base, "/")
	return strings.TrimSuffix(base, endpoint)
}
