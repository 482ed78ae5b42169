package provider

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"

	"github.com/linanwx/chatcli/logger"
)

const anthropicAPIBase = "https://api.anthropic.com"

func init() {
	RegisterProvider("anthropic", ProviderRegistration{
		Models: []string{"claude-3-5-haiku-latest", "claude-sonnet-4-5"},
		Constructor: func(s Settings) Provider {
			return NewAnthropicProvider(s)
		},
	})
}

// AnthropicProvider implements the Provider interface for the Messages API.
type AnthropicProvider struct {
	model       string
	maxTokens   int
	temperature float64
	extraBody   map[string]any
	client      anthropic.Client
}

// NewAnthropicProvider creates a provider backed by the Anthropic SDK.
func NewAnthropicProvider(s Settings) *AnthropicProvider {
	baseURL := normalizeBaseURL(s.APIBase, anthropicAPIBase, "/v1/messages")
	client := anthropic.NewClient(
		anthropicoption.WithAPIKey(s.APIKey),
		anthropicoption.WithBaseURL(baseURL),
		anthropicoption.WithMaxRetries(0),
	)
	return &AnthropicProvider{
		model:       s.Model,
		maxTokens:   s.MaxTokens,
		temperature: s.Temperature,
		extraBody:   s.ExtraBody,
		client:      client,
	}
}

// Chat sends the transcript to the Messages API. System turns are joined
// into the top-level system prompt.
func (p *AnthropicProvider) Chat(ctx context.Context, req *Request) (*Response, error) {
	start := time.Now()

	logger.Info(
		"anthropic request",
		"provider", "anthropic",
		"model", p.model,
		"messages", len(req.Messages),
		"inputChars", inputChars(req.Messages),
	)

	var system []string
	messages := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
		case RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   int64(p.maxTokens),
		Messages:    messages,
		Temperature: anthropic.Float(p.temperature),
	}
	if len(system) > 0 {
		params.System = []anthropic.TextBlockParam{{Text: strings.Join(system, "\n\n")}}
	}

	keys := make([]string, 0, len(p.extraBody))
	for k := range p.extraBody {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	requestOpts := make([]anthropicoption.RequestOption, 0, len(keys))
	for _, k := range keys {
		requestOpts = append(requestOpts, anthropicoption.WithJSONSet(k, p.extraBody[k]))
	}

	msg, err := p.client.Messages.New(ctx, params, requestOpts...)
	if err != nil {
		var sdkErr *anthropic.Error
		if errors.As(err, &sdkErr) {
			logger.Info("anthropic http error", "provider", "anthropic", "status", sdkErr.StatusCode, "err", err)
			apiErr := errorFromBody("anthropic", sdkErr.StatusCode, sdkErr.RawJSON())
			if apiErr == nil {
				apiErr = &APIError{Provider: "anthropic", StatusCode: sdkErr.StatusCode, Message: err.Error()}
			}
			return nil, apiErr
		}
		logger.Error("anthropic request send error", "provider", "anthropic", "err", err)
		return nil, &TransportError{Provider: "anthropic", Err: err}
	}

	var text strings.Builder
	for i := range msg.Content {
		if msg.Content[i].Type == "text" {
			text.WriteString(msg.Content[i].Text)
		}
	}
	if len(msg.Content) == 0 {
		return nil, &TransportError{Provider: "anthropic", Err: errNoChoices}
	}

	logger.Info(
		"anthropic response",
		"provider", "anthropic",
		"model", p.model,
		"stopReason", msg.StopReason,
		"promptTokens", msg.Usage.InputTokens,
		"completionTokens", msg.Usage.OutputTokens,
		"outputChars", text.Len(),
		"latencyMs", time.Since(start).Milliseconds(),
	)

	return &Response{
		Content:      text.String(),
		FinishReason: string(msg.StopReason),
		Usage: Usage{
			PromptTokens:     int(msg.Usage.InputTokens),
			CompletionTokens: int(msg.Usage.OutputTokens),
			TotalTokens:      int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		},
	}, nil
}
