package provider

import (
	"context"
	"errors"
	"sort"
	"time"

	openai "github.com/openai/openai-go/v3"
	oaioption "github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/linanwx/chatcli/logger"
)

const openAIAPIBase = "https://api.openai.com/v1"

func init() {
	RegisterProvider("openai", ProviderRegistration{
		Models: []string{"gpt-3.5-turbo", "gpt-4o-mini", "gpt-4o", "gpt-4.1"},
		Constructor: func(s Settings) Provider {
			return NewOpenAIProvider(s)
		},
	})
}

// OpenAIProvider implements the Provider interface with the openai-go SDK.
type OpenAIProvider struct {
	model       string
	maxTokens   int
	temperature float64
	extraBody   map[string]any
	client      openai.Client
}

// NewOpenAIProvider creates a provider backed by the chat completions API.
// SDK retries are disabled: a failed round is reported, never repeated.
func NewOpenAIProvider(s Settings) *OpenAIProvider {
	baseURL := normalizeBaseURL(s.APIBase, openAIAPIBase, "/chat/completions")
	client := openai.NewClient(
		oaioption.WithAPIKey(s.APIKey),
		oaioption.WithBaseURL(baseURL),
		oaioption.WithMaxRetries(0),
	)

	return &OpenAIProvider{
		model:       s.Model,
		maxTokens:   s.MaxTokens,
		temperature: s.Temperature,
		extraBody:   s.ExtraBody,
		client:      client,
	}
}

// Chat sends a chat completion request.
func (p *OpenAIProvider) Chat(ctx context.Context, req *Request) (*Response, error) {
	start := time.Now()

	logger.Info(
		"openai request",
		"provider", "openai",
		"model", p.model,
		"messages", len(req.Messages),
		"inputChars", inputChars(req.Messages),
	)

	chatReq := openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(p.model),
		Messages:    toOpenAIChatMessages(req.Messages),
		Temperature: openai.Float(p.temperature),
	}
	if p.maxTokens > 0 {
		chatReq.MaxTokens = openai.Int(int64(p.maxTokens))
	}

	keys := make([]string, 0, len(p.extraBody))
	for k := range p.extraBody {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	requestOpts := make([]oaioption.RequestOption, 0, len(keys))
	for _, k := range keys {
		requestOpts = append(requestOpts, oaioption.WithJSONSet(k, p.extraBody[k]))
	}

	chatResp, err := p.client.Chat.Completions.New(ctx, chatReq, requestOpts...)
	if err != nil {
		var sdkErr *openai.Error
		if errors.As(err, &sdkErr) {
			logger.Info("openai http error", "provider", "openai", "status", sdkErr.StatusCode, "body", sdkErr.RawJSON())
			if apiErr := errorFromBody("openai", sdkErr.StatusCode, sdkErr.RawJSON()); apiErr != nil {
				return nil, apiErr
			}
			return nil, &APIError{
				Provider:   "openai",
				StatusCode: sdkErr.StatusCode,
				Type:       sdkErr.Type,
				Code:       sdkErr.Code,
				Message:    sdkErr.Message,
			}
		}
		logger.Error("openai request send error", "provider", "openai", "err", err)
		return nil, &TransportError{Provider: "openai", Err: err}
	}

	if apiErr := errorFromBody("openai", 0, chatResp.RawJSON()); apiErr != nil {
		return nil, apiErr
	}
	if len(chatResp.Choices) == 0 {
		return nil, &TransportError{Provider: "openai", Err: errNoChoices}
	}

	choice := chatResp.Choices[0]
	logger.Info(
		"openai response",
		"provider", "openai",
		"model", p.model,
		"finishReason", choice.FinishReason,
		"promptTokens", chatResp.Usage.PromptTokens,
		"completionTokens", chatResp.Usage.CompletionTokens,
		"totalTokens", chatResp.Usage.TotalTokens,
		"outputChars", len(choice.Message.Content),
		"latencyMs", time.Since(start).Milliseconds(),
	)

	return &Response{
		Content:      choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		Usage: Usage{
			PromptTokens:     int(chatResp.Usage.PromptTokens),
			CompletionTokens: int(chatResp.Usage.CompletionTokens),
			TotalTokens:      int(chatResp.Usage.TotalTokens),
		},
	}, nil
}

func toOpenAIChatMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
