package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/tidwall/sjson"

	"github.com/linanwx/chatcli/logger"
)

const (
	compatAPIBase  = "https://api.openai.com/v1"
	compatEndpoint = "/chat/completions"
)

func init() {
	RegisterProvider("compat", ProviderRegistration{
		Models: []string{"gpt-3.5-turbo", "gpt-4o-mini", "gpt-4o"},
		Constructor: func(s Settings) Provider {
			return NewCompatProvider(s)
		},
	})
}

// CompatProvider talks to any OpenAI-compatible chat completions endpoint
// with a hand-built JSON POST.
type CompatProvider struct {
	apiKey      string
	endpoint    string
	model       string
	maxTokens   int
	temperature float64
	extraBody   map[string]any
	httpClient  *http.Client
}

// NewCompatProvider creates a new OpenAI-compatible provider.
func NewCompatProvider(s Settings) *CompatProvider {
	return &CompatProvider{
		apiKey:      s.APIKey,
		endpoint:    normalizeBaseURL(s.APIBase, compatAPIBase, compatEndpoint) + compatEndpoint,
		model:       s.Model,
		maxTokens:   s.MaxTokens,
		temperature: s.Temperature,
		extraBody:   s.ExtraBody,
		httpClient:  &http.Client{},
	}
}

// compatRequest is the request body; all four fields are always sent.
type compatRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	Messages    []Message `json:"messages"`
}

// compatResponse is the success body of a chat completion.
type compatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
}

// Chat sends a chat completion request.
func (p *CompatProvider) Chat(ctx context.Context, req *Request) (*Response, error) {
	start := time.Now()

	logger.Info(
		"compat request",
		"provider", "compat",
		"model", p.model,
		"messages", len(req.Messages),
		"inputChars", inputChars(req.Messages),
	)

	body, err := p.buildRequestBody(req)
	if err != nil {
		return nil, &TransportError{Provider: "compat", Err: fmt.Errorf("failed to build request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Provider: "compat", Err: fmt.Errorf("failed to create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		logger.Error("compat request send error", "provider", "compat", "err", err)
		return nil, &TransportError{Provider: "compat", Err: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &TransportError{Provider: "compat", Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		logger.Info("compat http error", "provider", "compat", "status", httpResp.StatusCode, "body", string(respBody))
		if apiErr := errorFromBody("compat", httpResp.StatusCode, string(respBody)); apiErr != nil {
			return nil, apiErr
		}
		return nil, &APIError{Provider: "compat", StatusCode: httpResp.StatusCode, Message: http.StatusText(httpResp.StatusCode)}
	}

	if apiErr := errorFromBody("compat", 0, string(respBody)); apiErr != nil {
		return nil, apiErr
	}

	var parsed compatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &TransportError{Provider: "compat", Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	if len(parsed.Choices) == 0 {
		return nil, &TransportError{Provider: "compat", Err: errNoChoices}
	}

	choice := parsed.Choices[0]
	logger.Info(
		"compat response",
		"provider", "compat",
		"model", p.model,
		"finishReason", choice.FinishReason,
		"promptTokens", parsed.Usage.PromptTokens,
		"completionTokens", parsed.Usage.CompletionTokens,
		"totalTokens", parsed.Usage.TotalTokens,
		"outputChars", len(choice.Message.Content),
		"latencyMs", time.Since(start).Milliseconds(),
	)

	return &Response{
		Content:      choice.Message.Content,
		FinishReason: choice.FinishReason,
		Usage:        parsed.Usage,
	}, nil
}

// buildRequestBody marshals the fixed fields and then sets each extra field
// at the top level.
func (p *CompatProvider) buildRequestBody(req *Request) ([]byte, error) {
	messages := req.Messages
	if messages == nil {
		messages = []Message{}
	}
	body, err := json.Marshal(compatRequest{
		Model:       p.model,
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
		Messages:    messages,
	})
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(p.extraBody))
	for k := range p.extraBody {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		body, err = sjson.SetBytes(body, k, p.extraBody[k])
		if err != nil {
			return nil, fmt.Errorf("extra field %q: %w", k, err)
		}
	}
	return body, nil
}
