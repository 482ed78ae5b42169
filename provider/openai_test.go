package provider

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

// TestOpenAISDKRequestBody intercepts the HTTP request sent by the openai-go
// SDK and checks the wire shape of the chat completion.
func TestOpenAISDKRequestBody(t *testing.T) {
	var got capturedRequest
	server := newCompletionServer(t, http.StatusOK, successBody, &got)

	p := NewOpenAIProvider(testSettings(server.URL))
	resp, err := p.Chat(context.Background(), &Request{Messages: []Message{
		UserMessage("hi"),
		AssistantMessage("hello"),
		UserMessage("hello"),
	}})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if got.Path != "/chat/completions" {
		t.Errorf("path = %q, want /chat/completions", got.Path)
	}
	if got.Authorization != "Bearer test-key" {
		t.Errorf("Authorization = %q", got.Authorization)
	}
	if got.Body["model"] != "gpt-3.5-turbo" {
		t.Errorf("model = %v", got.Body["model"])
	}
	if got.Body["max_tokens"] != float64(1000) {
		t.Errorf("max_tokens = %v", got.Body["max_tokens"])
	}
	if got.Body["temperature"] != float64(1) {
		t.Errorf("temperature = %v", got.Body["temperature"])
	}

	msgs, ok := got.Body["messages"].([]any)
	if !ok || len(msgs) != 3 {
		t.Fatalf("messages = %v", got.Body["messages"])
	}
	last := msgs[2].(map[string]any)
	if last["role"] != "user" || last["content"] != "hello" {
		t.Errorf("last message = %v, want {role:user, content:hello}", last)
	}
	if second := msgs[1].(map[string]any); second["role"] != "assistant" {
		t.Errorf("second message role = %v, want assistant", second["role"])
	}

	if resp.Content != "Hello! How can I help?" {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.FinishReason != "stop" {
		t.Errorf("FinishReason = %q", resp.FinishReason)
	}
}

func TestOpenAIExtraBodyIsTopLevel(t *testing.T) {
	var got capturedRequest
	server := newCompletionServer(t, http.StatusOK, successBody, &got)

	s := testSettings(server.URL)
	s.ExtraBody = map[string]any{"user": "console"}
	p := NewOpenAIProvider(s)
	if _, err := p.Chat(context.Background(), &Request{Messages: []Message{UserMessage("x")}}); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if got.Body["user"] != "console" {
		t.Fatalf("user = %v, want console", got.Body["user"])
	}
}

func TestOpenAIHTTPErrorIsAPIError(t *testing.T) {
	server := newCompletionServer(t, http.StatusUnauthorized,
		`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key","param":null}}`, nil)

	p := NewOpenAIProvider(testSettings(server.URL))
	_, err := p.Chat(context.Background(), &Request{Messages: []Message{UserMessage("x")}})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %T %v, want *APIError", err, err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d", apiErr.StatusCode)
	}
	if apiErr.Code != "invalid_api_key" {
		t.Errorf("Code = %q", apiErr.Code)
	}
}

func TestOpenAIErrorPayloadWithSuccessStatus(t *testing.T) {
	server := newCompletionServer(t, http.StatusOK,
		`{"error":{"message":"The server had an error","type":"server_error"}}`, nil)

	p := NewOpenAIProvider(testSettings(server.URL))
	_, err := p.Chat(context.Background(), &Request{Messages: []Message{UserMessage("x")}})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %T %v, want *APIError", err, err)
	}
	if apiErr.Message != "The server had an error" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}
