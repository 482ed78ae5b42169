package provider

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// errNoChoices marks a success response that carries no candidate.
var errNoChoices = errors.New("no choices in response")

// APIError is an error reported by the endpoint itself: either a non-2xx
// status or an "error" object inside an otherwise well-formed body.
// The conversation can continue after it.
type APIError struct {
	Provider   string
	StatusCode int // 0 when the error arrived with a 2xx status
	Type       string
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "unknown error"
	}
	if e.Code != "" {
		msg = fmt.Sprintf("[%s] %s", e.Code, msg)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s api error (status %d): %s", e.Provider, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s api error: %s", e.Provider, msg)
}

// TransportError is a failure to reach the endpoint or to decode its reply.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsAPIError reports whether err carries an *APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// errorFromBody extracts an OpenAI-style "error" object from a JSON body.
// It returns nil when the body has no such object.
func errorFromBody(providerName string, status int, body string) *APIError {
	e := gjson.Get(body, "error")
	if !e.Exists() || e.Type == gjson.Null {
		return nil
	}
	apiErr := &APIError{Provider: providerName, StatusCode: status}
	if e.IsObject() {
		apiErr.Message = e.Get("message").String()
		apiErr.Type = e.Get("type").String()
		apiErr.Code = e.Get("code").String()
	} else {
		apiErr.Message = e.String()
	}
	return apiErr
}
