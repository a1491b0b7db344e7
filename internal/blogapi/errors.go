package blogapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors an *APIError unwraps to, by status class.
var (
	ErrUnauthorized = errors.New("authentication required")
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("request rejected by server")
	ErrServer       = errors.New("server error")
	ErrUnreachable  = errors.New("server unreachable")
)

// APIError is a non-2xx response from the blog backend.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
}

// Unwrap maps the status code onto one of the package sentinels.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		return ErrUnauthorized
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity:
		return ErrInvalidInput
	case e.Status >= 500:
		return ErrServer
	default:
		return nil
	}
}

// errorBody covers the error shapes the backend has returned.
type errorBody struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
	Errors  []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// messageFromBody derives the user-facing message: message, then error,
// then the first entry of errors, then the status text.
func messageFromBody(status int, body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Message != "" {
			return eb.Message
		}
		if msg := rawErrorMessage(eb.Error); msg != "" {
			return msg
		}
		if len(eb.Errors) > 0 && eb.Errors[0].Message != "" {
			return eb.Errors[0].Message
		}
	} else if text := strings.TrimSpace(string(body)); text != "" && !strings.HasPrefix(text, "<") {
		return text
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "unexpected response"
}

// rawErrorMessage accepts "error" as a string or as {"message": ...}.
func rawErrorMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Message
	}
	return ""
}

// Errors returned before any call for an unusable blog id.
var (
	ErrMissingID = errors.New("blog id is required")
	ErrInvalidID = errors.New("invalid blog id")
)
