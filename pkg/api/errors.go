package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Error taxonomy. The client maps every failure into exactly one of these;
// callers branch with errors.Is / errors.As and decide about retries
// themselves.
var (
	ErrNetwork      = errors.New("network failure")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// StatusError is a 5xx answer from the backend.
type StatusError struct {
	Code   int
	Reason string
}

func (e *StatusError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("server error (status %d): %s", e.Code, e.Reason)
	}
	return fmt.Sprintf("server error (status %d)", e.Code)
}

// DecodeError is a syntactically or structurally malformed response body.
type DecodeError struct {
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed response: %s", e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// errorEnvelope is the backend's JSON error body.
type errorEnvelope struct {
	Error struct {
		Reason string `json:"reason"`
		Advice string `json:"advice,omitempty"`
	} `json:"error"`
}

// reasonOf extracts the backend's error reason, falling back to the raw
// body when the envelope does not parse.
func reasonOf(body []byte) string {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error.Reason != "" {
		return env.Error.Reason
	}
	const max = 200
	if len(body) > max {
		body = body[:max]
	}
	return string(body)
}

// errorFromResponse maps a non-2xx response into the taxonomy. The body is
// consumed.
func errorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	reason := reasonOf(body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		if reason != "" {
			return fmt.Errorf("%w: %s", ErrUnauthorized, reason)
		}
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		if reason != "" {
			return fmt.Errorf("%w: %s", ErrNotFound, reason)
		}
		return ErrNotFound
	case resp.StatusCode >= 500:
		return &StatusError{Code: resp.StatusCode, Reason: reason}
	default:
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, reason)
	}
}
