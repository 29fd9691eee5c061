package ai

import (
	"errors"
	"fmt"
)

// Fallback replies stored in place of a model answer.
const (
	// FallbackNoReply is used when the endpoint answers without any completion.
	FallbackNoReply = "I'm having trouble responding right now. Please try again."
	// FallbackUnavailable is used by callers when the completion call fails.
	FallbackUnavailable = "I'm having trouble connecting right now. Please try again in a moment."
)

var (
	// ErrNotConfigured means no credential is available for the completion API.
	ErrNotConfigured = errors.New("completion API credential not configured")
	// ErrStreamingUnsupported is returned by chat models that only answer whole replies.
	ErrStreamingUnsupported = errors.New("streaming completions are not supported")
)

// UpstreamError reports a failed exchange with the completion endpoint. StatusCode
// is zero when no HTTP response was received.
type UpstreamError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("completion API error: %d: %v", e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("completion API error: %d %s", e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("completion API request failed: %v", e.Err)
	default:
		return "completion API request failed"
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
