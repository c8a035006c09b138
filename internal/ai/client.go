package ai

import (
	"context"
	"errors"
)

// ErrCompletionFailed is the single opaque failure surfaced for any provider
// problem (network, auth, rate limit, empty response). Callers never branch
// on the underlying cause.
var ErrCompletionFailed = errors.New("completion request failed")

// Message is one entry of the conversation sent to the completion service.
type Message struct {
	Role    string
	Content string
}

// CompletionRequest is a single text-completion call: a model identifier and
// an ordered message sequence. Temperature and MaxTokens are optional; zero
// values leave them to the provider default.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// Client is the external completion service. Implementations must treat every
// call as independent; the one network round-trip per call is the only
// suspend point in the request pipeline.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
