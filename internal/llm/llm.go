// Package llm talks to an OpenAI-compatible chat-completion backend and
// exposes the three capabilities ctxwhisper needs: one-shot context
// summarization, grounded follow-up conversations, and conversation recaps.
package llm

import (
	"context"
	"errors"
)

// Turn is a single role/content pair as sent to the model.
type Turn struct {
	Role    string // "system", "user", "assistant"
	Content string
}

// SummaryRequest carries the context and analysis controls for Summarize.
type SummaryRequest struct {
	Context       string
	ExcludeCode   bool
	FocusKeywords string
	Language      string // "en" | "th"
}

// Grounding is the material a conversation is anchored to: the analyzed
// context, the exclude-code preference, the reply language, and any prior
// turns restored from a persisted conversation log.
type Grounding struct {
	Context     string
	ExcludeCode bool
	Language    string
	Prior       []Turn
}

// Service is the summarization backend consumed by the rest of the app.
// All failures are reported as *ServiceError.
type Service interface {
	// Summarize produces a summary of the given context.
	Summarize(ctx context.Context, req SummaryRequest) (string, error)

	// StartConversation establishes a grounded conversation and returns an
	// owned handle for it. The handle is discarded (not closed) when the
	// grounding goes stale.
	StartConversation(g Grounding) Conversation

	// SummarizeConversation produces a digest of a finished or ongoing
	// conversation thread.
	SummarizeConversation(ctx context.Context, turns []Turn, language string) (string, error)
}

// Conversation is one grounded follow-up thread. Send appends the exchange
// to the conversation's own transcript only when the request succeeds, so a
// failed send can simply be retried.
type Conversation interface {
	Send(ctx context.Context, message string) (string, error)
}

// User-facing failure messages, matching the app's established wording.
const (
	MsgSummarizeFailed = "Failed to summarize the content. Please check your API key and connection."
	MsgSendFailed      = "Failed to send message."
	MsgNoSummary       = "No summary generated."
	MsgNoReply         = "I'm sorry, I couldn't process that request."
)

// ServiceError wraps any transport/auth/model failure. Message is safe to
// show to the user; Err carries the underlying cause for logs.
type ServiceError struct {
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error { return e.Err }

// UserMessage extracts the user-facing message from err, falling back to
// err.Error() for non-service failures.
func UserMessage(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Message
	}
	return err.Error()
}
