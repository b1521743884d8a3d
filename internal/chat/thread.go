// Package chat drives the follow-up conversation as a small state machine
// over the session's conversation log: Locked until a summary exists, Idle
// between requests, Waiting while exactly one request is in flight. The
// machine is pure state — network I/O happens between the Begin* and
// Complete/Fail transitions, in whichever front end is driving it.
package chat

import (
	"errors"
	"strings"

	"github.com/naricha/ctxwhisper/internal/state"
)

// Status is the conversation flow state.
type Status int

const (
	// Locked: no summary yet, sending is rejected.
	Locked Status = iota
	// Idle: a summary exists and no request is in flight.
	Idle
	// Waiting: one request is in flight; further sends are no-ops.
	Waiting
)

func (s Status) String() string {
	switch s {
	case Locked:
		return "locked"
	case Idle:
		return "idle"
	case Waiting:
		return "waiting"
	}
	return "unknown"
}

// MsgChatLocked is shown when chatting before any summary exists.
const MsgChatLocked = "Chat not initialized. Please summarize content first."

var (
	// ErrLocked rejects sends before a summary exists.
	ErrLocked = errors.New(MsgChatLocked)
	// ErrWaiting marks a send attempted while a request is in flight;
	// callers treat it as a silent no-op.
	ErrWaiting = errors.New("a request is already in flight")
	// ErrEmptyMessage marks a blank outgoing message; also a no-op.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrNothingToRetry is returned by BeginRetry when no user message exists.
	ErrNothingToRetry = errors.New("no message to retry")
)

// Thread is the conversation flow over one session.
type Thread struct {
	sess    *state.Session
	waiting bool
}

// New wraps sess in a conversation thread.
func New(sess *state.Session) *Thread {
	return &Thread{sess: sess}
}

// Status reports the current flow state.
func (t *Thread) Status() Status {
	switch {
	case t.waiting:
		return Waiting
	case t.sess.Summary == "":
		return Locked
	default:
		return Idle
	}
}

// BeginSend optimistically appends the user message and moves to Waiting.
// The caller then performs the request and finishes with CompleteSend or
// FailSend. From Locked it returns ErrLocked; from Waiting, ErrWaiting (the
// log is left unchanged in both cases).
func (t *Thread) BeginSend(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}
	switch t.Status() {
	case Locked:
		return ErrLocked
	case Waiting:
		return ErrWaiting
	}
	t.sess.AppendMessage(state.UserMessage(text))
	t.waiting = true
	return nil
}

// CompleteSend appends the assistant reply and returns to Idle.
func (t *Thread) CompleteSend(reply string) {
	t.sess.AppendMessage(state.AssistantMessage(reply))
	t.waiting = false
}

// FailSend records the failure as an in-log error reply and returns to Idle.
// The user retries manually; nothing is retried automatically.
func (t *Thread) FailSend(explanation string) {
	t.sess.AppendMessage(state.ErrorMessage(explanation))
	t.waiting = false
}

// BeginRetry re-issues the most recent user message. If the entry
// immediately following that message is an error reply, it is removed first;
// the user message itself is never re-appended. Returns the message content
// to send and moves to Waiting.
func (t *Thread) BeginRetry() (string, error) {
	switch t.Status() {
	case Locked:
		return "", ErrLocked
	case Waiting:
		return "", ErrWaiting
	}

	i := t.lastUserIndex()
	if i < 0 {
		return "", ErrNothingToRetry
	}
	if next := i + 1; next < len(t.sess.Messages) && t.sess.Messages[next].IsError {
		t.sess.RemoveMessage(next)
	}
	t.waiting = true
	return t.sess.Messages[i].Content, nil
}

// Clear empties the conversation log. The caller confirms with the user
// first and discards the stale grounding handle.
func (t *Thread) Clear() {
	t.sess.ClearMessages()
	t.waiting = false
}

// Reset drops the in-flight flag along with the log; used when a new summary
// or a history restore invalidates the conversation wholesale.
func (t *Thread) Reset() {
	t.waiting = false
}

// History returns the non-error messages, the grounding material for the
// backend. Error replies never reach the model.
func (t *Thread) History() []state.Message {
	var out []state.Message
	for _, m := range t.sess.Messages {
		if m.IsError {
			continue
		}
		out = append(out, m)
	}
	return out
}

func (t *Thread) lastUserIndex() int {
	for i := len(t.sess.Messages) - 1; i >= 0; i-- {
		if t.sess.Messages[i].Role == state.RoleUser {
			return i
		}
	}
	return -1
}
