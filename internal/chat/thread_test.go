package chat_test

import (
	"errors"
	"testing"

	"github.com/naricha/ctxwhisper/internal/chat"
	"github.com/naricha/ctxwhisper/internal/state"
)

func readySession() *state.Session {
	s := state.New(state.LangEnglish)
	s.SetContext("some document")
	if err := s.BeginAnalysis(); err != nil {
		panic(err)
	}
	s.CompleteAnalysis("a summary")
	return s
}

func TestLockedUntilSummaryExists(t *testing.T) {
	s := state.New(state.LangEnglish)
	th := chat.New(s)

	if got := th.Status(); got != chat.Locked {
		t.Fatalf("status: got %v, want Locked", got)
	}
	if err := th.BeginSend("hello?"); !errors.Is(err, chat.ErrLocked) {
		t.Fatalf("BeginSend: got %v, want ErrLocked", err)
	}
	if len(s.Messages) != 0 {
		t.Errorf("log length: got %d, want 0", len(s.Messages))
	}
}

func TestSendLifecycle(t *testing.T) {
	s := readySession()
	th := chat.New(s)

	if err := th.BeginSend("what is this about?"); err != nil {
		t.Fatalf("BeginSend: %v", err)
	}
	if got := th.Status(); got != chat.Waiting {
		t.Fatalf("status after BeginSend: got %v, want Waiting", got)
	}
	if len(s.Messages) != 1 || s.Messages[0].Role != state.RoleUser {
		t.Fatal("user message not appended optimistically")
	}

	th.CompleteSend("it is about testing")
	if got := th.Status(); got != chat.Idle {
		t.Fatalf("status after CompleteSend: got %v, want Idle", got)
	}
	if len(s.Messages) != 2 {
		t.Fatalf("log length: got %d, want 2", len(s.Messages))
	}
	if m := s.Messages[1]; m.Role != state.RoleAssistant || m.IsError {
		t.Errorf("reply: got %+v", m)
	}
}

// Property 6: a send issued while Waiting is a no-op.
func TestSendWhileWaitingIsNoOp(t *testing.T) {
	s := readySession()
	th := chat.New(s)

	if err := th.BeginSend("first"); err != nil {
		t.Fatalf("BeginSend: %v", err)
	}
	before := len(s.Messages)

	if err := th.BeginSend("second"); !errors.Is(err, chat.ErrWaiting) {
		t.Fatalf("got %v, want ErrWaiting", err)
	}
	if len(s.Messages) != before {
		t.Errorf("log length changed: got %d, want %d", len(s.Messages), before)
	}
}

func TestEmptySendIsNoOp(t *testing.T) {
	s := readySession()
	th := chat.New(s)

	if err := th.BeginSend("  \n "); !errors.Is(err, chat.ErrEmptyMessage) {
		t.Fatalf("got %v, want ErrEmptyMessage", err)
	}
	if len(s.Messages) != 0 {
		t.Errorf("log length: got %d, want 0", len(s.Messages))
	}
}

func TestFailSendRecordsErrorReply(t *testing.T) {
	s := readySession()
	th := chat.New(s)

	if err := th.BeginSend("question"); err != nil {
		t.Fatal(err)
	}
	th.FailSend("Failed to send message.")

	if got := th.Status(); got != chat.Idle {
		t.Fatalf("status: got %v, want Idle", got)
	}
	last := s.Messages[len(s.Messages)-1]
	if !last.IsError || last.Role != state.RoleAssistant {
		t.Errorf("error reply: got %+v", last)
	}
}

// TestRetryRemovesTrailingErrorReply: failed send, then retry — the error
// reply disappears, the user message stays, the content is re-issued.
func TestRetryRemovesTrailingErrorReply(t *testing.T) {
	s := readySession()
	th := chat.New(s)

	if err := th.BeginSend("the question"); err != nil {
		t.Fatal(err)
	}
	th.FailSend("Failed to send message.")
	if len(s.Messages) != 2 {
		t.Fatalf("setup log length: got %d, want 2", len(s.Messages))
	}

	content, err := th.BeginRetry()
	if err != nil {
		t.Fatalf("BeginRetry: %v", err)
	}
	if content != "the question" {
		t.Errorf("retry content: got %q", content)
	}
	if len(s.Messages) != 1 {
		t.Fatalf("log after retry: got %d messages, want 1 (error reply removed)", len(s.Messages))
	}
	if s.Messages[0].Role != state.RoleUser {
		t.Error("surviving message is not the user message")
	}
	if got := th.Status(); got != chat.Waiting {
		t.Fatalf("status: got %v, want Waiting", got)
	}
}

// Property 7: retry after a successful reply removes nothing and re-sends
// the last user message.
func TestRetryAfterSuccessKeepsLog(t *testing.T) {
	s := readySession()
	th := chat.New(s)

	if err := th.BeginSend("the question"); err != nil {
		t.Fatal(err)
	}
	th.CompleteSend("a real answer")
	before := len(s.Messages)

	content, err := th.BeginRetry()
	if err != nil {
		t.Fatalf("BeginRetry: %v", err)
	}
	if content != "the question" {
		t.Errorf("retry content: got %q", content)
	}
	if len(s.Messages) != before {
		t.Errorf("log length: got %d, want %d (nothing removed)", len(s.Messages), before)
	}

	th.CompleteSend("a second answer")
	if len(s.Messages) != before+1 {
		t.Errorf("log length after reply: got %d, want %d", len(s.Messages), before+1)
	}
}

func TestRetryWithEmptyLog(t *testing.T) {
	s := readySession()
	th := chat.New(s)

	if _, err := th.BeginRetry(); !errors.Is(err, chat.ErrNothingToRetry) {
		t.Fatalf("got %v, want ErrNothingToRetry", err)
	}
}

func TestHistoryExcludesErrorReplies(t *testing.T) {
	s := readySession()
	th := chat.New(s)

	if err := th.BeginSend("q1"); err != nil {
		t.Fatal(err)
	}
	th.FailSend("Failed to send message.")
	if _, err := th.BeginRetry(); err != nil {
		t.Fatal(err)
	}
	th.CompleteSend("a1")

	hist := th.History()
	if len(hist) != 2 {
		t.Fatalf("history length: got %d, want 2", len(hist))
	}
	for _, m := range hist {
		if m.IsError {
			t.Errorf("error reply leaked into history: %+v", m)
		}
	}
}

func TestClearEmptiesLog(t *testing.T) {
	s := readySession()
	th := chat.New(s)

	if err := th.BeginSend("q"); err != nil {
		t.Fatal(err)
	}
	th.CompleteSend("a")

	th.Clear()
	if len(s.Messages) != 0 {
		t.Errorf("log length: got %d, want 0", len(s.Messages))
	}
	if got := th.Status(); got != chat.Idle {
		t.Fatalf("status: got %v, want Idle", got)
	}
}
