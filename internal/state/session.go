// Package state holds the authoritative session state for ctxwhisper:
// the context text under analysis, the latest summary, the bounded summary
// history, the follow-up conversation log, and the undo/redo stacks for
// context edits. All mutation goes through transition methods so the
// invariants (history cap, cleared redo stack after edits, pre-analysis
// snapshots) hold no matter which front end drives the session.
package state

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Language selects the output language for summaries and chat replies.
type Language string

const (
	LangEnglish Language = "en"
	LangThai    Language = "th"
)

// ParseLanguage maps a user-supplied string to a Language, defaulting to English.
func ParseLanguage(s string) Language {
	if strings.EqualFold(s, string(LangThai)) {
		return LangThai
	}
	return LangEnglish
}

// Options are the analysis controls. They are captured by value into each
// history entry at analysis time; they are not versioned by undo/redo.
type Options struct {
	ExcludeCode   bool     `json:"exclude_code"`
	FocusKeywords string   `json:"focus_keywords"`
	Language      Language `json:"language"`
}

// MsgEmptyContext is shown when analysis is requested with nothing to analyze.
const MsgEmptyContext = "Please provide some content to analyze."

// ErrEmptyContext is returned by BeginAnalysis when the context is empty or
// whitespace-only. The same condition is surfaced to the user via LastError.
var ErrEmptyContext = errors.New("context is empty")

// ErrEntryNotFound is returned by RestoreHistory for an unknown entry ID.
var ErrEntryNotFound = errors.New("history entry not found")

// Session is the single source of truth for one analysis session.
// IsProcessing and LastError are transient: they are never persisted and
// reset to their zero values on load.
type Session struct {
	Context  string
	Summary  string
	History  History
	Options  Options
	Messages []Message

	IsProcessing bool
	LastError    string

	undo undoStacks

	// Snapshot taken at BeginAnalysis so the history entry reflects the
	// context/options the summary was actually produced from, even if the
	// user keeps editing while the request is in flight.
	snapContext string
	snapOptions Options
	snapTaken   bool
}

// New returns an empty session with the given default language.
func New(lang Language) *Session {
	return &Session{Options: Options{Language: lang}}
}

// SetContext replaces the context text, recording the previous value for
// undo. Setting the same text again is a no-op.
func (s *Session) SetContext(text string) {
	if text == s.Context {
		return
	}
	s.undo.Record(s.Context)
	s.Context = text
}

// ClearContext empties the context text (undoable like any other edit).
func (s *Session) ClearContext() {
	s.SetContext("")
}

// CanUndo reports whether an undo step is available.
func (s *Session) CanUndo() bool { return s.undo.CanUndo() }

// CanRedo reports whether a redo step is available.
func (s *Session) CanRedo() bool { return s.undo.CanRedo() }

// Undo steps the context text back one edit. Returns false if there is
// nothing to undo.
func (s *Session) Undo() bool {
	prev, ok := s.undo.Undo(s.Context)
	if !ok {
		return false
	}
	s.Context = prev
	return true
}

// Redo re-applies the most recently undone edit. Returns false if there is
// nothing to redo.
func (s *Session) Redo() bool {
	next, ok := s.undo.Redo(s.Context)
	if !ok {
		return false
	}
	s.Context = next
	return true
}

// BeginAnalysis validates the context and marks the session as processing.
// An empty or whitespace-only context sets LastError to MsgEmptyContext and
// returns ErrEmptyContext without any other state change.
func (s *Session) BeginAnalysis() error {
	if strings.TrimSpace(s.Context) == "" {
		s.LastError = MsgEmptyContext
		return ErrEmptyContext
	}
	s.IsProcessing = true
	s.LastError = ""
	s.snapContext = s.Context
	s.snapOptions = s.Options
	s.snapTaken = true
	return nil
}

// CompleteAnalysis installs a successful summary: the summary text is
// replaced, a history entry built from the pre-analysis snapshot is
// prepended (evicting beyond the cap), and the conversation log is reset
// because a new summary invalidates the old chat grounding.
func (s *Session) CompleteAnalysis(summary string) HistoryEntry {
	rawContext, opts := s.Context, s.Options
	if s.snapTaken {
		rawContext, opts = s.snapContext, s.snapOptions
	}
	entry := HistoryEntry{
		ID:         uuid.New().String(),
		CreatedAt:  time.Now(),
		Summary:    summary,
		RawContext: rawContext,
		Options:    opts,
	}
	s.Summary = summary
	s.History = s.History.Add(entry)
	s.Messages = nil
	s.IsProcessing = false
	s.snapTaken = false
	return entry
}

// FailAnalysis records a failed analysis. Context and summary are unchanged.
func (s *Session) FailAnalysis(message string) {
	s.LastError = message
	s.IsProcessing = false
	s.snapTaken = false
}

// RestoreHistory replaces context, summary, and options with the snapshot
// stored in the entry. The entry stays in the history; the conversation log
// is reset. The caller is responsible for confirming the action with the
// user first. The replaced context is recorded for undo like any other edit.
func (s *Session) RestoreHistory(id string) error {
	entry, ok := s.History.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	if entry.RawContext != s.Context {
		s.undo.Record(s.Context)
		s.Context = entry.RawContext
	}
	s.Summary = entry.Summary
	s.Options = entry.Options
	s.Messages = nil
	return nil
}

// AppendMessage adds a message to the conversation log.
func (s *Session) AppendMessage(m Message) {
	s.Messages = append(s.Messages, m)
}

// RemoveMessage deletes the message at index i from the conversation log.
func (s *Session) RemoveMessage(i int) {
	if i < 0 || i >= len(s.Messages) {
		return
	}
	s.Messages = append(s.Messages[:i], s.Messages[i+1:]...)
}

// ClearMessages empties the conversation log.
func (s *Session) ClearMessages() {
	s.Messages = nil
}
