// Package app wires the session state machine, the conversation thread, the
// persistent store, and the summarization backend together. Every durable
// state transition is followed by a full snapshot write, so any front end
// (CLI verb, TUI, watcher) sees the same state on its next run.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/naricha/ctxwhisper/internal/chat"
	"github.com/naricha/ctxwhisper/internal/config"
	"github.com/naricha/ctxwhisper/internal/llm"
	"github.com/naricha/ctxwhisper/internal/reader"
	"github.com/naricha/ctxwhisper/internal/state"
	"github.com/naricha/ctxwhisper/internal/store"
)

// ErrNoSummary is returned by operations that need a summary to exist.
var ErrNoSummary = errors.New("no summary yet — run an analysis first")

// ErrNoConversation is returned by Recap when the chat log is empty.
var ErrNoConversation = errors.New("no conversation to summarize")

// App owns one live session and its collaborators.
type App struct {
	Config  config.Config
	Session *state.Session
	Thread  *chat.Thread

	store *store.Store
	svc   llm.Service
	conv  llm.Conversation
}

// New rehydrates the app from the persisted snapshots. Absent or corrupt
// snapshots fall back to a fresh session; only real I/O failures propagate.
func New(cfg config.Config, st *store.Store, svc llm.Service) (*App, error) {
	var sess *state.Session
	snap, err := st.LoadSession()
	switch {
	case err == nil:
		sess = snap.Session()
	case errors.Is(err, store.ErrNoSnapshot):
		sess = state.New(state.ParseLanguage(cfg.Language))
	default:
		return nil, err
	}

	messages, err := st.LoadConversation()
	switch {
	case err == nil:
		sess.Messages = messages
	case errors.Is(err, store.ErrNoSnapshot):
		// fresh conversation
	default:
		return nil, err
	}

	return &App{
		Config:  cfg,
		Session: sess,
		Thread:  chat.New(sess),
		store:   st,
		svc:     svc,
	}, nil
}

// ── Context editing ──────────────────────────────────────────────────────────

// SetContext replaces the context text and persists the session.
func (a *App) SetContext(text string) error {
	if text == a.Session.Context {
		return nil
	}
	a.Session.SetContext(text)
	return a.saveSession()
}

// LoadContextFile extracts text from the file and installs it as the
// context. An unsupported format aborts before any state changes.
func (a *App) LoadContextFile(path string) error {
	text, err := reader.ExtractText(path)
	if err != nil {
		return err
	}
	return a.SetContext(text)
}

// ClearContext empties the context (undoable) and persists.
func (a *App) ClearContext() error {
	if a.Session.Context == "" {
		return nil
	}
	a.Session.ClearContext()
	return a.saveSession()
}

// Undo steps the context back one edit; persists when something changed.
func (a *App) Undo() (bool, error) {
	if !a.Session.Undo() {
		return false, nil
	}
	return true, a.saveSession()
}

// Redo re-applies the last undone edit; persists when something changed.
func (a *App) Redo() (bool, error) {
	if !a.Session.Redo() {
		return false, nil
	}
	return true, a.saveSession()
}

// ── Analysis ─────────────────────────────────────────────────────────────────

// BeginAnalysis validates the context and returns the request to run.
// On validation failure the session's LastError is already set.
func (a *App) BeginAnalysis() (llm.SummaryRequest, error) {
	if err := a.Session.BeginAnalysis(); err != nil {
		return llm.SummaryRequest{}, err
	}
	opts := a.Session.Options
	return llm.SummaryRequest{
		Context:       a.Session.Context,
		ExcludeCode:   opts.ExcludeCode,
		FocusKeywords: opts.FocusKeywords,
		Language:      string(opts.Language),
	}, nil
}

// CompleteAnalysis installs the summary, discards the stale conversation
// grounding, and persists both documents.
func (a *App) CompleteAnalysis(summary string) error {
	a.Session.CompleteAnalysis(summary)
	a.Thread.Reset()
	a.conv = nil
	if err := a.saveSession(); err != nil {
		return err
	}
	return a.saveConversation()
}

// FailAnalysis records the failure message on the session. Nothing durable
// changed, so nothing is written.
func (a *App) FailAnalysis(err error) {
	a.Session.FailAnalysis(llm.UserMessage(err))
}

// Analyze runs the full begin → request → complete/fail cycle.
func (a *App) Analyze(ctx context.Context) (string, error) {
	req, err := a.BeginAnalysis()
	if err != nil {
		return "", err
	}
	summary, err := a.svc.Summarize(ctx, req)
	if err != nil {
		a.FailAnalysis(err)
		return "", err
	}
	if err := a.CompleteAnalysis(summary); err != nil {
		return "", err
	}
	return summary, nil
}

// Service exposes the summarization backend so front ends can run the I/O
// half of a begin/complete cycle themselves (the TUI does this inside a
// tea.Cmd).
func (a *App) Service() llm.Service { return a.svc }

// ── Conversation ─────────────────────────────────────────────────────────────

// BeginSend appends the user message, moves the thread to Waiting, persists
// the log, and returns the conversation handle to send on.
func (a *App) BeginSend(text string) (llm.Conversation, error) {
	if a.Thread.Status() != chat.Idle {
		return nil, a.Thread.BeginSend(text) // surfaces ErrLocked / ErrWaiting
	}
	conv := a.ensureConversation()
	if err := a.Thread.BeginSend(text); err != nil {
		return nil, err
	}
	return conv, a.saveConversation()
}

// CompleteSend records the reply and persists the log.
func (a *App) CompleteSend(reply string) error {
	a.Thread.CompleteSend(reply)
	return a.saveConversation()
}

// FailSend records the failure as an in-log error reply and persists.
func (a *App) FailSend(err error) error {
	a.Thread.FailSend(llm.UserMessage(err))
	return a.saveConversation()
}

// Send runs one full chat round trip.
func (a *App) Send(ctx context.Context, text string) (string, error) {
	conv, err := a.BeginSend(text)
	if err != nil {
		return "", err
	}
	reply, err := conv.Send(ctx, text)
	if err != nil {
		if saveErr := a.FailSend(err); saveErr != nil {
			return "", saveErr
		}
		return "", err
	}
	if err := a.CompleteSend(reply); err != nil {
		return "", err
	}
	return reply, nil
}

// BeginRetry re-issues the most recent user message (dropping its trailing
// error reply, if any) and returns the handle plus the content to resend.
func (a *App) BeginRetry() (llm.Conversation, string, error) {
	if a.Thread.Status() != chat.Idle {
		_, err := a.Thread.BeginRetry()
		return nil, "", err
	}
	conv := a.ensureConversation()
	content, err := a.Thread.BeginRetry()
	if err != nil {
		return nil, "", err
	}
	return conv, content, a.saveConversation()
}

// Retry runs one full retry round trip.
func (a *App) Retry(ctx context.Context) (string, error) {
	conv, content, err := a.BeginRetry()
	if err != nil {
		return "", err
	}
	reply, err := conv.Send(ctx, content)
	if err != nil {
		if saveErr := a.FailSend(err); saveErr != nil {
			return "", saveErr
		}
		return "", err
	}
	if err := a.CompleteSend(reply); err != nil {
		return "", err
	}
	return reply, nil
}

// ClearChat empties the conversation and discards the grounding. The caller
// confirms with the user first.
func (a *App) ClearChat() error {
	a.Thread.Clear()
	a.conv = nil
	return a.saveConversation()
}

// Recap summarizes the non-error conversation thread. Failures land in the
// session's banner error, never in the chat log — recaps have no in-log
// retry affordance.
func (a *App) Recap(ctx context.Context) (string, error) {
	turns := a.groundingTurns(false)
	if len(turns) == 0 {
		return "", ErrNoConversation
	}
	recap, err := a.svc.SummarizeConversation(ctx, turns, string(a.Session.Options.Language))
	if err != nil {
		a.Session.LastError = llm.UserMessage(err)
		return "", err
	}
	return recap, nil
}

// ensureConversation lazily re-establishes the grounded conversation from
// the current summary context and the persisted non-error log. A trailing
// unanswered user message is excluded: it is the message about to be
// (re)sent.
func (a *App) ensureConversation() llm.Conversation {
	if a.conv == nil {
		opts := a.Session.Options
		a.conv = a.svc.StartConversation(llm.Grounding{
			Context:     a.Session.Context,
			ExcludeCode: opts.ExcludeCode,
			Language:    string(opts.Language),
			Prior:       a.groundingTurns(true),
		})
	}
	return a.conv
}

// groundingTurns converts the non-error log into model turns.
func (a *App) groundingTurns(dropTrailingUser bool) []llm.Turn {
	history := a.Thread.History()
	if dropTrailingUser && len(history) > 0 && history[len(history)-1].Role == state.RoleUser {
		history = history[:len(history)-1]
	}
	turns := make([]llm.Turn, len(history))
	for i, m := range history {
		turns[i] = llm.Turn{Role: string(m.Role), Content: m.Content}
	}
	return turns
}

// ── History ──────────────────────────────────────────────────────────────────

// RestoreHistory replaces the live state with the entry's snapshot and
// persists both documents. The caller confirms with the user first.
func (a *App) RestoreHistory(id string) error {
	if err := a.Session.RestoreHistory(id); err != nil {
		return err
	}
	a.Thread.Reset()
	a.conv = nil
	if err := a.saveSession(); err != nil {
		return err
	}
	return a.saveConversation()
}

// ── Export ───────────────────────────────────────────────────────────────────

// ExportSummary writes the current summary to a date-named text file in dir
// and returns the full path.
func (a *App) ExportSummary(dir string) (string, error) {
	if a.Session.Summary == "" {
		return "", ErrNoSummary
	}
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, fmt.Sprintf("summary-%s.txt", time.Now().Format("2006-01-02")))
	if err := os.WriteFile(path, []byte(a.Session.Summary), 0o644); err != nil {
		return "", fmt.Errorf("writing summary file: %w", err)
	}
	return path, nil
}

// ── Persistence ──────────────────────────────────────────────────────────────

func (a *App) saveSession() error {
	if err := a.store.SaveSession(a.Session); err != nil {
		slog.Error("app: session snapshot write failed", "error", err)
		return err
	}
	return nil
}

func (a *App) saveConversation() error {
	if err := a.store.SaveConversation(a.Session.Messages); err != nil {
		slog.Error("app: conversation snapshot write failed", "error", err)
		return err
	}
	return nil
}
