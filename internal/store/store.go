// Package store persists session and conversation snapshots as two
// independent JSON documents in the XDG data directory. Each document is
// rewritten in full after every durable change; a document that exists but
// cannot be parsed is discarded wholesale (logged, never surfaced).
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/naricha/ctxwhisper/internal/state"
)

// ErrNoSnapshot is returned by the Load functions when no usable snapshot
// exists on disk — absent and malformed documents are indistinguishable to
// callers, both meaning "start from defaults".
var ErrNoSnapshot = errors.New("no saved snapshot")

const (
	sessionFile      = "session.json"
	conversationFile = "conversation.json"
)

// SessionSnapshot is the persisted form of the session. The transient
// fields (IsProcessing, LastError) and the undo/redo stacks are deliberately
// absent; they reset on every load.
type SessionSnapshot struct {
	Context       string         `json:"context_text"`
	Summary       string         `json:"summary_text"`
	History       state.History  `json:"history_entries"`
	ExcludeCode   bool           `json:"exclude_code"`
	FocusKeywords string         `json:"focus_keywords"`
	Language      state.Language `json:"language"`
}

// Store reads and writes the two snapshot documents.
type Store struct {
	dir string
}

// New returns a Store rooted at the XDG data directory.
// Path: $XDG_DATA_HOME/ctxwhisper or ~/.local/share/ctxwhisper
func New() (*Store, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func dataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "ctxwhisper"), nil
}

// Snapshot captures the persistable portion of sess.
func Snapshot(sess *state.Session) SessionSnapshot {
	return SessionSnapshot{
		Context:       sess.Context,
		Summary:       sess.Summary,
		History:       sess.History,
		ExcludeCode:   sess.Options.ExcludeCode,
		FocusKeywords: sess.Options.FocusKeywords,
		Language:      sess.Options.Language,
	}
}

// Session rebuilds a live session from the snapshot. Transient fields come
// back as their defaults: not processing, no error.
func (snap SessionSnapshot) Session() *state.Session {
	sess := state.New(snap.Language)
	sess.Context = snap.Context
	sess.Summary = snap.Summary
	sess.History = snap.History
	sess.Options = state.Options{
		ExcludeCode:   snap.ExcludeCode,
		FocusKeywords: snap.FocusKeywords,
		Language:      snap.Language,
	}
	return sess
}

// SaveSession rewrites the session document from sess.
func (st *Store) SaveSession(sess *state.Session) error {
	return st.write(sessionFile, Snapshot(sess))
}

// LoadSession reads the session document. Returns ErrNoSnapshot when the
// document is absent or malformed.
func (st *Store) LoadSession() (SessionSnapshot, error) {
	var snap SessionSnapshot
	if err := st.read(sessionFile, &snap); err != nil {
		return SessionSnapshot{}, err
	}
	return snap, nil
}

// SaveConversation rewrites the conversation document.
func (st *Store) SaveConversation(messages []state.Message) error {
	if messages == nil {
		messages = []state.Message{}
	}
	return st.write(conversationFile, messages)
}

// LoadConversation reads the conversation document. Returns ErrNoSnapshot
// when the document is absent or malformed.
func (st *Store) LoadConversation() ([]state.Message, error) {
	var messages []state.Message
	if err := st.read(conversationFile, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// write marshals v and replaces the named document atomically via a temp
// file + os.Rename.
func (st *Store) write(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to persist %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(st.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to persist %s: %w", name, err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist %s: %w", name, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist %s: %w", name, err)
	}
	if err = os.Rename(tmpName, filepath.Join(st.dir, name)); err != nil {
		return fmt.Errorf("failed to persist %s: %w", name, err)
	}
	return nil
}

// read unmarshals the named document into v. A missing file maps to
// ErrNoSnapshot silently; a corrupt file maps to ErrNoSnapshot with a
// warning in the log — corruption is never surfaced to the user.
func (st *Store) read(name string, v any) error {
	path := filepath.Join(st.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNoSnapshot
		}
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		slog.Warn("store: discarding malformed snapshot", "file", name, "error", err)
		return ErrNoSnapshot
	}
	return nil
}
