package state

import (
	"testing"

	"pgregory.net/rapid"
)

// applyEdits drives a session through a random sequence of edits, undos, and
// redos, returning the labels of the operations performed.
func applyEdits(t *rapid.T, s *Session) {
	n := rapid.IntRange(0, 30).Draw(t, "ops")
	for i := 0; i < n; i++ {
		switch rapid.IntRange(0, 3).Draw(t, "op") {
		case 0, 1:
			s.SetContext(rapid.StringN(0, 40, -1).Draw(t, "text"))
		case 2:
			s.Undo()
		case 3:
			s.Redo()
		}
	}
}

// Property: after any edit that is not an undo/redo, the redo stack is empty.
func TestEditClearsRedoStack(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := New(LangEnglish)
		applyEdits(t, s)

		text := rapid.StringN(0, 40, -1).Draw(t, "final_text")
		before := s.Context
		s.SetContext(text)
		if text != before && s.CanRedo() {
			t.Fatalf("redo stack not empty after edit %q", text)
		}
	})
}

// Property: undo immediately followed by redo restores the context and
// leaves both stacks exactly as they were before the pair.
func TestUndoRedoRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := New(LangEnglish)
		applyEdits(t, s)

		if !s.CanUndo() {
			return // nothing to undo this run
		}

		wantContext := s.Context
		wantPast := append([]string(nil), s.undo.past...)
		wantFuture := append([]string(nil), s.undo.future...)

		if !s.Undo() {
			t.Fatal("Undo returned false with non-empty past")
		}
		if !s.Redo() {
			t.Fatal("Redo returned false immediately after Undo")
		}

		if s.Context != wantContext {
			t.Errorf("context after undo+redo: got %q, want %q", s.Context, wantContext)
		}
		if !equalStack(s.undo.past, wantPast) {
			t.Errorf("past after undo+redo: got %v, want %v", s.undo.past, wantPast)
		}
		if !equalStack(s.undo.future, wantFuture) {
			t.Errorf("future after undo+redo: got %v, want %v", s.undo.future, wantFuture)
		}
	})
}

// Property: redo with an empty future is a no-op, and undo with an empty
// past is a no-op.
func TestUndoRedoNoOpOnEmptyStacks(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := New(LangEnglish)
		applyEdits(t, s)

		// Drain the redo stack, then one more Redo must change nothing.
		for s.Redo() {
		}
		wantContext := s.Context
		wantPast := append([]string(nil), s.undo.past...)
		if s.Redo() {
			t.Fatal("Redo returned true with empty future")
		}
		if s.Context != wantContext || !equalStack(s.undo.past, wantPast) {
			t.Error("Redo on empty future changed state")
		}

		// Same for undo.
		for s.Undo() {
		}
		wantContext = s.Context
		wantFuture := append([]string(nil), s.undo.future...)
		if s.Undo() {
			t.Fatal("Undo returned true with empty past")
		}
		if s.Context != wantContext || !equalStack(s.undo.future, wantFuture) {
			t.Error("Undo on empty past changed state")
		}
	})
}

// TestUndoWalksEditSequence exercises a concrete edit chain.
func TestUndoWalksEditSequence(t *testing.T) {
	s := New(LangEnglish)
	edits := []string{"a", "ab", "abc"}
	for _, e := range edits {
		s.SetContext(e)
	}

	// Walk all the way back.
	for i := len(edits) - 2; i >= 0; i-- {
		if !s.Undo() {
			t.Fatalf("Undo failed at step %d", i)
		}
		if s.Context != edits[i] {
			t.Fatalf("after undo: got %q, want %q", s.Context, edits[i])
		}
	}
	if !s.Undo() {
		t.Fatal("Undo to initial state failed")
	}
	if s.Context != "" {
		t.Fatalf("after final undo: got %q, want empty", s.Context)
	}

	// And forward again.
	for i := 0; i < len(edits); i++ {
		if !s.Redo() {
			t.Fatalf("Redo failed at step %d", i)
		}
		if s.Context != edits[i] {
			t.Fatalf("after redo: got %q, want %q", s.Context, edits[i])
		}
	}
}

// TestSetContextIdempotent verifies that setting the same text does not grow
// the undo stack.
func TestSetContextIdempotent(t *testing.T) {
	s := New(LangEnglish)
	s.SetContext("hello")
	s.SetContext("hello")
	if got := len(s.undo.past); got != 1 {
		t.Errorf("past length after duplicate set: got %d, want 1", got)
	}
}

func equalStack(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
