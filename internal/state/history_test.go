package state_test

import (
	"fmt"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/naricha/ctxwhisper/internal/state"
)

func entry(i int) state.HistoryEntry {
	return state.HistoryEntry{
		ID:         fmt.Sprintf("entry-%d", i),
		CreatedAt:  time.Unix(int64(i), 0).UTC(),
		Summary:    fmt.Sprintf("summary %d", i),
		RawContext: fmt.Sprintf("context %d", i),
	}
}

// Property: the history never exceeds MaxHistory entries, newest first, and
// eviction always drops the oldest.
func TestHistoryCapAndOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 3*state.MaxHistory).Draw(t, "inserts")

		var h state.History
		for i := 0; i < n; i++ {
			h = h.Add(entry(i))
			if len(h) > state.MaxHistory {
				t.Fatalf("history grew to %d entries after insert %d", len(h), i)
			}
		}
		if n == 0 {
			return
		}

		// Newest first: h[0] is the last insert, h[len-1] the oldest survivor.
		if h[0].ID != entry(n-1).ID {
			t.Errorf("h[0]: got %s, want %s", h[0].ID, entry(n-1).ID)
		}
		oldest := n - len(h)
		if h[len(h)-1].ID != entry(oldest).ID {
			t.Errorf("oldest retained: got %s, want %s", h[len(h)-1].ID, entry(oldest).ID)
		}
	})
}

// TestHistoryEvictsExactlyOldest pins the 21st-insert edge case.
func TestHistoryEvictsExactlyOldest(t *testing.T) {
	var h state.History
	for i := 0; i < state.MaxHistory+1; i++ {
		h = h.Add(entry(i))
	}
	if len(h) != state.MaxHistory {
		t.Fatalf("length: got %d, want %d", len(h), state.MaxHistory)
	}
	if _, ok := h.Find(entry(0).ID); ok {
		t.Error("oldest entry still present after eviction")
	}
	if _, ok := h.Find(entry(1).ID); !ok {
		t.Error("second-oldest entry was evicted, want it retained")
	}
	if h[len(h)-1].ID != entry(1).ID {
		t.Errorf("oldest retained: got %s, want %s", h[len(h)-1].ID, entry(1).ID)
	}
}

func TestHistoryFind(t *testing.T) {
	var h state.History
	for i := 0; i < 5; i++ {
		h = h.Add(entry(i))
	}

	got, ok := h.Find("entry-3")
	if !ok {
		t.Fatal("Find(entry-3) returned false")
	}
	if got.Summary != "summary 3" {
		t.Errorf("Summary: got %q, want %q", got.Summary, "summary 3")
	}

	if _, ok := h.Find("nope"); ok {
		t.Error("Find returned true for unknown ID")
	}
}
