package state

import "time"

// MaxHistory caps the summary history. The oldest entries beyond the cap
// are dropped silently.
const MaxHistory = 20

// HistoryEntry is an immutable record of one past summarization, restorable
// as a unit.
type HistoryEntry struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Summary    string    `json:"summary"`
	RawContext string    `json:"raw_context"`
	Options    Options   `json:"options"`
}

// History is a most-recent-first list of summary results, capped at
// MaxHistory entries.
type History []HistoryEntry

// Add prepends entry and evicts the oldest entries beyond MaxHistory.
func (h History) Add(entry HistoryEntry) History {
	out := make(History, 0, len(h)+1)
	out = append(out, entry)
	out = append(out, h...)
	if len(out) > MaxHistory {
		out = out[:MaxHistory]
	}
	return out
}

// Find returns the entry with the given ID.
func (h History) Find(id string) (HistoryEntry, bool) {
	for _, e := range h {
		if e.ID == id {
			return e, true
		}
	}
	return HistoryEntry{}, false
}
