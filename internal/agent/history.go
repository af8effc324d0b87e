package agent

import (
	"sync"
)

// DefaultHistorySize bounds the rolling tool-response history kept for
// display purposes.
const DefaultHistorySize = 50

// history is a bounded rolling log of tool responses, oldest evicted first.
// It exists only so a UI can show recent activity; nothing is persisted.
type history struct {
	mu      sync.Mutex
	entries []ToolResponse
	max     int
}

func newHistory(max int) *history {
	if max <= 0 {
		max = DefaultHistorySize
	}
	return &history{max: max}
}

func (h *history) add(resp ToolResponse) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, resp)
	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
}

// snapshot returns a copy of the entries, newest last.
func (h *history) snapshot() []ToolResponse {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]ToolResponse, len(h.entries))
	copy(out, h.entries)
	return out
}
