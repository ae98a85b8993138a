package era

import (
	"context"
	"sync"

	"github.com/chaintrack-network/chaintrack/x/timequery"
)

// Source is a shared, swappable holder for the current era history. A chain
// follower swaps in a wider history as more of the chain becomes known;
// readers always get the full, consistent history that was current when they
// asked.
type Source struct {
	mu sync.RWMutex
	h  *History
}

// NewSource creates a Source holding the given history.
func NewSource(h *History) *Source {
	return &Source{h: h}
}

// Snapshot returns the current history as a stable snapshot. Histories are
// immutable, so later swaps never affect a query already in flight.
func (s *Source) Snapshot(context.Context) (timequery.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.h, nil
}

// Current returns the history itself, for callers that need the horizon.
func (s *Source) Current() *History {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.h
}

// Swap replaces the held history. Nil histories are ignored.
func (s *Source) Swap(h *History) {
	if h == nil {
		return
	}
	s.mu.Lock()
	s.h = h
	s.mu.Unlock()
}
