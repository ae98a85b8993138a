package era

import (
	"fmt"
	"time"

	"github.com/chaintrack-network/chaintrack/x/timequery"
)

// Summary describes one era's time-keeping rules: from which slot it applies
// and how long each of its slots lasts. Eras are contiguous; an era ends
// where the next one begins.
type Summary struct {
	FirstSlot  timequery.SlotNo
	SlotLength time.Duration
}

// History is an immutable, ordered collection of era summaries together with
// the horizon up to which the chain's time-keeping rules are known. It
// implements timequery.Snapshot: conversions for slots past the horizon
// answer with a past-horizon failure instead of guessing.
type History struct {
	eras    []Summary
	starts  []timequery.RelativeTime // start offset of each era, derived once
	horizon timequery.SlotNo         // first slot with unknown rules
}

// NewHistory builds a History from contiguous era summaries. The first era
// must start at slot 0, first slots must be strictly increasing, slot lengths
// must be positive, and the horizon must not precede the last era's start.
func NewHistory(eras []Summary, horizon timequery.SlotNo) (*History, error) {
	if len(eras) == 0 {
		return nil, fmt.Errorf("era: history needs at least one era")
	}
	if eras[0].FirstSlot != 0 {
		return nil, fmt.Errorf("era: first era must start at slot 0, got %d", eras[0].FirstSlot)
	}

	starts := make([]timequery.RelativeTime, len(eras))
	for i, e := range eras {
		if e.SlotLength <= 0 {
			return nil, fmt.Errorf("era: era %d has non-positive slot length %s", i, e.SlotLength)
		}
		if i == 0 {
			continue
		}
		prev := eras[i-1]
		if e.FirstSlot <= prev.FirstSlot {
			return nil, fmt.Errorf("era: era %d starts at slot %d, not after era %d (slot %d)",
				i, e.FirstSlot, i-1, prev.FirstSlot)
		}
		span := time.Duration(e.FirstSlot-prev.FirstSlot) * prev.SlotLength
		starts[i] = starts[i-1] + timequery.RelativeTime(span)
	}

	if horizon < eras[len(eras)-1].FirstSlot {
		return nil, fmt.Errorf("era: horizon slot %d precedes the last era's first slot %d",
			horizon, eras[len(eras)-1].FirstSlot)
	}

	cp := make([]Summary, len(eras))
	copy(cp, eras)

	return &History{eras: cp, starts: starts, horizon: horizon}, nil
}

// SingleEra builds a history with one era from slot 0, known up to horizon.
func SingleEra(slotLength time.Duration, horizon timequery.SlotNo) (*History, error) {
	return NewHistory([]Summary{{FirstSlot: 0, SlotLength: slotLength}}, horizon)
}

// Horizon returns the first slot the history has no rules for.
func (h *History) Horizon() timequery.SlotNo { return h.horizon }

// SlotToRelativeTime converts a slot to the relative time of its start and
// the slot length in force at that slot.
func (h *History) SlotToRelativeTime(slot timequery.SlotNo) (timequery.RelativeTime, time.Duration, error) {
	if slot >= h.horizon {
		return 0, 0, &timequery.PastHorizonError{Slot: slot, HorizonSlot: h.horizon}
	}

	// Last era whose first slot is <= slot. Era counts are tiny, a scan is fine.
	idx := 0
	for i := len(h.eras) - 1; i >= 0; i-- {
		if h.eras[i].FirstSlot <= slot {
			idx = i
			break
		}
	}

	e := h.eras[idx]
	rel := h.starts[idx] + timequery.RelativeTime(time.Duration(slot-e.FirstSlot)*e.SlotLength)
	return rel, e.SlotLength, nil
}
