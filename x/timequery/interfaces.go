package timequery

import "time"

// Snapshot answers questions that are valid within a single era's
// time-keeping rules. A snapshot is a fixed view of the era history known at
// the moment it was taken; implementations must stay stable for the duration
// of one query evaluation.
//
// Multi-era questions must not be put to a Snapshot directly. They are
// expressed as Qry values, whose evaluation decomposes them into single-era
// leaf calls.
type Snapshot interface {
	// SlotToRelativeTime converts a slot to the relative time of its start,
	// together with the slot length in force at that slot. Slots at or past
	// the snapshot's horizon answer with a *PastHorizonError.
	SlotToRelativeTime(slot SlotNo) (RelativeTime, time.Duration, error)
}
