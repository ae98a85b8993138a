package timequery

import (
	"errors"
	"fmt"
)

// PastHorizonError reports that a query's target slot falls outside the era
// history known to the snapshot that evaluated it. It is an expected, regular
// failure: more history may be known on a later snapshot.
type PastHorizonError struct {
	// Slot is the slot the query asked about.
	Slot SlotNo
	// HorizonSlot is the first slot the snapshot has no era information for.
	HorizonSlot SlotNo
}

func (e *PastHorizonError) Error() string {
	return fmt.Sprintf("slot %d is past the era horizon (known up to slot %d)", e.Slot, e.HorizonSlot)
}

// IsPastHorizon reports whether err is, or wraps, a PastHorizonError.
func IsPastHorizon(err error) bool {
	var phe *PastHorizonError
	return errors.As(err, &phe)
}
