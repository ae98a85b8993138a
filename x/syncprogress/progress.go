package syncprogress

import (
	"encoding/json"
	"fmt"

	"github.com/chaintrack-network/chaintrack/x/pct"
)

// Status classifies how far the local node is behind the network.
type Status string

const (
	// StatusReady means the tip is within tolerance of the current time.
	StatusReady Status = "ready"
	// StatusSyncing means the node is catching up; Progress says how far it got.
	StatusSyncing Status = "syncing"
	// StatusNotResponding is a caller-level judgment: the node could not be
	// asked, or the answer fell past the era horizon. The estimator itself
	// never produces it.
	StatusNotResponding Status = "not_responding"
)

// SyncProgress is the estimator's verdict.
type SyncProgress struct {
	Status   Status
	Progress pct.Percentage
}

// Ready reports a caught-up node. Progress is 100% by construction.
func Ready() SyncProgress {
	return SyncProgress{Status: StatusReady, Progress: pct.Complete()}
}

// Syncing reports a node still catching up.
func Syncing(p pct.Percentage) SyncProgress {
	return SyncProgress{Status: StatusSyncing, Progress: p}
}

// NotResponding reports a node that could not be judged.
func NotResponding() SyncProgress {
	return SyncProgress{Status: StatusNotResponding}
}

func (s SyncProgress) String() string {
	switch s.Status {
	case StatusReady:
		return "ready"
	case StatusSyncing:
		return fmt.Sprintf("syncing (%s)", s.Progress)
	default:
		return "not responding"
	}
}

// MarshalJSON emits {"status": ..., "progress": ...}; progress is omitted for
// a node that is not responding.
func (s SyncProgress) MarshalJSON() ([]byte, error) {
	if s.Status == StatusNotResponding {
		return json.Marshal(struct {
			Status Status `json:"status"`
		}{Status: s.Status})
	}
	return json.Marshal(struct {
		Status   Status         `json:"status"`
		Progress pct.Percentage `json:"progress"`
	}{Status: s.Status, Progress: s.Progress})
}
