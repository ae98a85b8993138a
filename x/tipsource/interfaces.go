package tipsource

import (
	"context"

	"github.com/chaintrack-network/chaintrack/x/timequery"
)

// ChainTip is the local node's view of its best block.
type ChainTip struct {
	Slot   timequery.SlotNo `json:"slot"`
	Hash   string           `json:"hash"`
	Height uint64           `json:"height"`
}

// Source reports the local node's current tip.
type Source interface {
	Tip(ctx context.Context) (ChainTip, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (ChainTip, error)

func (f SourceFunc) Tip(ctx context.Context) (ChainTip, error) { return f(ctx) }
