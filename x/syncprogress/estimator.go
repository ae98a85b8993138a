package syncprogress

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/chaintrack-network/chaintrack/x/pct"
	"github.com/chaintrack-network/chaintrack/x/timeinterp"
	"github.com/chaintrack-network/chaintrack/x/timequery"
)

// DefaultTolerance is the lag between tip time and now that still counts as
// caught up.
const DefaultTolerance = 30 * time.Second

// Estimator turns a local tip slot into a sync-progress verdict.
//
// Progress is defined as covered/now: wall-clock time covered by the tip over
// wall-clock time elapsed since genesis. Block height would be the obvious
// measure, but the local node cannot verify the true network tip height, so
// elapsed time stands in for expected work. The estimate is pessimistic early
// (it assumes every slot carries a block) and converges to 100% as the tip's
// time approaches now.
type Estimator struct {
	tolerance time.Duration
	it        *timeinterp.Interpreter
	log       zerolog.Logger
}

// NewEstimator creates an Estimator. Negative tolerances clamp to zero.
func NewEstimator(tolerance time.Duration, it *timeinterp.Interpreter, log zerolog.Logger) *Estimator {
	if tolerance < 0 {
		tolerance = 0
	}
	return &Estimator{
		tolerance: tolerance,
		it:        it,
		log:       log.With().Str("component", "sync-estimator").Logger(),
	}
}

// Tolerance returns the configured tolerance.
func (e *Estimator) Tolerance() time.Duration { return e.tolerance }

// EstimateAt judges the tip slot against the given current time. A
// past-horizon failure from the interpreter propagates to the caller, who may
// decide the node is not responding; no retry happens here.
func (e *Estimator) EstimateAt(ctx context.Context, tip timequery.SlotNo, now time.Time) (SyncProgress, error) {
	covered, err := timeinterp.Interpret(ctx, e.it, timequery.SlotToRelativeTime(tip))
	if err != nil {
		return SyncProgress{}, fmt.Errorf("convert tip slot %d: %w", tip, err)
	}

	nowRel := e.it.CurrentRelativeTime(now)
	return FromRelativeTimes(e.tolerance, covered, nowRel), nil
}

// FromRelativeTimes is the pure core of the estimate: classify the time
// covered by the tip against the current relative time.
func FromRelativeTimes(tolerance time.Duration, covered, now timequery.RelativeTime) SyncProgress {
	if now.Sub(covered) <= tolerance {
		return Ready()
	}

	// Whole milliseconds on both sides, so fractional-second noise does not
	// dominate the ratio for very early slots.
	nowMs := now.Milliseconds()
	if nowMs == 0 {
		// No time has passed, so no progress. Unreachable while covered is
		// non-negative (the tolerance check fires first), kept as a guard
		// against division by zero.
		return Syncing(pct.Percentage{})
	}

	ratio := float64(covered.Milliseconds()) / float64(nowMs)
	p, err := pct.New(ratio)
	if err != nil {
		// covered > now after the tolerance check means time ran backwards
		// somewhere. Answering with a clamped value would hide that, so stop.
		panic(fmt.Errorf("syncprogress: time covered %s exceeds current time %s: %w", covered, now, err))
	}
	return Syncing(p)
}
