package timeinterp

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/chaintrack-network/chaintrack/x/timequery"
)

// SnapshotFunc hands out the current era snapshot. It may read shared state
// that is refreshed behind the scenes as more chain history becomes known;
// each call returns a stable view.
type SnapshotFunc func(ctx context.Context) (timequery.Snapshot, error)

// Interpreter bundles everything needed to answer slot/time queries: the
// snapshot accessor, the fixed chain start time, a log sink for diagnostics,
// and the policy applied to past-horizon failures.
//
// An Interpreter is a long-lived, read-mostly handle. Concurrent Interpret
// calls are safe; each one sees its own snapshot.
type Interpreter struct {
	snapshot SnapshotFunc
	start    timequery.StartTime
	log      zerolog.Logger

	// exact marks past-horizon failures as structurally impossible. When one
	// occurs anyway, it is logged with reason and escalated to a panic
	// instead of being returned.
	exact  bool
	reason string
}

// New creates an Interpreter that returns past-horizon failures to the
// caller as ordinary errors.
func New(log zerolog.Logger, start timequery.StartTime, snapshot SnapshotFunc) *Interpreter {
	return &Interpreter{
		snapshot: snapshot,
		start:    start,
		log:      log.With().Str("component", "time-interpreter").Logger(),
	}
}

// ChainStart returns the chain's start time. It is fixed for the lifetime of
// the interpreter.
func (it *Interpreter) ChainStart() timequery.StartTime { return it.start }

// CurrentRelativeTime converts an absolute instant to time relative to the
// chain start, clamped at zero for instants before genesis.
func (it *Interpreter) CurrentRelativeTime(at time.Time) timequery.RelativeTime {
	return timequery.Since(it.start, at)
}

// Interpret acquires one era snapshot and evaluates the query against it.
// The accessor is called exactly once; the whole query sees that one
// snapshot. Past-horizon failures are returned as errors unless the
// interpreter was wrapped with NeverFails.
func Interpret[T any](ctx context.Context, it *Interpreter, q timequery.Qry[T]) (T, error) {
	var zero T

	snap, err := it.snapshot(ctx)
	if err != nil {
		return zero, fmt.Errorf("acquire era snapshot: %w", err)
	}

	v, err := timequery.Run(it.start, snap, q)
	if err != nil && it.exact && timequery.IsPastHorizon(err) {
		it.log.Error().
			Str("reason", it.reason).
			Time("chain_start", it.start.Time()).
			Err(err).
			Msg("query failed past the horizon although that was ruled out")
		panic(fmt.Errorf("timeinterp: %s: %w", it.reason, err))
	}
	return v, err
}

// NeverFails derives an interpreter that never returns a past-horizon
// failure. Callers use it when they have independent assurance that such
// failures cannot occur (for example a fixed epoch configuration with no
// forks); reason documents that assurance. If a failure happens anyway the
// assurance was violated, and the interpreter logs the diagnostic and panics
// rather than let the process continue with a wrong answer.
func NeverFails(reason string, it *Interpreter) *Interpreter {
	cp := *it
	cp.exact = true
	cp.reason = reason
	return &cp
}

// WrapSnapshot derives an interpreter whose snapshot accessor is wrapped by
// the given middleware. Start time and query semantics are untouched. This is
// how an interpreter built for one execution context is adapted to another
// (added timeouts, caching, instrumentation) without re-deriving its logic.
func WrapSnapshot(wrap func(SnapshotFunc) SnapshotFunc, it *Interpreter) *Interpreter {
	cp := *it
	cp.snapshot = wrap(it.snapshot)
	return &cp
}
