package timequery

import "time"

// Qry is a self-contained description of a slot/time computation. A value of
// Qry[T] needs zero or more single-era conversions, possibly the chain start
// time, and pure sequencing to produce a T. Expressions carry no state and
// can be evaluated any number of times against different snapshots.
//
// Composite expressions built with Bind succeed even when their parts fall
// into different eras: every leaf is resolved against the snapshot
// independently, so no single-era evaluator is ever asked a multi-era
// question.
type Qry[T any] interface {
	eval(start StartTime, snap Snapshot) (T, error)
}

type pureQry[T any] struct{ v T }

func (q pureQry[T]) eval(StartTime, Snapshot) (T, error) { return q.v, nil }

// Pure is a query that yields a constant and always succeeds.
func Pure[T any](v T) Qry[T] { return pureQry[T]{v: v} }

type chainStartQry struct{}

func (chainStartQry) eval(start StartTime, _ Snapshot) (StartTime, error) { return start, nil }

// ChainStart is a query that yields the chain's start time. It always succeeds.
func ChainStart() Qry[StartTime] { return chainStartQry{} }

type eraLocalQry[T any] struct {
	run func(Snapshot) (T, error)
}

func (q eraLocalQry[T]) eval(_ StartTime, snap Snapshot) (T, error) { return q.run(snap) }

// EraLocal wraps a computation that is only valid within a single era's
// time-keeping rules. It is evaluated by delegating to the snapshot, and its
// past-horizon failures propagate verbatim.
func EraLocal[T any](run func(Snapshot) (T, error)) Qry[T] {
	return eraLocalQry[T]{run: run}
}

type bindQry[A, B any] struct {
	q Qry[A]
	f func(A) Qry[B]
}

func (q bindQry[A, B]) eval(start StartTime, snap Snapshot) (B, error) {
	a, err := q.q.eval(start, snap)
	if err != nil {
		var zero B
		return zero, err
	}
	return q.f(a).eval(start, snap)
}

// Bind sequences q and feeds its result into f to produce the next query.
// The first failure short-circuits the whole composite. Go methods cannot
// introduce type parameters, so Bind is a top-level function rather than a
// method on Qry.
func Bind[A, B any](q Qry[A], f func(A) Qry[B]) Qry[B] {
	return bindQry[A, B]{q: q, f: f}
}

// Map applies a pure function to a query's result.
func Map[A, B any](q Qry[A], f func(A) B) Qry[B] {
	return Bind(q, func(a A) Qry[B] { return Pure(f(a)) })
}

// SlotToRelativeTime queries the relative time at which the given slot
// starts, discarding the slot length.
func SlotToRelativeTime(slot SlotNo) Qry[RelativeTime] {
	return EraLocal(func(snap Snapshot) (RelativeTime, error) {
		rel, _, err := snap.SlotToRelativeTime(slot)
		return rel, err
	})
}

// SlotToWallTime queries the absolute wall-clock time at which the given slot
// starts. The slot conversion and the start time are resolved as separate
// steps, so the composition holds across era boundaries.
func SlotToWallTime(slot SlotNo) Qry[time.Time] {
	return Bind(SlotToRelativeTime(slot), func(rel RelativeTime) Qry[time.Time] {
		return Map(ChainStart(), func(start StartTime) time.Time {
			return start.Time().Add(time.Duration(rel))
		})
	})
}

// Run evaluates a query against a fixed start time and era snapshot.
// Evaluation is immediate structural recursion: leaves delegate to the
// snapshot, Pure and ChainStart always succeed, and Bind short-circuits on
// the first failure. There are no retries and no partial results.
func Run[T any](start StartTime, snap Snapshot, q Qry[T]) (T, error) {
	return q.eval(start, snap)
}
