package timequery

import (
	"fmt"
	"time"
)

// SlotNo identifies one discrete time unit of the chain, counted from genesis.
type SlotNo uint64

// StartTime is the absolute wall-clock instant of the chain's genesis.
type StartTime time.Time

// Time returns the start time as a plain time.Time.
func (s StartTime) Time() time.Time { return time.Time(s) }

// RelativeTime is a duration since the chain's start time. It is never
// negative: wall-clock instants before genesis clamp to zero.
type RelativeTime time.Duration

// Sub returns the duration between two relative times. The result is
// negative when o is later than r.
func (r RelativeTime) Sub(o RelativeTime) time.Duration {
	return time.Duration(r) - time.Duration(o)
}

// Milliseconds returns the relative time rounded down to whole milliseconds.
// Comparisons and ratios use this granularity so sub-millisecond noise does
// not leak into results.
func (r RelativeTime) Milliseconds() int64 {
	return time.Duration(r).Milliseconds()
}

func (r RelativeTime) String() string {
	return fmt.Sprintf("+%s", time.Duration(r))
}

// Since derives the relative time of an absolute instant. Instants before the
// chain start (seen on test networks with a future genesis) clamp to zero.
func Since(start StartTime, at time.Time) RelativeTime {
	d := at.Sub(start.Time())
	if d < 0 {
		d = 0
	}
	return RelativeTime(d)
}
