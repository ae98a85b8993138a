package syncprogress

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaintrack-network/chaintrack/x/era"
	"github.com/chaintrack-network/chaintrack/x/pct"
	"github.com/chaintrack-network/chaintrack/x/timeinterp"
	"github.com/chaintrack-network/chaintrack/x/timequery"
)

func TestFromRelativeTimes(t *testing.T) {
	t.Parallel()

	sec := func(n int64) timequery.RelativeTime {
		return timequery.RelativeTime(time.Duration(n) * time.Second)
	}

	tests := []struct {
		name      string
		tolerance time.Duration
		covered   timequery.RelativeTime
		now       timequery.RelativeTime
		want      SyncProgress
	}{
		{
			name:      "covered equals now",
			tolerance: 20 * time.Second,
			covered:   sec(1000),
			now:       sec(1000),
			want:      Ready(),
		},
		{
			name:      "lag exactly at tolerance",
			tolerance: 20 * time.Second,
			covered:   sec(980),
			now:       sec(1000),
			want:      Ready(),
		},
		{
			name:      "lag past tolerance",
			tolerance: 20 * time.Second,
			covered:   sec(970),
			now:       sec(1000),
			want:      Syncing(pct.MustNew(0.97)),
		},
		{
			name:      "at chain origin",
			tolerance: 20 * time.Second,
			covered:   0,
			now:       0,
			want:      Ready(),
		},
		{
			name:      "halfway",
			tolerance: 0,
			covered:   sec(500),
			now:       sec(1000),
			want:      Syncing(pct.MustNew(0.5)),
		},
		{
			name:      "far behind",
			tolerance: 20 * time.Second,
			covered:   0,
			now:       sec(1000),
			want:      Syncing(pct.MustNew(0)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := FromRelativeTimes(tt.tolerance, tt.covered, tt.now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromRelativeTimesMillisecondRounding(t *testing.T) {
	t.Parallel()

	// Sub-millisecond parts must not perturb the ratio.
	covered := timequery.RelativeTime(970*time.Second + 400*time.Microsecond)
	now := timequery.RelativeTime(1000*time.Second + 900*time.Microsecond)

	got := FromRelativeTimes(20*time.Second, covered, now)
	assert.Equal(t, Syncing(pct.MustNew(0.97)), got)
}

func newTestEstimator(t *testing.T, tolerance time.Duration, start time.Time, slotLen time.Duration, horizon timequery.SlotNo) *Estimator {
	t.Helper()

	h, err := era.SingleEra(slotLen, horizon)
	require.NoError(t, err)
	src := era.NewSource(h)

	it := timeinterp.New(zerolog.Nop(), timequery.StartTime(start), src.Snapshot)
	return NewEstimator(tolerance, it, zerolog.Nop())
}

func TestEstimateAt(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	e := newTestEstimator(t, 20*time.Second, start, time.Second, 1_000_000)

	// Tip slot 970 covers +970s; at +1000s that is 30s behind a 20s tolerance.
	got, err := e.EstimateAt(t.Context(), 970, start.Add(1000*time.Second))
	require.NoError(t, err)
	assert.Equal(t, Syncing(pct.MustNew(0.97)), got)

	// Same tip judged 10s later than its slot time is within tolerance.
	got, err = e.EstimateAt(t.Context(), 970, start.Add(980*time.Second))
	require.NoError(t, err)
	assert.Equal(t, Ready(), got)
}

func TestEstimateAtBeforeGenesisClampsToReady(t *testing.T) {
	t.Parallel()

	// Test networks can have a genesis in the future; "now" then clamps to the
	// origin and a tip at slot 0 is trivially caught up.
	start := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	e := newTestEstimator(t, 20*time.Second, start, time.Second, 1000)

	got, err := e.EstimateAt(t.Context(), 0, start.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, Ready(), got)
}

func TestEstimateAtPropagatesPastHorizon(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	e := newTestEstimator(t, 20*time.Second, start, time.Second, 100)

	_, err := e.EstimateAt(t.Context(), 500, start.Add(time.Hour))
	require.Error(t, err)
	assert.True(t, timequery.IsPastHorizon(err))
}

func TestNewEstimatorClampsNegativeTolerance(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	e := newTestEstimator(t, -time.Second, start, time.Second, 1000)
	assert.Equal(t, time.Duration(0), e.Tolerance())
}

func TestSyncProgressJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   SyncProgress
		want string
	}{
		{name: "ready", in: Ready(), want: `{"status":"ready","progress":1}`},
		{name: "syncing", in: Syncing(pct.MustNew(0.97)), want: `{"status":"syncing","progress":0.97}`},
		{name: "not responding", in: NotResponding(), want: `{"status":"not_responding"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestSyncProgressString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ready", Ready().String())
	assert.Equal(t, "syncing (97.00%)", Syncing(pct.MustNew(0.97)).String())
	assert.Equal(t, "not responding", NotResponding().String())
}
