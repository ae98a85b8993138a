package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaintrack-network/chaintrack/x/era"
	"github.com/chaintrack-network/chaintrack/x/syncprogress"
	"github.com/chaintrack-network/chaintrack/x/timeinterp"
	"github.com/chaintrack-network/chaintrack/x/timequery"
	"github.com/chaintrack-network/chaintrack/x/tipsource"
)

var testStart = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestEstimator(t *testing.T, horizon timequery.SlotNo) *syncprogress.Estimator {
	t.Helper()

	h, err := era.SingleEra(time.Second, horizon)
	require.NoError(t, err)

	it := timeinterp.New(zerolog.Nop(), timequery.StartTime(testStart), era.NewSource(h).Snapshot)
	return syncprogress.NewEstimator(20*time.Second, it, zerolog.Nop())
}

func fixedTip(slot timequery.SlotNo, height uint64) tipsource.Source {
	return tipsource.SourceFunc(func(context.Context) (tipsource.ChainTip, error) {
		return tipsource.ChainTip{Slot: slot, Hash: "aa", Height: height}, nil
	})
}

func newTestMonitor(t *testing.T, tips tipsource.Source, est *syncprogress.Estimator, now time.Time, m *Metrics) *Monitor {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Now = func() time.Time { return now }

	mon, err := New(cfg, zerolog.Nop(), tips, est, m)
	require.NoError(t, err)
	return mon
}

func TestNewValidatesConfig(t *testing.T) {
	t.Parallel()

	cfg := Config{PollInterval: 0}
	_, err := New(cfg, zerolog.Nop(), fixedTip(0, 0), newTestEstimator(t, 1000), nil)
	require.Error(t, err)

	cfg = Config{PollInterval: time.Second, Tolerance: -time.Second}
	_, err = New(cfg, zerolog.Nop(), fixedTip(0, 0), newTestEstimator(t, 1000), nil)
	require.Error(t, err)
}

func TestCurrentBeforeFirstPoll(t *testing.T) {
	t.Parallel()

	mon := newTestMonitor(t, fixedTip(0, 0), newTestEstimator(t, 1000), testStart, nil)

	prog, _, hasTip := mon.Current()
	assert.Equal(t, syncprogress.NotResponding(), prog)
	assert.False(t, hasTip)
}

func TestPollOutcomes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		tips       tipsource.Source
		horizon    timequery.SlotNo
		now        time.Time
		wantStatus syncprogress.Status
		wantTip    bool
	}{
		{
			name:       "caught up",
			tips:       fixedTip(1000, 950),
			horizon:    1_000_000,
			now:        testStart.Add(1010 * time.Second),
			wantStatus: syncprogress.StatusReady,
			wantTip:    true,
		},
		{
			name:       "still syncing",
			tips:       fixedTip(970, 950),
			horizon:    1_000_000,
			now:        testStart.Add(1000 * time.Second),
			wantStatus: syncprogress.StatusSyncing,
			wantTip:    true,
		},
		{
			name: "tip fetch error",
			tips: tipsource.SourceFunc(func(context.Context) (tipsource.ChainTip, error) {
				return tipsource.ChainTip{}, errors.New("connection refused")
			}),
			horizon:    1_000_000,
			now:        testStart.Add(time.Hour),
			wantStatus: syncprogress.StatusNotResponding,
			wantTip:    false,
		},
		{
			name:       "tip past horizon",
			tips:       fixedTip(5000, 4000),
			horizon:    100,
			now:        testStart.Add(time.Hour),
			wantStatus: syncprogress.StatusNotResponding,
			wantTip:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mon := newTestMonitor(t, tt.tips, newTestEstimator(t, tt.horizon), tt.now, nil)
			mon.poll(t.Context())

			prog, tip, hasTip := mon.Current()
			assert.Equal(t, tt.wantStatus, prog.Status)
			assert.Equal(t, tt.wantTip, hasTip)
			if tt.wantTip {
				assert.NotZero(t, tip.Slot)
			}
		})
	}
}

func TestPollSyncingProgressValue(t *testing.T) {
	t.Parallel()

	mon := newTestMonitor(t, fixedTip(970, 950), newTestEstimator(t, 1_000_000),
		testStart.Add(1000*time.Second), nil)
	mon.poll(t.Context())

	prog, tip, hasTip := mon.Current()
	require.True(t, hasTip)
	assert.Equal(t, timequery.SlotNo(970), tip.Slot)
	assert.Equal(t, syncprogress.StatusSyncing, prog.Status)
	assert.Equal(t, 0.97, prog.Progress.Ratio())
}

func TestPollRecordsMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewMetricsOn(reg)

	mon := newTestMonitor(t, fixedTip(970, 950), newTestEstimator(t, 1_000_000),
		testStart.Add(1000*time.Second), m)
	mon.poll(t.Context())

	assert.Equal(t, 0.97, testutil.ToFloat64(m.ProgressRatio))
	assert.Equal(t, float64(970), testutil.ToFloat64(m.TipSlot))
	assert.Equal(t, float64(950), testutil.ToFloat64(m.TipHeight))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.PollsTotal.WithLabelValues("syncing")))
}

func TestPollRecordsHorizonFailures(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewMetricsOn(reg)

	mon := newTestMonitor(t, fixedTip(5000, 4000), newTestEstimator(t, 100),
		testStart.Add(time.Hour), m)
	mon.poll(t.Context())

	assert.Equal(t, float64(1), testutil.ToFloat64(m.HorizonFailuresTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.PollsTotal.WithLabelValues("error")))
}

func TestStartStopLoop(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.PollInterval = 10 * time.Millisecond
	cfg.Now = func() time.Time { return testStart.Add(1010 * time.Second) }

	mon, err := New(cfg, zerolog.Nop(), fixedTip(1000, 950), newTestEstimator(t, 1_000_000), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, mon.Start(ctx))
	defer mon.Stop(context.Background())

	require.Eventually(t, func() bool {
		prog, _, hasTip := mon.Current()
		return hasTip && prog.Status == syncprogress.StatusReady
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, mon.Stop(context.Background()))
	require.NoError(t, mon.Stop(context.Background()), "Stop is idempotent")
}
