package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/chaintrack-network/chaintrack/x/syncprogress"
	"github.com/chaintrack-network/chaintrack/x/timequery"
	"github.com/chaintrack-network/chaintrack/x/tipsource"
)

// Monitor periodically fetches the local node's tip, judges its sync
// progress, and caches the latest verdict for the API and metrics.
//
// A node that cannot be reached, or whose tip cannot be converted because it
// falls past the era horizon, is reported as not responding. The monitor
// itself never retries within a poll; the next tick asks again.
type Monitor struct {
	log     zerolog.Logger
	cfg     Config
	tips    tipsource.Source
	est     *syncprogress.Estimator
	metrics *Metrics
	now     func() time.Time

	mu      sync.RWMutex
	current syncprogress.SyncProgress
	tip     tipsource.ChainTip
	hasTip  bool

	started bool
	cancel  context.CancelFunc
}

// New creates a Monitor. Metrics may be nil to disable recording.
func New(cfg Config, log zerolog.Logger, tips tipsource.Source, est *syncprogress.Estimator, m *Metrics) (*Monitor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Monitor{
		log:     log.With().Str("component", "sync-monitor").Logger(),
		cfg:     cfg,
		tips:    tips,
		est:     est,
		metrics: m,
		now:     now,
		current: syncprogress.NotResponding(),
	}, nil
}

// Start begins polling until the context is canceled or Stop is called.
func (m *Monitor) Start(ctx context.Context) error {
	if m.started {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.started = true

	m.log.Info().
		Dur("poll_interval", m.cfg.PollInterval).
		Dur("tolerance", m.est.Tolerance()).
		Msg("Sync monitor starting")

	go m.pollLoop(runCtx)
	return nil
}

// Stop halts the monitor.
func (m *Monitor) Stop(context.Context) error {
	if !m.started {
		return nil
	}

	m.started = false
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	m.log.Info().Msg("Sync monitor stopped")
	return nil
}

// Current returns the latest verdict, the tip it was based on, and whether a
// tip has been observed at all yet.
func (m *Monitor) Current() (syncprogress.SyncProgress, tipsource.ChainTip, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current, m.tip, m.hasTip
}

// Tolerance returns the estimator's tolerance.
func (m *Monitor) Tolerance() time.Duration { return m.est.Tolerance() }

func (m *Monitor) pollLoop(ctx context.Context) {
	// Judge once immediately so the API has an answer before the first tick.
	m.poll(ctx)

	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.poll(ctx)
		}
	}
}

func (m *Monitor) poll(ctx context.Context) {
	began := time.Now()

	tip, err := m.tips.Tip(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("Tip fetch failed")
		m.setNotResponding()
		m.recordPoll("error", began)
		return
	}

	prog, err := m.est.EstimateAt(ctx, tip.Slot, m.now())
	if err != nil {
		if timequery.IsPastHorizon(err) {
			m.log.Warn().
				Uint64("tip_slot", uint64(tip.Slot)).
				Err(err).
				Msg("Tip conversion fell past the era horizon")
			if m.metrics != nil {
				m.metrics.RecordHorizonFailure()
			}
		} else {
			m.log.Error().Err(err).Msg("Sync estimate failed")
		}
		m.setNotResponding()
		m.recordPoll("error", began)
		return
	}

	m.mu.Lock()
	previous := m.current
	m.current = prog
	m.tip = tip
	m.hasTip = true
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.RecordTip(uint64(tip.Slot), tip.Height)
		m.metrics.RecordProgress(prog.Progress.Ratio())
	}
	m.recordPoll(string(prog.Status), began)

	if previous.Status != prog.Status {
		m.log.Info().
			Str("from", string(previous.Status)).
			Str("to", string(prog.Status)).
			Uint64("tip_slot", uint64(tip.Slot)).
			Str("progress", prog.Progress.String()).
			Msg("Sync state changed")
	} else {
		m.log.Debug().
			Uint64("tip_slot", uint64(tip.Slot)).
			Str("progress", prog.Progress.String()).
			Msg("Sync state polled")
	}
}

func (m *Monitor) setNotResponding() {
	m.mu.Lock()
	m.current = syncprogress.NotResponding()
	m.mu.Unlock()
}

func (m *Monitor) recordPoll(status string, began time.Time) {
	if m.metrics != nil {
		m.metrics.RecordPoll(status, time.Since(began))
	}
}
