package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/chaintrack-network/chaintrack/pkg/metrics"
	apisrv "github.com/chaintrack-network/chaintrack/server/api"
	apimw "github.com/chaintrack-network/chaintrack/server/api/middleware"
	"github.com/chaintrack-network/chaintrack/tracker-app/config"
	"github.com/chaintrack-network/chaintrack/x/era"
	"github.com/chaintrack-network/chaintrack/x/monitor"
	"github.com/chaintrack-network/chaintrack/x/syncprogress"
	"github.com/chaintrack-network/chaintrack/x/timeinterp"
	"github.com/chaintrack-network/chaintrack/x/timequery"
	"github.com/chaintrack-network/chaintrack/x/tipsource"
)

// App wires the era history, tip source, sync monitor and HTTP API together.
type App struct {
	cfg *config.Config
	log zerolog.Logger

	eras        *era.Source
	interpreter *timeinterp.Interpreter
	tips        *tipsource.RPCClient
	mon         *monitor.Monitor

	apiServer *apisrv.Server

	cancel context.CancelFunc
}

// NewApp creates a new application instance
func NewApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	app := &App{
		cfg: cfg,
		log: log.With().Str("component", "app").Logger(),
	}

	if err := app.initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize app: %w", err)
	}

	return app, nil
}

// initialize sets up the application components
func (a *App) initialize(ctx context.Context) error {
	if err := a.initializeTimeKeeping(); err != nil {
		return err
	}
	if err := a.initializeMonitor(ctx); err != nil {
		return err
	}
	return a.initializeAPIServer()
}

// initializeTimeKeeping loads the era history and builds the slot-time interpreter.
func (a *App) initializeTimeKeeping() error {
	var (
		h   *era.History
		err error
	)
	if strings.TrimSpace(a.cfg.Chain.EraFile) != "" {
		h, err = era.LoadHistory(a.cfg.Chain.EraFile)
		if err != nil {
			return fmt.Errorf("failed to load era history: %w", err)
		}
		a.log.Info().Str("era_file", a.cfg.Chain.EraFile).Msg("Era history loaded")
	} else {
		h, err = era.SingleEra(a.cfg.Chain.SlotLength, timequery.SlotNo(a.cfg.Chain.HorizonSlot))
		if err != nil {
			return fmt.Errorf("failed to build era history: %w", err)
		}
	}

	start, err := a.cfg.Chain.ParseStartTime()
	if err != nil {
		return err
	}

	a.eras = era.NewSource(h)
	a.interpreter = timeinterp.New(a.log, timequery.StartTime(start), a.eras.Snapshot)

	a.log.Info().
		Time("chain_start", start).
		Uint64("horizon_slot", uint64(h.Horizon())).
		Msg("Time keeping initialized")
	return nil
}

// initializeMonitor dials the node and starts tracking its tip.
func (a *App) initializeMonitor(ctx context.Context) error {
	tips, err := tipsource.DialRPC(ctx, a.cfg.Node, a.log)
	if err != nil {
		return fmt.Errorf("failed to dial node: %w", err)
	}
	a.tips = tips

	est := syncprogress.NewEstimator(a.cfg.Monitor.Tolerance, a.interpreter, a.log)

	var m *monitor.Metrics
	if a.cfg.Metrics.Enabled {
		m = monitor.NewMetrics()
	}

	mon, err := monitor.New(a.cfg.Monitor, a.log, tips, est, m)
	if err != nil {
		return fmt.Errorf("failed to create monitor: %w", err)
	}
	a.mon = mon
	return nil
}

// initializeAPIServer sets up the HTTP API server with all endpoints
func (a *App) initializeAPIServer() error {
	s := apisrv.NewServer(a.cfg.API, a.log)
	s.Use(apimw.Recover(a.log))
	s.Use(apimw.RequestID())
	s.Use(apimw.Logger(a.log))

	s.Router.HandleFunc("/health", a.handleHealth).Methods(http.MethodGet)

	if a.cfg.Metrics.Enabled {
		s.Router.Handle(a.cfg.Metrics.Path,
			promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})).
			Methods(http.MethodGet)
	}

	handler := apisrv.NewHandler(a.mon, a.interpreter, a.log)
	handler.RegisterMux(s.Router)

	a.apiServer = s
	return nil
}

// Run starts the application and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	if err := a.mon.Start(runCtx); err != nil {
		return fmt.Errorf("failed to start monitor: %w", err)
	}

	go func() {
		if err := a.apiServer.Start(runCtx); err != nil {
			a.log.Error().Err(err).Msg("API server error")
		}
	}()

	return a.runWithGracefulShutdown(runCtx)
}

// runWithGracefulShutdown handles shutdown signals.
func (a *App) runWithGracefulShutdown(ctx context.Context) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	a.log.Info().Msg("Chaintrack started successfully")

	select {
	case <-ctx.Done():
		a.log.Info().Msg("Context canceled, initiating shutdown")
	case sig := <-sigCh:
		a.log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	}

	if a.cancel != nil {
		a.cancel()
	}

	return a.shutdown()
}

// shutdown stops the monitor and closes the node connection.
func (a *App) shutdown() error {
	a.log.Info().Msg("Initiating graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.mon.Stop(shutdownCtx); err != nil {
		a.log.Error().Err(err).Msg("Monitor shutdown error")
	}

	if a.tips != nil {
		a.tips.Close()
	}

	a.log.Info().Msg("Graceful shutdown complete")
	return nil
}

// handleHealth responds to health check requests.
func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","timestamp":"%s"}`, time.Now().UTC().Format(time.RFC3339))
}
