// Package server ties the storage core, the market feed, and the alert
// engine into one runnable application.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/kundanmehta01/CryptoHub/internal/alert"
	"github.com/kundanmehta01/CryptoHub/internal/cache"
	"github.com/kundanmehta01/CryptoHub/internal/feed"
	"github.com/kundanmehta01/CryptoHub/internal/portfolio"
	"github.com/kundanmehta01/CryptoHub/internal/store"
	"github.com/kundanmehta01/CryptoHub/internal/userdata"
	"github.com/kundanmehta01/CryptoHub/pkg/config"
	"github.com/kundanmehta01/CryptoHub/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg     *config.Config
	log     *logger.Logger
	client  *feed.Client
	tracker *feed.Tracker
	engine  *alert.Engine
	cache   *cache.Cache
	ledger  *portfolio.Ledger
	prefs   *userdata.Preferences

	metricsServer *http.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *logger.Logger,
	client *feed.Client,
	tracker *feed.Tracker,
	engine *alert.Engine,
	c *cache.Cache,
	ledger *portfolio.Ledger,
	prefs *userdata.Preferences,
) *App {
	return &App{
		cfg:     cfg,
		log:     log,
		client:  client,
		tracker: tracker,
		engine:  engine,
		cache:   c,
		ledger:  ledger,
		prefs:   prefs,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.cfg.Metrics.Enabled {
		a.startMetricsServer()
	}

	if err := a.client.Connect(ctx); err != nil {
		return err
	}
	if err := a.client.Subscribe(ctx); err != nil {
		return err
	}

	go a.consume(ctx)
	go a.evaluate(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// consume drains the ticker stream into the tracker, reconnecting on
// stream failure until the context is cancelled.
func (a *App) consume(ctx context.Context) {
	for {
		tickers, errs := a.client.Read(ctx)
	stream:
		for {
			select {
			case <-ctx.Done():
				return
			case t, ok := <-tickers:
				if !ok {
					break stream
				}
				a.tracker.Observe(t)
			case err, ok := <-errs:
				if ok && err != nil {
					a.log.Warn("feed stream error", logger.Error(err))
				}
				break stream
			}
		}
		if ctx.Err() != nil {
			return
		}
		if err := a.client.Reconnect(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			a.log.Error("feed reconnect", logger.Error(err))
			return
		}
	}
}

// evaluate runs the alert engine over the latest snapshots on a fixed
// interval and memoizes each pass through the cache layer.
func (a *App) evaluate(ctx context.Context) {
	interval := a.cfg.Feed.EvalInterval
	if interval <= 0 {
		interval = 15 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snapshots := a.tracker.Snapshots()
			if len(snapshots) == 0 {
				continue
			}
			if err := a.cache.Set(store.KeyPriceCache, snapshots, interval); err != nil {
				a.log.Warn("cache snapshots", logger.Error(err))
			}
			triggered, err := a.engine.Evaluate(snapshots)
			if err != nil {
				a.log.Error("alert evaluation", logger.Error(err))
				continue
			}
			for _, r := range triggered {
				a.log.Info("alert fired",
					logger.String("coin", r.Alert.CoinID),
					logger.String("message", r.Message))
			}
			a.refreshSummary(snapshots, interval)
		}
	}
}

// refreshSummary recomputes the portfolio summary from the freshest prices
// and memoizes it for the UI.
func (a *App) refreshSummary(snapshots map[string]alert.Snapshot, ttl time.Duration) {
	prices := make(map[string]decimal.Decimal, len(snapshots))
	for coinID, snap := range snapshots {
		prices[coinID] = decimal.NewFromFloat(snap.Price)
	}
	currency, err := a.prefs.Currency()
	if err != nil {
		a.log.Warn("load currency preference", logger.Error(err))
		currency = userdata.DefaultCurrency
	}
	summary, err := a.ledger.Summary(prices, currency)
	if err != nil {
		a.log.Warn("portfolio summary", logger.Error(err))
		return
	}
	if err := a.cache.Set(store.KeyMarketDataCache, summary, ttl); err != nil {
		a.log.Warn("cache summary", logger.Error(err))
	}
}

func (a *App) startMetricsServer() {
	mux := http.NewServeMux()
	mux.Handle(a.cfg.Metrics.Path, promhttp.Handler())
	a.metricsServer = &http.Server{Addr: a.cfg.Metrics.Addr, Handler: mux}
	go func() {
		if err := a.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("metrics server", logger.Error(err))
		}
	}()
	a.log.Info("metrics server started", logger.String("addr", a.cfg.Metrics.Addr))
}

func (a *App) shutdown(ctx context.Context) error {
	var firstErr error
	if err := a.client.Close(); err != nil {
		firstErr = fmt.Errorf("close feed: %w", err)
	}
	if a.metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := a.metricsServer.Shutdown(shutdownCtx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("shutdown metrics server: %w", err)
		}
	}
	a.log.Info("shutdown complete")
	return firstErr
}
