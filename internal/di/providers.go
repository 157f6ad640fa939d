package di

import (
	"fmt"
	"strings"

	"github.com/kundanmehta01/CryptoHub/internal/alert"
	"github.com/kundanmehta01/CryptoHub/internal/cache"
	"github.com/kundanmehta01/CryptoHub/internal/feed"
	"github.com/kundanmehta01/CryptoHub/internal/portfolio"
	"github.com/kundanmehta01/CryptoHub/internal/store"
	"github.com/kundanmehta01/CryptoHub/internal/userdata"
	"github.com/kundanmehta01/CryptoHub/pkg/config"
	"github.com/kundanmehta01/CryptoHub/pkg/logger"
	"github.com/kundanmehta01/CryptoHub/pkg/metrics"
	"github.com/kundanmehta01/CryptoHub/pkg/server"
	"github.com/kundanmehta01/CryptoHub/pkg/storage"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: "stdout",
	})
}

// ProvideMetrics creates the metrics recorder.
func ProvideMetrics(cfg *config.Config) metrics.Recorder {
	if !cfg.Metrics.Enabled {
		return metrics.Noop{}
	}
	return metrics.New()
}

// ProvideBackend creates the storage backend named in the configuration.
func ProvideBackend(cfg *config.Config) (storage.Backend, error) {
	switch cfg.Storage.Type {
	case "memory":
		var opts []storage.MemoryOption
		if cfg.Storage.Quota > 0 {
			opts = append(opts, storage.WithQuota(int(cfg.Storage.Quota)))
		}
		return storage.NewMemoryBackend(opts...), nil
	case "sqlite":
		var opts []storage.SQLiteOption
		if cfg.Storage.Quota > 0 {
			opts = append(opts, storage.WithSQLiteQuota(int(cfg.Storage.Quota)))
		}
		return storage.NewSQLiteBackend(cfg.Storage.Path, opts...)
	case "redis":
		return storage.NewRedisBackend(storage.RedisConfig{
			Addr:     cfg.Storage.Redis.Addr,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Storage.Type)
	}
}

// ProvideStore creates the persistent store over the backend.
func ProvideStore(cfg *config.Config, backend storage.Backend, log *logger.Logger, rec metrics.Recorder) *store.Store {
	opts := []store.Option{
		store.WithLogger(log),
		store.WithMetrics(rec),
	}
	if cfg.Storage.Namespace != "" {
		opts = append(opts, store.WithNamespace(cfg.Storage.Namespace))
	}
	return store.New(backend, opts...)
}

// ProvideCache creates the cache layer.
func ProvideCache(cfg *config.Config, st *store.Store, log *logger.Logger, rec metrics.Recorder) *cache.Cache {
	opts := []cache.Option{cache.WithLogger(log), cache.WithMetrics(rec)}
	if cfg.Cache.MaxAge > 0 {
		opts = append(opts, cache.WithMaxAge(cfg.Cache.MaxAge))
	}
	return cache.New(st, opts...)
}

// ProvideAlertStore creates the alert collection.
func ProvideAlertStore(st *store.Store) *alert.Store {
	return alert.NewStore(st)
}

// ProvideAlertEngine creates the alert evaluation engine.
func ProvideAlertEngine(alerts *alert.Store, log *logger.Logger, rec metrics.Recorder) *alert.Engine {
	return alert.NewEngine(alerts, alert.WithLogger(log), alert.WithMetrics(rec))
}

// ProvideLedger creates the portfolio ledger.
func ProvideLedger(st *store.Store) *portfolio.Ledger {
	return portfolio.NewLedger(st)
}

// ProvidePreferences creates the preferences manager.
func ProvidePreferences(st *store.Store) *userdata.Preferences {
	return userdata.NewPreferences(st)
}

// ProvideFeedClient creates the Binance feed client.
func ProvideFeedClient(cfg *config.Config, log *logger.Logger) *feed.Client {
	return feed.NewClient(cfg.Feed.URL, cfg.Feed.Symbols, cfg.Feed.ReconnectDelay, cfg.Feed.MaxReconnect, log)
}

// ProvideTracker creates the snapshot tracker. Stream symbols map to coin
// ids by convention; configured overrides cover symbols that do not follow it.
func ProvideTracker(cfg *config.Config) *feed.Tracker {
	coinIDs := make(map[string]string, len(cfg.Feed.CoinIDs))
	for symbol, id := range cfg.Feed.CoinIDs {
		coinIDs[strings.ToUpper(symbol)] = id
	}
	return feed.NewTracker(coinIDs)
}

// ProvideApp assembles the application.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	client *feed.Client,
	tracker *feed.Tracker,
	engine *alert.Engine,
	c *cache.Cache,
	ledger *portfolio.Ledger,
	prefs *userdata.Preferences,
) *server.App {
	return server.New(cfg, log, client, tracker, engine, c, ledger, prefs)
}
