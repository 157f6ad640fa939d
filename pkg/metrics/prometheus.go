// Package metrics records store, cache, and alert activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is the metrics contract consumed by the core components.
type Recorder interface {
	StoreRead(key string, hit bool)
	StoreWrite(key string)
	StorePurged(count int)
	StoreQuotaRecovery(success bool)
	CacheRead(key string, hit bool)
	AlertTriggered(condition string)
}

// PromRecorder implements Recorder using Prometheus.
type PromRecorder struct {
	storeReads      *prometheus.CounterVec
	storeWrites     prometheus.Counter
	storePurged     prometheus.Counter
	quotaRecoveries *prometheus.CounterVec
	cacheReads      *prometheus.CounterVec
	alertsTriggered *prometheus.CounterVec
}

// New creates a PromRecorder registered on the default registry.
func New() *PromRecorder {
	return &PromRecorder{
		storeReads: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cryptohub_store_reads_total",
			Help: "Persistent store reads by outcome.",
		}, []string{"outcome"}),
		storeWrites: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cryptohub_store_writes_total",
			Help: "Successful persistent store writes.",
		}),
		storePurged: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cryptohub_store_purged_total",
			Help: "Records purged for expiry, staleness, or corruption.",
		}),
		quotaRecoveries: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cryptohub_store_quota_recoveries_total",
			Help: "Quota-exceeded recovery attempts by outcome.",
		}, []string{"outcome"}),
		cacheReads: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cryptohub_cache_reads_total",
			Help: "Cache layer reads by outcome.",
		}, []string{"outcome"}),
		alertsTriggered: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cryptohub_alerts_triggered_total",
			Help: "Alerts promoted to triggered, by condition.",
		}, []string{"condition"}),
	}
}

func (r *PromRecorder) StoreRead(_ string, hit bool) {
	r.storeReads.WithLabelValues(outcome(hit)).Inc()
}

func (r *PromRecorder) StoreWrite(_ string) {
	r.storeWrites.Inc()
}

func (r *PromRecorder) StorePurged(count int) {
	r.storePurged.Add(float64(count))
}

func (r *PromRecorder) StoreQuotaRecovery(success bool) {
	label := "failure"
	if success {
		label = "success"
	}
	r.quotaRecoveries.WithLabelValues(label).Inc()
}

func (r *PromRecorder) CacheRead(_ string, hit bool) {
	r.cacheReads.WithLabelValues(outcome(hit)).Inc()
}

func (r *PromRecorder) AlertTriggered(condition string) {
	r.alertsTriggered.WithLabelValues(condition).Inc()
}

func outcome(ok bool) string {
	if ok {
		return "hit"
	}
	return "miss"
}

// Noop discards all recordings.
type Noop struct{}

func (Noop) StoreRead(string, bool)    {}
func (Noop) StoreWrite(string)         {}
func (Noop) StorePurged(int)           {}
func (Noop) StoreQuotaRecovery(bool)   {}
func (Noop) CacheRead(string, bool)    {}
func (Noop) AlertTriggered(string)     {}
