package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all metrics for the traffic scoring service
type Collector struct {
	// Scoring metrics
	scoresTotal     *prometheus.CounterVec
	scoringDuration prometheus.Histogram
	maliciousIPHits prometheus.Counter
	proxyVerdicts   prometheus.Counter

	// Reputation metrics
	degradedLookups prometheus.Counter

	// Persistence metrics
	persistFailures prometheus.Counter
	recordsPersisted prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var (
	collector     *Collector
	collectorOnce sync.Once
)

// NewCollector returns the process-wide metrics collector. Collectors
// register with the default prometheus registry, so construction happens
// exactly once.
func NewCollector() *Collector {
	collectorOnce.Do(func() {
		collector = &Collector{
			scoresTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "trafficguard",
				Subsystem: "scoring",
				Name:      "scores_total",
				Help:      "Total number of scored traffic events by conclusion",
			}, []string{"conclusion"}),
			scoringDuration: promauto.NewHistogram(prometheus.HistogramOpts{
				Namespace: "trafficguard",
				Subsystem: "scoring",
				Name:      "duration_seconds",
				Help:      "Time taken to score a traffic event",
				Buckets:   prometheus.DefBuckets,
			}),
			maliciousIPHits: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "trafficguard",
				Subsystem: "scoring",
				Name:      "malicious_ip_hits_total",
				Help:      "Total number of events short-circuited by the malicious IP denylist",
			}),
			proxyVerdicts: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "trafficguard",
				Subsystem: "reputation",
				Name:      "proxy_verdicts_total",
				Help:      "Total number of addresses classified as proxy/datacenter origin",
			}),
			degradedLookups: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "trafficguard",
				Subsystem: "reputation",
				Name:      "degraded_lookups_total",
				Help:      "Total number of lookups served without any reputation database",
			}),
			persistFailures: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "trafficguard",
				Subsystem: "storage",
				Name:      "persist_failures_total",
				Help:      "Total number of score records that failed to persist",
			}),
			recordsPersisted: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "trafficguard",
				Subsystem: "storage",
				Name:      "records_persisted_total",
				Help:      "Total number of score records written",
			}),
			httpRequests: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "trafficguard",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			}, []string{"method", "path", "status"}),
			httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "trafficguard",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			}, []string{"method", "path"}),
		}
	})
	return collector
}

// RecordScore records a completed scoring call.
func (c *Collector) RecordScore(conclusion string, duration time.Duration) {
	if c == nil {
		return
	}
	c.scoresTotal.WithLabelValues(conclusion).Inc()
	c.scoringDuration.Observe(duration.Seconds())
}

// RecordMaliciousIPHit records a denylist short-circuit.
func (c *Collector) RecordMaliciousIPHit() {
	if c == nil {
		return
	}
	c.maliciousIPHits.Inc()
}

// RecordProxyVerdict records a proxy/datacenter classification.
func (c *Collector) RecordProxyVerdict() {
	if c == nil {
		return
	}
	c.proxyVerdicts.Inc()
}

// RecordDegradedLookup records a lookup served without any database.
func (c *Collector) RecordDegradedLookup() {
	if c == nil {
		return
	}
	c.degradedLookups.Inc()
}

// RecordPersistFailure records a swallowed persistence error.
func (c *Collector) RecordPersistFailure() {
	if c == nil {
		return
	}
	c.persistFailures.Inc()
}

// RecordPersisted records a successfully written score record.
func (c *Collector) RecordPersisted() {
	if c == nil {
		return
	}
	c.recordsPersisted.Inc()
}

// RecordHTTPRequest records one handled HTTP request.
func (c *Collector) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(method, path, status).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
