// Package clicks implements asynchronous click ingestion: a bounded,
// non-blocking queue fed by the redirect path and a single worker that
// persists events with bounded exponential backoff.
//
// Collectors:
//
//   - click_queue_offered_total / click_queue_dropped_total: producer side
//   - click_queue_depth: buffered events, sampled on every offer and receive
//   - click_worker_received_total / click_worker_persisted_total
//   - click_worker_retried_total: backoff sleeps, one per retry
//   - click_worker_abandoned_total{reason}: not_found|permanent|exhausted|canceled|panic
//   - click_worker_discarded_total: events dropped at shutdown without an attempt
package clicks

import "github.com/prometheus/client_golang/prometheus"

// Abandon reasons.
const (
	ReasonNotFound  = "not_found"
	ReasonPermanent = "permanent"
	ReasonExhausted = "exhausted"
	ReasonCanceled  = "canceled"
	ReasonPanic     = "panic"
)

var (
	queueOffered = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "click_queue_offered_total",
		Help: "Click events accepted by the queue.",
	})
	queueDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "click_queue_dropped_total",
		Help: "Click events rejected because the queue was full or closed.",
	})
	queueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "click_queue_depth",
		Help: "Click events currently buffered.",
	})

	workerReceived = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "click_worker_received_total",
		Help: "Click events dequeued by the persistence worker.",
	})
	workerPersisted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "click_worker_persisted_total",
		Help: "Click events written to the store.",
	})
	workerRetried = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "click_worker_retried_total",
		Help: "Store operations retried after a transient failure.",
	})
	workerAbandoned = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "click_worker_abandoned_total",
		Help: "Click events given up on, by reason.",
	}, []string{"reason"})
	workerDiscarded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "click_worker_discarded_total",
		Help: "Click events still queued when the shutdown grace period expired.",
	})
)

func init() {
	prometheus.MustRegister(
		queueOffered, queueDropped, queueDepth,
		workerReceived, workerPersisted, workerRetried, workerAbandoned, workerDiscarded,
	)
}
