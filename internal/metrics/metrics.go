// Package metrics exposes sender activity as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bft-labs/shotship/pkg/shotship"
)

const namespace = "shotship"

// Collector turns sender events into Prometheus metrics.
// Register it with shotship.WithEventHandler.
type Collector struct {
	accepted  prometheus.Counter
	evicted   prometheus.Counter
	rejected  prometheus.Counter
	delivered prometheus.Counter
	failed    prometheus.Counter
	duration  prometheus.Histogram
	state     prometheus.Gauge
}

// NewCollector creates the metrics and registers them with reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		accepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shots_accepted_total",
			Help:      "Shots accepted into the delivery queue.",
		}),
		evicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shots_evicted_total",
			Help:      "Queued shots dropped to make room for newer ones.",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shots_rejected_total",
			Help:      "Shots posted after shutdown began.",
		}),
		delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shots_delivered_total",
			Help:      "Shots accepted by the ingestion service.",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delivery_failures_total",
			Help:      "Delivery attempts that failed. Failed shots are not retried.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "delivery_duration_seconds",
			Help:      "Duration of delivery attempts.",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15},
		}),
		state: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "state",
			Help:      "Sender lifecycle state: 0 running, 1 stopping, 2 stopped.",
		}),
	}

	for _, m := range []prometheus.Collector{
		c.accepted, c.evicted, c.rejected, c.delivered, c.failed, c.duration, c.state,
	} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) OnStateChange(e shotship.StateChangeEvent) {
	c.state.Set(float64(e.Current))
}

func (c *Collector) OnAccepted(shotship.ShotEvent) { c.accepted.Inc() }
func (c *Collector) OnEvicted(shotship.ShotEvent)  { c.evicted.Inc() }
func (c *Collector) OnRejected(shotship.ShotEvent) { c.rejected.Inc() }

func (c *Collector) OnDelivered(e shotship.DeliveryEvent) {
	c.delivered.Inc()
	c.duration.Observe(e.Duration.Seconds())
}

func (c *Collector) OnDeliveryFailed(e shotship.DeliveryEvent) {
	c.failed.Inc()
	c.duration.Observe(e.Duration.Seconds())
}

// RegisterQueueDepth exposes depth() as the shotship_queue_depth gauge.
func RegisterQueueDepth(reg prometheus.Registerer, depth func() int) error {
	return reg.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "queue_depth",
		Help:      "Shots waiting for delivery.",
	}, func() float64 { return float64(depth()) }))
}

// Handler serves the metrics gathered by g in the text exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}
