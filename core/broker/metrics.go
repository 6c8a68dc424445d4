package broker

import "github.com/prometheus/client_golang/prometheus"

// metrics holds optional Prometheus instrumentation. A nil *metrics is a
// valid no-op receiver so call sites never need to check whether metrics
// were wired.
type metrics struct {
	published   prometheus.Counter
	delivered   prometheus.Counter
	failed      prometheus.Counter
	subscribers prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		published: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hub",
			Subsystem: "broker",
			Name:      "messages_published_total",
			Help:      "Total number of messages published to the broker.",
		}),
		delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hub",
			Subsystem: "broker",
			Name:      "deliveries_total",
			Help:      "Total number of successful handler deliveries.",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hub",
			Subsystem: "broker",
			Name:      "delivery_failures_total",
			Help:      "Total number of handler deliveries that failed or panicked.",
		}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hub",
			Subsystem: "broker",
			Name:      "subscribers",
			Help:      "Current number of registered subscribers.",
		}),
	}

	reg.MustRegister(m.published, m.delivered, m.failed, m.subscribers)
	return m
}

func (m *metrics) incPublished(n int) {
	if m == nil {
		return
	}
	m.published.Add(float64(n))
}

func (m *metrics) incDelivered() {
	if m == nil {
		return
	}
	m.delivered.Inc()
}

func (m *metrics) incFailed() {
	if m == nil {
		return
	}
	m.failed.Inc()
}

func (m *metrics) setSubscribers(n int) {
	if m == nil {
		return
	}
	m.subscribers.Set(float64(n))
}
