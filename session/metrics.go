package session

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aaronwong1989/gosmpp/codec/smpp"
)

type metrics struct {
	sent     *prometheus.CounterVec
	received *prometheus.CounterVec
	pending  prometheus.Gauge
	timeouts prometheus.Counter
	latency  *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		sent: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smpp_pdu_sent_total",
			Help: "PDUs written to the transport",
		}, []string{"command"})),
		received: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smpp_pdu_received_total",
			Help: "PDUs decoded from the transport",
		}, []string{"command"})),
		pending: register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "smpp_pending_requests",
			Help: "Requests waiting for a response, summed over sessions sharing the registry",
		})),
		timeouts: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smpp_request_timeouts_total",
			Help: "Requests resolved with a response timeout",
		})),
		latency: register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "smpp_response_seconds",
			Help:    "Time between a request and its response",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"command"})),
	}
	return m
}

// register 多个会话共用注册表时复用已注册的指标
func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		log.Warnf("[%-9s] register collector failed: %v", "Metrics", err)
	}
	return c
}

func (m *metrics) onSent(commandId uint32) {
	m.sent.WithLabelValues(smpp.CommandName(commandId)).Inc()
}

func (m *metrics) onReceived(commandId uint32) {
	m.received.WithLabelValues(smpp.CommandName(commandId)).Inc()
}
