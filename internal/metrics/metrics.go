package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mbeoliero/threadly/pkg/constant"
)

// Metrics holds the chat engine collectors on their own registry
type Metrics struct {
	Registry          *prometheus.Registry
	MessagesSent      prometheus.Counter
	MessagesReceived  prometheus.Counter
	StatusTransitions *prometheus.CounterVec
	StaleTransitions  prometheus.Counter
	ReactionsAdded    prometheus.Counter
	ConversationsOpen prometheus.Counter
	Subscribers       prometheus.Gauge
}

// New creates and registers all collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		MessagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: constant.MetricsNamespace,
			Name:      "messages_sent_total",
			Help:      "Outbound messages appended by the session controller.",
		}),
		MessagesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: constant.MetricsNamespace,
			Name:      "messages_received_total",
			Help:      "Inbound messages appended by the simulator.",
		}),
		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: constant.MetricsNamespace,
			Name:      "status_transitions_total",
			Help:      "Applied delivery status transitions by target status.",
		}, []string{"status"}),
		StaleTransitions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: constant.MetricsNamespace,
			Name:      "stale_transitions_total",
			Help:      "Scheduled transitions whose conversation or message no longer existed.",
		}),
		ReactionsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: constant.MetricsNamespace,
			Name:      "reactions_added_total",
			Help:      "Reaction tokens added to messages.",
		}),
		ConversationsOpen: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: constant.MetricsNamespace,
			Name:      "conversations_opened_total",
			Help:      "Conversation selections.",
		}),
		Subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: constant.MetricsNamespace,
			Name:      "event_subscribers",
			Help:      "Active store-change subscribers.",
		}),
	}

	reg.MustRegister(
		m.MessagesSent,
		m.MessagesReceived,
		m.StatusTransitions,
		m.StaleTransitions,
		m.ReactionsAdded,
		m.ConversationsOpen,
		m.Subscribers,
		collectors.NewGoCollector(),
	)
	return m
}
