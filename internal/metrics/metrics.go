// Package metrics exposes the scheduler's tick loop and policy dispatch
// counters as Prometheus collectors. It only ever reads counters the tick
// loop itself owns and increments; nothing here mutates command/ready/
// blocked queues or the CPU slot, so it never crosses the single
// control-thread boundary spec.md §5 establishes for scheduler state.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles every collector the scheduler registers.
type Metrics struct {
	Ticks            prometheus.Counter
	HeartbeatSeconds prometheus.Counter
	QueueDepth       *prometheus.GaugeVec
	Dispatches       *prometheus.CounterVec
	BurstsCompleted  *prometheus.CounterVec
	ProtocolErrors   prometheus.Counter
	ClientsConnected prometheus.Gauge
}

// New constructs and registers every collector on reg. Callers that don't
// want a metrics endpoint can simply not serve reg; the scheduler core
// takes a *Metrics and also accepts one built by NewNop.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ossim_ticks_total",
			Help: "Total number of scheduler tick iterations.",
		}),
		HeartbeatSeconds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ossim_heartbeat_seconds_total",
			Help: "Total number of one-second heartbeat lines emitted.",
		}),
		QueueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ossim_queue_depth",
			Help: "Number of PCBs currently in each scheduler queue.",
		}, []string{"queue"}),
		Dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ossim_policy_dispatches_total",
			Help: "Number of times a policy has placed a PCB on the CPU, by policy and pid.",
		}, []string{"policy", "pid"}),
		BurstsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ossim_bursts_completed_total",
			Help: "Number of RUN/BLOCK bursts that reached DONE, by kind.",
		}, []string{"kind"}),
		ProtocolErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ossim_protocol_errors_total",
			Help: "Total number of malformed frames or unexpected opcodes observed.",
		}),
		ClientsConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ossim_clients_connected",
			Help: "Number of clients currently connected, across all queues and the CPU slot.",
		}),
	}

	reg.MustRegister(
		m.Ticks,
		m.HeartbeatSeconds,
		m.QueueDepth,
		m.Dispatches,
		m.BurstsCompleted,
		m.ProtocolErrors,
		m.ClientsConnected,
	)
	return m
}

// NewNop returns a Metrics whose collectors are registered only on a
// private registry that nothing serves; safe to use when --metrics-addr is
// unset so the scheduler core never needs a nil check.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
