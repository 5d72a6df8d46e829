// Package metrics provides the Prometheus instrumentation surface for the
// signal graph: node activation counts, lifecycle state, delivery queue
// depth and outcome counters.
//
// Grounded on cuemby-warren/pkg/metrics, generalized from a set of
// package-level global collectors into an instantiable Registry so a
// process can run more than one independent graph (or none at all: a nil
// *Registry performs no metrics work).
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry holds every collector used by the signal graph, registered
// against a single prometheus.Registerer.
type Registry struct {
	Activations     *prometheus.CounterVec
	NodeState       *prometheus.GaugeVec
	QueueDepth      *prometheus.GaugeVec
	Deliveries      *prometheus.CounterVec
	SendRejections  *prometheus.CounterVec
}

// New creates a Registry and registers its collectors against reg. Passing
// prometheus.NewRegistry() isolates the graph's metrics from the process
// default registry; passing prometheus.DefaultRegisterer merges them in.
func New(reg prometheus.Registerer) *Registry {
	r := &Registry{
		Activations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signal_node_activations_total",
			Help: "Total number of times a node transitioned into the active state.",
		}, []string{"node"}),
		NodeState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "signal_node_state",
			Help: "Current lifecycle state of a node (1 for the active label, 0 otherwise).",
		}, []string{"node", "state"}),
		QueueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "signal_delivery_queue_depth",
			Help: "Number of items currently buffered in a node's delivery queue.",
		}, []string{"node"}),
		Deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signal_deliveries_total",
			Help: "Total number of values delivered to a node's handler, by outcome.",
		}, []string{"node", "outcome"}),
		SendRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signal_send_rejections_total",
			Help: "Total number of Send calls rejected before entering the graph, by reason.",
		}, []string{"reason"}),
	}
	reg.MustRegister(r.Activations, r.NodeState, r.QueueDepth, r.Deliveries, r.SendRejections)
	return r
}

// outcome labels for Deliveries.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected"
)

// RecordActivation increments the activation counter for node, nil-safe.
func (r *Registry) RecordActivation(node string) {
	if r == nil {
		return
	}
	r.Activations.WithLabelValues(node).Inc()
}

// SetState updates the state gauge for node so exactly one state label
// reads 1 and all others read 0, nil-safe.
func (r *Registry) SetState(node string, states []string, current string) {
	if r == nil {
		return
	}
	for _, s := range states {
		v := 0.0
		if s == current {
			v = 1.0
		}
		r.NodeState.WithLabelValues(node, s).Set(v)
	}
}

// SetQueueDepth records the current delivery queue length for node,
// nil-safe.
func (r *Registry) SetQueueDepth(node string, depth int) {
	if r == nil {
		return
	}
	r.QueueDepth.WithLabelValues(node).Set(float64(depth))
}

// RecordDelivery increments the delivery counter for node/outcome,
// nil-safe.
func (r *Registry) RecordDelivery(node, outcome string) {
	if r == nil {
		return
	}
	r.Deliveries.WithLabelValues(node, outcome).Inc()
}

// RecordSendRejection increments the rejection counter for reason,
// nil-safe.
func (r *Registry) RecordSendRejection(reason string) {
	if r == nil {
		return
	}
	r.SendRejections.WithLabelValues(reason).Inc()
}
