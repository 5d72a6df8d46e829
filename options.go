package signal

import (
	"github.com/google/uuid"
	"github.com/signalgraph/signal/execctx"
	"github.com/signalgraph/signal/metrics"
)

// nodeConfig holds the resolved configuration for a Node or Output,
// assembled from NodeOption values supplied at construction.
type nodeConfig struct {
	name    string
	logger  Logger
	metrics *metrics.Registry
	ctx     execctx.Context
}

func defaultNodeConfig() *nodeConfig {
	return &nodeConfig{
		logger: defaultLogger(),
		ctx:    execctx.Immediate(),
	}
}

// NodeOption configures a Node or Output at construction time, following
// the functional-options shape used throughout the pack
// (eventloop.LoopOption, microbatch.BatcherConfig, catrate limiter config).
type NodeOption func(*nodeConfig)

// WithName assigns a diagnostic name, surfaced in log fields and metrics
// labels.
func WithName(name string) NodeOption {
	return func(c *nodeConfig) { c.name = name }
}

// WithLogger overrides the package-default Logger for a single node.
func WithLogger(l Logger) NodeOption {
	return func(c *nodeConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics attaches a metrics.Registry, enabling per-node activation
// counters, state gauges and delivery counters. A nil registry (the
// default) disables all metrics work for that node.
func WithMetrics(r *metrics.Registry) NodeOption {
	return func(c *nodeConfig) { c.metrics = r }
}

// WithExecutionContext overrides the default (immediate) execution context
// a node's handler runs under.
func WithExecutionContext(ctx execctx.Context) NodeOption {
	return func(c *nodeConfig) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

func resolveOptions(opts []NodeOption) *nodeConfig {
	cfg := defaultNodeConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// diagName returns the configured name, falling back to the short form of
// id when no name was set.
func diagName(name string, id uuid.UUID) string {
	if name != "" {
		return name
	}
	return id.String()[:8]
}
