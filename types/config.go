package types

import "time"

// Config holds the ambient settings for one runtime instance, following
// _examples/bittoy-rule/types.Config's functional-options shape: a
// defaulted struct built via NewConfig(opts...) rather than a dozen
// constructor parameters.
type Config struct {
	// Logger receives soft-degradation diagnostics (spec §7). Defaults to
	// DefaultLogger().
	Logger Logger

	// Store persists HOLD state across restarts (spec §4.3 Register/HOLD).
	// Defaults to nil, meaning HOLDs never restore and PersistHold effects
	// are dropped silently — callers that want persistence must
	// supply one (runtime.NewMemoryStore or runtime.NewBadgerStore).
	Store PersistenceStore

	// SideEffects executes Effect nodes' host actions. Defaults to nil,
	// meaning no handler is called and nothing is logged; effects other
	// than PersistHold stay queued for the host to read via
	// EventLoop.Effects().
	SideEffects SideEffectHandler

	// MetricsEnabled turns on the Prometheus collectors in runtime/metrics.go.
	MetricsEnabled bool

	// MaxTicksPerRun bounds how many propagation ticks RunToQuiescence will
	// take before returning ErrCyclicBody, guarding against a
	// compiler or DSL bug producing an unbounded oscillation (spec §8
	// invariant 5, §7).
	MaxTicksPerRun int

	// TimerResolution records a timer polling granularity for the host.
	// The runtime itself never reads it: pending Timer nodes fire only when
	// the host calls EventLoop.PollTimers.
	TimerResolution time.Duration
}

// Option mirrors the teacher's types.Option: a function that mutates a
// Config under construction.
type Option func(*Config)

// NewConfig builds a Config with defaults, then applies opts in order.
func NewConfig(opts ...Option) Config {
	c := &Config{
		Logger:           DefaultLogger(),
		MaxTicksPerRun:   10000,
		TimerResolution:  10 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return *c
}
