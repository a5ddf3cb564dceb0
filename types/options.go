package types

import "time"

// WithLogger sets the Config's Logger.
func WithLogger(logger Logger) Option {
	return func(c *Config) { c.Logger = logger }
}

// WithStore sets the Config's persistence store.
func WithStore(store PersistenceStore) Option {
	return func(c *Config) { c.Store = store }
}

// WithSideEffects sets the Config's side-effect handler.
func WithSideEffects(handler SideEffectHandler) Option {
	return func(c *Config) { c.SideEffects = handler }
}

// WithMetricsEnabled turns the Prometheus collectors on or off.
func WithMetricsEnabled(enabled bool) Option {
	return func(c *Config) { c.MetricsEnabled = enabled }
}

// WithMaxTicksPerRun overrides the quiescence tick bound.
func WithMaxTicksPerRun(n int) Option {
	return func(c *Config) { c.MaxTicksPerRun = n }
}

// WithTimerResolution overrides Config.TimerResolution.
func WithTimerResolution(d time.Duration) Option {
	return func(c *Config) { c.TimerResolution = d }
}
