package ledger

import "time"

// Logger interface for operational logging. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// MetricsCollector interface for collecting ledger operational metrics.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// Option defines a functional option for configuring an Engine.
type Option func(*Engine) error

// WithLateFeePolicy replaces the placeholder late fee policy.
func WithLateFeePolicy(policy LateFeePolicy) Option {
	return func(e *Engine) error {
		if policy == nil {
			return ErrNilLateFeePolicy
		}

		e.lateFeePolicy = policy

		return nil
	}
}

// WithClock sets the time source used to stamp return events.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) error {
		if clock == nil {
			return ErrNilClock
		}

		e.clock = clock

		return nil
	}
}

// WithLogger sets the logger for the Engine.
//
// Debug level: rejected operations with the reason
// Info level: completed mutations with the affected identifiers.
func WithLogger(logger Logger) Option {
	return func(e *Engine) error {
		e.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Engine.
// It receives operation counts, rejections by reason and assessed late fees.
func WithMetrics(collector MetricsCollector) Option {
	return func(e *Engine) error {
		e.metricsCollector = collector
		return nil
	}
}
