package autodiff

import (
	"log/slog"
	"time"
)

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger for debug traces of gradient contributions.
// A nil logger keeps the default, which discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithObserver registers an observer notified after every ComputeGradients call.
func WithObserver(o Observer) Option {
	return func(s *Session) {
		s.observer = o
	}
}

// CallStats describes a single ComputeGradients call.
type CallStats struct {
	Roots      int
	Nodes      int
	Edges      int
	NewEntries int
	Duration   time.Duration
}

// Observer receives per-call statistics. err is nil on success.
type Observer interface {
	ObserveCompute(sessionID string, stats CallStats, err error)
}
