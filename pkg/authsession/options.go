package authsession

import "log/slog"

// Option configures the store
type Option func(*Store)

// WithConfig replaces the default endpoint configuration.
func WithConfig(cfg Config) Option {
	return func(s *Store) {
		s.config = cfg
	}
}

// WithLogger sets the structured logger; nil loggers are ignored.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}
