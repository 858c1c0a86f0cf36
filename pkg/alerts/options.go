package alerts

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a synthesized alert stays visible: two weeks.
const DefaultTTL = 14 * 24 * time.Hour

// Option configures a Registry.
type Option func(*Registry)

// WithClock sets the time source used for expiration checks and default expirations.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// WithIDGenerator sets the generator for user and alert identities.
func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(r *Registry) {
		if gen != nil {
			r.newID = gen
		}
	}
}

// WithClassifier replaces the content based urgency classification.
func WithClassifier(c Classifier) Option {
	return func(r *Registry) {
		if c != nil {
			r.classify = c
		}
	}
}

// WithDefaultTTL sets the lifetime of alerts created from content. Non-positive values are ignored.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(r *Registry) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithLogger sets the logger used for delivery diagnostics. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithFeedBufferSize sets the per-subscription buffer of the delivery feed.
func WithFeedBufferSize(size int) Option {
	return func(r *Registry) {
		if size > 0 {
			r.feedBuffer = size
		}
	}
}

// WithConfig applies values loaded from the environment.
func WithConfig(cfg Config) Option {
	return func(r *Registry) {
		WithDefaultTTL(cfg.DefaultTTL)(r)
		WithFeedBufferSize(cfg.FeedBufferSize)(r)
	}
}
