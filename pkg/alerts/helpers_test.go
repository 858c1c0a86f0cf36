package alerts

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

const week = 7 * 24 * time.Hour

func newTestRegistry(t *testing.T, opts ...Option) (*Registry, *fakeClock) {
	t.Helper()

	clock := &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	opts = append([]Option{
		WithClock(clock.Now),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)

	r := NewRegistry(opts...)
	t.Cleanup(func() { _ = r.Close() })
	return r, clock
}

func mustTopic(t *testing.T, r *Registry, name string) *Topic {
	t.Helper()

	topic, err := r.NewTopic(name)
	if err != nil {
		t.Fatalf("create topic %q: %v", name, err)
	}
	return topic
}

func contents(alerts []*Alert) []string {
	out := make([]string, len(alerts))
	for i, a := range alerts {
		out[i] = a.Content()
	}
	return out
}
