package alerts

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DeliveryEvent describes one successful delivery of an alert to a user.
type DeliveryEvent struct {
	AlertID     uuid.UUID `json:"alert_id"`
	Topic       string    `json:"topic"`
	UserID      uuid.UUID `json:"user_id"`
	Urgency     Urgency   `json:"urgency"`
	DeliveredAt time.Time `json:"delivered_at"`
}

// Subscription receives delivery events from a registry.
// Close is idempotent and safe to call multiple times.
type Subscription struct {
	ch     chan DeliveryEvent
	closed bool
	mu     sync.RWMutex
}

func newSubscription(bufferSize int) *Subscription {
	return &Subscription{ch: make(chan DeliveryEvent, bufferSize)}
}

// Receive returns the channel events are delivered on.
// The channel is closed when the subscription is closed or dropped.
func (s *Subscription) Receive() <-chan DeliveryEvent {
	return s.ch
}

// Close stops the subscription and closes its channel. It is safe to call more than once.
func (s *Subscription) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		close(s.ch)
		s.closed = true
	}
	return nil
}

func (s *Subscription) send(ev DeliveryEvent) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false
	}
	select {
	case s.ch <- ev:
		return true
	default:
		return false
	}
}

// feed fans delivery events out to subscriptions without ever blocking the publisher.
// Subscriptions whose buffer is full are dropped.
type feed struct {
	subs       map[*Subscription]struct{}
	bufferSize int
	closed     bool
	done       chan struct{}
	mu         sync.RWMutex
	cleanupWg  sync.WaitGroup
}

func newFeed(bufferSize int) *feed {
	return &feed{
		subs:       make(map[*Subscription]struct{}),
		bufferSize: max(bufferSize, 1),
		done:       make(chan struct{}),
	}
}

func (f *feed) subscribe(ctx context.Context) *Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()

	sub := newSubscription(f.bufferSize)
	if f.closed {
		_ = sub.Close()
		return sub
	}
	f.subs[sub] = struct{}{}

	if ctx.Done() != nil {
		f.cleanupWg.Add(1)
		go func() {
			defer f.cleanupWg.Done()
			select {
			case <-ctx.Done():
				f.unsubscribe(sub)
			case <-f.done:
			}
		}()
	}
	return sub
}

func (f *feed) publish(ev DeliveryEvent) {
	f.mu.RLock()
	if f.closed || len(f.subs) == 0 {
		f.mu.RUnlock()
		return
	}
	var stale []*Subscription
	for sub := range f.subs {
		if !sub.send(ev) {
			stale = append(stale, sub)
		}
	}
	f.mu.RUnlock()

	for _, sub := range stale {
		f.unsubscribe(sub)
	}
}

func (f *feed) unsubscribe(sub *Subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.subs, sub)
	_ = sub.Close()
}

func (f *feed) close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	for sub := range f.subs {
		_ = sub.Close()
	}
	clear(f.subs)
	close(f.done)
	f.mu.Unlock()

	f.cleanupWg.Wait()
	return nil
}
