package alerts

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/alertkit/pkg/logger"
)

// Topic is a named channel holding its subscribers and the alerts sent through it.
// All methods are safe for concurrent use.
type Topic struct {
	name     string
	registry *Registry

	subscribers map[uuid.UUID]struct{}
	history     []*Alert
	mu          sync.RWMutex

	// sendMu serializes sends so the topic history and every recipient
	// history see alerts in the same order.
	sendMu sync.Mutex
}

func newTopic(name string, r *Registry) *Topic {
	return &Topic{
		name:        name,
		registry:    r,
		subscribers: make(map[uuid.UUID]struct{}),
	}
}

// Name returns the topic name, unique within its registry.
func (t *Topic) Name() string { return t.name }

// Subscribe adds the user to the topic. Subscribing twice has no effect.
// Users of another registry are ignored.
func (t *Topic) Subscribe(u *User) {
	if u.registry != t.registry {
		t.registry.logger.LogAttrs(context.Background(), slog.LevelWarn, "ignored subscription of user from another registry",
			logger.Topic(t.name),
			logger.UserID(u.id),
		)
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.subscribers[u.id] = struct{}{}
}

// IsSubscribed reports whether the user with the given ID is subscribed to the topic.
func (t *Topic) IsSubscribed(userID uuid.UUID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.subscribers[userID]
	return ok
}

// Subscribers returns a snapshot of the subscribed user IDs in no particular order.
func (t *Topic) Subscribers() []uuid.UUID {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(t.subscribers))
	for id := range t.subscribers {
		ids = append(ids, id)
	}
	return ids
}

// History returns a copy of every alert sent through the topic, urgent first.
func (t *Topic) History() []*Alert {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*Alert, len(t.history))
	copy(out, t.history)
	return out
}

func (t *Topic) addToHistory(a *Alert) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.history = insertByUrgency(t.history, a)
}

// SendToUser creates an alert from content, expiring after the registry default TTL,
// and delivers it to a single subscriber.
// Returns ErrInvalidRecipient if userID is not subscribed; nothing is created in that case.
func (t *Topic) SendToUser(content string, userID uuid.UUID) (*Alert, error) {
	u, err := t.recipient(userID)
	if err != nil {
		return nil, err
	}

	a := NewAlert(content, t, t.registry.now().Add(t.registry.ttl))
	if err := t.unicast(u, a); err != nil {
		return nil, err
	}
	return a, nil
}

// SendAlertToUser delivers an existing alert to a single subscriber.
// Returns ErrNilAlert for a nil alert, ErrTopicMismatch for an alert created for
// another topic and ErrInvalidRecipient if userID is not subscribed.
// Nothing is recorded when an error is returned.
func (t *Topic) SendAlertToUser(userID uuid.UUID, a *Alert) error {
	if err := t.owns(a); err != nil {
		return err
	}
	u, err := t.recipient(userID)
	if err != nil {
		return err
	}
	return t.unicast(u, a)
}

// Broadcast creates an alert from content and delivers it to every subscriber.
func (t *Topic) Broadcast(content string) *Alert {
	a := NewAlert(content, t, t.registry.now().Add(t.registry.ttl))
	t.broadcast(a)
	return a
}

// BroadcastAlert delivers an existing alert to every subscriber.
// Returns ErrNilAlert for a nil alert and ErrTopicMismatch for an alert created
// for another topic; no subscriber is reached in that case.
func (t *Topic) BroadcastAlert(a *Alert) error {
	if err := t.owns(a); err != nil {
		return err
	}
	t.broadcast(a)
	return nil
}

// ListNonExpired returns the alerts of the topic that have not expired yet, in history order.
func (t *Topic) ListNonExpired() []*Alert {
	return filterAlerts(t.History(), func(a *Alert) bool {
		return !a.IsExpired()
	})
}

func (t *Topic) owns(a *Alert) error {
	if a == nil {
		return ErrNilAlert
	}
	if !a.belongsTo(t.registry, t.name) {
		return fmt.Errorf("%w: alert topic %q of another registry or topic, sent through %q", ErrTopicMismatch, a.topic, t.name)
	}
	return nil
}

func (t *Topic) recipient(userID uuid.UUID) (*User, error) {
	if !t.IsSubscribed(userID) {
		return nil, fmt.Errorf("%w: user %s, topic %q", ErrInvalidRecipient, userID, t.name)
	}
	u, ok := t.registry.User(userID)
	if !ok {
		return nil, fmt.Errorf("%w: user %s is not registered", ErrInvalidRecipient, userID)
	}
	return u, nil
}

func (t *Topic) unicast(u *User, a *Alert) error {
	t.sendMu.Lock()
	defer t.sendMu.Unlock()

	if err := u.Receive(a); err != nil {
		return err
	}
	t.addToHistory(a)

	t.registry.logger.LogAttrs(context.Background(), slog.LevelDebug, "alert sent to user",
		logger.Topic(t.name),
		logger.AlertID(a.id),
		logger.UserID(u.id),
		logger.Urgency(string(a.urgency)),
	)
	return nil
}

func (t *Topic) broadcast(a *Alert) {
	t.sendMu.Lock()
	defer t.sendMu.Unlock()

	t.addToHistory(a)

	// Deliver to the subscriber set as it was when the broadcast started.
	ids := t.Subscribers()
	delivered := 0
	for _, id := range ids {
		u, ok := t.registry.User(id)
		if !ok {
			t.registry.logger.LogAttrs(context.Background(), slog.LevelWarn, "skipped broadcast to unregistered subscriber",
				logger.Topic(t.name),
				logger.AlertID(a.id),
				logger.UserID(id),
			)
			continue
		}
		if err := u.Receive(a); err != nil {
			t.registry.logger.LogAttrs(context.Background(), slog.LevelWarn, "failed to deliver broadcast alert",
				logger.Topic(t.name),
				logger.AlertID(a.id),
				logger.UserID(id),
				logger.Error(err),
			)
			continue
		}
		delivered++
	}

	t.registry.logger.LogAttrs(context.Background(), slog.LevelDebug, "alert broadcast",
		logger.Topic(t.name),
		logger.AlertID(a.id),
		logger.Urgency(string(a.urgency)),
		slog.Int("recipients", delivered),
	)
}
