package alerts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/alertkit/pkg/logger"
)

// User is a subscriber identity with its own history of received alerts.
// Topic membership is held by the topic.
type User struct {
	id       uuid.UUID
	name     string
	registry *Registry

	history []*Alert
	mu      sync.RWMutex
}

// ID returns the identity generated by the registry at creation.
func (u *User) ID() uuid.UUID { return u.id }

// Name returns the display name.
func (u *User) Name() string { return u.name }

// Equal compares users by identity and name. Maps and sets key users by ID only.
func (u *User) Equal(other *User) bool {
	if u == nil || other == nil {
		return u == other
	}
	return u.id == other.id && u.name == other.name
}

// Subscribe subscribes the user to the topic.
func (u *User) Subscribe(t *Topic) {
	t.Subscribe(u)
}

// Alerts returns a copy of the user history, urgent first.
func (u *User) Alerts() []*Alert {
	u.mu.RLock()
	defer u.mu.RUnlock()

	out := make([]*Alert, len(u.history))
	copy(out, u.history)
	return out
}

// Receive delivers the alert to the user.
// Returns ErrNotSubscribed if the user is not subscribed to the alert topic at the time of the call,
// or if the alert was created in another registry.
func (u *User) Receive(a *Alert) error {
	if a == nil {
		return ErrNilAlert
	}
	t, ok := u.registry.Topic(a.topic)
	if !ok || !a.belongsTo(u.registry, t.Name()) || !t.IsSubscribed(u.id) {
		return fmt.Errorf("%w: user %s, topic %q", ErrNotSubscribed, u.id, a.topic)
	}

	a.DeliverTo(u)

	u.mu.Lock()
	u.history = insertByUrgency(u.history, a)
	u.mu.Unlock()

	u.registry.feed.publish(DeliveryEvent{
		AlertID:     a.id,
		Topic:       a.topic,
		UserID:      u.id,
		Urgency:     a.urgency,
		DeliveredAt: u.registry.now(),
	})
	return nil
}

// MarkRead marks the alert as read if it is in the user history.
// Alerts the user never received are ignored.
func (u *User) MarkRead(a *Alert) {
	if !u.has(a) {
		return
	}
	// An alert without a record for this user stays untouched.
	if err := a.MarkRead(u); errors.Is(err, ErrUnknownRecipient) {
		u.registry.logger.LogAttrs(context.Background(), slog.LevelDebug, "skipped marking alert as read",
			logger.UserID(u.id),
			logger.AlertID(a.id),
			logger.Error(err),
		)
	}
}

// MarkAllRead marks every alert in the user history as read.
func (u *User) MarkAllRead() {
	for _, a := range u.Alerts() {
		u.MarkRead(a)
	}
}

// UnreadNonExpired returns the alerts the user has not read yet and that have not expired.
func (u *User) UnreadNonExpired() []*Alert {
	return filterAlerts(u.Alerts(), func(a *Alert) bool {
		return !a.IsExpired() && a.isUnreadBy(u.id)
	})
}

// UnreadCount returns the number of unread, non-expired alerts.
func (u *User) UnreadCount() int {
	return len(u.UnreadNonExpired())
}

// NonExpiredForTopic returns the non-expired alerts the user received through the topic.
func (u *User) NonExpiredForTopic(t *Topic) []*Alert {
	return filterAlerts(u.Alerts(), func(a *Alert) bool {
		return a.belongsTo(t.registry, t.name) && !a.IsExpired()
	})
}

func (u *User) has(a *Alert) bool {
	if a == nil {
		return false
	}
	u.mu.RLock()
	defer u.mu.RUnlock()

	for _, h := range u.history {
		if h == a {
			return true
		}
	}
	return false
}
