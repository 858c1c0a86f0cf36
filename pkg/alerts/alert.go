package alerts

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Alert is a piece of content sent through a topic, with per-recipient read status.
// The topic is referenced by name within the registry the alert was created in.
type Alert struct {
	id        uuid.UUID
	content   string
	topic     string
	registry  *Registry
	urgency   Urgency
	createdAt time.Time
	expiresAt time.Time

	recipients map[uuid.UUID]*Record
	mu         sync.RWMutex
}

// NewAlert creates an alert for the topic whose urgency is derived from content
// by the registry classifier.
func NewAlert(content string, topic *Topic, expiresAt time.Time) *Alert {
	return NewAlertWithUrgency(content, topic, expiresAt, topic.registry.classify(content))
}

// NewAlertWithUrgency creates an alert with an explicit urgency.
func NewAlertWithUrgency(content string, topic *Topic, expiresAt time.Time, urgency Urgency) *Alert {
	r := topic.registry
	return &Alert{
		id:         r.newID(),
		content:    content,
		topic:      topic.name,
		registry:   r,
		urgency:    urgency,
		createdAt:  r.now(),
		expiresAt:  expiresAt,
		recipients: make(map[uuid.UUID]*Record),
	}
}

// ID returns the alert identity generated by the registry.
func (a *Alert) ID() uuid.UUID { return a.id }

// Content returns the alert text.
func (a *Alert) Content() string { return a.content }

// Urgency returns the classification that decides the alert position in histories.
func (a *Alert) Urgency() Urgency { return a.urgency }

// CreatedAt returns the registry clock time at which the alert was created.
func (a *Alert) CreatedAt() time.Time { return a.createdAt }

// ExpiresAt returns the time after which the alert is hidden from queries.
func (a *Alert) ExpiresAt() time.Time { return a.expiresAt }

// Topic returns the name of the topic the alert was created for.
func (a *Alert) Topic() string { return a.topic }

// IsUrgent reports whether the alert is classified as urgent.
func (a *Alert) IsUrgent() bool { return a.urgency == UrgencyUrgent }

// IsExpired reports whether the expiration time is strictly before now.
func (a *Alert) IsExpired() bool {
	return a.expiresAt.Before(a.registry.now())
}

// DeliverTo registers an unread record for the user.
// A previous record of the same user is replaced, resetting its read state.
func (a *Alert) DeliverTo(u *User) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.recipients[u.id] = &Record{DeliveredAt: a.registry.now()}
}

// MarkRead marks the alert as read for the user.
// Returns ErrUnknownRecipient if the alert was never delivered to the user.
func (a *Alert) MarkRead(u *User) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec, ok := a.recipients[u.id]
	if !ok {
		return fmt.Errorf("%w: user %s", ErrUnknownRecipient, u.id)
	}
	rec.markRead(a.registry.now())
	return nil
}

// IsRead reports whether the user has read the alert.
// Returns ErrUnknownRecipient if the alert was never delivered to the user.
func (a *Alert) IsRead(u *User) (bool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	rec, ok := a.recipients[u.id]
	if !ok {
		return false, fmt.Errorf("%w: user %s", ErrUnknownRecipient, u.id)
	}
	return rec.Read, nil
}

// Record returns a copy of the user's delivery record.
func (a *Alert) Record(u *User) (Record, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	rec, ok := a.recipients[u.id]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// IsForSpecificUser reports whether the alert has exactly one recipient.
func (a *Alert) IsForSpecificUser() bool {
	return a.RecipientCount() == 1
}

// RecipientCount returns the number of users the alert was delivered to.
func (a *Alert) RecipientCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.recipients)
}

// belongsTo reports whether the alert was created for the named topic of registry r.
func (a *Alert) belongsTo(r *Registry, topic string) bool {
	return a.registry == r && a.topic == topic
}

// isUnreadBy is used by history filters where the user is known to be a recipient.
func (a *Alert) isUnreadBy(id uuid.UUID) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()

	rec, ok := a.recipients[id]
	return ok && !rec.Read
}
