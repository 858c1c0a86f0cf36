package alerts

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/alertkit/pkg/logger"
)

// Registry owns the topics and users of one alert graph and the collaborators
// they share: the clock, the identity generator and the urgency classifier.
// Alerts reference their topic by name and are resolved through the registry.
type Registry struct {
	topics map[string]*Topic
	users  map[uuid.UUID]*User
	mu     sync.RWMutex

	now        func() time.Time
	newID      func() uuid.UUID
	classify   Classifier
	ttl        time.Duration
	logger     *slog.Logger
	feedBuffer int
	feed       *feed
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		topics:     make(map[string]*Topic),
		users:      make(map[uuid.UUID]*User),
		now:        time.Now,
		newID:      uuid.New,
		classify:   ClassifyContent,
		ttl:        DefaultTTL,
		logger:     slog.Default(),
		feedBuffer: 64,
	}

	for _, opt := range opts {
		opt(r)
	}

	r.logger = r.logger.With(logger.Component("alerts"))
	r.feed = newFeed(r.feedBuffer)
	return r
}

// NewTopic registers a topic. Topic names are unique within a registry.
func (r *Registry) NewTopic(name string) (*Topic, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyTopicName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.topics[name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrTopicExists, name)
	}
	t := newTopic(name, r)
	r.topics[name] = t

	r.logger.LogAttrs(context.Background(), slog.LevelDebug, "topic created", logger.Topic(name))
	return t, nil
}

// NewUser registers a user with a fresh identity.
func (r *Registry) NewUser(name string) *User {
	u := &User{
		id:       r.newID(),
		name:     name,
		registry: r,
	}

	r.mu.Lock()
	r.users[u.id] = u
	r.mu.Unlock()

	r.logger.LogAttrs(context.Background(), slog.LevelDebug, "user created", logger.UserID(u.id))
	return u
}

// Topic looks up a topic by name.
func (r *Registry) Topic(name string) (*Topic, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.topics[name]
	return t, ok
}

// User looks up a user by ID.
func (r *Registry) User(id uuid.UUID) (*User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	return u, ok
}

// Topics returns the registered topic names in lexical order.
func (r *Registry) Topics() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.topics))
	for name := range r.topics {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Watch subscribes to delivery events. The subscription ends when ctx is
// cancelled, when it is closed, when it falls behind or when the registry is closed.
func (r *Registry) Watch(ctx context.Context) *Subscription {
	return r.feed.subscribe(ctx)
}

// Close ends every delivery feed subscription. Topics and users stay usable.
func (r *Registry) Close() error {
	return r.feed.close()
}
