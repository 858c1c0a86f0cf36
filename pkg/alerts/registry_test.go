package alerts

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/alertkit/pkg/config"
)

func TestRegistry_NewTopic(t *testing.T) {
	r, _ := newTestRegistry(t)

	ops, err := r.NewTopic("ops")
	require.NoError(t, err)
	assert.Equal(t, "ops", ops.Name())

	_, err = r.NewTopic("ops")
	assert.ErrorIs(t, err, ErrTopicExists)

	_, err = r.NewTopic("  ")
	assert.ErrorIs(t, err, ErrEmptyTopicName)

	_, err = r.NewTopic("billing")
	require.NoError(t, err)

	assert.Equal(t, []string{"billing", "ops"}, r.Topics())

	got, ok := r.Topic("ops")
	require.True(t, ok)
	assert.Same(t, ops, got)

	_, ok = r.Topic("missing")
	assert.False(t, ok)
}

func TestRegistry_NewUser(t *testing.T) {
	ids := []uuid.UUID{uuid.MustParse("00000000-0000-0000-0000-000000000001"), uuid.MustParse("00000000-0000-0000-0000-000000000002")}
	next := 0
	r, _ := newTestRegistry(t, WithIDGenerator(func() uuid.UUID {
		id := ids[next]
		next++
		return id
	}))

	alice := r.NewUser("alice")
	bob := r.NewUser("bob")
	assert.Equal(t, ids[0], alice.ID())
	assert.Equal(t, ids[1], bob.ID())

	got, ok := r.User(alice.ID())
	require.True(t, ok)
	assert.Same(t, alice, got)

	_, ok = r.User(uuid.New())
	assert.False(t, ok)
}

func TestRegistry_Options(t *testing.T) {
	r, clock := newTestRegistry(t, WithDefaultTTL(time.Hour), WithDefaultTTL(-time.Minute))
	topic := mustTopic(t, r, "ops")

	a := topic.Broadcast("I1")
	assert.Equal(t, clock.Now().Add(time.Hour), a.ExpiresAt())
}

func TestRegistry_WithConfig(t *testing.T) {
	config.ResetCache()
	t.Cleanup(config.ResetCache)
	t.Setenv("ALERTS_DEFAULT_TTL", "48h")
	os.Unsetenv("ALERTS_FEED_BUFFER")

	var cfg Config
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, 48*time.Hour, cfg.DefaultTTL)
	assert.Equal(t, 64, cfg.FeedBufferSize)

	r, clock := newTestRegistry(t, WithConfig(cfg))
	topic := mustTopic(t, r, "ops")
	a := topic.Broadcast("I1")
	assert.Equal(t, clock.Now().Add(48*time.Hour), a.ExpiresAt())
}

func TestRegistry_Logging(t *testing.T) {
	buf := &bytes.Buffer{}
	log := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r, _ := newTestRegistry(t, WithLogger(log))
	topic := mustTopic(t, r, "ops")
	alice := r.NewUser("alice")
	alice.Subscribe(topic)

	topic.Broadcast("I1")

	out := buf.String()
	assert.Contains(t, out, `"msg":"alert broadcast"`)
	assert.Contains(t, out, `"topic":"ops"`)
	assert.Contains(t, out, `"component":"alerts"`)
	assert.Contains(t, out, `"recipients":1`)
}

func TestRegistry_Watch(t *testing.T) {
	r, clock := newTestRegistry(t)
	topic := mustTopic(t, r, "ops")
	alice := r.NewUser("alice")
	bob := r.NewUser("bob")
	alice.Subscribe(topic)
	bob.Subscribe(topic)

	sub := r.Watch(context.Background())
	defer sub.Close()

	a := topic.Broadcast("U1")

	got := map[uuid.UUID]DeliveryEvent{}
	for range 2 {
		select {
		case ev := <-sub.Receive():
			got[ev.UserID] = ev
		case <-time.After(time.Second):
			t.Fatal("delivery event not received")
		}
	}

	require.Len(t, got, 2)
	ev := got[alice.ID()]
	assert.Equal(t, a.ID(), ev.AlertID)
	assert.Equal(t, "ops", ev.Topic)
	assert.Equal(t, UrgencyUrgent, ev.Urgency)
	assert.Equal(t, clock.Now(), ev.DeliveredAt)
	assert.Contains(t, got, bob.ID())
}

func TestRegistry_Watch_FailedDeliveryPublishesNothing(t *testing.T) {
	r, _ := newTestRegistry(t)
	topic := mustTopic(t, r, "ops")
	carol := r.NewUser("carol")

	sub := r.Watch(context.Background())
	defer sub.Close()

	_, err := topic.SendToUser("U1", carol.ID())
	require.ErrorIs(t, err, ErrInvalidRecipient)

	select {
	case ev := <-sub.Receive():
		t.Fatalf("unexpected event %+v", ev)
	default:
	}
}

func TestRegistry_Watch_SlowSubscriberDropped(t *testing.T) {
	r, _ := newTestRegistry(t, WithFeedBufferSize(1))
	topic := mustTopic(t, r, "ops")
	alice := r.NewUser("alice")
	alice.Subscribe(topic)

	sub := r.Watch(context.Background())
	topic.Broadcast("I1")
	topic.Broadcast("I2")

	ev, ok := <-sub.Receive()
	require.True(t, ok)
	assert.Equal(t, alice.ID(), ev.UserID)

	_, ok = <-sub.Receive()
	assert.False(t, ok, "subscription should be closed after overflow")

	// Deliveries keep working without subscribers.
	topic.Broadcast("I3")
	assert.Len(t, alice.Alerts(), 3)
}

func TestRegistry_Watch_ContextCancel(t *testing.T) {
	r, _ := newTestRegistry(t)

	ctx, cancel := context.WithCancel(context.Background())
	sub := r.Watch(ctx)
	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-sub.Receive():
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestRegistry_Close(t *testing.T) {
	r, _ := newTestRegistry(t)
	topic := mustTopic(t, r, "ops")
	alice := r.NewUser("alice")
	alice.Subscribe(topic)

	sub := r.Watch(context.Background())
	withCtx := r.Watch(t.Context())

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	_, ok := <-sub.Receive()
	assert.False(t, ok)
	_, ok = <-withCtx.Receive()
	assert.False(t, ok)

	late := r.Watch(context.Background())
	_, ok = <-late.Receive()
	assert.False(t, ok)

	topic.Broadcast("I1")
	assert.Len(t, alice.Alerts(), 1)
	assert.NoError(t, sub.Close())
}
