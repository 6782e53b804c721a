package audit

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSink struct {
	calls int
}

func (s *failingSink) Publish(context.Context, Event) error {
	s.calls++
	return errors.New("broker unreachable")
}

func TestPublisherEmit(t *testing.T) {
	ctx := context.Background()

	t.Run("appends to the store and stamps the timestamp", func(t *testing.T) {
		p := NewPublisher(NewInMemoryStore())
		require.NoError(t, p.Emit(ctx, Event{ShopID: "shop-1", Action: ActionShopRegistered}))

		events, err := p.List(ctx, "shop-1")
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, ActionShopRegistered, events[0].Action)
		assert.False(t, events[0].Timestamp.IsZero())
	})

	t.Run("keeps a caller-provided timestamp", func(t *testing.T) {
		p := NewPublisher(NewInMemoryStore())
		stamp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		require.NoError(t, p.Emit(ctx, Event{ShopID: "shop-1", Action: ActionShopApproved, Timestamp: stamp}))

		events, err := p.List(ctx, "shop-1")
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, stamp, events[0].Timestamp)
	})

	t.Run("sink failure never fails the emit", func(t *testing.T) {
		sink := &failingSink{}
		logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
		p := NewPublisher(NewInMemoryStore(), WithSink(sink), WithLogger(logger))

		require.NoError(t, p.Emit(ctx, Event{ShopID: "shop-2", Action: ActionLocationSubmitted}))
		assert.Equal(t, 1, sink.calls)

		// The event still reaches the store.
		events, err := p.List(ctx, "shop-2")
		require.NoError(t, err)
		assert.Len(t, events, 1)
	})
}

func TestPublisherListFiltersByShop(t *testing.T) {
	ctx := context.Background()
	p := NewPublisher(NewInMemoryStore())

	require.NoError(t, p.Emit(ctx, Event{ShopID: "shop-1", Action: ActionShopRegistered}))
	require.NoError(t, p.Emit(ctx, Event{ShopID: "shop-2", Action: ActionShopRegistered}))
	require.NoError(t, p.Emit(ctx, Event{ShopID: "shop-1", Action: ActionShopApproved}))

	events, err := p.List(ctx, "shop-1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, ActionShopRegistered, events[0].Action)
	assert.Equal(t, ActionShopApproved, events[1].Action)
}
