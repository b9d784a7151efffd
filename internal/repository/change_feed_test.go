package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-planner-api/internal/models"
)

func TestLocalChangeFeedFanOut(t *testing.T) {
	feed := NewLocalChangeFeed(nil)
	ctx := context.Background()

	first, cancelFirst, err := feed.Subscribe(ctx)
	require.NoError(t, err)
	second, cancelSecond, err := feed.Subscribe(ctx)
	require.NoError(t, err)
	defer cancelSecond()

	event := models.ChangeEvent{Collection: models.CollectionUsers, DocumentID: "u1", Op: models.ChangeOpPut}
	require.NoError(t, feed.Publish(ctx, event))

	assert.Equal(t, event, receive(t, first))
	assert.Equal(t, event, receive(t, second))

	cancelFirst()
	cancelFirst()
	_, open := <-first
	assert.False(t, open, "cancelled subscription is closed")

	require.NoError(t, feed.Publish(ctx, event))
	assert.Equal(t, event, receive(t, second))
}

func TestLocalChangeFeedClosesOnContext(t *testing.T) {
	feed := NewLocalChangeFeed(nil)
	ctx, cancel := context.WithCancel(context.Background())

	ch, _, err := feed.Subscribe(ctx)
	require.NoError(t, err)
	cancel()

	select {
	case _, open := <-ch:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("subscription not closed after context cancel")
	}
}

func TestLocalChangeFeedDropsWhenFull(t *testing.T) {
	feed := NewLocalChangeFeed(nil)
	ch, cancel, err := feed.Subscribe(context.Background())
	require.NoError(t, err)
	defer cancel()

	for i := 0; i < feedBuffer+10; i++ {
		require.NoError(t, feed.Publish(context.Background(), models.ChangeEvent{Collection: "config"}))
	}
	assert.Len(t, ch, feedBuffer)
}

func receive(t *testing.T, ch <-chan models.ChangeEvent) models.ChangeEvent {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change event")
	}
	return models.ChangeEvent{}
}
