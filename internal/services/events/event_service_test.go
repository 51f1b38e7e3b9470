package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobscout/jobscout/internal/common"
	"github.com/jobscout/jobscout/internal/interfaces"
)

func TestPublishSync_DeliversTriggerPayload(t *testing.T) {
	svc := NewService(common.GetLogger())

	var mu sync.Mutex
	var received []string
	err := svc.Subscribe(interfaces.EventScrapeTriggered, func(ctx context.Context, event interfaces.Event) error {
		payload, ok := event.Payload.(interfaces.TriggerPayload)
		require.True(t, ok)
		mu.Lock()
		received = append(received, payload.UserID)
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	err = svc.PublishSync(context.Background(), interfaces.Event{
		Type:    interfaces.EventScrapeTriggered,
		Payload: interfaces.TriggerPayload{UserID: "u1"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, received)
}

func TestPublishSync_CollectsHandlerErrors(t *testing.T) {
	svc := NewService(common.GetLogger())

	require.NoError(t, svc.Subscribe(interfaces.EventScrapeTriggered, func(ctx context.Context, event interfaces.Event) error {
		return errors.New("boom")
	}))
	require.NoError(t, svc.Subscribe(interfaces.EventScrapeTriggered, func(ctx context.Context, event interfaces.Event) error {
		return nil
	}))

	err := svc.PublishSync(context.Background(), interfaces.Event{Type: interfaces.EventScrapeTriggered})
	assert.Error(t, err)
}

func TestPublish_NoSubscribersIsNotAnError(t *testing.T) {
	svc := NewService(common.GetLogger())
	assert.NoError(t, svc.Publish(context.Background(), interfaces.Event{Type: interfaces.EventScrapeTriggered}))
}

func TestSubscribe_NilHandlerRejected(t *testing.T) {
	svc := NewService(common.GetLogger())
	assert.Error(t, svc.Subscribe(interfaces.EventScrapeTriggered, nil))
}
