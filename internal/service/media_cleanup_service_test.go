package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"characterhub-be/internal/dto"
	"characterhub-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debug(string, string, map[string]interface{}) {}
func (noopLogger) Info(string, string, map[string]interface{})  {}
func (noopLogger) Warn(string, string, map[string]interface{})  {}
func (noopLogger) Error(string, string, map[string]interface{}) {}
func (noopLogger) Sync() error                                  { return nil }

var _ logger.ILogger = noopLogger{}

func TestMediaCleanup_DeletesOrphanedObjects(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	store := newFakeBlobClient()
	store.objects["123-old.png"] = []byte("x")
	store.objects["456-kept.png"] = []byte("y")

	const topic = "MEDIA_ORPHANED"
	cleanup := NewMediaCleanupService(pubSub, topic, store, noopLogger{})
	require.NoError(t, cleanup.Consume(context.Background()))

	publisher := NewPublisherService(pubSub, topic)
	payload, err := json.Marshal(dto.MediaOrphanedMessage{Keys: []string{"123-old.png"}})
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(context.Background(), payload))

	assert.Eventually(t, func() bool {
		exists, _ := store.Exists(context.Background(), "123-old.png")
		return !exists
	}, 2*time.Second, 10*time.Millisecond)

	kept, _ := store.Exists(context.Background(), "456-kept.png")
	assert.True(t, kept)
}

func TestMediaCleanup_IgnoresMalformedPayload(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	store := newFakeBlobClient()
	store.objects["123-old.png"] = []byte("x")

	const topic = "MEDIA_ORPHANED"
	cleanup := NewMediaCleanupService(pubSub, topic, store, noopLogger{})
	require.NoError(t, cleanup.Consume(context.Background()))

	publisher := NewPublisherService(pubSub, topic)
	require.NoError(t, publisher.Publish(context.Background(), []byte("not json")))

	// A follow-up valid message still gets processed.
	payload, _ := json.Marshal(dto.MediaOrphanedMessage{Keys: []string{"123-old.png"}})
	require.NoError(t, publisher.Publish(context.Background(), payload))

	assert.Eventually(t, func() bool {
		exists, _ := store.Exists(context.Background(), "123-old.png")
		return !exists
	}, 2*time.Second, 10*time.Millisecond)
}
