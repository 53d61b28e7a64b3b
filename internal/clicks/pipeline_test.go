package clicks_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/serroba/tinylink/internal/clicks"
	"github.com/serroba/tinylink/internal/messaging"
	"github.com/serroba/tinylink/internal/shortener"
	"github.com/serroba/tinylink/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStreamedClicksReachTheStore(t *testing.T) {
	ctx := context.Background()
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 16}, watermill.NopLogger{})
	s := store.NewMemoryStore()
	require.NoError(t, s.Insert(ctx, &shortener.Link{Code: "stream1", TargetURL: "https://example.com", CreatedAt: time.Now()}))

	group := messaging.NewConsumerGroup(pubSub, zap.NewNop())
	group.Add(messaging.NewConsumer(pubSub, clicks.TopicLinkVisited, clicks.NewApplyHandler(s, zap.NewNop()), zap.NewNop()))
	require.NoError(t, group.Start(ctx))

	publish := messaging.NewPublishFunc[clicks.LinkVisitedEvent](pubSub, clicks.TopicLinkVisited, clicks.EventTypeLinkVisited)
	resolver := shortener.NewResolver(s, clicks.NewStreamRecorder(publish), zap.NewNop())

	const visits = 5

	for rep := 0; rep < visits; rep++ {
		target, err := resolver.Resolve(ctx, "stream1")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", target)
	}

	assert.Eventually(t, func() bool {
		link, err := s.GetByCode(ctx, "stream1")

		return err == nil && link.TotalClicks == visits
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, group.Shutdown())
}
