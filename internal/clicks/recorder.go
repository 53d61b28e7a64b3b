package clicks

import (
	"context"
	"time"

	"github.com/serroba/tinylink/internal/messaging"
	"github.com/serroba/tinylink/internal/shortener"
)

// StreamRecorder hands clicks to a message stream instead of writing the store.
// The redirect never waits on the counter update; a consumer applies it later.
type StreamRecorder struct {
	publish messaging.Publish[LinkVisitedEvent]
}

// NewStreamRecorder creates a recorder publishing through publish.
func NewStreamRecorder(publish messaging.Publish[LinkVisitedEvent]) *StreamRecorder {
	return &StreamRecorder{publish: publish}
}

// RecordClick publishes a LinkVisitedEvent for code.
func (r *StreamRecorder) RecordClick(ctx context.Context, code shortener.Code, at time.Time) error {
	return r.publish(ctx, &LinkVisitedEvent{
		Code:      string(code),
		VisitedAt: at.UTC(),
	})
}

// Compile-time check.
var _ shortener.ClickRecorder = (*StreamRecorder)(nil)
