package clicks

import (
	"context"
	"errors"

	"github.com/serroba/tinylink/internal/messaging"
	"github.com/serroba/tinylink/internal/shortener"
	"go.uber.org/zap"
)

// NewApplyHandler returns a handler writing each visit to store.
// Visits of links deleted in the meantime are dropped; any other store error
// is returned so the message is redelivered.
func NewApplyHandler(store shortener.ClickRecorder, logger *zap.Logger) messaging.Handler[LinkVisitedEvent] {
	return func(ctx context.Context, event *LinkVisitedEvent) error {
		err := store.RecordClick(ctx, shortener.Code(event.Code), event.VisitedAt)
		if errors.Is(err, shortener.ErrNotFound) {
			logger.Debug("dropping visit of deleted link", zap.String("code", event.Code))

			return nil
		}

		return err
	}
}
