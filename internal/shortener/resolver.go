package shortener

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Resolver turns a code into its redirect target and accounts the visit.
type Resolver struct {
	targets TargetFinder
	clicks  ClickRecorder
	now     func() time.Time
	logger  *zap.Logger
}

// NewResolver creates a resolver reading targets from targets and writing visits to clicks.
func NewResolver(targets TargetFinder, clicks ClickRecorder, logger *zap.Logger) *Resolver {
	return &Resolver{
		targets: targets,
		clicks:  clicks,
		now:     time.Now,
		logger:  logger,
	}
}

// Resolve returns the target of code and records one click for it.
//
// The lookup and the click write are separate store operations. The write is an
// increment relative to stored state, so concurrent resolutions of the same code
// all count. It runs detached from ctx cancellation and its failure is logged
// rather than returned: the caller always gets the target it looked up.
func (r *Resolver) Resolve(ctx context.Context, code Code) (string, error) {
	if !code.Valid() {
		return "", ErrNotFound
	}

	target, err := r.targets.FindTarget(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrNotFound
		}

		return "", storeError(err)
	}

	if err := r.clicks.RecordClick(context.WithoutCancel(ctx), code, r.now()); err != nil {
		r.logger.Error("failed to record click",
			zap.String("code", string(code)),
			zap.Error(err),
		)
	}

	return target, nil
}
