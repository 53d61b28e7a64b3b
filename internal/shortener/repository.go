package shortener

import (
	"context"
	"time"
)

// Occupancy answers whether a code is already taken.
type Occupancy interface {
	Exists(ctx context.Context, code Code) (bool, error)
}

// TargetFinder looks up the redirect target of a code.
// Returns ErrNotFound if no link has that code.
type TargetFinder interface {
	FindTarget(ctx context.Context, code Code) (string, error)
}

// ClickRecorder accounts a single visit of a code.
type ClickRecorder interface {
	// RecordClick increments the click counter of code by one and moves its
	// last-click timestamp forward to at. It must be a single atomic write
	// relative to stored state so concurrent calls never lose updates.
	// Returns ErrNotFound if no link has that code.
	RecordClick(ctx context.Context, code Code, at time.Time) error
}

// Repository is the persistent link store.
type Repository interface {
	Occupancy
	TargetFinder
	ClickRecorder

	// Insert stores link only if its code is free.
	// Returns ErrAlreadyExists when the code is taken.
	Insert(ctx context.Context, link *Link) error
	GetByCode(ctx context.Context, code Code) (*Link, error)
	// List returns every link, most recently created first.
	List(ctx context.Context) ([]*Link, error)
	// Delete removes the link. Returns ErrNotFound if it does not exist.
	Delete(ctx context.Context, code Code) error
}
