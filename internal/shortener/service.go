package shortener

import (
	"context"
	"strings"
	"time"
)

// Service runs the link workflows on top of a Repository.
type Service struct {
	store     Repository
	allocator *Allocator
	resolver  *Resolver
	now       func() time.Time
}

// NewService wires the create, resolve and management workflows.
func NewService(store Repository, allocator *Allocator, resolver *Resolver) *Service {
	return &Service{
		store:     store,
		allocator: allocator,
		resolver:  resolver,
		now:       time.Now,
	}
}

// Create validates the trimmed targetURL, allocates a code (customCode if given) and stores the link.
// A code taken between allocation and insert is reported as ErrAlreadyExists.
func (s *Service) Create(ctx context.Context, targetURL, customCode string) (*Link, error) {
	targetURL = strings.TrimSpace(targetURL)

	if err := ValidateTargetURL(targetURL); err != nil {
		return nil, err
	}

	var (
		code Code
		err  error
	)

	if custom := strings.TrimSpace(customCode); custom != "" {
		code, err = s.allocator.ValidateCustomCode(ctx, custom)
	} else {
		code, err = s.allocator.GenerateCode(ctx)
	}

	if err != nil {
		return nil, err
	}

	link := &Link{
		Code:      code,
		TargetURL: targetURL,
		CreatedAt: s.now().UTC(),
	}

	if err := s.store.Insert(ctx, link); err != nil {
		return nil, storeError(err)
	}

	return link, nil
}

// Resolve returns the redirect target of code and records the visit.
func (s *Service) Resolve(ctx context.Context, code Code) (string, error) {
	return s.resolver.Resolve(ctx, code)
}

// Stats returns the stored link for code.
func (s *Service) Stats(ctx context.Context, code Code) (*Link, error) {
	if !code.Valid() {
		return nil, ErrNotFound
	}

	link, err := s.store.GetByCode(ctx, code)
	if err != nil {
		return nil, storeError(err)
	}

	return link, nil
}

// List returns all links, most recently created first.
func (s *Service) List(ctx context.Context) ([]*Link, error) {
	links, err := s.store.List(ctx)
	if err != nil {
		return nil, storeError(err)
	}

	return links, nil
}

// Delete removes the link for code.
func (s *Service) Delete(ctx context.Context, code Code) error {
	if !code.Valid() {
		return ErrNotFound
	}

	if err := s.store.Delete(ctx, code); err != nil {
		return storeError(err)
	}

	return nil
}
