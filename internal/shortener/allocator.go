package shortener

import (
	"context"
	"fmt"
	"strings"

	"github.com/jaevor/go-nanoid"
)

const (
	// Alphabet is the set of characters generated codes are drawn from.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	GeneratedCodeLength = 6
	DefaultMaxAttempts  = 5
)

// CodeGenerator produces a candidate code. It need not be unique.
type CodeGenerator func() string

// NewCodeGenerator returns a generator drawing GeneratedCodeLength characters
// uniformly and independently from Alphabet.
func NewCodeGenerator() (CodeGenerator, error) {
	gen, err := nanoid.CustomASCII(Alphabet, GeneratedCodeLength)
	if err != nil {
		return nil, err
	}

	return gen, nil
}

// Allocator decides the code of a new link. It only reads from the store;
// the caller inserts the link and the store's unique constraint stays the
// final arbiter.
type Allocator struct {
	store        Occupancy
	generateCode CodeGenerator
	maxAttempts  int
}

// NewAllocator creates an allocator. A non-positive maxAttempts falls back to DefaultMaxAttempts.
func NewAllocator(store Occupancy, generator CodeGenerator, maxAttempts int) *Allocator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	return &Allocator{
		store:        store,
		generateCode: generator,
		maxAttempts:  maxAttempts,
	}
}

// ValidateCustomCode trims candidate and returns it if it is well formed and free.
func (a *Allocator) ValidateCustomCode(ctx context.Context, candidate string) (Code, error) {
	code := Code(strings.TrimSpace(candidate))
	if !code.Valid() {
		return "", ErrInvalidFormat
	}

	taken, err := a.store.Exists(ctx, code)
	if err != nil {
		return "", storeError(err)
	}

	if taken {
		return "", ErrAlreadyExists
	}

	return code, nil
}

// GenerateCode draws random codes until one is free, giving up after maxAttempts collisions.
func (a *Allocator) GenerateCode(ctx context.Context) (Code, error) {
	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		code := Code(a.generateCode())

		taken, err := a.store.Exists(ctx, code)
		if err != nil {
			return "", storeError(err)
		}

		if !taken {
			return code, nil
		}
	}

	return "", fmt.Errorf("%w after %d attempts", ErrAllocationExhausted, a.maxAttempts)
}
