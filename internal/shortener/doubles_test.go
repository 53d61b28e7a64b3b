package shortener_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/serroba/tinylink/internal/shortener"
)

var errMock = errors.New("mock error")

// occupancyStub reports the codes in taken as occupied and counts every check.
type occupancyStub struct {
	mu     sync.Mutex
	taken  map[shortener.Code]bool
	err    error
	checks int
}

func (o *occupancyStub) Exists(_ context.Context, code shortener.Code) (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.checks++

	if o.err != nil {
		return false, o.err
	}

	return o.taken[code], nil
}

// sequence returns a generator yielding codes in order, repeating the last one.
func sequence(codes ...string) shortener.CodeGenerator {
	i := 0

	return func() string {
		code := codes[min(i, len(codes)-1)]
		i++

		return code
	}
}

// clickSpy records every click it receives.
type clickSpy struct {
	mu     sync.Mutex
	clicks []shortener.Code
	times  []time.Time
	err    error
}

func (c *clickSpy) RecordClick(_ context.Context, code shortener.Code, at time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return c.err
	}

	c.clicks = append(c.clicks, code)
	c.times = append(c.times, at)

	return nil
}

// targetStub resolves the codes in targets.
type targetStub struct {
	targets map[shortener.Code]string
	err     error
}

func (s *targetStub) FindTarget(_ context.Context, code shortener.Code) (string, error) {
	if s.err != nil {
		return "", s.err
	}

	target, ok := s.targets[code]
	if !ok {
		return "", shortener.ErrNotFound
	}

	return target, nil
}
