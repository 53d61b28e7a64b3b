package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/serroba/tinylink/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Repository.
type MemoryStore struct {
	mu    sync.RWMutex
	links map[shortener.Code]shortener.Link
}

// NewMemoryStore creates a new in-memory link store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		links: make(map[shortener.Code]shortener.Link),
	}
}

func (m *MemoryStore) Exists(_ context.Context, code shortener.Code) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.links[code]

	return ok, nil
}

func (m *MemoryStore) Insert(_ context.Context, link *shortener.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.links[link.Code]; ok {
		return shortener.ErrAlreadyExists
	}

	m.links[link.Code] = copyLink(link)

	return nil
}

func (m *MemoryStore) FindTarget(_ context.Context, code shortener.Code) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.links[code]
	if !ok {
		return "", shortener.ErrNotFound
	}

	return link.TargetURL, nil
}

func (m *MemoryStore) GetByCode(_ context.Context, code shortener.Code) (*shortener.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.links[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	out := copyLink(&link)

	return &out, nil
}

func (m *MemoryStore) RecordClick(_ context.Context, code shortener.Code, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	link, ok := m.links[code]
	if !ok {
		return shortener.ErrNotFound
	}

	link.TotalClicks++

	if link.LastClickedAt == nil || at.After(*link.LastClickedAt) {
		ts := at
		link.LastClickedAt = &ts
	}

	m.links[code] = link

	return nil
}

func (m *MemoryStore) List(_ context.Context) ([]*shortener.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	links := make([]*shortener.Link, 0, len(m.links))

	for _, link := range m.links {
		out := copyLink(&link)
		links = append(links, &out)
	}

	sort.Slice(links, func(i, j int) bool {
		return links[i].CreatedAt.After(links[j].CreatedAt)
	})

	return links, nil
}

func (m *MemoryStore) Delete(_ context.Context, code shortener.Code) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.links[code]; !ok {
		return shortener.ErrNotFound
	}

	delete(m.links, code)

	return nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(context.Context) error {
	return nil
}

func copyLink(link *shortener.Link) shortener.Link {
	out := *link

	if link.LastClickedAt != nil {
		ts := *link.LastClickedAt
		out.LastClickedAt = &ts
	}

	return out
}

// Compile-time check.
var _ shortener.Repository = (*MemoryStore)(nil)
