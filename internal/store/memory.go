package store

import (
	"context"
	"sort"
	"sync"

	"github.com/serroba/shlink-go/internal/shortener"
	"github.com/serroba/shlink-go/internal/visits"
)

// MemoryStore is an in-memory implementation of shortener.Repository and visits.Repository.
type MemoryStore struct {
	mu     sync.RWMutex
	urls   map[shortener.Code]shortener.ShortURL
	visits map[shortener.Code][]visits.Visit // insertion order
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		urls:   make(map[shortener.Code]shortener.ShortURL),
		visits: make(map[shortener.Code][]visits.Visit),
	}
}

// Save stores a short URL. An existing code keeps its first value.
func (m *MemoryStore) Save(_ context.Context, shortURL *shortener.ShortURL) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.urls[shortURL.Code]; !ok {
		m.urls[shortURL.Code] = *shortURL
	}

	return nil
}

func (m *MemoryStore) GetByCode(_ context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	url, ok := m.urls[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return &url, nil
}

func (m *MemoryStore) SaveVisit(_ context.Context, visit *visits.Visit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.visits[visit.ShortCode] = append(m.visits[visit.ShortCode], *visit)

	return nil
}

func (m *MemoryStore) ListVisits(_ context.Context, code shortener.Code) ([]visits.Visit, error) {
	m.mu.RLock()
	stored := m.visits[code]
	result := make([]visits.Visit, 0, len(stored))

	for i := len(stored) - 1; i >= 0; i-- {
		result = append(result, stored[i])
	}
	m.mu.RUnlock()

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].VisitedAt.After(result[j].VisitedAt)
	})

	return result, nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(_ context.Context) (bool, error) {
	return true, nil
}
