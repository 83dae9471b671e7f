package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/dinebook/backend/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	mu        sync.Mutex
	data      map[string][]byte
	getError  error
	setError  error
	setCalled int
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string][]byte),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalled++
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) SetCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setCalled
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

// MockCatalogProvider is a mock implementation of domain.CatalogProvider
type MockCatalogProvider struct {
	mu     sync.Mutex
	venues []domain.Venue
	err    error
	calls  int
}

func (m *MockCatalogProvider) ListVenues(ctx context.Context) ([]domain.Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.venues, nil
}

func (m *MockCatalogProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// staticVenues is a VenueSource over a fixed slice. When gate is set, each
// call signals entered and then blocks until gate is closed.
type staticVenues struct {
	mu      sync.Mutex
	venues  []domain.Venue
	err     error
	calls   int
	gate    chan struct{}
	entered chan struct{}
}

func (s *staticVenues) Venues(ctx context.Context) ([]domain.Venue, error) {
	s.mu.Lock()
	s.calls++
	gate, entered := s.gate, s.entered
	s.mu.Unlock()

	if gate != nil {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-gate
	}
	return s.venues, s.err
}

func (s *staticVenues) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// hold makes subsequent calls block until the returned release func runs
func (s *staticVenues) hold() (entered <-chan struct{}, release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gate = make(chan struct{})
	s.entered = make(chan struct{}, 1)
	gate := s.gate
	return s.entered, func() { close(gate) }
}

var sampleCatalog = []domain.Venue{
	{ID: "1", Name: "Sufra", City: "Amman", Type: "restaurant", PriceRange: "$$$$", Rating: 5.0, Description: "elegant fine dining"},
	{ID: "2", Name: "Rumi", City: "Amman", Type: "cafe", Rating: 3.0, Description: "quiet wifi spot"},
	{ID: "3", Name: "Beit Sitti", City: "Irbid", Type: "restaurant", PriceRange: "$$", Rating: 4.6, Description: "busy family kitchen"},
	{ID: "4", Name: "Geo pin", City: "31.95", Type: "cafe", Rating: 2.0},
}
