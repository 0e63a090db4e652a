package cache

import (
	"context"
	"sync"
	"time"

	app "github.com/shopcore/backend/internal/application/affiliate"
)

type entry struct {
	expiresAt time.Time
}

// InMemoryRefundEventStore deduplicates refund events within one process.
// Suitable for single-instance deployments and tests.
type InMemoryRefundEventStore struct {
	mu        sync.Mutex
	entries   map[string]entry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryRefundEventStore creates an in-memory refund event store and
// starts a background goroutine that evicts expired entries
func NewInMemoryRefundEventStore() *InMemoryRefundEventStore {
	store := &InMemoryRefundEventStore{
		entries:  make(map[string]entry),
		stopChan: make(chan struct{}),
	}
	store.wg.Add(1)
	go store.cleanupLoop()
	return store
}

// MarkProcessed marks a refund event as seen with a TTL. Returns true if
// the event was newly marked, false if it had been seen before.
func (s *InMemoryRefundEventStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, exists := s.entries[eventID]; exists && time.Now().Before(e.expiresAt) {
		return false, nil
	}
	s.entries[eventID] = entry{expiresAt: time.Now().Add(ttl)}
	return true, nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *InMemoryRefundEventStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryRefundEventStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *InMemoryRefundEventStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for eventID, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, eventID)
		}
	}
}

// Ensure InMemoryRefundEventStore implements the application contract
var _ app.RefundEventStore = (*InMemoryRefundEventStore)(nil)
