package leads

import (
	"context"
	"sync"
	"time"
)

// RateLimitStore counts leads previously stored for a source address.
type RateLimitStore interface {
	CountByAddress(ctx context.Context, address string) (int, error)
}

// RecordStore persists accepted leads.
type RecordStore interface {
	Insert(ctx context.Context, lead *Lead) error
}

// Repository is a store that serves both the rate-limit query and persistence.
type Repository interface {
	RateLimitStore
	RecordStore
}

// InMemoryRepository keeps leads in process memory. Used by tests; without a
// DATABASE_URL the runtime leaves the stores unset instead.
type InMemoryRepository struct {
	mu     sync.RWMutex
	leads  []Lead
	nextID int64
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

// Insert appends a copy of the lead, assigning its ID and creation time.
func (r *InMemoryRepository) Insert(ctx context.Context, lead *Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	lead.ID = r.nextID
	lead.CreatedAt = time.Now().UTC()
	r.leads = append(r.leads, *lead)
	return nil
}

// CountByAddress returns how many stored leads came from address.
func (r *InMemoryRepository) CountByAddress(ctx context.Context, address string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, l := range r.leads {
		if l.IPAddress == address {
			count++
		}
	}
	return count, nil
}

// List returns a snapshot of stored leads in insertion order.
func (r *InMemoryRepository) List() []Lead {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Lead, len(r.leads))
	copy(out, r.leads)
	return out
}
