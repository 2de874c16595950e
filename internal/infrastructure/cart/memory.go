package cart

import (
	"context"
	"sync"
	"time"

	"github.com/adega/backend/internal/domain"
	"github.com/adega/backend/internal/metrics"
)

// DefaultTTL is how long an idle cart survives
const DefaultTTL = 24 * time.Hour

// cartEntry is one cart's quantities with its insertion order and last access time
type cartEntry struct {
	quantities map[string]int
	order      []string
	lastAccess time.Time
}

func newCartEntry() *cartEntry {
	return &cartEntry{quantities: make(map[string]int)}
}

func (e *cartEntry) set(itemID string, qty int) {
	if _, exists := e.quantities[itemID]; !exists {
		e.order = append(e.order, itemID)
	}
	e.quantities[itemID] = qty
}

func (e *cartEntry) remove(itemID string) {
	if _, exists := e.quantities[itemID]; !exists {
		return
	}
	delete(e.quantities, itemID)
	for i, id := range e.order {
		if id == itemID {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
}

// MemoryStore is a thread-safe in-memory cart store with lazy TTL expiry.
// There is no background sweeper: every operation first purges all expired
// carts under the same lock as its own read or write.
type MemoryStore struct {
	carts map[string]*cartEntry
	ttl   time.Duration
	now   func() time.Time
	mutex sync.Mutex
}

// NewMemoryStore creates a new in-memory cart store; ttl <= 0 uses DefaultTTL
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		carts: make(map[string]*cartEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Apply upserts items into the cart, creating it if needed. Qty 0 deletes the
// item and is reported as removed; any other qty overwrites. Each processed line
// refreshes the access time, and an empty cart is dropped at the end.
func (s *MemoryStore) Apply(ctx context.Context, cartID string, items []domain.CartItemInput) ([]domain.CartItemOutcome, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	s.purgeExpired(now)

	entry, exists := s.carts[cartID]
	if !exists {
		entry = newCartEntry()
		s.carts[cartID] = entry
	}

	outcomes := make([]domain.CartItemOutcome, 0, len(items))
	for _, item := range items {
		if item.Qty == 0 {
			entry.remove(item.ItemPlatformID)
			outcomes = append(outcomes, domain.CartItemOutcome{
				ItemPlatformID: item.ItemPlatformID,
				Qty:            item.Qty,
				Removed:        true,
			})
		} else {
			entry.set(item.ItemPlatformID, item.Qty)
			outcomes = append(outcomes, domain.CartItemOutcome{
				ItemPlatformID: item.ItemPlatformID,
				Qty:            item.Qty,
			})
		}
		entry.lastAccess = now
	}

	if len(entry.quantities) == 0 {
		delete(s.carts, cartID)
	}

	metrics.SetActiveCarts(len(s.carts))
	return outcomes, nil
}

// Snapshot refreshes the cart's access time and returns its quantities in insertion order
func (s *MemoryStore) Snapshot(ctx context.Context, cartID string) ([]domain.CartQuantity, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	s.purgeExpired(now)

	entry, exists := s.carts[cartID]
	if !exists {
		return nil, domain.ErrCartNotFound
	}
	entry.lastAccess = now

	quantities := make([]domain.CartQuantity, 0, len(entry.order))
	for _, itemID := range entry.order {
		quantities = append(quantities, domain.CartQuantity{
			ItemPlatformID: itemID,
			Qty:            entry.quantities[itemID],
		})
	}
	return quantities, nil
}

// purgeExpired drops every cart idle for at least the TTL. Callers hold the mutex.
func (s *MemoryStore) purgeExpired(now time.Time) {
	expired := 0
	for id, entry := range s.carts {
		if !entry.lastAccess.Add(s.ttl).After(now) {
			delete(s.carts, id)
			expired++
		}
	}
	if expired > 0 {
		metrics.AddExpiredCarts(expired)
		metrics.SetActiveCarts(len(s.carts))
	}
}

// Len returns the number of carts currently held, expired or not (for monitoring)
func (s *MemoryStore) Len() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.carts)
}
