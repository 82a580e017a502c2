package billing

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Store keeps one working cart per authenticated user. Each cart is owned by
// a single interactive session and is itself unlocked; the mutex only guards
// the registry map against concurrent requests from different users.
type Store struct {
	mu      sync.Mutex
	catalog *Catalog
	taxRate decimal.Decimal
	carts   map[string]*Cart
}

func NewStore(catalog *Catalog, taxRate decimal.Decimal) *Store {
	return &Store{
		catalog: catalog,
		taxRate: taxRate,
		carts:   make(map[string]*Cart),
	}
}

// Get returns the user's working cart, creating an empty one on first use.
func (s *Store) Get(userID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[userID]
	if !ok {
		cart = NewCart(s.catalog, s.taxRate)
		s.carts[userID] = cart
	}
	return cart
}

// Reset discards the user's cart. The next Get starts a fresh bill with a
// fresh line-id sequence.
func (s *Store) Reset(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}
