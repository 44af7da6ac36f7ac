package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wisptel/netbill/domain/customer"
	"github.com/wisptel/netbill/ports"
)

// CustomerStore is an in-memory implementation of ports.CustomerStore.
type CustomerStore struct {
	mu        sync.RWMutex
	customers map[string]customer.Customer
}

// NewCustomerStore creates a new in-memory customer store.
func NewCustomerStore() *CustomerStore {
	return &CustomerStore{customers: make(map[string]customer.Customer)}
}

// Get retrieves a customer by ID.
func (s *CustomerStore) Get(ctx context.Context, id string) (customer.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[id]
	if !ok {
		return customer.Customer{}, ports.ErrNotFound
	}
	return c, nil
}

// Create stores a new customer.
func (s *CustomerStore) Create(ctx context.Context, c customer.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.customers[c.ID]; exists {
		return fmt.Errorf("customer %q already exists", c.ID)
	}
	s.customers[c.ID] = c
	return nil
}

// UpdateExpiry extends the customer's subscription expiry.
func (s *CustomerStore) UpdateExpiry(ctx context.Context, id string, expiry time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[id]
	if !ok {
		return ports.ErrNotFound
	}
	c.Expiry = expiry
	c.UpdatedAt = time.Now()
	s.customers[id] = c
	return nil
}

// Ensure interface compliance.
var _ ports.CustomerStore = (*CustomerStore)(nil)
