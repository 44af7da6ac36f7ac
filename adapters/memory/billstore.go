package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/wisptel/netbill/ports"
)

// BillStore is an in-memory implementation of ports.BillStore.
type BillStore struct {
	mu    sync.RWMutex
	bills map[string]ports.BillRecord
}

// NewBillStore creates a new in-memory bill store.
func NewBillStore() *BillStore {
	return &BillStore{bills: make(map[string]ports.BillRecord)}
}

// Create stores a new bill.
func (s *BillStore) Create(ctx context.Context, b ports.BillRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bills[b.ID]; exists {
		return fmt.Errorf("bill %q already exists", b.ID)
	}
	s.bills[b.ID] = b
	return nil
}

// Get retrieves a bill by ID.
func (s *BillStore) Get(ctx context.Context, id string) (ports.BillRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bills[id]
	if !ok {
		return ports.BillRecord{}, ports.ErrNotFound
	}
	return b, nil
}

// ListByCustomer returns all bills for a customer, newest first.
func (s *BillStore) ListByCustomer(ctx context.Context, customerID string) ([]ports.BillRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []ports.BillRecord
	for _, b := range s.bills {
		if b.CustomerID == customerID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// UpdatePaid sets the paid amount and balance after a payment.
func (s *BillStore) UpdatePaid(ctx context.Context, id string, amountPaid, balance decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bills[id]
	if !ok {
		return ports.ErrNotFound
	}
	b.Bill.AmountPaid = amountPaid
	b.Bill.Balance = balance
	s.bills[id] = b
	return nil
}

// Ensure interface compliance.
var _ ports.BillStore = (*BillStore)(nil)
