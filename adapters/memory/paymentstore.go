package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/wisptel/netbill/ports"
)

// PaymentStore is an in-memory implementation of ports.PaymentStore.
type PaymentStore struct {
	mu       sync.RWMutex
	payments map[string]ports.Payment
}

// NewPaymentStore creates a new in-memory payment store.
func NewPaymentStore() *PaymentStore {
	return &PaymentStore{payments: make(map[string]ports.Payment)}
}

// Create stores a new payment. The server-issued ID is the uniqueness key.
func (s *PaymentStore) Create(ctx context.Context, p ports.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.payments[p.ID]; exists {
		return fmt.Errorf("payment %q already exists", p.ID)
	}
	s.payments[p.ID] = p
	return nil
}

// ListByBill returns all payments against a bill, oldest first.
func (s *PaymentStore) ListByBill(ctx context.Context, billID string) ([]ports.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []ports.Payment
	for _, p := range s.payments {
		if p.BillID == billID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Ensure interface compliance.
var _ ports.PaymentStore = (*PaymentStore)(nil)
