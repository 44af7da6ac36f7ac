// Package memory provides in-memory implementations of storage ports,
// used by tests and dev mode.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/wisptel/netbill/domain/billing"
	"github.com/wisptel/netbill/ports"
)

// PlanStore is an in-memory implementation of ports.PlanStore.
type PlanStore struct {
	mu    sync.RWMutex
	plans map[string]billing.Plan
	order []string
}

// NewPlanStore creates a new in-memory plan store.
func NewPlanStore() *PlanStore {
	return &PlanStore{plans: make(map[string]billing.Plan)}
}

// Get retrieves a plan by ID.
func (s *PlanStore) Get(ctx context.Context, id string) (billing.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.plans[id]
	if !ok {
		return billing.Plan{}, ports.ErrNotFound
	}
	return p, nil
}

// List returns all plans in insertion order.
func (s *PlanStore) List(ctx context.Context) ([]billing.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]billing.Plan, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.plans[id])
	}
	return out, nil
}

// Create stores a new plan.
func (s *PlanStore) Create(ctx context.Context, p billing.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.plans[p.ID]; exists {
		return fmt.Errorf("plan %q already exists", p.ID)
	}
	s.plans[p.ID] = p
	s.order = append(s.order, p.ID)
	return nil
}

// Ensure interface compliance.
var _ ports.PlanStore = (*PlanStore)(nil)
