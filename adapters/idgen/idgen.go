// Package idgen provides ID generation implementations.
package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/wisptel/netbill/ports"
)

// UUID generates UUIDs. Payments and bills use these as their
// authoritative identifiers; the human-readable payment reference is a
// label only.
type UUID struct{}

// New generates a new UUID v4.
func (UUID) New() string {
	return uuid.New().String()
}

// Ensure interface compliance.
var _ ports.IDGenerator = UUID{}

// Sequential generates sequential IDs (for testing).
type Sequential struct {
	prefix  string
	counter uint64
}

// NewSequential creates a sequential ID generator.
func NewSequential(prefix string) *Sequential {
	return &Sequential{prefix: prefix}
}

// New generates the next sequential ID.
func (s *Sequential) New() string {
	return fmt.Sprintf("%s%d", s.prefix, atomic.AddUint64(&s.counter, 1))
}

// Ensure interface compliance.
var _ ports.IDGenerator = (*Sequential)(nil)
