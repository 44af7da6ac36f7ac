// Package random provides Random implementations.
package random

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
)

// Real uses crypto/rand for secure randomness. Safe for concurrent use.
type Real struct{}

// Bytes generates n cryptographically secure random bytes.
func (Real) Bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// Fake provides deterministic randomness for testing.
type Fake struct {
	mu     sync.Mutex
	values [][]byte
	index  int
	seed   byte
}

// NewFake creates a fake random source.
func NewFake() *Fake {
	return &Fake{}
}

// WithValues sets preset byte values to return, in order.
func (f *Fake) WithValues(values ...[]byte) *Fake {
	f.values = values
	f.index = 0
	return f
}

// WithUint32 sets preset values returned as 4 big-endian bytes, matching
// how payment references consume randomness.
func (f *Fake) WithUint32(values ...uint32) *Fake {
	bs := make([][]byte, len(values))
	for i, v := range values {
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, v)
		bs[i] = b
	}
	return f.WithValues(bs...)
}

// Bytes returns the next preset value, or deterministic filler once the
// presets run out.
func (f *Fake) Bytes(n int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.index < len(f.values) {
		v := f.values[f.index]
		f.index++
		out := make([]byte, n)
		copy(out, v)
		return out, nil
	}

	f.seed++
	b := make([]byte, n)
	for i := range b {
		b[i] = f.seed + byte(i)
	}
	return b, nil
}
