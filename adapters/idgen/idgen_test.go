package idgen_test

import (
	"testing"

	"github.com/wisptel/netbill/adapters/idgen"
)

func TestUUID_New(t *testing.T) {
	g := idgen.UUID{}

	a, b := g.New(), g.New()
	if len(a) != 36 {
		t.Errorf("len = %d, want 36", len(a))
	}
	if a == b {
		t.Error("two UUIDs collided")
	}
}

func TestSequential_New(t *testing.T) {
	g := idgen.NewSequential("pay-")

	if got := g.New(); got != "pay-1" {
		t.Errorf("first = %q, want pay-1", got)
	}
	if got := g.New(); got != "pay-2" {
		t.Errorf("second = %q, want pay-2", got)
	}
}
