package billing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Round2 rounds a monetary value to two decimal places (half up).
// Intermediate arithmetic is kept at full precision; rounding happens
// only at totals, so per-month tax fractions never compound.
// This is a PURE function.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// requireNonNegative rejects negative monetary inputs instead of coercing
// them to zero.
func requireNonNegative(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return fmt.Errorf("%w: %s is %s", ErrNegativeAmount, field, d.String())
	}
	return nil
}

// FormatINR formats an amount as rupees with Indian digit grouping
// (1234567.50 -> "₹12,34,567.50").
// This is a PURE function.
func FormatINR(d decimal.Decimal) string {
	d = Round2(d)
	neg := d.IsNegative()
	if neg {
		d = d.Neg()
	}
	s := d.StringFixed(2)
	whole, frac := s[:len(s)-3], s[len(s)-2:]

	grouped := groupIndian(whole)
	if neg {
		return "-₹" + grouped + "." + frac
	}
	return "₹" + grouped + "." + frac
}

// groupIndian inserts commas per the Indian numbering system: the last
// three digits form one group, every two digits after that form another.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	out := digits[len(digits)-3:]
	for len(head) > 2 {
		out = head[len(head)-2:] + "," + out
		head = head[:len(head)-2]
	}
	return head + "," + out
}
