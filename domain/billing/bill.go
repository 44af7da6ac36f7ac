// Package billing is the subscription billing and renewal computation
// engine: period arithmetic, GST jurisdiction resolution, bill assembly,
// balance reconciliation, and payment reference generation. Everything in
// this package is a pure function over caller-supplied snapshots; the
// engine holds no state, performs no I/O, and is safe for concurrent use.
package billing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Plan is the immutable pricing reference a bill is computed from.
// BaseAmount is per month; the rates are percentages, applied mutually
// exclusively depending on jurisdiction.
type Plan struct {
	ID         string
	Name       string
	BaseAmount decimal.Decimal
	CGSTRate   decimal.Decimal
	SGSTRate   decimal.Decimal
	IGSTRate   decimal.Decimal
}

// ChargeSet holds the flat one-time amounts of a transaction. None of
// these scale with the number of months: a deposit or a discount applies
// once per renewal, not once per month.
type ChargeSet struct {
	Installation    decimal.Decimal
	SecurityDeposit decimal.Decimal
	Discount        decimal.Decimal
}

// Bill is a fully priced renewal transaction (value type).
type Bill struct {
	PlanAmountTotal decimal.Decimal
	CGSTTotal       decimal.Decimal
	SGSTTotal       decimal.Decimal
	IGSTTotal       decimal.Decimal
	TotalAmount     decimal.Decimal
	AmountPaid      decimal.Decimal
	Balance         decimal.Decimal
}

// Assemble prices a billing period: plan amount scaled by months, the GST
// split for the resolved jurisdiction, plus one-time charges minus the
// discount. Rounding to two decimals happens only at the totals.
// AmountPaid and Balance are left zero; see Reconcile.
// This is a PURE function.
func Assemble(plan Plan, months int, j Jurisdiction, charges ChargeSet) (Bill, error) {
	if plan.ID == "" {
		return Bill{}, fmt.Errorf("%w: no plan selected", ErrInvalidPlan)
	}
	if !plan.BaseAmount.IsPositive() {
		return Bill{}, fmt.Errorf("%w: base amount %s is not positive", ErrInvalidPlan, plan.BaseAmount)
	}
	if months < 1 {
		return Bill{}, fmt.Errorf("%w: months must be >= 1, got %d", ErrInvalidPlan, months)
	}
	for _, r := range []struct {
		name string
		rate decimal.Decimal
	}{
		{"cgst_rate", plan.CGSTRate},
		{"sgst_rate", plan.SGSTRate},
		{"igst_rate", plan.IGSTRate},
	} {
		if r.rate.IsNegative() {
			return Bill{}, fmt.Errorf("%w: %s is %s", ErrInvalidPlan, r.name, r.rate)
		}
	}
	if err := charges.validate(); err != nil {
		return Bill{}, err
	}

	n := decimal.NewFromInt(int64(months))
	planTotal := plan.BaseAmount.Mul(n)

	var cgst, sgst, igst decimal.Decimal
	switch j {
	case IntraState:
		cgst = taxShare(plan.BaseAmount, plan.CGSTRate, n)
		sgst = taxShare(plan.BaseAmount, plan.SGSTRate, n)
	case InterState:
		igst = taxShare(plan.BaseAmount, plan.IGSTRate, n)
	default:
		return Bill{}, fmt.Errorf("%w: jurisdiction not resolved", ErrMissingJurisdiction)
	}

	total := planTotal.Add(cgst).Add(sgst).Add(igst).
		Add(charges.Installation).
		Add(charges.SecurityDeposit).
		Sub(charges.Discount)

	return Bill{
		PlanAmountTotal: Round2(planTotal),
		CGSTTotal:       Round2(cgst),
		SGSTTotal:       Round2(sgst),
		IGSTTotal:       Round2(igst),
		TotalAmount:     Round2(total),
	}, nil
}

// Reconcile fills in the payment side of an assembled bill. The balance
// may be negative (overpayment) and is never clamped to zero; accounting
// needs to see the credit. Callers re-run this whenever any upstream
// input changes; nothing is cached.
// This is a PURE function.
func Reconcile(b Bill, amountPaid decimal.Decimal) (Bill, error) {
	if err := requireNonNegative("amount_paid", amountPaid); err != nil {
		return Bill{}, err
	}
	b.AmountPaid = amountPaid
	b.Balance = Round2(b.TotalAmount.Sub(amountPaid))
	return b, nil
}

// taxShare is base * rate% * months at full precision.
func taxShare(base, ratePct, months decimal.Decimal) decimal.Decimal {
	return base.Mul(ratePct).Div(decimal.NewFromInt(100)).Mul(months)
}

func (c ChargeSet) validate() error {
	if err := requireNonNegative("installation_charge", c.Installation); err != nil {
		return err
	}
	if err := requireNonNegative("security_deposit", c.SecurityDeposit); err != nil {
		return err
	}
	return requireNonNegative("discount", c.Discount)
}
