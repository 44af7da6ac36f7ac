package billing

import "errors"

// Validation errors surfaced by the billing computations. All of them are
// raised synchronously to the caller; nothing here is retryable.
var (
	// ErrInvalidPlan indicates a missing plan, a non-positive base amount,
	// or a period shorter than one month.
	ErrInvalidPlan = errors.New("invalid plan")

	// ErrMissingJurisdiction indicates the customer or company state code
	// was absent when the tax jurisdiction had to be resolved. Billing must
	// never silently assume inter-state.
	ErrMissingJurisdiction = errors.New("missing tax jurisdiction")

	// ErrInvalidDate indicates an unparseable or zero start date.
	ErrInvalidDate = errors.New("invalid date")

	// ErrNegativeAmount indicates a monetary input (discount, charge,
	// amount paid) was supplied as negative. Negative inputs are rejected,
	// never coerced to zero.
	ErrNegativeAmount = errors.New("negative amount")

	// ErrUnknownMethod indicates an unrecognised payment method.
	ErrUnknownMethod = errors.New("unknown payment method")
)
