// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wisptel/netbill/domain/billing"
	"github.com/wisptel/netbill/domain/customer"
	"github.com/wisptel/netbill/domain/settings"
)

// ErrNotFound is returned by stores when an entity does not exist.
var ErrNotFound = errors.New("not found")

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// Random abstracts randomness for testability.
type Random interface {
	// Bytes generates n random bytes.
	Bytes(n int) ([]byte, error)
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// -----------------------------------------------------------------------------
// Data Store Ports
// -----------------------------------------------------------------------------

// PlanStore persists subscription plans.
type PlanStore interface {
	// Get retrieves a plan by ID.
	Get(ctx context.Context, id string) (billing.Plan, error)

	// List returns all plans.
	List(ctx context.Context) ([]billing.Plan, error)

	// Create stores a new plan.
	Create(ctx context.Context, p billing.Plan) error
}

// CustomerStore persists customers.
type CustomerStore interface {
	// Get retrieves a customer by ID.
	Get(ctx context.Context, id string) (customer.Customer, error)

	// Create stores a new customer.
	Create(ctx context.Context, c customer.Customer) error

	// UpdateExpiry extends the customer's subscription expiry.
	UpdateExpiry(ctx context.Context, id string, expiry time.Time) error
}

// BillRecord is a persisted bill: the computed amounts plus the
// transaction context they were computed from.
type BillRecord struct {
	ID           string
	CustomerID   string
	PlanID       string
	Jurisdiction billing.Jurisdiction
	PeriodStart  time.Time
	PeriodEnd    time.Time
	Months       int
	Bill         billing.Bill
	CreatedAt    time.Time
}

// BillStore persists bills.
type BillStore interface {
	// Create stores a new bill.
	Create(ctx context.Context, b BillRecord) error

	// Get retrieves a bill by ID.
	Get(ctx context.Context, id string) (BillRecord, error)

	// ListByCustomer returns all bills for a customer, newest first.
	ListByCustomer(ctx context.Context, customerID string) ([]BillRecord, error)

	// UpdatePaid sets the paid amount and balance after a payment.
	UpdatePaid(ctx context.Context, id string, amountPaid, balance decimal.Decimal) error
}

// Payment is a persisted payment. ID is server-issued and unique; the
// human-readable Record.Reference is not.
type Payment struct {
	ID         string
	BillID     string
	CustomerID string
	Record     billing.PaymentRecord
	CreatedAt  time.Time
}

// PaymentStore persists payments.
type PaymentStore interface {
	// Create stores a new payment.
	Create(ctx context.Context, p Payment) error

	// ListByBill returns all payments against a bill, oldest first.
	ListByBill(ctx context.Context, billID string) ([]Payment, error)
}

// SettingsStore persists application settings.
type SettingsStore interface {
	// GetAll retrieves all settings.
	GetAll(ctx context.Context) (settings.Settings, error)

	// Set stores a setting.
	Set(ctx context.Context, key, value string) error
}
