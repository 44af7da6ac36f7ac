// Package customer provides customer value types.
package customer

import "time"

// Status represents the subscription state of a customer.
type Status string

const (
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusSuspended Status = "suspended"
)

// Customer is a billable subscriber (value type). StateCode is the GST
// state code of the customer's registered address and is required before
// any bill can be computed.
type Customer struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	Address   string
	StateCode string
	PlanID    string
	Status    Status
	Expiry    time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsExpired reports whether the subscription has lapsed as of now.
func (c Customer) IsExpired(now time.Time) bool {
	return !c.Expiry.IsZero() && c.Expiry.Before(now)
}
