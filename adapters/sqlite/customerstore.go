package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/wisptel/netbill/domain/customer"
	"github.com/wisptel/netbill/ports"
)

// CustomerStore implements ports.CustomerStore with SQLite.
type CustomerStore struct {
	db *DB
}

// NewCustomerStore creates a new SQLite customer store.
func NewCustomerStore(db *DB) *CustomerStore {
	return &CustomerStore{db: db}
}

// Get retrieves a customer by ID.
func (s *CustomerStore) Get(ctx context.Context, id string) (customer.Customer, error) {
	var c customer.Customer
	var status string
	var expiry sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, phone, email, address, state_code, plan_id, status,
		       expiry, created_at, updated_at
		FROM customers WHERE id = ?
	`, id).Scan(
		&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.StateCode,
		&c.PlanID, &status, &expiry, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return customer.Customer{}, ports.ErrNotFound
	}
	if err != nil {
		return customer.Customer{}, err
	}
	c.Status = customer.Status(status)
	if expiry.Valid {
		c.Expiry = expiry.Time
	}
	return c, nil
}

// Create stores a new customer.
func (s *CustomerStore) Create(ctx context.Context, c customer.Customer) error {
	var expiry any
	if !c.Expiry.IsZero() {
		expiry = c.Expiry
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, phone, email, address, state_code, plan_id, status, expiry)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.Phone, c.Email, c.Address, c.StateCode, c.PlanID, string(c.Status), expiry)
	return err
}

// UpdateExpiry extends the customer's subscription expiry.
func (s *CustomerStore) UpdateExpiry(ctx context.Context, id string, expiry time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE customers SET expiry = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, expiry, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// Ensure interface compliance.
var _ ports.CustomerStore = (*CustomerStore)(nil)
