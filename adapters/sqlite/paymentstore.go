package sqlite

import (
	"context"

	"github.com/wisptel/netbill/domain/billing"
	"github.com/wisptel/netbill/ports"
)

// PaymentStore implements ports.PaymentStore with SQLite.
type PaymentStore struct {
	db *DB
}

// NewPaymentStore creates a new SQLite payment store.
func NewPaymentStore(db *DB) *PaymentStore {
	return &PaymentStore{db: db}
}

// Create stores a new payment. The primary key is the server-issued ID,
// not the human-readable reference.
func (s *PaymentStore) Create(ctx context.Context, p ports.Payment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payments (id, bill_id, customer_id, method, reference, amount, remarks, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.BillID, p.CustomerID, string(p.Record.Method), p.Record.Reference,
		p.Record.Amount.String(), p.Record.Remarks, p.CreatedAt)
	return err
}

// ListByBill returns all payments against a bill, oldest first.
func (s *PaymentStore) ListByBill(ctx context.Context, billID string) ([]ports.Payment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, bill_id, customer_id, method, reference, amount, remarks, created_at
		FROM payments WHERE bill_id = ? ORDER BY created_at ASC
	`, billID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []ports.Payment
	for rows.Next() {
		var p ports.Payment
		var method, amount string
		if err := rows.Scan(&p.ID, &p.BillID, &p.CustomerID, &method,
			&p.Record.Reference, &amount, &p.Record.Remarks, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Record.Method = billing.Method(method)
		d, err := parseDecimal("amount", amount)
		if err != nil {
			return nil, err
		}
		p.Record.Amount = d
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// Ensure interface compliance.
var _ ports.PaymentStore = (*PaymentStore)(nil)
