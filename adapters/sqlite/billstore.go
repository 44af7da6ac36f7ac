package sqlite

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/wisptel/netbill/domain/billing"
	"github.com/wisptel/netbill/ports"
)

// BillStore implements ports.BillStore with SQLite.
type BillStore struct {
	db *DB
}

// NewBillStore creates a new SQLite bill store.
func NewBillStore(db *DB) *BillStore {
	return &BillStore{db: db}
}

// Create stores a new bill.
func (s *BillStore) Create(ctx context.Context, b ports.BillRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bills (id, customer_id, plan_id, jurisdiction, period_start, period_end,
		                   months, plan_amount_total, cgst_total, sgst_total, igst_total,
		                   total_amount, amount_paid, balance, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.CustomerID, b.PlanID, string(b.Jurisdiction), b.PeriodStart, b.PeriodEnd,
		b.Months, b.Bill.PlanAmountTotal.String(), b.Bill.CGSTTotal.String(),
		b.Bill.SGSTTotal.String(), b.Bill.IGSTTotal.String(), b.Bill.TotalAmount.String(),
		b.Bill.AmountPaid.String(), b.Bill.Balance.String(), b.CreatedAt)
	return err
}

// Get retrieves a bill by ID.
func (s *BillStore) Get(ctx context.Context, id string) (ports.BillRecord, error) {
	row := s.db.QueryRowContext(ctx, billSelect+` WHERE id = ?`, id)
	b, err := scanBill(row)
	if err == sql.ErrNoRows {
		return ports.BillRecord{}, ports.ErrNotFound
	}
	return b, err
}

// ListByCustomer returns all bills for a customer, newest first.
func (s *BillStore) ListByCustomer(ctx context.Context, customerID string) ([]ports.BillRecord, error) {
	rows, err := s.db.QueryContext(ctx, billSelect+` WHERE customer_id = ? ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []ports.BillRecord
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

// UpdatePaid sets the paid amount and balance after a payment.
func (s *BillStore) UpdatePaid(ctx context.Context, id string, amountPaid, balance decimal.Decimal) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE bills SET amount_paid = ?, balance = ? WHERE id = ?
	`, amountPaid.String(), balance.String(), id)
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

const billSelect = `
	SELECT id, customer_id, plan_id, jurisdiction, period_start, period_end, months,
	       plan_amount_total, cgst_total, sgst_total, igst_total,
	       total_amount, amount_paid, balance, created_at
	FROM bills`

func scanBill(r rowScanner) (ports.BillRecord, error) {
	var b ports.BillRecord
	var jurisdiction string
	var planTotal, cgst, sgst, igst, total, paid, balance string
	if err := r.Scan(
		&b.ID, &b.CustomerID, &b.PlanID, &jurisdiction, &b.PeriodStart, &b.PeriodEnd,
		&b.Months, &planTotal, &cgst, &sgst, &igst, &total, &paid, &balance, &b.CreatedAt,
	); err != nil {
		return ports.BillRecord{}, err
	}
	b.Jurisdiction = billing.Jurisdiction(jurisdiction)

	cols := []struct {
		name string
		dst  *decimal.Decimal
		raw  string
	}{
		{"plan_amount_total", &b.Bill.PlanAmountTotal, planTotal},
		{"cgst_total", &b.Bill.CGSTTotal, cgst},
		{"sgst_total", &b.Bill.SGSTTotal, sgst},
		{"igst_total", &b.Bill.IGSTTotal, igst},
		{"total_amount", &b.Bill.TotalAmount, total},
		{"amount_paid", &b.Bill.AmountPaid, paid},
		{"balance", &b.Bill.Balance, balance},
	}
	for _, c := range cols {
		d, err := parseDecimal(c.name, c.raw)
		if err != nil {
			return ports.BillRecord{}, err
		}
		*c.dst = d
	}
	return b, nil
}

// Ensure interface compliance.
var _ ports.BillStore = (*BillStore)(nil)
