package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wisptel/netbill/domain/billing"
	"github.com/wisptel/netbill/ports"
)

// PlanStore implements ports.PlanStore with SQLite. Monetary columns are
// stored as decimal strings so amounts round-trip exactly.
type PlanStore struct {
	db *DB
}

// NewPlanStore creates a new SQLite plan store.
func NewPlanStore(db *DB) *PlanStore {
	return &PlanStore{db: db}
}

// Get retrieves a plan by ID.
func (s *PlanStore) Get(ctx context.Context, id string) (billing.Plan, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, base_amount, cgst_rate, sgst_rate, igst_rate
		FROM plans WHERE id = ?
	`, id)
	p, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return billing.Plan{}, ports.ErrNotFound
	}
	return p, err
}

// List returns all plans ordered by base amount.
func (s *PlanStore) List(ctx context.Context) ([]billing.Plan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, base_amount, cgst_rate, sgst_rate, igst_rate
		FROM plans ORDER BY CAST(base_amount AS REAL) ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []billing.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// Create stores a new plan.
func (s *PlanStore) Create(ctx context.Context, p billing.Plan) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO plans (id, name, base_amount, cgst_rate, sgst_rate, igst_rate)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.BaseAmount.String(), p.CGSTRate.String(), p.SGSTRate.String(), p.IGSTRate.String())
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(r rowScanner) (billing.Plan, error) {
	var p billing.Plan
	var base, cgst, sgst, igst string
	if err := r.Scan(&p.ID, &p.Name, &base, &cgst, &sgst, &igst); err != nil {
		return billing.Plan{}, err
	}
	var err error
	if p.BaseAmount, err = parseDecimal("base_amount", base); err != nil {
		return billing.Plan{}, err
	}
	if p.CGSTRate, err = parseDecimal("cgst_rate", cgst); err != nil {
		return billing.Plan{}, err
	}
	if p.SGSTRate, err = parseDecimal("sgst_rate", sgst); err != nil {
		return billing.Plan{}, err
	}
	if p.IGSTRate, err = parseDecimal("igst_rate", igst); err != nil {
		return billing.Plan{}, err
	}
	return p, nil
}

func parseDecimal(column, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("decode %s %q: %w", column, s, err)
	}
	return d, nil
}

// Ensure interface compliance.
var _ ports.PlanStore = (*PlanStore)(nil)
