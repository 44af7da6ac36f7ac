package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/wisptel/netbill/adapters/metrics"
	"github.com/wisptel/netbill/domain/billing"
	"github.com/wisptel/netbill/ports"
)

// BillingService runs the renewal, quoting and payment-recording
// transactions around the pure billing engine. The engine itself holds no
// state; this service owns the I/O and, for writes, serializes renewals
// per customer so two concurrent submissions cannot race.
type BillingService struct {
	plans     ports.PlanStore
	customers ports.CustomerStore
	bills     ports.BillStore
	payments  ports.PaymentStore
	settings  *SettingsService
	clock     ports.Clock
	random    ports.Random
	ids       ports.IDGenerator
	metrics   *metrics.Collector
	logger    zerolog.Logger

	lockMu    sync.Mutex
	custLocks map[string]*sync.Mutex
}

// BillingDeps contains dependencies for the billing service.
type BillingDeps struct {
	Plans     ports.PlanStore
	Customers ports.CustomerStore
	Bills     ports.BillStore
	Payments  ports.PaymentStore
	Settings  *SettingsService
	Clock     ports.Clock
	Random    ports.Random
	IDs       ports.IDGenerator
	Metrics   *metrics.Collector // optional
	Logger    zerolog.Logger
}

// NewBillingService creates a new billing service.
func NewBillingService(deps BillingDeps) *BillingService {
	return &BillingService{
		plans:     deps.Plans,
		customers: deps.Customers,
		bills:     deps.Bills,
		payments:  deps.Payments,
		settings:  deps.Settings,
		clock:     deps.Clock,
		random:    deps.Random,
		ids:       deps.IDs,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		custLocks: make(map[string]*sync.Mutex),
	}
}

// QuoteRequest is the input to a bill computation. StartDate is optional;
// when empty the renewal seed rule applies (the later of today and the
// customer's current expiry, so a renewal never starts in the past).
type QuoteRequest struct {
	CustomerID      string
	PlanID          string
	Months          int
	StartDate       string
	Installation    decimal.Decimal
	SecurityDeposit decimal.Decimal
	Discount        decimal.Decimal
	AmountPaid      decimal.Decimal
}

// Quote is a fully computed bill plus the context it was computed from.
type Quote struct {
	Plan         billing.Plan
	Jurisdiction billing.Jurisdiction
	Period       billing.BillingPeriod
	Bill         billing.Bill
}

// Quote computes a bill without persisting anything. Interactive forms
// call this on every input edit; the computation is re-run from scratch
// each time, never cached.
func (s *BillingService) Quote(ctx context.Context, req QuoteRequest) (Quote, error) {
	q, err := s.compute(ctx, req)
	if err != nil {
		s.countFailure(err)
		return Quote{}, err
	}
	return q, nil
}

// Renew extends a customer's subscription by the quoted period: it
// assembles and reconciles the bill, persists it, and moves the
// customer's expiry to the period end. One renewal per customer at a
// time.
func (s *BillingService) Renew(ctx context.Context, req QuoteRequest) (ports.BillRecord, error) {
	lock := s.customerLock(req.CustomerID)
	lock.Lock()
	defer lock.Unlock()

	q, err := s.compute(ctx, req)
	if err != nil {
		s.countFailure(err)
		return ports.BillRecord{}, err
	}

	rec := ports.BillRecord{
		ID:           s.ids.New(),
		CustomerID:   req.CustomerID,
		PlanID:       q.Plan.ID,
		Jurisdiction: q.Jurisdiction,
		PeriodStart:  q.Period.StartDate,
		PeriodEnd:    q.Period.EndDate,
		Months:       q.Period.Months,
		Bill:         q.Bill,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.bills.Create(ctx, rec); err != nil {
		return ports.BillRecord{}, fmt.Errorf("persist bill: %w", err)
	}
	if err := s.customers.UpdateExpiry(ctx, req.CustomerID, q.Period.EndDate); err != nil {
		return ports.BillRecord{}, fmt.Errorf("update expiry: %w", err)
	}

	if s.metrics != nil {
		s.metrics.BillsAssembled.WithLabelValues(string(q.Jurisdiction)).Inc()
	}
	s.logger.Info().
		Str("bill_id", rec.ID).
		Str("customer_id", rec.CustomerID).
		Str("plan_id", rec.PlanID).
		Int("months", rec.Months).
		Str("total", rec.Bill.TotalAmount.String()).
		Str("balance", rec.Bill.Balance.String()).
		Msg("renewal billed")

	return rec, nil
}

// RecordPaymentRequest is the input to payment recording.
type RecordPaymentRequest struct {
	BillID  string
	Method  string
	Amount  decimal.Decimal
	Remarks string
}

// RecordPayment records a payment against a bill and reconciles the
// bill's balance. The payment gets a server-issued unique ID; the
// method-prefixed reference is a receipt label only.
func (s *BillingService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (ports.Payment, error) {
	method, err := billing.ParseMethod(req.Method)
	if err != nil {
		s.countFailure(err)
		return ports.Payment{}, err
	}
	if req.Amount.IsNegative() {
		err := fmt.Errorf("%w: payment amount is %s", billing.ErrNegativeAmount, req.Amount)
		s.countFailure(err)
		return ports.Payment{}, err
	}

	bill, err := s.bills.Get(ctx, req.BillID)
	if err != nil {
		return ports.Payment{}, fmt.Errorf("load bill: %w", err)
	}

	lock := s.customerLock(bill.CustomerID)
	lock.Lock()
	defer lock.Unlock()

	// Re-read under the lock so concurrent payments reconcile in order.
	bill, err = s.bills.Get(ctx, req.BillID)
	if err != nil {
		return ports.Payment{}, fmt.Errorf("load bill: %w", err)
	}

	reference, err := billing.NewReference(method, s.random)
	if err != nil {
		return ports.Payment{}, err
	}

	payment := ports.Payment{
		ID:         s.ids.New(),
		BillID:     bill.ID,
		CustomerID: bill.CustomerID,
		Record: billing.PaymentRecord{
			Method:    method,
			Reference: reference,
			Amount:    req.Amount,
			Remarks:   req.Remarks,
		},
		CreatedAt: s.clock.Now(),
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return ports.Payment{}, fmt.Errorf("persist payment: %w", err)
	}

	paid := bill.Bill.AmountPaid.Add(req.Amount)
	reconciled, err := billing.Reconcile(bill.Bill, paid)
	if err != nil {
		return ports.Payment{}, err
	}
	if err := s.bills.UpdatePaid(ctx, bill.ID, reconciled.AmountPaid, reconciled.Balance); err != nil {
		return ports.Payment{}, fmt.Errorf("update bill: %w", err)
	}

	if s.metrics != nil {
		s.metrics.PaymentsRecorded.WithLabelValues(string(method)).Inc()
	}
	s.logger.Info().
		Str("payment_id", payment.ID).
		Str("bill_id", bill.ID).
		Str("reference", reference).
		Str("amount", req.Amount.String()).
		Msg("payment recorded")

	return payment, nil
}

// compute runs the pure engine for one transaction: resolve jurisdiction,
// derive the period, assemble the bill, reconcile the balance.
func (s *BillingService) compute(ctx context.Context, req QuoteRequest) (Quote, error) {
	cust, err := s.customers.Get(ctx, req.CustomerID)
	if err != nil {
		return Quote{}, fmt.Errorf("load customer: %w", err)
	}
	plan, err := s.plans.Get(ctx, req.PlanID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return Quote{}, fmt.Errorf("%w: plan %q not found", billing.ErrInvalidPlan, req.PlanID)
		}
		return Quote{}, fmt.Errorf("load plan: %w", err)
	}

	jurisdiction, err := billing.ResolveJurisdiction(cust.StateCode, s.settings.CompanyStateCode())
	if err != nil {
		return Quote{}, err
	}

	start, err := s.resolveStart(req.StartDate, cust.Expiry)
	if err != nil {
		return Quote{}, err
	}
	mode := billing.PeriodCalendar
	if s.settings.LegacyPeriodRule() {
		mode = billing.PeriodLegacy
	}
	period, err := billing.NewPeriodWithMode(start, req.Months, mode)
	if err != nil {
		return Quote{}, err
	}

	bill, err := billing.Assemble(plan, req.Months, jurisdiction, billing.ChargeSet{
		Installation:    req.Installation,
		SecurityDeposit: req.SecurityDeposit,
		Discount:        req.Discount,
	})
	if err != nil {
		return Quote{}, err
	}
	bill, err = billing.Reconcile(bill, req.AmountPaid)
	if err != nil {
		return Quote{}, err
	}

	return Quote{Plan: plan, Jurisdiction: jurisdiction, Period: period, Bill: bill}, nil
}

// resolveStart picks the period start: an explicit date wins, otherwise
// the renewal seed rule (later of now and current expiry).
func (s *BillingService) resolveStart(explicit string, expiry time.Time) (time.Time, error) {
	if explicit != "" {
		return billing.ParseDate(explicit)
	}
	return billing.RenewalStart(s.clock.Now(), expiry), nil
}

// customerLock returns the write lock for a customer, creating it on
// first use.
func (s *BillingService) customerLock(customerID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()

	lock, ok := s.custLocks[customerID]
	if !ok {
		lock = &sync.Mutex{}
		s.custLocks[customerID] = lock
	}
	return lock
}

// countFailure bumps the validation-failure metric for known error kinds.
func (s *BillingService) countFailure(err error) {
	if s.metrics == nil {
		return
	}
	kind := ""
	switch {
	case errors.Is(err, billing.ErrInvalidPlan):
		kind = "invalid_plan"
	case errors.Is(err, billing.ErrMissingJurisdiction):
		kind = "missing_jurisdiction"
	case errors.Is(err, billing.ErrInvalidDate):
		kind = "invalid_date"
	case errors.Is(err, billing.ErrNegativeAmount):
		kind = "negative_amount"
	case errors.Is(err, billing.ErrUnknownMethod):
		kind = "unknown_method"
	default:
		return
	}
	s.metrics.ValidationFailures.WithLabelValues(kind).Inc()
}
