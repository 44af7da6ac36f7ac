package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/wisptel/netbill/app"
	"github.com/wisptel/netbill/domain/billing"
	"github.com/wisptel/netbill/ports"
)

// planResponse is the wire form of a plan.
type planResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	BaseAmount decimal.Decimal `json:"base_amount"`
	CGSTRate   decimal.Decimal `json:"cgst_rate"`
	SGSTRate   decimal.Decimal `json:"sgst_rate"`
	IGSTRate   decimal.Decimal `json:"igst_rate"`
}

func (h *Handler) listPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.plans.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]planResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, planResponse{
			ID:         p.ID,
			Name:       p.Name,
			BaseAmount: p.BaseAmount,
			CGSTRate:   p.CGSTRate,
			SGSTRate:   p.SGSTRate,
			IGSTRate:   p.IGSTRate,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// quoteRequest is the wire form of a bill computation request. Forms
// resubmit it on every relevant input edit.
type quoteRequest struct {
	CustomerID      string          `json:"customer_id"`
	PlanID          string          `json:"plan_id"`
	Months          int             `json:"months"`
	StartDate       string          `json:"start_date,omitempty"`
	Installation    decimal.Decimal `json:"installation_charge"`
	SecurityDeposit decimal.Decimal `json:"security_deposit"`
	Discount        decimal.Decimal `json:"discount"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
}

func (q quoteRequest) toApp() app.QuoteRequest {
	return app.QuoteRequest{
		CustomerID:      q.CustomerID,
		PlanID:          q.PlanID,
		Months:          q.Months,
		StartDate:       q.StartDate,
		Installation:    q.Installation,
		SecurityDeposit: q.SecurityDeposit,
		Discount:        q.Discount,
		AmountPaid:      q.AmountPaid,
	}
}

// billResponse is the wire form of a computed bill.
type billResponse struct {
	BillID          string          `json:"bill_id,omitempty"`
	Jurisdiction    string          `json:"jurisdiction"`
	PeriodStart     string          `json:"period_start"`
	PeriodEnd       string          `json:"period_end"`
	Months          int             `json:"months"`
	PlanAmountTotal decimal.Decimal `json:"plan_amount_total"`
	CGSTTotal       decimal.Decimal `json:"cgst_total"`
	SGSTTotal       decimal.Decimal `json:"sgst_total"`
	IGSTTotal       decimal.Decimal `json:"igst_total"`
	TotalAmount     decimal.Decimal `json:"total_bill_amount"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	Balance         decimal.Decimal `json:"balance"`
}

func quoteResponse(q app.Quote) billResponse {
	return billResponse{
		Jurisdiction:    string(q.Jurisdiction),
		PeriodStart:     q.Period.StartDate.Format(billing.DateLayout),
		PeriodEnd:       q.Period.EndDate.Format(billing.DateLayout),
		Months:          q.Period.Months,
		PlanAmountTotal: q.Bill.PlanAmountTotal,
		CGSTTotal:       q.Bill.CGSTTotal,
		SGSTTotal:       q.Bill.SGSTTotal,
		IGSTTotal:       q.Bill.IGSTTotal,
		TotalAmount:     q.Bill.TotalAmount,
		AmountPaid:      q.Bill.AmountPaid,
		Balance:         q.Bill.Balance,
	}
}

func recordResponse(rec ports.BillRecord) billResponse {
	return billResponse{
		BillID:          rec.ID,
		Jurisdiction:    string(rec.Jurisdiction),
		PeriodStart:     rec.PeriodStart.Format(billing.DateLayout),
		PeriodEnd:       rec.PeriodEnd.Format(billing.DateLayout),
		Months:          rec.Months,
		PlanAmountTotal: rec.Bill.PlanAmountTotal,
		CGSTTotal:       rec.Bill.CGSTTotal,
		SGSTTotal:       rec.Bill.SGSTTotal,
		IGSTTotal:       rec.Bill.IGSTTotal,
		TotalAmount:     rec.Bill.TotalAmount,
		AmountPaid:      rec.Bill.AmountPaid,
		Balance:         rec.Bill.Balance,
	}
}

func (h *Handler) createQuote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("bad_request", "invalid JSON body"))
		return
	}

	quote, err := h.billing.Quote(r.Context(), req.toApp())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quoteResponse(quote))
}

func (h *Handler) createRenewal(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("bad_request", "invalid JSON body"))
		return
	}
	req.CustomerID = chi.URLParam(r, "customerID")

	rec, err := h.billing.Renew(r.Context(), req.toApp())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, recordResponse(rec))
}

func (h *Handler) listBills(w http.ResponseWriter, r *http.Request) {
	records, err := h.bills.ListByCustomer(r.Context(), chi.URLParam(r, "customerID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]billResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, recordResponse(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

// paymentRequest is the wire form of a payment.
type paymentRequest struct {
	Method  string          `json:"method"`
	Amount  decimal.Decimal `json:"amount"`
	Remarks string          `json:"remarks,omitempty"`
}

// paymentResponse is the wire form of a recorded payment.
type paymentResponse struct {
	ID        string          `json:"id"`
	BillID    string          `json:"bill_id"`
	Method    string          `json:"method"`
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"amount"`
	Remarks   string          `json:"remarks,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("bad_request", "invalid JSON body"))
		return
	}

	payment, err := h.billing.RecordPayment(r.Context(), app.RecordPaymentRequest{
		BillID:  chi.URLParam(r, "billID"),
		Method:  req.Method,
		Amount:  req.Amount,
		Remarks: req.Remarks,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, paymentResponse{
		ID:        payment.ID,
		BillID:    payment.BillID,
		Method:    string(payment.Record.Method),
		Reference: payment.Record.Reference,
		Amount:    payment.Record.Amount,
		Remarks:   payment.Record.Remarks,
		CreatedAt: payment.CreatedAt,
	})
}

// listSettings returns every setting, defaults included, for the admin
// console's tax-setup form.
func (h *Handler) listSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.settings.All())
}

type settingRequest struct {
	Value string `json:"value"`
}

func (h *Handler) putSetting(w http.ResponseWriter, r *http.Request) {
	var req settingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("bad_request", "invalid JSON body"))
		return
	}

	key := chi.URLParam(r, "key")
	if err := h.settings.Set(r.Context(), key, req.Value); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": req.Value})
}

// writeError maps engine errors to HTTP status codes. Validation errors
// surface to the user as 422 with the error kind; they are never
// silently defaulted away.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, billing.ErrInvalidPlan):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("invalid_plan", err.Error()))
	case errors.Is(err, billing.ErrMissingJurisdiction):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("missing_jurisdiction", err.Error()))
	case errors.Is(err, billing.ErrInvalidDate):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("invalid_date", err.Error()))
	case errors.Is(err, billing.ErrNegativeAmount):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("negative_amount", err.Error()))
	case errors.Is(err, billing.ErrUnknownMethod):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("unknown_method", err.Error()))
	case errors.Is(err, ports.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not_found", err.Error()))
	default:
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorBody("internal", "internal error"))
	}
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func errorBody(code, message string) apiError {
	return apiError{Error: code, Message: message}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
