package web_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/wisptel/netbill/adapters/clock"
	"github.com/wisptel/netbill/adapters/idgen"
	"github.com/wisptel/netbill/adapters/memory"
	"github.com/wisptel/netbill/adapters/random"
	"github.com/wisptel/netbill/app"
	"github.com/wisptel/netbill/domain/billing"
	"github.com/wisptel/netbill/domain/customer"
	"github.com/wisptel/netbill/domain/settings"
	"github.com/wisptel/netbill/web"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	logger := zerolog.Nop()

	plans := memory.NewPlanStore()
	if err := plans.Create(ctx, billing.Plan{
		ID:         "fiber-500",
		Name:       "Fiber 500",
		BaseAmount: dec("500"),
		CGSTRate:   dec("9"),
		SGSTRate:   dec("9"),
		IGSTRate:   dec("18"),
	}); err != nil {
		t.Fatal(err)
	}

	customers := memory.NewCustomerStore()
	if err := customers.Create(ctx, customer.Customer{
		ID:        "cust-1",
		Name:      "Asha Rao",
		StateCode: "KA",
		Status:    customer.StatusActive,
	}); err != nil {
		t.Fatal(err)
	}

	settingsSvc := app.NewSettingsService(memory.NewSettingsStore(), logger)
	if err := settingsSvc.Set(ctx, settings.KeyCompanyStateCode, "KA"); err != nil {
		t.Fatal(err)
	}

	bills := memory.NewBillStore()
	billingSvc := app.NewBillingService(app.BillingDeps{
		Plans:     plans,
		Customers: customers,
		Bills:     bills,
		Payments:  memory.NewPaymentStore(),
		Settings:  settingsSvc,
		Clock:     clock.NewFake(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)),
		Random:    random.NewFake().WithUint32(23456),
		IDs:       idgen.NewSequential("id-"),
		Logger:    logger,
	})

	handler := web.New(web.Deps{
		Billing:  billingSvc,
		Settings: settingsSvc,
		Plans:    plans,
		Bills:    bills,
		Logger:   logger,
	})

	srv := httptest.NewServer(handler.Router())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, decoded
}

func TestCreateQuote(t *testing.T) {
	srv := newServer(t)

	resp, body := postJSON(t, srv.URL+"/v1/quotes", `{
		"customer_id": "cust-1",
		"plan_id": "fiber-500",
		"months": 3,
		"start_date": "2024-04-01",
		"installation_charge": 100,
		"security_deposit": 200,
		"discount": 50,
		"amount_paid": 1000
	}`)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%v)", resp.StatusCode, body)
	}
	if body["jurisdiction"] != "intra_state" {
		t.Errorf("jurisdiction = %v", body["jurisdiction"])
	}
	if body["total_bill_amount"] != "2020.00" && body["total_bill_amount"] != "2020" {
		t.Errorf("total = %v, want 2020.00", body["total_bill_amount"])
	}
	if body["balance"] != "1020.00" && body["balance"] != "1020" {
		t.Errorf("balance = %v, want 1020.00", body["balance"])
	}
	if body["period_end"] != "2024-07-01" {
		t.Errorf("period_end = %v, want 2024-07-01", body["period_end"])
	}
}

func TestCreateQuote_ValidationError(t *testing.T) {
	srv := newServer(t)

	resp, body := postJSON(t, srv.URL+"/v1/quotes", `{
		"customer_id": "cust-1",
		"plan_id": "fiber-500",
		"months": 1,
		"start_date": "2024-04-01",
		"discount": -50
	}`)

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	if body["error"] != "negative_amount" {
		t.Errorf("error = %v, want negative_amount", body["error"])
	}
}

func TestCreateQuote_BadJSON(t *testing.T) {
	srv := newServer(t)

	resp, body := postJSON(t, srv.URL+"/v1/quotes", `{not json`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (%v)", resp.StatusCode, body)
	}
}

func TestRenewalAndPayment(t *testing.T) {
	srv := newServer(t)

	resp, bill := postJSON(t, srv.URL+"/v1/customers/cust-1/renewals", `{
		"plan_id": "fiber-500",
		"months": 3,
		"start_date": "2024-04-01",
		"installation_charge": 100,
		"security_deposit": 200,
		"discount": 50,
		"amount_paid": 1000
	}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("renewal status = %d (%v)", resp.StatusCode, bill)
	}
	billID, _ := bill["bill_id"].(string)
	if billID == "" {
		t.Fatal("renewal response missing bill_id")
	}

	resp, payment := postJSON(t, srv.URL+"/v1/bills/"+billID+"/payments", `{
		"method": "UPI",
		"amount": 500,
		"remarks": "counter payment"
	}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("payment status = %d (%v)", resp.StatusCode, payment)
	}
	if payment["reference"] != "UPI123456" {
		t.Errorf("reference = %v, want UPI123456", payment["reference"])
	}

	// Bill list reflects the reconciled balance.
	listResp, err := http.Get(srv.URL + "/v1/customers/cust-1/bills")
	if err != nil {
		t.Fatal(err)
	}
	defer listResp.Body.Close()
	var bills []map[string]any
	if err := json.NewDecoder(listResp.Body).Decode(&bills); err != nil {
		t.Fatal(err)
	}
	if len(bills) != 1 {
		t.Fatalf("listed %d bills, want 1", len(bills))
	}
	if bills[0]["balance"] != "520.00" && bills[0]["balance"] != "520" {
		t.Errorf("balance = %v, want 520.00", bills[0]["balance"])
	}
}

func TestRecordPayment_UnknownMethod(t *testing.T) {
	srv := newServer(t)

	resp, bill := postJSON(t, srv.URL+"/v1/customers/cust-1/renewals", `{
		"plan_id": "fiber-500", "months": 1, "start_date": "2024-04-01"
	}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("renewal status = %d (%v)", resp.StatusCode, bill)
	}
	billID := bill["bill_id"].(string)

	resp, body := postJSON(t, srv.URL+"/v1/bills/"+billID+"/payments", `{
		"method": "VENMO", "amount": 100
	}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	if body["error"] != "unknown_method" {
		t.Errorf("error = %v, want unknown_method", body["error"])
	}
}

func TestListPlans(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Get(srv.URL + "/v1/plans")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var plans []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&plans); err != nil {
		t.Fatal(err)
	}
	if len(plans) != 1 || plans[0]["id"] != "fiber-500" {
		t.Errorf("plans = %v", plans)
	}
}

func TestSettings(t *testing.T) {
	srv := newServer(t)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/v1/settings/company.gstin",
		strings.NewReader(`{"value": "29ABCDE1234F1Z5"}`))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	putResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	putResp.Body.Close()
	if putResp.StatusCode != http.StatusOK {
		t.Fatalf("put status = %d, want 200", putResp.StatusCode)
	}

	resp, err := http.Get(srv.URL + "/v1/settings")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var all map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&all); err != nil {
		t.Fatal(err)
	}
	if all["company.gstin"] != "29ABCDE1234F1Z5" {
		t.Errorf("gstin = %q", all["company.gstin"])
	}
	if all["company.state_code"] != "KA" {
		t.Errorf("state code = %q, want seeded KA", all["company.state_code"])
	}
	// Defaults show up alongside stored values.
	if all["billing.currency"] != "INR" {
		t.Errorf("currency = %q, want INR", all["billing.currency"])
	}
}

func TestHealthz(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
