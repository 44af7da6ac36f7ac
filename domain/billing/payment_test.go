package billing_test

import (
	"errors"
	"regexp"
	"strconv"
	"testing"

	"github.com/wisptel/netbill/adapters/random"
	"github.com/wisptel/netbill/domain/billing"
)

func TestParseMethod(t *testing.T) {
	for _, valid := range []string{
		"CASH", "UPI", "CARD", "BANK_TRANSFER", "CHEQUE",
		"PHONEPE", "PAYTM", "GOOGLEPAY", "ONLINE",
	} {
		if _, err := billing.ParseMethod(valid); err != nil {
			t.Errorf("ParseMethod(%q) error = %v", valid, err)
		}
	}

	for _, invalid := range []string{"", "cash", "VENMO", "UPI "} {
		if _, err := billing.ParseMethod(invalid); !errors.Is(err, billing.ErrUnknownMethod) {
			t.Errorf("ParseMethod(%q) error = %v, want ErrUnknownMethod", invalid, err)
		}
	}
}

func TestMethod_Prefix(t *testing.T) {
	tests := []struct {
		method billing.Method
		want   string
	}{
		{billing.MethodCash, "CSH"},
		{billing.MethodPhonePe, "PHNP"},
		{billing.MethodPaytm, "PYTM"},
		{billing.MethodGooglePay, "GPAY"},
		{billing.MethodUPI, "UPI"},
		{billing.MethodBankTransfer, "BNK"},
		{billing.MethodCheque, "CHQ"},
		{billing.MethodCard, "CARD"},
		{billing.MethodOnline, "ONL"},
	}

	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			if got := tt.method.Prefix(); got != tt.want {
				t.Errorf("Prefix() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewReference_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^UPI(\d{6})$`)
	rnd := random.Real{}

	// The six digits are always in [100000, 999999]; no leading zeros.
	for i := 0; i < 200; i++ {
		ref, err := billing.NewReference(billing.MethodUPI, rnd)
		if err != nil {
			t.Fatalf("NewReference() error = %v", err)
		}
		m := pattern.FindStringSubmatch(ref)
		if m == nil {
			t.Fatalf("reference %q does not match UPI\\d{6}", ref)
		}
		n, _ := strconv.Atoi(m[1])
		if n < 100000 || n > 999999 {
			t.Fatalf("reference digits %d out of [100000, 999999]", n)
		}
	}
}

func TestNewReference_Deterministic(t *testing.T) {
	tests := []struct {
		method billing.Method
		raw    uint32
		want   string
	}{
		{billing.MethodUPI, 0, "UPI100000"},
		{billing.MethodCash, 899999, "CSH999999"},
		{billing.MethodPhonePe, 900000, "PHNP100000"},
		{billing.MethodCard, 123456, "CARD223456"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			rnd := random.NewFake().WithUint32(tt.raw)
			got, err := billing.NewReference(tt.method, rnd)
			if err != nil {
				t.Fatalf("NewReference() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("NewReference() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewReference_UnknownMethod(t *testing.T) {
	_, err := billing.NewReference(billing.Method("VENMO"), random.NewFake())
	if !errors.Is(err, billing.ErrUnknownMethod) {
		t.Errorf("error = %v, want ErrUnknownMethod", err)
	}
}
