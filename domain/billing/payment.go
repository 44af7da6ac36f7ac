package billing

import (
	"encoding/binary"
	"fmt"

	"github.com/shopspring/decimal"
)

// Method is a supported payment method.
type Method string

const (
	MethodCash         Method = "CASH"
	MethodUPI          Method = "UPI"
	MethodCard         Method = "CARD"
	MethodBankTransfer Method = "BANK_TRANSFER"
	MethodCheque       Method = "CHEQUE"
	MethodPhonePe      Method = "PHONEPE"
	MethodPaytm        Method = "PAYTM"
	MethodGooglePay    Method = "GOOGLEPAY"
	MethodOnline       Method = "ONLINE"
)

// referencePrefixes maps each method to its fixed reference prefix.
var referencePrefixes = map[Method]string{
	MethodCash:         "CSH",
	MethodPhonePe:      "PHNP",
	MethodPaytm:        "PYTM",
	MethodGooglePay:    "GPAY",
	MethodUPI:          "UPI",
	MethodBankTransfer: "BNK",
	MethodCheque:       "CHQ",
	MethodCard:         "CARD",
	MethodOnline:       "ONL",
}

// ParseMethod validates a payment method string.
func ParseMethod(s string) (Method, error) {
	m := Method(s)
	if _, ok := referencePrefixes[m]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
	return m, nil
}

// Prefix returns the fixed reference prefix for the method.
func (m Method) Prefix() string {
	return referencePrefixes[m]
}

// Random abstracts the randomness source for reference generation.
// Implementations live in adapters/random; production uses crypto/rand.
type Random interface {
	Bytes(n int) ([]byte, error)
}

// NewReference generates a human-readable payment reference: the method
// prefix followed by six random decimal digits in [100000, 999999].
//
// The reference is a receipt-facing label, not a reconciliation key: it
// carries no uniqueness guarantee. The authoritative payment identifier
// is server-issued (see app.BillingService.RecordPayment).
func NewReference(m Method, rnd Random) (string, error) {
	prefix, ok := referencePrefixes[m]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, string(m))
	}

	b, err := rnd.Bytes(4)
	if err != nil {
		return "", fmt.Errorf("payment reference: %w", err)
	}
	n := 100000 + binary.BigEndian.Uint32(b)%900000

	return fmt.Sprintf("%s%d", prefix, n), nil
}

// PaymentRecord is a recorded payment (value type).
type PaymentRecord struct {
	Method    Method
	Reference string
	Amount    decimal.Decimal
	Remarks   string
}
