package billing

import (
	"fmt"
	"strings"
)

// Jurisdiction classifies a transaction for GST purposes.
type Jurisdiction string

const (
	// IntraState: customer and company registered in the same state.
	// CGST and SGST apply in equal halves; IGST is zero.
	IntraState Jurisdiction = "intra_state"

	// InterState: customer and company registered in different states.
	// IGST applies as a single rate; CGST and SGST are zero.
	InterState Jurisdiction = "inter_state"
)

// ResolveJurisdiction classifies the transaction by comparing the
// customer's and the company's tax-registration state codes. Pure
// normalized equality, no fuzzy matching. A missing code is an error:
// defaulting a blank code to inter-state would misfile the tax split.
// This is a PURE function.
func ResolveJurisdiction(customerStateCode, companyStateCode string) (Jurisdiction, error) {
	cust := normalizeStateCode(customerStateCode)
	comp := normalizeStateCode(companyStateCode)

	if cust == "" {
		return "", fmt.Errorf("%w: customer state code is empty", ErrMissingJurisdiction)
	}
	if comp == "" {
		return "", fmt.Errorf("%w: company state code is empty", ErrMissingJurisdiction)
	}

	if cust == comp {
		return IntraState, nil
	}
	return InterState, nil
}

// normalizeStateCode trims whitespace and upper-cases a GST state code so
// "ka", " KA " and "KA" compare equal.
func normalizeStateCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
