// Package settings provides value types for application settings.
// Settings are stored in the database and loaded at runtime.
package settings

import (
	"time"
)

// Setting represents a single configuration setting (immutable value type).
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Settings is a collection of settings with helper methods.
type Settings map[string]string

// Get returns a setting value or empty string if not found.
func (s Settings) Get(key string) string {
	return s[key]
}

// GetOrDefault returns a setting value or the default if not found.
func (s Settings) GetOrDefault(key, defaultValue string) string {
	if v, ok := s[key]; ok && v != "" {
		return v
	}
	return defaultValue
}

// GetBool returns a setting as bool (true if "true", "1", "yes", "on").
func (s Settings) GetBool(key string) bool {
	v := s[key]
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

// Known setting keys (namespaced by category).
const (
	// Company settings (tax registration)
	KeyCompanyName      = "company.name"
	KeyCompanyStateCode = "company.state_code"
	KeyCompanyGSTIN     = "company.gstin"

	// Billing settings
	KeyBillingLegacyPeriodRule = "billing.legacy_period_rule"
	KeyBillingCurrency         = "billing.currency"

	// Receipt settings
	KeyReceiptFooter = "receipt.footer"
)

// Defaults returns default values for settings.
func Defaults() Settings {
	return Settings{
		KeyBillingLegacyPeriodRule: "false",
		KeyBillingCurrency:         "INR",
	}
}

// Merge merges defaults with loaded settings, preferring loaded values.
func Merge(loaded Settings) Settings {
	result := Defaults()
	for k, v := range loaded {
		result[k] = v
	}
	return result
}
