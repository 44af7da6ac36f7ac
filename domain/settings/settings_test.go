package settings_test

import (
	"testing"

	"github.com/wisptel/netbill/domain/settings"
)

func TestSettings_Get(t *testing.T) {
	s := settings.Settings{settings.KeyCompanyStateCode: "KA"}

	if got := s.Get(settings.KeyCompanyStateCode); got != "KA" {
		t.Errorf("Get() = %q, want KA", got)
	}
	if got := s.Get("missing"); got != "" {
		t.Errorf("Get(missing) = %q, want empty", got)
	}
}

func TestSettings_GetOrDefault(t *testing.T) {
	s := settings.Settings{settings.KeyBillingCurrency: "", settings.KeyCompanyName: "WispTel"}

	if got := s.GetOrDefault(settings.KeyCompanyName, "x"); got != "WispTel" {
		t.Errorf("GetOrDefault() = %q, want WispTel", got)
	}
	// Empty value falls through to the default.
	if got := s.GetOrDefault(settings.KeyBillingCurrency, "INR"); got != "INR" {
		t.Errorf("GetOrDefault() = %q, want INR", got)
	}
}

func TestSettings_GetBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"yes", true},
		{"on", true},
		{"false", false},
		{"0", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			s := settings.Settings{settings.KeyBillingLegacyPeriodRule: tt.value}
			if got := s.GetBool(settings.KeyBillingLegacyPeriodRule); got != tt.want {
				t.Errorf("GetBool(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	merged := settings.Merge(settings.Settings{
		settings.KeyCompanyStateCode:        "MH",
		settings.KeyBillingLegacyPeriodRule: "true",
	})

	if got := merged.Get(settings.KeyCompanyStateCode); got != "MH" {
		t.Errorf("loaded value lost: %q", got)
	}
	if !merged.GetBool(settings.KeyBillingLegacyPeriodRule) {
		t.Error("loaded value should override default")
	}
	if got := merged.Get(settings.KeyBillingCurrency); got != "INR" {
		t.Errorf("default not preserved: %q", got)
	}
}
