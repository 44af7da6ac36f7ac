package billing

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for billing dates.
const DateLayout = "2006-01-02"

// PeriodMode selects the end-date algorithm.
type PeriodMode int

const (
	// PeriodCalendar is the canonical rule: true calendar-month addition
	// with the day of month clamped to the last valid day of the target
	// month (Jan 31 + 1 month = Feb 28/29, never Mar 2).
	PeriodCalendar PeriodMode = iota

	// PeriodLegacy reproduces the historical rule some old invoices were
	// computed with: a start on the 1st anchors to the last day of the
	// month that completes the period, any other start adds months*30
	// days. Only for reproducing historical invoices; never the default.
	PeriodLegacy
)

// BillingPeriod is a resolved subscription period. EndDate is always
// derived from StartDate and Months, never stored independently.
type BillingPeriod struct {
	StartDate time.Time
	Months    int
	EndDate   time.Time
}

// NewPeriod computes the billing period under the canonical calendar rule.
// This is a PURE function.
func NewPeriod(start time.Time, months int) (BillingPeriod, error) {
	return NewPeriodWithMode(start, months, PeriodCalendar)
}

// NewPeriodWithMode computes the billing period under an explicit mode.
// This is a PURE function.
func NewPeriodWithMode(start time.Time, months int, mode PeriodMode) (BillingPeriod, error) {
	if start.IsZero() {
		return BillingPeriod{}, fmt.Errorf("%w: zero start date", ErrInvalidDate)
	}
	if months < 1 {
		return BillingPeriod{}, fmt.Errorf("%w: months must be >= 1, got %d", ErrInvalidPlan, months)
	}

	var end time.Time
	switch mode {
	case PeriodLegacy:
		end = legacyEndDate(start, months)
	default:
		end = addMonthsClamped(start, months)
	}

	return BillingPeriod{StartDate: start, Months: months, EndDate: end}, nil
}

// ParseDate parses a billing date in DateLayout.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// addMonthsClamped advances t by the given number of calendar months,
// clamping the day of month when the target month is shorter. time.AddDate
// is not used because it normalizes overflow (Jan 31 + 1 month = Mar 2/3).
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month(), t.Location()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// daysIn returns the number of days in a month. Day 0 of the next month
// normalizes back to the last day of this one.
func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// legacyEndDate applies the historical two-branch rule.
func legacyEndDate(start time.Time, months int) time.Time {
	if start.Day() == 1 {
		// Last day of the month that completes `months` whole calendar
		// months counted from the start month.
		y, m, _ := start.Date()
		return time.Date(y, m+time.Month(months), 0,
			start.Hour(), start.Minute(), start.Second(), start.Nanosecond(), start.Location())
	}
	return start.AddDate(0, 0, months*30)
}

// RenewalStart picks the start date for a renewal so that it never begins
// in the past: the later of now and the customer's current expiry.
// This is a PURE function.
func RenewalStart(now, currentExpiry time.Time) time.Time {
	if currentExpiry.After(now) {
		return currentExpiry
	}
	return now
}
