package billing_test

import (
	"errors"
	"testing"
	"testing/quick"
	"time"

	"github.com/wisptel/netbill/domain/billing"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewPeriod_CalendarRule(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{"mid month plus one", date(2024, time.March, 15), 1, date(2024, time.April, 15)},
		{"first of month plus one", date(2024, time.March, 1), 1, date(2024, time.April, 1)},
		{"leap year clamp", date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{"non leap clamp", date(2023, time.January, 31), 1, date(2023, time.February, 28)},
		{"31st to 30 day month", date(2024, time.March, 31), 1, date(2024, time.April, 30)},
		{"clamp only when needed", date(2024, time.January, 31), 2, date(2024, time.March, 31)},
		{"year rollover", date(2024, time.November, 15), 3, date(2025, time.February, 15)},
		{"twelve months", date(2024, time.June, 10), 12, date(2025, time.June, 10)},
		{"dec 31 plus two", date(2024, time.December, 31), 2, date(2025, time.February, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := billing.NewPeriod(tt.start, tt.months)
			if err != nil {
				t.Fatalf("NewPeriod() error = %v", err)
			}
			if !p.EndDate.Equal(tt.want) {
				t.Errorf("EndDate = %s, want %s", p.EndDate, tt.want)
			}
			if p.StartDate != tt.start || p.Months != tt.months {
				t.Errorf("period did not retain inputs: %+v", p)
			}
		})
	}
}

func TestNewPeriod_Invalid(t *testing.T) {
	if _, err := billing.NewPeriod(time.Time{}, 1); !errors.Is(err, billing.ErrInvalidDate) {
		t.Errorf("zero start: error = %v, want ErrInvalidDate", err)
	}
	for _, months := range []int{0, -1, -12} {
		if _, err := billing.NewPeriod(date(2024, time.March, 1), months); !errors.Is(err, billing.ErrInvalidPlan) {
			t.Errorf("months=%d: error = %v, want ErrInvalidPlan", months, err)
		}
	}
}

func TestNewPeriodWithMode_Legacy(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		// Start on the 1st anchors to the end of the completing month.
		{"first of march", date(2024, time.March, 1), 1, date(2024, time.March, 31)},
		{"first of feb leap", date(2024, time.February, 1), 1, date(2024, time.February, 29)},
		{"first of jan three months", date(2024, time.January, 1), 3, date(2024, time.March, 31)},
		// Any other start day approximates a month as 30 days.
		{"mid month", date(2024, time.March, 15), 1, date(2024, time.April, 14)},
		{"mid month three", date(2024, time.March, 15), 3, date(2024, time.June, 13)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := billing.NewPeriodWithMode(tt.start, tt.months, billing.PeriodLegacy)
			if err != nil {
				t.Fatalf("NewPeriodWithMode() error = %v", err)
			}
			if !p.EndDate.Equal(tt.want) {
				t.Errorf("EndDate = %s, want %s", p.EndDate, tt.want)
			}
		})
	}
}

// The two rules disagree for most inputs; the canonical rule is the
// default.
func TestNewPeriod_DefaultIsCalendar(t *testing.T) {
	start := date(2024, time.March, 15)
	def, err := billing.NewPeriod(start, 1)
	if err != nil {
		t.Fatal(err)
	}
	cal, err := billing.NewPeriodWithMode(start, 1, billing.PeriodCalendar)
	if err != nil {
		t.Fatal(err)
	}
	if !def.EndDate.Equal(cal.EndDate) {
		t.Errorf("default EndDate = %s, calendar = %s", def.EndDate, cal.EndDate)
	}
}

// Property: for any valid start and months >= 1, the end date is strictly
// after the start and advances by exactly `months` calendar months with
// day-of-month clamping.
func TestNewPeriod_Properties(t *testing.T) {
	base := date(1990, time.January, 1)

	prop := func(dayOffset uint16, m uint8) bool {
		start := base.AddDate(0, 0, int(dayOffset)%(60*365))
		months := int(m)%48 + 1

		p, err := billing.NewPeriod(start, months)
		if err != nil {
			return false
		}
		if !p.EndDate.After(start) {
			return false
		}

		wantMonths := start.Year()*12 + int(start.Month()) - 1 + months
		gotMonths := p.EndDate.Year()*12 + int(p.EndDate.Month()) - 1
		if gotMonths != wantMonths {
			return false
		}

		lastDay := time.Date(p.EndDate.Year(), p.EndDate.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
		if start.Day() <= lastDay {
			return p.EndDate.Day() == start.Day()
		}
		return p.EndDate.Day() == lastDay
	}

	if err := quick.Check(prop, &quick.Config{MaxCount: 2000}); err != nil {
		t.Error(err)
	}
}

func TestParseDate(t *testing.T) {
	got, err := billing.ParseDate("2024-01-31")
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if !got.Equal(date(2024, time.January, 31)) {
		t.Errorf("ParseDate() = %s", got)
	}

	for _, bad := range []string{"", "31/01/2024", "2024-13-01", "yesterday"} {
		if _, err := billing.ParseDate(bad); !errors.Is(err, billing.ErrInvalidDate) {
			t.Errorf("ParseDate(%q) error = %v, want ErrInvalidDate", bad, err)
		}
	}
}

func TestRenewalStart(t *testing.T) {
	now := date(2024, time.June, 1)

	tests := []struct {
		name   string
		expiry time.Time
		want   time.Time
	}{
		{"expiry in future", date(2024, time.July, 10), date(2024, time.July, 10)},
		{"expiry in past", date(2024, time.May, 1), now},
		{"no expiry", time.Time{}, now},
		{"expiry equals now", now, now},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := billing.RenewalStart(now, tt.expiry); !got.Equal(tt.want) {
				t.Errorf("RenewalStart() = %s, want %s", got, tt.want)
			}
		})
	}
}
