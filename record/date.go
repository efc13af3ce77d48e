package record

import (
	"fmt"
	"time"
)

// DisplayLayout is the day-first layout used for every date shown to users or
// written to the transmission layout.
const DisplayLayout = "02/01/2006"

// Date is a calendar date without time of day.
type Date struct {
	time.Time
}

// NewDate creates a Date from its components. Out-of-range components are
// normalized the way time.Date does.
func NewDate(year int, month time.Month, day int) *Date {
	return &Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// NewDateFromTime creates a Date from a time.Time value, dropping the time of day.
func NewDateFromTime(t time.Time) *Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// IsZero returns true if the Date is nil or represents the zero time.
// It is nil-safe so repr and the JSON encoder can call it on absent dates.
func (d *Date) IsZero() bool {
	if d == nil {
		return true
	}
	return d.Time.IsZero()
}

// String renders the date day-first, or the empty string when absent.
func (d *Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DisplayLayout)
}

// ISO renders the date as YYYY-MM-DD, or the empty string when absent.
func (d *Date) ISO() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

// Equal reports whether two dates denote the same day. Two absent dates are equal.
func (d *Date) Equal(other *Date) bool {
	if d.IsZero() || other.IsZero() {
		return d.IsZero() == other.IsZero()
	}
	return d.Year() == other.Year() && d.YearDay() == other.YearDay()
}

// MarshalText encodes the date as YYYY-MM-DD.
func (d *Date) MarshalText() ([]byte, error) {
	return []byte(d.ISO()), nil
}

// UnmarshalText decodes a YYYY-MM-DD date. The empty string leaves d zero.
func (d *Date) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse("2006-01-02", string(text))
	if err != nil {
		return fmt.Errorf("invalid date: %s", text)
	}
	d.Time = t
	return nil
}
