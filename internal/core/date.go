package core

import (
	"errors"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day as the remote store's date columns carry it.
// It marshals as YYYY-MM-DD and accepts either a plain date or a full
// timestamp when decoding, since the store returns timestamps for the
// audit columns and plain dates everywhere else.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, errors.New("invalid date, expected YYYY-MM-DD")
	}
	return Date{Time: t}, nil
}

// Today returns the current calendar day in UTC.
func Today(now time.Time) Date {
	y, m, d := now.UTC().Date()
	return NewDate(y, int(m), d)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time.Format(dateLayout)
}

// Year returns the calendar year.
func (d Date) Year() int { return d.Time.Year() }

// Month returns the calendar month, 1-12.
func (d Date) Month() int { return int(d.Time.Month()) }

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Time.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return errors.New("invalid date value: " + s)
	}
	d.Time = t
	return nil
}
