package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsecamp/reimburse/record"
)

// dateLayouts are tried in order. Day comes before month in every ambiguous
// layout; only the ISO forms put the year first.
var dateLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2/1/06",
	"2-1-06",
	"2006-01-02",
	"2/1/2006 15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ParseDate resolves v to a calendar date using the day/month/year convention.
// It accepts time.Time, record.Date values and text. Blank values return
// ErrEmpty; anything else that does not resolve returns *DateError.
func ParseDate(v any) (*record.Date, error) {
	switch t := v.(type) {
	case nil:
		return nil, ErrEmpty
	case *record.Date:
		if t.IsZero() {
			return nil, ErrEmpty
		}
		return t, nil
	case record.Date:
		if t.IsZero() {
			return nil, ErrEmpty
		}
		return record.NewDateFromTime(t.Time), nil
	case time.Time:
		if t.IsZero() {
			return nil, ErrEmpty
		}
		return record.NewDateFromTime(t), nil
	case *time.Time:
		if t == nil || t.IsZero() {
			return nil, ErrEmpty
		}
		return record.NewDateFromTime(*t), nil
	case string:
		return parseDateText(t)
	default:
		return nil, &DateError{Text: fmt.Sprint(v)}
	}
}

// DateOrNil parses v and returns nil on any failure.
func DateOrNil(v any) *record.Date {
	d, _ := ParseDate(v)
	return d
}

func parseDateText(text string) (*record.Date, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil, ErrEmpty
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return record.NewDateFromTime(t), nil
		}
	}
	return nil, &DateError{Text: text}
}
