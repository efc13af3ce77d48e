package parser

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseWeeks reads the number of attended weeks. Blank values count as zero
// weeks. Negative, fractional, non-numeric and out of range values return
// *WeeksError.
func ParseWeeks(v any) (int, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case int:
		return checkWeeks(int64(t), fmt.Sprint(t))
	case int32:
		return checkWeeks(int64(t), fmt.Sprint(t))
	case int64:
		return checkWeeks(t, fmt.Sprint(t))
	case float64:
		if math.IsNaN(t) {
			return 0, nil
		}
		return weeksFromDecimal(decimal.NewFromFloat(t), fmt.Sprint(t))
	case float32:
		return weeksFromDecimal(decimal.NewFromFloat32(t), fmt.Sprint(t))
	case decimal.Decimal:
		return weeksFromDecimal(t, t.String())
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, nil
		}
		d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
		if err != nil {
			return 0, &WeeksError{Text: t, Reason: "not a number"}
		}
		return weeksFromDecimal(d, t)
	default:
		return 0, &WeeksError{Text: fmt.Sprint(v), Reason: "not a number"}
	}
}

// maxWeeks keeps the count representable as int on every platform.
const maxWeeks = math.MaxInt32

func weeksFromDecimal(d decimal.Decimal, text string) (int, error) {
	if !d.Equal(d.Truncate(0)) {
		return 0, &WeeksError{Text: text, Reason: "not a whole number"}
	}
	switch {
	case d.IsNegative():
		return 0, &WeeksError{Text: text, Reason: "negative"}
	case d.GreaterThan(decimal.NewFromInt(maxWeeks)):
		return 0, &WeeksError{Text: text, Reason: "out of range"}
	}
	return checkWeeks(d.IntPart(), text)
}

func checkWeeks(n int64, text string) (int, error) {
	switch {
	case n < 0:
		return 0, &WeeksError{Text: text, Reason: "negative"}
	case n > maxWeeks:
		return 0, &WeeksError{Text: text, Reason: "out of range"}
	}
	return int(n), nil
}
