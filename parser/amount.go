// Package parser normalizes the loosely-typed cells of an expense batch: it
// reads monetary amounts written with either decimal convention, day-first
// dates, and whole week counts, and turns a record.Raw row into a typed
// record.Record.
//
// Parsing never aborts a batch. Every function here returns an explicit error
// alongside its zero default so callers can tell "unparseable" apart from
// "legitimately zero", and the *OrZero / *OrNil helpers apply the default.
package parser

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// currencySymbols are stripped from amount text before parsing.
const currencySymbols = "€$£"

// ParseAmount converts a monetary value into a decimal.
//
// Numbers are converted directly. Text is stripped of currency symbols and
// whitespace and read as a plain decimal first. When that fails the decimal
// separator is inferred from the '.' and ',' characters:
//   - more than one of either separator is ambiguous and rejected
//   - with one of each, the one occurring later is the decimal point
//   - a lone ',' is the decimal point
//
// Examples:
//
//	ParseAmount("1.234,56")  // 1234.56
//	ParseAmount("1,234.56")  // 1234.56
//	ParseAmount("€ 500,00")  // 500.00
//	ParseAmount("1.2.3,45")  // error
//
// Blank or nil values return ErrEmpty; other failures return *AmountError.
// The returned decimal is zero whenever err is non-nil.
func ParseAmount(v any) (decimal.Decimal, error) {
	switch t := v.(type) {
	case nil:
		return decimal.Zero, ErrEmpty
	case decimal.Decimal:
		return t, nil
	case *decimal.Decimal:
		if t == nil {
			return decimal.Zero, ErrEmpty
		}
		return *t, nil
	case float64:
		return fromFloat(t)
	case float32:
		return fromFloat(float64(t))
	case int:
		return decimal.NewFromInt(int64(t)), nil
	case int32:
		return decimal.NewFromInt32(t), nil
	case int64:
		return decimal.NewFromInt(t), nil
	case uint:
		return decimal.NewFromUint64(uint64(t)), nil
	case uint32:
		return decimal.NewFromUint64(uint64(t)), nil
	case uint64:
		return decimal.NewFromUint64(t), nil
	case json.Number:
		return parseAmountText(string(t))
	case string:
		return parseAmountText(t)
	case []byte:
		return parseAmountText(string(t))
	default:
		return parseAmountText(fmt.Sprint(v))
	}
}

// AmountOrZero parses v and falls back to zero on any failure.
func AmountOrZero(v any) decimal.Decimal {
	d, _ := ParseAmount(v)
	return d
}

func fromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) {
		// Spreadsheet layers use NaN for empty cells.
		return decimal.Zero, ErrEmpty
	}
	if math.IsInf(f, 0) {
		return decimal.Zero, &AmountError{Text: fmt.Sprint(f), Reason: "not finite"}
	}
	return decimal.NewFromFloat(f), nil
}

func parseAmountText(text string) (decimal.Decimal, error) {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || strings.ContainsRune(currencySymbols, r) {
			return -1
		}
		return r
	}, text)
	if s == "" {
		return decimal.Zero, ErrEmpty
	}

	if d, err := decimal.NewFromString(s); err == nil {
		return d, nil
	}

	dots := strings.Count(s, ".")
	commas := strings.Count(s, ",")
	if dots > 1 || commas > 1 {
		return decimal.Zero, &AmountError{Text: text, Reason: "ambiguous separators"}
	}

	switch {
	case dots == 1 && commas == 1:
		if strings.LastIndex(s, ".") > strings.LastIndex(s, ",") {
			s = strings.Replace(s, ",", "", 1)
		} else {
			s = strings.Replace(s, ".", "", 1)
			s = strings.Replace(s, ",", ".", 1)
		}
	case commas == 1:
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &AmountError{Text: text, Reason: "not a number"}
	}
	return d, nil
}
