package parser

import (
	"errors"
	"math"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    string
		wantErr bool
		empty   bool
	}{
		{name: "european thousands", input: "1.234,56", want: "1234.56"},
		{name: "english thousands", input: "1,234.56", want: "1234.56"},
		{name: "euro symbol and comma", input: "€ 500,00", want: "500"},
		{name: "dollar symbol", input: "$12.50", want: "12.5"},
		{name: "pound symbol", input: "£7", want: "7"},
		{name: "non-breaking space", input: "1 234,00", want: "1234"},
		{name: "plain decimal", input: "180.00", want: "180"},
		{name: "lone comma", input: "9,5", want: "9.5"},
		{name: "negative", input: "-10,25", want: "-10.25"},
		{name: "integer", input: 42, want: "42"},
		{name: "int64", input: int64(300), want: "300"},
		{name: "float", input: 180.5, want: "180.5"},
		{name: "decimal", input: decimal.RequireFromString("12.34"), want: "12.34"},
		{name: "ambiguous dots and comma", input: "1.2.3,45", wantErr: true},
		{name: "repeated commas", input: "1,234,567", wantErr: true},
		{name: "repeated dots", input: "1.234.567", wantErr: true},
		{name: "text", input: "abc", wantErr: true},
		{name: "infinity", input: math.Inf(1), wantErr: true},
		{name: "nil", input: nil, empty: true},
		{name: "blank", input: "   ", empty: true},
		{name: "symbol only", input: "€", empty: true},
		{name: "NaN cell", input: math.NaN(), empty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			switch {
			case tt.empty:
				assert.True(t, errors.Is(err, ErrEmpty))
				assert.True(t, got.IsZero())
			case tt.wantErr:
				var amountErr *AmountError
				assert.True(t, errors.As(err, &amountErr))
				assert.True(t, got.IsZero())
			default:
				assert.NoError(t, err)
				assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseAmountIdempotent(t *testing.T) {
	inputs := []any{"1.234,56", "1,234.56", "€ 500,00", 180.0, "9,5", "0"}
	for _, input := range inputs {
		first, err := ParseAmount(input)
		assert.NoError(t, err)
		second, err := ParseAmount(first)
		assert.NoError(t, err)
		assert.True(t, first.Equal(second), "%v: %s != %s", input, first, second)

		third, err := ParseAmount(first.String())
		assert.NoError(t, err)
		assert.True(t, first.Equal(third), "%v: %s != %s", input, first, third)
	}
}

func TestAmountOrZero(t *testing.T) {
	assert.True(t, AmountOrZero("1.2.3,45").IsZero())
	assert.True(t, AmountOrZero(nil).IsZero())
	assert.Equal(t, "210", AmountOrZero("210,00").String())
}
