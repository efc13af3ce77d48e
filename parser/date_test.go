package parser

import (
	"errors"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"

	"github.com/fsecamp/reimburse/record"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    string
		wantErr bool
	}{
		{name: "day first slash", input: "15/01/2024", want: "2024-01-15"},
		{name: "day first ambiguous", input: "02/03/2024", want: "2024-03-02"},
		{name: "single digits", input: "5/7/2024", want: "2024-07-05"},
		{name: "dashes", input: "15-01-2024", want: "2024-01-15"},
		{name: "dots", input: "15.01.2024", want: "2024-01-15"},
		{name: "two digit year", input: "15/01/24", want: "2024-01-15"},
		{name: "iso", input: "2024-01-15", want: "2024-01-15"},
		{name: "iso timestamp", input: "2024-01-15 10:30:00", want: "2024-01-15"},
		{name: "surrounding space", input: "  15/01/2024 ", want: "2024-01-15"},
		{name: "time value", input: time.Date(2024, 6, 30, 13, 0, 0, 0, time.UTC), want: "2024-06-30"},
		{name: "date value", input: record.NewDate(2024, 2, 29), want: "2024-02-29"},
		{name: "invalid day", input: "32/01/2024", wantErr: true},
		{name: "text", input: "not a date", wantErr: true},
		{name: "number", input: 45000, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				var dateErr *DateError
				assert.True(t, errors.As(err, &dateErr))
				assert.Zero(t, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got.ISO())
		})
	}
}

func TestParseDateEmpty(t *testing.T) {
	for _, input := range []any{nil, "", "   ", (*record.Date)(nil)} {
		got, err := ParseDate(input)
		assert.True(t, errors.Is(err, ErrEmpty))
		assert.Zero(t, got)
	}
	assert.Zero(t, DateOrNil("garbage"))
}
