package parser

import (
	"errors"
	"testing"
)

func FuzzParseAmount(f *testing.F) {
	seeds := []string{
		"180",
		"1.234,56",
		"1,234.56",
		"€ 500,00",
		"12,5",
		"-3,20",
		"1.2.3,45",
		"1,,5",
		"",
		"   ",
		"abc",
		"1e3",
		"NaN",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, text string) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("ParseAmount panicked on input %q: %v", text, r)
			}
		}()

		amount, err := ParseAmount(text)
		if err != nil && !amount.IsZero() {
			t.Errorf("ParseAmount(%q) returned %s with error %v", text, amount, err)
		}
		if errors.Is(err, ErrEmpty) {
			return
		}
		var ae *AmountError
		if err != nil && !errors.As(err, &ae) {
			t.Errorf("ParseAmount(%q) returned unexpected error type %T", text, err)
		}
	})
}

func FuzzParseDate(f *testing.F) {
	seeds := []string{
		"15/04/2024",
		"1/4/2024",
		"2024-04-15",
		"31/02/2024",
		"15-04-2024",
		"",
		"oggi",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, text string) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("ParseDate panicked on input %q: %v", text, r)
			}
		}()

		date, err := ParseDate(text)
		if err != nil && date != nil {
			t.Errorf("ParseDate(%q) returned %v with error %v", text, date, err)
		}
		if err == nil && date == nil {
			t.Errorf("ParseDate(%q) returned nil date with nil error", text)
		}
	})
}

func FuzzParseWeeks(f *testing.F) {
	for _, seed := range []string{"2", "2,0", "2.5", "-1", "", "due"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, text string) {
		weeks, err := ParseWeeks(text)
		if err != nil && weeks != 0 {
			t.Errorf("ParseWeeks(%q) returned %d with error %v", text, weeks, err)
		}
		if weeks < 0 {
			t.Errorf("ParseWeeks(%q) returned negative weeks %d", text, weeks)
		}
	})
}
