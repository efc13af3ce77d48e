package validation

import (
	"context"

	"github.com/shopspring/decimal"
)

// Config holds the business constants of the rule set. They are fixed by
// policy and not exposed to end users; tests and tools may tighten them.
type Config struct {
	// RecordCap is the absolute contribution cap for a single record.
	RecordCap decimal.Decimal
	// WeeklyCap is the maximum contribution per attended week.
	WeeklyCap decimal.Decimal
	// BeneficiaryCap is the cumulative contribution cap per identifier within a batch.
	BeneficiaryCap decimal.Decimal
	// FormalControlRate is the share of A owed as formal controls.
	FormalControlRate decimal.Decimal
	// CapTolerance is the slack allowed when comparing against a cap.
	CapTolerance decimal.Decimal
	// Tolerance is the slack allowed when comparing two 2-decimal amounts.
	Tolerance decimal.Decimal
}

// NewConfig creates a Config with the standard rule set.
func NewConfig() *Config {
	return &Config{
		RecordCap:         decimal.NewFromInt(300),
		WeeklyCap:         decimal.NewFromInt(100),
		BeneficiaryCap:    decimal.NewFromInt(300),
		FormalControlRate: decimal.RequireFromString("0.05"),
		CapTolerance:      decimal.RequireFromString("0.0001"),
		Tolerance:         decimal.RequireFromString("0.001"),
	}
}

// FormalControls returns round(a * rate, 2).
func (c *Config) FormalControls(a decimal.Decimal) decimal.Decimal {
	return a.Mul(c.FormalControlRate).Round(2)
}

// contextKey is a private type to avoid key collisions in context.
type contextKey struct{}

// WithContext returns a new context with the Config attached.
func (c *Config) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// ConfigFromContext retrieves the Config from context.
// Returns a default Config if not found.
func ConfigFromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(contextKey{}).(*Config); ok {
		return cfg
	}
	return NewConfig()
}

// AmountEqual reports whether two amounts are equal within tolerance.
func AmountEqual(a, b, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}

// amountText renders d with two decimals, or with all of its digits when
// two decimals would hide a difference.
func amountText(d decimal.Decimal) string {
	if d.Equal(d.Round(2)) {
		return d.StringFixed(2)
	}
	return d.String()
}

// exceeds reports whether value is above limit by more than tolerance.
func exceeds(value, limit, tolerance decimal.Decimal) bool {
	return value.GreaterThan(limit.Add(tolerance))
}
