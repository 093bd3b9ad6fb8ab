package pricing

import "github.com/shopspring/decimal"

// PriceRange is the display transform over an exact amount. The exact
// figure is always carried along: ranges are presentation only, never the
// system of record.
type PriceRange struct {
	Exact      decimal.Decimal `json:"exact"`
	Low        decimal.Decimal `json:"low"`
	High       decimal.Decimal `json:"high"`
	LowerBound decimal.Decimal `json:"lowerBound"`
	UpperBound decimal.Decimal `json:"upperBound"`
	Format     RangeFormat     `json:"format"`
}

// ResolveRange widens an exact amount into the configured low/high pair.
// Returns nil when range display is disabled. Falls back to the legacy
// single symmetric percentage when neither explicit bound is set.
func ResolveRange(exact decimal.Decimal, s Settings) *PriceRange {
	if !s.RangeEnabled {
		return nil
	}

	lower := s.RangeLowerBound
	upper := s.RangeUpperBound
	if lower.IsZero() && upper.IsZero() && s.RangePercentage.GreaterThan(decimal.Zero) {
		lower = s.RangePercentage
		upper = s.RangePercentage
	}

	format := s.RangeFormat
	if format == "" {
		format = RangeFormatDollarAmounts
	}

	return &PriceRange{
		Exact:      exact,
		Low:        exact.Mul(decimalOneHundred.Sub(lower)).Div(decimalOneHundred),
		High:       exact.Mul(decimalOneHundred.Add(upper)).Div(decimalOneHundred),
		LowerBound: lower,
		UpperBound: upper,
		Format:     format,
	}
}
