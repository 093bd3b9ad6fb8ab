package pricing

import "github.com/shopspring/decimal"

// FormatExactPrice is the single money formatter every surface goes
// through. Rounding to the configured precision happens here and nowhere
// else; the pipeline itself never rounds intermediate values.
func FormatExactPrice(amount decimal.Decimal, currencySymbol string, precision int32) string {
	if precision < 0 {
		precision = 0
	}
	if precision > 4 {
		precision = 4
	}
	if currencySymbol == "" {
		currencySymbol = "$"
	}

	if amount.IsNegative() {
		return "-" + currencySymbol + amount.Neg().StringFixed(precision)
	}
	return currencySymbol + amount.StringFixed(precision)
}

// FormatRange renders a price range per its display format: dollar bounds
// ("$180.00 - $240.00") or the exact figure annotated with the spread
// ("$200.00 (-10% / +20%)").
func FormatRange(r PriceRange, currencySymbol string, precision int32) string {
	if r.Format == RangeFormatPercentage {
		return FormatExactPrice(r.Exact, currencySymbol, precision) +
			" (-" + r.LowerBound.String() + "% / +" + r.UpperBound.String() + "%)"
	}
	return FormatExactPrice(r.Low, currencySymbol, precision) + " - " + FormatExactPrice(r.High, currencySymbol, precision)
}
