package pricing

import "github.com/shopspring/decimal"

// cubicYardDivisor converts square feet times inches of depth into cubic
// yards: 1 cubic yard = 27 cubic feet = 324 sqft-inches.
var cubicYardDivisor = decimal.NewFromInt(324)

// ResolveQuantity turns a raw measurement into the billable quantity.
//
// Volume products measured by area convert through the supplied depth
// (inches). Otherwise a variation flagged as affecting the area calculation
// converts the area through its height. Everything else passes through
// unchanged. The two conversions never apply together: depth targets volume
// units, variation height targets area units.
func ResolveQuantity(m Measurement, p ProductInput, v *VariationInput) decimal.Decimal {
	if p.IsVolumeUnit && m.Type == MeasurementArea && m.Depth != nil && m.Depth.GreaterThan(decimal.Zero) {
		return m.Value.Mul(*m.Depth).Div(cubicYardDivisor)
	}

	if v != nil && v.AffectsAreaCalculation && v.Height != nil && v.Height.GreaterThan(decimal.Zero) && m.Type == MeasurementArea {
		return m.Value.Mul(*v.Height)
	}

	return m.Value
}

// IncrementRounding is the proposal shown to the user before a measured
// value is rounded up to whole selling increments (pallets, rolls). The
// user confirms or re-measures; the engine never rounds silently.
type IncrementRounding struct {
	WasRounded          bool            `json:"wasRoundedForIncrements"`
	OriginalMeasurement decimal.Decimal `json:"originalMeasurement"`
	RoundedQuantity     decimal.Decimal `json:"roundedQuantity"`
	UnitsNeeded         int64           `json:"unitsNeeded"`
	IncrementSize       decimal.Decimal `json:"incrementSize"`
	IncrementLabel      string          `json:"incrementLabel,omitempty"`
}

// ResolveIncrementRounding computes the increment proposal for a measured
// value. Products without an increment rule, or ones allowing partial
// increments, pass the measurement through untouched.
func ResolveIncrementRounding(measured decimal.Decimal, p ProductInput) IncrementRounding {
	if p.SoldInIncrementsOf == nil || !p.SoldInIncrementsOf.GreaterThan(decimal.Zero) || p.AllowPartialIncrements {
		return IncrementRounding{
			WasRounded:          false,
			OriginalMeasurement: measured,
			RoundedQuantity:     measured,
		}
	}

	incrementSize := *p.SoldInIncrementsOf
	unitsNeeded := measured.Div(incrementSize).Ceil()
	rounded := unitsNeeded.Mul(incrementSize)

	return IncrementRounding{
		WasRounded:          !rounded.Equal(measured),
		OriginalMeasurement: measured,
		RoundedQuantity:     rounded,
		UnitsNeeded:         unitsNeeded.IntPart(),
		IncrementSize:       incrementSize,
		IncrementLabel:      p.IncrementLabel,
	}
}
