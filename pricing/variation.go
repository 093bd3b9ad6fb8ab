package pricing

import "github.com/shopspring/decimal"

// ApplyVariationAdjustment layers the selected variation's price adjustment
// onto the tier-resolved unit price. No selection leaves the price alone.
func ApplyVariationAdjustment(price decimal.Decimal, v *VariationInput) decimal.Decimal {
	if v == nil {
		return price
	}
	return applyAdjustment(price, v.Adjustment, v.AdjustmentType)
}

// applyAdjustment is shared by variations and add-on options: percentage
// adjustments scale the price, fixed adjustments shift it.
func applyAdjustment(price decimal.Decimal, adjustment decimal.Decimal, adjustmentType AdjustmentType) decimal.Decimal {
	if adjustmentType == AdjustmentPercentage {
		return price.Add(price.Mul(adjustment).Div(decimalOneHundred))
	}
	return price.Add(adjustment)
}
