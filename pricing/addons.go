package pricing

import "github.com/shopspring/decimal"

var decimalOne = decimal.NewFromInt(1)

// EffectiveHeight resolves the height an area-calculated add-on bills
// against: variation height first, product base height next, 1 as the last
// resort. This lets an add-on price per square foot of wall face while the
// product itself is priced per linear foot of wall length.
func EffectiveHeight(v *VariationInput, p ProductInput) decimal.Decimal {
	if v != nil && v.Height != nil && v.Height.GreaterThan(decimal.Zero) {
		return *v.Height
	}
	if p.BaseHeight != nil && p.BaseHeight.GreaterThan(decimal.Zero) {
		return *p.BaseHeight
	}
	return decimalOne
}

// CalculateAddons computes every selected add-on's contribution. Add-ons
// with quantity 0 are skipped entirely: no contribution, no breakdown row.
//
// baseUnitPrice is the tier-resolved price before any variation adjustment;
// percentage-priced add-ons bill against it, variation adjustments never
// leak into add-on math. Variation height does: it feeds the derived area.
func CalculateAddons(addons []AddonInput, billableQty decimal.Decimal, baseUnitPrice decimal.Decimal, v *VariationInput, p ProductInput) ([]AddonBreakdown, decimal.Decimal) {
	var breakdown []AddonBreakdown
	total := decimal.Zero

	addonArea := billableQty.Mul(EffectiveHeight(v, p))

	for _, addon := range addons {
		if addon.Quantity <= 0 {
			continue
		}

		effectivePrice := addon.PriceValue
		if addon.SelectedOption != nil {
			effectivePrice = applyAdjustment(effectivePrice, addon.SelectedOption.Adjustment, addon.SelectedOption.AdjustmentType)
		}

		var contribution decimal.Decimal
		if addon.PriceType == AdjustmentPercentage {
			// Legacy percentage pricing: the value is a percent of the base
			// line amount, not a dollar figure.
			var baseAmount decimal.Decimal
			switch addon.CalculationType {
			case CalculationPerUnit:
				baseAmount = baseUnitPrice.Mul(billableQty)
			case CalculationArea:
				baseAmount = baseUnitPrice.Mul(addonArea)
			default:
				baseAmount = baseUnitPrice
			}
			contribution = baseAmount.Mul(effectivePrice).Div(decimalOneHundred)
		} else {
			switch addon.CalculationType {
			case CalculationPerUnit:
				contribution = effectivePrice.Mul(billableQty)
			case CalculationArea:
				contribution = effectivePrice.Mul(addonArea)
			default:
				// total: a flat fee, quantity-independent
				contribution = effectivePrice
			}
		}

		lineContribution := contribution.Mul(decimal.NewFromInt(int64(addon.Quantity)))

		breakdown = append(breakdown, AddonBreakdown{
			Name:            addon.Name,
			Quantity:        addon.Quantity,
			CalculationType: addon.CalculationType,
			UnitPrice:       effectivePrice,
			Contribution:    lineContribution,
		})
		total = total.Add(lineContribution)
	}

	return breakdown, total
}
