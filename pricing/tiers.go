package pricing

import "github.com/shopspring/decimal"

// ResolveUnitPrice maps a billable quantity onto the product's tier table.
//
// Tiers are scanned in display order; the first active tier whose
// [min, max] band contains the quantity wins (max nil = unbounded). No
// match, tiering disabled, or an empty table all fall back to the list
// price. Overlapping bands are a configuration problem, not this
// function's: it simply keeps the first hit.
func ResolveUnitPrice(quantity decimal.Decimal, tiers []Tier, p ProductInput) decimal.Decimal {
	if !p.TierPricingEnabled || len(tiers) == 0 {
		return p.ListPrice
	}

	for _, tier := range tiers {
		if quantity.LessThan(tier.MinQuantity) {
			continue
		}
		if tier.MaxQuantity != nil && quantity.GreaterThan(*tier.MaxQuantity) {
			continue
		}
		return tier.UnitPrice
	}

	return p.ListPrice
}
