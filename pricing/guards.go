package pricing

import "github.com/shopspring/decimal"

type GuardCode string

const (
	// GuardDepthRequired blocks confirmation of a volume product measured
	// by area until a positive depth is entered.
	GuardDepthRequired GuardCode = "depth_required"
	// GuardVariationRequired blocks confirmation while a required variation
	// has no selection.
	GuardVariationRequired GuardCode = "variation_required"
	// GuardBelowMinimum warns that the billable quantity is under the
	// product minimum. Calculation proceeds; the contractor decides.
	GuardBelowMinimum GuardCode = "below_minimum_quantity"
)

// Guard is a validation condition on a draft. Blocking guards disable the
// add-to-quote action; non-blocking ones only surface a warning. Guards are
// states, not errors: nothing here ever fails.
type Guard struct {
	Code     GuardCode `json:"code"`
	Blocking bool      `json:"blocking"`
	Message  string    `json:"message"`
}

// ValidateDraft checks a draft for guard conditions before confirmation.
func ValidateDraft(d LineItemDraft) []Guard {
	var guards []Guard

	if d.Product.IsVolumeUnit && d.Measurement.Type == MeasurementArea {
		if d.Measurement.Depth == nil || !d.Measurement.Depth.GreaterThan(decimal.Zero) {
			guards = append(guards, Guard{
				Code:     GuardDepthRequired,
				Blocking: true,
				Message:  "depth is required for volume products",
			})
		}
	}

	if d.Product.HasRequiredVariation && d.Variation == nil {
		guards = append(guards, Guard{
			Code:     GuardVariationRequired,
			Blocking: true,
			Message:  "a variation selection is required for this product",
		})
	}

	if d.Product.MinimumOrderQuantity.GreaterThan(decimal.Zero) {
		qty := ResolveQuantity(d.Measurement, d.Product, d.Variation)
		if qty.LessThan(d.Product.MinimumOrderQuantity) {
			guards = append(guards, Guard{
				Code:     GuardBelowMinimum,
				Blocking: false,
				Message:  "quantity is below the product minimum of " + d.Product.MinimumOrderQuantity.String(),
			})
		}
	}

	return guards
}

// HasBlockingGuard reports whether any guard in the list disables
// confirmation.
func HasBlockingGuard(guards []Guard) bool {
	for _, g := range guards {
		if g.Blocking {
			return true
		}
	}
	return false
}
