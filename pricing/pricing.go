// Package pricing computes quote line amounts from already-fetched catalog
// records. Every function here is pure: no database, no clock, no hidden
// state, so the same draft always produces the same numbers no matter how
// often the widget recalculates while the user is still adjusting inputs.
package pricing

import "github.com/shopspring/decimal"

type MeasurementType string

const (
	MeasurementArea  MeasurementType = "area"
	MeasurementLine  MeasurementType = "line"
	MeasurementPoint MeasurementType = "point"
)

type AdjustmentType string

const (
	AdjustmentFixed      AdjustmentType = "fixed"
	AdjustmentPercentage AdjustmentType = "percentage"
)

type CalculationType string

const (
	CalculationTotal   CalculationType = "total"
	CalculationPerUnit CalculationType = "per_unit"
	CalculationArea    CalculationType = "area_calculation"
)

type RangeFormat string

const (
	RangeFormatPercentage    RangeFormat = "percentage"
	RangeFormatDollarAmounts RangeFormat = "dollar_amounts"
)

var decimalOneHundred = decimal.NewFromInt(100)

// ProductInput carries the pricing-relevant slice of a product record.
// Records are read-only during a quote session; callers build a fresh input
// per calculation instead of mutating shared state.
type ProductInput struct {
	ListPrice              decimal.Decimal
	MinimumOrderQuantity   decimal.Decimal
	TierPricingEnabled     bool
	IsVolumeUnit           bool
	SoldInIncrementsOf     *decimal.Decimal
	AllowPartialIncrements bool
	IncrementLabel         string
	BaseHeight             *decimal.Decimal
	UseHeightInCalculation bool
	HasRequiredVariation   bool
}

// Tier is one quantity band. MaxQuantity nil means unbounded above.
// The slice passed to ResolveUnitPrice must already be in display order.
type Tier struct {
	MinQuantity decimal.Decimal
	MaxQuantity *decimal.Decimal
	UnitPrice   decimal.Decimal
}

type VariationInput struct {
	Name                   string
	Adjustment             decimal.Decimal
	AdjustmentType         AdjustmentType
	Height                 *decimal.Decimal
	AffectsAreaCalculation bool
}

type AddonOptionInput struct {
	Name           string
	Adjustment     decimal.Decimal
	AdjustmentType AdjustmentType
}

// AddonInput is one selected add-on with the user-chosen quantity.
// Quantity 0 means not selected; such entries contribute nothing and are
// omitted from the breakdown.
type AddonInput struct {
	Name            string
	PriceValue      decimal.Decimal
	PriceType       AdjustmentType
	CalculationType CalculationType
	Quantity        int
	SelectedOption  *AddonOptionInput
}

// Measurement is the raw geometric/manual input for a line, in the product's
// unit. Depth is inches and only meaningful for volume products measured by
// area.
type Measurement struct {
	Type  MeasurementType
	Value decimal.Decimal
	Depth *decimal.Decimal
}

// Settings is the contractor-level configuration the engine reads.
type Settings struct {
	CurrencySymbol   string
	DecimalPrecision int32
	TaxRate          decimal.Decimal
	MarkupPercentage decimal.Decimal
	RangeEnabled     bool
	RangeLowerBound  decimal.Decimal
	RangeUpperBound  decimal.Decimal
	// RangePercentage is the legacy single symmetric bound. Used only when
	// both explicit bounds are zero.
	RangePercentage decimal.Decimal
	RangeFormat     RangeFormat
}

// LineItemDraft is the immutable working state of one line while the user is
// configuring it. Selection changes replace the draft; nothing mutates it in
// place.
type LineItemDraft struct {
	Product     ProductInput
	Tiers       []Tier
	Variation   *VariationInput
	Addons      []AddonInput
	Measurement Measurement
}

// AddonBreakdown is one computed add-on row, persisted alongside the quote
// item as the audit trail.
type AddonBreakdown struct {
	Name            string          `json:"name"`
	Quantity        int             `json:"quantity"`
	CalculationType CalculationType `json:"calculationType"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	Contribution    decimal.Decimal `json:"contribution"`
}

// LineResult is the full computed output for one line.
type LineResult struct {
	BillableQuantity  decimal.Decimal  `json:"billableQuantity"`
	BaseUnitPrice     decimal.Decimal  `json:"baseUnitPrice"`
	AdjustedUnitPrice decimal.Decimal  `json:"adjustedUnitPrice"`
	VariationName     string           `json:"variationName,omitempty"`
	VariationCost     decimal.Decimal  `json:"variationCost"`
	BaseAmount        decimal.Decimal  `json:"baseAmount"`
	Addons            []AddonBreakdown `json:"addons"`
	AddonTotal        decimal.Decimal  `json:"addonTotal"`
	LineTotal         decimal.Decimal  `json:"lineTotal"`
}

// QuoteTotals aggregates line totals into the customer-facing figures.
// Markup is applied exactly once, to the quote subtotal; lines never carry
// markup themselves.
type QuoteTotals struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	MarkupAmount decimal.Decimal `json:"markupAmount"`
	TaxAmount    decimal.Decimal `json:"taxAmount"`
	Total        decimal.Decimal `json:"total"`
}

// CalculateLine runs the per-line pipeline: quantity resolution, tier price
// lookup, variation adjustment, add-on contributions, line total. The caller
// is expected to have run ValidateDraft first; a draft with blocking guards
// still computes (the math never fails), the guards only gate confirmation.
func CalculateLine(d LineItemDraft) LineResult {
	qty := ResolveQuantity(d.Measurement, d.Product, d.Variation)
	basePrice := ResolveUnitPrice(qty, d.Tiers, d.Product)
	adjustedPrice := ApplyVariationAdjustment(basePrice, d.Variation)

	addons, addonTotal := CalculateAddons(d.Addons, qty, basePrice, d.Variation, d.Product)

	baseAmount := adjustedPrice.Mul(qty)
	variationCost := adjustedPrice.Sub(basePrice).Mul(qty)

	result := LineResult{
		BillableQuantity:  qty,
		BaseUnitPrice:     basePrice,
		AdjustedUnitPrice: adjustedPrice,
		VariationCost:     variationCost,
		BaseAmount:        baseAmount,
		Addons:            addons,
		AddonTotal:        addonTotal,
		LineTotal:         baseAmount.Add(addonTotal),
	}
	if d.Variation != nil {
		result.VariationName = d.Variation.Name
	}
	return result
}

// CalculateQuoteTotals sums line totals and layers markup then tax on top.
func CalculateQuoteTotals(lineTotals []decimal.Decimal, s Settings) QuoteTotals {
	subtotal := decimal.Zero
	for _, lt := range lineTotals {
		subtotal = subtotal.Add(lt)
	}

	markup := decimal.Zero
	if s.MarkupPercentage.GreaterThan(decimal.Zero) {
		markup = subtotal.Mul(s.MarkupPercentage).Div(decimalOneHundred)
	}

	taxable := subtotal.Add(markup)
	tax := decimal.Zero
	if s.TaxRate.GreaterThan(decimal.Zero) {
		tax = taxable.Mul(s.TaxRate).Div(decimalOneHundred)
	}

	return QuoteTotals{
		Subtotal:     subtotal,
		MarkupAmount: markup,
		TaxAmount:    tax,
		Total:        taxable.Add(tax),
	}
}
