package pricing_test

import (
	"testing"

	"bitbucket.org/mmdatafocus/quotes_backend/pricing"
	"github.com/shopspring/decimal"
)

// fenceDraft is a fully loaded line: tiered fence priced per linear foot,
// a premium variation, a per-square-foot stain add-on and a flat-fee gate.
func fenceDraft() pricing.LineItemDraft {
	return pricing.LineItemDraft{
		Product: pricing.ProductInput{
			ListPrice:          dec("30"),
			TierPricingEnabled: true,
			BaseHeight:         decPtr("6"),
		},
		Tiers: []pricing.Tier{
			{MinQuantity: dec("0"), MaxQuantity: decPtr("99"), UnitPrice: dec("32")},
			{MinQuantity: dec("100"), MaxQuantity: nil, UnitPrice: dec("28")},
		},
		Variation: &pricing.VariationInput{Name: "Cedar", Adjustment: dec("10"), AdjustmentType: pricing.AdjustmentPercentage},
		Addons: []pricing.AddonInput{
			{Name: "Stain", PriceValue: dec("2"), PriceType: pricing.AdjustmentFixed, CalculationType: pricing.CalculationArea, Quantity: 1},
			{Name: "Gate", PriceValue: dec("250"), PriceType: pricing.AdjustmentFixed, CalculationType: pricing.CalculationTotal, Quantity: 2},
		},
		Measurement: pricing.Measurement{Type: pricing.MeasurementLine, Value: dec("120")},
	}
}

func TestCalculateLine_FullPipeline(t *testing.T) {
	result := pricing.CalculateLine(fenceDraft())

	// 120 linear feet lands in the 100+ tier at 28; +10% Cedar = 30.8
	assertDecimal(t, "BillableQuantity", result.BillableQuantity, dec("120"))
	assertDecimal(t, "BaseUnitPrice", result.BaseUnitPrice, dec("28"))
	assertDecimal(t, "AdjustedUnitPrice", result.AdjustedUnitPrice, dec("30.8"))
	if result.VariationName != "Cedar" {
		t.Fatalf("VariationName = %q, want Cedar", result.VariationName)
	}

	// base 30.8*120 = 3696, of which 2.8*120 = 336 is the variation
	assertDecimal(t, "BaseAmount", result.BaseAmount, dec("3696"))
	assertDecimal(t, "VariationCost", result.VariationCost, dec("336"))

	// stain: 2/sqft over 120*6 = 720 sqft of face = 1440; gates: 250*2 = 500
	if len(result.Addons) != 2 {
		t.Fatalf("addon rows = %d, want 2", len(result.Addons))
	}
	assertDecimal(t, "stain contribution", result.Addons[0].Contribution, dec("1440"))
	assertDecimal(t, "gate contribution", result.Addons[1].Contribution, dec("500"))
	assertDecimal(t, "AddonTotal", result.AddonTotal, dec("1940"))
	assertDecimal(t, "LineTotal", result.LineTotal, dec("5636"))
}

func TestCalculateLine_Determinism(t *testing.T) {
	d := fenceDraft()

	first := pricing.CalculateLine(d)
	for i := 0; i < 50; i++ {
		again := pricing.CalculateLine(d)
		if !again.LineTotal.Equal(first.LineTotal) ||
			!again.BillableQuantity.Equal(first.BillableQuantity) ||
			!again.AdjustedUnitPrice.Equal(first.AdjustedUnitPrice) ||
			!again.AddonTotal.Equal(first.AddonTotal) {
			t.Fatalf("run %d diverged: %+v vs %+v", i, again, first)
		}
	}
}

func TestCalculateLine_VolumeProduct(t *testing.T) {
	d := pricing.LineItemDraft{
		Product:     pricing.ProductInput{ListPrice: dec("45"), IsVolumeUnit: true},
		Measurement: pricing.Measurement{Type: pricing.MeasurementArea, Value: dec("900"), Depth: decPtr("3")},
	}

	result := pricing.CalculateLine(d)

	qty := dec("2700").Div(dec("324"))
	assertDecimal(t, "BillableQuantity", result.BillableQuantity, qty)
	assertDecimal(t, "LineTotal", result.LineTotal, qty.Mul(dec("45")))
}

func TestCalculateLine_NoSelections(t *testing.T) {
	d := pricing.LineItemDraft{
		Product:     pricing.ProductInput{ListPrice: dec("12.5")},
		Measurement: pricing.Measurement{Type: pricing.MeasurementPoint, Value: dec("4")},
	}

	result := pricing.CalculateLine(d)

	assertDecimal(t, "LineTotal", result.LineTotal, dec("50"))
	assertDecimal(t, "VariationCost", result.VariationCost, decimal.Zero)
	if result.VariationName != "" {
		t.Fatalf("VariationName = %q, want empty", result.VariationName)
	}
	if len(result.Addons) != 0 {
		t.Fatalf("addons = %+v, want none", result.Addons)
	}
}

func TestCalculateQuoteTotals_MarkupThenTax(t *testing.T) {
	s := pricing.Settings{MarkupPercentage: dec("10"), TaxRate: dec("8")}

	totals := pricing.CalculateQuoteTotals([]decimal.Decimal{dec("600"), dec("400")}, s)

	assertDecimal(t, "Subtotal", totals.Subtotal, dec("1000"))
	assertDecimal(t, "MarkupAmount", totals.MarkupAmount, dec("100"))
	// tax applies after markup: 8% of 1100
	assertDecimal(t, "TaxAmount", totals.TaxAmount, dec("88"))
	assertDecimal(t, "Total", totals.Total, dec("1188"))
}

func TestCalculateQuoteTotals_NoMarkupNoTax(t *testing.T) {
	totals := pricing.CalculateQuoteTotals([]decimal.Decimal{dec("600"), dec("400")}, pricing.Settings{})

	assertDecimal(t, "Subtotal", totals.Subtotal, dec("1000"))
	assertDecimal(t, "MarkupAmount", totals.MarkupAmount, decimal.Zero)
	assertDecimal(t, "TaxAmount", totals.TaxAmount, decimal.Zero)
	assertDecimal(t, "Total", totals.Total, dec("1000"))
}

func TestCalculateQuoteTotals_Empty(t *testing.T) {
	totals := pricing.CalculateQuoteTotals(nil, pricing.Settings{TaxRate: dec("8")})

	assertDecimal(t, "Subtotal", totals.Subtotal, decimal.Zero)
	assertDecimal(t, "Total", totals.Total, decimal.Zero)
}

func TestCalculateQuoteTotals_NoIntermediateRounding(t *testing.T) {
	// 3 lines of 8.333...*45 carry full precision into the subtotal;
	// rounding happens only in pricing.FormatExactPrice
	qty := dec("2700").Div(dec("324"))
	line := qty.Mul(dec("45"))

	totals := pricing.CalculateQuoteTotals([]decimal.Decimal{line, line, line}, pricing.Settings{})

	assertDecimal(t, "Subtotal", totals.Subtotal, line.Mul(dec("3")))
	if pricing.FormatExactPrice(totals.Total, "$", 2) != "$1125.00" {
		t.Fatalf("formatted total = %s, want $1125.00", pricing.FormatExactPrice(totals.Total, "$", 2))
	}
}
