package models

import (
	"testing"

	"bitbucket.org/mmdatafocus/quotes_backend/pricing"
	"bitbucket.org/mmdatafocus/quotes_backend/utils"
	"github.com/shopspring/decimal"
)

// NOTE: These tests are intentionally DB-free. They exercise the line
// computation and the status machine directly; persistence paths need a
// MySQL instance and are covered by environment-specific integration runs.

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func fencingLine() quoteLineContext {
	product := &Product{
		ID:                     7,
		Name:                   "Privacy Fence",
		UnitLabel:              "linear ft",
		UnitType:               UnitTypeLength,
		MeasurementType:        MeasurementTypeLine,
		ListPrice:              dec("32"),
		TierPricingEnabled:     utils.NewTrue(),
		SoldInIncrementsOf:     dec("8"),
		AllowPartialIncrements: utils.NewFalse(),
		PricingTiers: []PricingTier{
			{MinQuantity: dec("0"), MaxQuantity: dec("100"), UnitPrice: dec("32")},
			{MinQuantity: dec("100"), UnitPrice: dec("28")},
		},
	}
	variation := &Variation{
		ID:             3,
		Name:           "8 ft",
		Adjustment:     dec("25"),
		AdjustmentType: AdjustmentTypePercentage,
	}
	addon := Addon{
		ID:              5,
		Name:            "Walk Gate",
		PriceValue:      dec("350"),
		PriceType:       AdjustmentTypeFixed,
		CalculationType: AddonCalculationTypeTotal,
	}
	return quoteLineContext{
		product:   product,
		variation: variation,
		addons:    []quoteLineAddon{{addon: addon, quantity: 2}},
		measurement: pricing.Measurement{
			Type:  pricing.MeasurementLine,
			Value: dec("117.5"),
		},
	}
}

func TestComputeQuoteLines_FullPipeline(t *testing.T) {
	settings := pricing.Settings{
		TaxRate:          dec("10"),
		MarkupPercentage: dec("5"),
	}

	items, totals, err := computeQuoteLines([]quoteLineContext{fencingLine()}, settings)
	if err != nil {
		t.Fatalf("computeQuoteLines: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	item := items[0]

	// 117.5 rounds up to the next whole 8 ft increment.
	if !item.BillableQuantity.Equal(dec("120")) {
		t.Fatalf("billable quantity = %s, want 120", item.BillableQuantity)
	}
	if item.IncrementApplied == nil || !*item.IncrementApplied {
		t.Fatal("increment rounding should be flagged")
	}
	// Tier lookup happens on the billable quantity (120 -> 28), then the
	// 25% variation lands on top.
	if !item.BaseUnitPrice.Equal(dec("28")) {
		t.Fatalf("base unit price = %s, want 28", item.BaseUnitPrice)
	}
	if !item.AdjustedUnitPrice.Equal(dec("35")) {
		t.Fatalf("adjusted unit price = %s, want 35", item.AdjustedUnitPrice)
	}
	// 35 * 120 = 4200, plus two fixed 350 gates.
	if !item.BaseAmount.Equal(dec("4200")) {
		t.Fatalf("base amount = %s, want 4200", item.BaseAmount)
	}
	if !item.AddonTotal.Equal(dec("700")) {
		t.Fatalf("addon total = %s, want 700", item.AddonTotal)
	}
	if !item.LineTotal.Equal(dec("4900")) {
		t.Fatalf("line total = %s, want 4900", item.LineTotal)
	}

	// Totals: subtotal 4900, +5% markup 245, +10% tax on 5145.
	if !totals.Subtotal.Equal(dec("4900")) {
		t.Fatalf("subtotal = %s, want 4900", totals.Subtotal)
	}
	if !totals.MarkupAmount.Equal(dec("245")) {
		t.Fatalf("markup = %s, want 245", totals.MarkupAmount)
	}
	if !totals.TaxAmount.Equal(dec("514.5")) {
		t.Fatalf("tax = %s, want 514.5", totals.TaxAmount)
	}
	if !totals.Total.Equal(dec("5659.5")) {
		t.Fatalf("total = %s, want 5659.5", totals.Total)
	}
}

func TestComputeQuoteLines_Deterministic(t *testing.T) {
	settings := pricing.Settings{TaxRate: dec("8.25")}

	first, firstTotals, err := computeQuoteLines([]quoteLineContext{fencingLine()}, settings)
	if err != nil {
		t.Fatalf("computeQuoteLines: %v", err)
	}
	for i := 0; i < 50; i++ {
		items, totals, err := computeQuoteLines([]quoteLineContext{fencingLine()}, settings)
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if !totals.Total.Equal(firstTotals.Total) {
			t.Fatalf("run %d: total %s != %s", i, totals.Total, firstTotals.Total)
		}
		if !items[0].LineTotal.Equal(first[0].LineTotal) {
			t.Fatalf("run %d: line total %s != %s", i, items[0].LineTotal, first[0].LineTotal)
		}
	}
}

func TestComputeQuoteLines_BlockingGuardFails(t *testing.T) {
	line := fencingLine()
	line.product.VariationRequired = utils.NewTrue()
	line.variation = nil

	_, _, err := computeQuoteLines([]quoteLineContext{line}, pricing.Settings{})
	if err == nil {
		t.Fatal("expected error for missing required variation")
	}
}

func TestComputeQuoteLines_BelowMinimumWarnsOnly(t *testing.T) {
	line := fencingLine()
	line.product.MinimumOrderQuantity = dec("500")

	items, _, err := computeQuoteLines([]quoteLineContext{line}, pricing.Settings{})
	if err != nil {
		t.Fatalf("warning guard must not fail computation: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
}

func TestComputeQuoteLines_VolumeDepth(t *testing.T) {
	mulch := quoteLineContext{
		product: &Product{
			ID:              11,
			Name:            "Mulch Installation",
			UnitType:        UnitTypeVolume,
			MeasurementType: MeasurementTypeArea,
			ListPrice:       dec("95"),
		},
		measurement: pricing.Measurement{
			Type:  pricing.MeasurementArea,
			Value: dec("270"),
			Depth: decPtr("3"),
		},
	}

	items, _, err := computeQuoteLines([]quoteLineContext{mulch}, pricing.Settings{})
	if err != nil {
		t.Fatalf("computeQuoteLines: %v", err)
	}
	// 270 sq ft at 3 inches = 2.5 cubic yards.
	if !items[0].MeasuredQuantity.Equal(dec("2.5")) {
		t.Fatalf("measured quantity = %s, want 2.5", items[0].MeasuredQuantity)
	}

	mulch.measurement.Depth = nil
	if _, _, err := computeQuoteLines([]quoteLineContext{mulch}, pricing.Settings{}); err == nil {
		t.Fatal("expected error for volume product without depth")
	}
}

func TestCanTransitionQuote(t *testing.T) {
	cases := []struct {
		from QuoteStatus
		to   QuoteStatus
		want bool
	}{
		{QuoteStatusDraft, QuoteStatusSubmitted, true},
		{QuoteStatusDraft, QuoteStatusCancelled, true},
		{QuoteStatusDraft, QuoteStatusAccepted, false},
		{QuoteStatusSubmitted, QuoteStatusAccepted, true},
		{QuoteStatusSubmitted, QuoteStatusDeclined, true},
		{QuoteStatusSubmitted, QuoteStatusExpired, true},
		{QuoteStatusDeclined, QuoteStatusSubmitted, true},
		{QuoteStatusExpired, QuoteStatusSubmitted, true},
		{QuoteStatusAccepted, QuoteStatusDeclined, false},
		{QuoteStatusAccepted, QuoteStatusCancelled, false},
		{QuoteStatusCancelled, QuoteStatusSubmitted, false},
	}
	for _, tc := range cases {
		if got := canTransitionQuote(tc.from, tc.to); got != tc.want {
			t.Errorf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
