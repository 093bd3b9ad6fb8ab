package pricing_test

import (
	"testing"

	"bitbucket.org/mmdatafocus/quotes_backend/pricing"
)

func TestResolveRange_ExactRetained(t *testing.T) {
	// exact 200 with -10%/+20% shows [180, 240]; the exact figure stays
	s := pricing.Settings{RangeEnabled: true, RangeLowerBound: dec("10"), RangeUpperBound: dec("20")}

	r := pricing.ResolveRange(dec("200"), s)
	if r == nil {
		t.Fatal("expected a range")
	}
	assertDecimal(t, "Low", r.Low, dec("180"))
	assertDecimal(t, "High", r.High, dec("240"))
	assertDecimal(t, "Exact", r.Exact, dec("200"))
}

func TestResolveRange_Disabled(t *testing.T) {
	s := pricing.Settings{RangeLowerBound: dec("10"), RangeUpperBound: dec("20")}

	if r := pricing.ResolveRange(dec("200"), s); r != nil {
		t.Fatalf("range disabled, got %+v", r)
	}
}

func TestResolveRange_LegacySymmetricPercentage(t *testing.T) {
	s := pricing.Settings{RangeEnabled: true, RangePercentage: dec("15")}

	r := pricing.ResolveRange(dec("200"), s)
	if r == nil {
		t.Fatal("expected a range")
	}
	assertDecimal(t, "Low", r.Low, dec("170"))
	assertDecimal(t, "High", r.High, dec("230"))
	assertDecimal(t, "LowerBound", r.LowerBound, dec("15"))
	assertDecimal(t, "UpperBound", r.UpperBound, dec("15"))
}

func TestResolveRange_ExplicitBoundsBeatLegacy(t *testing.T) {
	s := pricing.Settings{
		RangeEnabled:    true,
		RangeLowerBound: dec("10"),
		RangeUpperBound: dec("20"),
		RangePercentage: dec("50"),
	}

	r := pricing.ResolveRange(dec("200"), s)
	assertDecimal(t, "Low", r.Low, dec("180"))
	assertDecimal(t, "High", r.High, dec("240"))
}

func TestResolveRange_DefaultFormat(t *testing.T) {
	s := pricing.Settings{RangeEnabled: true, RangeLowerBound: dec("10"), RangeUpperBound: dec("20")}

	r := pricing.ResolveRange(dec("200"), s)
	if r.Format != pricing.RangeFormatDollarAmounts {
		t.Fatalf("Format = %q, want %q", r.Format, pricing.RangeFormatDollarAmounts)
	}
}

func TestResolveRange_ZeroBoundsCollapse(t *testing.T) {
	s := pricing.Settings{RangeEnabled: true}

	r := pricing.ResolveRange(dec("200"), s)
	if r == nil {
		t.Fatal("expected a range")
	}
	assertDecimal(t, "Low", r.Low, dec("200"))
	assertDecimal(t, "High", r.High, dec("200"))
}
