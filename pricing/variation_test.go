package pricing_test

import (
	"testing"

	"bitbucket.org/mmdatafocus/quotes_backend/pricing"
)

func TestApplyVariationAdjustment_Percentage(t *testing.T) {
	// list price 50 with a +10% variation is 55
	v := &pricing.VariationInput{Name: "Premium", Adjustment: dec("10"), AdjustmentType: pricing.AdjustmentPercentage}

	got := pricing.ApplyVariationAdjustment(dec("50"), v)
	assertDecimal(t, "adjusted price", got, dec("55"))
}

func TestApplyVariationAdjustment_Fixed(t *testing.T) {
	// list price 50 with a +10 fixed variation is 60
	v := &pricing.VariationInput{Name: "Premium", Adjustment: dec("10"), AdjustmentType: pricing.AdjustmentFixed}

	got := pricing.ApplyVariationAdjustment(dec("50"), v)
	assertDecimal(t, "adjusted price", got, dec("60"))
}

func TestApplyVariationAdjustment_NegativePercentage(t *testing.T) {
	v := &pricing.VariationInput{Name: "Economy", Adjustment: dec("-25"), AdjustmentType: pricing.AdjustmentPercentage}

	got := pricing.ApplyVariationAdjustment(dec("80"), v)
	assertDecimal(t, "adjusted price", got, dec("60"))
}

func TestApplyVariationAdjustment_NegativeFixed(t *testing.T) {
	v := &pricing.VariationInput{Name: "Scratch and dent", Adjustment: dec("-12.5"), AdjustmentType: pricing.AdjustmentFixed}

	got := pricing.ApplyVariationAdjustment(dec("80"), v)
	assertDecimal(t, "adjusted price", got, dec("67.5"))
}

func TestApplyVariationAdjustment_NilVariation(t *testing.T) {
	got := pricing.ApplyVariationAdjustment(dec("50"), nil)
	assertDecimal(t, "adjusted price", got, dec("50"))
}

func TestApplyVariationAdjustment_ZeroAdjustment(t *testing.T) {
	cases := []pricing.AdjustmentType{pricing.AdjustmentPercentage, pricing.AdjustmentFixed}
	for _, at := range cases {
		v := &pricing.VariationInput{Name: "Standard", Adjustment: dec("0"), AdjustmentType: at}
		got := pricing.ApplyVariationAdjustment(dec("50"), v)
		if !got.Equal(dec("50")) {
			t.Fatalf("%s zero adjustment: got %s, want 50", at, got.String())
		}
	}
}

func TestApplyVariationAdjustment_PercentagePrecision(t *testing.T) {
	// 33.33 at +7.5% keeps full precision until formatting
	v := &pricing.VariationInput{Adjustment: dec("7.5"), AdjustmentType: pricing.AdjustmentPercentage}

	got := pricing.ApplyVariationAdjustment(dec("33.33"), v)
	assertDecimal(t, "adjusted price", got, dec("35.829750"))
}
