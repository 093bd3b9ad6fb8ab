package pricing_test

import (
	"testing"

	"bitbucket.org/mmdatafocus/quotes_backend/pricing"
)

func TestValidateDraft_DepthRequired(t *testing.T) {
	d := pricing.LineItemDraft{
		Product:     pricing.ProductInput{ListPrice: dec("100"), IsVolumeUnit: true},
		Measurement: pricing.Measurement{Type: pricing.MeasurementArea, Value: dec("900")},
	}

	guards := pricing.ValidateDraft(d)
	if len(guards) != 1 {
		t.Fatalf("guards = %d, want 1", len(guards))
	}
	if guards[0].Code != pricing.GuardDepthRequired || !guards[0].Blocking {
		t.Fatalf("guard = %+v, want blocking %s", guards[0], pricing.GuardDepthRequired)
	}
	if !pricing.HasBlockingGuard(guards) {
		t.Fatal("expected a blocking guard")
	}
}

func TestValidateDraft_DepthSatisfied(t *testing.T) {
	d := pricing.LineItemDraft{
		Product:     pricing.ProductInput{ListPrice: dec("100"), IsVolumeUnit: true},
		Measurement: pricing.Measurement{Type: pricing.MeasurementArea, Value: dec("900"), Depth: decPtr("3")},
	}

	if guards := pricing.ValidateDraft(d); len(guards) != 0 {
		t.Fatalf("guards = %+v, want none", guards)
	}
}

func TestValidateDraft_RequiredVariation(t *testing.T) {
	d := pricing.LineItemDraft{
		Product:     pricing.ProductInput{ListPrice: dec("100"), HasRequiredVariation: true},
		Measurement: pricing.Measurement{Type: pricing.MeasurementArea, Value: dec("100")},
	}

	guards := pricing.ValidateDraft(d)
	if len(guards) != 1 || guards[0].Code != pricing.GuardVariationRequired {
		t.Fatalf("guards = %+v, want %s", guards, pricing.GuardVariationRequired)
	}

	d.Variation = &pricing.VariationInput{Name: "Cedar"}
	if guards := pricing.ValidateDraft(d); len(guards) != 0 {
		t.Fatalf("guards after selection = %+v, want none", guards)
	}
}

func TestValidateDraft_BelowMinimumWarnsWithoutBlocking(t *testing.T) {
	d := pricing.LineItemDraft{
		Product:     pricing.ProductInput{ListPrice: dec("100"), MinimumOrderQuantity: dec("50")},
		Measurement: pricing.Measurement{Type: pricing.MeasurementLine, Value: dec("30")},
	}

	guards := pricing.ValidateDraft(d)
	if len(guards) != 1 || guards[0].Code != pricing.GuardBelowMinimum {
		t.Fatalf("guards = %+v, want %s", guards, pricing.GuardBelowMinimum)
	}
	if guards[0].Blocking {
		t.Fatal("below-minimum must not block")
	}
	if pricing.HasBlockingGuard(guards) {
		t.Fatal("HasBlockingGuard should be false for warnings only")
	}
}

func TestValidateDraft_MinimumComparesBillableQuantity(t *testing.T) {
	// 900 sqft at 3in is 8.33 cubic yards, over a minimum of 5
	d := pricing.LineItemDraft{
		Product:     pricing.ProductInput{ListPrice: dec("100"), IsVolumeUnit: true, MinimumOrderQuantity: dec("5")},
		Measurement: pricing.Measurement{Type: pricing.MeasurementArea, Value: dec("900"), Depth: decPtr("3")},
	}

	if guards := pricing.ValidateDraft(d); len(guards) != 0 {
		t.Fatalf("guards = %+v, want none", guards)
	}
}
