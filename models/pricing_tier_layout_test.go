package models

import (
	"strings"
	"testing"

	"bitbucket.org/mmdatafocus/quotes_backend/pricing"
	"bitbucket.org/mmdatafocus/quotes_backend/utils"
)

func TestValidateTierLayout_CleanTable(t *testing.T) {
	tiers := []PricingTier{
		{ProductId: 1, MinQuantity: dec("0"), MaxQuantity: dec("500"), UnitPrice: dec("2.50")},
		{ProductId: 1, MinQuantity: dec("500"), MaxQuantity: dec("2000"), UnitPrice: dec("2.10")},
		{ProductId: 1, MinQuantity: dec("2000"), UnitPrice: dec("1.80")},
	}
	if issues := ValidateTierLayout(tiers); len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
}

func TestValidateTierLayout_Empty(t *testing.T) {
	if issues := ValidateTierLayout(nil); issues != nil {
		t.Fatalf("nil table should produce no issues, got %v", issues)
	}
}

func TestValidateTierLayout_Overlap(t *testing.T) {
	tiers := []PricingTier{
		{ProductId: 1, MinQuantity: dec("0"), MaxQuantity: dec("100"), UnitPrice: dec("10")},
		{ProductId: 1, MinQuantity: dec("50"), UnitPrice: dec("8")},
	}
	issues := ValidateTierLayout(tiers)
	if len(issues) != 1 || !strings.Contains(issues[0].Detail, "overlaps") {
		t.Fatalf("expected one overlap issue, got %v", issues)
	}
}

func TestValidateTierLayout_Gap(t *testing.T) {
	tiers := []PricingTier{
		{ProductId: 1, MinQuantity: dec("0"), MaxQuantity: dec("100"), UnitPrice: dec("10")},
		{ProductId: 1, MinQuantity: dec("150"), UnitPrice: dec("8")},
	}
	issues := ValidateTierLayout(tiers)
	if len(issues) != 1 || !strings.Contains(issues[0].Detail, "gap") {
		t.Fatalf("expected one gap issue, got %v", issues)
	}
}

func TestValidateTierLayout_UnboundedNotLast(t *testing.T) {
	tiers := []PricingTier{
		{ProductId: 1, MinQuantity: dec("100"), MaxQuantity: dec("200"), UnitPrice: dec("8")},
		{ProductId: 1, MinQuantity: dec("0"), UnitPrice: dec("10")},
	}
	issues := ValidateTierLayout(tiers)
	found := false
	for _, issue := range issues {
		if strings.Contains(issue.Detail, "unbounded") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an unbounded-position issue, got %v", issues)
	}
}

func TestValidateTierLayout_InvertedBounds(t *testing.T) {
	tiers := []PricingTier{
		{ProductId: 1, MinQuantity: dec("100"), MaxQuantity: dec("50"), UnitPrice: dec("8")},
	}
	issues := ValidateTierLayout(tiers)
	if len(issues) != 1 || !strings.Contains(issues[0].Detail, "not greater than min") {
		t.Fatalf("expected one inverted-bounds issue, got %v", issues)
	}
}

func TestValidateTierLayout_InactiveTiersSkipped(t *testing.T) {
	// the inactive middle band would overlap both neighbours if it counted
	tiers := []PricingTier{
		{ProductId: 1, MinQuantity: dec("0"), MaxQuantity: dec("100"), UnitPrice: dec("10"), IsActive: utils.NewTrue()},
		{ProductId: 1, MinQuantity: dec("50"), MaxQuantity: dec("150"), UnitPrice: dec("9"), IsActive: utils.NewFalse()},
		{ProductId: 1, MinQuantity: dec("100"), UnitPrice: dec("8"), IsActive: utils.NewTrue()},
	}
	if issues := ValidateTierLayout(tiers); len(issues) != 0 {
		t.Fatalf("inactive tiers should not be audited, got %v", issues)
	}
}

func TestTierPricingInputs_DisplayOrderWins(t *testing.T) {
	// display order inverts quantity order; first-match resolution must
	// follow the editor's ordering, not MinQuantity
	tiers := []PricingTier{
		{ProductId: 1, MinQuantity: dec("0"), MaxQuantity: dec("200"), UnitPrice: dec("10"), DisplayOrder: 2, IsActive: utils.NewTrue()},
		{ProductId: 1, MinQuantity: dec("100"), UnitPrice: dec("8"), DisplayOrder: 1, IsActive: utils.NewTrue()},
	}
	inputs := TierPricingInputs(tiers)
	if len(inputs) != 2 {
		t.Fatalf("expected 2 bands, got %d", len(inputs))
	}
	if !inputs[0].UnitPrice.Equal(dec("8")) || !inputs[1].UnitPrice.Equal(dec("10")) {
		t.Fatalf("bands out of display order: %s then %s", inputs[0].UnitPrice, inputs[1].UnitPrice)
	}
	got := pricing.ResolveUnitPrice(dec("150"), inputs, pricing.ProductInput{ListPrice: dec("12"), TierPricingEnabled: true})
	if !got.Equal(dec("8")) {
		t.Fatalf("quantity 150 resolved to %s, want first band in display order (8)", got)
	}
}

func TestTierPricingInputs_InactiveExcluded(t *testing.T) {
	tiers := []PricingTier{
		{ProductId: 1, MinQuantity: dec("0"), MaxQuantity: dec("100"), UnitPrice: dec("10"), DisplayOrder: 1, IsActive: utils.NewFalse()},
		{ProductId: 1, MinQuantity: dec("0"), UnitPrice: dec("9"), DisplayOrder: 2, IsActive: utils.NewTrue()},
	}
	inputs := TierPricingInputs(tiers)
	if len(inputs) != 1 {
		t.Fatalf("expected the inactive band dropped, got %d bands", len(inputs))
	}
	got := pricing.ResolveUnitPrice(dec("50"), inputs, pricing.ProductInput{ListPrice: dec("12"), TierPricingEnabled: true})
	if !got.Equal(dec("9")) {
		t.Fatalf("quantity 50 resolved to %s, want 9 from the active band", got)
	}
}

func TestTierPricingInputs_LegacyNoDisplayOrder(t *testing.T) {
	// tables predating display order sort by MinQuantity
	tiers := []PricingTier{
		{ProductId: 1, MinQuantity: dec("100"), UnitPrice: dec("8")},
		{ProductId: 1, MinQuantity: dec("0"), MaxQuantity: dec("100"), UnitPrice: dec("10")},
	}
	inputs := TierPricingInputs(tiers)
	if len(inputs) != 2 || !inputs[0].UnitPrice.Equal(dec("10")) {
		t.Fatalf("legacy table not in quantity order: %+v", inputs)
	}
}
