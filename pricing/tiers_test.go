package pricing_test

import (
	"testing"

	"bitbucket.org/mmdatafocus/quotes_backend/pricing"
)

func TestResolveUnitPrice_TierBoundaries(t *testing.T) {
	p := pricing.ProductInput{ListPrice: dec("100"), TierPricingEnabled: true}
	tiers := []pricing.Tier{
		{MinQuantity: dec("10"), MaxQuantity: decPtr("19"), UnitPrice: dec("90")},
		{MinQuantity: dec("20"), MaxQuantity: nil, UnitPrice: dec("80")},
	}

	cases := []struct {
		qty  string
		want string
	}{
		{"9", "100"},
		{"10", "90"},
		{"19", "90"},
		{"19.5", "100"},
		{"20", "80"},
		{"500", "80"},
	}
	for _, tc := range cases {
		got := pricing.ResolveUnitPrice(dec(tc.qty), tiers, p)
		if !got.Equal(dec(tc.want)) {
			t.Fatalf("qty %s: unit price = %s, want %s", tc.qty, got.String(), tc.want)
		}
	}
}

func TestResolveUnitPrice_OpenEndedTier(t *testing.T) {
	p := pricing.ProductInput{ListPrice: dec("100"), TierPricingEnabled: true}
	tiers := []pricing.Tier{
		{MinQuantity: dec("1"), MaxQuantity: nil, UnitPrice: dec("95")},
	}

	got := pricing.ResolveUnitPrice(dec("1000000"), tiers, p)
	assertDecimal(t, "unit price", got, dec("95"))
}

func TestResolveUnitPrice_FirstMatchWinsOnOverlap(t *testing.T) {
	p := pricing.ProductInput{ListPrice: dec("100"), TierPricingEnabled: true}
	tiers := []pricing.Tier{
		{MinQuantity: dec("10"), MaxQuantity: decPtr("30"), UnitPrice: dec("90")},
		{MinQuantity: dec("20"), MaxQuantity: decPtr("40"), UnitPrice: dec("70")},
	}

	got := pricing.ResolveUnitPrice(dec("25"), tiers, p)
	assertDecimal(t, "unit price", got, dec("90"))
}

func TestResolveUnitPrice_TieringDisabled(t *testing.T) {
	p := pricing.ProductInput{ListPrice: dec("100")}
	tiers := []pricing.Tier{
		{MinQuantity: dec("1"), MaxQuantity: nil, UnitPrice: dec("50")},
	}

	got := pricing.ResolveUnitPrice(dec("10"), tiers, p)
	assertDecimal(t, "unit price", got, dec("100"))
}

func TestResolveUnitPrice_NoTiersFallsBackToListPrice(t *testing.T) {
	p := pricing.ProductInput{ListPrice: dec("42.75"), TierPricingEnabled: true}

	got := pricing.ResolveUnitPrice(dec("10"), nil, p)
	assertDecimal(t, "unit price", got, dec("42.75"))
}

func TestResolveUnitPrice_GapFallsBackToListPrice(t *testing.T) {
	p := pricing.ProductInput{ListPrice: dec("100"), TierPricingEnabled: true}
	tiers := []pricing.Tier{
		{MinQuantity: dec("10"), MaxQuantity: decPtr("19"), UnitPrice: dec("90")},
		{MinQuantity: dec("50"), MaxQuantity: nil, UnitPrice: dec("80")},
	}

	got := pricing.ResolveUnitPrice(dec("30"), tiers, p)
	assertDecimal(t, "unit price", got, dec("100"))
}

func TestResolveUnitPrice_FractionalQuantity(t *testing.T) {
	p := pricing.ProductInput{ListPrice: dec("100"), TierPricingEnabled: true}
	tiers := []pricing.Tier{
		{MinQuantity: dec("0"), MaxQuantity: decPtr("8.5"), UnitPrice: dec("110")},
		{MinQuantity: dec("8.5"), MaxQuantity: nil, UnitPrice: dec("95")},
	}

	// 8.333... cubic yards lands in the first band
	qty := dec("2700").Div(dec("324"))
	got := pricing.ResolveUnitPrice(qty, tiers, p)
	assertDecimal(t, "unit price", got, dec("110"))
}
