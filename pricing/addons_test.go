package pricing_test

import (
	"testing"

	"bitbucket.org/mmdatafocus/quotes_backend/pricing"
	"github.com/shopspring/decimal"
)

func TestEffectiveHeight_Precedence(t *testing.T) {
	cases := []struct {
		name string
		v    *pricing.VariationInput
		p    pricing.ProductInput
		want string
	}{
		{"variation height wins", &pricing.VariationInput{Height: decPtr("8")}, pricing.ProductInput{BaseHeight: decPtr("6")}, "8"},
		{"product base height", nil, pricing.ProductInput{BaseHeight: decPtr("6")}, "6"},
		{"variation without height falls to product", &pricing.VariationInput{}, pricing.ProductInput{BaseHeight: decPtr("6")}, "6"},
		{"default one", nil, pricing.ProductInput{}, "1"},
		{"zero heights ignored", &pricing.VariationInput{Height: decPtr("0")}, pricing.ProductInput{BaseHeight: decPtr("0")}, "1"},
	}
	for _, tc := range cases {
		got := pricing.EffectiveHeight(tc.v, tc.p)
		if !got.Equal(dec(tc.want)) {
			t.Fatalf("%s: height = %s, want %s", tc.name, got.String(), tc.want)
		}
	}
}

func TestCalculateAddons_AreaCalculationWithBaseHeight(t *testing.T) {
	// 100 linear ft of fence, 6ft base height: addon area 600.
	// A 2.00/sqft sealant add-on contributes 1200.
	p := pricing.ProductInput{BaseHeight: decPtr("6")}
	addons := []pricing.AddonInput{
		{Name: "Sealant", PriceValue: dec("2"), PriceType: pricing.AdjustmentFixed, CalculationType: pricing.CalculationArea, Quantity: 1},
	}

	breakdown, total := pricing.CalculateAddons(addons, dec("100"), dec("30"), nil, p)

	if len(breakdown) != 1 {
		t.Fatalf("breakdown length = %d, want 1", len(breakdown))
	}
	assertDecimal(t, "contribution", breakdown[0].Contribution, dec("1200"))
	assertDecimal(t, "total", total, dec("1200"))
}

func TestCalculateAddons_AreaCalculationVariationHeightOverride(t *testing.T) {
	// variation height 8 overrides the product's 6
	p := pricing.ProductInput{BaseHeight: decPtr("6")}
	v := &pricing.VariationInput{Height: decPtr("8")}
	addons := []pricing.AddonInput{
		{Name: "Stain", PriceValue: dec("1.5"), PriceType: pricing.AdjustmentFixed, CalculationType: pricing.CalculationArea, Quantity: 1},
	}

	_, total := pricing.CalculateAddons(addons, dec("100"), dec("30"), v, p)
	assertDecimal(t, "total", total, dec("1200"))
}

func TestCalculateAddons_PerUnitFixed(t *testing.T) {
	addons := []pricing.AddonInput{
		{Name: "Gate latch", PriceValue: dec("5"), PriceType: pricing.AdjustmentFixed, CalculationType: pricing.CalculationPerUnit, Quantity: 1},
	}

	breakdown, total := pricing.CalculateAddons(addons, dec("40"), dec("30"), nil, pricing.ProductInput{})

	assertDecimal(t, "contribution", breakdown[0].Contribution, dec("200"))
	assertDecimal(t, "total", total, dec("200"))
}

func TestCalculateAddons_TotalFixed(t *testing.T) {
	addons := []pricing.AddonInput{
		{Name: "Delivery", PriceValue: dec("75"), PriceType: pricing.AdjustmentFixed, CalculationType: pricing.CalculationTotal, Quantity: 1},
	}

	_, total := pricing.CalculateAddons(addons, dec("40"), dec("30"), nil, pricing.ProductInput{})
	assertDecimal(t, "total", total, dec("75"))
}

func TestCalculateAddons_LegacyPercentageOfUnitPrice(t *testing.T) {
	// total mode percentage bills against the unit price alone: 10% of 30 = 3
	addons := []pricing.AddonInput{
		{Name: "Rush surcharge", PriceValue: dec("10"), PriceType: pricing.AdjustmentPercentage, CalculationType: pricing.CalculationTotal, Quantity: 1},
	}

	_, total := pricing.CalculateAddons(addons, dec("40"), dec("30"), nil, pricing.ProductInput{})
	assertDecimal(t, "total", total, dec("3"))
}

func TestCalculateAddons_PercentagePerUnit(t *testing.T) {
	addons := []pricing.AddonInput{
		{Name: "Waste factor", PriceValue: dec("5"), PriceType: pricing.AdjustmentPercentage, CalculationType: pricing.CalculationPerUnit, Quantity: 1},
	}

	// 5% of 30*40 = 60
	_, total := pricing.CalculateAddons(addons, dec("40"), dec("30"), nil, pricing.ProductInput{})
	assertDecimal(t, "total", total, dec("60"))
}

func TestCalculateAddons_OptionAdjustsEffectivePrice(t *testing.T) {
	cases := []struct {
		name   string
		option pricing.AddonOptionInput
		want   string
	}{
		// per-unit 5 with +20% option: 6 * 40 = 240
		{"percentage option", pricing.AddonOptionInput{Name: "Heavy duty", Adjustment: dec("20"), AdjustmentType: pricing.AdjustmentPercentage}, "240"},
		// per-unit 5 with +2.5 fixed option: 7.5 * 40 = 300
		{"fixed option", pricing.AddonOptionInput{Name: "Heavy duty", Adjustment: dec("2.5"), AdjustmentType: pricing.AdjustmentFixed}, "300"},
	}
	for _, tc := range cases {
		opt := tc.option
		addons := []pricing.AddonInput{
			{Name: "Post caps", PriceValue: dec("5"), PriceType: pricing.AdjustmentFixed, CalculationType: pricing.CalculationPerUnit, Quantity: 1, SelectedOption: &opt},
		}
		_, total := pricing.CalculateAddons(addons, dec("40"), dec("30"), nil, pricing.ProductInput{})
		if !total.Equal(dec(tc.want)) {
			t.Fatalf("%s: total = %s, want %s", tc.name, total.String(), tc.want)
		}
	}
}

func TestCalculateAddons_UserQuantityMultiplies(t *testing.T) {
	addons := []pricing.AddonInput{
		{Name: "Gate", PriceValue: dec("250"), PriceType: pricing.AdjustmentFixed, CalculationType: pricing.CalculationTotal, Quantity: 3},
	}

	breakdown, total := pricing.CalculateAddons(addons, dec("40"), dec("30"), nil, pricing.ProductInput{})

	if breakdown[0].Quantity != 3 {
		t.Fatalf("breakdown quantity = %d, want 3", breakdown[0].Quantity)
	}
	assertDecimal(t, "unit price", breakdown[0].UnitPrice, dec("250"))
	assertDecimal(t, "contribution", breakdown[0].Contribution, dec("750"))
	assertDecimal(t, "total", total, dec("750"))
}

func TestCalculateAddons_ZeroQuantityExcluded(t *testing.T) {
	addons := []pricing.AddonInput{
		{Name: "Gate", PriceValue: dec("250"), PriceType: pricing.AdjustmentFixed, CalculationType: pricing.CalculationTotal, Quantity: 0},
		{Name: "Latch", PriceValue: dec("5"), PriceType: pricing.AdjustmentFixed, CalculationType: pricing.CalculationPerUnit, Quantity: 1},
	}

	breakdown, total := pricing.CalculateAddons(addons, dec("40"), dec("30"), nil, pricing.ProductInput{})

	if len(breakdown) != 1 {
		t.Fatalf("breakdown length = %d, want 1 (zero-quantity add-on must not appear)", len(breakdown))
	}
	if breakdown[0].Name != "Latch" {
		t.Fatalf("breakdown[0] = %q, want Latch", breakdown[0].Name)
	}
	assertDecimal(t, "total", total, dec("200"))
}

func TestCalculateAddons_Empty(t *testing.T) {
	breakdown, total := pricing.CalculateAddons(nil, dec("40"), dec("30"), nil, pricing.ProductInput{})

	if len(breakdown) != 0 {
		t.Fatalf("breakdown length = %d, want 0", len(breakdown))
	}
	if !total.Equal(decimal.Zero) {
		t.Fatalf("total = %s, want 0", total.String())
	}
}
