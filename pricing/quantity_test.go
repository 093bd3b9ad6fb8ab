package pricing_test

import (
	"testing"

	"bitbucket.org/mmdatafocus/quotes_backend/pricing"
	"github.com/shopspring/decimal"
)

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

func assertDecimal(t *testing.T, name string, got, want decimal.Decimal) {
	t.Helper()
	if !got.Equal(want) {
		t.Fatalf("%s = %s, want %s", name, got.String(), want.String())
	}
}

func TestResolveQuantity_VolumeDepthConversion(t *testing.T) {
	// 900 sqft at 3 inches of depth: (900*3)/324 = 8.333... cubic yards
	m := pricing.Measurement{Type: pricing.MeasurementArea, Value: dec("900"), Depth: decPtr("3")}
	p := pricing.ProductInput{IsVolumeUnit: true}

	qty := pricing.ResolveQuantity(m, p, nil)

	want := dec("2700").Div(dec("324"))
	assertDecimal(t, "quantity", qty, want)
	if qty.StringFixed(2) != "8.33" {
		t.Fatalf("quantity to 2dp = %s, want 8.33", qty.StringFixed(2))
	}
}

func TestResolveQuantity_VolumeWithoutDepthPassesThrough(t *testing.T) {
	cases := []struct {
		name  string
		depth *decimal.Decimal
	}{
		{"nil depth", nil},
		{"zero depth", decPtr("0")},
		{"negative depth", decPtr("-2")},
	}
	p := pricing.ProductInput{IsVolumeUnit: true}
	for _, tc := range cases {
		m := pricing.Measurement{Type: pricing.MeasurementArea, Value: dec("900"), Depth: tc.depth}
		qty := pricing.ResolveQuantity(m, p, nil)
		if !qty.Equal(dec("900")) {
			t.Fatalf("%s: quantity = %s, want passthrough 900", tc.name, qty.String())
		}
	}
}

func TestResolveQuantity_VariationHeightConversion(t *testing.T) {
	// 120 sqft of face area with a 4ft variation height: 120*4 = 480
	m := pricing.Measurement{Type: pricing.MeasurementArea, Value: dec("120")}
	v := &pricing.VariationInput{AffectsAreaCalculation: true, Height: decPtr("4")}

	qty := pricing.ResolveQuantity(m, pricing.ProductInput{}, v)
	assertDecimal(t, "quantity", qty, dec("480"))
}

func TestResolveQuantity_VariationHeightIgnoredOffAreaMeasurement(t *testing.T) {
	m := pricing.Measurement{Type: pricing.MeasurementLine, Value: dec("120")}
	v := &pricing.VariationInput{AffectsAreaCalculation: true, Height: decPtr("4")}

	qty := pricing.ResolveQuantity(m, pricing.ProductInput{}, v)
	assertDecimal(t, "quantity", qty, dec("120"))
}

func TestResolveQuantity_Passthrough(t *testing.T) {
	cases := []struct {
		name string
		m    pricing.Measurement
		v    *pricing.VariationInput
	}{
		{"plain area", pricing.Measurement{Type: pricing.MeasurementArea, Value: dec("250.5")}, nil},
		{"line", pricing.Measurement{Type: pricing.MeasurementLine, Value: dec("75")}, nil},
		{"point", pricing.Measurement{Type: pricing.MeasurementPoint, Value: dec("3")}, nil},
		{"variation without height", pricing.Measurement{Type: pricing.MeasurementArea, Value: dec("250.5")}, &pricing.VariationInput{AffectsAreaCalculation: true}},
		{"variation not affecting area", pricing.Measurement{Type: pricing.MeasurementArea, Value: dec("250.5")}, &pricing.VariationInput{Height: decPtr("4")}},
	}
	for _, tc := range cases {
		qty := pricing.ResolveQuantity(tc.m, pricing.ProductInput{}, tc.v)
		if !qty.Equal(tc.m.Value) {
			t.Fatalf("%s: quantity = %s, want %s", tc.name, qty.String(), tc.m.Value.String())
		}
	}
}

func TestResolveIncrementRounding_RoundsUp(t *testing.T) {
	// increment size 50, measured 130: 3 units, 150 total
	p := pricing.ProductInput{SoldInIncrementsOf: decPtr("50"), IncrementLabel: "pallet"}

	r := pricing.ResolveIncrementRounding(dec("130"), p)

	if !r.WasRounded {
		t.Fatal("expected WasRounded")
	}
	if r.UnitsNeeded != 3 {
		t.Fatalf("UnitsNeeded = %d, want 3", r.UnitsNeeded)
	}
	assertDecimal(t, "RoundedQuantity", r.RoundedQuantity, dec("150"))
	assertDecimal(t, "OriginalMeasurement", r.OriginalMeasurement, dec("130"))
	if r.IncrementLabel != "pallet" {
		t.Fatalf("IncrementLabel = %q, want pallet", r.IncrementLabel)
	}
}

func TestResolveIncrementRounding_ExactMultipleNotRounded(t *testing.T) {
	p := pricing.ProductInput{SoldInIncrementsOf: decPtr("50")}

	r := pricing.ResolveIncrementRounding(dec("150"), p)

	if r.WasRounded {
		t.Fatal("exact multiple should not report rounding")
	}
	if r.UnitsNeeded != 3 {
		t.Fatalf("UnitsNeeded = %d, want 3", r.UnitsNeeded)
	}
	assertDecimal(t, "RoundedQuantity", r.RoundedQuantity, dec("150"))
}

func TestResolveIncrementRounding_PartialIncrementsAllowed(t *testing.T) {
	p := pricing.ProductInput{SoldInIncrementsOf: decPtr("50"), AllowPartialIncrements: true}

	r := pricing.ResolveIncrementRounding(dec("130"), p)

	if r.WasRounded {
		t.Fatal("partial increments should pass the raw measurement through")
	}
	assertDecimal(t, "RoundedQuantity", r.RoundedQuantity, dec("130"))
}

func TestResolveIncrementRounding_NoIncrementRule(t *testing.T) {
	r := pricing.ResolveIncrementRounding(dec("130"), pricing.ProductInput{})

	if r.WasRounded {
		t.Fatal("no increment rule should pass through")
	}
	assertDecimal(t, "RoundedQuantity", r.RoundedQuantity, dec("130"))
}

func TestResolveIncrementRounding_FractionalIncrement(t *testing.T) {
	// rolls of 7.5: measured 20 needs 3 rolls = 22.5
	p := pricing.ProductInput{SoldInIncrementsOf: decPtr("7.5")}

	r := pricing.ResolveIncrementRounding(dec("20"), p)

	if r.UnitsNeeded != 3 {
		t.Fatalf("UnitsNeeded = %d, want 3", r.UnitsNeeded)
	}
	assertDecimal(t, "RoundedQuantity", r.RoundedQuantity, dec("22.5"))
}
