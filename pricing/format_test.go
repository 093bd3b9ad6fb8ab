package pricing_test

import (
	"testing"

	"bitbucket.org/mmdatafocus/quotes_backend/pricing"
)

func TestFormatExactPrice(t *testing.T) {
	cases := []struct {
		name      string
		amount    string
		symbol    string
		precision int32
		expected  string
	}{
		{"two places", "1234.5", "$", 2, "$1234.50"},
		{"rounds half up", "10.005", "$", 2, "$10.01"},
		{"zero precision", "1234.5", "$", 0, "$1235"},
		{"four places", "8.33333", "$", 4, "$8.3333"},
		{"precision clamped high", "8.333333", "$", 9, "$8.3333"},
		{"precision clamped low", "10.4", "$", -3, "$10"},
		{"euro symbol", "99.9", "€", 2, "€99.90"},
		{"default symbol", "5", "", 2, "$5.00"},
		{"negative", "-42.5", "$", 2, "-$42.50"},
		{"zero", "0", "$", 2, "$0.00"},
	}
	for _, tc := range cases {
		got := pricing.FormatExactPrice(dec(tc.amount), tc.symbol, tc.precision)
		if got != tc.expected {
			t.Fatalf("%s: pricing.FormatExactPrice(%s, %q, %d) = %q, want %q",
				tc.name, tc.amount, tc.symbol, tc.precision, got, tc.expected)
		}
	}
}

func TestFormatRange_DollarAmounts(t *testing.T) {
	r := pricing.PriceRange{
		Exact:      dec("200"),
		Low:        dec("180"),
		High:       dec("240"),
		LowerBound: dec("10"),
		UpperBound: dec("20"),
		Format:     pricing.RangeFormatDollarAmounts,
	}

	got := pricing.FormatRange(r, "$", 2)
	if got != "$180.00 - $240.00" {
		t.Fatalf("FormatRange = %q, want %q", got, "$180.00 - $240.00")
	}
}

func TestFormatRange_PercentageAnnotation(t *testing.T) {
	r := pricing.PriceRange{
		Exact:      dec("200"),
		Low:        dec("180"),
		High:       dec("240"),
		LowerBound: dec("10"),
		UpperBound: dec("20"),
		Format:     pricing.RangeFormatPercentage,
	}

	got := pricing.FormatRange(r, "$", 2)
	if got != "$200.00 (-10% / +20%)" {
		t.Fatalf("FormatRange = %q, want %q", got, "$200.00 (-10% / +20%)")
	}
}
