package match

import (
	"math"
	"testing"
)

func TestParseSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want float64
		ok   bool
	}{
		{name: "ounces", text: "Great Value Creamy Peanut Butter, 40 oz", want: 40, ok: true},
		{name: "fluid ounces", text: "Whole Milk, 96 fl oz", want: 96, ok: true},
		{name: "pounds", text: "Bananas, 3 lb bag", want: 48, ok: true},
		{name: "pounds plural", text: "Chicken Breast 2 lbs", want: 32, ok: true},
		{name: "grams", text: "Dark Chocolate Bar 100 g", want: 3.5274, ok: true},
		{name: "kilograms", text: "Bread Flour 1 kg", want: 35.274, ok: true},
		{name: "milliliters", text: "Vanilla Extract 59 ml", want: 1.995, ok: true},
		{name: "milliliters rounded to 4 decimals", text: "Red Wine Vinegar 750 ml", want: 25.3605, ok: true},
		{name: "liters", text: "Sparkling Water 1 L", want: 33.814, ok: true},
		{name: "gallon", text: "2% Reduced Fat Milk, 1 gal", want: 128, ok: true},
		{name: "decimal value", text: "Greek Yogurt 5.3 oz", want: 5.3, ok: true},
		{name: "first match wins", text: "Granola Bars 6 ct, 8.9 oz", ok: false},
		{name: "count unit", text: "Large Eggs, 12 ct", ok: false},
		{name: "count word", text: "Paper Towels 6 count", ok: false},
		{name: "no size", text: "Organic Honeycrisp Apples", ok: false},
		{name: "empty", text: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseSize(tt.text)
			if ok != tt.ok {
				t.Fatalf("ParseSize(%q) ok = %v, expected %v", tt.text, ok, tt.ok)
			}
			if tt.ok && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ParseSize(%q) = %v, expected %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestRelevance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		title string
		want  float64
	}{
		{name: "full overlap", query: "peanut butter", title: "Great Value Creamy Peanut Butter, 40 oz", want: 1.0},
		{name: "half overlap", query: "almond butter", title: "Great Value Creamy Peanut Butter, 40 oz", want: 0.5},
		{name: "no overlap", query: "olive oil", title: "Whole Milk, 1 gal", want: 0.0},
		{name: "case insensitive", query: "PEANUT butter", title: "peanut BUTTER", want: 1.0},
		{name: "duplicate query tokens", query: "butter butter", title: "Salted Butter", want: 1.0},
		{name: "empty query", query: "", title: "anything", want: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Relevance(tt.query, tt.title); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Relevance(%q, %q) = %v, expected %v", tt.query, tt.title, got, tt.want)
			}
		})
	}
}
