package normalize

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

const epsilon = 1e-9

// TestLineFractionGramsAndAlternative tests the main extraction path:
// ASCII fraction quantity, parenthetical grams, and an "or" alternative.
func TestLineFractionGramsAndAlternative(t *testing.T) {
	t.Parallel()

	n := Line("1/3 cup (75 grams) melted coconut oil or extra-virgin olive oil")

	if n.Quantity == nil || math.Abs(*n.Quantity-1.0/3.0) > epsilon {
		t.Errorf("got quantity %v, expected 1/3", n.Quantity)
	}
	if n.Unit != "cup" {
		t.Errorf("got unit %q, expected %q", n.Unit, "cup")
	}
	if n.Grams == nil || *n.Grams != 75.0 {
		t.Errorf("got grams %v, expected 75", n.Grams)
	}
	if n.Ounces == nil || math.Abs(*n.Ounces-75.0/GramsPerOunce) > epsilon {
		t.Errorf("got ounces %v, expected %v", n.Ounces, 75.0/GramsPerOunce)
	}
	if n.Query != "coconut oil" {
		t.Errorf("got query %q, expected %q", n.Query, "coconut oil")
	}
	if n.AltQuery != "extra-virgin olive oil" {
		t.Errorf("got altQuery %q, expected %q", n.AltQuery, "extra-virgin olive oil")
	}
}

// TestLineUnicodeFraction tests the unicode fraction glyph table.
func TestLineUnicodeFraction(t *testing.T) {
	t.Parallel()

	n := Line("½ teaspoon salt")

	if n.Quantity == nil || *n.Quantity != 0.5 {
		t.Errorf("got quantity %v, expected 0.5", n.Quantity)
	}
	if n.Unit != "tsp" {
		t.Errorf("got unit %q, expected %q", n.Unit, "tsp")
	}
	if n.Query != "salt" {
		t.Errorf("got query %q, expected %q", n.Query, "salt")
	}
}

// TestLineMixedNumber tests the three-token mixed-number form.
func TestLineMixedNumber(t *testing.T) {
	t.Parallel()

	n := Line("1 3/4 cups (220 grams) flour")

	if n.Quantity == nil || math.Abs(*n.Quantity-1.75) > epsilon {
		t.Errorf("got quantity %v, expected 1.75", n.Quantity)
	}
	if n.Unit != "cup" {
		t.Errorf("got unit %q, expected %q", n.Unit, "cup")
	}
	if n.Grams == nil || *n.Grams != 220.0 {
		t.Errorf("got grams %v, expected 220", n.Grams)
	}
	if n.Query != "flour" {
		t.Errorf("got query %q, expected %q", n.Query, "flour")
	}
}

// TestLineWithoutStructure tests that unstructured lines still produce a
// cleaned query with nil quantity fields.
func TestLineWithoutStructure(t *testing.T) {
	t.Parallel()

	n := Line("bananas")

	if n.Quantity != nil || n.Unit != "" {
		t.Errorf("expected nil quantity/unit, got %v %q", n.Quantity, n.Unit)
	}
	if n.Grams != nil || n.Ounces != nil {
		t.Errorf("expected nil grams/ounces, got %v %v", n.Grams, n.Ounces)
	}
	if n.Query != "bananas" {
		t.Errorf("got query %q, expected %q", n.Query, "bananas")
	}
}

// TestLineGramsWithoutLeadingQuantity tests that a parenthetical gram
// weight yields ounces even without a leading quantity token.
func TestLineGramsWithoutLeadingQuantity(t *testing.T) {
	t.Parallel()

	n := Line("ripe banana (120 g)")

	if n.Quantity != nil {
		t.Errorf("expected nil quantity, got %v", n.Quantity)
	}
	if n.Grams == nil || *n.Grams != 120.0 {
		t.Errorf("got grams %v, expected 120", n.Grams)
	}
	if n.Ounces == nil || math.Abs(*n.Ounces-120.0/GramsPerOunce) > epsilon {
		t.Errorf("got ounces %v, expected %v", n.Ounces, 120.0/GramsPerOunce)
	}
	if n.Query != "banana" {
		t.Errorf("got query %q, expected %q", n.Query, "banana")
	}
}

// TestLineFillerRemoval tests the fixed filler patterns.
func TestLineFillerRemoval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "optional prefix", raw: "optional: chocolate chips", want: "chocolate chips"},
		{name: "totally optional prefix", raw: "totally optional: flaky sea salt", want: "flaky sea salt"},
		{name: "about prefix", raw: "about 2 cups shredded cheese", want: "shredded cheese"},
		{name: "plus more suffix", raw: "1 cup sugar, plus more to swirl on top", want: "sugar"},
		{name: "of choice", raw: "milk of choice", want: "milk"},
		{name: "mix-ins like", raw: "mix-ins like walnuts", want: "walnuts"},
		{name: "not clause", raw: "almond butter, NOT the dry kind", want: "almond butter"},
		{name: "prep adjectives", raw: "2 mashed ripe bananas", want: "2 bananas"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Line(tt.raw).Query; got != tt.want {
				t.Errorf("Line(%q).Query = %q, expected %q", tt.raw, got, tt.want)
			}
		})
	}
}

// TestLineQueryTokenCap tests that every cleaned query has at most five
// whitespace-delimited tokens.
func TestLineQueryTokenCap(t *testing.T) {
	t.Parallel()

	lines := []string{
		"one two three four five six seven eight",
		"1 cup some very long ingredient description with trailing words",
		"½ teaspoon salt",
		"",
	}
	for _, raw := range lines {
		if got := Line(raw).Query; len(strings.Fields(got)) > 5 {
			t.Errorf("Line(%q).Query = %q has more than 5 tokens", raw, got)
		}
	}
}

// TestLineAlternativeDropped tests that useless alternatives are discarded.
func TestLineAlternativeDropped(t *testing.T) {
	t.Parallel()

	t.Run("identical alternative", func(t *testing.T) {
		t.Parallel()
		n := Line("honey or Honey")
		if n.AltQuery != "" {
			t.Errorf("got altQuery %q, expected empty", n.AltQuery)
		}
	})

	t.Run("too-short alternative", func(t *testing.T) {
		t.Parallel()
		n := Line("vanilla extract or ..")
		if n.AltQuery != "" {
			t.Errorf("got altQuery %q, expected empty", n.AltQuery)
		}
	})
}

// TestLineIdempotent tests that normalization is a pure function.
func TestLineIdempotent(t *testing.T) {
	t.Parallel()

	raw := "1/3 cup (75 grams) melted coconut oil or extra-virgin olive oil"
	first := Line(raw)
	second := Line(raw)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("normalizing twice differed:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

// TestParseQuantityToken tests the quantity token forms.
func TestParseQuantityToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tok  string
		want float64
		ok   bool
	}{
		{tok: "1", want: 1, ok: true},
		{tok: "2.5", want: 2.5, ok: true},
		{tok: "1/2", want: 0.5, ok: true},
		{tok: "2 1/2", want: 2.5, ok: true},
		{tok: "½", want: 0.5, ok: true},
		{tok: "¼", want: 0.25, ok: true},
		{tok: "¾", want: 0.75, ok: true},
		{tok: "⅓", want: 1.0 / 3.0, ok: true},
		{tok: "⅔", want: 2.0 / 3.0, ok: true},
		{tok: "⅛", ok: false}, // outside the closed glyph table
		{tok: "cup", ok: false},
		{tok: "", ok: false},
		{tok: "1/0", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.tok, func(t *testing.T) {
			t.Parallel()
			got := ParseQuantityToken(tt.tok)
			if tt.ok {
				if got == nil || math.Abs(*got-tt.want) > epsilon {
					t.Errorf("ParseQuantityToken(%q) = %v, expected %v", tt.tok, got, tt.want)
				}
				return
			}
			if got != nil {
				t.Errorf("ParseQuantityToken(%q) = %v, expected nil", tt.tok, *got)
			}
		})
	}
}
