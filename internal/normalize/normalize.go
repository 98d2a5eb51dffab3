package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"cartsync/internal/model"
)

// GramsPerOunce is the exact gram-to-ounce conversion factor used to derive
// the ounce weight from a parenthetical gram weight.
const GramsPerOunce = 28.349523125

// maxQueryTokens caps the cleaned query length. Longer queries degrade
// search relevance on the retailer site.
const maxQueryTokens = 5

// unicodeFractions maps the supported fraction glyphs to their values.
// This set is closed: no other glyphs are recognized.
var unicodeFractions = map[string]float64{
	"½": 0.5,
	"¼": 0.25,
	"¾": 0.75,
	"⅓": 1.0 / 3.0,
	"⅔": 2.0 / 3.0,
}

// unitAliases maps recognized unit spellings to their canonical token.
// Tokens outside this table cause no leading quantity extraction.
var unitAliases = map[string]string{
	"cup":         "cup",
	"cups":        "cup",
	"tbsp":        "tbsp",
	"tablespoon":  "tbsp",
	"tablespoons": "tbsp",
	"tsp":         "tsp",
	"teaspoon":    "tsp",
	"teaspoons":   "tsp",
	"ts":          "tsp",
	"oz":          "oz",
	"ounce":       "oz",
	"ounces":      "oz",
	"lb":          "lb",
	"lbs":         "lb",
	"pound":       "lb",
	"pounds":      "lb",
	"g":           "g",
	"gram":        "g",
	"grams":       "g",
	"kg":          "kg",
	"ml":          "ml",
	"l":           "l",
	"liter":       "l",
	"liters":      "l",
}

// Package-level compiled patterns. Compiling once avoids per-line cost
// when normalizing large lists.
var (
	asciiFractionRe = regexp.MustCompile(`^(?:(\d+)\s+)?(\d+)/(\d+)$`)
	orSplitRe       = regexp.MustCompile(`(?i)\s+or\s+`)
	parentheticalRe = regexp.MustCompile(`\([^)]*\)`)
	orphanParenRe   = regexp.MustCompile(`[()]`)
	firstParenRe    = regexp.MustCompile(`\(([^)]*?)\)`)
	parenGramsRe    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:g|gram|grams)\b`)

	trailingNoiseRe  = regexp.MustCompile(`[*…]+$`)
	leadingFillerRe  = regexp.MustCompile(`(?i)^(totally optional[:\s]*|optional[:\s]*|about\s+)`)
	notClauseRe      = regexp.MustCompile(`(?i)\bnot\b[^,;)]*`)
	plusMoreRe       = regexp.MustCompile(`(?i),\s*plus\s+more\b.*$`)
	trailingAboutRe  = regexp.MustCompile(`(?i)\s+about\s+.*$`)
	ofChoiceRe       = regexp.MustCompile(`(?i)\s+of\s+choice\b`)
	mixInsRe         = regexp.MustCompile(`(?i)\bmix-?ins?\s+like\s+`)
	prepAdjectiveRe  = regexp.MustCompile(`(?i)\b(mashed|ripe|melted|chopped|diced|minced|sliced|crushed|fresh|dried)\s+`)
	leadingQtyUnitRe = regexp.MustCompile(`(?i)^[½¼¾⅓⅔\d/]+\s*(cups?|teaspoons?|tablespoons?|tbsp|tsp|oz|ounces?|lbs?|pounds?|grams?|g|kg|ml|l|liters?)\s+`)
	leadingUnitRe    = regexp.MustCompile(`(?i)^(cups?|teaspoons?|tablespoons?|tbsp|tsp|oz|ounces?|lbs?|pounds?|grams?|g|kg|ml|l|liters?)\s+`)
	leadingNonAlphaRe = regexp.MustCompile(`^\s*[^A-Za-z]*`)
	multiSpaceRe      = regexp.MustCompile(`\s{2,}`)
)

// Line normalizes one raw shopping-list line.
func Line(raw string) model.NormalizedItem {
	// NFC normalization so composed and decomposed forms of the fraction
	// glyphs tokenize identically.
	raw = norm.NFC.String(raw)

	left, right := splitAlternative(raw)

	grams := parentheticalGrams(raw)

	quantity, unit := leadingQuantityUnit(left)

	query := stripParentheticals(left)
	if quantity != nil && unit != "" {
		query = leadingNonAlphaRe.ReplaceAllString(query, "")
		if lead := leadingText(left); lead != "" {
			query = trimPrefixFold(query, lead)
		}
	}
	query = cleanQuery(query)

	altQuery := ""
	if right != "" {
		altQuery = cleanQuery(stripParentheticals(right))
		// Drop the alternate if it adds nothing over the primary query.
		if strings.EqualFold(altQuery, query) || len(altQuery) < 3 {
			altQuery = ""
		}
	}

	var ounces *float64
	if grams != nil {
		oz := *grams / GramsPerOunce
		ounces = &oz
	}

	return model.NormalizedItem{
		Raw:      raw,
		Query:    query,
		AltQuery: altQuery,
		Quantity: quantity,
		Unit:     unit,
		Grams:    grams,
		Ounces:   ounces,
	}
}

// ParseQuantityToken parses tokens like "1", "1.5", "1/2", and the
// supported unicode fraction glyphs. Mixed numbers ("2 1/2") are handled
// by the caller via the three-token form. Returns nil for unparsable tokens.
func ParseQuantityToken(tok string) *float64 {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return nil
	}

	if v, err := strconv.ParseFloat(tok, 64); err == nil {
		return &v
	}

	if m := asciiFractionRe.FindStringSubmatch(tok); m != nil {
		num, errN := strconv.Atoi(m[2])
		den, errD := strconv.Atoi(m[3])
		if errN != nil || errD != nil || den == 0 {
			return nil
		}
		val := float64(num) / float64(den)
		if m[1] != "" {
			whole, err := strconv.Atoi(m[1])
			if err != nil {
				return nil
			}
			val += float64(whole)
		}
		return &val
	}

	if v, ok := unicodeFractions[tok]; ok {
		return &v
	}

	return nil
}

// splitAlternative splits a line on the first standalone " or " into the
// primary segment and an optional alternative.
func splitAlternative(raw string) (string, string) {
	parts := orSplitRe.Split(raw, 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(raw), ""
}

// stripParentheticals removes balanced parentheticals, then any orphaned
// parens that remain.
func stripParentheticals(s string) string {
	s = strings.TrimSpace(parentheticalRe.ReplaceAllString(s, ""))
	return strings.TrimSpace(orphanParenRe.ReplaceAllString(s, ""))
}

// parentheticalGrams extracts a gram weight from the first parenthetical
// in the raw line, e.g. "(75 grams)" or "(168 g)". Returns nil when the
// line has no parenthetical gram weight.
func parentheticalGrams(raw string) *float64 {
	m := firstParenRe.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	inner := strings.ToLower(m[1])
	gm := parenGramsRe.FindStringSubmatch(inner)
	if gm == nil {
		return nil
	}
	v, err := strconv.ParseFloat(gm[1], 64)
	if err != nil {
		return nil
	}
	return &v
}

// leadingQuantityUnit extracts a leading quantity+unit token sequence from
// the primary segment. The three-token mixed form ("1 3/4 cup") takes
// priority over the two-token form ("1/3 cup"). Unrecognized units yield
// no extraction at all.
func leadingQuantityUnit(left string) (*float64, string) {
	tokens := strings.Fields(left)
	if len(tokens) == 0 {
		return nil, ""
	}

	if len(tokens) >= 3 {
		q1 := ParseQuantityToken(tokens[0])
		q2 := ParseQuantityToken(tokens[1])
		unit, ok := unitAliases[strings.ToLower(tokens[2])]
		if q1 != nil && q2 != nil && ok {
			sum := *q1 + *q2
			return &sum, unit
		}
	}

	if len(tokens) >= 2 {
		q := ParseQuantityToken(tokens[0])
		unit, ok := unitAliases[strings.ToLower(tokens[1])]
		if q != nil && ok {
			return q, unit
		}
	}

	return nil, ""
}

// leadingText returns the exact leading substring covering the recognized
// quantity+unit tokens, for removal from the query.
func leadingText(left string) string {
	tokens := strings.Fields(left)
	if len(tokens) == 0 {
		return ""
	}

	if len(tokens) >= 3 {
		q1 := ParseQuantityToken(tokens[0])
		q2 := ParseQuantityToken(tokens[1])
		_, ok := unitAliases[strings.ToLower(tokens[2])]
		if q1 != nil && q2 != nil && ok {
			return strings.Join(tokens[:3], " ")
		}
	}

	if len(tokens) >= 2 {
		q := ParseQuantityToken(tokens[0])
		_, ok := unitAliases[strings.ToLower(tokens[1])]
		if q != nil && ok {
			return strings.Join(tokens[:2], " ")
		}
	}

	return ""
}

// trimPrefixFold removes prefix from s case-insensitively, plus any
// whitespace that follows it.
func trimPrefixFold(s, prefix string) string {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return strings.TrimLeft(s[len(prefix):], " \t")
	}
	return s
}

// cleanQuery strips noise from a query segment to produce a clean retailer
// search term, capped at maxQueryTokens tokens.
func cleanQuery(q string) string {
	q = stripParentheticals(q)
	q = strings.TrimSpace(trailingNoiseRe.ReplaceAllString(q, ""))
	q = strings.TrimSpace(leadingFillerRe.ReplaceAllString(q, ""))
	q = strings.TrimSpace(notClauseRe.ReplaceAllString(q, ""))
	q = strings.TrimSpace(plusMoreRe.ReplaceAllString(q, ""))
	q = strings.TrimSpace(trailingAboutRe.ReplaceAllString(q, ""))
	q = strings.TrimSpace(ofChoiceRe.ReplaceAllString(q, ""))
	q = strings.TrimSpace(mixInsRe.ReplaceAllString(q, ""))
	q = strings.TrimSpace(prepAdjectiveRe.ReplaceAllString(q, ""))
	// Leading quantity+unit pairs and bare unit words can survive the
	// earlier extraction when the quantity token was unrecognized.
	q = strings.TrimSpace(leadingQtyUnitRe.ReplaceAllString(q, ""))
	q = strings.TrimSpace(leadingUnitRe.ReplaceAllString(q, ""))
	q = strings.Trim(q, ":,;. ")
	q = strings.TrimSpace(multiSpaceRe.ReplaceAllString(q, " "))

	words := strings.Fields(q)
	if len(words) > maxQueryTokens {
		words = words[:maxQueryTokens]
	}
	return strings.Join(words, " ")
}
