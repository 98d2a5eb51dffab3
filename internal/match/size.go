package match

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// sizeRe matches the first size declaration in product copy, e.g.
// "12 oz", "1.5 lb", "500 ml", "96 fl oz", "24 ct".
var sizeRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(fl\s*oz|oz|lb|lbs|g|gram|grams|kg|ml|l|gal|ct|count)\b`)

var wordRe = regexp.MustCompile(`\w+`)

// toOunces converts each recognized unit to ounces. Count units ("ct",
// "count") are deliberately absent: a pack count is not a weight.
var toOunces = map[string]float64{
	"oz":    1.0,
	"fl oz": 1.0,
	"lb":    16.0,
	"lbs":   16.0,
	"g":     1 / 28.3495,
	"gram":  1 / 28.3495,
	"grams": 1 / 28.3495,
	"kg":    35.274,
	"ml":    1 / 29.5735,
	"l":     33.814,
	"gal":   128.0,
}

// ParseSize extracts the first size declaration from text and converts
// it to ounces, rounded to four decimal places. It reports false when no
// size is present or the unit is a count rather than a weight or volume.
func ParseSize(text string) (float64, bool) {
	if text == "" {
		return 0, false
	}
	m := sizeRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	val, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	unit := strings.ToLower(strings.TrimSpace(m[2]))
	unit = strings.Join(strings.Fields(unit), " ")
	factor, ok := toOunces[unit]
	if !ok {
		return 0, false
	}
	return math.Round(val*factor*10000) / 10000, true
}

// Relevance scores how well a product title covers the query. It is the
// fraction of the query's token set found in the title's token set, in
// [0, 1]. An empty query scores zero against everything.
func Relevance(query, title string) float64 {
	qTokens := tokenSet(query)
	if len(qTokens) == 0 {
		return 0
	}
	tTokens := tokenSet(title)
	overlap := 0
	for tok := range qTokens {
		if _, ok := tTokens[tok]; ok {
			overlap++
		}
	}
	return float64(overlap) / float64(len(qTokens))
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range wordRe.FindAllString(strings.ToLower(s), -1) {
		set[tok] = struct{}{}
	}
	return set
}
