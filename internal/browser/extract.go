package browser

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"cartsync/internal/model"
)

var (
	priceRe = regexp.MustCompile(`\$[\d.]+`)

	// Unit-price fragments ("31.2 ¢/oz") and strikethrough remnants
	// ("Was") trail the real title inside the tile heading.
	unitPriceTailRe = regexp.MustCompile(`\s*[\d.]+\s*¢.*$`)
	wasTailRe       = regexp.MustCompile(`\s+Was\s*$`)

	titleSizeRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?\s*(?:fl\s*oz|oz|lb|ct|count|pack|ml|l|g|kg|gal))\b`)
)

// badgePrefixes are promotional labels the tile heading prepends to the
// product title.
var badgePrefixes = []string{
	"Overall pick ",
	"Best seller ",
	"Popular pick ",
	"Rollback ",
}

// ExtractCandidate parses one product tile's HTML into a candidate.
// Returns nil when the tile has no product link or no usable title,
// which covers sponsored shelves and layout placeholders.
func ExtractCandidate(tileHTML string) *model.ProductCandidate {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(tileHTML))
	if err != nil {
		return nil
	}

	link := doc.Find("a[link-identifier]").First()
	href, ok := link.Attr("href")
	if !ok || href == "" {
		return nil
	}
	productURL := href
	if strings.HasPrefix(href, "/") {
		productURL = "https://www.walmart.com" + href
	}

	// Title and price share the tile's <h3>.
	heading := strings.TrimSpace(doc.Find("h3").First().Text())
	price := priceRe.FindString(heading)
	title := cleanTitle(heading)
	if title == "" {
		return nil
	}

	candidate := &model.ProductCandidate{
		Title:    title,
		URL:      productURL,
		Price:    price,
		SizeText: titleSizeRe.FindString(title),
	}

	if img, ok := doc.Find(`img[data-testid="productTileImage"]`).First().Attr("src"); ok {
		candidate.ImageURL = img
	}
	candidate.Fulfillment = strings.TrimSpace(doc.Find(`[data-automation-id="fulfillment-badge"]`).First().Text())

	return candidate
}

// cleanTitle strips the badge prefix and everything from the price
// onward out of a tile heading, leaving just the product title.
func cleanTitle(heading string) string {
	title := heading
	for _, badge := range badgePrefixes {
		if strings.HasPrefix(title, badge) {
			title = title[len(badge):]
			break
		}
	}
	if loc := priceRe.FindStringIndex(title); loc != nil {
		title = title[:loc[0]]
	}
	title = unitPriceTailRe.ReplaceAllString(title, "")
	title = wasTailRe.ReplaceAllString(title, "")
	return strings.TrimSpace(title)
}
