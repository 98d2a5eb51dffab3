package model

// NormalizedItem is the structured form of one raw shopping-list line.
// It is produced once by the normalizer and never mutated afterwards.
//
// Absence of structure is represented by nil pointers and empty strings,
// not by errors: a line with no recognizable quantity still yields a
// usable search query.
type NormalizedItem struct {
	// Raw is the original line exactly as received from the list provider.
	Raw string `json:"raw"`

	// Query is the primary search text. It is always non-empty for a
	// non-empty input, contains no parenthetical or filler text, and is
	// capped at five whitespace-delimited tokens.
	Query string `json:"query"`

	// AltQuery is a secondary search text derived from an "or" alternative
	// in the raw line. Empty when the line has no usable alternative.
	AltQuery string `json:"altQuery,omitempty"`

	// Quantity is the leading amount as written (e.g. 1.75 for "1 3/4").
	// Nil when no leading quantity+unit pair was recognized.
	Quantity *float64 `json:"quantity,omitempty"`

	// Unit is the canonical unit token after alias resolution
	// (e.g. "cup", "tsp", "oz"). Empty when Quantity is nil.
	Unit string `json:"unit,omitempty"`

	// Grams is a parenthetical gram weight found anywhere in the line,
	// e.g. "(220 grams)". Nil when absent.
	Grams *float64 `json:"grams,omitempty"`

	// Ounces is derived from Grams using the exact gram-to-ounce factor.
	// Nil when Grams is nil.
	Ounces *float64 `json:"ounces,omitempty"`
}

// ProductCandidate is one product search result before selection.
// Candidates are identified by URL and are immutable once extracted.
type ProductCandidate struct {
	// Title is the product title with badge and price fragments removed.
	Title string `json:"title"`

	// URL is the canonical absolute product page URL.
	URL string `json:"url"`

	// Price is the display price string (e.g. "$3.47"). Empty when the
	// result card exposed no price.
	Price string `json:"price,omitempty"`

	// SizeText is the raw size fragment from the card (e.g. "12 oz").
	// Empty when no size was visible.
	SizeText string `json:"sizeText,omitempty"`

	// ImageURL is the product tile image source, if any.
	ImageURL string `json:"imageUrl,omitempty"`

	// Fulfillment is the fulfillment badge text (e.g. "Pickup", "Delivery").
	Fulfillment string `json:"fulfillment,omitempty"`
}

// ChosenProduct is the matcher's selection for one item.
type ChosenProduct struct {
	// Candidate is the selected product.
	Candidate ProductCandidate `json:"candidate"`

	// Relevance is the token-overlap score against the item query, in [0,1].
	Relevance float64 `json:"relevance"`

	// SizeOz is the candidate's parsed package size in ounces.
	// Nil when no size could be parsed from the card or title.
	SizeOz *float64 `json:"sizeOz,omitempty"`

	// Undersized is true only when the item carried a size requirement and
	// no candidate met or exceeded it.
	Undersized bool `json:"undersized"`
}
