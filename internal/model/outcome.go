package model

// Status describes the final disposition of one shopping-list item.
type Status string

// Item outcome statuses. Each processed item ends in exactly one of these.
const (
	// StatusAdded means the product was added to the cart and the addition
	// was confirmed (cart count increased or a confirmation element appeared).
	StatusAdded Status = "ADDED"

	// StatusDryRun means a product was matched but the run was in dry-run
	// mode, so no add was attempted.
	StatusDryRun Status = "DRY_RUN"

	// StatusSkippedNoMatch means the search returned no candidates, or the
	// matcher could not choose one.
	StatusSkippedNoMatch Status = "SKIPPED_NO_MATCH"

	// StatusSkippedBotBlock means the item was never attempted because a
	// bot block was confirmed earlier in the run.
	StatusSkippedBotBlock Status = "SKIPPED_BOT_BLOCK"

	// StatusFailed means the search or the add failed, including the item
	// on which a bot block was first confirmed, and adds that could not
	// be verified.
	StatusFailed Status = "FAILED"

	// StatusNeedsReview means an undersized product was added to the cart.
	// The add succeeded but a human should check the quantity.
	StatusNeedsReview Status = "NEEDS_REVIEW"
)

// ItemOutcome records the result of processing one shopping-list item.
// Outcomes are created once, appended to the run report, and never
// mutated after the append.
type ItemOutcome struct {
	// Raw is the original list line.
	Raw string `json:"raw"`

	// Query is the primary search text used.
	Query string `json:"query"`

	// AltQuery is the alternate search text, if the line had one.
	AltQuery string `json:"altQuery,omitempty"`

	// ChosenTitle is the selected product title. Empty when nothing matched.
	ChosenTitle string `json:"chosenTitle,omitempty"`

	// ChosenURL is the selected product URL. Empty when nothing matched.
	ChosenURL string `json:"chosenUrl,omitempty"`

	// ChosenPrice is the selected product display price, if known.
	ChosenPrice string `json:"chosenPrice,omitempty"`

	// ChosenSizeOz is the selected product size in ounces, if parsed.
	ChosenSizeOz *float64 `json:"chosenSizeOz,omitempty"`

	// Relevance is the selected product's relevance score.
	Relevance float64 `json:"relevance"`

	// Undersized is true when the selected product was smaller than the
	// requested amount.
	Undersized bool `json:"undersized"`

	// Status is the final disposition of this item.
	Status Status `json:"status"`
}

// NewOutcome creates an ItemOutcome for a normalized item with the given
// status and no chosen product. Use WithChosen to attach a selection.
func NewOutcome(item NormalizedItem, status Status) ItemOutcome {
	return ItemOutcome{
		Raw:      item.Raw,
		Query:    item.Query,
		AltQuery: item.AltQuery,
		Status:   status,
	}
}

// WithChosen returns a copy of the outcome carrying the chosen product's
// fields. The receiver is not modified.
func (o ItemOutcome) WithChosen(chosen *ChosenProduct) ItemOutcome {
	if chosen == nil {
		return o
	}
	o.ChosenTitle = chosen.Candidate.Title
	o.ChosenURL = chosen.Candidate.URL
	o.ChosenPrice = chosen.Candidate.Price
	o.ChosenSizeOz = chosen.SizeOz
	o.Relevance = chosen.Relevance
	o.Undersized = chosen.Undersized
	return o
}
