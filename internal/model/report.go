package model

import (
	"time"

	"github.com/google/uuid"
)

// RunReport aggregates the outcomes of one sync run.
// Items are append-only: the orchestrator appends exactly one outcome per
// requested list item, in list order, even for items skipped after a
// bot block. Counters are maintained by Append.
type RunReport struct {
	// RunID uniquely identifies this run in the history database.
	RunID string `json:"runId"`

	// Timestamp is the UTC time the run started.
	Timestamp time.Time `json:"timestamp"`

	// ListName is the shopping list this run processed.
	ListName string `json:"listName"`

	// DryRun is true when no add-to-cart operations were attempted.
	DryRun bool `json:"dryRun"`

	// Total is the number of items processed (always len(Items)).
	Total int `json:"total"`

	// Added counts items with StatusAdded.
	Added int `json:"added"`

	// Skipped counts items with StatusSkippedNoMatch or StatusSkippedBotBlock.
	Skipped int `json:"skipped"`

	// Failed counts items with StatusFailed.
	Failed int `json:"failed"`

	// NeedsReview counts items with StatusNeedsReview.
	NeedsReview int `json:"needsReview"`

	// BotBlocked counts the items never attempted after a confirmed
	// bot block latched the run. Zero for unblocked runs.
	BotBlocked int `json:"botBlocked"`

	// Items holds one outcome per processed list item, in list order.
	Items []ItemOutcome `json:"items"`
}

// NewRunReport creates an empty RunReport for the given list.
func NewRunReport(listName string, dryRun bool) *RunReport {
	return &RunReport{
		RunID:     uuid.NewString(),
		Timestamp: time.Now().UTC(),
		ListName:  listName,
		DryRun:    dryRun,
		Items:     make([]ItemOutcome, 0),
	}
}

// Append adds an outcome to the report and updates the counters.
func (r *RunReport) Append(outcome ItemOutcome) {
	r.Items = append(r.Items, outcome)
	r.Total = len(r.Items)

	switch outcome.Status {
	case StatusAdded:
		r.Added++
	case StatusSkippedNoMatch, StatusSkippedBotBlock:
		r.Skipped++
	case StatusFailed:
		r.Failed++
	case StatusNeedsReview:
		r.NeedsReview++
	}
	if outcome.Status == StatusSkippedBotBlock {
		r.BotBlocked++
	}
}

// HasFailures reports whether any item failed or needs review.
func (r *RunReport) HasFailures() bool {
	return r.Failed > 0 || r.NeedsReview > 0
}
