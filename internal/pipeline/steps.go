package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"cartsync/internal/browser"
	"cartsync/internal/match"
	"cartsync/internal/model"
	"cartsync/internal/normalize"
)

// Session is the slice of the browser session the pipeline needs.
// Narrowing it to two methods keeps the steps testable with a fake.
type Session interface {
	Search(ctx context.Context, query string) ([]model.ProductCandidate, error)
	AddToCart(ctx context.Context, url string) (bool, error)
}

// NormalizeStep turns the raw list line into a normalized item.
type NormalizeStep struct{}

// NewNormalizeStep creates the normalization step.
func NewNormalizeStep() *NormalizeStep {
	return &NormalizeStep{}
}

// Name returns the step name.
func (s *NormalizeStep) Name() string {
	return "normalize"
}

// Do normalizes the raw line. Normalization never fails; lines with no
// recognizable structure still yield a cleaned query.
func (s *NormalizeStep) Do(_ context.Context, ex *Exchange) error {
	ex.Item = normalize.Line(ex.Raw)
	return nil
}

// SearchStep runs the primary search, falling back to the alternate
// query on an empty result.
type SearchStep struct {
	session Session
	logger  *slog.Logger
}

// NewSearchStep creates the search step.
func NewSearchStep(session Session, logger *slog.Logger) *SearchStep {
	return &SearchStep{session: session, logger: logger}
}

// Name returns the step name.
func (s *SearchStep) Name() string {
	return "search"
}

// Do searches for the item. An unresolved bot block marks the exchange
// blocked and fails the item; any other search error degrades to zero
// candidates so the run continues. When the primary query returns
// nothing and an alternate exists, the alternate is tried once.
func (s *SearchStep) Do(ctx context.Context, ex *Exchange) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	candidates, err := s.session.Search(ctx, ex.Item.Query)
	if err != nil {
		if errors.Is(err, browser.ErrBotBlocked) {
			ex.Blocked = true
			ex.Finish(model.StatusFailed)
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		s.logger.Warn("search failed", "query", ex.Item.Query, "error", err)
		candidates = nil
	}

	if len(candidates) == 0 && ex.Item.AltQuery != "" {
		s.logger.Debug("no results, trying alternate", "alt_query", ex.Item.AltQuery)
		candidates, err = s.session.Search(ctx, ex.Item.AltQuery)
		if err != nil {
			if errors.Is(err, browser.ErrBotBlocked) {
				ex.Blocked = true
				ex.Finish(model.StatusFailed)
				return nil
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			s.logger.Warn("alternate search failed", "alt_query", ex.Item.AltQuery, "error", err)
			candidates = nil
		}
	}

	if len(candidates) == 0 {
		ex.Finish(model.StatusSkippedNoMatch)
		return nil
	}
	ex.Candidates = candidates
	return nil
}

// MatchStep selects the best candidate for the item.
type MatchStep struct {
	logger *slog.Logger
}

// NewMatchStep creates the match step.
func NewMatchStep(logger *slog.Logger) *MatchStep {
	return &MatchStep{logger: logger}
}

// Name returns the step name.
func (s *MatchStep) Name() string {
	return "match"
}

// Do chooses the product to add. No choice settles the item as a
// no-match skip.
func (s *MatchStep) Do(_ context.Context, ex *Exchange) error {
	chosen := match.ChooseBest(ex.Item, ex.Candidates)
	if chosen == nil {
		ex.Finish(model.StatusSkippedNoMatch)
		return nil
	}
	ex.Chosen = chosen
	s.logger.Info("matched product",
		"query", ex.Item.Query,
		"title", chosen.Candidate.Title,
		"price", chosen.Candidate.Price,
		"undersized", chosen.Undersized)
	return nil
}

// AddStep adds the chosen product to the cart, honoring dry-run mode.
type AddStep struct {
	session Session
	dryRun  bool
	logger  *slog.Logger
}

// NewAddStep creates the add step.
func NewAddStep(session Session, dryRun bool, logger *slog.Logger) *AddStep {
	return &AddStep{session: session, dryRun: dryRun, logger: logger}
}

// Name returns the step name.
func (s *AddStep) Name() string {
	return "add_to_cart"
}

// Do performs the add. An unverifiable add is FAILED, never ADDED: an
// ambiguous side effect must not be reported as a clean success. An
// undersized product that was added is downgraded to NEEDS_REVIEW.
func (s *AddStep) Do(ctx context.Context, ex *Exchange) error {
	if s.dryRun {
		ex.Finish(model.StatusDryRun)
		return nil
	}

	ok, err := s.session.AddToCart(ctx, ex.Chosen.Candidate.URL)
	if err != nil {
		if errors.Is(err, browser.ErrBotBlocked) {
			ex.Blocked = true
			ex.Finish(model.StatusFailed)
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		s.logger.Warn("add to cart failed", "url", ex.Chosen.Candidate.URL, "error", err)
		ex.Finish(model.StatusFailed)
		return nil
	}
	if !ok {
		ex.Finish(model.StatusFailed)
		return nil
	}

	if ex.Chosen.Undersized {
		ex.Finish(model.StatusNeedsReview)
		return nil
	}
	ex.Finish(model.StatusAdded)
	return nil
}
