package browser

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"

	"cartsync/internal/model"
)

// Pacing for the search flow. The pre-search delay spaces successive
// searches out; the post-navigation waits let client-side rendering
// settle before the page is inspected.
const (
	preSearchDelayMin = 2 * time.Second
	preSearchDelayMax = 5 * time.Second

	postNavWaitMin = 2500 * time.Millisecond
	postNavWaitMax = 4 * time.Second

	postSubmitWaitMin = 4 * time.Second
	postSubmitWaitMax = 7 * time.Second
)

// overlaySelectors close the dialogs and banners the retailer layers
// over the page. The add-to-cart confirmation dialog in particular
// blocks every later interaction until dismissed.
var overlaySelectors = []string{
	`button[data-dca-intent="close"][aria-label="Close dialog"]`,
	`button[aria-label="Close dialog"]`,
	`button[aria-label="Close"]`,
	`button[aria-label="close"]`,
	`[data-testid="modal-close"]`,
	`[data-testid="close-button"]`,
	`.close-button`,
}

// overlayButtonLabels matches dismiss buttons by their visible text.
var overlayButtonLabels = []string{"Close", "No thanks", "Dismiss", "Not now"}

// Search types the query into the retailer's search bar and returns up
// to the configured limit of structured candidates from the results
// page. It starts from the homepage for a clean search state and
// returns ErrBotBlocked if a challenge page appears and does not clear.
func (s *Session) Search(ctx context.Context, query string) ([]model.ProductCandidate, error) {
	if err := sleepBetween(ctx, preSearchDelayMin, preSearchDelayMax); err != nil {
		return nil, err
	}

	if err := s.navigate(ctx, homeURL); err != nil {
		return nil, err
	}
	if err := sleepBetween(ctx, postNavWaitMin, postNavWaitMax); err != nil {
		return nil, err
	}

	if blocked, err := s.blocked(ctx); err != nil {
		return nil, err
	} else if blocked {
		if err := s.recoverBlock(ctx); err != nil {
			return nil, err
		}
	}

	if err := s.searchViaBar(ctx, query); err != nil {
		return nil, err
	}

	tiles, err := s.page.Context(ctx).Elements("[data-item-id]")
	if err != nil {
		return nil, fmt.Errorf("read search results: %w", err)
	}

	var candidates []model.ProductCandidate
	for _, tile := range tiles {
		if len(candidates) >= s.opts.SearchLimit {
			break
		}
		html, err := tile.HTML()
		if err != nil {
			continue
		}
		if c := ExtractCandidate(html); c != nil {
			candidates = append(candidates, *c)
		}
	}

	s.logger.Debug("search finished", "query", query, "candidates", len(candidates))
	return candidates, nil
}

// searchViaBar types the query into the search bar and presses Enter.
// Typing mimics real user interaction; navigating directly to search
// result URLs is a known bot signature.
func (s *Session) searchViaBar(ctx context.Context, query string) error {
	if blocked, err := s.blocked(ctx); err != nil {
		return err
	} else if blocked {
		if err := s.waitForChallengeClear(ctx); err != nil {
			return err
		}
	}

	s.dismissOverlays(ctx)

	page := s.page.Context(ctx)
	searchInput, err := page.Timeout(15 * time.Second).Element(`input[type="search"], input[name="q"]`)
	if err != nil {
		return fmt.Errorf("find search bar: %w", err)
	}

	if err := searchInput.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("focus search bar: %w", err)
	}
	if err := sleepBetween(ctx, 200*time.Millisecond, 500*time.Millisecond); err != nil {
		return err
	}
	if err := searchInput.SelectAllText(); err != nil {
		return fmt.Errorf("select search bar text: %w", err)
	}
	if err := sleepBetween(ctx, 100*time.Millisecond, 300*time.Millisecond); err != nil {
		return err
	}

	// Per-rune typing with jittered delays, like a person would.
	for _, r := range query {
		if err := page.InsertText(string(r)); err != nil {
			return fmt.Errorf("type query: %w", err)
		}
		if err := sleep(ctx, time.Duration(60+rand.IntN(61))*time.Millisecond); err != nil {
			return err
		}
	}

	if err := sleepBetween(ctx, 800*time.Millisecond, 1500*time.Millisecond); err != nil {
		return err
	}
	if err := searchInput.Type(input.Enter); err != nil {
		return fmt.Errorf("submit search: %w", err)
	}
	return sleepBetween(ctx, postSubmitWaitMin, postSubmitWaitMax)
}

// dismissOverlays closes any dialogs covering the page. Failures are
// ignored; an overlay that cannot be closed surfaces later as a failed
// interaction with better context.
func (s *Session) dismissOverlays(ctx context.Context) {
	page := s.page.Context(ctx)

	for _, sel := range overlaySelectors {
		has, el, err := page.Has(sel)
		if err != nil || !has {
			continue
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err == nil {
			_ = sleep(ctx, 500*time.Millisecond)
		}
	}
	for _, label := range overlayButtonLabels {
		has, el, err := page.HasR("button", label)
		if err != nil || !has {
			continue
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err == nil {
			_ = sleep(ctx, 500*time.Millisecond)
		}
	}
}
