package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// addButtonSelectors locate the add-to-cart button on a product page.
var addButtonSelectors = []string{
	`button[data-testid="add-to-cart-btn"]`,
	`[data-automation-id="atc-btn"]`,
}

// AddToCart navigates to a product page and clicks its add-to-cart
// button. It reports whether the addition could be verified, preferring
// a cart badge count increase and falling back to the confirmation
// dialog. When no add button exists a screenshot is saved for debugging
// and false is returned. ErrBotBlocked is returned if a challenge page
// appears and does not clear.
func (s *Session) AddToCart(ctx context.Context, productURL string) (bool, error) {
	if err := s.navigate(ctx, productURL); err != nil {
		return false, err
	}
	if err := sleepBetween(ctx, 2*time.Second, 4*time.Second); err != nil {
		return false, err
	}

	if blocked, err := s.blocked(ctx); err != nil {
		return false, err
	} else if blocked {
		if err := s.waitForChallengeClear(ctx); err != nil {
			return false, err
		}
	}

	s.dismissOverlays(ctx)

	page := s.page.Context(ctx)
	before := s.cartCount(ctx)

	addBtn := findAddButton(page)
	if addBtn == nil {
		s.saveScreenshot(ctx, "add_to_cart_no_btn.png")
		return false, nil
	}

	if err := addBtn.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return false, fmt.Errorf("click add to cart: %w", err)
	}
	if err := sleep(ctx, 3*time.Second); err != nil {
		return false, err
	}

	// The confirmation dialog blocks the next item's interactions.
	s.dismissOverlays(ctx)

	after := s.cartCount(ctx)
	if before != nil && after != nil {
		return *after > *before, nil
	}

	// Cart badge unreadable; fall back to the confirmation UI.
	if has, _, err := page.Has(`[data-testid="atc-confirmation"]`); err == nil && has {
		return true, nil
	}
	if has, _, err := page.HasR("div", "[Aa]dded to (your )?cart"); err == nil && has {
		return true, nil
	}
	return false, nil
}

// findAddButton tries the known selectors for the product page add
// button, then falls back to matching any button labelled "Add to cart"
// and finally a bare "Add" (shelf and card layouts).
func findAddButton(page *rod.Page) *rod.Element {
	for _, sel := range addButtonSelectors {
		if has, el, err := page.Has(sel); err == nil && has {
			return el
		}
	}
	if has, el, err := page.HasR("button", "(?i)add to cart"); err == nil && has {
		return el
	}
	if has, el, err := page.HasR("button", `(?i)\badd\b`); err == nil && has {
		return el
	}
	return nil
}

// cartCount reads the cart badge, returning nil when no badge is
// present or its text is not a number.
func (s *Session) cartCount(ctx context.Context) *int {
	page := s.page.Context(ctx)
	has, badge, err := page.Has(`[data-testid="cart-count"], .cart-count, [aria-label*="Cart"] span`)
	if err != nil || !has {
		return nil
	}
	text, err := badge.Text()
	if err != nil {
		return nil
	}
	return parseCartCount(text)
}

// parseCartCount converts cart badge text to a count.
func parseCartCount(text string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return nil
	}
	return &n
}

// saveScreenshot captures the full page into the artifact directory.
// Screenshot failures are logged, never fatal: the screenshot exists to
// debug another failure.
func (s *Session) saveScreenshot(ctx context.Context, name string) {
	data, err := s.page.Context(ctx).Screenshot(true, nil)
	if err != nil {
		s.logger.Warn("screenshot failed", "name", name, "error", err)
		return
	}
	if err := os.MkdirAll(s.opts.ArtifactDir, 0o750); err != nil {
		s.logger.Warn("create artifact dir failed", "error", err)
		return
	}
	path := filepath.Join(s.opts.ArtifactDir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		s.logger.Warn("write screenshot failed", "path", path, "error", err)
		return
	}
	s.logger.Info("saved screenshot", "path", path)
}
