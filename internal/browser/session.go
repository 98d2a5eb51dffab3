package browser

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/url"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// homeURL is the retailer landing page. Searches start here for a clean
// state; navigating straight to search result URLs trips bot detection.
const homeURL = "https://www.walmart.com/"

// Options configures a Session. All durations must be positive; the
// config package validates them before a session is built.
type Options struct {
	// CDPURL is the DevTools endpoint to attach to. Both http:// "json
	// version" endpoints and ws:// endpoints are accepted.
	CDPURL string

	// NavigationTimeout bounds each page navigation.
	NavigationTimeout time.Duration

	// BlockPollInterval is how often a blocked session re-checks the page.
	BlockPollInterval time.Duration

	// BlockTimeout bounds how long one challenge page is waited out.
	BlockTimeout time.Duration

	// SearchLimit caps product tiles read per search results page.
	SearchLimit int

	// ArtifactDir receives failure screenshots and storage-state dumps.
	ArtifactDir string
}

// Session is one persistent DevTools connection reused for an entire
// run. Connecting once and keeping the connection open avoids the
// connect/disconnect cycles that bot detection keys on.
type Session struct {
	browser *rod.Browser
	page    *rod.Page
	opts    Options
	logger  *slog.Logger
}

// Connect attaches to the browser at opts.CDPURL and takes over its
// first open page, creating one if the browser has none. The page is
// assumed to belong to the signed-in user's context.
func Connect(ctx context.Context, opts Options, logger *slog.Logger) (*Session, error) {
	controlURL := opts.CDPURL
	if strings.HasPrefix(controlURL, "http://") || strings.HasPrefix(controlURL, "https://") {
		resolved, err := launcher.ResolveURL(controlURL)
		if err != nil {
			return nil, fmt.Errorf("resolve DevTools endpoint: %w", err)
		}
		controlURL = resolved
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect to browser: %w", err)
	}

	page, err := firstPage(b)
	if err != nil {
		_ = b.Close()
		return nil, err
	}

	logger.Debug("attached to browser", "endpoint", opts.CDPURL)
	return &Session{browser: b, page: page, opts: opts, logger: logger}, nil
}

// firstPage returns the browser's first open page, creating a blank one
// when the browser has none.
func firstPage(b *rod.Browser) (*rod.Page, error) {
	pages, err := b.Pages()
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	if len(pages) > 0 {
		return pages.First(), nil
	}
	page, err := b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoPage, err)
	}
	return page, nil
}

// Close detaches from the browser. The browser itself keeps running;
// only the DevTools connection is torn down.
func (s *Session) Close() error {
	return s.browser.Close()
}

// GatewayEndpoint builds the authenticated websocket endpoint for a
// browserless gateway from its base URL and access token. HTTP schemes
// are rewritten to their websocket equivalents.
func GatewayEndpoint(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse gateway URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported gateway scheme %q", u.Scheme)
	}
	if token != "" {
		q := u.Query()
		q.Set("token", token)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// navigate loads a URL on the session page and waits for the DOM.
func (s *Session) navigate(ctx context.Context, target string) error {
	page := s.page.Context(ctx).Timeout(s.opts.NavigationTimeout)
	if err := page.Navigate(target); err != nil {
		return fmt.Errorf("navigate to %s: %w", target, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait for %s: %w", target, err)
	}
	return nil
}

// sleep pauses for d or until the context is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// sleepBetween pauses for a random duration in [min, max]. Uniform
// jitter on every wait keeps the interaction cadence from looking
// machine-generated.
func sleepBetween(ctx context.Context, min, max time.Duration) error {
	if max <= min {
		return sleep(ctx, min)
	}
	return sleep(ctx, min+rand.N(max-min))
}
