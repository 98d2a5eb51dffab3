package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

const loginURL = "https://www.walmart.com/account/login"

// EnsureLoggedIn checks whether the session is signed in and runs the
// sign-in flow if not. On success the session's cookies and web storage
// are persisted to statePath so later runs can skip the flow. On
// failure a screenshot is saved and ErrLoginFailed returned.
//
// The flow assumes no MFA on the account; a challenge or OTP page shows
// up in the failure screenshot.
func (s *Session) EnsureLoggedIn(ctx context.Context, email, password, statePath string) error {
	if err := s.navigate(ctx, homeURL); err != nil {
		return err
	}
	if err := sleep(ctx, time.Second); err != nil {
		return err
	}

	if s.loggedIn(ctx) {
		return s.SaveStorageState(ctx, statePath)
	}

	if err := s.navigate(ctx, loginURL); err != nil {
		return err
	}
	if err := s.fillLoginForm(ctx, email, password); err != nil {
		return err
	}

	if err := sleep(ctx, 2500*time.Millisecond); err != nil {
		return err
	}
	if err := s.page.Context(ctx).Timeout(s.opts.NavigationTimeout).WaitLoad(); err != nil {
		return fmt.Errorf("wait for post-login page: %w", err)
	}

	if !s.loggedIn(ctx) {
		s.saveScreenshot(ctx, "login_failed.png")
		return ErrLoginFailed
	}
	return s.SaveStorageState(ctx, statePath)
}

// fillLoginForm enters the credentials. The retailer's login UI changes
// often, so selectors stay broad, and some flows interpose a Continue
// step between the email and password fields.
func (s *Session) fillLoginForm(ctx context.Context, email, password string) error {
	page := s.page.Context(ctx)

	emailInput, err := page.Timeout(15 * time.Second).Element(`input[name="email"], input[type="email"]`)
	if err != nil {
		return fmt.Errorf("find email field: %w", err)
	}
	if err := emailInput.Input(email); err != nil {
		return fmt.Errorf("fill email field: %w", err)
	}

	if btn := findSubmitButton(page, "(?i)continue|sign in"); btn != nil {
		if err := btn.Click(proto.InputMouseButtonLeft, 1); err == nil {
			_ = sleep(ctx, 1200*time.Millisecond)
		}
	}

	passwordInput, err := page.Timeout(15 * time.Second).Element(`input[name="password"], input[type="password"]`)
	if err != nil {
		return fmt.Errorf("find password field: %w", err)
	}
	if err := passwordInput.Input(password); err != nil {
		return fmt.Errorf("fill password field: %w", err)
	}

	btn := findSubmitButton(page, "(?i)sign in")
	if btn == nil {
		if has, el, err := page.Has(`button[type="submit"]`); err == nil && has {
			btn = el
		}
	}
	if btn == nil {
		return fmt.Errorf("find sign-in button: %w", ErrLoginFailed)
	}
	if err := btn.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("submit login form: %w", err)
	}
	return nil
}

// findSubmitButton matches a button by visible label, falling back to
// the generic submit button.
func findSubmitButton(page *rod.Page, labelPattern string) *rod.Element {
	if has, el, err := page.HasR("button", labelPattern); err == nil && has {
		return el
	}
	if has, el, err := page.Has(`button[type="submit"]`); err == nil && has {
		return el
	}
	return nil
}

// loggedIn applies content heuristics to the current page. Account
// navigation selectors are brittle across retailer UI revisions; common
// header text is a weak signal but holds up well in practice.
func (s *Session) loggedIn(ctx context.Context) bool {
	html, err := s.page.Context(ctx).HTML()
	if err != nil {
		return false
	}
	return loggedInContent(html)
}

// loggedInContent reports whether page HTML looks signed in.
func loggedInContent(html string) bool {
	content := strings.ToLower(html)
	if strings.Contains(content, "sign in") && strings.Contains(content, "create account") {
		return false
	}
	return strings.Contains(content, "account") ||
		strings.Contains(content, "my items") ||
		strings.Contains(content, "purchase history")
}

// storageState is the persisted shape of a session's cookies and web
// storage.
type storageState struct {
	Cookies        []*proto.NetworkCookie `json:"cookies"`
	LocalStorage   map[string]string      `json:"localStorage"`
	SessionStorage map[string]string      `json:"sessionStorage"`
}

// SaveStorageState snapshots the session's cookies, localStorage, and
// sessionStorage into a JSON file.
func (s *Session) SaveStorageState(ctx context.Context, path string) error {
	page := s.page.Context(ctx)

	cookies, err := proto.NetworkGetCookies{}.Call(page)
	if err != nil {
		return fmt.Errorf("get cookies: %w", err)
	}

	state := storageState{
		Cookies:        cookies.Cookies,
		LocalStorage:   snapshotStorage(page, "localStorage"),
		SessionStorage: snapshotStorage(page, "sessionStorage"),
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode storage state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create storage state dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write storage state: %w", err)
	}
	s.logger.Info("saved storage state", "path", path)
	return nil
}

// snapshotStorage reads a DOM storage area as a string map. Storage
// access can throw on opaque origins; that yields an empty map.
func snapshotStorage(page *rod.Page, store string) map[string]string {
	js := fmt.Sprintf(`() => {
		try {
			const out = {};
			for (const key of Object.keys(%s)) {
				out[key] = %s.getItem(key);
			}
			return out;
		} catch (e) {
			return {};
		}
	}`, store, store)

	res, err := page.Evaluate(&rod.EvalOptions{JS: js, ByValue: true, AwaitPromise: true})
	if err != nil || res == nil {
		return map[string]string{}
	}

	out := make(map[string]string)
	for key, val := range res.Value.Map() {
		out[key] = val.Str()
	}
	return out
}

// HomeScreenshot loads the retailer homepage and writes a full-page
// screenshot to path. Used as a connectivity smoke check: it proves the
// DevTools attachment, navigation, and rendering all work before a run
// touches the cart.
func (s *Session) HomeScreenshot(ctx context.Context, path string) error {
	if err := s.navigate(ctx, homeURL); err != nil {
		return err
	}
	if err := sleep(ctx, 1500*time.Millisecond); err != nil {
		return err
	}

	data, err := s.page.Context(ctx).Screenshot(true, nil)
	if err != nil {
		return fmt.Errorf("capture screenshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create screenshot dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write screenshot: %w", err)
	}
	return nil
}
