package browser

import "errors"

var (
	// ErrBotBlocked is returned when the retailer's challenge page did
	// not clear within the configured timeout. Callers should stop
	// interacting with the retailer for the rest of the run.
	ErrBotBlocked = errors.New("bot block detected: challenge not cleared in time")

	// ErrLoginFailed is returned when the sign-in flow did not reach a
	// logged-in state. A screenshot of the final page is saved to the
	// artifact directory for selector or captcha debugging.
	ErrLoginFailed = errors.New("login did not reach a logged-in state")

	// ErrNoPage is returned when the attached browser exposes no page to
	// drive and creating one failed.
	ErrNoPage = errors.New("no usable page in attached browser")
)
