package browser

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Randomized waits around block handling. After a challenge appears the
// worst response is an immediate reload; backing off first gives the
// detector's score time to decay.
const (
	blockBackoffMin = 8 * time.Second
	blockBackoffMax = 15 * time.Second
	blockRenavWait  = 3 * time.Second
	blockCheckWait  = 2 * time.Second
)

// isBlocked reports whether a page URL and title indicate the retailer's
// challenge page.
func isBlocked(pageURL, title string) bool {
	if strings.Contains(pageURL, "/blocked") {
		return true
	}
	return strings.Contains(strings.ToLower(title), "robot or human")
}

// blocked checks the current page against the challenge heuristics.
func (s *Session) blocked(ctx context.Context) (bool, error) {
	info, err := s.page.Context(ctx).Info()
	if err != nil {
		return false, fmt.Errorf("read page info: %w", err)
	}
	return isBlocked(info.URL, info.Title), nil
}

// recoverBlock handles a freshly detected challenge page: back off,
// renavigate home once, and if the challenge persists, wait it out.
// Returns ErrBotBlocked when the challenge does not clear in time.
func (s *Session) recoverBlock(ctx context.Context) error {
	s.logger.Warn("challenge page detected, backing off")

	if err := sleepBetween(ctx, blockBackoffMin, blockBackoffMax); err != nil {
		return err
	}
	if err := s.navigate(ctx, homeURL); err != nil {
		return err
	}
	if err := sleep(ctx, blockRenavWait); err != nil {
		return err
	}

	stillBlocked, err := s.blocked(ctx)
	if err != nil {
		return err
	}
	if !stillBlocked {
		return nil
	}
	return s.waitForChallengeClear(ctx)
}

// waitForChallengeClear polls until the challenge page is gone or the
// block timeout expires. Between polls it navigates to the homepage
// rather than reloading the challenge URL; a human solving the captcha
// in the attached browser ends up on the homepage too.
func (s *Session) waitForChallengeClear(ctx context.Context) error {
	s.logger.Warn("waiting for challenge to clear",
		"poll_interval", s.opts.BlockPollInterval,
		"timeout", s.opts.BlockTimeout)

	deadline := time.Now().Add(s.opts.BlockTimeout)
	for time.Now().Before(deadline) {
		if err := sleep(ctx, s.opts.BlockPollInterval); err != nil {
			return err
		}

		// Navigation failures during a challenge are expected; keep polling.
		if err := s.navigate(ctx, homeURL); err == nil {
			if err := sleep(ctx, blockCheckWait); err != nil {
				return err
			}
		}

		stillBlocked, err := s.blocked(ctx)
		if err != nil {
			continue
		}
		if !stillBlocked {
			s.logger.Info("challenge cleared")
			return nil
		}
		s.logger.Debug("still blocked", "deadline", deadline)
	}
	return ErrBotBlocked
}
