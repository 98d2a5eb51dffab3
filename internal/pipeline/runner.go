package pipeline

import (
	"context"
	"log/slog"
	"time"

	"cartsync/internal/model"
	"cartsync/internal/normalize"
)

// Runner drives one sync pass over an ordered list of raw lines,
// producing exactly one outcome per line.
//
// Items are processed strictly sequentially. The browser session is a
// single shared, stateful resource (one page, one cart), so there is no
// parallel fan-out.
type Runner struct {
	session   Session
	dryRun    bool
	itemDelay time.Duration
	logger    *slog.Logger

	// blocked is the run-wide latch. Once a bot block is confirmed, no
	// further network attempts are made for the rest of the run.
	blocked bool
}

// NewRunner creates a Runner over the given session.
func NewRunner(session Session, dryRun bool, itemDelay time.Duration, logger *slog.Logger) *Runner {
	return &Runner{
		session:   session,
		dryRun:    dryRun,
		itemDelay: itemDelay,
		logger:    logger,
	}
}

// Run processes every line and appends one outcome per line to the
// report. The report always covers every requested line, even when most
// of the run is skipped behind the block latch; a partial silent
// truncation would hide work the user still has to do by hand.
func (r *Runner) Run(ctx context.Context, lines []string, report *model.RunReport) error {
	p := New([]Step{
		NewNormalizeStep(),
		NewSearchStep(r.session, r.logger),
		NewMatchStep(r.logger),
		NewAddStep(r.session, r.dryRun, r.logger),
	}, WithLogger(r.logger))

	for i, raw := range lines {
		if i > 0 && r.itemDelay > 0 && !r.blocked {
			if err := sleepCtx(ctx, r.itemDelay); err != nil {
				return err
			}
		}

		r.logger.Info("processing item", "index", i+1, "total", len(lines), "raw", raw)

		if r.blocked {
			// Normalize anyway so the skipped outcome still records the
			// queries that would have been used.
			item := normalize.Line(raw)
			report.Append(model.NewOutcome(item, model.StatusSkippedBotBlock))
			continue
		}

		ex := &Exchange{Raw: raw}
		if err := p.Execute(ctx, ex); err != nil {
			return err
		}
		if ex.Blocked {
			r.logger.Warn("bot block confirmed, skipping remaining items")
			r.blocked = true
		}

		outcome := ex.Outcome()
		r.logger.Info("item finished", "status", string(outcome.Status), "title", outcome.ChosenTitle)
		report.Append(outcome)
	}
	return nil
}

// sleepCtx pauses for d or until the context is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
