// Package pipeline sequences the per-item processing steps of a sync
// run: normalize the list line, search the retailer, match a candidate,
// add it to the cart. The Runner drives one pipeline execution per item
// and owns the run-wide bot-block latch.
package pipeline

import (
	"context"
	"log/slog"

	"cartsync/internal/model"
)

// Exchange is the working state one item accumulates as it moves
// through the steps. A fresh Exchange is created per item; steps
// communicate only through it.
type Exchange struct {
	// Raw is the original shopping-list line.
	Raw string

	// Item is set by the normalize step.
	Item model.NormalizedItem

	// Candidates is set by the search step.
	Candidates []model.ProductCandidate

	// Chosen is set by the match step. Nil when nothing matched.
	Chosen *model.ChosenProduct

	// Status is the item's final disposition once done is set.
	Status model.Status

	// Blocked records that a session operation hit an unresolved bot
	// block while processing this item. The Runner reads it to set the
	// run-wide latch.
	Blocked bool

	done bool
}

// Finish settles the exchange with a final status. Later steps are
// skipped.
func (e *Exchange) Finish(status model.Status) {
	e.Status = status
	e.done = true
}

// Done reports whether the exchange has settled.
func (e *Exchange) Done() bool {
	return e.done
}

// Outcome converts the settled exchange into an immutable outcome record.
func (e *Exchange) Outcome() model.ItemOutcome {
	return model.NewOutcome(e.Item, e.Status).WithChosen(e.Chosen)
}

// Step is one stage of per-item processing.
//
// An interface rather than a function type because steps carry
// configuration and collaborators, and Name() gives logging a stable
// label per stage.
type Step interface {
	// Do advances the exchange. Errors are reserved for context
	// cancellation; domain failures settle the exchange via Finish
	// instead, so the run continues with the next item.
	Do(ctx context.Context, ex *Exchange) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline executes steps in order, stopping early once the exchange
// settles.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a Pipeline with the given steps.
func New(steps []Step, opts ...Option) *Pipeline {
	p := &Pipeline{steps: steps}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Execute runs the steps in sequence over one exchange.
// Cancellation is checked between steps; steps bound their own work via
// the context they receive.
func (p *Pipeline) Execute(ctx context.Context, ex *Exchange) error {
	for _, step := range p.steps {
		if ex.Done() {
			return nil
		}
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled", "step", step.Name(), "reason", ctx.Err())
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step", "step", step.Name(), "raw", ex.Raw)
		if err := step.Do(ctx, ex); err != nil {
			return err
		}
	}
	return nil
}
