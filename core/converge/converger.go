// Package converge drives the host document toward full history
// materialization. The host UI virtualizes the conversation: only
// visible turns exist in the tree, and when the scroll position hits
// the top it prepends older content while re-adjusting the offset to
// preserve the viewport. A single scroll-to-top therefore never yields
// a stable top. The loop here perturbs the scroll position repeatedly
// and treats "no turn-count growth for N consecutive probes" as the
// only reliable termination signal.
package converge

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gaurav-prasanna/chatscribe/core"
	"github.com/gaurav-prasanna/chatscribe/core/config"
)

// Outcome is the terminal state of a convergence run.
type Outcome string

const (
	// OutcomeStable means the turn count stopped growing for the
	// configured number of consecutive probes.
	OutcomeStable Outcome = "stable"
	// OutcomeExhausted means the attempt bound was reached first.
	// Treated as a soft-success: extraction proceeds with what loaded.
	OutcomeExhausted Outcome = "exhausted"
)

// Converger runs the perturbation loop over injected collaborators so
// the termination logic is testable without real time delays.
type Converger struct {
	scroller core.Scroller
	prober   core.Prober
	cfg      config.Convergence
	log      *zap.Logger

	// sleep is the injectable clock. The default honors ctx cancellation.
	sleep func(ctx context.Context, d time.Duration) error

	// progress receives phase events; may be nil. Sends never block:
	// a slow consumer drops events rather than stalling convergence.
	progress chan<- core.Progress
}

// Option configures a Converger.
type Option func(*Converger)

// WithProgress installs a progress event channel.
func WithProgress(ch chan<- core.Progress) Option {
	return func(c *Converger) { c.progress = ch }
}

// WithSleep replaces the clock, for deterministic tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Converger) { c.sleep = sleep }
}

// New creates a Converger over the given scroll handle and probe.
func New(scroller core.Scroller, prober core.Prober, cfg config.Convergence, log *zap.Logger, opts ...Option) *Converger {
	c := &Converger{
		scroller: scroller,
		prober:   prober,
		cfg:      cfg,
		log:      log,
		sleep:    sleepCtx,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run perturbs the scroll position until the turn count stabilizes or
// the attempt bound is hit, then performs one final settle perturbation
// to absorb any residual prepend-adjustment race. It returns the
// outcome and the final turn count. The container's scroll position is
// restored to the bottom on the way out; extraction has already
// completed by then, so a failure there is only logged.
func (c *Converger) Run(ctx context.Context) (Outcome, int, error) {
	if c.scroller == nil || c.prober == nil {
		return "", 0, core.ErrContainerNotFound
	}

	n, err := c.prober.TurnCount(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("initial probe: %w", err)
	}
	c.emit(core.PhaseStarting, n)
	c.log.Debug("convergence started", zap.Int("initial_turns", n))

	outcome := OutcomeExhausted
	prev := n
	stable := 0
	for attempt := 0; attempt < c.cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", 0, err
		}
		if err := c.scroller.ScrollToTop(ctx); err != nil {
			return "", 0, fmt.Errorf("scroll to top: %w", err)
		}
		if err := c.sleep(ctx, c.cfg.SettleInterval()); err != nil {
			return "", 0, err
		}
		n, err = c.prober.TurnCount(ctx)
		if err != nil {
			return "", 0, fmt.Errorf("probe after attempt %d: %w", attempt+1, err)
		}
		c.emit(core.PhaseScrollingUp, n)

		if n == prev {
			stable++
			if stable >= c.cfg.StableRounds {
				outcome = OutcomeStable
				break
			}
		} else {
			stable = 0
			prev = n
		}
	}

	// Final settle: one more perturbation with a short suspension, in
	// case the last prepend landed between probe and hand-off.
	if err := c.scroller.ScrollToTop(ctx); err != nil {
		return "", 0, fmt.Errorf("final settle: %w", err)
	}
	if err := c.sleep(ctx, c.cfg.SettleInterval()/2); err != nil {
		return "", 0, err
	}
	n, err = c.prober.TurnCount(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("final probe: %w", err)
	}

	if err := c.scroller.ScrollToBottom(ctx); err != nil {
		c.log.Warn("could not restore scroll position", zap.Error(err))
	}

	c.emit(core.PhaseDone, n)
	c.log.Debug("convergence finished",
		zap.String("outcome", string(outcome)),
		zap.Int("turns", n))
	return outcome, n, nil
}

func (c *Converger) emit(phase core.Phase, collected int) {
	if c.progress == nil {
		return
	}
	select {
	case c.progress <- core.Progress{Phase: phase, Collected: collected}:
	default:
		c.log.Debug("progress event dropped", zap.String("phase", string(phase)))
	}
}

// sleepCtx waits for d or until ctx is canceled.
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
