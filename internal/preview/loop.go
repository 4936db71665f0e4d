// Package preview drives an estimator from a ticker that stands in for the
// display refresh signal.
package preview

import (
	"context"
	"errors"
	"time"

	"detailing-bot/internal/estimator"

	"go.uber.org/zap"
)

var ErrStopped = errors.New("preview loop stopped")

// Renderer receives every frame. It runs on the loop goroutine.
type Renderer func(ctx context.Context, v estimator.View)

// Loop owns one estimator. All access to it goes through Send and Run.
type Loop struct {
	est      *estimator.Estimator
	interval time.Duration
	render   Renderer
	logger   *zap.Logger

	// idle > 0 ends Run after that long at rest with no new selection.
	idle time.Duration

	inbox chan estimator.Selection
	done  chan struct{}
}

type Option func(*Loop)

// WithIdleTimeout makes Run tear the estimator down and return once it has
// rested for d. Send then reports ErrStopped and the selection is not consumed.
func WithIdleTimeout(d time.Duration) Option {
	return func(l *Loop) {
		l.idle = d
	}
}

func New(est *estimator.Estimator, interval time.Duration, render Renderer, logger *zap.Logger, opts ...Option) *Loop {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	l := &Loop{
		est:      est,
		interval: interval,
		render:   render,
		logger:   logger,
		inbox:    make(chan estimator.Selection),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Send hands a new selection to the loop.
func (l *Loop) Send(ctx context.Context, sel estimator.Selection) error {
	select {
	case l.inbox <- sel:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Run processes selections and frames until ctx is cancelled or the idle
// timeout passes at rest.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	epoch := time.Now()
	var (
		ticker *time.Ticker
		frames <-chan time.Time
		token  estimator.FrameToken

		idleTimer *time.Timer
		idleC     <-chan time.Time
	)
	rest := func() {
		if l.idle <= 0 {
			return
		}
		if idleTimer == nil {
			idleTimer = time.NewTimer(l.idle)
		} else {
			idleTimer.Reset(l.idle)
		}
		idleC = idleTimer.C
	}
	wake := func() {
		if idleTimer != nil {
			idleTimer.Stop()
		}
		idleC = nil
	}
	defer wake()

	stop := func() {
		if ticker != nil {
			ticker.Stop()
		}
		ticker, frames, token = nil, nil, 0
	}
	defer stop()

	apply := func(cmd estimator.Cmd) {
		switch c := cmd.(type) {
		case estimator.RequestFrame:
			token = c.Token
			if ticker == nil {
				ticker = time.NewTicker(l.interval)
				frames = ticker.C
			}
			wake()
		case estimator.CancelFrame:
			stop()
		}
	}

	rest()
	for {
		select {
		case <-ctx.Done():
			apply(l.est.Handle(estimator.Teardown{}))
			l.logger.Debug("Preview loop stopped")
			return nil

		case <-idleC:
			apply(l.est.Handle(estimator.Teardown{}))
			l.logger.Debug("Preview loop idle, stopping")
			return nil

		case sel := <-l.inbox:
			apply(l.est.Handle(estimator.RecomputeRequested{Selection: sel}))
			if _, pending := l.est.Pending(); !pending {
				l.render(ctx, l.est.View())
				rest()
			}

		case t := <-frames:
			cmd := l.est.Handle(estimator.FrameTick{Token: token, Now: t.Sub(epoch)})
			l.render(ctx, l.est.View())
			if cmd == nil {
				stop()
				rest()
				l.logger.Debug("Price settled",
					zap.Int("displayed", l.est.State().Displayed))
				continue
			}
			apply(cmd)
		}
	}
}
