// Package estimator prices a detailing selection and animates the displayed total
// toward it one frame at a time.
//
// An Estimator is owned by a single goroutine. The host calls Update whenever the
// selection changes and Tick once per display refresh for the frame token it was
// handed; tokens from superseded requests or a torn-down estimator are ignored.
package estimator

import (
	"time"

	"detailing-bot/internal/catalog"
)

type Direction int

const (
	DirectionNone Direction = iota
	DirectionIncreasing
	DirectionDecreasing
)

func (d Direction) String() string {
	switch d {
	case DirectionIncreasing:
		return "increasing"
	case DirectionDecreasing:
		return "decreasing"
	}
	return "none"
}

// FrameToken identifies one outstanding frame request. Zero means none.
type FrameToken uint64

// AnimationState is the part of the estimator that survives between frames.
type AnimationState struct {
	Displayed      int
	PreviousTarget int
}

// View is everything a renderer needs for one frame.
type View struct {
	Visible         bool
	Displayed       int
	Target          int
	IndividualTotal int
	Savings         int
	PackageSelected bool
	PackageName     string
	Direction       Direction
	Animating       bool
}

type transition struct {
	from      int
	to        int
	startedAt time.Duration
}

type Estimator struct {
	catalog  *catalog.Catalog
	duration time.Duration

	quote Quote
	state AnimationState

	running bool
	active  transition
	// dirty is set when quote.Target moved away from the goal being animated to;
	// the restart happens on the next frame so bursts of updates coalesce.
	dirty bool

	frame     FrameToken
	lastToken FrameToken
	closed    bool
}

type Option func(*Estimator)

// WithDuration overrides the transition length. Non-positive values keep the default.
func WithDuration(d time.Duration) Option {
	return func(e *Estimator) {
		if d > 0 {
			e.duration = d
		}
	}
}

// WithDisplayed starts the estimator showing v instead of 0, for a host that
// recreates an estimator over a value already on screen.
func WithDisplayed(v int) Option {
	return func(e *Estimator) {
		e.state = AnimationState{Displayed: v, PreviousTarget: v}
	}
}

func New(c *catalog.Catalog, opts ...Option) *Estimator {
	e := &Estimator{
		catalog:  c,
		duration: DefaultDuration,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Update recomputes the quote for sel. When a frame is needed and none is
// outstanding it returns a fresh token and true; the caller must schedule it.
func (e *Estimator) Update(sel Selection) (FrameToken, bool) {
	if e.closed {
		return 0, false
	}

	e.quote = Compute(e.catalog, sel)
	e.dirty = e.quote.Target != e.goal()

	if !e.dirty && !e.running {
		return e.frame, false
	}
	if e.frame != 0 {
		return e.frame, false
	}
	return e.requestFrame(), true
}

// Tick advances the animation to host time now. It returns the token for the
// next frame and true while the transition is still running.
func (e *Estimator) Tick(token FrameToken, now time.Duration) (FrameToken, bool) {
	if e.closed || token == 0 || token != e.frame {
		return 0, false
	}
	e.frame = 0

	if e.dirty {
		e.restart(now)
	}
	if !e.running {
		return 0, false
	}

	p := Progress(e.active.startedAt, now, e.duration)
	e.state.Displayed = Interpolate(e.active.from, e.active.to, p)
	if p >= 1 {
		e.state.Displayed = e.active.to
		e.running = false
		return 0, false
	}
	return e.requestFrame(), true
}

// Close tears the estimator down. Any outstanding token becomes stale.
func (e *Estimator) Close() {
	e.closed = true
	e.frame = 0
	e.running = false
}

func (e *Estimator) Closed() bool {
	return e.closed
}

// Pending returns the outstanding frame token, if any.
func (e *Estimator) Pending() (FrameToken, bool) {
	return e.frame, e.frame != 0
}

func (e *Estimator) Quote() Quote {
	return e.quote
}

func (e *Estimator) State() AnimationState {
	return e.state
}

func (e *Estimator) Duration() time.Duration {
	return e.duration
}

func (e *Estimator) View() View {
	v := View{
		Visible:         e.quote.Visible,
		Displayed:       e.state.Displayed,
		Target:          e.quote.Target,
		IndividualTotal: e.quote.IndividualTotal,
		Savings:         e.quote.Savings,
		PackageSelected: e.quote.PackageSelected,
		PackageName:     e.quote.PackageName,
		Animating:       e.running || e.dirty,
	}
	switch {
	case v.Displayed < v.Target:
		v.Direction = DirectionIncreasing
	case v.Displayed > v.Target:
		v.Direction = DirectionDecreasing
	}
	return v
}

// goal is the value the display is heading to, or resting at.
func (e *Estimator) goal() int {
	if e.running {
		return e.active.to
	}
	return e.state.Displayed
}

// restart begins a transition from whatever is on screen right now.
func (e *Estimator) restart(now time.Duration) {
	e.dirty = false
	e.state.PreviousTarget = e.goal()
	e.active = transition{
		from:      e.state.Displayed,
		to:        e.quote.Target,
		startedAt: now,
	}
	e.running = e.active.from != e.active.to
}

func (e *Estimator) requestFrame() FrameToken {
	e.lastToken++
	e.frame = e.lastToken
	return e.frame
}
