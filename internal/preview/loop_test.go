package preview

import (
	"context"
	"errors"
	"testing"
	"time"

	"detailing-bot/internal/catalog"
	"detailing-bot/internal/estimator"

	"go.uber.org/zap"
)

func newTestLoop(t *testing.T) (*Loop, chan estimator.View, context.CancelFunc) {
	t.Helper()

	cat := catalog.MustNew(
		[]catalog.Service{{ID: "ceramic-coating", Price: 899}, {ID: "paint-correction", Price: 599}},
		[]catalog.Package{{ID: "sport", Name: "Sport Protection", Price: 1200}},
	)
	est := estimator.New(cat, estimator.WithDuration(30*time.Millisecond))

	views := make(chan estimator.View, 4096)
	loop := New(est, time.Millisecond, func(_ context.Context, v estimator.View) {
		views <- v
	}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)
	t.Cleanup(cancel)
	return loop, views, cancel
}

func waitFor(t *testing.T, views <-chan estimator.View, done func(estimator.View) bool) []estimator.View {
	t.Helper()
	var seen []estimator.View
	timeout := time.After(2 * time.Second)
	for {
		select {
		case v := <-views:
			seen = append(seen, v)
			if done(v) {
				return seen
			}
		case <-timeout:
			t.Fatalf("timed out after %d frames", len(seen))
		}
	}
}

func TestLoop_AnimatesToTarget(t *testing.T) {
	loop, views, _ := newTestLoop(t)

	sel := estimator.Selection{Services: []string{"ceramic-coating", "paint-correction"}}
	if err := loop.Send(context.Background(), sel); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	seen := waitFor(t, views, func(v estimator.View) bool {
		return !v.Animating && v.Displayed == 1498
	})

	prev := 0
	for _, v := range seen {
		if v.Displayed < prev || v.Displayed > 1498 {
			t.Fatalf("frame %d out of order after %d", v.Displayed, prev)
		}
		prev = v.Displayed
	}
	if last := seen[len(seen)-1]; last.Direction != estimator.DirectionNone {
		t.Errorf("expected no direction at rest, got %s", last.Direction)
	}
}

func TestLoop_RestartsMidFlight(t *testing.T) {
	loop, views, _ := newTestLoop(t)
	ctx := context.Background()

	if err := loop.Send(ctx, estimator.Selection{Package: "sport"}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	waitFor(t, views, func(v estimator.View) bool { return v.Displayed > 0 })

	if err := loop.Send(ctx, estimator.Selection{Services: []string{"paint-correction"}}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	seen := waitFor(t, views, func(v estimator.View) bool {
		return !v.Animating && v.Target == 599 && v.Displayed == 599
	})

	for _, v := range seen {
		if v.Displayed > 1200 {
			t.Fatalf("overshoot: %d", v.Displayed)
		}
	}
}

func TestLoop_RendersImmediatelyWithoutAnimation(t *testing.T) {
	loop, views, _ := newTestLoop(t)

	if err := loop.Send(context.Background(), estimator.Selection{Services: []string{"unknown-id"}}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	seen := waitFor(t, views, func(estimator.View) bool { return true })
	if !seen[0].Visible || seen[0].Displayed != 0 {
		t.Errorf("expected visible $0 view, got %+v", seen[0])
	}
}

func TestLoop_SendAfterStop(t *testing.T) {
	loop, _, cancel := newTestLoop(t)
	cancel()

	select {
	case <-loop.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}

	err := loop.Send(context.Background(), estimator.Selection{Package: "sport"})
	if !errors.Is(err, ErrStopped) {
		t.Errorf("expected ErrStopped, got %v", err)
	}
}

func TestLoop_StopsWhenIdle(t *testing.T) {
	cat := catalog.MustNew([]catalog.Service{{ID: "ceramic-coating", Price: 899}}, nil)
	est := estimator.New(cat, estimator.WithDuration(20*time.Millisecond))

	views := make(chan estimator.View, 4096)
	loop := New(est, time.Millisecond, func(_ context.Context, v estimator.View) {
		views <- v
	}, zap.NewNop(), WithIdleTimeout(40*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	if err := loop.Send(ctx, estimator.Selection{Services: []string{"ceramic-coating"}}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	waitFor(t, views, func(v estimator.View) bool { return !v.Animating && v.Displayed == 899 })

	select {
	case <-loop.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("idle loop did not stop")
	}

	if !est.Closed() {
		t.Error("idle stop must tear the estimator down")
	}
	if err := loop.Send(ctx, estimator.Selection{}); !errors.Is(err, ErrStopped) {
		t.Errorf("expected ErrStopped after idle stop, got %v", err)
	}
}
