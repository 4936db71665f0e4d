package estimator

import (
	"math"
	"time"
)

// DefaultDuration is how long one price transition takes.
const DefaultDuration = 800 * time.Millisecond

// EaseOutCubic maps elapsed fraction p to an interpolation weight, fast first then settling.
func EaseOutCubic(p float64) float64 {
	p = clamp01(p)
	inv := 1 - p
	return 1 - inv*inv*inv
}

// Interpolate returns the displayed value at fraction p of a transition from start to target.
func Interpolate(start, target int, p float64) int {
	if p >= 1 {
		return target
	}
	w := EaseOutCubic(p)
	return int(math.Round(float64(start) + float64(target-start)*w))
}

// Progress is the elapsed fraction of a transition started at startedAt.
func Progress(startedAt, now, duration time.Duration) float64 {
	if duration <= 0 {
		return 1
	}
	return clamp01(float64(now-startedAt) / float64(duration))
}

func clamp01(p float64) float64 {
	switch {
	case p < 0 || math.IsNaN(p):
		return 0
	case p > 1:
		return 1
	}
	return p
}

// Samples lists the values shown at each frame of one transition, frames spaced
// interval apart starting at p = 0. The last sample is always target.
func Samples(start, target int, duration, interval time.Duration) []int {
	if interval <= 0 {
		interval = duration
	}
	if start == target || duration <= 0 {
		return []int{target}
	}

	out := make([]int, 0, int(duration/interval)+2)
	for at := time.Duration(0); at < duration; at += interval {
		out = append(out, Interpolate(start, target, Progress(0, at, duration)))
	}
	return append(out, target)
}
