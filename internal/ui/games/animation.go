package games

import (
	"context"
	"image/color"
	"math/rand"
	"time"
)

// Range defines a duration range with random sampling.
type Range struct {
	Min time.Duration
	Max time.Duration
}

// Random returns a random duration within the range.
func (value Range) Random(rng *rand.Rand) time.Duration {
	if value.Max <= value.Min {
		return value.Min
	}
	delta := value.Max - value.Min
	return value.Min + time.Duration(rng.Int63n(int64(delta)))
}

const (
	fadeFrameInterval = 33 * time.Millisecond
	fadeFrameCount    = 18
)

// palette holds the bright toddler-friendly colors the games draw with.
var palette = []color.NRGBA{
	{R: 244, G: 67, B: 54, A: 255},
	{R: 255, G: 152, B: 0, A: 255},
	{R: 255, G: 235, B: 59, A: 255},
	{R: 76, G: 175, B: 80, A: 255},
	{R: 33, G: 150, B: 243, A: 255},
	{R: 156, G: 39, B: 176, A: 255},
	{R: 0, G: 188, B: 212, A: 255},
	{R: 255, G: 64, B: 129, A: 255},
}

func pickColor(rng *rand.Rand) color.NRGBA {
	return palette[rng.Intn(len(palette))]
}

func withAlpha(base color.NRGBA, alpha float64) color.NRGBA {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	base.A = uint8(alpha * 255)
	return base
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
