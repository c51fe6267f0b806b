package games

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"keyplay/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

// Trail leaves a stream of fading dots behind the pointer and bursts a
// ring of dots on clicks. Key presses scatter dots across the screen.
type Trail struct {
	mu         sync.Mutex
	playfield  *fyne.Container
	canvasSize func() fyne.Size
	cancel     context.CancelFunc
	ctx        context.Context
	rng        *rand.Rand
	lastDot    time.Time

	dotInterval time.Duration
	dotRadius   float32
}

// NewTrail creates the mouse-trail game.
func NewTrail() *Trail {
	return &Trail{
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		dotInterval: 25 * time.Millisecond,
		dotRadius:   9,
	}
}

// Name implements Game.
func (game *Trail) Name() string { return "trail" }

// Start implements Game.
func (game *Trail) Start(playfield *fyne.Container, canvasSize func() fyne.Size) {
	game.mu.Lock()
	defer game.mu.Unlock()
	game.playfield = playfield
	game.canvasSize = canvasSize
	game.ctx, game.cancel = context.WithCancel(context.Background())
}

// HandleEvent implements Game.
func (game *Trail) HandleEvent(event model.InputEvent) {
	switch event := event.(type) {
	case model.PointerMotion:
		// Motion events arrive far faster than dots need to spawn.
		game.mu.Lock()
		throttled := time.Since(game.lastDot) < game.dotInterval
		if !throttled {
			game.lastDot = time.Now()
		}
		game.mu.Unlock()
		if !throttled {
			game.dot(float32(event.X), float32(event.Y), game.dotRadius)
		}
	case model.ButtonTransition:
		if event.IsDown {
			game.burst(float32(event.X), float32(event.Y))
		}
	case model.KeyTransition:
		if event.IsDown {
			game.scatter()
		}
	}
}

// Stop implements Game.
func (game *Trail) Stop() {
	game.mu.Lock()
	defer game.mu.Unlock()
	if game.cancel != nil {
		game.cancel()
		game.cancel = nil
	}
}

func (game *Trail) burst(x, y float32) {
	offsets := []fyne.Position{
		{X: 0, Y: -24}, {X: 17, Y: -17}, {X: 24, Y: 0}, {X: 17, Y: 17},
		{X: 0, Y: 24}, {X: -17, Y: 17}, {X: -24, Y: 0}, {X: -17, Y: -17},
	}
	for _, offset := range offsets {
		game.dot(x+offset.X, y+offset.Y, game.dotRadius*1.4)
	}
}

func (game *Trail) scatter() {
	game.mu.Lock()
	canvasSize := game.canvasSize
	rng := game.rng
	game.mu.Unlock()
	if canvasSize == nil {
		return
	}
	size := canvasSize()
	for count := 0; count < 6; count++ {
		game.dot(rng.Float32()*size.Width, rng.Float32()*size.Height, game.dotRadius*1.2)
	}
}

func (game *Trail) dot(x, y, radius float32) {
	game.mu.Lock()
	playfield := game.playfield
	ctx := game.ctx
	fill := pickColor(game.rng)
	game.mu.Unlock()
	if playfield == nil || ctx == nil {
		return
	}

	dot := canvas.NewCircle(fill)
	fyne.Do(func() {
		dot.Resize(fyne.NewSize(radius*2, radius*2))
		dot.Move(fyne.NewPos(x-radius, y-radius))
		playfield.Add(dot)
		dot.Refresh()
	})

	go func() {
		for frame := 1; frame <= fadeFrameCount; frame++ {
			if !sleepWithContext(ctx, fadeFrameInterval) {
				break
			}
			progress := float64(frame) / fadeFrameCount
			fyne.Do(func() {
				dot.FillColor = withAlpha(fill, 1-progress)
				dot.Refresh()
			})
		}
		fyne.Do(func() {
			playfield.Remove(dot)
		})
	}()
}
