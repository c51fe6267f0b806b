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

// Bubbles pops a colored circle wherever the child clicks and somewhere
// random for every key press, then grows and fades it away.
type Bubbles struct {
	mu         sync.Mutex
	playfield  *fyne.Container
	canvasSize func() fyne.Size
	cancel     context.CancelFunc
	ctx        context.Context
	rng        *rand.Rand

	minRadius float32
	maxRadius float32
}

// NewBubbles creates the bubbles game.
func NewBubbles() *Bubbles {
	return &Bubbles{
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		minRadius: 30,
		maxRadius: 70,
	}
}

// Name implements Game.
func (game *Bubbles) Name() string { return "bubbles" }

// Start implements Game.
func (game *Bubbles) Start(playfield *fyne.Container, canvasSize func() fyne.Size) {
	game.mu.Lock()
	defer game.mu.Unlock()
	game.playfield = playfield
	game.canvasSize = canvasSize
	game.ctx, game.cancel = context.WithCancel(context.Background())
}

// HandleEvent implements Game.
func (game *Bubbles) HandleEvent(event model.InputEvent) {
	switch event := event.(type) {
	case model.KeyTransition:
		if event.IsDown {
			game.spawnRandom()
		}
	case model.ButtonTransition:
		if event.IsDown {
			game.spawn(float32(event.X), float32(event.Y))
		}
	case model.ScrollTransition:
		game.spawnRandom()
	}
}

// Stop implements Game.
func (game *Bubbles) Stop() {
	game.mu.Lock()
	defer game.mu.Unlock()
	if game.cancel != nil {
		game.cancel()
		game.cancel = nil
	}
}

func (game *Bubbles) spawnRandom() {
	game.mu.Lock()
	canvasSize := game.canvasSize
	rng := game.rng
	game.mu.Unlock()
	if canvasSize == nil {
		return
	}
	size := canvasSize()
	game.spawn(rng.Float32()*size.Width, rng.Float32()*size.Height)
}

func (game *Bubbles) spawn(x, y float32) {
	game.mu.Lock()
	playfield := game.playfield
	ctx := game.ctx
	fill := pickColor(game.rng)
	radius := game.minRadius + game.rng.Float32()*(game.maxRadius-game.minRadius)
	game.mu.Unlock()
	if playfield == nil || ctx == nil {
		return
	}

	bubble := canvas.NewCircle(fill)
	fyne.Do(func() {
		bubble.Resize(fyne.NewSize(radius*2, radius*2))
		bubble.Move(fyne.NewPos(x-radius, y-radius))
		playfield.Add(bubble)
		bubble.Refresh()
	})

	go func() {
		for frame := 1; frame <= fadeFrameCount; frame++ {
			if !sleepWithContext(ctx, fadeFrameInterval) {
				break
			}
			progress := float64(frame) / fadeFrameCount
			grown := radius * float32(1+progress*0.8)
			fyne.Do(func() {
				bubble.FillColor = withAlpha(fill, 1-progress)
				bubble.Resize(fyne.NewSize(grown*2, grown*2))
				bubble.Move(fyne.NewPos(x-grown, y-grown))
				bubble.Refresh()
			})
		}
		fyne.Do(func() {
			playfield.Remove(bubble)
		})
	}()
}
