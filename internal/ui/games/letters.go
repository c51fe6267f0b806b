package games

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"keyplay/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

// Letters flashes a giant glyph for every key the child presses. Clicks
// get a sprinkling of stars so the mouse feels alive too.
type Letters struct {
	mu         sync.Mutex
	playfield  *fyne.Container
	canvasSize func() fyne.Size
	cancel     context.CancelFunc
	ctx        context.Context
	rng        *rand.Rand

	holdDuration Range
}

// NewLetters creates the letters game.
func NewLetters() *Letters {
	return &Letters{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		holdDuration: Range{
			Min: 400 * time.Millisecond,
			Max: 700 * time.Millisecond,
		},
	}
}

// Name implements Game.
func (game *Letters) Name() string { return "letters" }

// Start implements Game.
func (game *Letters) Start(playfield *fyne.Container, canvasSize func() fyne.Size) {
	game.mu.Lock()
	defer game.mu.Unlock()
	game.playfield = playfield
	game.canvasSize = canvasSize
	game.ctx, game.cancel = context.WithCancel(context.Background())
}

// HandleEvent implements Game.
func (game *Letters) HandleEvent(event model.InputEvent) {
	switch event := event.(type) {
	case model.KeyTransition:
		if event.IsDown {
			game.flash(displayGlyph(event.Key))
		}
	case model.ButtonTransition:
		if event.IsDown {
			game.flash("✦")
		}
	}
}

// Stop implements Game.
func (game *Letters) Stop() {
	game.mu.Lock()
	defer game.mu.Unlock()
	if game.cancel != nil {
		game.cancel()
		game.cancel = nil
	}
}

func (game *Letters) flash(glyph string) {
	game.mu.Lock()
	playfield := game.playfield
	canvasSize := game.canvasSize
	ctx := game.ctx
	fill := pickColor(game.rng)
	hold := game.holdDuration.Random(game.rng)
	rng := game.rng
	game.mu.Unlock()
	if playfield == nil || canvasSize == nil || ctx == nil {
		return
	}

	size := canvasSize()
	text := canvas.NewText(glyph, fill)
	text.TextStyle = fyne.TextStyle{Bold: true}
	text.TextSize = 160 + rng.Float32()*80

	x := rng.Float32() * (size.Width - text.MinSize().Width)
	y := rng.Float32() * (size.Height - text.MinSize().Height)
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	fyne.Do(func() {
		text.Move(fyne.NewPos(x, y))
		text.Resize(text.MinSize())
		playfield.Add(text)
		text.Refresh()
	})

	go func() {
		if sleepWithContext(ctx, hold) {
			for frame := 1; frame <= fadeFrameCount; frame++ {
				if !sleepWithContext(ctx, fadeFrameInterval) {
					break
				}
				progress := float64(frame) / fadeFrameCount
				fyne.Do(func() {
					text.Color = withAlpha(fill, 1-progress)
					text.Refresh()
				})
			}
		}
		fyne.Do(func() {
			playfield.Remove(text)
		})
	}()
}

// displayGlyph turns a normalized key token into a single showy glyph.
// Multi-character tokens (modifiers, arrows) get friendly symbols.
func displayGlyph(key string) string {
	switch key {
	case "ArrowUp":
		return "↑"
	case "ArrowDown":
		return "↓"
	case "ArrowLeft":
		return "←"
	case "ArrowRight":
		return "→"
	case "Space":
		return "☁"
	case "Enter":
		return "★"
	}
	if len(key) == 1 {
		return strings.ToUpper(key)
	}
	return "♪"
}
