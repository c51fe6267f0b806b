// Package games holds the visual playthings themselves. Games are
// presentation-only subscribers of the shared input stream: they render
// feedback for whatever the child does and never filter, consume or block
// events for the exit recognizer.
package games

import (
	"sync"

	"keyplay/internal/core/model"

	"fyne.io/fyne/v2"
)

// Game renders visual feedback for input events into a playfield.
type Game interface {
	Name() string
	Start(playfield *fyne.Container, canvasSize func() fyne.Size)
	HandleEvent(event model.InputEvent)
	Stop()
}

// ByName returns the game selected in settings, defaulting to bubbles.
func ByName(name string) Game {
	switch name {
	case "letters":
		return NewLetters()
	case "trail":
		return NewTrail()
	default:
		return NewBubbles()
	}
}

// Runner feeds one game from a stream subscription on its own goroutine.
type Runner struct {
	mu      sync.Mutex
	game    Game
	stopCh  chan struct{}
	running bool
}

// NewRunner creates a runner for the given game.
func NewRunner(game Game) *Runner {
	return &Runner{
		game:   game,
		stopCh: make(chan struct{}),
	}
}

// Start attaches the game to the playfield and begins forwarding events.
func (runner *Runner) Start(events <-chan model.InputEvent, playfield *fyne.Container, canvasSize func() fyne.Size) {
	runner.mu.Lock()
	if runner.running {
		runner.mu.Unlock()
		return
	}
	runner.running = true
	stopCh := runner.stopCh
	runner.mu.Unlock()

	runner.game.Start(playfield, canvasSize)

	go func() {
		for {
			select {
			case <-stopCh:
				return
			case event, ok := <-events:
				if !ok {
					return
				}
				runner.game.HandleEvent(event)
			}
		}
	}()
}

// Stop ends forwarding and stops the game's animations.
func (runner *Runner) Stop() {
	runner.mu.Lock()
	if runner.stopCh == nil {
		runner.mu.Unlock()
		return
	}
	close(runner.stopCh)
	runner.stopCh = nil
	runner.running = false
	runner.mu.Unlock()

	runner.game.Stop()
}
