package kiosk

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"keyplay/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
)

// Config defines kiosk window visuals.
type Config struct {
	Title      string
	Fullscreen bool
}

const (
	defaultScreenWidth  = float32(1920)
	defaultScreenHeight = float32(1080)
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// Window is the fullscreen kiosk surface. It hosts the active game's
// canvas and a small exit-progress strip, and it swallows every
// window-close attempt; the only way out is the exit gesture.
type Window struct {
	app        fyne.App
	window     fyne.Window
	config     Config
	background *canvas.Rectangle
	playfield  *fyne.Container
	stepsLabel *canvas.Text
	timerLabel *canvas.Text
}

// New creates the kiosk window.
func New(app fyne.App, config Config) *Window {
	window := app.NewWindow(config.Title)
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		// Splash window is undecorated (no native frame/buttons).
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	background := canvas.NewRectangle(color.NRGBA{R: 12, G: 16, B: 38, A: 255})
	playfield := container.NewWithoutLayout()

	stepsLabel := canvas.NewText("", color.NRGBA{R: 232, G: 190, B: 66, A: 255})
	stepsLabel.TextStyle = fyne.TextStyle{Bold: true}
	stepsLabel.TextSize = 18

	timerLabel := canvas.NewText("", color.NRGBA{R: 255, G: 255, B: 255, A: 160})
	timerLabel.TextSize = 14

	strip := container.New(&progressStripLayout{}, stepsLabel, timerLabel)
	root := container.NewStack(background, playfield, strip)
	window.SetContent(root)

	// A toddler mashing Alt+F4 or the close button must not end the
	// session.
	window.SetCloseIntercept(func() {})

	kioskWindow := &Window{
		app:        app,
		window:     window,
		config:     config,
		background: background,
		playfield:  playfield,
		stepsLabel: stepsLabel,
		timerLabel: timerLabel,
	}
	kioskWindow.applyWindowMode()
	return kioskWindow
}

// Playfield returns the container games draw into.
func (kioskWindow *Window) Playfield() *fyne.Container {
	return kioskWindow.playfield
}

// CanvasSize reports the current drawable size.
func (kioskWindow *Window) CanvasSize() fyne.Size {
	size := kioskWindow.window.Canvas().Size()
	if size.Width <= 0 || size.Height <= 0 {
		return fyne.NewSize(defaultScreenWidth, defaultScreenHeight)
	}
	return size
}

// Show presents the kiosk window and grabs focus.
func (kioskWindow *Window) Show() {
	kioskWindow.applyWindowMode()
	kioskWindow.window.Show()
	kioskWindow.window.RequestFocus()
}

// SetProgress updates the exit-progress strip from a published snapshot.
// An idle snapshot clears the strip.
func (kioskWindow *Window) SetProgress(channel model.Channel, progress model.ExitProgress) {
	fyne.Do(func() {
		if progress.Phase == model.PhaseIdle {
			kioskWindow.stepsLabel.Text = ""
			kioskWindow.timerLabel.Text = ""
		} else {
			kioskWindow.stepsLabel.Text = stepDots(progress)
			kioskWindow.timerLabel.Text = formatRemaining(progress.Remaining)
		}
		kioskWindow.stepsLabel.Refresh()
		kioskWindow.timerLabel.Refresh()
	})
}

// ExitFullscreen releases the fullscreen grab during shutdown.
func (kioskWindow *Window) ExitFullscreen() {
	fyne.Do(func() {
		kioskWindow.window.SetFullScreen(false)
	})
}

// Close tears the window down.
func (kioskWindow *Window) Close() {
	fyne.Do(func() {
		kioskWindow.window.Close()
	})
}

func (kioskWindow *Window) applyWindowMode() {
	if kioskWindow.config.Fullscreen {
		kioskWindow.window.SetFullScreen(true)
		return
	}
	// Windowed mode exists for development runs only.
	kioskWindow.window.SetFullScreen(false)
	kioskWindow.window.Resize(fyne.NewSize(defaultScreenWidth*0.6, defaultScreenHeight*0.6))
	kioskWindow.window.CenterOnScreen()
}

func stepDots(progress model.ExitProgress) string {
	var builder strings.Builder
	for step := 0; step < progress.TotalSteps; step++ {
		if step > 0 {
			builder.WriteByte(' ')
		}
		if step < progress.CurrentStep {
			builder.WriteString("●")
		} else {
			builder.WriteString("○")
		}
	}
	return builder.String()
}

func formatRemaining(remaining time.Duration) string {
	if remaining <= 0 {
		return ""
	}
	seconds := int(remaining.Seconds())
	minutes := seconds / 60
	seconds = seconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// progressStripLayout pins the step dots and countdown to the bottom-left
// corner, out of the playfield's way.
type progressStripLayout struct{}

func (layout *progressStripLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 2 {
		return
	}
	steps := objects[0]
	timer := objects[1]

	pad := float32(16)
	stepsSize := steps.MinSize()
	timerSize := timer.MinSize()

	steps.Move(fyne.NewPos(pad, size.Height-pad-stepsSize.Height))
	steps.Resize(stepsSize)

	timer.Move(fyne.NewPos(pad+stepsSize.Width+12, size.Height-pad-timerSize.Height))
	timer.Resize(timerSize)
}

func (layout *progressStripLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 2 {
		return fyne.NewSize(0, 0)
	}
	stepsSize := objects[0].MinSize()
	timerSize := objects[1].MinSize()
	return fyne.NewSize(stepsSize.Width+timerSize.Width+28, stepsSize.Height+32)
}
