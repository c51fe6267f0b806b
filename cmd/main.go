package main

import (
	"errors"
	"log"
	"time"

	"keyplay/internal/core/exitseq"
	"keyplay/internal/core/stream"
	"keyplay/internal/platform"
	"keyplay/internal/shutdown"
	"keyplay/internal/storage"
	"keyplay/internal/ui/games"
	"keyplay/internal/ui/kiosk"
	"keyplay/resources"

	"fyne.io/fyne/v2/app"
)

const appName = "KeyPlay"

func main() {
	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		log.Printf("single instance: %v", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	settings, err := storage.LoadSettings(appName)
	if err != nil {
		log.Printf("settings: %v, using defaults", err)
	}

	fyneApp := app.NewWithID("com.keyplay.app")
	fyneApp.SetIcon(resources.MustLogo("keyplay.png"))

	kioskWindow := kiosk.New(fyneApp, kiosk.Config{
		Title:      appName,
		Fullscreen: settings.Fullscreen,
	})

	capture := platform.NewCapture()
	rawEvents, err := capture.Start()
	if err != nil {
		if errors.Is(err, platform.ErrCaptureUnsupported) {
			log.Printf("input capture: %v", err)
			return
		}
		log.Printf("input capture: %v", err)
		return
	}

	broadcaster := stream.NewBroadcaster()

	coordinator := exitseq.New(exitseq.Config{
		Keyboard: settings.KeyboardSequence(),
		Mouse:    settings.MouseSequence(),
		Geometry: settings.Geometry(),
	})
	coordinator.Start(broadcaster.Subscribe(64))

	// The provisional geometry covers events that arrive before the real
	// screen size is known.
	go func() {
		width, height, err := platform.ScreenSize()
		if err != nil {
			log.Printf("screen size: %v, keeping provisional geometry", err)
			return
		}
		coordinator.SetScreenSize(width, height)
	}()

	gameRunner := games.NewRunner(games.ByName(settings.Game))
	gameRunner.Start(broadcaster.Subscribe(64), kioskWindow.Playfield(), kioskWindow.CanvasSize)

	sequencer := shutdown.New(shutdown.Steps{
		StopForwarding: broadcaster.Stop,
		StopCapture:    capture.Stop,
		StopGames:      gameRunner.Stop,
		StopRecognizer: coordinator.Stop,
		ReleaseWindow: func() {
			kioskWindow.ExitFullscreen()
			kioskWindow.Close()
		},
		GraceDelay: 150 * time.Millisecond,
	})

	recognizerEvents := coordinator.Subscribe(16)
	go func() {
		for event := range recognizerEvents {
			switch event.Type {
			case exitseq.EventProgress:
				kioskWindow.SetProgress(event.Channel, event.Progress)
			case exitseq.EventExitRequested:
				log.Printf("exit gesture recognized on %s channel", event.Channel)
				go sequencer.Trigger()
			}
		}
	}()

	broadcaster.Start(rawEvents)

	kioskWindow.Show()
	fyneApp.Run()

	// The window closing through any path still runs the full teardown.
	sequencer.Trigger()
}
