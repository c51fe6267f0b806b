package model

import "time"

// Settings defines the parent-editable kiosk configuration. It is read once
// at startup; the recognizer is constructed from it and never reloaded.
type Settings struct {
	KeyboardSteps   []string
	KeyboardTimeout time.Duration
	MouseCorners    []string
	MouseTimeout    time.Duration
	CornerThreshold float64

	Game       string
	Fullscreen bool
}

// DefaultSettings returns default settings for KeyPlay.
func DefaultSettings() Settings {
	keyboard := DefaultKeyboardSequence()
	mouse := DefaultMouseSequence()
	return Settings{
		KeyboardSteps:   keyboard.Steps,
		KeyboardTimeout: keyboard.Timeout,
		MouseCorners:    mouse.Steps,
		MouseTimeout:    mouse.Timeout,
		CornerThreshold: DefaultScreenGeometry().CornerThreshold,
		Game:            "bubbles",
		Fullscreen:      true,
	}
}

// KeyboardSequence converts settings to the keyboard SequenceDefinition.
func (settings Settings) KeyboardSequence() SequenceDefinition {
	return SequenceDefinition{
		Channel: ChannelKeyboard,
		Steps:   settings.KeyboardSteps,
		Timeout: settings.KeyboardTimeout,
	}
}

// MouseSequence converts settings to the mouse SequenceDefinition.
func (settings Settings) MouseSequence() SequenceDefinition {
	return SequenceDefinition{
		Channel: ChannelMouse,
		Steps:   settings.MouseCorners,
		Timeout: settings.MouseTimeout,
	}
}

// Geometry returns the provisional screen geometry with the configured
// corner threshold applied.
func (settings Settings) Geometry() ScreenGeometry {
	geometry := DefaultScreenGeometry()
	if settings.CornerThreshold > 0 {
		geometry.CornerThreshold = settings.CornerThreshold
	}
	return geometry
}
