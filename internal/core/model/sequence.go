package model

import "time"

// Channel names one of the two independent gesture-recognition tracks.
type Channel string

const (
	ChannelKeyboard Channel = "keyboard"
	ChannelMouse    Channel = "mouse"
)

// CornerToken names a screen corner for the mouse sequence.
type CornerToken string

const (
	CornerTopLeft     CornerToken = "top_left"
	CornerTopRight    CornerToken = "top_right"
	CornerBottomRight CornerToken = "bottom_right"
	CornerBottomLeft  CornerToken = "bottom_left"
)

// SequenceDefinition describes one exit gesture: the ordered step tokens and
// the per-step timeout. Definitions are fixed for the lifetime of a tracker.
type SequenceDefinition struct {
	Channel Channel
	Steps   []string
	Timeout time.Duration
}

// DefaultKeyboardSequence returns the stock keyboard exit gesture.
func DefaultKeyboardSequence() SequenceDefinition {
	return SequenceDefinition{
		Channel: ChannelKeyboard,
		Steps:   []string{"Alt", "Control", "ArrowRight", "Escape", "q"},
		Timeout: 5 * time.Second,
	}
}

// DefaultMouseSequence returns the stock four-corner exit gesture.
func DefaultMouseSequence() SequenceDefinition {
	return SequenceDefinition{
		Channel: ChannelMouse,
		Steps: []string{
			string(CornerTopLeft),
			string(CornerTopRight),
			string(CornerBottomRight),
			string(CornerBottomLeft),
		},
		Timeout: 10 * time.Second,
	}
}

// Phase is the observable state of one gesture channel.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseInProgress Phase = "in_progress"
	PhaseCompleted  Phase = "completed"
)

// ExitProgress is the derived, presentation-facing snapshot of one tracker.
// Remaining is clamped to zero, never negative.
type ExitProgress struct {
	CurrentStep int
	TotalSteps  int
	Remaining   time.Duration
	Phase       Phase
}

// ScreenGeometry holds the logical screen dimensions used for corner
// classification, plus the proximity threshold in logical pixels.
type ScreenGeometry struct {
	Width           float64
	Height          float64
	CornerThreshold float64
}

// DefaultScreenGeometry returns the provisional geometry used until the
// platform layer reports the true screen size.
func DefaultScreenGeometry() ScreenGeometry {
	return ScreenGeometry{
		Width:           1920,
		Height:          1080,
		CornerThreshold: 50,
	}
}
