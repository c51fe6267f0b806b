package model

import "time"

// MouseButton identifies which physical mouse button changed state.
type MouseButton string

const (
	ButtonLeft   MouseButton = "left"
	ButtonRight  MouseButton = "right"
	ButtonMiddle MouseButton = "middle"
	ButtonOther  MouseButton = "other"
)

// InputEvent is a single normalized input occurrence delivered by the
// platform capture layer. It is a closed union: the only implementations
// are KeyTransition, ButtonTransition, PointerMotion and ScrollTransition,
// so consumers can demultiplex with an exhaustive type switch.
type InputEvent interface {
	OccurredAt() time.Time
	isInputEvent()
}

// KeyTransition is a key going down or up. Key holds the normalized token
// ("Alt", "Control", "ArrowRight", "Escape", single lowercase letters, ...)
// independent of raw platform key codes.
type KeyTransition struct {
	Key    string
	IsDown bool
	At     time.Time
}

// ButtonTransition is a mouse button going down or up at a logical
// screen-pixel coordinate.
type ButtonTransition struct {
	Button MouseButton
	X      float64
	Y      float64
	IsDown bool
	At     time.Time
}

// PointerMotion is cursor movement. Only the games care about it.
type PointerMotion struct {
	X  float64
	Y  float64
	At time.Time
}

// ScrollTransition is a scroll wheel tick. Only the games care about it.
type ScrollTransition struct {
	DX float64
	DY float64
	At time.Time
}

func (event KeyTransition) OccurredAt() time.Time    { return event.At }
func (event ButtonTransition) OccurredAt() time.Time { return event.At }
func (event PointerMotion) OccurredAt() time.Time    { return event.At }
func (event ScrollTransition) OccurredAt() time.Time { return event.At }

func (KeyTransition) isInputEvent()    {}
func (ButtonTransition) isInputEvent() {}
func (PointerMotion) isInputEvent()    {}
func (ScrollTransition) isInputEvent() {}
