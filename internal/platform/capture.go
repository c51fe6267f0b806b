package platform

import (
	"errors"

	"keyplay/internal/core/model"
)

// ErrCaptureUnsupported indicates global input capture is not available on
// this system (missing permissions or no readable input devices).
var ErrCaptureUnsupported = errors.New("input capture unsupported")

// Capture is the OS-level global input hook. Start spawns the capture
// thread and returns the stream of normalized events in occurrence order;
// Stop tears the hook down and closes the stream.
type Capture interface {
	Start() (<-chan model.InputEvent, error)
	Stop() error
}

// NewCapture returns the platform-specific capture implementation.
func NewCapture() Capture {
	return newCapture()
}
