package platform

import (
	"fmt"

	"github.com/go-vgo/robotgo"
)

// ScreenSize queries the primary display dimensions in logical pixels, the
// same coordinate space the capture layer reports mouse positions in.
func ScreenSize() (width, height float64, err error) {
	w, h := robotgo.GetScreenSize()
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("query screen size: got %dx%d", w, h)
	}
	return float64(w), float64(h), nil
}
