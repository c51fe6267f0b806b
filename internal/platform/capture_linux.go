package platform

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"keyplay/internal/core/model"

	"github.com/go-vgo/robotgo"
)

// evdev event types and codes.
const (
	evKey = 0x01
	evRel = 0x02

	keyReleased = 0
	keyPressed  = 1
	keyRepeat   = 2

	relX      = 0x00
	relY      = 0x01
	relHWheel = 0x06
	relWheel  = 0x08

	btnLeft   = 0x110
	btnRight  = 0x111
	btnMiddle = 0x112
)

// sizeof(struct input_event) on 64-bit: two 8-byte timeval fields, then
// type, code, value.
const inputEventSize = 24

type linuxCapture struct {
	mu      sync.Mutex
	events  chan model.InputEvent
	devices []*os.File
	running bool
}

func newCapture() Capture {
	return &linuxCapture{
		events: make(chan model.InputEvent, 256),
	}
}

func (capture *linuxCapture) Start() (<-chan model.InputEvent, error) {
	paths := discoverDevices()
	if len(paths) == 0 {
		return nil, fmt.Errorf("no readable input devices: %w", ErrCaptureUnsupported)
	}

	capture.mu.Lock()
	if capture.running {
		capture.mu.Unlock()
		return capture.events, nil
	}
	for _, path := range paths {
		device, err := os.Open(path)
		if err != nil {
			// Typically a permissions problem; keep going with whatever
			// devices we can read.
			continue
		}
		capture.devices = append(capture.devices, device)
	}
	if len(capture.devices) == 0 {
		capture.mu.Unlock()
		return nil, fmt.Errorf("open input devices (add the user to the input group?): %w", ErrCaptureUnsupported)
	}
	capture.running = true
	devices := capture.devices
	capture.mu.Unlock()

	for _, device := range devices {
		go capture.readLoop(device)
	}
	return capture.events, nil
}

func (capture *linuxCapture) Stop() error {
	capture.mu.Lock()
	if !capture.running {
		capture.mu.Unlock()
		return nil
	}
	capture.running = false
	for _, device := range capture.devices {
		device.Close()
	}
	capture.devices = nil
	close(capture.events)
	capture.mu.Unlock()
	return nil
}

func (capture *linuxCapture) readLoop(device *os.File) {
	buf := make([]byte, inputEventSize)
	for {
		n, err := device.Read(buf)
		if err != nil || n != inputEventSize {
			return
		}

		eventType := binary.LittleEndian.Uint16(buf[16:18])
		code := binary.LittleEndian.Uint16(buf[18:20])
		value := int32(binary.LittleEndian.Uint32(buf[20:24]))
		now := time.Now()

		switch eventType {
		case evKey:
			capture.handleKey(code, value, now)
		case evRel:
			capture.handleRel(code, value, now)
		}
	}
}

func (capture *linuxCapture) handleKey(code uint16, value int32, now time.Time) {
	if value == keyRepeat {
		return
	}
	isDown := value == keyPressed

	switch code {
	case btnLeft, btnRight, btnMiddle:
		x, y := cursorPosition()
		capture.emit(model.ButtonTransition{
			Button: buttonName(code),
			X:      x,
			Y:      y,
			IsDown: isDown,
			At:     now,
		})
	default:
		key := evdevKeyName(code)
		if key == "" {
			return
		}
		capture.emit(model.KeyTransition{Key: key, IsDown: isDown, At: now})
	}
}

func (capture *linuxCapture) handleRel(code uint16, value int32, now time.Time) {
	switch code {
	case relX, relY:
		x, y := cursorPosition()
		capture.emit(model.PointerMotion{X: x, Y: y, At: now})
	case relWheel:
		capture.emit(model.ScrollTransition{DY: float64(value), At: now})
	case relHWheel:
		capture.emit(model.ScrollTransition{DX: float64(value), At: now})
	}
}

// emit never blocks the device read loops; a full stream drops the event.
func (capture *linuxCapture) emit(event model.InputEvent) {
	capture.mu.Lock()
	defer capture.mu.Unlock()
	if !capture.running {
		return
	}
	select {
	case capture.events <- event:
	default:
	}
}

// cursorPosition asks the display server, since evdev only reports relative
// motion.
func cursorPosition() (float64, float64) {
	x, y := robotgo.Location()
	return float64(x), float64(y)
}

func buttonName(code uint16) model.MouseButton {
	switch code {
	case btnLeft:
		return model.ButtonLeft
	case btnRight:
		return model.ButtonRight
	case btnMiddle:
		return model.ButtonMiddle
	}
	return model.ButtonOther
}

// discoverDevices finds keyboard and mouse event devices, preferring the
// stable /dev/input/by-id names and falling back to the kernel's device
// list.
func discoverDevices() []string {
	var paths []string
	seen := map[string]bool{}

	add := func(path string) {
		resolved, err := filepath.EvalSymlinks(path)
		if err != nil {
			resolved = path
		}
		if !seen[resolved] {
			seen[resolved] = true
			paths = append(paths, resolved)
		}
	}

	entries, err := os.ReadDir("/dev/input/by-id")
	if err == nil {
		for _, entry := range entries {
			name := entry.Name()
			if strings.HasSuffix(name, "-event-kbd") || strings.HasSuffix(name, "-event-mouse") {
				add(filepath.Join("/dev/input/by-id", name))
			}
		}
	}
	if len(paths) > 0 {
		return paths
	}

	devicesFile, err := os.Open("/proc/bus/input/devices")
	if err != nil {
		return nil
	}
	defer devicesFile.Close()

	scanner := bufio.NewScanner(devicesFile)
	relevant := false
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "N: Name="):
			name := strings.ToLower(line)
			relevant = strings.Contains(name, "keyboard") ||
				strings.Contains(name, "kbd") ||
				strings.Contains(name, "mouse")
		case strings.HasPrefix(line, "H: Handlers=") && relevant:
			for _, field := range strings.Fields(line) {
				if strings.HasPrefix(field, "event") {
					add("/dev/input/" + field)
				}
			}
		case line == "":
			relevant = false
		}
	}
	return paths
}

// evdevKeyName maps a kernel key code to the normalized token vocabulary.
// Unmapped keys return "" and are not emitted.
func evdevKeyName(code uint16) string {
	if name, ok := evdevKeys[code]; ok {
		return name
	}
	return ""
}

var evdevKeys = map[uint16]string{
	1:   "Escape",
	2:   "1",
	3:   "2",
	4:   "3",
	5:   "4",
	6:   "5",
	7:   "6",
	8:   "7",
	9:   "8",
	10:  "9",
	11:  "0",
	14:  "Backspace",
	15:  "Tab",
	16:  "q",
	17:  "w",
	18:  "e",
	19:  "r",
	20:  "t",
	21:  "y",
	22:  "u",
	23:  "i",
	24:  "o",
	25:  "p",
	28:  "Enter",
	29:  "Control",
	30:  "a",
	31:  "s",
	32:  "d",
	33:  "f",
	34:  "g",
	35:  "h",
	36:  "j",
	37:  "k",
	38:  "l",
	42:  "Shift",
	44:  "z",
	45:  "x",
	46:  "c",
	47:  "v",
	48:  "b",
	49:  "n",
	50:  "m",
	54:  "Shift",
	56:  "Alt",
	57:  "Space",
	58:  "CapsLock",
	97:  "Control",
	100: "Alt",
	102: "Home",
	103: "ArrowUp",
	104: "PageUp",
	105: "ArrowLeft",
	106: "ArrowRight",
	107: "End",
	108: "ArrowDown",
	109: "PageDown",
	111: "Delete",
	125: "Super",
	126: "Super",
}
