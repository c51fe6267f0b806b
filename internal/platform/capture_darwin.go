package platform

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation

#include <CoreGraphics/CoreGraphics.h>
#include <CoreFoundation/CoreFoundation.h>

extern CGEventRef captureCallback(CGEventTapProxy proxy, CGEventType type, CGEventRef event, void *refcon);

static CFMachPortRef createCaptureTap() {
    CGEventMask mask = (1 << kCGEventKeyDown) | (1 << kCGEventKeyUp) |
                       (1 << kCGEventFlagsChanged) |
                       (1 << kCGEventLeftMouseDown) | (1 << kCGEventLeftMouseUp) |
                       (1 << kCGEventRightMouseDown) | (1 << kCGEventRightMouseUp) |
                       (1 << kCGEventOtherMouseDown) | (1 << kCGEventOtherMouseUp) |
                       (1 << kCGEventMouseMoved) | (1 << kCGEventScrollWheel);
    // Listen-only: events continue to every other consumer untouched.
    CFMachPortRef tap = CGEventTapCreate(
        kCGSessionEventTap,
        kCGHeadInsertEventTap,
        kCGEventTapOptionListenOnly,
        mask,
        captureCallback,
        NULL
    );
    return tap;
}

static void runCaptureTap(CFMachPortRef tap) {
    CFRunLoopSourceRef source = CFMachPortCreateRunLoopSource(kCFAllocatorDefault, tap, 0);
    CFRunLoopAddSource(CFRunLoopGetCurrent(), source, kCFRunLoopCommonModes);
    CGEventTapEnable(tap, true);
    CFRunLoopRun();
}
*/
import "C"

import (
	"fmt"
	"sync"
	"time"
	"unsafe"

	"keyplay/internal/core/model"
)

type darwinCapture struct {
	mu      sync.Mutex
	events  chan model.InputEvent
	running bool
}

// The cgo callback cannot capture Go state, so the active capture is held
// in a package variable. Only one capture runs per process.
var (
	darwinCaptureMu sync.Mutex
	activeCapture   *darwinCapture
)

func newCapture() Capture {
	return &darwinCapture{
		events: make(chan model.InputEvent, 256),
	}
}

func (capture *darwinCapture) Start() (<-chan model.InputEvent, error) {
	capture.mu.Lock()
	if capture.running {
		capture.mu.Unlock()
		return capture.events, nil
	}
	capture.running = true
	capture.mu.Unlock()

	tap := C.createCaptureTap()
	if tap == nil {
		capture.mu.Lock()
		capture.running = false
		capture.mu.Unlock()
		return nil, fmt.Errorf("create event tap (grant Accessibility permission?): %w", ErrCaptureUnsupported)
	}

	darwinCaptureMu.Lock()
	activeCapture = capture
	darwinCaptureMu.Unlock()

	go C.runCaptureTap(tap)
	return capture.events, nil
}

func (capture *darwinCapture) Stop() error {
	darwinCaptureMu.Lock()
	if activeCapture == capture {
		activeCapture = nil
	}
	darwinCaptureMu.Unlock()

	capture.mu.Lock()
	if capture.running {
		capture.running = false
		close(capture.events)
	}
	capture.mu.Unlock()
	return nil
}

func (capture *darwinCapture) emit(event model.InputEvent) {
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

//export captureCallback
func captureCallback(proxy C.CGEventTapProxy, eventType C.CGEventType, event C.CGEventRef, refcon unsafe.Pointer) C.CGEventRef {
	darwinCaptureMu.Lock()
	capture := activeCapture
	darwinCaptureMu.Unlock()
	if capture == nil {
		return event
	}

	now := time.Now()
	location := C.CGEventGetLocation(event)
	x, y := float64(location.x), float64(location.y)

	switch eventType {
	case C.kCGEventKeyDown, C.kCGEventKeyUp:
		keycode := int64(C.CGEventGetIntegerValueField(event, C.kCGKeyboardEventKeycode))
		key := darwinKeyName(keycode)
		if key == "" {
			return event
		}
		capture.emit(model.KeyTransition{
			Key:    key,
			IsDown: eventType == C.kCGEventKeyDown,
			At:     now,
		})

	case C.kCGEventFlagsChanged:
		keycode := int64(C.CGEventGetIntegerValueField(event, C.kCGKeyboardEventKeycode))
		key, mask := darwinModifier(keycode)
		if key == "" {
			return event
		}
		flags := uint64(C.CGEventGetFlags(event))
		capture.emit(model.KeyTransition{
			Key:    key,
			IsDown: flags&mask != 0,
			At:     now,
		})

	case C.kCGEventLeftMouseDown, C.kCGEventLeftMouseUp:
		capture.emit(model.ButtonTransition{
			Button: model.ButtonLeft,
			X:      x,
			Y:      y,
			IsDown: eventType == C.kCGEventLeftMouseDown,
			At:     now,
		})

	case C.kCGEventRightMouseDown, C.kCGEventRightMouseUp:
		capture.emit(model.ButtonTransition{
			Button: model.ButtonRight,
			X:      x,
			Y:      y,
			IsDown: eventType == C.kCGEventRightMouseDown,
			At:     now,
		})

	case C.kCGEventOtherMouseDown, C.kCGEventOtherMouseUp:
		capture.emit(model.ButtonTransition{
			Button: model.ButtonMiddle,
			X:      x,
			Y:      y,
			IsDown: eventType == C.kCGEventOtherMouseDown,
			At:     now,
		})

	case C.kCGEventMouseMoved:
		capture.emit(model.PointerMotion{X: x, Y: y, At: now})

	case C.kCGEventScrollWheel:
		dy := float64(C.CGEventGetIntegerValueField(event, C.kCGScrollWheelEventDeltaAxis1))
		dx := float64(C.CGEventGetIntegerValueField(event, C.kCGScrollWheelEventDeltaAxis2))
		capture.emit(model.ScrollTransition{DX: dx, DY: dy, At: now})
	}

	return event
}

// darwinModifier maps a modifier keycode to its token and flag mask.
func darwinModifier(keycode int64) (string, uint64) {
	switch keycode {
	case 56, 60:
		return "Shift", 1 << 17
	case 59, 62:
		return "Control", 1 << 18
	case 58, 61:
		return "Alt", 1 << 19
	case 54, 55:
		return "Super", 1 << 20
	case 57:
		return "CapsLock", 1 << 16
	}
	return "", 0
}

// darwinKeyName maps a macOS virtual keycode to the normalized token
// vocabulary. Unmapped keys return "" and are not emitted.
func darwinKeyName(keycode int64) string {
	if name, ok := darwinKeys[keycode]; ok {
		return name
	}
	return ""
}

var darwinKeys = map[int64]string{
	0:   "a",
	1:   "s",
	2:   "d",
	3:   "f",
	4:   "h",
	5:   "g",
	6:   "z",
	7:   "x",
	8:   "c",
	9:   "v",
	11:  "b",
	12:  "q",
	13:  "w",
	14:  "e",
	15:  "r",
	16:  "y",
	17:  "t",
	18:  "1",
	19:  "2",
	20:  "3",
	21:  "4",
	22:  "6",
	23:  "5",
	25:  "9",
	26:  "7",
	28:  "8",
	29:  "0",
	31:  "o",
	32:  "u",
	34:  "i",
	35:  "p",
	36:  "Enter",
	37:  "l",
	38:  "j",
	40:  "k",
	45:  "n",
	46:  "m",
	48:  "Tab",
	49:  "Space",
	51:  "Backspace",
	53:  "Escape",
	115: "Home",
	116: "PageUp",
	117: "Delete",
	119: "End",
	121: "PageDown",
	123: "ArrowLeft",
	124: "ArrowRight",
	125: "ArrowDown",
	126: "ArrowUp",
}
