package platform

import (
	"fmt"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"keyplay/internal/core/model"

	"golang.org/x/sys/windows"
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procGetMessageW         = user32.NewProc("GetMessageW")
	procPostThreadMessageW  = user32.NewProc("PostThreadMessageW")
)

const (
	whKeyboardLL = 13
	whMouseLL    = 14

	wmQuit        = 0x0012
	wmKeyDown     = 0x0100
	wmKeyUp       = 0x0101
	wmSysKeyDown  = 0x0104
	wmSysKeyUp    = 0x0105
	wmMouseMove   = 0x0200
	wmLButtonDown = 0x0201
	wmLButtonUp   = 0x0202
	wmRButtonDown = 0x0204
	wmRButtonUp   = 0x0205
	wmMButtonDown = 0x0207
	wmMButtonUp   = 0x0208
	wmMouseWheel  = 0x020A
	wmXButtonDown = 0x020B
	wmXButtonUp   = 0x020C
	wmMouseHWheel = 0x020E

	wheelDelta = 120
)

type kbdLLHookStruct struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type msLLHookStruct struct {
	Pt          struct{ X, Y int32 }
	MouseData   uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type msg struct {
	Hwnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      struct{ X, Y int32 }
}

// Low-level hook callbacks have no closure parameter, so the active capture
// lives in package variables. Only one capture runs per process.
var (
	windowsCaptureMu sync.Mutex
	winCapture       *windowsCapture
)

type windowsCapture struct {
	mu           sync.Mutex
	events       chan model.InputEvent
	running      bool
	hookThreadID uint32
}

func newCapture() Capture {
	return &windowsCapture{
		events: make(chan model.InputEvent, 256),
	}
}

func (capture *windowsCapture) Start() (<-chan model.InputEvent, error) {
	capture.mu.Lock()
	if capture.running {
		capture.mu.Unlock()
		return capture.events, nil
	}
	capture.running = true
	capture.mu.Unlock()

	windowsCaptureMu.Lock()
	winCapture = capture
	windowsCaptureMu.Unlock()

	installed := make(chan error, 1)
	go capture.hookLoop(installed)
	if err := <-installed; err != nil {
		capture.mu.Lock()
		capture.running = false
		capture.mu.Unlock()
		return nil, err
	}
	return capture.events, nil
}

func (capture *windowsCapture) Stop() error {
	capture.mu.Lock()
	threadID := capture.hookThreadID
	if capture.running {
		capture.running = false
		close(capture.events)
	}
	capture.mu.Unlock()

	if threadID != 0 {
		procPostThreadMessageW.Call(uintptr(threadID), wmQuit, 0, 0)
	}

	windowsCaptureMu.Lock()
	if winCapture == capture {
		winCapture = nil
	}
	windowsCaptureMu.Unlock()
	return nil
}

// hookLoop installs both low-level hooks and pumps messages. Low-level
// hooks are delivered through the message queue of the installing thread,
// so the whole loop is pinned to one OS thread.
func (capture *windowsCapture) hookLoop(installed chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	capture.mu.Lock()
	capture.hookThreadID = windows.GetCurrentThreadId()
	capture.mu.Unlock()

	keyboardProc := windows.NewCallback(lowLevelKeyboardProc)
	keyboardHook, _, _ := procSetWindowsHookExW.Call(whKeyboardLL, keyboardProc, 0, 0)
	if keyboardHook == 0 {
		installed <- fmt.Errorf("install keyboard hook: %w", ErrCaptureUnsupported)
		return
	}

	mouseProc := windows.NewCallback(lowLevelMouseProc)
	mouseHook, _, _ := procSetWindowsHookExW.Call(whMouseLL, mouseProc, 0, 0)
	if mouseHook == 0 {
		procUnhookWindowsHookEx.Call(keyboardHook)
		installed <- fmt.Errorf("install mouse hook: %w", ErrCaptureUnsupported)
		return
	}
	installed <- nil

	var message msg
	for {
		ret, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&message)), 0, 0, 0)
		if ret == 0 || int32(ret) == -1 {
			break
		}
	}

	procUnhookWindowsHookEx.Call(keyboardHook)
	procUnhookWindowsHookEx.Call(mouseHook)
}

func (capture *windowsCapture) emit(event model.InputEvent) {
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

func lowLevelKeyboardProc(nCode int32, wParam uintptr, lParam uintptr) uintptr {
	if nCode >= 0 {
		windowsCaptureMu.Lock()
		capture := winCapture
		windowsCaptureMu.Unlock()
		if capture != nil {
			kb := (*kbdLLHookStruct)(unsafe.Pointer(lParam))
			if key := windowsKeyName(kb.VkCode); key != "" {
				switch wParam {
				case wmKeyDown, wmSysKeyDown:
					capture.emit(model.KeyTransition{Key: key, IsDown: true, At: time.Now()})
				case wmKeyUp, wmSysKeyUp:
					capture.emit(model.KeyTransition{Key: key, IsDown: false, At: time.Now()})
				}
			}
		}
	}
	ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return ret
}

func lowLevelMouseProc(nCode int32, wParam uintptr, lParam uintptr) uintptr {
	if nCode >= 0 {
		windowsCaptureMu.Lock()
		capture := winCapture
		windowsCaptureMu.Unlock()
		if capture != nil {
			ms := (*msLLHookStruct)(unsafe.Pointer(lParam))
			x, y := float64(ms.Pt.X), float64(ms.Pt.Y)
			now := time.Now()

			switch wParam {
			case wmMouseMove:
				capture.emit(model.PointerMotion{X: x, Y: y, At: now})
			case wmLButtonDown, wmLButtonUp:
				capture.emit(model.ButtonTransition{
					Button: model.ButtonLeft, X: x, Y: y,
					IsDown: wParam == wmLButtonDown, At: now,
				})
			case wmRButtonDown, wmRButtonUp:
				capture.emit(model.ButtonTransition{
					Button: model.ButtonRight, X: x, Y: y,
					IsDown: wParam == wmRButtonDown, At: now,
				})
			case wmMButtonDown, wmMButtonUp:
				capture.emit(model.ButtonTransition{
					Button: model.ButtonMiddle, X: x, Y: y,
					IsDown: wParam == wmMButtonDown, At: now,
				})
			case wmXButtonDown, wmXButtonUp:
				capture.emit(model.ButtonTransition{
					Button: model.ButtonOther, X: x, Y: y,
					IsDown: wParam == wmXButtonDown, At: now,
				})
			case wmMouseWheel:
				delta := float64(int16(ms.MouseData>>16)) / wheelDelta
				capture.emit(model.ScrollTransition{DY: delta, At: now})
			case wmMouseHWheel:
				delta := float64(int16(ms.MouseData>>16)) / wheelDelta
				capture.emit(model.ScrollTransition{DX: delta, At: now})
			}
		}
	}
	ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return ret
}

// windowsKeyName maps a virtual-key code to the normalized token
// vocabulary. Unmapped keys return "" and are not emitted.
func windowsKeyName(vkCode uint32) string {
	switch {
	case vkCode >= 'A' && vkCode <= 'Z':
		return string(rune(vkCode - 'A' + 'a'))
	case vkCode >= '0' && vkCode <= '9':
		return string(rune(vkCode))
	}

	switch vkCode {
	case 0x08:
		return "Backspace"
	case 0x09:
		return "Tab"
	case 0x0D:
		return "Enter"
	case 0x10, 0xA0, 0xA1:
		return "Shift"
	case 0x11, 0xA2, 0xA3:
		return "Control"
	case 0x12, 0xA4, 0xA5:
		return "Alt"
	case 0x14:
		return "CapsLock"
	case 0x1B:
		return "Escape"
	case 0x20:
		return "Space"
	case 0x21:
		return "PageUp"
	case 0x22:
		return "PageDown"
	case 0x23:
		return "End"
	case 0x24:
		return "Home"
	case 0x25:
		return "ArrowLeft"
	case 0x26:
		return "ArrowUp"
	case 0x27:
		return "ArrowRight"
	case 0x28:
		return "ArrowDown"
	case 0x2E:
		return "Delete"
	case 0x5B, 0x5C:
		return "Super"
	}
	return ""
}
