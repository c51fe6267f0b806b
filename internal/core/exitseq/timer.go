package exitseq

import "time"

// TimeoutHandle is a cancellable one-shot timeout. Cancel reports whether
// the timeout was stopped before firing.
type TimeoutHandle interface {
	Cancel() bool
}

// TimeoutScheduler schedules one-shot timeout callbacks. Trackers hold at
// most one outstanding handle; arming a new timeout always cancels the
// previous one first.
type TimeoutScheduler interface {
	Schedule(delay time.Duration, fire func()) TimeoutHandle
}

// SystemScheduler schedules timeouts on the runtime timer heap.
type SystemScheduler struct{}

// Schedule arms a one-shot timer backed by time.AfterFunc.
func (SystemScheduler) Schedule(delay time.Duration, fire func()) TimeoutHandle {
	return systemHandle{timer: time.AfterFunc(delay, fire)}
}

type systemHandle struct {
	timer *time.Timer
}

func (handle systemHandle) Cancel() bool {
	return handle.timer.Stop()
}
