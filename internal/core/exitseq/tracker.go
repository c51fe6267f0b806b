package exitseq

import (
	"sync"
	"time"

	"keyplay/internal/core/model"
)

// Tracker is the per-channel state machine that advances through one
// SequenceDefinition. A correct next token advances the step and restarts
// the timeout in full; a wrong token while in progress resets to idle; an
// elapsed timeout resets to idle. Reaching the final step reports
// completion and resets in the same operation, so completion is transient
// and the tracker never rests in a completed state.
//
// Trackers never mutate their own state from timer goroutines: when the
// armed timeout fires, the expired callback is invoked with a generation
// number, and the owner feeds that back through Expire on its own
// processing goroutine. A stale generation is ignored, so a timeout that
// fired concurrently with a re-arm or a disposal can never reset fresh
// state.
type Tracker struct {
	mu          sync.Mutex
	definition  model.SequenceDefinition
	scheduler   TimeoutScheduler
	expired     func(generation uint64)
	currentStep int
	startedAt   time.Time
	deadline    time.Time
	generation  uint64
	handle      TimeoutHandle
}

// NewTracker creates a tracker for one sequence definition. The expired
// callback fires on the scheduler's goroutine whenever an armed timeout
// elapses; pass nil when timeouts are driven manually through Expire.
func NewTracker(definition model.SequenceDefinition, scheduler TimeoutScheduler, expired func(generation uint64)) *Tracker {
	if scheduler == nil {
		scheduler = SystemScheduler{}
	}
	return &Tracker{
		definition: definition,
		scheduler:  scheduler,
		expired:    expired,
	}
}

// Channel reports which gesture channel this tracker serves.
func (tracker *Tracker) Channel() model.Channel {
	return tracker.definition.Channel
}

// Offer feeds one step token to the state machine. It reports whether
// observable progress changed and whether the sequence completed. A wrong
// token while idle is a no-op, never a reset.
func (tracker *Tracker) Offer(token string, now time.Time) (changed bool, completed bool) {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	if len(tracker.definition.Steps) == 0 {
		return false, false
	}

	if token != tracker.definition.Steps[tracker.currentStep] {
		if tracker.currentStep == 0 {
			return false, false
		}
		tracker.resetLocked()
		return true, false
	}

	tracker.currentStep++
	if tracker.currentStep == 1 {
		tracker.startedAt = now
	}
	tracker.deadline = now.Add(tracker.definition.Timeout)

	if tracker.currentStep == len(tracker.definition.Steps) {
		tracker.resetLocked()
		return true, true
	}

	tracker.armLocked()
	return true, false
}

// Interrupt aborts an in-progress sequence, exactly as a wrong token would.
// Interrupting an idle tracker is a no-op.
func (tracker *Tracker) Interrupt(now time.Time) bool {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	if tracker.currentStep == 0 {
		return false
	}
	tracker.resetLocked()
	return true
}

// Expire applies a timeout firing that was handed off by the expired
// callback. It reports whether state changed; a generation that no longer
// matches the armed timeout is stale and ignored.
func (tracker *Tracker) Expire(generation uint64, now time.Time) bool {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	if generation != tracker.generation || tracker.currentStep == 0 {
		return false
	}
	tracker.resetLocked()
	return true
}

// Progress derives the displayable snapshot of the tracker at the given
// instant.
func (tracker *Tracker) Progress(now time.Time) model.ExitProgress {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	progress := model.ExitProgress{
		CurrentStep: tracker.currentStep,
		TotalSteps:  len(tracker.definition.Steps),
		Phase:       model.PhaseIdle,
	}
	if tracker.currentStep > 0 {
		progress.Phase = model.PhaseInProgress
		if remaining := tracker.deadline.Sub(now); remaining > 0 {
			progress.Remaining = remaining
		}
	}
	return progress
}

// Stop cancels any outstanding timeout. A timer that already fired but has
// not been applied yet is invalidated and will never reset torn-down state.
func (tracker *Tracker) Stop() {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	tracker.disarmLocked()
}

func (tracker *Tracker) resetLocked() {
	tracker.currentStep = 0
	tracker.startedAt = time.Time{}
	tracker.deadline = time.Time{}
	tracker.disarmLocked()
}

func (tracker *Tracker) armLocked() {
	tracker.disarmLocked()
	generation := tracker.generation
	expired := tracker.expired
	tracker.handle = tracker.scheduler.Schedule(tracker.definition.Timeout, func() {
		if expired != nil {
			expired(generation)
		}
	})
}

func (tracker *Tracker) disarmLocked() {
	tracker.generation++
	if tracker.handle != nil {
		tracker.handle.Cancel()
		tracker.handle = nil
	}
}
