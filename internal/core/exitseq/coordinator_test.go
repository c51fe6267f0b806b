package exitseq

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keyplay/internal/core/model"
)

func newTestCoordinator(t *testing.T, scheduler TimeoutScheduler) (*Coordinator, <-chan Event) {
	t.Helper()
	coordinator := New(Config{Scheduler: scheduler})
	events := coordinator.Subscribe(64)
	t.Cleanup(coordinator.Stop)
	return coordinator, events
}

func drainEvents(events <-chan Event) []Event {
	var collected []Event
	for {
		select {
		case event := <-events:
			collected = append(collected, event)
		default:
			return collected
		}
	}
}

func keyDown(key string, at time.Time) model.KeyTransition {
	return model.KeyTransition{Key: key, IsDown: true, At: at}
}

func leftClick(x, y float64, at time.Time) model.ButtonTransition {
	return model.ButtonTransition{Button: model.ButtonLeft, X: x, Y: y, IsDown: true, At: at}
}

func TestCoordinatorKeyboardSequenceRaisesExit(t *testing.T) {
	coordinator, events := newTestCoordinator(t, &manualScheduler{})
	now := time.Now()

	for _, key := range []string{"Alt", "Control", "ArrowRight", "Escape", "q"} {
		coordinator.Process(keyDown(key, now))
	}

	collected := drainEvents(events)
	require.NotEmpty(t, collected)

	var exitEvents []Event
	for _, event := range collected {
		if event.Type == EventExitRequested {
			exitEvents = append(exitEvents, event)
		}
	}
	require.Len(t, exitEvents, 1)
	assert.Equal(t, model.ChannelKeyboard, exitEvents[0].Channel)

	// The completion snapshot precedes the exit signal, and the idle
	// baseline lands between them.
	lastThree := collected[len(collected)-3:]
	assert.Equal(t, EventProgress, lastThree[0].Type)
	assert.Equal(t, model.PhaseCompleted, lastThree[0].Progress.Phase)
	assert.Equal(t, 5, lastThree[0].Progress.CurrentStep)
	assert.Equal(t, EventProgress, lastThree[1].Type)
	assert.Equal(t, model.PhaseIdle, lastThree[1].Progress.Phase)
	assert.Equal(t, EventExitRequested, lastThree[2].Type)
}

func TestCoordinatorKeyUpIgnored(t *testing.T) {
	coordinator, events := newTestCoordinator(t, &manualScheduler{})
	now := time.Now()

	coordinator.Process(model.KeyTransition{Key: "Alt", IsDown: false, At: now})
	coordinator.Process(model.PointerMotion{X: 10, Y: 10, At: now})
	coordinator.Process(model.ScrollTransition{DY: 1, At: now})

	assert.Empty(t, drainEvents(events))
}

func TestCoordinatorMouseCornersRaiseExit(t *testing.T) {
	coordinator, events := newTestCoordinator(t, &manualScheduler{})
	now := time.Now()

	coordinator.Process(leftClick(10, 10, now))         // top_left
	coordinator.Process(leftClick(1910, 10, now))       // top_right
	coordinator.Process(leftClick(1910, 1070, now))     // bottom_right
	coordinator.Process(leftClick(10, 1070, now))       // bottom_left

	collected := drainEvents(events)
	require.NotEmpty(t, collected)
	final := collected[len(collected)-1]
	assert.Equal(t, EventExitRequested, final.Type)
	assert.Equal(t, model.ChannelMouse, final.Channel)
}

func TestCoordinatorWrongCornerResets(t *testing.T) {
	coordinator, events := newTestCoordinator(t, &manualScheduler{})
	now := time.Now()

	coordinator.Process(leftClick(10, 10, now))
	drainEvents(events)

	// bottom_left where top_right is expected.
	coordinator.Process(leftClick(10, 1070, now))
	collected := drainEvents(events)
	require.Len(t, collected, 1)
	assert.Equal(t, EventProgress, collected[0].Type)
	assert.Equal(t, model.PhaseIdle, collected[0].Progress.Phase)
	assert.Equal(t, 0, collected[0].Progress.CurrentStep)
}

func TestCoordinatorOffCornerClickAborts(t *testing.T) {
	coordinator, events := newTestCoordinator(t, &manualScheduler{})
	now := time.Now()

	coordinator.Process(leftClick(10, 10, now))
	drainEvents(events)

	coordinator.Process(leftClick(960, 540, now))
	collected := drainEvents(events)
	require.Len(t, collected, 1)
	assert.Equal(t, EventProgress, collected[0].Type)
	assert.Equal(t, model.ChannelMouse, collected[0].Channel)
	assert.Equal(t, model.PhaseIdle, collected[0].Progress.Phase)

	// Another off-corner click with the tracker already idle stays silent.
	coordinator.Process(leftClick(960, 540, now))
	assert.Empty(t, drainEvents(events))
}

func TestCoordinatorNonLeftButtonsIgnored(t *testing.T) {
	coordinator, events := newTestCoordinator(t, &manualScheduler{})
	now := time.Now()

	coordinator.Process(model.ButtonTransition{Button: model.ButtonRight, X: 10, Y: 10, IsDown: true, At: now})
	coordinator.Process(model.ButtonTransition{Button: model.ButtonLeft, X: 10, Y: 10, IsDown: false, At: now})

	assert.Empty(t, drainEvents(events))
}

func TestCoordinatorChannelsAdvanceIndependently(t *testing.T) {
	coordinator, events := newTestCoordinator(t, &manualScheduler{})
	now := time.Now()

	// Interleave keyboard progress with mouse progress; neither disturbs
	// the other.
	coordinator.Process(keyDown("Alt", now))
	coordinator.Process(leftClick(10, 10, now))
	coordinator.Process(keyDown("Control", now))
	coordinator.Process(leftClick(1910, 10, now))
	drainEvents(events)

	// A key press that is wrong for the keyboard sequence resets only the
	// keyboard channel.
	coordinator.Process(keyDown("z", now))
	collected := drainEvents(events)
	require.Len(t, collected, 1)
	assert.Equal(t, model.ChannelKeyboard, collected[0].Channel)
	assert.Equal(t, model.PhaseIdle, collected[0].Progress.Phase)

	coordinator.Process(leftClick(1910, 1070, now))
	collected = drainEvents(events)
	require.Len(t, collected, 1)
	assert.Equal(t, model.ChannelMouse, collected[0].Channel)
	assert.Equal(t, 3, collected[0].Progress.CurrentStep)
}

func TestCoordinatorTimeoutResetsChannel(t *testing.T) {
	scheduler := &manualScheduler{}
	coordinator, events := newTestCoordinator(t, scheduler)
	now := time.Now()

	coordinator.Process(keyDown("Alt", now))
	coordinator.Process(keyDown("Control", now))
	drainEvents(events)

	// Fire the armed timeout and let the run loop apply it.
	inputs := make(chan model.InputEvent)
	coordinator.Start(inputs)
	scheduler.last().fire()

	require.Eventually(t, func() bool {
		for _, event := range drainEvents(events) {
			if event.Type == EventProgress && event.Progress.Phase == model.PhaseIdle {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)

	progress := coordinator.keyboard.Progress(time.Now())
	assert.Equal(t, 0, progress.CurrentStep)
}

func TestCoordinatorSetScreenSize(t *testing.T) {
	coordinator, events := newTestCoordinator(t, &manualScheduler{})
	now := time.Now()

	coordinator.SetScreenSize(3840, 2160)
	assert.Equal(t, float64(3840), coordinator.Geometry().Width)

	coordinator.Process(leftClick(10, 10, now))
	collected := drainEvents(events)
	require.Len(t, collected, 1)
	assert.Equal(t, 1, collected[0].Progress.CurrentStep)

	// (1900, 10) was top_right on the provisional 1920-wide screen but is
	// nowhere near a corner at 3840 wide, so it aborts the gesture.
	coordinator.Process(leftClick(1900, 10, now))
	collected = drainEvents(events)
	require.Len(t, collected, 1)
	assert.Equal(t, model.PhaseIdle, collected[0].Progress.Phase)

	// Non-positive dimensions leave geometry untouched.
	coordinator.SetScreenSize(0, -1)
	assert.Equal(t, float64(3840), coordinator.Geometry().Width)
}
