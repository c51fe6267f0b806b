package shutdown

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequencerRunsStepsInOrder(t *testing.T) {
	var order []string
	record := func(name string) func() {
		return func() { order = append(order, name) }
	}

	sequencer := New(Steps{
		StopForwarding: record("forwarding"),
		StopCapture: func() error {
			order = append(order, "capture")
			return nil
		},
		StopGames:      record("games"),
		StopRecognizer: record("recognizer"),
		ReleaseWindow:  record("window"),
		Terminate:      record("terminate"),
	})
	sequencer.Trigger()

	require.Equal(t, []string{"forwarding", "capture", "games", "recognizer", "window", "terminate"}, order)
}

func TestSequencerTriggerRunsOnce(t *testing.T) {
	terminated := 0
	sequencer := New(Steps{
		Terminate: func() { terminated++ },
	})

	var group sync.WaitGroup
	for count := 0; count < 8; count++ {
		group.Add(1)
		go func() {
			defer group.Done()
			sequencer.Trigger()
		}()
	}
	group.Wait()
	sequencer.Trigger()

	assert.Equal(t, 1, terminated)
}

func TestSequencerSurvivesFailingSteps(t *testing.T) {
	terminated := false
	released := false
	sequencer := New(Steps{
		StopForwarding: func() { panic("fan-out already gone") },
		StopCapture:    func() error { return errors.New("hook not installed") },
		StopGames:      nil,
		ReleaseWindow:  func() { released = true },
		Terminate:      func() { terminated = true },
	})
	sequencer.Trigger()

	assert.True(t, released)
	assert.True(t, terminated)
}
