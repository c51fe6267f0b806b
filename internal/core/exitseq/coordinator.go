package exitseq

import (
	"sync"
	"time"

	"keyplay/internal/core/model"
)

// Config contains construction options for the Coordinator. Zero-value
// sequences and geometry fall back to the stock defaults.
type Config struct {
	Keyboard  model.SequenceDefinition
	Mouse     model.SequenceDefinition
	Geometry  model.ScreenGeometry
	Scheduler TimeoutScheduler
}

// Coordinator owns the two sequence trackers, demultiplexes the raw input
// stream between them, republishes progress snapshots, and raises the
// exit-requested signal when either gesture completes. All tracker state
// mutates on a single processing goroutine: input events and timeout
// firings are both just inbound triggers to the same serialized loop.
type Coordinator struct {
	mu       sync.Mutex
	geometry model.ScreenGeometry
	keyboard *Tracker
	mouse    *Tracker
	events   []chan Event
	timeouts chan timeoutFired
	stopCh   chan struct{}
	running  bool
}

type timeoutFired struct {
	channel    model.Channel
	generation uint64
}

// New creates a Coordinator with the provided configuration.
func New(config Config) *Coordinator {
	if len(config.Keyboard.Steps) == 0 {
		config.Keyboard = model.DefaultKeyboardSequence()
	}
	if len(config.Mouse.Steps) == 0 {
		config.Mouse = model.DefaultMouseSequence()
	}
	if config.Geometry.Width <= 0 || config.Geometry.Height <= 0 {
		threshold := config.Geometry.CornerThreshold
		config.Geometry = model.DefaultScreenGeometry()
		if threshold > 0 {
			config.Geometry.CornerThreshold = threshold
		}
	}

	coordinator := &Coordinator{
		geometry: config.Geometry,
		// A tracker arms at most one timeout, so two slots can never drop
		// a firing.
		timeouts: make(chan timeoutFired, 4),
		stopCh:   make(chan struct{}),
	}
	coordinator.keyboard = NewTracker(config.Keyboard, config.Scheduler, func(generation uint64) {
		coordinator.trackerExpired(model.ChannelKeyboard, generation)
	})
	coordinator.mouse = NewTracker(config.Mouse, config.Scheduler, func(generation uint64) {
		coordinator.trackerExpired(model.ChannelMouse, generation)
	})
	return coordinator
}

// Subscribe registers a new observer channel.
func (coordinator *Coordinator) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	coordinator.mu.Lock()
	coordinator.events = append(coordinator.events, ch)
	coordinator.mu.Unlock()
	return ch
}

// Start launches the processing loop over the given input stream.
func (coordinator *Coordinator) Start(inputs <-chan model.InputEvent) {
	coordinator.mu.Lock()
	if coordinator.running {
		coordinator.mu.Unlock()
		return
	}
	coordinator.running = true
	coordinator.mu.Unlock()

	go coordinator.run(inputs)
}

// Stop terminates the processing loop, cancels outstanding timeouts and
// closes observer channels.
func (coordinator *Coordinator) Stop() {
	coordinator.mu.Lock()
	if coordinator.stopCh == nil {
		coordinator.mu.Unlock()
		return
	}
	close(coordinator.stopCh)
	coordinator.stopCh = nil
	coordinator.running = false
	events := coordinator.events
	coordinator.events = nil
	coordinator.mu.Unlock()

	coordinator.keyboard.Stop()
	coordinator.mouse.Stop()

	for _, ch := range events {
		close(ch)
	}
}

// SetScreenSize records the true screen dimensions once the platform layer
// reports them. Non-positive dimensions are ignored and the provisional
// geometry stays in effect. Geometry only affects future classifications;
// in-flight tracker state is untouched.
func (coordinator *Coordinator) SetScreenSize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	coordinator.mu.Lock()
	coordinator.geometry.Width = width
	coordinator.geometry.Height = height
	coordinator.mu.Unlock()
}

// Geometry returns the geometry currently used for corner classification.
func (coordinator *Coordinator) Geometry() model.ScreenGeometry {
	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()
	return coordinator.geometry
}

// Process applies a single input event to the recognizer. The run loop
// calls this for every delivered event; tests may call it directly to
// drive the state machine deterministically.
func (coordinator *Coordinator) Process(event model.InputEvent) {
	switch event := event.(type) {
	case model.KeyTransition:
		if !event.IsDown {
			return
		}
		coordinator.offer(coordinator.keyboard, event.Key, event.At)

	case model.ButtonTransition:
		if !event.IsDown || event.Button != model.ButtonLeft {
			return
		}
		token, ok := ClassifyCorner(event.X, event.Y, coordinator.Geometry())
		if !ok {
			// An off-corner click mid-sequence aborts the mouse gesture
			// exactly as a wrong corner would.
			if coordinator.mouse.Interrupt(event.At) {
				coordinator.publishProgress(coordinator.mouse, event.At)
			}
			return
		}
		coordinator.offer(coordinator.mouse, string(token), event.At)

	case model.PointerMotion, model.ScrollTransition:
		// Presentation-only events; the games consume them from their own
		// subscription.
	}
}

func (coordinator *Coordinator) run(inputs <-chan model.InputEvent) {
	coordinator.mu.Lock()
	stopCh := coordinator.stopCh
	coordinator.mu.Unlock()
	if stopCh == nil {
		return
	}

	for {
		select {
		case <-stopCh:
			return
		case event, ok := <-inputs:
			if !ok {
				return
			}
			coordinator.Process(event)
		case fired := <-coordinator.timeouts:
			coordinator.processTimeout(fired)
		}
	}
}

func (coordinator *Coordinator) offer(tracker *Tracker, token string, at time.Time) {
	changed, completed := tracker.Offer(token, at)
	if completed {
		total := len(tracker.definition.Steps)
		coordinator.publish(Event{
			Type:    EventProgress,
			Channel: tracker.Channel(),
			Progress: model.ExitProgress{
				CurrentStep: total,
				TotalSteps:  total,
				Phase:       model.PhaseCompleted,
			},
			At: at,
		})
		coordinator.publishProgress(tracker, at)
		coordinator.publish(Event{
			Type:    EventExitRequested,
			Channel: tracker.Channel(),
			At:      at,
		})
		return
	}
	if changed {
		coordinator.publishProgress(tracker, at)
	}
}

func (coordinator *Coordinator) processTimeout(fired timeoutFired) {
	tracker := coordinator.keyboard
	if fired.channel == model.ChannelMouse {
		tracker = coordinator.mouse
	}
	now := time.Now()
	if tracker.Expire(fired.generation, now) {
		coordinator.publishProgress(tracker, now)
	}
}

func (coordinator *Coordinator) trackerExpired(channel model.Channel, generation uint64) {
	select {
	case coordinator.timeouts <- timeoutFired{channel: channel, generation: generation}:
	default:
	}
}

func (coordinator *Coordinator) publishProgress(tracker *Tracker, at time.Time) {
	coordinator.publish(Event{
		Type:     EventProgress,
		Channel:  tracker.Channel(),
		Progress: tracker.Progress(at),
		At:       at,
	})
}

func (coordinator *Coordinator) publish(event Event) {
	coordinator.mu.Lock()
	events := append([]chan Event(nil), coordinator.events...)
	coordinator.mu.Unlock()
	for _, ch := range events {
		select {
		case ch <- event:
		default:
		}
	}
}
