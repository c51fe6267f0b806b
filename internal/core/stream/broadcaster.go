// Package stream fans the raw input stream out to independent subscribers.
// The exit recognizer and the active game both watch the same events;
// neither consumes or filters them for the other.
package stream

import (
	"sync"

	"keyplay/internal/core/model"
)

// Broadcaster replicates every event from a single source channel to all
// subscriber channels. Delivery is non-blocking: a subscriber that falls
// behind loses events rather than stalling the capture thread.
type Broadcaster struct {
	mu          sync.Mutex
	subscribers []chan model.InputEvent
	stopCh      chan struct{}
	running     bool
}

// NewBroadcaster creates an idle broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		stopCh: make(chan struct{}),
	}
}

// Subscribe registers a new subscriber channel.
func (broadcaster *Broadcaster) Subscribe(buffer int) <-chan model.InputEvent {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan model.InputEvent, buffer)
	broadcaster.mu.Lock()
	broadcaster.subscribers = append(broadcaster.subscribers, ch)
	broadcaster.mu.Unlock()
	return ch
}

// Start launches the fan-out loop over the source channel.
func (broadcaster *Broadcaster) Start(source <-chan model.InputEvent) {
	broadcaster.mu.Lock()
	if broadcaster.running {
		broadcaster.mu.Unlock()
		return
	}
	broadcaster.running = true
	stopCh := broadcaster.stopCh
	broadcaster.mu.Unlock()

	go broadcaster.run(source, stopCh)
}

// Stop terminates the fan-out loop and closes subscriber channels.
func (broadcaster *Broadcaster) Stop() {
	broadcaster.mu.Lock()
	if broadcaster.stopCh == nil {
		broadcaster.mu.Unlock()
		return
	}
	close(broadcaster.stopCh)
	broadcaster.stopCh = nil
	broadcaster.running = false
	subscribers := broadcaster.subscribers
	broadcaster.subscribers = nil
	broadcaster.mu.Unlock()

	for _, ch := range subscribers {
		close(ch)
	}
}

// Publish delivers one event to every subscriber without blocking. It is
// exported so tests and synthetic sources can inject events directly.
func (broadcaster *Broadcaster) Publish(event model.InputEvent) {
	broadcaster.mu.Lock()
	subscribers := append([]chan model.InputEvent(nil), broadcaster.subscribers...)
	broadcaster.mu.Unlock()
	for _, ch := range subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

func (broadcaster *Broadcaster) run(source <-chan model.InputEvent, stopCh chan struct{}) {
	for {
		select {
		case <-stopCh:
			return
		case event, ok := <-source:
			if !ok {
				return
			}
			broadcaster.Publish(event)
		}
	}
}
