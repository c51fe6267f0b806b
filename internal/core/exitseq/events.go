package exitseq

import (
	"time"

	"keyplay/internal/core/model"
)

// EventType defines the type of recognizer event.
type EventType string

const (
	// EventProgress carries a fresh ExitProgress snapshot for one channel.
	EventProgress EventType = "progress"
	// EventExitRequested signals that an exit gesture completed.
	EventExitRequested EventType = "exit_requested"
)

// Event represents a recognizer update for observers.
type Event struct {
	Type     EventType
	Channel  model.Channel
	Progress model.ExitProgress
	At       time.Time
}
