package session

import (
	"time"

	"coachtimer/internal/core/display"
	"coachtimer/internal/core/model"
	"coachtimer/internal/core/phase"
)

// Status represents the controller lifecycle stage.
type Status string

const (
	StatusConfiguring Status = "configuring"
	StatusRunning     Status = "running"
	StatusPaused      Status = "paused"
	StatusStopped     Status = "stopped"
)

// EventType defines the type of session event.
type EventType string

const (
	EventStateChange  EventType = "state_change"
	EventTick         EventType = "tick"
	EventPhaseChange  EventType = "phase_change"
	EventReconfigured EventType = "reconfigured"
	EventStopped      EventType = "stopped"
)

// Event represents a session update for observers.
type Event struct {
	Type       EventType
	Transition phase.Transition
	Snapshot   Snapshot
	At         time.Time
}

// Snapshot is a consistent copy of a TimerSession.
type Snapshot struct {
	ID          string
	Status      Status
	Config      model.TimerConfig
	WorkInput   string
	RestInput   string
	Phase       phase.Phase
	Remaining   int
	Round       int
	Running     bool
	Configuring bool
	Announcing  bool
}

// View renders the running display for the snapshot.
func (snapshot Snapshot) View() display.View {
	return display.Render(snapshot.Phase, snapshot.Remaining, snapshot.Config.RestSeconds)
}
