// Package phase implements the work/rest countdown state machine. It holds
// no locks and starts no goroutines; the session controller serializes
// access to it.
package phase

import "coachtimer/internal/core/model"

// Phase is the interval type currently counting down.
type Phase string

const (
	Work Phase = "work"
	Rest Phase = "rest"
)

// Transition describes what a single tick did to the machine.
type Transition string

const (
	// TransitionCountdown decremented the remaining seconds.
	TransitionCountdown Transition = "countdown"
	// TransitionEnterRest switched work -> rest.
	TransitionEnterRest Transition = "enter_rest"
	// TransitionAnnounce held rest at zero for one tick before work.
	TransitionAnnounce Transition = "announce"
	// TransitionEnterWork switched rest -> work and started a new round.
	TransitionEnterWork Transition = "enter_work"
)

// State is the countdown part of a timer session.
type State struct {
	Phase     Phase
	Remaining int
	Round     int
	// Announcing is set during the single held tick at the rest -> work
	// boundary.
	Announcing bool
}

// InitialState is the state before Start and after Reset.
func InitialState() State {
	return State{Phase: Work, Remaining: 0, Round: 1}
}

// Machine advances a State on each tick.
type Machine struct {
	config model.TimerConfig
	state  State
}

// New creates a machine in the initial state.
func New(config model.TimerConfig) *Machine {
	return &Machine{config: config, state: InitialState()}
}

// Start begins round 1 with a full work interval.
func (machine *Machine) Start(config model.TimerConfig) {
	machine.config = config
	machine.state = State{
		Phase:     Work,
		Remaining: config.WorkSeconds,
		Round:     1,
	}
}

// Reconfigure swaps the interval lengths. The current countdown is left
// untouched; the new values apply from the next phase boundary.
func (machine *Machine) Reconfigure(config model.TimerConfig) {
	machine.config = config
}

// Reset returns to the initial state.
func (machine *Machine) Reset() {
	machine.state = InitialState()
}

// Tick advances the countdown by one second.
func (machine *Machine) Tick() Transition {
	state := &machine.state
	if state.Remaining > 0 {
		state.Remaining--
		return TransitionCountdown
	}

	if state.Phase == Work {
		state.Phase = Rest
		state.Remaining = machine.config.RestSeconds
		return TransitionEnterRest
	}

	if !state.Announcing {
		state.Announcing = true
		return TransitionAnnounce
	}

	state.Phase = Work
	state.Remaining = machine.config.WorkSeconds
	state.Round++
	state.Announcing = false
	return TransitionEnterWork
}

// State returns a copy of the current state.
func (machine *Machine) State() State {
	return machine.state
}

// Config returns the active interval lengths.
func (machine *Machine) Config() model.TimerConfig {
	return machine.config
}
