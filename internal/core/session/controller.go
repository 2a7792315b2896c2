// Package session owns a single interval timer run: configuration input,
// lifecycle transitions and the clock subscription that feeds the phase
// machine.
//
// All state lives behind one mutex. The clock subscription is owned by the
// Controller: it is acquired on Start/resume/Reconfigure and released on
// pause, Stop and Close. Each subscription carries a token; a tick whose
// token no longer matches the controller's is discarded, so a callback that
// was already in flight during teardown cannot mutate the session.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"coachtimer/internal/core/clock"
	"coachtimer/internal/core/model"
	"coachtimer/internal/core/phase"
	"coachtimer/internal/metrics"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var (
	ErrClosed         = errors.New("session closed")
	ErrAlreadyStarted = errors.New("session already started")
	ErrNotRunning     = errors.New("session not running")
)

// Config contains runtime collaborators for a Controller.
type Config struct {
	Driver  *clock.Driver
	Metrics *metrics.Manager
	Logger  *log.Entry
	Now     func() time.Time
}

type subscriptionToken struct{}

// Controller drives one TimerSession.
type Controller struct {
	mu      sync.Mutex
	options Config
	machine *phase.Machine
	onClose func()

	id          string
	workInput   string
	restInput   string
	configuring bool
	started     bool
	running     bool
	closed      bool
	startedAt   time.Time

	sub    *clock.Subscription
	token  *subscriptionToken
	events []chan Event
}

// New creates a Controller showing the configuration screen. onClose is
// invoked once, from Stop, after teardown has completed.
func New(options Config, onClose func()) *Controller {
	if options.Driver == nil {
		options.Driver = clock.NewDriver(nil, clock.DefaultInterval)
	}
	if options.Metrics == nil {
		options.Metrics = metrics.NewUnregisteredManager()
	}
	if options.Logger == nil {
		options.Logger = log.WithField("component", "session")
	}
	if options.Now == nil {
		options.Now = time.Now
	}

	return &Controller{
		options:     options,
		machine:     phase.New(model.DefaultTimerConfig()),
		onClose:     onClose,
		configuring: true,
	}
}

// Subscribe registers a new observer channel. Channels are closed by Stop
// and Close. Events are dropped for observers whose buffer is full.
func (controller *Controller) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if controller.closed {
		close(ch)
		return ch
	}
	controller.events = append(controller.events, ch)
	return ch
}

// Configure records raw form input. Values are not validated here; Start
// coerces them.
func (controller *Controller) Configure(work, rest string) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if !controller.configuring || controller.closed {
		return
	}
	controller.workInput = work
	controller.restInput = rest
}

// Start leaves the configuration screen and begins round 1.
func (controller *Controller) Start() error {
	controller.mu.Lock()
	if controller.closed {
		controller.mu.Unlock()
		return ErrClosed
	}
	if controller.started {
		controller.mu.Unlock()
		return ErrAlreadyStarted
	}

	config := model.ParseTimerConfig(controller.workInput, controller.restInput)
	controller.machine.Start(config)
	controller.id = uuid.NewString()
	controller.startedAt = controller.options.Now()
	controller.started = true
	controller.configuring = false
	controller.running = true
	controller.attachLocked()
	controller.emitLocked(EventStateChange, "")
	logger := controller.loggerLocked()
	controller.mu.Unlock()

	controller.options.Metrics.CounterSessionsStarted.Inc()
	controller.options.Metrics.GaugeRunningSessions.Inc()
	logger.WithFields(log.Fields{
		"work_seconds": config.WorkSeconds,
		"rest_seconds": config.RestSeconds,
	}).Info("session started")
	return nil
}

// TogglePause detaches or reattaches the clock without touching the
// countdown. It does nothing before Start or after Stop.
func (controller *Controller) TogglePause() {
	controller.mu.Lock()
	if !controller.started || controller.closed {
		controller.mu.Unlock()
		return
	}

	if controller.running {
		controller.running = false
		old := controller.detachLocked()
		controller.emitLocked(EventStateChange, "")
		logger := controller.loggerLocked()
		controller.mu.Unlock()

		old.Cancel()
		controller.options.Metrics.GaugeRunningSessions.Dec()
		logger.Debug("session paused")
		return
	}

	controller.running = true
	controller.attachLocked()
	controller.emitLocked(EventStateChange, "")
	logger := controller.loggerLocked()
	controller.mu.Unlock()

	controller.options.Metrics.GaugeRunningSessions.Inc()
	logger.Debug("session resumed")
}

// Reconfigure replaces the interval lengths of a running session and
// recreates the clock subscription. The current countdown is not clamped.
func (controller *Controller) Reconfigure(config model.TimerConfig) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("reconfigure: %w", err)
	}

	controller.mu.Lock()
	if controller.closed {
		controller.mu.Unlock()
		return ErrClosed
	}
	if !controller.running {
		controller.mu.Unlock()
		return ErrNotRunning
	}
	controller.machine.Reconfigure(config)
	old := controller.detachLocked()
	controller.mu.Unlock()

	old.Cancel()

	controller.mu.Lock()
	if controller.running && !controller.closed && controller.token == nil {
		controller.attachLocked()
	}
	controller.emitLocked(EventReconfigured, "")
	logger := controller.loggerLocked()
	controller.mu.Unlock()

	controller.options.Metrics.CounterReconfigurations.Inc()
	logger.WithFields(log.Fields{
		"work_seconds": config.WorkSeconds,
		"rest_seconds": config.RestSeconds,
	}).Info("session reconfigured")
	return nil
}

// Stop tears down the clock, resets the session and notifies the host.
// Only the first call has any effect.
func (controller *Controller) Stop() {
	if !controller.teardown(true) {
		return
	}
	if controller.onClose != nil {
		controller.onClose()
	}
}

// Close discards the session without notifying the host, for when the view
// is unmounted.
func (controller *Controller) Close() {
	controller.teardown(false)
}

// Snapshot returns a consistent copy of the session.
func (controller *Controller) Snapshot() Snapshot {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.snapshotLocked()
}

func (controller *Controller) teardown(notify bool) bool {
	controller.mu.Lock()
	if controller.closed {
		controller.mu.Unlock()
		return false
	}
	wasRunning := controller.running
	wasStarted := controller.started
	round := controller.machine.State().Round
	elapsed := controller.options.Now().Sub(controller.startedAt)

	controller.closed = true
	old := controller.detachLocked()
	controller.machine.Reset()
	controller.running = false
	controller.configuring = false
	if notify {
		controller.emitLocked(EventStopped, "")
	}
	events := controller.events
	controller.events = nil
	logger := controller.loggerLocked()
	controller.mu.Unlock()

	old.Cancel()
	for _, ch := range events {
		close(ch)
	}

	if wasRunning {
		controller.options.Metrics.GaugeRunningSessions.Dec()
	}
	if wasStarted {
		controller.options.Metrics.CounterSessionsStopped.Inc()
		controller.options.Metrics.HistSessionDuration.Observe(elapsed.Seconds())
		logger.WithFields(log.Fields{
			"rounds":  round,
			"elapsed": elapsed.Round(time.Second).String(),
		}).Info("session stopped")
	}
	return true
}

func (controller *Controller) tick(token *subscriptionToken, at time.Time) {
	controller.mu.Lock()
	if controller.token != token || !controller.running {
		controller.mu.Unlock()
		return
	}

	transition := controller.machine.Tick()
	switch transition {
	case phase.TransitionEnterRest, phase.TransitionAnnounce:
		controller.options.Metrics.CounterTransitions.WithLabelValues(string(transition)).Inc()
	case phase.TransitionEnterWork:
		controller.options.Metrics.CounterTransitions.WithLabelValues(string(transition)).Inc()
		controller.options.Metrics.CounterRoundsCompleted.Inc()
	}

	controller.emitLockedAt(EventTick, transition, at)
	if transition == phase.TransitionEnterRest || transition == phase.TransitionEnterWork {
		controller.emitLockedAt(EventPhaseChange, transition, at)
	}
	state := controller.machine.State()
	logger := controller.loggerLocked()
	controller.mu.Unlock()

	if transition != phase.TransitionCountdown {
		logger.WithFields(log.Fields{
			"phase": state.Phase,
			"round": state.Round,
		}).Debug(string(transition))
	}
}

func (controller *Controller) attachLocked() {
	token := &subscriptionToken{}
	controller.token = token
	controller.sub = controller.options.Driver.Subscribe(context.Background(), func(at time.Time) {
		controller.tick(token, at)
	})
}

// detachLocked forgets the current subscription and returns it so the
// caller can cancel it after releasing the lock; an in-flight tick may be
// waiting on the lock.
func (controller *Controller) detachLocked() *clock.Subscription {
	old := controller.sub
	controller.sub = nil
	controller.token = nil
	return old
}

func (controller *Controller) snapshotLocked() Snapshot {
	state := controller.machine.State()
	return Snapshot{
		ID:          controller.id,
		Status:      controller.statusLocked(),
		Config:      controller.machine.Config(),
		WorkInput:   controller.workInput,
		RestInput:   controller.restInput,
		Phase:       state.Phase,
		Remaining:   state.Remaining,
		Round:       state.Round,
		Running:     controller.running,
		Configuring: controller.configuring,
		Announcing:  state.Announcing,
	}
}

func (controller *Controller) statusLocked() Status {
	switch {
	case controller.closed:
		return StatusStopped
	case controller.configuring:
		return StatusConfiguring
	case controller.running:
		return StatusRunning
	default:
		return StatusPaused
	}
}

func (controller *Controller) loggerLocked() *log.Entry {
	if controller.id == "" {
		return controller.options.Logger
	}
	return controller.options.Logger.WithField("session_id", controller.id)
}

func (controller *Controller) emitLocked(eventType EventType, transition phase.Transition) {
	controller.emitLockedAt(eventType, transition, controller.options.Now())
}

func (controller *Controller) emitLockedAt(eventType EventType, transition phase.Transition, at time.Time) {
	event := Event{
		Type:       eventType,
		Transition: transition,
		Snapshot:   controller.snapshotLocked(),
		At:         at,
	}
	for _, ch := range controller.events {
		select {
		case ch <- event:
		default:
		}
	}
}
