// Package audio plays the short tones that accompany phase transitions.
package audio

import (
	"context"

	"coachtimer/internal/core/phase"
	"coachtimer/internal/core/session"
)

// Cue identifies a tone.
type Cue string

const (
	CueBreak     Cue = "break"
	CueCountdown Cue = "countdown"
	CueGo        Cue = "go"
)

// countdownFrom is the highest remaining value that beeps during rest.
const countdownFrom = 4

// Player plays cues without blocking the caller.
type Player interface {
	Play(cue Cue)
}

// NopPlayer discards every cue.
type NopPlayer struct{}

func (NopPlayer) Play(Cue) {}

// CueFor maps a session event to the cue it should trigger.
func CueFor(event session.Event) (Cue, bool) {
	if event.Type != session.EventTick {
		return "", false
	}
	switch event.Transition {
	case phase.TransitionEnterRest:
		return CueBreak, true
	case phase.TransitionAnnounce:
		return CueGo, true
	case phase.TransitionCountdown:
		snapshot := event.Snapshot
		if snapshot.Phase == phase.Rest && snapshot.Remaining > 0 && snapshot.Remaining <= countdownFrom {
			return CueCountdown, true
		}
	}
	return "", false
}

// Follow plays cues for events until the channel is closed or ctx is done.
func Follow(ctx context.Context, events <-chan session.Event, player Player) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if cue, ok := CueFor(event); ok {
				player.Play(cue)
			}
		}
	}
}
