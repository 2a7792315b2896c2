package audio_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"coachtimer/internal/audio"
	"coachtimer/internal/core/clock"
	"coachtimer/internal/core/phase"
	"coachtimer/internal/core/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingPlayer struct {
	mu   sync.Mutex
	cues []audio.Cue
}

func (player *recordingPlayer) Play(cue audio.Cue) {
	player.mu.Lock()
	defer player.mu.Unlock()
	player.cues = append(player.cues, cue)
}

func (player *recordingPlayer) played() []audio.Cue {
	player.mu.Lock()
	defer player.mu.Unlock()
	return append([]audio.Cue(nil), player.cues...)
}

func tickEvent(transition phase.Transition, p phase.Phase, remaining int) session.Event {
	return session.Event{
		Type:       session.EventTick,
		Transition: transition,
		Snapshot:   session.Snapshot{Phase: p, Remaining: remaining},
	}
}

func TestCueFor(t *testing.T) {
	tests := []struct {
		name  string
		event session.Event
		want  audio.Cue
		ok    bool
	}{
		{name: "enter rest", event: tickEvent(phase.TransitionEnterRest, phase.Rest, 15), want: audio.CueBreak, ok: true},
		{name: "rest digit", event: tickEvent(phase.TransitionCountdown, phase.Rest, 4), want: audio.CueCountdown, ok: true},
		{name: "rest last digit", event: tickEvent(phase.TransitionCountdown, phase.Rest, 1), want: audio.CueCountdown, ok: true},
		{name: "rest before countdown", event: tickEvent(phase.TransitionCountdown, phase.Rest, 5)},
		{name: "rest reaches zero", event: tickEvent(phase.TransitionCountdown, phase.Rest, 0)},
		{name: "work digit", event: tickEvent(phase.TransitionCountdown, phase.Work, 3)},
		{name: "announce", event: tickEvent(phase.TransitionAnnounce, phase.Rest, 0), want: audio.CueGo, ok: true},
		{name: "enter work", event: tickEvent(phase.TransitionEnterWork, phase.Work, 30)},
		{name: "phase change event", event: session.Event{Type: session.EventPhaseChange, Transition: phase.TransitionEnterRest}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cue, ok := audio.CueFor(tt.event)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, cue)
		})
	}
}

func TestFollow_PlaysCuesForSession(t *testing.T) {
	source := clock.NewManualSource()
	source.Timeout = 100 * time.Millisecond
	controller := session.New(session.Config{Driver: clock.NewDriver(source, time.Second)}, nil)
	events := controller.Subscribe(64)

	player := &recordingPlayer{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		audio.Follow(context.Background(), events, player)
	}()

	controller.Configure("5", "5")
	require.NoError(t, controller.Start())

	// 5 work ticks down to 0, enter rest, 5 rest ticks, announce.
	for i := 0; i < 12; i++ {
		require.True(t, source.Tick(), "tick %d", i)
	}
	require.Eventually(t, func() bool {
		return len(player.played()) == 6
	}, time.Second, 5*time.Millisecond)

	controller.Stop()
	<-done

	assert.Equal(t, []audio.Cue{
		audio.CueBreak,
		audio.CueCountdown,
		audio.CueCountdown,
		audio.CueCountdown,
		audio.CueCountdown,
		audio.CueGo,
	}, player.played())
}

func TestFollow_StopsOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan session.Event)
	done := make(chan struct{})
	go func() {
		defer close(done)
		audio.Follow(ctx, events, audio.NopPlayer{})
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("follow did not return")
	}
}

func TestSynthesize(t *testing.T) {
	buffers := audio.Synthesize(audio.Format)
	require.Len(t, buffers, 3)

	sampleRate := audio.Format.SampleRate
	assert.Equal(t, sampleRate.N(90*time.Millisecond), buffers[audio.CueCountdown].Len())
	assert.Equal(t, sampleRate.N(400*time.Millisecond), buffers[audio.CueGo].Len())
	assert.Equal(t,
		2*sampleRate.N(180*time.Millisecond)+sampleRate.N(60*time.Millisecond),
		buffers[audio.CueBreak].Len(),
	)
}
