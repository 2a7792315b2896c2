package audio

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	log "github.com/sirupsen/logrus"
)

// SampleRate is used for synthesis and for the speaker.
const SampleRate = beep.SampleRate(44100)

// Format is the PCM format of synthesized cues.
var Format = beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2}

type toneSpec struct {
	frequency float64
	duration  time.Duration
	repeat    int
}

var toneSpecs = map[Cue]toneSpec{
	CueBreak:     {frequency: 523.25, duration: 180 * time.Millisecond, repeat: 2},
	CueCountdown: {frequency: 880, duration: 90 * time.Millisecond, repeat: 1},
	CueGo:        {frequency: 1318.5, duration: 400 * time.Millisecond, repeat: 1},
}

// SpeakerPlayer plays cues through the default audio device.
type SpeakerPlayer struct {
	enabled atomic.Bool
	buffers map[Cue]*beep.Buffer
	logger  *log.Entry

	mu sync.Mutex
}

// NewSpeakerPlayer initializes the speaker and synthesizes all cues.
func NewSpeakerPlayer(enabled bool) (*SpeakerPlayer, error) {
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	player := &SpeakerPlayer{
		buffers: Synthesize(Format),
		logger:  log.WithField("component", "audio"),
	}
	player.enabled.Store(enabled)
	return player, nil
}

// SetEnabled toggles playback.
func (player *SpeakerPlayer) SetEnabled(enabled bool) {
	player.enabled.Store(enabled)
}

// Play queues the cue on the speaker mixer.
func (player *SpeakerPlayer) Play(cue Cue) {
	if !player.enabled.Load() {
		return
	}
	buffer, ok := player.buffers[cue]
	if !ok {
		player.logger.WithField("cue", cue).Warn("sound buffer not found")
		return
	}

	player.mu.Lock()
	defer player.mu.Unlock()
	speaker.Play(buffer.Streamer(0, buffer.Len()))
}

// Close releases the audio device.
func (player *SpeakerPlayer) Close() error {
	speaker.Clear()
	speaker.Close()
	return nil
}

// Synthesize renders every cue into an in-memory buffer.
func Synthesize(format beep.Format) map[Cue]*beep.Buffer {
	buffers := make(map[Cue]*beep.Buffer, len(toneSpecs))
	for cue, spec := range toneSpecs {
		buffer := beep.NewBuffer(format)
		gap := format.SampleRate.N(60 * time.Millisecond)
		for i := 0; i < spec.repeat; i++ {
			if i > 0 {
				buffer.Append(beep.Silence(gap))
			}
			buffer.Append(tone(format.SampleRate, spec.frequency, spec.duration))
		}
		buffers[cue] = buffer
	}
	return buffers
}

// tone is a sine wave with a short linear attack and release.
func tone(sampleRate beep.SampleRate, frequency float64, duration time.Duration) beep.Streamer {
	total := sampleRate.N(duration)
	ramp := sampleRate.N(5 * time.Millisecond)
	step := 2 * math.Pi * frequency / float64(sampleRate)
	position := 0

	wave := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			gain := 0.4
			if position < ramp {
				gain *= float64(position) / float64(ramp)
			} else if remaining := total - position; remaining < ramp {
				gain *= float64(remaining) / float64(ramp)
			}
			value := gain * math.Sin(step*float64(position))
			samples[i][0] = value
			samples[i][1] = value
			position++
		}
		return len(samples), true
	})
	return beep.Take(total, wave)
}
