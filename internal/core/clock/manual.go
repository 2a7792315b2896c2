package clock

import "time"

// ManualSource delivers ticks only when Tick is called. It lets callers
// step a session one second at a time.
type ManualSource struct {
	ch      chan time.Time
	Timeout time.Duration
	now     time.Time
}

// NewManualSource creates a ManualSource starting at a fixed instant.
func NewManualSource() *ManualSource {
	return &ManualSource{
		ch:      make(chan time.Time),
		Timeout: 500 * time.Millisecond,
		now:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// NewTicker implements Source. Every ticker shares the source channel.
func (source *ManualSource) NewTicker(time.Duration) Ticker {
	return manualTicker{ch: source.ch}
}

// Tick hands one tick to the active subscription. It reports false when
// no subscription received it within Timeout.
func (source *ManualSource) Tick() bool {
	timer := time.NewTimer(source.Timeout)
	defer timer.Stop()

	next := source.now.Add(DefaultInterval)
	select {
	case source.ch <- next:
		source.now = next
		return true
	case <-timer.C:
		return false
	}
}

type manualTicker struct {
	ch chan time.Time
}

func (ticker manualTicker) C() <-chan time.Time { return ticker.ch }
func (ticker manualTicker) Stop()               {}
