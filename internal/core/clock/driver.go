// Package clock provides the periodic tick source that drives a timer
// session. A Subscription owns exactly one goroutine; cancelling it waits
// for that goroutine to return, so no tick callback runs after Cancel.
package clock

import (
	"context"
	"time"
)

// DefaultInterval is the tick granularity of a timer session.
const DefaultInterval = time.Second

// Ticker delivers tick times until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Source creates tickers for a Driver.
type Source interface {
	NewTicker(interval time.Duration) Ticker
}

// RealSource is backed by time.Ticker.
type RealSource struct{}

// NewTicker implements Source.
func (RealSource) NewTicker(interval time.Duration) Ticker {
	return &realTicker{ticker: time.NewTicker(interval)}
}

type realTicker struct {
	ticker *time.Ticker
}

func (ticker *realTicker) C() <-chan time.Time { return ticker.ticker.C }
func (ticker *realTicker) Stop()               { ticker.ticker.Stop() }

// Driver hands out tick subscriptions.
type Driver struct {
	source   Source
	interval time.Duration
}

// NewDriver creates a Driver. A nil source means RealSource and a
// non-positive interval means DefaultInterval.
func NewDriver(source Source, interval time.Duration) *Driver {
	if source == nil {
		source = RealSource{}
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Driver{source: source, interval: interval}
}

// Interval returns the tick interval.
func (driver *Driver) Interval() time.Duration {
	return driver.interval
}

// Subscription is a running tick loop.
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Subscribe starts calling onTick once per interval until the returned
// subscription is cancelled or ctx is done. Calls are serialized.
func (driver *Driver) Subscribe(ctx context.Context, onTick func(time.Time)) *Subscription {
	runCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	ticker := driver.source.NewTicker(driver.interval)

	go func() {
		defer close(sub.done)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case tickTime := <-ticker.C():
				if runCtx.Err() != nil {
					return
				}
				onTick(tickTime)
			}
		}
	}()

	return sub
}

// Cancel stops the tick loop and blocks until it has exited. It is safe to
// call more than once but must not be called from inside onTick.
func (sub *Subscription) Cancel() {
	if sub == nil {
		return
	}
	sub.cancel()
	<-sub.done
}

// Done is closed once the tick loop has exited.
func (sub *Subscription) Done() <-chan struct{} {
	return sub.done
}
