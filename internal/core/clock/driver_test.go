package clock_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"coachtimer/internal/core/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDriver_ManualTicks(t *testing.T) {
	source := clock.NewManualSource()
	driver := clock.NewDriver(source, 0)
	assert.Equal(t, time.Second, driver.Interval())

	ticks := make(chan time.Time, 3)
	sub := driver.Subscribe(context.Background(), func(at time.Time) {
		ticks <- at
	})
	defer sub.Cancel()

	require.True(t, source.Tick())
	require.True(t, source.Tick())

	first := <-ticks
	second := <-ticks
	assert.Equal(t, time.Second, second.Sub(first))
}

func TestSubscription_CancelStopsCallbacks(t *testing.T) {
	source := clock.NewManualSource()
	source.Timeout = 50 * time.Millisecond
	driver := clock.NewDriver(source, time.Second)

	var calls atomic.Int32
	called := make(chan struct{}, 1)
	sub := driver.Subscribe(context.Background(), func(time.Time) {
		calls.Add(1)
		called <- struct{}{}
	})
	require.True(t, source.Tick())
	<-called

	sub.Cancel()
	sub.Cancel()

	select {
	case <-sub.Done():
	default:
		t.Fatal("subscription goroutine still running after Cancel")
	}

	assert.False(t, source.Tick())
	assert.EqualValues(t, 1, calls.Load())
}

func TestSubscription_ParentContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sub := clock.NewDriver(clock.NewManualSource(), time.Second).Subscribe(ctx, func(time.Time) {})
	cancel()

	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatal("subscription did not exit after parent cancel")
	}
}

func TestDriver_RealSource(t *testing.T) {
	driver := clock.NewDriver(nil, 10*time.Millisecond)

	var calls atomic.Int32
	sub := driver.Subscribe(context.Background(), func(time.Time) {
		calls.Add(1)
	})
	require.Eventually(t, func() bool {
		return calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)
	sub.Cancel()
}

func TestSubscription_NilCancel(t *testing.T) {
	var sub *clock.Subscription
	assert.NotPanics(t, sub.Cancel)
}
