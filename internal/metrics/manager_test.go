package metrics_test

import (
	"context"
	"io"
	"net/http"
	"testing"

	"coachtimer/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestManager_Counters(t *testing.T) {
	manager, reg := metrics.NewTestManagerAndRegistry()

	manager.CounterSessionsStarted.Inc()
	manager.CounterRoundsCompleted.Add(3)
	manager.CounterTransitions.WithLabelValues("enter_rest").Inc()
	manager.GaugeRunningSessions.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(manager.CounterSessionsStarted))
	assert.Equal(t, 3.0, testutil.ToFloat64(manager.CounterRoundsCompleted))
	assert.Equal(t, 1.0, testutil.ToFloat64(manager.CounterTransitions.WithLabelValues("enter_rest")))
	assert.Equal(t, 1.0, testutil.ToFloat64(manager.GaugeRunningSessions))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestServer_ServesMetrics(t *testing.T) {
	manager, reg := metrics.NewTestManagerAndRegistry()
	manager.CounterSessionsStarted.Inc()

	server, err := metrics.Listen("127.0.0.1:0", reg)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, server.Shutdown(context.Background()))
	}()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + server.Addr() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "coachtimer_interval_sessions_started_total 1")
}
