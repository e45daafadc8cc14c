package metrics_test

import (
	"testing"
	"time"

	"github.com/gongxings/ai-creator/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Registered(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	m.ObserveRequest("GET", "success", 20*time.Millisecond)
	m.ObserveRequest("GET", "success", 30*time.Millisecond)
	m.ObserveRequest("POST", "auth_failure", time.Millisecond)
	m.RecoveryStarted()
	m.RecoverySuppressed()
	m.RecoveryFinished(metrics.RecoveryConfirmed)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	require.Contains(t, names, "ai_creator_pipeline_requests_total")
	require.Contains(t, names, "ai_creator_invalidation_recoveries_total")

	count, err := testutil.GatherAndCount(reg, "ai_creator_pipeline_requests_total")
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metrics.New(reg)
	require.NoError(t, err)
	_, err = metrics.New(reg)
	require.Error(t, err)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics
	require.NotPanics(t, func() {
		m.ObserveRequest("GET", "success", time.Second)
		m.RecoveryStarted()
		m.RecoveryFinished(metrics.RecoveryFailed)
		m.RecoverySuppressed()
	})
}
