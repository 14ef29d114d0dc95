package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Requests.WithLabelValues("workout", OutcomeOK).Inc()
	m.Degraded.WithLabelValues("meal_plan").Inc()
	m.GenerationDuration.WithLabelValues("workout").Observe(1.5)
	m.HTTPDuration.WithLabelValues("/api/workouts", "200").Observe(0.01)

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("workout", OutcomeOK)))
}

func TestNewTwiceOnSameRegistryPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
