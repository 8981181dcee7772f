package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheus_Counters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	p, err := NewPrometheus(reg)
	require.NoError(t, err)

	p.URLClassified("shop")
	p.URLClassified("shop")
	p.URLClassified("event")
	p.ResolveOutcome(ResolveResolved)
	p.SignOutcome(SignFailed)
	p.BatchDuration(25 * time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(p.urls.WithLabelValues("shop")))
	require.Equal(t, 1.0, testutil.ToFloat64(p.urls.WithLabelValues("event")))
	require.Equal(t, 1.0, testutil.ToFloat64(p.resolves.WithLabelValues(ResolveResolved)))
	require.Equal(t, 1.0, testutil.ToFloat64(p.signs.WithLabelValues(SignFailed)))
	require.Equal(t, 1, testutil.CollectAndCount(p.batch))
}

func TestNewPrometheus_DuplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := NewPrometheus(reg)
	require.NoError(t, err)

	_, err = NewPrometheus(reg)
	require.Error(t, err)
}
