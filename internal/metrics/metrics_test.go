package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	t.Parallel()

	m := New()
	m.GamesStarted.Inc()
	m.RoundsSettled.Add(3)
	m.Penalties.WithLabelValues("dealer").Add(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.GamesStarted))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.RoundsSettled))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Penalties.WithLabelValues("dealer")))
}

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := New()
	m.GamesFinished.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "kash_games_finished_total 1")
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	t.Parallel()

	a, b := New(), New()
	a.GamesStarted.Inc()

	assert.Equal(t, 0.0, testutil.ToFloat64(b.GamesStarted))
	assert.NotSame(t, a.Registry(), b.Registry())
}
