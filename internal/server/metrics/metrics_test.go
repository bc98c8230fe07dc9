package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveAuth("ok")
	m.ObserveAuth("ok")
	m.ObserveAuth("rejected")
	m.ObserveRequest(http.MethodPost, 401, "NO_AUTH")
	m.ObserveRPC("/caltracker.auth.v1.Auth/WhoAmI", "OK")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.authResults.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authResults.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "401", "NO_AUTH")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rpcRequests.WithLabelValues("/caltracker.auth.v1.Auth/WhoAmI", "OK")))
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveAuth("no_token")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `caltracker_auth_resolutions_total{outcome="no_token"} 1`)
}
