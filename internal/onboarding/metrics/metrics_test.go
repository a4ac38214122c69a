package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveSubmission("success")
	m.ObserveSubmission("success")
	m.ObserveSubmission("invalid")
	m.ObserveApproval("already_processed")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.submissions.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.approvals.WithLabelValues("already_processed")))
}

func TestObserveHTTP(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveHTTP("approve", http.StatusConflict, 20*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("approve", "409")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.latency))
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveApproval("success")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `onboarding_approvals_total{result="success"} 1`))
}
