package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAuthEvent(t *testing.T) {
	initial := testutil.ToFloat64(AuthEvents.WithLabelValues("login", OutcomeFailure))

	RecordAuthEvent("login", false)

	assert.Equal(t, initial+1, testutil.ToFloat64(AuthEvents.WithLabelValues("login", OutcomeFailure)))
}

func TestRecordEmailSend(t *testing.T) {
	initial := testutil.ToFloat64(EmailSends.WithLabelValues(OutcomeSuccess))

	RecordEmailSend(true)

	assert.Equal(t, initial+1, testutil.ToFloat64(EmailSends.WithLabelValues(OutcomeSuccess)))
}

func TestRecordHTTPRequest(t *testing.T) {
	initial := testutil.ToFloat64(HTTPRequests.WithLabelValues("/login", http.MethodPost, "200"))

	RecordHTTPRequest("/login", http.MethodPost, http.StatusOK, 15*time.Millisecond)

	assert.Equal(t, initial+1, testutil.ToFloat64(HTTPRequests.WithLabelValues("/login", http.MethodPost, "200")))
	assert.GreaterOrEqual(t, testutil.CollectAndCount(HTTPDuration), 1)
}

func TestHandler_ExposesRegisteredMetrics(t *testing.T) {
	reg := NewRegistry()
	RecordAuthEvent("register", true)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "password_reset_auth_events_total")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
