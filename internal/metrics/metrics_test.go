package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCommand(t *testing.T) {
	before := testutil.ToFloat64(commandsTotal.WithLabelValues("shrug", OutcomeOK))
	RecordCommand("shrug", OutcomeOK, 5*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(commandsTotal.WithLabelValues("shrug", OutcomeOK)))
}

func TestHandlerExposesMetrics(t *testing.T) {
	RecordHTTPRequest("/healthz", 200)

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "parley_http_requests_total")
}
