package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abtest/domain/abtest"
)

func TestMetrics_ObserveReport(t *testing.T) {
	m := New()

	significant := abtest.Report{Results: abtest.ResultsSummary{IsSignificant: true}}
	significant.StatisticalTests.ZTest.PValue = abtest.Float(0.01)
	significant.StatisticalTests.ChiSquare.PValue = abtest.Float(0.01)
	significant.StatisticalTests.Chi2Contingency.PValue = abtest.Float(0.02)
	significant.StatisticalTests.FishersExact.PValue = abtest.Float(0.02)
	significant.StatisticalTests.BarnardsExact.PValue = abtest.Float(0.01)
	significant.StatisticalTests.GTest.PValue = abtest.Float(0.01)
	m.ObserveReport(significant)

	degenerate := abtest.Report{}
	degenerate.StatisticalTests.ZTest.PValue = abtest.Float(1)
	degenerate.StatisticalTests.FishersExact.PValue = abtest.Float(1)
	degenerate.StatisticalTests.BarnardsExact.PValue = abtest.Float(1)
	degenerate.StatisticalTests.GTest.PValue = abtest.Float(1)
	m.ObserveReport(degenerate)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.analyses.WithLabelValues("significant")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.analyses.WithLabelValues("not_significant")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.procedureFailures.WithLabelValues(abtest.KeyChiSquare)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.procedureFailures.WithLabelValues(abtest.KeyChi2Contingency)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.procedureFailures.WithLabelValues(abtest.KeyZTest)))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveRequest("/api/calculate", http.StatusOK, 25*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `abtest_http_request_duration_seconds_count{route="/api/calculate",status="200"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
