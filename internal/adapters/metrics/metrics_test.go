package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/blockflow-go/internal/application/mediator"
)

type sampleQuery struct{}

func TestAnalysisMetricsCollector_Records(t *testing.T) {
	// Arrange
	InitRegistry()
	t.Cleanup(func() { Registry = nil; SetGlobalAnalysisCollector(nil) })
	collector := NewAnalysisMetricsCollector()
	require.NoError(t, collector.Register())
	SetGlobalAnalysisCollector(collector)

	// Act
	RecordSolve(4, 1000, 0.2, false)
	RecordSolve(4, 12, 0.5, true)
	RecordCacheLookup(true)
	RecordCacheLookup(false)
	RecordCacheLookup(false)
	RecordReachability(50, false)
	RecordShortages("0,0", 3)

	// Assert
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.solvesTotal.WithLabelValues("truncated")))
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.cacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.reachWalks.WithLabelValues("false")))
	assert.Equal(t, 3.0, testutil.ToFloat64(collector.blockShortages.WithLabelValues("0,0")))
}

func TestHandler_ServesRegistry(t *testing.T) {
	InitRegistry()
	t.Cleanup(func() { Registry = nil })
	collector := NewWatchMetricsCollector()
	require.NoError(t, collector.Register())
	collector.RecordThrottled()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "blockflow_watch_throttled_total 1"))
}

func TestPrometheusMiddleware_RecordsStatus(t *testing.T) {
	InitRegistry()
	t.Cleanup(func() { Registry = nil })
	collector := NewRequestMetricsCollector()
	require.NoError(t, collector.Register())
	mw := PrometheusMiddleware(collector)

	_, _ = mw(context.Background(), &sampleQuery{}, func(context.Context, mediator.Request) (mediator.Response, error) {
		return nil, errors.New("boom")
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.requestsTotal.WithLabelValues("sampleQuery", "error")))
}

func TestRecorders_NoOpWhenDisabled(t *testing.T) {
	SetGlobalAnalysisCollector(nil)

	assert.NotPanics(t, func() {
		RecordSolve(1, 1, 0, false)
		RecordFactChange("/tmp/blocks.json")
	})
	assert.False(t, IsEnabled())
}

func TestServer_ExposesSetupCollectors(t *testing.T) {
	// Arrange
	collectors, err := Setup()
	require.NoError(t, err)
	t.Cleanup(func() {
		Registry = nil
		SetGlobalAnalysisCollector(nil)
		SetGlobalWatchCollector(nil)
	})
	srv, err := NewServer("127.0.0.1:0", "/metrics")
	require.NoError(t, err)
	srv.Start()
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	// Act
	RecordReanalysis(0.1, true)
	collectors.Requests.RecordRequestExecution("AnalyzeBlockQuery", 0.01, true)
	resp, err := http.Get("http://" + srv.Addr() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `blockflow_watch_reanalysis_total{status="success"} 1`)
	assert.Contains(t, string(body), "AnalyzeBlockQuery")
}
