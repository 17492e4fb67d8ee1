package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/blockflow-go/internal/application/logging"
	"github.com/andrescamacho/blockflow-go/internal/application/mediator"
)

// PrometheusMiddleware times every mediator request under its bare type
// name, e.g. "AnalyzeBlockQuery". Failed requests are also logged at debug
// through the context logger. A nil collector passes requests through.
func PrometheusMiddleware(collector *RequestMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		name := requestName(request)
		start := time.Now()
		response, err := next(ctx, request)
		elapsed := time.Since(start)
		collector.RecordRequestExecution(name, elapsed.Seconds(), err == nil)

		if err != nil {
			logging.LoggerFromContext(ctx).Log("DEBUG", "Request failed", map[string]interface{}{
				"request":     name,
				"duration_ms": elapsed.Milliseconds(),
				"error":       err.Error(),
			})
		}
		return response, err
	}
}

func requestName(request mediator.Request) string {
	if request == nil {
		return "UnknownRequest"
	}
	name := fmt.Sprintf("%T", request)
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
	}
	return name
}
