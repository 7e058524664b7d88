package http

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	nlog "nutrilog/internal/log"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().JSON(map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.uptime).String(),
	}).Write(w)
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{})

	if err := s.svc.Ping(ctx); err != nil {
		checks["store"] = fmt.Sprintf("failed: %v", err)
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["store"] = "ok"
	}

	checks["rate_limiter"] = map[string]interface{}{
		"active_clients": s.rateLimiter.ActiveClients(),
		"status":         "ok",
	}

	NewJSONResponse().Status(httpStatus).JSON(map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}

// handleMetrics provides application metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	rateLimitMetrics := s.rateLimiter.GetMetrics()
	traceMetrics := s.traceMiddleware.GetMetrics()

	mealsCreated := atomic.LoadInt64(&s.appMetrics.mealsCreated)
	productsCreated := atomic.LoadInt64(&s.appMetrics.productsCreated)
	daysCopied := atomic.LoadInt64(&s.appMetrics.daysCopied)
	uptime := time.Since(s.appMetrics.uptime)

	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n\n", traceMetrics.TotalRequests)

	fmt.Fprintf(w, "# HELP http_errors_total HTTP responses with an error status\n")
	fmt.Fprintf(w, "# TYPE http_errors_total counter\n")
	fmt.Fprintf(w, "http_errors_total{class=\"4xx\"} %d\n", traceMetrics.ClientErrors)
	fmt.Fprintf(w, "http_errors_total{class=\"5xx\"} %d\n\n", traceMetrics.ServerErrors)

	fmt.Fprintf(w, "# HELP http_response_time_avg_ms Average response time\n")
	fmt.Fprintf(w, "# TYPE http_response_time_avg_ms gauge\n")
	fmt.Fprintf(w, "http_response_time_avg_ms %.3f\n\n", float64(traceMetrics.AverageResponseTime.Microseconds())/1000)

	fmt.Fprintf(w, "# HELP meals_created_total Total number of meals created\n")
	fmt.Fprintf(w, "# TYPE meals_created_total counter\n")
	fmt.Fprintf(w, "meals_created_total %d\n\n", mealsCreated)

	fmt.Fprintf(w, "# HELP products_created_total Total number of catalog products created\n")
	fmt.Fprintf(w, "# TYPE products_created_total counter\n")
	fmt.Fprintf(w, "products_created_total %d\n\n", productsCreated)

	fmt.Fprintf(w, "# HELP days_copied_total Total number of day copies\n")
	fmt.Fprintf(w, "# TYPE days_copied_total counter\n")
	fmt.Fprintf(w, "days_copied_total %d\n\n", daysCopied)

	fmt.Fprintf(w, "# HELP rate_limit_hits_total Total rate limit hits\n")
	fmt.Fprintf(w, "# TYPE rate_limit_hits_total counter\n")
	fmt.Fprintf(w, "rate_limit_hits_total %d\n\n", rateLimitMetrics.TotalHits)

	fmt.Fprintf(w, "# HELP active_rate_limit_clients Currently tracked rate limit clients\n")
	fmt.Fprintf(w, "# TYPE active_rate_limit_clients gauge\n")
	fmt.Fprintf(w, "active_rate_limit_clients %d\n\n", rateLimitMetrics.ClientCount)

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n\n", uptime.Seconds())
}

// fail logs err with the request logger and writes the mapped error response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := StatusForError(err)
	errorType := nlog.ErrorTypeInternal
	switch status {
	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		errorType = nlog.ErrorTypeValidation
	case http.StatusConflict:
		errorType = nlog.ErrorTypeConflict
	case http.StatusNotFound:
		errorType = nlog.ErrorTypeNotFound
	}

	fields := nlog.NewFields().
		WithOperation(op).
		WithError(err, errorType).
		ToSlice()

	logger := nlog.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", fields...)
	} else {
		logger.InfoContext(r.Context(), "Request rejected", fields...)
	}
	ServiceError(err).Write(w)
}
