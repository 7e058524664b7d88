package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	nlog "nutrilog/internal/log"
	"nutrilog/internal/middleware/ratelimit"
	"nutrilog/internal/middleware/security"
	"nutrilog/internal/middleware/trace"
	"nutrilog/internal/services"
)

// Options tunes the server. Zero values fall back to defaults.
type Options struct {
	RateLimitPerMinute int
	Logger             *nlog.Logger
}

// appMetrics holds counters exposed on /metrics.
type appMetrics struct {
	mealsCreated    int64
	productsCreated int64
	daysCopied      int64
	uptime          time.Time
}

type Server struct {
	http.Server
	svc *services.NutritionService

	rateLimiter     *ratelimit.Limiter
	traceMiddleware *trace.Middleware
	appMetrics      *appMetrics

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, svc *services.NutritionService, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = nlog.New(nlog.DefaultConfig())
	}
	logger = logger.WithComponent(nlog.ComponentHTTP)

	limiterConfig := ratelimit.DefaultConfig()
	if opts.RateLimitPerMinute > 0 {
		limiterConfig.RequestsPerMinute = opts.RateLimitPerMinute
	}

	s := &Server{
		svc:             svc,
		rateLimiter:     ratelimit.NewLimiter(limiterConfig),
		traceMiddleware: trace.NewMiddleware(extractClientIP),
		appMetrics:      &appMetrics{uptime: time.Now()},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /api/products", s.handleListProducts)
	mux.HandleFunc("POST /api/products", s.handleCreateProduct)
	mux.HandleFunc("DELETE /api/products/{id}", s.handleDeleteProduct)

	mux.HandleFunc("GET /api/days/{date}/meals", s.handleListMeals)
	mux.HandleFunc("POST /api/days/{date}/meals", s.handleCreateMeal)
	mux.HandleFunc("PATCH /api/meals/{id}", s.handleUpdateMultiplier)
	mux.HandleFunc("DELETE /api/meals/{id}", s.handleDeleteMeal)

	mux.HandleFunc("GET /api/days/{date}/totals", s.handleDayTotals)
	mux.HandleFunc("GET /api/days/{date}/summary", s.handleDaySummary)
	mux.HandleFunc("POST /api/days/{date}/copy", s.handleCopyDay)

	mux.HandleFunc("GET /api/goal", s.handleGetGoal)
	mux.HandleFunc("PUT /api/goal", s.handlePutGoal)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limit := s.rateLimiter.Middleware(extractClientIP, func(w http.ResponseWriter, r *http.Request) {
		nlog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
			nlog.NewFields().
				WithComponent(nlog.ComponentRateLimit).
				WithClientIP(extractClientIP(r)).
				WithHTTPRequest(r.Method, r.URL.Path, "", "").
				ToSlice()...)
		ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, retry later").Write(w)
	})

	var handler http.Handler = mux
	handler = limit(handler)
	handler = headers.Middleware(handler)
	handler = nlog.Middleware(logger, trace.GetRequestID)(handler)
	handler = s.traceMiddleware.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Shutdown gracefully shuts down the server and the rate limiter cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
