// Package http exposes the JSON API: transactions, dashboard aggregates,
// insight slides, budget settings and receipt scanning.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"scontrino/internal/cache"
	"scontrino/internal/core"
	"scontrino/internal/insights"
	applog "scontrino/internal/log"
	"scontrino/internal/middleware/ratelimit"
	"scontrino/internal/middleware/security"
	"scontrino/internal/middleware/trace"
	"scontrino/internal/services"
	"scontrino/internal/storage"
)

// ReceiptScanner extracts a structured transaction from a receipt photo.
type ReceiptScanner interface {
	AnalyzeReceipt(ctx context.Context, image []byte, mimeType string) (*core.ReceiptExtraction, error)
}

// Deps bundles everything the server serves from.
type Deps struct {
	Store        storage.Store
	Transactions *services.TransactionService
	Dashboard    *services.DashboardService
	Insights     *insights.Service

	// Scanner may be nil; the scan endpoint then reports unavailability.
	Scanner ReceiptScanner

	// RotationInterval is advertised to clients as the slide carousel
	// cadence. Zero falls back to insights.RotationInterval.
	RotationInterval time.Duration
}

type Server struct {
	http.Server

	store            storage.Store
	transactions     *services.TransactionService
	dashboard        *services.DashboardService
	insights         *insights.Service
	scanner          ReceiptScanner
	rotationInterval time.Duration

	// Dashboard responses are cached per user and month; writes invalidate.
	overviewCache *cache.LRUCache[services.Overview]
	cacheManager  *cache.Manager

	rateLimiter  *ratelimit.Limiter
	detector     *security.Detector
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	if deps.RotationInterval <= 0 {
		deps.RotationInterval = insights.RotationInterval
	}

	s := &Server{
		Server: http.Server{
			Addr:         addr,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		store:            deps.Store,
		transactions:     deps.Transactions,
		dashboard:        deps.Dashboard,
		insights:         deps.Insights,
		scanner:          deps.Scanner,
		rotationInterval: deps.RotationInterval,
		overviewCache:    cache.NewLRUCache[services.Overview](500, 5*time.Minute),
		cacheManager:     cache.NewManager(),
		rateLimiter:      ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector:         security.NewDetector(),
	}

	s.cacheManager.Register(s.overviewCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/insights", s.handleInsights)

	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", s.handleUpdateSettings)

	mux.HandleFunc("POST /api/scan", s.handleScanReceipt)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(s.detector.ExtractClientIP, s.detector.SuspiciousRequest)
	limiter := s.rateLimiter.Middleware(s.detector.ExtractClientIP, nil)
	logging := applog.Middleware(applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP))

	s.Handler = logging(tracer.Middleware(headers.Middleware(limiter(mux))))

	return s
}

// Shutdown stops the HTTP server and the background cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
