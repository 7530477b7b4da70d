package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"expensetracker/internal/cache"
	"expensetracker/internal/images"
	"expensetracker/internal/services"
	"expensetracker/internal/store"
	appweb "expensetracker/web"
)

// Server serves the dashboard UI and the CSV import/export endpoints.
type Server struct {
	http.Server
	templates   *template.Template
	svc         *services.ExpenseService
	store       store.Store
	images      *images.Store
	rateLimiter *rateLimiter
	metrics     *securityMetrics

	// Rendered chart HTML keyed by kind and table version.
	chartCache   *cache.LRUCache[string]
	cacheManager *cache.Manager

	maxUploadBytes int64
	shutdownOnce   sync.Once
}

// Options carries the wiring NewServer needs beyond the address.
type Options struct {
	Service        *services.ExpenseService
	Store          store.Store
	Images         *images.Store
	MaxUploadBytes int64
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		svc:            opts.Service,
		store:          opts.Store,
		images:         opts.Images,
		rateLimiter:    newRateLimiter(),
		metrics:        &securityMetrics{},
		chartCache:     cache.NewLRUCache[string](20, 5*time.Minute),
		cacheManager:   cache.NewManager(),
		maxUploadBytes: opts.MaxUploadBytes,
	}
	if s.maxUploadBytes <= 0 {
		s.maxUploadBytes = 5 << 20
	}

	s.cacheManager.Register(s.chartCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.HandleFunc("/", s.secured(s.handleIndex))
	mux.HandleFunc("/expenses", s.secured(s.handleExpenses))
	mux.HandleFunc("/import", s.secured(s.handleImport))
	mux.HandleFunc("/export", s.secured(s.handleExport))
	mux.HandleFunc("/charts", s.secured(s.handleChartsPage))
	mux.HandleFunc("/charts/category", s.secured(s.handleChart))
	mux.HandleFunc("/charts/timeline", s.secured(s.handleChart))
	mux.HandleFunc("/settings", s.secured(s.handleSettings))
	mux.HandleFunc("/settings/reset", s.secured(s.handleReset))
	mux.HandleFunc("/settings/sample", s.secured(s.handleLoadSample))
	mux.HandleFunc("/settings/image", s.secured(s.handleImageUpload))
	mux.HandleFunc("/assets/profile", s.secured(s.handleAsset))
	mux.HandleFunc("/assets/banner", s.secured(s.handleAsset))

	// UI partials
	mux.HandleFunc("/ui/overview", s.secured(s.handleOverviewPartial))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	// Ready once the store answers; memory always does, sqlite may not.
	if _, err := s.store.Version(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
