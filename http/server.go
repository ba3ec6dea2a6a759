package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/fwojciec/sitemapper"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ShutdownTimeout is how long Run waits for in-flight requests on shutdown.
const ShutdownTimeout = 30 * time.Second

// Server serves the sitemap generation API.
//
// Fields must be set before the first call to Handler, Open or Run.
type Server struct {
	// Addr is the TCP address to listen on, e.g. ":3000".
	Addr string

	Generator sitemapper.Generator

	// Sitemaps serves the archive routes. Nil disables them.
	Sitemaps sitemapper.SitemapService

	// Limiter admits POST /generate requests. Nil admits everything.
	Limiter *rate.Limiter

	// Metrics is mounted at GET /metrics when set.
	Metrics http.Handler

	// AllowedOrigin is the CORS origin allowed to call the API, typically the
	// front end's URL. Empty allows any origin.
	AllowedOrigin string

	// Middleware wraps every route, outermost first.
	Middleware []func(http.Handler) http.Handler

	Logger *slog.Logger

	ln      net.Listener
	server  *http.Server
	once    sync.Once
	handler http.Handler
}

// Handler returns the routed API handler.
func (s *Server) Handler() http.Handler {
	s.once.Do(func() { s.handler = s.routes() })
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequest)
	r.Use(s.recoverPanic)
	r.Use(s.cors)
	for _, mw := range s.Middleware {
		r.Use(mw)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", s.handleHealth)
	r.Post("/generate", s.handleGenerate)
	r.Post("/generate-sitemap", s.handleGenerateFromURLs)

	if s.Sitemaps != nil {
		r.Get("/sitemaps", s.handleListSitemaps)
		r.Get("/sitemaps/{id}", s.handleGetSitemap)
		r.Delete("/sitemaps/{id}", s.handleDeleteSitemap)
	}

	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}

	return r
}

// Open binds the listener. It is called by Run if needed; calling it
// first lets the caller learn the bound address via URL.
func (s *Server) Open() error {
	if s.ln != nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	return nil
}

// URL returns the base URL of the bound listener.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// Run serves requests until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Open(); err != nil {
		return err
	}

	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger().Info("server listening", "addr", s.ln.Addr().String())
		if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
		defer cancel()
		s.logger().Info("server shutting down")
		return s.server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Server is running",
	})
}

// errorStatus maps application error codes to HTTP status codes.
var errorStatus = map[string]int{
	sitemapper.ECONFLICT: http.StatusConflict,
	sitemapper.EINVALID:  http.StatusBadRequest,
	sitemapper.ENOTFOUND: http.StatusNotFound,
	sitemapper.ETOOMANY:  http.StatusTooManyRequests,
	sitemapper.EINTERNAL: http.StatusInternalServerError,
}

// Error writes err as a JSON error response. Internal errors are logged.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	code, message := sitemapper.ErrorCode(err), sitemapper.ErrorMessage(err)

	status, ok := errorStatus[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status == http.StatusInternalServerError {
		s.logger().Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"err", err,
		)
	}

	writeError(w, status, message)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
