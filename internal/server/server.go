package server

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"pingcheck/internal/apperr"
	"pingcheck/internal/models"
)

//go:embed static/*
var embeddedStatic embed.FS

// Checker is the state owner the server exposes.
type Checker interface {
	Start(ctx context.Context) error
	Snapshot() models.Snapshot
	SetPanelOpen(open bool)
	TogglePanel() bool
	Subscribe() (<-chan struct{}, func())
}

// Server wraps HTTP serving of the page, API and static assets.
type Server struct {
	httpServer *http.Server
	router     chi.Router
	checker    Checker
	logger     *zap.Logger
	staticFS   fs.FS
	page       *template.Template

	closeOnce sync.Once
	closing   chan struct{}
}

// New creates a configured HTTP server around checker.
func New(addr string, checker Checker, logger *zap.Logger) *Server {
	staticFS, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		panic("static assets missing: " + err.Error())
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	s := &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
		router:   r,
		checker:  checker,
		logger:   logger,
		staticFS: staticFS,
		page:     parsePage(staticFS),
		closing:  make(chan struct{}),
	}
	s.registerRoutes(r)
	return s
}

// Handler returns the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run blocks and serves HTTP traffic.
func (s *Server) Run() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown closes live connections and gracefully shuts the server down.
func (s *Server) Shutdown(ctx context.Context) error {
	s.closeOnce.Do(func() { close(s.closing) })
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) registerRoutes(r chi.Router) {
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)

	r.Get("/", s.handleIndex)
	r.Get("/fragment", s.handleFragment)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(s.staticFS))))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/summary", s.handleSummary)
		r.Post("/ping", s.handlePing)
		r.Post("/panel", s.handlePanel)
		r.Get("/live", s.handleLive)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperr.HTTPStatus(err), errorResponse{
		Error: err.Error(),
		Code:  string(apperr.CodeOf(err)),
	})
}
