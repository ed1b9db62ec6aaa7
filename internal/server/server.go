// Package server hosts a built site for local preview and drives the PDF
// viewer panel over a websocket.
//
// The site itself is served from the output directory as written by
// internal/site. Viewer state lives on the server: each websocket
// connection owns a viewer.Controller and the browser only executes the
// commands it receives.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/alnah/go-termblog/internal/fileutil"
	"github.com/alnah/go-termblog/internal/logging"
	"github.com/alnah/go-termblog/internal/pdfindex"
	"github.com/alnah/go-termblog/internal/pdflink"
	"github.com/alnah/go-termblog/internal/viewer"
)

// Route paths.
const (
	HealthPath    = "/healthz"
	ViewerDocPath = "/viewer/doc/"
	ViewerWSPath  = "/viewer/ws"
)

// DefaultAddr is used when Config.Addr is empty.
const DefaultAddr = "127.0.0.1:8080"

// Sentinel errors for server operations.
var (
	ErrNoOutputDir = errors.New("output directory does not exist")
	ErrNotStarted  = errors.New("server not started")
)

// Config holds server configuration.
type Config struct {
	Addr           string
	OutputDir      string // built site
	PDFDir         string // source PDFs served under /pdfs/ (empty = output copy)
	AllowedOrigins []string
	Logger         logging.Logger
	SessionOptions []viewer.SessionOption // applied to every viewer session
}

// Server is the development server.
type Server struct {
	cfg    Config
	log    logging.Logger
	index  atomic.Pointer[pdfindex.Index]
	files  http.Handler
	router chi.Router

	mu         sync.Mutex
	httpServer *http.Server
	closed     bool
}

// New creates a server for the site in cfg.OutputDir. idx backs the viewer
// panel; SetIndex replaces it after a rebuild.
func New(cfg Config, idx *pdfindex.Index) (*Server, error) {
	if !fileutil.DirExists(cfg.OutputDir) {
		return nil, fmt.Errorf("%w: %s", ErrNoOutputDir, cfg.OutputDir)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NoOp()
	}
	if idx == nil {
		idx = pdfindex.NewIndex()
	}

	s := &Server{
		cfg:   cfg,
		log:   cfg.Logger,
		files: http.FileServer(http.Dir(cfg.OutputDir)),
	}
	s.index.Store(idx)
	s.router = s.buildRouter()
	return s, nil
}

// SetIndex swaps the PDF index used by the viewer routes.
func (s *Server) SetIndex(idx *pdfindex.Index) {
	if idx != nil {
		s.index.Store(idx)
	}
}

// Index returns the current PDF index.
func (s *Server) Index() *pdfindex.Index { return s.index.Load() }

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	if len(s.cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get(HealthPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// The websocket outlives any request timeout, so only the document
	// route gets one.
	r.Get(ViewerWSPath, s.handleViewerSocket)
	r.With(middleware.Timeout(30*time.Second)).Get(ViewerDocPath+"*", s.handleViewerDoc)

	if s.cfg.PDFDir != "" {
		r.Handle(pdflink.ResourcePrefix+"*", http.StripPrefix(pdflink.ResourcePrefix, http.FileServer(http.Dir(s.cfg.PDFDir))))
	}
	r.Get("/*", s.serveSite)
	r.Head("/*", s.serveSite)

	return r
}

// serveSite serves the built output and falls back to its 404 page.
func (s *Server) serveSite(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if rel == "" {
		s.files.ServeHTTP(w, r)
		return
	}
	full, err := fileutil.SafeJoin(s.cfg.OutputDir, rel)
	if err == nil {
		if info, statErr := os.Stat(full); statErr == nil {
			if !info.IsDir() || fileutil.FileExists(filepath.Join(full, "index.html")) {
				s.files.ServeHTTP(w, r)
				return
			}
		}
	}
	s.notFound(w, r)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	page, err := os.ReadFile(filepath.Join(s.cfg.OutputDir, "404.html")) // #nosec G304 -- fixed name under the output dir
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if r.Method != http.MethodHead {
		_, _ = w.Write(page)
	}
}

// Start listens on the configured address and blocks until Shutdown.
// It returns nil after a graceful shutdown, or at once if Shutdown already
// ran.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	hs := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.httpServer = hs
	s.mu.Unlock()

	s.log.Info("serving site", "addr", s.cfg.Addr, "dir", s.cfg.OutputDir)
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	hs := s.httpServer
	s.mu.Unlock()

	if hs == nil {
		return ErrNotStarted
	}
	return hs.Shutdown(ctx)
}

// requestLogger logs each request through the module logger at debug level.
func requestLogger(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).String(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
