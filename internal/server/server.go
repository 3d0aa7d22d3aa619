package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jonathan/cv-studio/internal/config"
	"github.com/jonathan/cv-studio/internal/export"
	"github.com/jonathan/cv-studio/internal/i18n"
	"github.com/jonathan/cv-studio/internal/photo"
	"github.com/jonathan/cv-studio/internal/server/middleware"
	"github.com/jonathan/cv-studio/internal/server/ratelimit"
	"github.com/jonathan/cv-studio/internal/session"
	"github.com/jonathan/cv-studio/internal/types"
	"golang.org/x/sync/errgroup"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	router      chi.Router
	sessions    *session.Manager
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	editor      *template.Template

	maxPhotoBytes int64
	keepAlive     time.Duration

	baseCtx    context.Context
	cancelBase context.CancelFunc
}

// Config holds server configuration
type Config struct {
	Port          int
	MaxPhotoBytes int64
	Session       *config.SessionConfig
	Defaults      types.UiState
	Capturer      export.Capturer
	Export        export.Options
	RateLimit     *ratelimit.Config // nil loads from the environment
	SecureCookies bool
	// KeepAlive is the interval of SSE comment pings, 25s when zero.
	KeepAlive time.Duration
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Session == nil {
		return nil, fmt.Errorf("session config is required")
	}
	if cfg.Capturer == nil {
		return nil, fmt.Errorf("capturer is required")
	}
	if cfg.MaxPhotoBytes <= 0 {
		cfg.MaxPhotoBytes = photo.DefaultMaxBytes
	}
	if cfg.KeepAlive <= 0 {
		cfg.KeepAlive = 25 * time.Second
	}
	if cfg.RateLimit == nil {
		cfg.RateLimit = ratelimit.LoadConfig()
	}

	editor, err := parseEditorTemplate()
	if err != nil {
		return nil, err
	}

	baseCtx, cancelBase := context.WithCancel(context.Background())
	s := &Server{
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		jwtService:  NewJWTService(cfg.Session),
		editor:      editor,

		maxPhotoBytes: cfg.MaxPhotoBytes,
		keepAlive:     cfg.KeepAlive,

		baseCtx:    baseCtx,
		cancelBase: cancelBase,
	}

	capturer, exportOpts := cfg.Capturer, cfg.Export
	s.sessions = session.NewManager(session.ManagerConfig{
		TTL:             cfg.Session.TTL,
		CleanupInterval: min(cfg.Session.TTL/4, 5*time.Minute),
		Defaults:        cfg.Defaults,
		NewExporter: func() *export.Exporter {
			return export.New(capturer, exportOpts)
		},
	})

	defaults := cfg.Defaults
	if defaults == (types.UiState{}) {
		defaults = types.DefaultUiState()
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(s.withRateLimit, s.withLogging, s.withCORS)

	r.Get("/health", s.handleHealth)

	sessionOpts := middleware.SessionOptions{
		Tokens:   s.jwtService.AsTokenService(),
		Sessions: s.sessions,
		InitialUI: func(req *http.Request) types.UiState {
			ui := defaults
			if accept := req.Header.Get("Accept-Language"); accept != "" {
				ui.Language = i18n.Negotiate(accept)
			}
			return ui
		},
		MaxAge: cfg.Session.TTL,
		Secure: cfg.SecureCookies,
	}

	// The preview stream is exempt from rate limiting, so it only attaches
	// to sessions that a limited route already started.
	r.Group(func(r chi.Router) {
		streamOpts := sessionOpts
		streamOpts.RequireExisting = true
		r.Use(middleware.SessionMiddleware(streamOpts))
		r.Get("/events", s.handleEvents)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionOpts))

		// Editor
		r.Get("/", s.handleEditor)
		r.Get("/preview", s.handlePreview)

		// Form posts
		r.Post("/fields/{field}", s.handleSetField)
		for name := range collections {
			r.Post("/"+name, s.handleAdd(name))
			r.Post("/"+name+"/{index}", s.handleUpdate(name))
			r.Post("/"+name+"/{index}/remove", s.handleRemove(name))
		}
		r.Post("/photo", s.handleUploadPhoto)
		r.Post("/photo/remove", s.handleRemovePhoto)
		r.Post("/ui/theme", s.handleSetTheme)
		r.Post("/ui/language", s.handleSetLanguage)
		r.Post("/ui/dark-mode", s.handleSetDarkMode)

		// Export
		r.Get("/export/"+export.Filename, s.handleExport)

		// JSON API
		r.Get("/api/document", s.handleGetDocument)
		r.Put("/api/document", s.handlePutDocument)
		r.Post("/api/commands", s.handleCommand)
		r.Get("/api/themes", s.handleThemes)
	})
	s.router = r

	s.httpServer = &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     r,
		ReadTimeout: 30 * time.Second,
		// Exports may take up to the export timeout; SSE handlers clear
		// their own deadline.
		WriteTimeout: exportWriteTimeout(cfg.Export),
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return baseCtx },
	}

	return s, nil
}

func exportWriteTimeout(opts export.Options) time.Duration {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = export.DefaultTimeout
	}
	// one retry plus headroom for rendering and the response body
	return 2*timeout + 30*time.Second
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Sessions returns the session manager.
func (s *Server) Sessions() *session.Manager {
	return s.sessions
}

// Start serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server...")

		// End open preview streams so Shutdown does not wait on them.
		s.cancelBase()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		err := s.httpServer.Shutdown(shutdownCtx)
		s.Close()
		if err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		log.Println("Server stopped")
		return nil
	})

	return g.Wait()
}

// Close stops background work: the rate limiter and session cleanup.
func (s *Server) Close() {
	s.cancelBase()
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	s.sessions.Stop()
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)

		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
