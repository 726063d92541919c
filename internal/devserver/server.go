// Package devserver is an in-memory stand-in for the nemukerja backend. It
// serves the same JSON endpoints the client consumes, so the TUI can be
// run and tested without the real web application.
package devserver

import (
	"context"
	"net/http"
	"net/url"
	gosync "sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nemukerja/nemukerja-tui/internal/api"
)

// Server holds the in-memory state and the HTTP router.
type Server struct {
	router *gin.Engine
	log    zerolog.Logger
	now    func() time.Time

	mu            gosync.Mutex
	sessions      map[string]int64
	users         map[int64]*user
	jobs          map[int64]*job
	applications  map[int64]*application
	notifications []*notification
	nextID        int64
	delays        map[string]time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithClock replaces time.Now for notification timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New creates an empty server.
func New(opts ...Option) *Server {
	s := &Server{
		log:          zerolog.Nop(),
		now:          time.Now,
		sessions:     make(map[string]int64),
		users:        make(map[int64]*user),
		jobs:         make(map[int64]*job),
		applications: make(map[int64]*application),
		delays:       make(map[string]time.Duration),
	}
	for _, opt := range opts {
		opt(s)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())
	router.Use(s.delay())
	s.router = router
	s.setupRoutes()

	return s
}

// Handler exposes the router, e.g. for httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// SetDelay makes every request to the route pattern (e.g.
// "/notifications/read/:id") wait d before it is handled.
func (s *Server) SetDelay(route string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays[route] = d
}

// setupRoutes registers the endpoints.
func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "nemukerja-devserver"})
	})

	// Public job detail, as on the real site.
	s.router.GET("/job/:id", s.handleJobDetail())
	s.router.GET("/login", func(c *gin.Context) {
		c.String(http.StatusOK, "login page")
	})

	authed := s.router.Group("/")
	authed.Use(s.requireLogin())
	{
		authed.GET("/notifications", s.handleListNotifications())
		authed.POST("/notifications/read/:id", s.handleMarkRead())
		authed.POST("/notifications/read-all", s.handleMarkAllRead())
		authed.POST("/notifications/clear-all", s.handleClearAll())
		authed.GET("/api/get_job_id/:id", s.handleJobForApplication())
		authed.POST("/apply/:id", s.handleApply())

		dev := authed.Group("/dev")
		dev.POST("/jobs", s.handlePostJob())
		dev.DELETE("/jobs/:id", s.handleDeleteJob())
		dev.POST("/applications/:id/status", s.handleApplicationStatus())
	}
}

// requireLogin resolves the session cookie and redirects to /login like
// Flask-Login does when it is missing or unknown.
func (s *Server) requireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(api.SessionCookie)
		if err == nil {
			s.mu.Lock()
			uid, ok := s.sessions[cookie]
			s.mu.Unlock()
			if ok {
				c.Set("user_id", uid)
				c.Next()
				return
			}
		}
		c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.Path))
		c.Abort()
	}
}

// requestLogger logs each request with its X-Request-ID.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		s.log.Info().
			Str("request_id", c.GetHeader("X-Request-ID")).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(started)).
			Msg("request")
	}
}

// delay applies SetDelay for the matched route.
func (s *Server) delay() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		d := s.delays[c.FullPath()]
		s.mu.Unlock()

		if d > 0 {
			select {
			case <-time.After(d):
			case <-c.Request.Context().Done():
				c.AbortWithStatus(http.StatusServiceUnavailable)
				return
			}
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) int64 {
	return c.GetInt64("user_id")
}
