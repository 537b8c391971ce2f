// Package api serves engine queries over HTTP/JSON.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/litescript/ls-almanac/internal/engine"
	"github.com/litescript/ls-almanac/internal/logging"
)

// Server wraps the router and its engine.
type Server struct {
	router *Router
}

// NewServer builds a server over e. gatherer serves /metrics; nil selects
// the default Prometheus gatherer.
func NewServer(e *engine.Engine, log *logging.Logger, gatherer prometheus.Gatherer) *Server {
	if log == nil {
		log = logging.Discard()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Server{router: NewRouter(e, log, gatherer)}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router.routes
}

// Run listens on addr until ctx is cancelled or the server fails.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	defer s.router.panicLog.Close()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Router holds the gin engine and the almanac engine it serves.
type Router struct {
	routes   *gin.Engine
	engine   *engine.Engine
	log      *logging.Logger
	panicLog *io.PipeWriter
}

// NewRouter registers every route.
func NewRouter(e *engine.Engine, log *logging.Logger, gatherer prometheus.Gatherer) *Router {
	gin.SetMode(gin.ReleaseMode)

	log = log.With("component", "api")
	r := &Router{
		routes:   gin.New(),
		engine:   e,
		log:      log,
		panicLog: log.Writer(),
	}
	r.routes.Use(gin.RecoveryWithWriter(r.panicLog), requestID(), requestLogger(log))

	r.routes.GET("/healthz", r.Health)
	r.routes.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	v1 := r.routes.Group("/api/v1")
	RegisterObserverRoutes(r, v1)
	RegisterStarRoutes(r, v1)
	RegisterBodyRoutes(r, v1)

	return r
}

const requestIDHeader = "X-Request-ID"

// requestID echoes the caller's request id or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// requestLogger logs one line per request at debug level, errors at warn.
func requestLogger(log *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		id := c.GetString(requestIDHeader)
		status := c.Writer.Status()
		if status >= http.StatusInternalServerError {
			log.Warn("[%s] %s %s -> %d (%v)", id, c.Request.Method, c.Request.URL.Path, status, time.Since(start))
			return
		}
		log.Debug("[%s] %s %s -> %d (%v)", id, c.Request.Method, c.Request.URL.Path, status, time.Since(start))
	}
}

// Health reports liveness and catalog counts.
func (r *Router) Health(c *gin.Context) {
	total, nav := r.engine.Counts()
	_, hasObserver := r.engine.Observer()
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"stars":        total,
		"navigational": nav,
		"observer":     hasObserver,
	})
}
