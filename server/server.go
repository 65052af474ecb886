package server

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"auto_blog_publisher/blog"
	"auto_blog_publisher/config"
	"auto_blog_publisher/logger"
	"auto_blog_publisher/metrics"
)

//go:embed web/dist
var embeddedStatic embed.FS

const (
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second
	// Generation plus an immediate publish can take minutes.
	writeTimeout    = 3 * time.Minute
	idleTimeout     = 120 * time.Second
	shutdownTimeout = 15 * time.Second
	healthTimeout   = 5 * time.Second
)

type Server struct {
	svc      *blog.Service
	cfg      config.Config
	log      logger.Logger
	metrics  *metrics.Metrics
	static   fs.FS
	staticFS http.Handler
}

func New(svc *blog.Service, cfg config.Config, log logger.Logger, m *metrics.Metrics) (*Server, error) {
	if svc == nil {
		return nil, errors.New("blog service required")
	}
	if log == nil {
		log = logger.NewNop()
	}
	if m == nil {
		m = metrics.New()
	}

	sub, err := fs.Sub(embeddedStatic, "web/dist")
	if err != nil {
		return nil, err
	}

	return &Server{
		svc:      svc,
		cfg:      cfg,
		log:      log,
		metrics:  m,
		static:   sub,
		staticFS: http.FileServer(http.FS(sub)),
	}, nil
}

// Routes builds the full handler: gin routes wrapped in CORS.
func (s *Server) Routes() http.Handler {
	if !s.cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(requestIDMiddleware(), loggerMiddleware(s.log), recoveryMiddleware(s.log))

	r.GET("/health", s.handleHealth)
	r.GET("/health/detailed", s.handleHealthDetailed)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	b := r.Group("/blog")
	b.POST("/generate", s.handleGenerate)
	b.POST("/publish", s.handlePublish)
	b.POST("/generate-and-publish", s.handleGenerateAndPublish)
	b.GET("/publication-info", s.handlePublicationInfo)
	b.POST("/preview", s.handlePreview)

	r.NoRoute(s.staticHandler)

	return corsHandler(s.cfg.CORSOrigins).Handler(r)
}

// staticHandler serves the embedded frontend for every non-API path.
func (s *Server) staticHandler(c *gin.Context) {
	upath := c.Request.URL.Path
	if strings.HasPrefix(upath, "/blog/") || strings.HasPrefix(upath, "/health") {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "not found"})
		return
	}
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.Status(http.StatusMethodNotAllowed)
		return
	}
	// unknown paths fall back to index.html
	if _, err := fs.Stat(s.static, strings.TrimPrefix(path.Clean(upath), "/")); err != nil {
		c.Request.URL.Path = "/"
	}
	s.staticFS.ServeHTTP(c.Writer, c.Request)
}

func corsHandler(origins []string) *cors.Cors {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowAll := false
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: !allowAll,
		MaxAge:           86400,
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.Routes(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Starting web server", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("Shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
