package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"codeberg.org/snonux/transcheck/internal/processor"
	"codeberg.org/snonux/transcheck/internal/review"
)

// Server serves the JSON API
type Server struct {
	processor *processor.Processor
	engine    *review.Engine
	router    *gin.Engine
	// languages defaults the target set of POST /api/translate
	languages []string
}

// New creates the API server. processor may be nil, in which case
// translation requests are answered with 503.
func New(proc *processor.Processor, engine *review.Engine, defaultLanguages []string) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		processor: proc,
		engine:    engine,
		router:    gin.New(),
		languages: defaultLanguages,
	}
	s.router.Use(requestLogger(), gin.Recovery())
	s.defineRoutes()
	return s
}

// Handler returns the http.Handler serving all routes
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) defineRoutes() {
	api := s.router.Group("/api")
	api.GET("/languages", s.handleLanguages)
	api.GET("/stats", s.handleStats)
	api.POST("/translate", s.handleTranslate)
	api.GET("/translations", s.handleList)
	api.DELETE("/translations/:ts", s.handleDelete)
	api.PUT("/translations/:ts/:lang/status", s.handleStatus)
	api.PUT("/translations/:ts/:lang/text", s.handleText)
	api.POST("/translations/:ts/:lang/comment", s.handleComment)
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Serving API")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Msg("Shutting down API server")
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := log.Debug()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request")
	}
}
