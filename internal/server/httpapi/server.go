// Package httpapi exposes the authentication core over HTTP REST. Routing
// and JSON binding use gin; protected routes are gated by the Authenticate
// middleware.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dormdeals/dormdeals/internal/logging"
	"github.com/dormdeals/dormdeals/internal/server/auth"
	"github.com/dormdeals/dormdeals/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type HTTPServer struct {
	address string
	logger  logging.Logger
	users   *services.UserService
	tokens  *auth.Manager
}

func NewHTTPServer(address string, logger logging.Logger, users *services.UserService, tokens *auth.Manager) *HTTPServer {
	return &HTTPServer{
		address: address,
		logger:  logger.With("module", "http_server"),
		users:   users,
		tokens:  tokens,
	}
}

// Router builds the gin engine with all routes registered. Exposed separately
// from Run so tests can drive the full stack through httptest.
func (s *HTTPServer) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	api := router.Group("/api")
	{
		api.GET("/health", s.health)
		api.GET("/universities", s.listUniversities)
		api.POST("/register", s.register)
		api.POST("/login", s.login)
		api.POST("/refresh-token", s.refreshToken)

		protected := api.Group("", Authenticate(s.tokens))
		{
			protected.GET("/verify-token", s.verifyToken)
			protected.POST("/logout", s.logout)
		}
	}

	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// requestLogger tags every request with an ID and logs its outcome.
func (s *HTTPServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Header("X-Request-Id", requestID)

		c.Next()

		s.logger.Info(c.Request.Context(), "request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
