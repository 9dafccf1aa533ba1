// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"university_portal_backend/internal/academics"
	"university_portal_backend/internal/account"
	"university_portal_backend/internal/common"
	"university_portal_backend/internal/config"
	"university_portal_backend/internal/contact"
	"university_portal_backend/internal/jobs"
	"university_portal_backend/internal/media"
	"university_portal_backend/internal/middleware"
	"university_portal_backend/internal/navigation"
	"university_portal_backend/internal/notification"
	"university_portal_backend/internal/search"
	"university_portal_backend/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger
	sessions   *session.Store

	// Jobs
	sessionSweepJob *jobs.SessionSweepJob
}

// Handlers groups the HTTP handlers mounted under /api/v1.
type Handlers struct {
	Search       *search.Handler
	Notification *notification.Handler
	Contact      *contact.Handler
	Academics    *academics.Handler
	Account      *account.Handler
	Media        *media.Handler
	Navigation   *navigation.Handler
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	sessions *session.Store,
	handlers Handlers,
	sessionSweepJob *jobs.SessionSweepJob,
) (*Server, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	// CORS Middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader, common.SessionIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader, common.SessionIDHeader}
	router.Use(cors.New(corsConfig))

	sessionMW := middleware.SessionMiddleware(sessions, cfg, logger.Named("SessionMiddleware"))

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "University Portal API is healthy!", "sessions": sessions.Len()})
	})
	router.Static("/static", cfg.MediaRoot)

	v1 := router.Group("/api/v1")

	if handlers.Search != nil {
		handlers.Search.RegisterRoutes(v1, sessionMW)
	}
	if handlers.Notification != nil {
		handlers.Notification.RegisterRoutes(v1, sessionMW)
	}
	if handlers.Contact != nil {
		handlers.Contact.RegisterRoutes(v1, sessionMW)
	}
	if handlers.Account != nil {
		handlers.Account.RegisterRoutes(v1, sessionMW)
	}
	if handlers.Academics != nil {
		handlers.Academics.RegisterRoutes(v1)
	}
	if handlers.Media != nil {
		handlers.Media.RegisterRoutes(v1)
	}
	if handlers.Navigation != nil {
		handlers.Navigation.RegisterRoutes(v1)
	}

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:        addr,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: the badge stream is a long-lived websocket.
		IdleTimeout: 120 * time.Second,
	}

	return &Server{
		httpServer:      httpServer,
		router:          router,
		cfg:             cfg,
		logger:          logger,
		sessions:        sessions,
		sessionSweepJob: sessionSweepJob,
	}, nil
}

// Router exposes the configured engine, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	if s.sessionSweepJob != nil {
		if err := s.sessionSweepJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start session sweep job", zap.Error(err))
		}
	} else {
		s.logger.Info("Session sweep job is not configured, skipping start.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped gracefully or an error occurred")
	return nil
}

// Shutdown stops accepting requests, then closes every live session so pending
// contact submissions and badge streams end.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.sessionSweepJob != nil {
		s.sessionSweepJob.Stop()
	}
	err := s.httpServer.Shutdown(ctx)
	s.sessions.Close()
	return err
}
