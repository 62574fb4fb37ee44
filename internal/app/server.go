// File: internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"bridgex_waitlist/internal/admin"
	"bridgex_waitlist/internal/auth"
	"bridgex_waitlist/internal/common"
	"bridgex_waitlist/internal/config"
	"bridgex_waitlist/internal/contact"
	"bridgex_waitlist/internal/jobs"
	"bridgex_waitlist/internal/middleware"
	"bridgex_waitlist/internal/platform/database"
	"bridgex_waitlist/internal/shared"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer   *http.Server
	router       *gin.Engine
	cfg          *config.Config
	logger       *zap.Logger
	db           *gorm.DB
	adminService admin.Service
	digestJob    *jobs.WaitlistDigestJob
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	adminService admin.Service,
	adminHandler *admin.Handler,
	contactHandler *contact.Handler,
	digestJob *jobs.WaitlistDigestJob,
	tokens shared.TokenService,
	blocklist auth.TokenBlocklistService,
	signupLimiter *middleware.IPRateLimiter,
) (*Server, error) {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))

	authMW := middleware.AuthMiddleware(tokens, blocklist, logger.Named("AuthMiddleware"))
	adminRoleMW := middleware.RoleAuthMiddleware(common.RoleAdmin)
	signupMW := middleware.RateLimit(signupLimiter, logger.Named("RateLimit"))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "BridgeX waitlist API is healthy!"})
	})

	api := router.Group(cfg.APIBasePath)
	adminHandler.RegisterRoutes(api, authMW)
	contactHandler.RegisterRoutes(api, authMW, adminRoleMW, signupMW)

	timeout := cfg.ServerTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:   httpServer,
		router:       router,
		cfg:          cfg,
		logger:       logger,
		db:           db,
		adminService: adminService,
		digestJob:    digestJob,
	}, nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	c.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader, "Retry-After"}

	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

// Router exposes the HTTP handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Bootstrap migrates the schema and seeds the configured admin account.
func (s *Server) Bootstrap(ctx context.Context) error {
	if err := database.AutoMigrate(s.db, &admin.Admin{}, &contact.Contact{}); err != nil {
		return err
	}
	if err := contact.EnsureUniqueIndexes(ctx, s.db); err != nil {
		return err
	}
	if err := admin.SeedFromConfig(ctx, s.adminService, s.cfg, s.logger); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	s.logger.Info("Database schema is up to date.")
	return nil
}

func (s *Server) Start() error {
	if s.digestJob != nil {
		if err := s.digestJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start waitlist digest job", zap.Error(err))
		}
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
		zap.String("base_path", s.cfg.APIBasePath),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.digestJob != nil {
		s.digestJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
