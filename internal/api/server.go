// Package api exposes the session core to panel clients over HTTP.
//
// The session process is the single authoritative owner of all session
// state; panel clients (the launcher) are stateless consumers of these
// read and trigger operations.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/blue-environment/blued/internal/api/middleware"
	"github.com/blue-environment/blued/internal/config"
	"github.com/blue-environment/blued/internal/logging"
	"github.com/blue-environment/blued/internal/monitoring"
	"github.com/blue-environment/blued/internal/session"
	"github.com/blue-environment/blued/internal/ws"
)

// Server wraps the HTTP server for the session API.
type Server struct {
	router *gin.Engine
	http   *http.Server
	log    *logging.Logger
}

// NewServer builds the session API over the given session.
func NewServer(s *session.Session, metrics *monitoring.Metrics, env *config.Env, log *logging.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if env.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: env.RateLimit.RequestsPerSecond,
			Burst:             env.RateLimit.Burst,
		}))
	}
	router.Use(monitoring.Middleware(metrics))

	handlers := NewHandlers(s)
	wsHandler := ws.NewHandler(s.Notifications(), log)

	router.GET("/health", handlers.Health)
	router.GET("/state", handlers.State)

	router.GET("/apps", handlers.ListApps)
	router.POST("/apps/:name/launch", handlers.LaunchApp)

	router.GET("/windows", handlers.ListWindows)
	router.POST("/desktop/show", handlers.ShowDesktop)

	router.POST("/settings/brightness", handlers.AdjustBrightness)
	router.POST("/settings/volume", handlers.AdjustVolume)
	router.POST("/settings/wifi/toggle", handlers.ToggleWifi)
	router.POST("/settings/bluetooth/toggle", handlers.ToggleBluetooth)
	router.POST("/settings/timezone", handlers.SetTimezone)

	router.GET("/clipboard", handlers.Clipboard)
	router.POST("/packages/open", handlers.OpenPackageManager)

	router.GET("/notifications", handlers.ListNotifications)
	router.DELETE("/notifications", handlers.ClearNotifications)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/stream", wsHandler.HandleConnection)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:    env.Server.Listen,
			Handler: router,
		},
		log: log,
	}
}

// Router exposes the gin engine. Used by tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves the API until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	s.log.Info("session API listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
