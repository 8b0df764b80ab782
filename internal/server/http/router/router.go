package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/posledger/internal/config"
	"github.com/polkiloo/posledger/internal/server/http/handlers"
	"github.com/polkiloo/posledger/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.SalesFacade, health handlers.HealthChecker, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.AssignRequestID())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.Timeout(cfg.RequestTimeout))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	orderHandler := handlers.NewOrderHandler(facade, logger)
	dashboardHandler := handlers.NewDashboardHandler(facade, logger)
	healthHandler := handlers.NewHealthHandler(health, logger)

	engine.GET("/healthz", healthHandler.Check)

	registerOrders(engine.Group("/orders"), orderHandler)
	engine.GET("/dashboard", dashboardHandler.Stats)

	// Tills in the field still call the legacy /api paths.
	api := engine.Group("/api")
	registerOrders(api.Group("/order"), orderHandler)
	api.GET("/dashboard", dashboardHandler.Stats)

	return engine
}

func registerOrders(g *gin.RouterGroup, h *handlers.OrderHandler) {
	g.POST("", h.Create)
	g.GET("", h.List)
	g.DELETE("", h.DeleteAll)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.UpdateStatus)
	g.DELETE("/:id", h.Delete)
}
