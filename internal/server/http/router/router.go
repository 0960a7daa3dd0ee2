package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	pkgAuth "github.com/studorg/marketplace/internal/pkg/auth"
	"github.com/studorg/marketplace/internal/server/http/handlers"
	"github.com/studorg/marketplace/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.MarketFacade, strategy pkgAuth.Strategy, hasher pkgAuth.PasswordHasher, adminKeyHash string, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	orderHandler := handlers.NewOrderHandler(facade)
	adminHandler := handlers.NewAdminHandler(facade)

	api := engine.Group("/api")
	orders := api.Group("/orders")

	admin := orders.Group("")
	admin.Use(middleware.AdminRequired(hasher, adminKeyHash))
	admin.GET("/admin", adminHandler.ListAll)
	admin.GET("/stats", adminHandler.Stats)
	admin.GET("/archived", adminHandler.Archived)

	user := orders.Group("")
	user.Use(middleware.AuthRequired(strategy))
	user.POST("", orderHandler.Create)
	user.GET("", orderHandler.List)
	user.GET("/assigned", orderHandler.Assigned)
	user.PATCH("/:id/status", orderHandler.UpdateStatus)

	return engine
}
