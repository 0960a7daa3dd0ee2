package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/studorg/marketplace/internal/app"
	"github.com/studorg/marketplace/internal/config"
	pkgAuth "github.com/studorg/marketplace/internal/pkg/auth"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Provide(newRouter)

type routerParams struct {
	fx.In

	Facade   *app.MarketFacade
	Strategy pkgAuth.Strategy
	Hasher   pkgAuth.PasswordHasher
	Config   *config.Config
	Logger   *slog.Logger
}

func newRouter(p routerParams) *gin.Engine {
	return Setup(p.Facade, p.Strategy, p.Hasher, p.Config.AdminKeyHash, p.Logger)
}
