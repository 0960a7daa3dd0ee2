package di

import (
	"go.uber.org/fx"

	"github.com/studorg/marketplace/internal/app"
	"github.com/studorg/marketplace/internal/config"
	"github.com/studorg/marketplace/internal/logger"
	"github.com/studorg/marketplace/internal/outbox"
	"github.com/studorg/marketplace/internal/pkg/auth"
	"github.com/studorg/marketplace/internal/server/http/router"
	"github.com/studorg/marketplace/internal/storage/postgres"
	"github.com/studorg/marketplace/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		outbox.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
