package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/studorg/marketplace/internal/config"
	"github.com/studorg/marketplace/internal/outbox"
	"github.com/studorg/marketplace/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewMarketFacade,
		newHTTPServer,
		newArchiveSweeper,
		newOutboxDispatcher,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type sweeperParams struct {
	fx.In

	Facade *MarketFacade
	Config *config.Config
	Logger *slog.Logger
}

func newArchiveSweeper(p sweeperParams) *worker.ArchiveSweeper {
	return worker.NewArchiveSweeper(
		p.Facade,
		p.Config.SweepInterval,
		p.Config.RetentionWindow,
		p.Config.SweepBatchSize,
		p.Config.SweepWorkers,
		p.Logger,
	)
}

type dispatcherParams struct {
	fx.In

	Repo      outbox.Repository
	Publisher outbox.Publisher
	Config    *config.Config
	Logger    *slog.Logger
}

func newOutboxDispatcher(p dispatcherParams) *worker.OutboxDispatcher {
	return worker.NewOutboxDispatcher(
		p.Repo,
		p.Publisher,
		p.Config.OutboxPollInterval,
		p.Config.OutboxBatchSize,
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Sweeper    *worker.ArchiveSweeper
	Dispatcher *worker.OutboxDispatcher
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting marketplace", slog.String("addr", p.Server.Addr))
			p.Sweeper.Start(ctx)
			p.Dispatcher.Start(ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Sweeper.Stop()
			p.Dispatcher.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("marketplace stopped")
			return nil
		},
	})
}
