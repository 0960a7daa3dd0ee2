package postgres

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/studorg/marketplace/internal/config"
	"github.com/studorg/marketplace/internal/domain/repository"
	"github.com/studorg/marketplace/internal/outbox"
)

// Module wires PostgreSQL storage and repository adapters.
var Module = fx.Options(
	fx.Provide(newStorage),
	fx.Provide(
		func(s *Storage) repository.OrderRepository { return s.Orders() },
		func(s *Storage) repository.ArchiveRepository { return s.Archive() },
		func(s *Storage) repository.StockLedger { return s.Stock() },
		func(s *Storage) repository.BalanceLedger { return s.Balances() },
		func(s *Storage) repository.ProductCatalog { return s.Catalog() },
		func(s *Storage) outbox.Repository { return s.Outbox() },
	),
	fx.Invoke(registerLifecycle),
)

type storageParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStorage(p storageParams) (*Storage, error) {
	return New(p.Ctx, p.Config.DatabaseURI, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, storage *Storage) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			storage.Close()
			return nil
		},
	})
}
