package app

import (
	"context"
	"time"

	"github.com/studorg/marketplace/internal/domain/model"
	"github.com/studorg/marketplace/internal/usecase"
)

// MarketFacade aggregates the order lifecycle operations exposed to the
// HTTP layer and the background workers.
type MarketFacade struct {
	orders  *usecase.OrderUseCase
	archive *usecase.ArchiveUseCase
}

// NewMarketFacade constructs MarketFacade.
func NewMarketFacade(orders *usecase.OrderUseCase, archive *usecase.ArchiveUseCase) *MarketFacade {
	return &MarketFacade{orders: orders, archive: archive}
}

func (f *MarketFacade) CreateOrder(ctx context.Context, input model.NewOrder) (*model.Order, error) {
	return f.orders.Create(ctx, input)
}

func (f *MarketFacade) TransitionOrder(ctx context.Context, orderID int64, next model.OrderStatus, actor int64) (*model.Order, error) {
	return f.orders.Transition(ctx, orderID, next, actor)
}

func (f *MarketFacade) Orders(ctx context.Context, buyerID int64, page model.Page) ([]model.Order, error) {
	return f.orders.ListByBuyer(ctx, buyerID, page)
}

func (f *MarketFacade) AllOrders(ctx context.Context, page model.Page) ([]model.Order, error) {
	return f.orders.ListAll(ctx, page)
}

func (f *MarketFacade) AssignedOrders(ctx context.Context, repID int64, page model.Page) ([]model.Order, error) {
	return f.orders.ListAssigned(ctx, repID, page)
}

func (f *MarketFacade) Stats(ctx context.Context) (*model.OrderStats, error) {
	return f.orders.Stats(ctx)
}

func (f *MarketFacade) ArchivedOrders(ctx context.Context, page model.Page) ([]model.ArchivedOrder, error) {
	return f.archive.ListArchived(ctx, page)
}

func (f *MarketFacade) ArchivableOrders(ctx context.Context, cutoff time.Time, limit int) ([]int64, error) {
	return f.archive.SelectArchivable(ctx, cutoff, limit)
}

func (f *MarketFacade) ArchiveOrder(ctx context.Context, orderID int64) error {
	return f.archive.Archive(ctx, orderID)
}
