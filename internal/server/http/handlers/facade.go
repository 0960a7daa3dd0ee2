package handlers

import (
	"context"

	"github.com/studorg/marketplace/internal/domain/model"
)

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, input model.NewOrder) (*model.Order, error)
	TransitionOrder(ctx context.Context, orderID int64, next model.OrderStatus, actor int64) (*model.Order, error)
	Orders(ctx context.Context, buyerID int64, page model.Page) ([]model.Order, error)
	AssignedOrders(ctx context.Context, repID int64, page model.Page) ([]model.Order, error)
}

// AdminFacade provides administrative views over active and archived orders.
type AdminFacade interface {
	AllOrders(ctx context.Context, page model.Page) ([]model.Order, error)
	Stats(ctx context.Context) (*model.OrderStats, error)
	ArchivedOrders(ctx context.Context, page model.Page) ([]model.ArchivedOrder, error)
}

// MarketFacade aggregates the full set of operations used across handlers.
type MarketFacade interface {
	OrderFacade
	AdminFacade
}
