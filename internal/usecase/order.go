package usecase

import (
	"context"
	"fmt"
	"log/slog"

	domainErrors "github.com/studorg/marketplace/internal/domain/errors"
	"github.com/studorg/marketplace/internal/domain/model"
	"github.com/studorg/marketplace/internal/domain/repository"
)

// OrderUseCase encapsulates the order lifecycle engine.
type OrderUseCase struct {
	orders repository.OrderRepository
	stock  repository.StockLedger
	logger *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, stock repository.StockLedger, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{orders: orders, stock: stock, logger: logger}
}

// Create validates creation input and reserves stock atomically through
// the repository. After a successful reservation the depleted listing, if
// any, is purged best-effort; its failure never fails the order.
func (u *OrderUseCase) Create(ctx context.Context, input model.NewOrder) (*model.Order, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	order, err := u.orders.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	if input.ProductID != nil {
		if err := u.stock.PurgeIfDepleted(ctx, *input.ProductID); err != nil {
			u.logger.Warn("purge depleted listing failed",
				slog.Int64("product_id", *input.ProductID),
				slog.String("error", err.Error()),
			)
		}
	}

	return order, nil
}

// Transition moves the order into the requested status on behalf of actor.
func (u *OrderUseCase) Transition(ctx context.Context, orderID int64, next model.OrderStatus, actor int64) (*model.Order, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domainErrors.ErrValidation, next)
	}
	return u.orders.Transition(ctx, orderID, next, actor)
}

// GetByID returns a single active order.
func (u *OrderUseCase) GetByID(ctx context.Context, orderID int64) (*model.Order, error) {
	return u.orders.GetByID(ctx, orderID)
}

// ListByBuyer returns the buyer's orders, newest first.
func (u *OrderUseCase) ListByBuyer(ctx context.Context, buyerID int64, page model.Page) ([]model.Order, error) {
	return u.orders.ListByBuyer(ctx, buyerID, page)
}

// ListAll returns all active orders for administrative review.
func (u *OrderUseCase) ListAll(ctx context.Context, page model.Page) ([]model.Order, error) {
	return u.orders.ListAll(ctx, page)
}

// ListAssigned returns orders claimed by the representative.
func (u *OrderUseCase) ListAssigned(ctx context.Context, repID int64, page model.Page) ([]model.Order, error) {
	return u.orders.ListByAssignedRep(ctx, repID, page)
}

// Stats aggregates delivered orders.
func (u *OrderUseCase) Stats(ctx context.Context) (*model.OrderStats, error) {
	return u.orders.Stats(ctx)
}
