package repository

import (
	"context"
	"time"

	"github.com/studorg/marketplace/internal/domain/model"
)

// OrderRepository describes persistence operations with active orders.
// Create and Transition each run as one storage transaction: stock
// reservation, snapshotting and insert for Create; state-machine
// validation, representative claim and balance credit for Transition.
type OrderRepository interface {
	Create(ctx context.Context, input model.NewOrder) (*model.Order, error)
	Transition(ctx context.Context, orderID int64, next model.OrderStatus, actor int64) (*model.Order, error)
	GetByID(ctx context.Context, orderID int64) (*model.Order, error)
	ListByBuyer(ctx context.Context, buyerID int64, page model.Page) ([]model.Order, error)
	ListAll(ctx context.Context, page model.Page) ([]model.Order, error)
	ListByAssignedRep(ctx context.Context, repID int64, page model.Page) ([]model.Order, error)
	Stats(ctx context.Context) (*model.OrderStats, error)
	SelectArchivable(ctx context.Context, cutoff time.Time, limit int) ([]int64, error)
}
