package test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/studorg/marketplace/internal/domain/model"
)

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	CreateFn     func(context.Context, model.NewOrder) (*model.Order, error)
	TransitionFn func(context.Context, int64, model.OrderStatus, int64) (*model.Order, error)
	OrdersFn     func(context.Context, int64, model.Page) ([]model.Order, error)
	AssignedFn   func(context.Context, int64, model.Page) ([]model.Order, error)
}

// CreateOrder delegates to provided function or returns a default order.
func (s OrderFacadeStub) CreateOrder(ctx context.Context, input model.NewOrder) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, input)
	}
	return &model.Order{
		ID:           1,
		BuyerID:      input.BuyerID,
		ProductName:  input.ProductName,
		ProductPrice: input.ProductPrice,
		Quantity:     input.Quantity,
		Status:       model.OrderStatusPending,
		PaymentType:  input.PaymentType,
		CreatedAt:    time.Unix(0, 0),
	}, nil
}

// TransitionOrder delegates to provided function or echoes the new status.
func (s OrderFacadeStub) TransitionOrder(ctx context.Context, orderID int64, next model.OrderStatus, actor int64) (*model.Order, error) {
	if s.TransitionFn != nil {
		return s.TransitionFn(ctx, orderID, next, actor)
	}
	rep := actor
	return &model.Order{ID: orderID, Status: next, AssignedRep: &rep, ProductPrice: decimal.New(10, 0), Quantity: 1}, nil
}

// Orders returns predefined orders for given buyer.
func (s OrderFacadeStub) Orders(ctx context.Context, buyerID int64, page model.Page) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, buyerID, page)
	}
	return []model.Order{{ID: 1, BuyerID: buyerID, Status: model.OrderStatusPending}}, nil
}

// AssignedOrders returns predefined orders for given representative.
func (s OrderFacadeStub) AssignedOrders(ctx context.Context, repID int64, page model.Page) ([]model.Order, error) {
	if s.AssignedFn != nil {
		return s.AssignedFn(ctx, repID, page)
	}
	rep := repID
	return []model.Order{{ID: 1, AssignedRep: &rep, Status: model.OrderStatusPaid}}, nil
}

// AdminFacadeStub simulates administrative views.
type AdminFacadeStub struct {
	AllOrdersFn func(context.Context, model.Page) ([]model.Order, error)
	StatsFn     func(context.Context) (*model.OrderStats, error)
	ArchivedFn  func(context.Context, model.Page) ([]model.ArchivedOrder, error)
}

// AllOrders returns the configured listing.
func (s AdminFacadeStub) AllOrders(ctx context.Context, page model.Page) ([]model.Order, error) {
	if s.AllOrdersFn != nil {
		return s.AllOrdersFn(ctx, page)
	}
	return []model.Order{{ID: 1, Status: model.OrderStatusPending}}, nil
}

// Stats returns the configured aggregate.
func (s AdminFacadeStub) Stats(ctx context.Context) (*model.OrderStats, error) {
	if s.StatsFn != nil {
		return s.StatsFn(ctx)
	}
	return &model.OrderStats{DeliveredCount: 2, DeliveredQuantity: 5, DeliveredRevenue: decimal.New(50, 0)}, nil
}

// ArchivedOrders returns the configured archive listing.
func (s AdminFacadeStub) ArchivedOrders(ctx context.Context, page model.Page) ([]model.ArchivedOrder, error) {
	if s.ArchivedFn != nil {
		return s.ArchivedFn(ctx, page)
	}
	return []model.ArchivedOrder{{ID: 1, Status: model.OrderStatusDelivered}}, nil
}

// MarketFacadeStub aggregates order and admin stubs for router tests.
type MarketFacadeStub struct {
	OrderFacadeStub
	AdminFacadeStub
}

// ArchiveCall records an ArchiveOrder invocation.
type ArchiveCall struct {
	OrderID int64
}

// SweeperFacadeStub mimics sweeper interactions with the market facade.
type SweeperFacadeStub struct {
	Batches       [][]int64
	ArchivableFn  func(context.Context, time.Time, int) ([]int64, error)
	ArchiveFn     func(context.Context, int64) error
	Calls         []ArchiveCall
	mu            sync.Mutex
	batchesServed int
}

// Lock exposes internal mutex for external synchronization.
func (s *SweeperFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *SweeperFacadeStub) Unlock() { s.mu.Unlock() }

// ArchivableOrders returns batches from the configured queue.
func (s *SweeperFacadeStub) ArchivableOrders(ctx context.Context, cutoff time.Time, limit int) ([]int64, error) {
	if s.ArchivableFn != nil {
		return s.ArchivableFn(ctx, cutoff, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.batchesServed < len(s.Batches) {
		batch := s.Batches[s.batchesServed]
		s.batchesServed++
		return batch, nil
	}
	return nil, nil
}

// ArchiveOrder records archive requests.
func (s *SweeperFacadeStub) ArchiveOrder(ctx context.Context, orderID int64) error {
	if s.ArchiveFn != nil {
		return s.ArchiveFn(ctx, orderID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, ArchiveCall{OrderID: orderID})
	return nil
}
