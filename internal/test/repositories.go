package test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/studorg/marketplace/internal/domain/errors"
	"github.com/studorg/marketplace/internal/domain/model"
)

// InMemoryStore implements the order repository, archive repository, and
// the stock/balance ledgers with a single mutex, mirroring the atomicity
// the storage layer gets from transactions. Used across use case, handler,
// and concurrency tests.
type InMemoryStore struct {
	mu       sync.Mutex
	Products map[int64]*model.Product
	Orders   map[int64]*model.Order
	Archived map[int64]*model.ArchivedOrder
	Balances map[int64]decimal.Decimal
	NextID   int64
	Err      error
}

// NewInMemoryStore constructs the store with initialized maps.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		Products: make(map[int64]*model.Product),
		Orders:   make(map[int64]*model.Order),
		Archived: make(map[int64]*model.ArchivedOrder),
		Balances: make(map[int64]decimal.Decimal),
		NextID:   1,
	}
}

// AddProduct seeds a catalog listing.
func (s *InMemoryStore) AddProduct(p model.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	listing := p
	s.Products[p.ID] = &listing
}

// --- repository.OrderRepository ---

func (s *InMemoryStore) Create(ctx context.Context, input model.NewOrder) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	order := model.Order{
		BuyerID:      input.BuyerID,
		ProductID:    input.ProductID,
		ProductName:  input.ProductName,
		ProductPrice: input.ProductPrice,
		Quantity:     input.Quantity,
		Status:       model.OrderStatusPending,
		PaymentType:  input.PaymentType,
		Instructions: input.Instructions,
		CreatedAt:    time.Now(),
	}

	if input.ProductID != nil {
		product, ok := s.Products[*input.ProductID]
		switch {
		case !ok:
			if !input.HasSnapshot() {
				return nil, domainErrors.ErrValidation
			}
		default:
			if !product.Unlimited() {
				if product.Available < input.Quantity {
					return nil, domainErrors.ErrInsufficientStock
				}
				product.Available -= input.Quantity
			}
			order.ProductName = product.Name
			order.ProductPrice = product.Price
		}
	}

	order.ID = s.NextID
	s.NextID++
	stored := order
	s.Orders[order.ID] = &stored
	return &order, nil
}

func (s *InMemoryStore) Transition(ctx context.Context, orderID int64, next model.OrderStatus, actor int64) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	order, ok := s.Orders[orderID]
	if !ok {
		return nil, domainErrors.ErrOrderNotFound
	}

	if err := order.ValidateTransition(next, actor); err != nil {
		return nil, err
	}

	order.ApplyTransition(next, actor, time.Now())
	if next == model.OrderStatusDelivered {
		s.Balances[*order.AssignedRep] = s.Balances[*order.AssignedRep].Add(order.TotalPrice())
	}

	result := *order
	return &result, nil
}

func (s *InMemoryStore) GetByID(ctx context.Context, orderID int64) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Orders[orderID]
	if !ok {
		return nil, domainErrors.ErrOrderNotFound
	}
	result := *order
	return &result, nil
}

func (s *InMemoryStore) ListByBuyer(ctx context.Context, buyerID int64, page model.Page) ([]model.Order, error) {
	return s.listOrders(func(o *model.Order) bool { return o.BuyerID == buyerID })
}

func (s *InMemoryStore) ListAll(ctx context.Context, page model.Page) ([]model.Order, error) {
	return s.listOrders(func(*model.Order) bool { return true })
}

func (s *InMemoryStore) ListByAssignedRep(ctx context.Context, repID int64, page model.Page) ([]model.Order, error) {
	return s.listOrders(func(o *model.Order) bool {
		return o.AssignedRep != nil && *o.AssignedRep == repID
	})
}

func (s *InMemoryStore) listOrders(match func(*model.Order) bool) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var result []model.Order
	for _, o := range s.Orders {
		if match(o) {
			result = append(result, *o)
		}
	}
	return result, nil
}

func (s *InMemoryStore) Stats(ctx context.Context) (*model.OrderStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	stats := model.OrderStats{DeliveredRevenue: decimal.Zero}
	for _, o := range s.Orders {
		if o.Status != model.OrderStatusDelivered {
			continue
		}
		stats.DeliveredCount++
		stats.DeliveredQuantity += int64(o.Quantity)
		stats.DeliveredRevenue = stats.DeliveredRevenue.Add(o.TotalPrice())
	}
	return &stats, nil
}

func (s *InMemoryStore) SelectArchivable(ctx context.Context, cutoff time.Time, limit int) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var ids []int64
	for id, o := range s.Orders {
		if len(ids) >= limit {
			break
		}
		switch o.Status {
		case model.OrderStatusDelivered:
			if o.PaidAt != nil && o.PaidAt.Before(cutoff) {
				ids = append(ids, id)
			}
		case model.OrderStatusCancelled:
			if o.CreatedAt.Before(cutoff) {
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

// --- repository.ArchiveRepository ---

func (s *InMemoryStore) Archive(ctx context.Context, orderID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	order, ok := s.Orders[orderID]
	if !ok || !order.Status.Terminal() {
		return nil
	}
	archived := order.Archived()
	s.Archived[orderID] = &archived
	delete(s.Orders, orderID)
	return nil
}

func (s *InMemoryStore) List(ctx context.Context, page model.Page) ([]model.ArchivedOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var result []model.ArchivedOrder
	for _, o := range s.Archived {
		result = append(result, *o)
	}
	return result, nil
}

// --- repository.StockLedger ---

func (s *InMemoryStore) TryReserve(ctx context.Context, productID int64, qty int32) (int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.Products[productID]
	if !ok {
		return 0, domainErrors.ErrNotFound
	}
	if product.Unlimited() {
		return model.UnlimitedStock, nil
	}
	if product.Available < qty {
		return 0, domainErrors.ErrInsufficientStock
	}
	product.Available -= qty
	return product.Available, nil
}

func (s *InMemoryStore) GetAvailable(ctx context.Context, productID int64) (int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.Products[productID]
	if !ok {
		return 0, domainErrors.ErrNotFound
	}
	return product.Available, nil
}

func (s *InMemoryStore) IsUnlimited(ctx context.Context, productID int64) (bool, error) {
	available, err := s.GetAvailable(ctx, productID)
	if err != nil {
		return false, err
	}
	return available == model.UnlimitedStock, nil
}

func (s *InMemoryStore) PurgeIfDepleted(ctx context.Context, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if product, ok := s.Products[productID]; ok && product.Available == 0 {
		delete(s.Products, productID)
	}
	return nil
}

// --- repository.BalanceLedger ---

func (s *InMemoryStore) IncrementBalance(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return decimal.Decimal{}, s.Err
	}
	s.Balances[userID] = s.Balances[userID].Add(amount)
	return s.Balances[userID], nil
}

func (s *InMemoryStore) Collected(ctx context.Context, userID int64) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Balances[userID], nil
}

// --- repository.ProductCatalog ---

func (s *InMemoryStore) Resolve(ctx context.Context, productID int64) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.Products[productID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	result := *product
	return &result, nil
}
