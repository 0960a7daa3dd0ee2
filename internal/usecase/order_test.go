package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	domainErrors "github.com/studorg/marketplace/internal/domain/errors"
	"github.com/studorg/marketplace/internal/domain/model"
	testhelpers "github.com/studorg/marketplace/internal/test"
)

func newOrderUseCase(store *testhelpers.InMemoryStore) *OrderUseCase {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewOrderUseCase(store, store, logger)
}

func TestCreateSnapshotsCatalogProduct(t *testing.T) {
	store := testhelpers.NewInMemoryStore()
	store.AddProduct(model.Product{ID: 1, Name: "hoodie", Price: decimal.RequireFromString("25.50"), Available: 10})

	uc := newOrderUseCase(store)
	productID := int64(1)
	order, err := uc.Create(context.Background(), model.NewOrder{
		BuyerID:     5,
		ProductID:   &productID,
		Quantity:    2,
		PaymentType: model.PaymentTypeCash,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.ProductName != "hoodie" {
		t.Fatalf("expected snapshotted name, got %q", order.ProductName)
	}
	if !order.ProductPrice.Equal(decimal.RequireFromString("25.50")) {
		t.Fatalf("expected snapshotted price, got %s", order.ProductPrice)
	}
	if order.Status != model.OrderStatusPending {
		t.Fatalf("expected PENDING, got %s", order.Status)
	}
	if order.AssignedRep != nil || order.PaidAt != nil {
		t.Fatal("expected fresh order without rep or paid timestamp")
	}

	available, _ := store.GetAvailable(context.Background(), 1)
	if available != 8 {
		t.Fatalf("expected stock reduced to 8, got %d", available)
	}
}

func TestCreateFailsOnInsufficientStock(t *testing.T) {
	store := testhelpers.NewInMemoryStore()
	store.AddProduct(model.Product{ID: 1, Name: "mug", Price: decimal.New(5, 0), Available: 2})

	uc := newOrderUseCase(store)
	productID := int64(1)
	_, err := uc.Create(context.Background(), model.NewOrder{
		BuyerID:     5,
		ProductID:   &productID,
		Quantity:    5,
		PaymentType: model.PaymentTypeCash,
	})
	if !errors.Is(err, domainErrors.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	available, _ := store.GetAvailable(context.Background(), 1)
	if available != 2 {
		t.Fatalf("expected stock untouched, got %d", available)
	}
}

func TestCreateUnlimitedStockIsNeverDecremented(t *testing.T) {
	store := testhelpers.NewInMemoryStore()
	store.AddProduct(model.Product{ID: 1, Name: "sticker", Price: decimal.New(1, 0), Available: model.UnlimitedStock})

	uc := newOrderUseCase(store)
	productID := int64(1)
	if _, err := uc.Create(context.Background(), model.NewOrder{
		BuyerID:     5,
		ProductID:   &productID,
		Quantity:    100,
		PaymentType: model.PaymentTypePrepaid,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	available, _ := store.GetAvailable(context.Background(), 1)
	if available != model.UnlimitedStock {
		t.Fatalf("expected unlimited sentinel preserved, got %d", available)
	}
}

func TestCreateCustomOrderWithoutCatalogProduct(t *testing.T) {
	store := testhelpers.NewInMemoryStore()
	uc := newOrderUseCase(store)

	order, err := uc.Create(context.Background(), model.NewOrder{
		BuyerID:      5,
		ProductName:  "event ticket",
		ProductPrice: decimal.RequireFromString("12.00"),
		Quantity:     1,
		PaymentType:  model.PaymentTypeCash,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ProductID != nil {
		t.Fatal("expected custom order without product reference")
	}
}

func TestCreateDeletedProductRequiresSnapshot(t *testing.T) {
	store := testhelpers.NewInMemoryStore()
	uc := newOrderUseCase(store)
	productID := int64(42)

	_, err := uc.Create(context.Background(), model.NewOrder{
		BuyerID:     5,
		ProductID:   &productID,
		Quantity:    1,
		PaymentType: model.PaymentTypeCash,
	})
	if !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error for unresolvable product, got %v", err)
	}

	order, err := uc.Create(context.Background(), model.NewOrder{
		BuyerID:      5,
		ProductID:    &productID,
		ProductName:  "discontinued shirt",
		ProductPrice: decimal.New(9, 0),
		Quantity:     1,
		PaymentType:  model.PaymentTypeCash,
	})
	if err != nil {
		t.Fatalf("expected backfilled order to succeed, got %v", err)
	}
	if order.ProductName != "discontinued shirt" {
		t.Fatalf("expected caller snapshot kept, got %q", order.ProductName)
	}
}

func TestCreatePurgesDepletedListing(t *testing.T) {
	store := testhelpers.NewInMemoryStore()
	store.AddProduct(model.Product{ID: 1, Name: "cap", Price: decimal.New(7, 0), Available: 3})

	uc := newOrderUseCase(store)
	productID := int64(1)
	if _, err := uc.Create(context.Background(), model.NewOrder{
		BuyerID:     5,
		ProductID:   &productID,
		Quantity:    3,
		PaymentType: model.PaymentTypeCash,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := store.Resolve(context.Background(), 1); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected depleted listing purged, got %v", err)
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	store := testhelpers.NewInMemoryStore()
	uc := newOrderUseCase(store)

	_, err := uc.Create(context.Background(), model.NewOrder{BuyerID: 5, Quantity: 1, PaymentType: model.PaymentTypeCash})
	if !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(store.Orders) != 0 {
		t.Fatal("expected no order persisted")
	}
}

func TestConcurrentCreationNeverOversells(t *testing.T) {
	store := testhelpers.NewInMemoryStore()
	store.AddProduct(model.Product{ID: 1, Name: "hoodie", Price: decimal.New(20, 0), Available: 10})

	uc := newOrderUseCase(store)
	productID := int64(1)

	const attempts = 64
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Create(context.Background(), model.NewOrder{
				BuyerID:     5,
				ProductID:   &productID,
				Quantity:    3,
				PaymentType: model.PaymentTypeCash,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		if !errors.Is(err, domainErrors.ErrInsufficientStock) {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// 10 available, 3 per order: at most 3 reservations can win.
	if succeeded != 3 {
		t.Fatalf("expected exactly 3 successful reservations, got %d", succeeded)
	}
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	store := testhelpers.NewInMemoryStore()
	uc := newOrderUseCase(store)

	_, err := uc.Transition(context.Background(), 1, "SHIPPED", 7)
	if !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTransitionDeliveryCreditsAssignedRep(t *testing.T) {
	store := testhelpers.NewInMemoryStore()
	uc := newOrderUseCase(store)

	order, err := uc.Create(context.Background(), model.NewOrder{
		BuyerID:      5,
		ProductName:  "hoodie",
		ProductPrice: decimal.RequireFromString("10.00"),
		Quantity:     3,
		PaymentType:  model.PaymentTypeCash,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	paid, err := uc.Transition(context.Background(), order.ID, model.OrderStatusPaid, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if paid.PaidAt == nil {
		t.Fatal("expected paidAt to be set")
	}
	firstPaidAt := *paid.PaidAt

	// Another representative cannot touch the claimed order.
	if _, err := uc.Transition(context.Background(), order.ID, model.OrderStatusDelivered, 8); !errors.Is(err, domainErrors.ErrInvalidOperation) {
		t.Fatalf("expected invalid operation for other rep, got %v", err)
	}

	delivered, err := uc.Transition(context.Background(), order.ID, model.OrderStatusDelivered, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !delivered.PaidAt.Equal(firstPaidAt) {
		t.Fatal("expected paidAt unchanged on delivery")
	}

	collected, _ := store.Collected(context.Background(), 7)
	if !collected.Equal(decimal.RequireFromString("30.00")) {
		t.Fatalf("expected balance 30.00, got %s", collected)
	}

	// Retrying an already delivered order fails and credits nothing.
	if _, err := uc.Transition(context.Background(), order.ID, model.OrderStatusDelivered, 7); !errors.Is(err, domainErrors.ErrInvalidOperation) {
		t.Fatalf("expected invalid operation on retry, got %v", err)
	}
	collected, _ = store.Collected(context.Background(), 7)
	if !collected.Equal(decimal.RequireFromString("30.00")) {
		t.Fatalf("expected no double credit, got %s", collected)
	}
}

func TestTransitionOrderNotFound(t *testing.T) {
	store := testhelpers.NewInMemoryStore()
	uc := newOrderUseCase(store)

	_, err := uc.Transition(context.Background(), 99, model.OrderStatusPaid, 7)
	if !errors.Is(err, domainErrors.ErrOrderNotFound) {
		t.Fatalf("expected order not found, got %v", err)
	}
}

func TestStatsAggregatesDeliveredOrders(t *testing.T) {
	store := testhelpers.NewInMemoryStore()
	uc := newOrderUseCase(store)

	for i := 0; i < 2; i++ {
		order, err := uc.Create(context.Background(), model.NewOrder{
			BuyerID:      5,
			ProductName:  "mug",
			ProductPrice: decimal.New(5, 0),
			Quantity:     2,
			PaymentType:  model.PaymentTypeCash,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := uc.Transition(context.Background(), order.ID, model.OrderStatusPaid, 7); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := uc.Transition(context.Background(), order.ID, model.OrderStatusDelivered, 7); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// A pending order must not count.
	if _, err := uc.Create(context.Background(), model.NewOrder{
		BuyerID:      5,
		ProductName:  "mug",
		ProductPrice: decimal.New(5, 0),
		Quantity:     1,
		PaymentType:  model.PaymentTypeCash,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stats, err := uc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.DeliveredCount != 2 || stats.DeliveredQuantity != 4 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if !stats.DeliveredRevenue.Equal(decimal.New(20, 0)) {
		t.Fatalf("expected revenue 20, got %s", stats.DeliveredRevenue)
	}
}
