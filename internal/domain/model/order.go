package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/studorg/marketplace/internal/domain/errors"
)

// OrderStatus describes order lifecycle state.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// statusRank orders statuses for downgrade checks. CANCELLED sits below
// everything and is handled separately.
var statusRank = map[OrderStatus]int{
	OrderStatusCancelled: 0,
	OrderStatusPending:   1,
	OrderStatusPaid:      2,
	OrderStatusDelivered: 3,
}

// Valid reports whether the status is a known lifecycle state.
func (s OrderStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// Rank returns numeric progression rank of the status.
func (s OrderStatus) Rank() int {
	return statusRank[s]
}

// Terminal reports whether no further transitions are accepted.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// PaymentType tags how the buyer intends to pay. Informational only.
type PaymentType string

const (
	PaymentTypeCash    PaymentType = "CASH"
	PaymentTypePrepaid PaymentType = "PREPAID"
)

// Valid reports whether the payment type is known.
func (p PaymentType) Valid() bool {
	return p == PaymentTypeCash || p == PaymentTypePrepaid
}

// Order is a member's purchase handled by a representative. The product
// name and price are snapshotted at creation so later catalog edits never
// rewrite order history.
type Order struct {
	ID           int64
	BuyerID      int64
	ProductID    *int64
	ProductName  string
	ProductPrice decimal.Decimal
	Quantity     int32
	Status       OrderStatus
	PaymentType  PaymentType
	Instructions string
	AssignedRep  *int64
	CreatedAt    time.Time
	PaidAt       *time.Time
}

// TotalPrice is the snapshotted unit price multiplied by quantity.
// Always derived, never persisted.
func (o *Order) TotalPrice() decimal.Decimal {
	return o.ProductPrice.Mul(decimal.NewFromInt(int64(o.Quantity)))
}

// ValidateTransition checks whether actor may move the order into next.
// Rules, in order: a claimed order belongs to its representative; terminal
// orders accept nothing; cancellation is otherwise always allowed; no
// downgrades; no repeated status; no skipping PAID on the way to DELIVERED.
func (o *Order) ValidateTransition(next OrderStatus, actor int64) error {
	if o.AssignedRep != nil && *o.AssignedRep != actor {
		return fmt.Errorf("%w: order already assigned to another representative", domainErrors.ErrInvalidOperation)
	}
	if o.Status.Terminal() {
		return fmt.Errorf("%w: order is already %s", domainErrors.ErrInvalidOperation, o.Status)
	}
	if next == OrderStatusCancelled {
		return nil
	}
	if next == o.Status {
		return fmt.Errorf("%w: order is already %s", domainErrors.ErrInvalidOperation, o.Status)
	}
	if next.Rank() < o.Status.Rank() {
		return fmt.Errorf("%w: cannot move order from %s back to %s", domainErrors.ErrInvalidOperation, o.Status, next)
	}
	if o.Status == OrderStatusPending && next == OrderStatusDelivered {
		return fmt.Errorf("%w: order must be paid before delivery", domainErrors.ErrInvalidOperation)
	}
	return nil
}

// ApplyTransition mutates the order for an already-validated transition:
// first caller claims the order, the first move into PAID stamps PaidAt.
func (o *Order) ApplyTransition(next OrderStatus, actor int64, now time.Time) {
	if o.AssignedRep == nil {
		rep := actor
		o.AssignedRep = &rep
	}
	if next == OrderStatusPaid && o.PaidAt == nil {
		paidAt := now
		o.PaidAt = &paidAt
	}
	o.Status = next
}

// NewOrder carries creation input before the engine resolves the product
// and snapshots its name and price.
type NewOrder struct {
	BuyerID      int64
	ProductID    *int64
	ProductName  string
	ProductPrice decimal.Decimal
	Quantity     int32
	PaymentType  PaymentType
	Instructions string
}

// HasSnapshot reports whether the caller supplied an explicit name/price
// pair, required for custom orders and orders against deleted products.
func (n NewOrder) HasSnapshot() bool {
	return n.ProductName != "" && n.ProductPrice.IsPositive()
}

// Validate checks creation input shape.
func (n NewOrder) Validate() error {
	if n.BuyerID <= 0 {
		return fmt.Errorf("%w: buyer is required", domainErrors.ErrValidation)
	}
	if n.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", domainErrors.ErrValidation)
	}
	if !n.PaymentType.Valid() {
		return fmt.Errorf("%w: unknown payment type %q", domainErrors.ErrValidation, n.PaymentType)
	}
	if n.ProductID == nil && !n.HasSnapshot() {
		return fmt.Errorf("%w: product reference or explicit name and price required", domainErrors.ErrValidation)
	}
	return nil
}
