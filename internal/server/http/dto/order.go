package dto

import "time"

// CreateOrderRequest describes order creation payload. Price is a decimal
// string; product_name/product_price are required when product_id is
// absent or no longer resolvable.
type CreateOrderRequest struct {
	ProductID    *int64 `json:"product_id,omitempty"`
	ProductName  string `json:"product_name,omitempty"`
	ProductPrice string `json:"product_price,omitempty"`
	Quantity     int32  `json:"quantity"`
	PaymentType  string `json:"payment_type"`
	Instructions string `json:"instructions,omitempty"`
}

// OrderResponse describes an active or archived order.
type OrderResponse struct {
	ID           int64      `json:"id"`
	BuyerID      int64      `json:"buyer_id"`
	ProductID    *int64     `json:"product_id,omitempty"`
	ProductName  string     `json:"product_name"`
	ProductPrice string     `json:"product_price"`
	Quantity     int32      `json:"quantity"`
	Status       string     `json:"status"`
	PaymentType  string     `json:"payment_type"`
	Instructions string     `json:"instructions,omitempty"`
	AssignedRep  *int64     `json:"assigned_rep,omitempty"`
	TotalPrice   string     `json:"total_price"`
	CreatedAt    time.Time  `json:"created_at"`
	PaidAt       *time.Time `json:"paid_at,omitempty"`
}

// StatsResponse aggregates delivered orders.
type StatsResponse struct {
	DeliveredCount    int64  `json:"delivered_count"`
	DeliveredQuantity int64  `json:"delivered_quantity"`
	DeliveredRevenue  string `json:"delivered_revenue"`
}

// ErrorResponse carries a failure reason.
type ErrorResponse struct {
	Error string `json:"error"`
}
