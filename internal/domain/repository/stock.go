package repository

import "context"

// StockLedger owns per-product available-quantity counters.
type StockLedger interface {
	// TryReserve atomically decrements availability by qty when enough stock
	// remains, returning the quantity left. Unlimited listings are never
	// decremented. Returns ErrInsufficientStock when the conditional
	// decrement does not apply.
	TryReserve(ctx context.Context, productID int64, qty int32) (int32, error)
	GetAvailable(ctx context.Context, productID int64) (int32, error)
	IsUnlimited(ctx context.Context, productID int64) (bool, error)
	// PurgeIfDepleted removes a listing whose availability reached zero.
	// Best effort; callers must not fail an order on its error.
	PurgeIfDepleted(ctx context.Context, productID int64) error
}
