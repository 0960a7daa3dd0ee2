package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// BalanceLedger owns per-representative collected-money counters.
type BalanceLedger interface {
	// IncrementBalance atomically adds amount to the representative's
	// collected balance, treating an absent balance as zero, and returns
	// the new total.
	IncrementBalance(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error)
	Collected(ctx context.Context, userID int64) (decimal.Decimal, error)
}
