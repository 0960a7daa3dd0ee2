package model

import "github.com/shopspring/decimal"

// OrderStats aggregates delivered orders.
type OrderStats struct {
	DeliveredCount    int64
	DeliveredQuantity int64
	DeliveredRevenue  decimal.Decimal
}

// Page describes a limit/offset window over a listing.
type Page struct {
	Number int
	Size   int
}

const defaultPageSize = 50

// Limit returns the effective page size.
func (p Page) Limit() int {
	if p.Size <= 0 {
		return defaultPageSize
	}
	return p.Size
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	if p.Number <= 1 {
		return 0
	}
	return (p.Number - 1) * p.Limit()
}
