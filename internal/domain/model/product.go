package model

import "github.com/shopspring/decimal"

// UnlimitedStock marks a product listing that never depletes.
const UnlimitedStock int32 = -1

// Product is the catalog view the engine snapshots from at creation time.
type Product struct {
	ID        int64
	Name      string
	Price     decimal.Decimal
	Available int32
}

// Unlimited reports whether the listing carries the never-depleting sentinel.
func (p *Product) Unlimited() bool {
	return p.Available == UnlimitedStock
}
