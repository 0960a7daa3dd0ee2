package repository

import (
	"context"

	"github.com/studorg/marketplace/internal/domain/model"
)

// ProductCatalog is the read-only snapshot source for order creation.
type ProductCatalog interface {
	// Resolve returns the current catalog entry or ErrNotFound when the
	// product was deleted or never existed.
	Resolve(ctx context.Context, productID int64) (*model.Product, error)
}
