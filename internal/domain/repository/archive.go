package repository

import (
	"context"

	"github.com/studorg/marketplace/internal/domain/model"
)

// ArchiveRepository moves terminal orders into the archive store.
type ArchiveRepository interface {
	// Archive copies the order into the archive and deletes the active row
	// as one transaction. Archiving an id that is no longer present is a
	// no-op, so sweeps are safely re-runnable.
	Archive(ctx context.Context, orderID int64) error
	List(ctx context.Context, page model.Page) ([]model.ArchivedOrder, error)
}
