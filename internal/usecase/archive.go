package usecase

import (
	"context"
	"time"

	"github.com/studorg/marketplace/internal/domain/model"
	"github.com/studorg/marketplace/internal/domain/repository"
)

// ArchiveUseCase retires terminal orders past the retention window.
type ArchiveUseCase struct {
	orders  repository.OrderRepository
	archive repository.ArchiveRepository
}

// NewArchiveUseCase constructs ArchiveUseCase.
func NewArchiveUseCase(orders repository.OrderRepository, archive repository.ArchiveRepository) *ArchiveUseCase {
	return &ArchiveUseCase{orders: orders, archive: archive}
}

// SelectArchivable returns ids of terminal orders older than cutoff.
func (u *ArchiveUseCase) SelectArchivable(ctx context.Context, cutoff time.Time, limit int) ([]int64, error) {
	return u.orders.SelectArchivable(ctx, cutoff, limit)
}

// Archive moves one order into the archive store.
func (u *ArchiveUseCase) Archive(ctx context.Context, orderID int64) error {
	return u.archive.Archive(ctx, orderID)
}

// ListArchived returns retired orders, newest first.
func (u *ArchiveUseCase) ListArchived(ctx context.Context, page model.Page) ([]model.ArchivedOrder, error) {
	return u.archive.List(ctx, page)
}
