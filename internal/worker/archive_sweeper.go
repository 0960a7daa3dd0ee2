package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ArchiveFacade exposes the subset of application functionality required by the sweeper.
type ArchiveFacade interface {
	ArchivableOrders(ctx context.Context, cutoff time.Time, limit int) ([]int64, error)
	ArchiveOrder(ctx context.Context, orderID int64) error
}

// ArchiveSweeper periodically moves aged terminal orders into the archive
// store. Each order is archived in its own transaction, so one failure
// never corrupts another order's processing and re-runs are idempotent.
type ArchiveSweeper struct {
	facade    ArchiveFacade
	interval  time.Duration
	retention time.Duration
	batchSize int
	workers   int
	logger    *slog.Logger

	jobs   chan int64
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewArchiveSweeper constructs the sweeper worker pool.
func NewArchiveSweeper(facade ArchiveFacade, interval, retention time.Duration, batchSize, workers int, logger *slog.Logger) *ArchiveSweeper {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &ArchiveSweeper{
		facade:    facade,
		interval:  interval,
		retention: retention,
		batchSize: batchSize,
		workers:   workers,
		logger:    logger,
		jobs:      make(chan int64, batchSize*workers),
	}
}

// Start launches background sweeping.
func (s *ArchiveSweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(runCtx)
	}

	s.wg.Add(1)
	go s.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (s *ArchiveSweeper) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *ArchiveSweeper) dispatch(ctx context.Context) {
	defer s.wg.Done()
	defer close(s.jobs)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.fetchAndDispatch(ctx)
		}
	}
}

func (s *ArchiveSweeper) fetchAndDispatch(ctx context.Context) {
	cutoff := time.Now().Add(-s.retention)
	ids, err := s.facade.ArchivableOrders(ctx, cutoff, s.batchSize)
	if err != nil {
		s.logger.Error("fetch archivable orders failed", slog.String("error", err.Error()))
		return
	}
	for _, id := range ids {
		select {
		case <-ctx.Done():
			return
		case s.jobs <- id:
		}
	}
}

func (s *ArchiveSweeper) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case orderID, ok := <-s.jobs:
			if !ok {
				return
			}
			if err := s.facade.ArchiveOrder(ctx, orderID); err != nil {
				s.logger.Error("archive order failed",
					slog.Int64("order_id", orderID),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}
