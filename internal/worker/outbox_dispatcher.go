package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/studorg/marketplace/internal/outbox"
)

// OutboxDispatcher publishes committed outbox events to the configured
// publisher and marks them as published. Events stay in the table until a
// publish succeeds, so delivery is at-least-once.
type OutboxDispatcher struct {
	repo      outbox.Repository
	publisher outbox.Publisher
	interval  time.Duration
	batchSize int
	logger    *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewOutboxDispatcher constructs the dispatcher.
func NewOutboxDispatcher(repo outbox.Repository, publisher outbox.Publisher, interval time.Duration, batchSize int, logger *slog.Logger) *OutboxDispatcher {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &OutboxDispatcher{
		repo:      repo,
		publisher: publisher,
		interval:  interval,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Start launches background dispatching.
func (d *OutboxDispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	d.wg.Add(1)
	go d.run(runCtx)
}

// Stop waits for the dispatch loop to finish.
func (d *OutboxDispatcher) Stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *OutboxDispatcher) run(ctx context.Context) {
	defer d.wg.Done()
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.dispatchBatch(ctx)
		}
	}
}

func (d *OutboxDispatcher) dispatchBatch(ctx context.Context) {
	events, err := d.repo.Pending(ctx, d.batchSize)
	if err != nil {
		d.logger.Error("fetch pending outbox events failed", slog.String("error", err.Error()))
		return
	}

	published := make([]uuid.UUID, 0, len(events))
	for _, event := range events {
		if err := d.publisher.Publish(ctx, event); err != nil {
			d.logger.Error("publish outbox event failed",
				slog.String("event_id", event.ID.String()),
				slog.String("topic", event.Topic),
				slog.String("error", err.Error()),
			)
			continue
		}
		published = append(published, event.ID)
	}

	if err := d.repo.MarkPublished(ctx, published); err != nil {
		d.logger.Error("mark outbox events published failed", slog.String("error", err.Error()))
	}
}
