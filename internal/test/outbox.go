package test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/studorg/marketplace/internal/outbox"
)

// OutboxRepositoryStub keeps outbox events in memory for dispatcher tests.
type OutboxRepositoryStub struct {
	Events    []outbox.Event
	Published []uuid.UUID
	Err       error
	mu        sync.Mutex
}

// Lock exposes internal mutex for external synchronization.
func (s *OutboxRepositoryStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *OutboxRepositoryStub) Unlock() { s.mu.Unlock() }

// Pending returns events not yet marked published.
func (s *OutboxRepositoryStub) Pending(ctx context.Context, limit int) ([]outbox.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	published := make(map[uuid.UUID]bool, len(s.Published))
	for _, id := range s.Published {
		published[id] = true
	}

	var pending []outbox.Event
	for _, e := range s.Events {
		if len(pending) >= limit {
			break
		}
		if !published[e.ID] {
			pending = append(pending, e)
		}
	}
	return pending, nil
}

// MarkPublished records ids as published.
func (s *OutboxRepositoryStub) MarkPublished(ctx context.Context, ids []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Published = append(s.Published, ids...)
	return nil
}

// PublisherStub records published events.
type PublisherStub struct {
	PublishFn func(context.Context, outbox.Event) error
	Sent      []outbox.Event
	mu        sync.Mutex
}

// Lock exposes internal mutex for external synchronization.
func (s *PublisherStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *PublisherStub) Unlock() { s.mu.Unlock() }

// Publish records the event or delegates to the configured function.
func (s *PublisherStub) Publish(ctx context.Context, event outbox.Event) error {
	if s.PublishFn != nil {
		return s.PublishFn(ctx, event)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sent = append(s.Sent, event)
	return nil
}
