package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	testhelpers "github.com/studorg/marketplace/internal/test"
)

func TestNewArchiveSweeperDefaults(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	sweeper := NewArchiveSweeper(&testhelpers.SweeperFacadeStub{}, time.Second, time.Hour, 0, 0, logger)
	if sweeper.batchSize != 1 {
		t.Fatalf("expected batch size default to 1, got %d", sweeper.batchSize)
	}
	if sweeper.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", sweeper.workers)
	}
}

func TestArchiveSweeperArchivesBatch(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := &testhelpers.SweeperFacadeStub{Batches: [][]int64{{1, 2, 3}}}
	sweeper := NewArchiveSweeper(facade, 10*time.Millisecond, time.Hour, 3, 2, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweeper.Start(ctx)

	deadline := time.After(500 * time.Millisecond)
	for {
		facade.Lock()
		done := len(facade.Calls) >= 3
		facade.Unlock()
		if done {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timeout waiting for archive sweep")
		case <-time.After(10 * time.Millisecond):
		}
	}

	sweeper.Stop()
	facade.Lock()
	defer facade.Unlock()
	seen := map[int64]bool{}
	for _, call := range facade.Calls {
		seen[call.OrderID] = true
	}
	for _, id := range []int64{1, 2, 3} {
		if !seen[id] {
			t.Fatalf("expected order %d archived, calls: %+v", id, facade.Calls)
		}
	}
}

func TestArchiveSweeperCutoffHonorsRetention(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	cutoffs := make(chan time.Time, 1)
	facade := &testhelpers.SweeperFacadeStub{
		ArchivableFn: func(ctx context.Context, cutoff time.Time, limit int) ([]int64, error) {
			select {
			case cutoffs <- cutoff:
			default:
			}
			return nil, nil
		},
	}

	retention := 2 * time.Hour
	sweeper := NewArchiveSweeper(facade, 10*time.Millisecond, retention, 1, 1, logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweeper.Start(ctx)

	select {
	case cutoff := <-cutoffs:
		want := time.Now().Add(-retention)
		if diff := want.Sub(cutoff); diff < -time.Minute || diff > time.Minute {
			t.Fatalf("cutoff %v too far from expected %v", cutoff, want)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timeout waiting for dispatch")
	}
	sweeper.Stop()
}

func TestArchiveSweeperIsolatesFailures(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := &testhelpers.SweeperFacadeStub{Batches: [][]int64{{1, 2}}}
	archived := make(chan int64, 2)
	facade.ArchiveFn = func(ctx context.Context, orderID int64) error {
		archived <- orderID
		if orderID == 1 {
			return errors.New("archive failed")
		}
		return nil
	}

	sweeper := NewArchiveSweeper(facade, 10*time.Millisecond, time.Hour, 2, 1, logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweeper.Start(ctx)

	seen := map[int64]bool{}
	deadline := time.After(500 * time.Millisecond)
	for len(seen) < 2 {
		select {
		case id := <-archived:
			seen[id] = true
		case <-deadline:
			t.Fatalf("timeout, archived so far: %v", seen)
		}
	}
	sweeper.Stop()

	if !seen[1] || !seen[2] {
		t.Fatalf("expected both orders attempted, got %v", seen)
	}
}

func TestArchiveSweeperFetchErrorDoesNotStopLoop(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	calls := make(chan struct{}, 4)
	facade := &testhelpers.SweeperFacadeStub{
		ArchivableFn: func(ctx context.Context, cutoff time.Time, limit int) ([]int64, error) {
			select {
			case calls <- struct{}{}:
			default:
			}
			return nil, errors.New("db down")
		},
	}

	sweeper := NewArchiveSweeper(facade, 10*time.Millisecond, time.Hour, 1, 1, logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweeper.Start(ctx)

	for i := 0; i < 2; i++ {
		select {
		case <-calls:
		case <-time.After(500 * time.Millisecond):
			t.Fatal("timeout waiting for repeated fetch")
		}
	}
	sweeper.Stop()
}

func TestArchiveSweeperStopWithoutStart(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	sweeper := NewArchiveSweeper(&testhelpers.SweeperFacadeStub{}, time.Second, time.Hour, 1, 1, logger)
	sweeper.Stop()
}
