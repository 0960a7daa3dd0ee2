package outbox

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/studorg/marketplace/internal/config"
	"github.com/studorg/marketplace/internal/domain/model"
)

func TestNewOrderEvent(t *testing.T) {
	rep := int64(7)
	order := &model.Order{
		ID:           11,
		BuyerID:      5,
		ProductPrice: decimal.RequireFromString("10.00"),
		Quantity:     3,
		Status:       model.OrderStatusDelivered,
		AssignedRep:  &rep,
	}

	event, err := NewOrderEvent(TopicOrderDelivered, order)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.ID == uuid.Nil {
		t.Fatal("expected event id assigned")
	}
	if event.Topic != TopicOrderDelivered {
		t.Fatalf("unexpected topic: %s", event.Topic)
	}
	if event.CreatedAt.IsZero() {
		t.Fatal("expected created timestamp")
	}

	var payload map[string]any
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		t.Fatalf("unexpected payload: %v", err)
	}
	if payload["order_id"] != float64(11) || payload["buyer_id"] != float64(5) {
		t.Fatalf("unexpected ids: %+v", payload)
	}
	if payload["status"] != string(model.OrderStatusDelivered) {
		t.Fatalf("unexpected status: %+v", payload)
	}
	if payload["total_price"] != "30.00" {
		t.Fatalf("unexpected total price: %+v", payload)
	}
	if payload["assigned_rep"] != float64(7) {
		t.Fatalf("unexpected rep: %+v", payload)
	}
}

func TestNewOrderEventOmitsUnassignedRep(t *testing.T) {
	order := &model.Order{ID: 1, BuyerID: 5, ProductPrice: decimal.New(5, 0), Quantity: 1, Status: model.OrderStatusPending}
	event, err := NewOrderEvent(TopicOrderCreated, order)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bytes.Contains(event.Payload, []byte("assigned_rep")) {
		t.Fatalf("expected assigned_rep omitted, got %s", event.Payload)
	}
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	publisher := NewLogPublisher(slog.New(slog.NewJSONHandler(&buf, nil)))

	event := Event{ID: uuid.New(), Topic: TopicOrderCancelled, Payload: []byte(`{"order_id":1}`)}
	if err := publisher.Publish(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(TopicOrderCancelled)) {
		t.Fatalf("expected topic logged, got %s", buf.String())
	}
}

func TestNewPublisherWithoutBroker(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	publisher, err := newPublisher(publisherParams{
		Config: &config.Config{},
		Logger: logger,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := publisher.(*LogPublisher); !ok {
		t.Fatalf("expected LogPublisher fallback, got %T", publisher)
	}
}
