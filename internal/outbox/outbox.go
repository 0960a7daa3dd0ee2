package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/studorg/marketplace/internal/domain/model"
)

// Topics of order lifecycle events emitted after commit.
const (
	TopicOrderCreated   = "order.created"
	TopicOrderDelivered = "order.delivered"
	TopicOrderCancelled = "order.cancelled"
)

// Event is a row of the transactional outbox: written in the same
// transaction as the state change it describes, published later by the
// dispatcher.
type Event struct {
	ID        uuid.UUID
	Topic     string
	Payload   []byte
	CreatedAt time.Time
}

// orderPayload is the JSON body carried by order events.
type orderPayload struct {
	OrderID     int64  `json:"order_id"`
	BuyerID     int64  `json:"buyer_id"`
	Status      string `json:"status"`
	Quantity    int32  `json:"quantity"`
	TotalPrice  string `json:"total_price"`
	AssignedRep *int64 `json:"assigned_rep,omitempty"`
}

// NewOrderEvent builds an outbox event describing the order's current state.
func NewOrderEvent(topic string, order *model.Order) (Event, error) {
	payload, err := json.Marshal(orderPayload{
		OrderID:     order.ID,
		BuyerID:     order.BuyerID,
		Status:      string(order.Status),
		Quantity:    order.Quantity,
		TotalPrice:  order.TotalPrice().StringFixed(2),
		AssignedRep: order.AssignedRep,
	})
	if err != nil {
		return Event{}, err
	}
	return Event{ID: uuid.New(), Topic: topic, Payload: payload, CreatedAt: time.Now()}, nil
}

// Repository reads committed events back for dispatch.
type Repository interface {
	Pending(ctx context.Context, limit int) ([]Event, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID) error
}

// Publisher delivers committed events to the outside world.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
