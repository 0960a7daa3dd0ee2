package outbox

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"
)

const exchangeName = "orders"

// AMQPPublisher publishes outbox events to a RabbitMQ topic exchange.
type AMQPPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewAMQPPublisher connects to the broker and declares the orders exchange.
func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect amqp: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQPPublisher{conn: conn, channel: channel}, nil
}

// Publish sends the event with its topic as routing key.
func (p *AMQPPublisher) Publish(_ context.Context, event Event) error {
	return p.channel.Publish(exchangeName, event.Topic, false, false, amqp.Publishing{
		ContentType: "application/json",
		MessageId:   event.ID.String(),
		Timestamp:   event.CreatedAt,
		Body:        event.Payload,
	})
}

// Close releases the channel and connection.
func (p *AMQPPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// LogPublisher writes events to the log. Used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher constructs LogPublisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(_ context.Context, event Event) error {
	p.logger.Info("outbox event",
		slog.String("id", event.ID.String()),
		slog.String("topic", event.Topic),
		slog.String("payload", string(event.Payload)),
	)
	return nil
}
