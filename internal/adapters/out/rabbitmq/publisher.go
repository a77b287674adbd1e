// Package rabbitmq provides the AMQP implementation of the EventPublisher
// port. Workflow events are published to a topic exchange with the event name
// as the routing key, so downstream consumers (notifications, chat, analytics)
// can bind to the subsets they care about.
package rabbitmq

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"marketplace/internal/core/ports"

	"github.com/rabbitmq/amqp091-go"
)

// ExchangeName is the topic exchange all order workflow events go through.
const ExchangeName = "order_events"

// Publisher publishes workflow events to RabbitMQ.
type Publisher struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	logger  *slog.Logger
}

// NewPublisher connects to RabbitMQ and declares the durable topic exchange.
func NewPublisher(url string, logger *slog.Logger) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	err = channel.ExchangeDeclare(
		ExchangeName,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, err
	}

	return &Publisher{
		conn:    conn,
		channel: channel,
		logger:  logger.With("component", "rabbitmq_publisher"),
	}, nil
}

// Publish sends one event to the exchange, routed by the event name.
// Callers treat failures as fire-and-forget: they log and move on, so this
// method never retries on its own.
func (p *Publisher) Publish(ctx context.Context, event ports.Event) error {
	body, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	err = p.channel.PublishWithContext(ctx,
		ExchangeName,
		event.Name, // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now().UTC(),
			Type:         event.Name,
			Body:         body,
		},
	)
	if err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "event published", "event", event.Name)
	return nil
}

// Close releases the channel and the connection.
func (p *Publisher) Close() error {
	if err := p.channel.Close(); err != nil {
		_ = p.conn.Close()
		return err
	}
	return p.conn.Close()
}
