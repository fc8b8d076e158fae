package queue

import (
	"context"

	"restaurant-order-services/internal/events"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange       = "restaurant.events"
	KitchenTicketsQueue  = "restaurant.kitchen.tickets"
	KitchenTicketsDLX    = "restaurant.kitchen.dlx"
	KitchenTicketsDLQ    = "restaurant.kitchen.tickets.dlq"
	KitchenTicketsDeadRK = "dead"
)

// EnsureEventsExchange declares the topic exchange every domain event is
// published to.
func EnsureEventsExchange(qc *Client) error {
	if qc == nil {
		return nil
	}
	return qc.EnsureExchangeKind(EventsExchange, "topic")
}

// EnsureKitchenTicketsTopology binds the ticket queue to order.created with a
// dead-letter queue for events that keep failing.
func EnsureKitchenTicketsTopology(qc *Client) error {
	if qc == nil {
		return nil
	}
	if err := EnsureEventsExchange(qc); err != nil {
		return err
	}

	if err := qc.EnsureExchangeKind(KitchenTicketsDLX, "direct"); err != nil {
		return err
	}
	if _, err := qc.EnsureQueue(KitchenTicketsDLQ); err != nil {
		return err
	}
	if err := qc.BindQueue(KitchenTicketsDLQ, KitchenTicketsDLX, KitchenTicketsDeadRK); err != nil {
		return err
	}

	_, err := qc.EnsureQueueWithArgs(KitchenTicketsQueue, amqp.Table{
		"x-dead-letter-exchange":    KitchenTicketsDLX,
		"x-dead-letter-routing-key": KitchenTicketsDeadRK,
	})
	if err != nil {
		return err
	}
	return qc.BindQueue(KitchenTicketsQueue, EventsExchange, events.TypeOrderCreated)
}

// EventPublisher sends domain events to the events exchange.
type EventPublisher struct {
	Client *Client
}

func (p EventPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	return p.Client.PublishJSON(ctx, EventsExchange, routingKey, payload)
}
