// Package events names the domain events emitted by the restaurant services
// and the publisher abstraction the services emit them through.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeOrderCreated         = "order.created"
	TypeOrderStatusUpdated   = "order.status.updated"
	TypePaymentRecorded      = "payment.recorded"
	TypeKitchenStatusUpdated = "kitchen.status.updated"
	TypeInventoryLowStock    = "inventory.low_stock"
)

// Publisher delivers an event under its routing key. Implementations must be
// safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type Noop struct{}

func (Noop) Publish(context.Context, string, any) error { return nil }

type OrderCreated struct {
	Type        string          `json:"type"`
	OrderID     int64           `json:"orderId"`
	TableID     int64           `json:"tableId"`
	SessionID   string          `json:"sessionId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ItemCount   int             `json:"itemCount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type OrderStatusUpdated struct {
	Type      string    `json:"type"`
	OrderID   int64     `json:"orderId"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type PaymentRecorded struct {
	Type          string          `json:"type"`
	PaymentID     int64           `json:"paymentId"`
	OrderID       int64           `json:"orderId"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod"`
	PaymentStatus string          `json:"paymentStatus"`
}

type KitchenStatusUpdated struct {
	Type           string    `json:"type"`
	KitchenOrderID int64     `json:"kitchenOrderId"`
	OrderID        int64     `json:"orderId"`
	Status         string    `json:"status"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type InventoryLowStock struct {
	Type              string          `json:"type"`
	ItemID            int64           `json:"itemId"`
	Name              string          `json:"name"`
	Quantity          decimal.Decimal `json:"quantity"`
	MinimumStockLevel decimal.Decimal `json:"minimumStockLevel"`
	Status            string          `json:"status"`
}

// Published is one captured call to a Recorder.
type Published struct {
	RoutingKey string
	Payload    any
}

// Recorder keeps every published event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Published
}

func (r *Recorder) Publish(_ context.Context, routingKey string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Published{RoutingKey: routingKey, Payload: payload})
	return nil
}

func (r *Recorder) Events() []Published {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Published, len(r.events))
	copy(out, r.events)
	return out
}

// Keys lists routing keys in publication order.
func (r *Recorder) Keys() []string {
	events := r.Events()
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.RoutingKey)
	}
	return out
}
