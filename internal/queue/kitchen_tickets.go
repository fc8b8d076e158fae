package queue

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"restaurant-order-services/internal/apperror"
	"restaurant-order-services/internal/events"
	"restaurant-order-services/internal/models"

	"go.uber.org/zap"
)

const (
	kitchenTicketMaxRetries = 5
	kitchenTicketRetryDelay = 2 * time.Second
)

// TicketCreator opens a kitchen ticket that mirrors an order's lines.
type TicketCreator interface {
	CreateFromOrder(ctx context.Context, orderID int64, priority *int32) (models.KitchenOrder, error)
}

// ProcessKitchenTicketEvent turns one order.created event into a kitchen
// ticket. Other event types and orders deleted since publication are
// acknowledged without work; any other failure is returned for retry.
func ProcessKitchenTicketEvent(ctx context.Context, creator TicketCreator, logger *zap.Logger, body []byte) error {
	var evt events.OrderCreated
	if err := json.Unmarshal(body, &evt); err != nil {
		logger.Warn("kitchen ticket: malformed event dropped", zap.Error(err))
		return nil
	}
	if strings.TrimSpace(evt.Type) != events.TypeOrderCreated || evt.OrderID <= 0 {
		return nil
	}

	ticket, err := creator.CreateFromOrder(ctx, evt.OrderID, nil)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) || apperror.IsKind(err, apperror.KindValidation) {
			logger.Warn("kitchen ticket: order skipped", zap.Int64("orderId", evt.OrderID), zap.Error(err))
			return nil
		}
		return err
	}
	logger.Info("kitchen ticket created", zap.Int64("orderId", evt.OrderID), zap.Int64("kitchenOrderId", ticket.ID))
	return nil
}

// RunKitchenTicketWorker consumes order.created events until ctx ends.
func RunKitchenTicketWorker(ctx context.Context, qc *Client, creator TicketCreator, logger *zap.Logger) error {
	if err := EnsureKitchenTicketsTopology(qc); err != nil {
		return err
	}
	return qc.ConsumeWithRetry(ctx, KitchenTicketsQueue, func(ctx context.Context, body []byte) error {
		return ProcessKitchenTicketEvent(ctx, creator, logger, body)
	}, kitchenTicketMaxRetries, kitchenTicketRetryDelay)
}
