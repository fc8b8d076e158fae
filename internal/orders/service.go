package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restaurant-order-services/internal/apperror"
	"restaurant-order-services/internal/events"
	"restaurant-order-services/internal/metrics"
	"restaurant-order-services/internal/models"
	"restaurant-order-services/internal/session"
	"restaurant-order-services/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service struct {
	Store   store.Store
	Events  events.Publisher
	Metrics *metrics.Metrics
	Logger  *zap.Logger
	Now     func() time.Time
}

func NewService(s store.Store, publisher events.Publisher, m *metrics.Metrics, logger *zap.Logger) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		Store:   s,
		Events:  publisher,
		Metrics: m,
		Logger:  logger,
		Now:     func() time.Time { return time.Now().UTC() },
	}
}

type ItemInput struct {
	MenuItemID          int64   `json:"menuItemId"`
	Quantity            int32   `json:"quantity"`
	SpecialInstructions *string `json:"specialInstructions"`
}

func (in ItemInput) validate() error {
	if in.MenuItemID <= 0 {
		return apperror.Validation("menuItemId is required")
	}
	if in.Quantity <= 0 {
		return apperror.Validation("Quantity must be greater than zero")
	}
	return nil
}

// CreateOrder places an order on a table. The order joins the table's open
// session or opens a new one; prices are copied from the menu at this moment.
func (s *Service) CreateOrder(ctx context.Context, tableID int64, items []ItemInput) (models.Order, error) {
	if len(items) == 0 {
		return models.Order{}, apperror.Validation("Order must contain at least one item")
	}
	for _, item := range items {
		if err := item.validate(); err != nil {
			return models.Order{}, err
		}
	}

	var created models.Order
	err := s.Store.InTx(ctx, func(q store.Querier) error {
		if _, err := q.GetTable(ctx, tableID); err != nil {
			return notFound(err, "Table not found")
		}
		if err := q.LockTable(ctx, tableID); err != nil {
			return err
		}

		menu := make(map[int64]models.MenuItem, len(items))
		total := decimal.Zero
		for _, item := range items {
			m, ok := menu[item.MenuItemID]
			if !ok {
				var err error
				m, err = q.GetMenuItem(ctx, item.MenuItemID)
				if err != nil {
					return notFound(err, fmt.Sprintf("Menu item %d not found", item.MenuItemID))
				}
				if !m.IsAvailable {
					return apperror.Validation(fmt.Sprintf("Menu item %s is not available", m.Name))
				}
				menu[item.MenuItemID] = m
			}
			total = total.Add(m.Price.Mul(decimal.NewFromInt32(item.Quantity)))
		}

		now := s.Now()
		sessionID, _, err := session.Resolve(ctx, q, tableID, now)
		if err != nil {
			return err
		}

		order, err := q.InsertOrder(ctx, models.Order{
			TableID:     tableID,
			SessionID:   sessionID,
			Status:      models.OrderPending,
			TotalAmount: total,
			CreatedAt:   now,
		})
		if err != nil {
			return err
		}

		order.Items = make([]models.OrderItem, 0, len(items))
		for _, item := range items {
			m := menu[item.MenuItemID]
			line, err := q.InsertOrderItem(ctx, models.OrderItem{
				OrderID:             order.ID,
				MenuItemID:          m.ID,
				MenuItemName:        m.Name,
				Quantity:            item.Quantity,
				ItemPrice:           m.Price,
				SpecialInstructions: item.SpecialInstructions,
			})
			if err != nil {
				return err
			}
			order.Items = append(order.Items, line)
		}

		if _, err := q.UpdateTableStatus(ctx, tableID, models.TableOccupied); err != nil {
			return err
		}
		created = order
		return nil
	})
	if err != nil {
		return models.Order{}, apperror.As(err)
	}

	s.Metrics.OrderCreated()
	s.publish(ctx, events.TypeOrderCreated, events.OrderCreated{
		Type:        events.TypeOrderCreated,
		OrderID:     created.ID,
		TableID:     created.TableID,
		SessionID:   created.SessionID,
		TotalAmount: created.TotalAmount,
		ItemCount:   len(created.Items),
		CreatedAt:   created.CreatedAt,
	})
	return created, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (models.Order, error) {
	order, err := s.Store.GetOrder(ctx, id)
	if err != nil {
		return models.Order{}, notFound(err, "Order not found")
	}
	withItems, err := AttachItems(ctx, s.Store, []models.Order{order})
	if err != nil {
		return models.Order{}, apperror.Unexpected(err)
	}
	return withItems[0], nil
}

func (s *Service) ListOrders(ctx context.Context) ([]models.Order, error) {
	list, err := s.Store.ListOrders(ctx)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	list, err = AttachItems(ctx, s.Store, list)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	return list, nil
}

// AddOrderItem appends a line to an existing order and raises its total by
// the line amount in the same transaction.
func (s *Service) AddOrderItem(ctx context.Context, orderID int64, in ItemInput) (models.OrderItem, error) {
	if err := in.validate(); err != nil {
		return models.OrderItem{}, err
	}

	var line models.OrderItem
	err := s.Store.InTx(ctx, func(q store.Querier) error {
		if _, err := q.GetOrder(ctx, orderID); err != nil {
			return notFound(err, "Order not found")
		}
		m, err := q.GetMenuItem(ctx, in.MenuItemID)
		if err != nil {
			return notFound(err, fmt.Sprintf("Menu item %d not found", in.MenuItemID))
		}
		if !m.IsAvailable {
			return apperror.Validation(fmt.Sprintf("Menu item %s is not available", m.Name))
		}

		line, err = q.InsertOrderItem(ctx, models.OrderItem{
			OrderID:             orderID,
			MenuItemID:          m.ID,
			MenuItemName:        m.Name,
			Quantity:            in.Quantity,
			ItemPrice:           m.Price,
			SpecialInstructions: in.SpecialInstructions,
		})
		if err != nil {
			return err
		}
		_, err = q.AddToOrderTotal(ctx, orderID, line.LineTotal())
		return err
	})
	if err != nil {
		return models.OrderItem{}, apperror.As(err)
	}
	return line, nil
}

// DeleteOrderItem removes a line and lowers the order total by the line's
// snapshotted amount. It reports false when the line does not exist.
func (s *Service) DeleteOrderItem(ctx context.Context, itemID int64) (bool, error) {
	deleted := false
	err := s.Store.InTx(ctx, func(q store.Querier) error {
		line, err := q.GetOrderItem(ctx, itemID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil
			}
			return err
		}
		if deleted, err = q.DeleteOrderItem(ctx, itemID); err != nil || !deleted {
			return err
		}
		_, err = q.AddToOrderTotal(ctx, line.OrderID, line.LineTotal().Neg())
		return err
	})
	if err != nil {
		return false, apperror.As(err)
	}
	return deleted, nil
}

// UpdateOrderStatus overwrites the status without checking the transition.
// The table is released once it has no open orders left.
func (s *Service) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (bool, error) {
	if !status.Valid() {
		return false, apperror.Validation("Invalid order status")
	}

	updated := false
	err := s.Store.InTx(ctx, func(q store.Querier) error {
		order, err := q.GetOrder(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil
			}
			return err
		}
		if updated, err = q.UpdateOrderStatus(ctx, id, status); err != nil || !updated {
			return err
		}
		return syncTableStatus(ctx, q, order.TableID)
	})
	if err != nil {
		return false, apperror.As(err)
	}

	if updated {
		s.publish(ctx, events.TypeOrderStatusUpdated, events.OrderStatusUpdated{
			Type:      events.TypeOrderStatusUpdated,
			OrderID:   id,
			Status:    string(status),
			UpdatedAt: s.Now(),
		})
	}
	return updated, nil
}

// DeleteOrder removes the order and its lines. Orders with recorded payments
// cannot be deleted.
func (s *Service) DeleteOrder(ctx context.Context, id int64) (bool, error) {
	deleted := false
	err := s.Store.InTx(ctx, func(q store.Querier) error {
		order, err := q.GetOrder(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil
			}
			return err
		}
		if err := q.DeleteOrderItemsByOrder(ctx, id); err != nil {
			return err
		}
		if deleted, err = q.DeleteOrder(ctx, id); err != nil {
			if errors.Is(err, store.ErrReferenced) {
				return apperror.Conflict("Order has recorded payments and cannot be deleted")
			}
			return err
		}
		return syncTableStatus(ctx, q, order.TableID)
	})
	if err != nil {
		return false, apperror.As(err)
	}
	return deleted, nil
}

func (s *Service) OrdersByTableSession(ctx context.Context, tableID int64, sessionID string) ([]models.Order, error) {
	list, err := s.Store.ListOrdersByTableSession(ctx, tableID, sessionID)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	list, err = AttachItems(ctx, s.Store, list)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	return list, nil
}

func (s *Service) SessionTotal(ctx context.Context, tableID int64, sessionID string) (decimal.Decimal, error) {
	list, err := s.Store.ListOrdersByTableSession(ctx, tableID, sessionID)
	if err != nil {
		return decimal.Zero, apperror.Unexpected(err)
	}
	return SumTotals(list), nil
}

// SumTotals adds up order totals.
func SumTotals(list []models.Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range list {
		total = total.Add(o.TotalAmount)
	}
	return total
}

// AttachItems loads the lines of every order in one query.
func AttachItems(ctx context.Context, q store.Querier, list []models.Order) ([]models.Order, error) {
	if len(list) == 0 {
		return list, nil
	}
	ids := make([]int64, 0, len(list))
	for _, o := range list {
		ids = append(ids, o.ID)
	}
	items, err := q.ListOrderItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	byOrder := make(map[int64][]models.OrderItem, len(list))
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	for i := range list {
		list[i].Items = byOrder[list[i].ID]
		if list[i].Items == nil {
			list[i].Items = []models.OrderItem{}
		}
	}
	return list, nil
}

// syncTableStatus marks the table occupied while it has open orders and
// available once the last one is closed. Reserved tables keep their status.
func syncTableStatus(ctx context.Context, q store.Querier, tableID int64) error {
	table, err := q.GetTable(ctx, tableID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	open, err := q.CountOpenOrders(ctx, tableID)
	if err != nil {
		return err
	}
	switch {
	case open > 0 && table.Status != models.TableOccupied:
		_, err = q.UpdateTableStatus(ctx, tableID, models.TableOccupied)
	case open == 0 && table.Status == models.TableOccupied:
		_, err = q.UpdateTableStatus(ctx, tableID, models.TableAvailable)
	}
	return err
}

func (s *Service) publish(ctx context.Context, routingKey string, payload any) {
	if err := s.Events.Publish(ctx, routingKey, payload); err != nil {
		s.Logger.Warn("event publish failed", zap.String("routingKey", routingKey), zap.Error(err))
	}
}

func notFound(err error, message string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperror.NotFound(message)
	}
	return err
}
