package kitchen

import (
	"context"
	"errors"
	"strings"
	"time"

	"restaurant-order-services/internal/apperror"
	"restaurant-order-services/internal/events"
	"restaurant-order-services/internal/metrics"
	"restaurant-order-services/internal/models"
	"restaurant-order-services/internal/store"

	"go.uber.org/zap"
)

const defaultPriority int32 = 1

// Notifier is told whenever the set of active tickets may have changed.
type Notifier interface {
	KitchenChanged(ctx context.Context)
}

type Service struct {
	Store    store.Store
	Events   events.Publisher
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
	Notifier Notifier
	Now      func() time.Time
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
	MenuItemName        string  `json:"menuItemName"`
	Quantity            int32   `json:"quantity"`
	SpecialInstructions *string `json:"specialInstructions"`
}

type CreateInput struct {
	OrderID           int64       `json:"orderId"`
	TableNumber       int32       `json:"tableNumber"`
	Items             []ItemInput `json:"items"`
	Priority          *int32      `json:"priority"`
	EstimatedPrepTime *int32      `json:"estimatedPrepTime"`
}

func (in CreateInput) validate() error {
	if in.OrderID <= 0 {
		return apperror.Validation("orderId is required")
	}
	if len(in.Items) == 0 {
		return apperror.Validation("Kitchen order must contain at least one item")
	}
	for _, item := range in.Items {
		if strings.TrimSpace(item.MenuItemName) == "" {
			return apperror.Validation("menuItemName is required")
		}
		if item.Quantity <= 0 {
			return apperror.Validation("Quantity must be greater than zero")
		}
	}
	if in.EstimatedPrepTime != nil && *in.EstimatedPrepTime < 0 {
		return apperror.Validation("estimatedPrepTime cannot be negative")
	}
	return nil
}

// Create writes the ticket header and its lines together. New tickets start
// in NEW with the start time stamped.
func (s *Service) Create(ctx context.Context, in CreateInput) (models.KitchenOrder, error) {
	if err := in.validate(); err != nil {
		return models.KitchenOrder{}, err
	}
	priority := defaultPriority
	if in.Priority != nil {
		priority = *in.Priority
	}

	var ticket models.KitchenOrder
	err := s.Store.InTx(ctx, func(q store.Querier) error {
		started := s.Now()
		created, err := q.InsertKitchenOrder(ctx, models.KitchenOrder{
			OrderID:           in.OrderID,
			TableNumber:       in.TableNumber,
			Status:            models.KitchenNew,
			Priority:          priority,
			EstimatedPrepTime: in.EstimatedPrepTime,
			StartedAt:         &started,
		})
		if err != nil {
			if errors.Is(err, store.ErrReferenced) {
				return apperror.NotFound("Order not found")
			}
			return err
		}

		created.Items = make([]models.KitchenOrderItem, 0, len(in.Items))
		for _, item := range in.Items {
			line, err := q.InsertKitchenOrderItem(ctx, models.KitchenOrderItem{
				KitchenOrderID:      created.ID,
				MenuItemName:        strings.TrimSpace(item.MenuItemName),
				Quantity:            item.Quantity,
				SpecialInstructions: item.SpecialInstructions,
				Status:              models.KitchenNew,
			})
			if err != nil {
				return err
			}
			created.Items = append(created.Items, line)
		}
		ticket = created
		return nil
	})
	if err != nil {
		return models.KitchenOrder{}, apperror.As(err)
	}

	s.Metrics.KitchenStatusChanged(string(ticket.Status))
	s.changed(ctx, ticket)
	return ticket, nil
}

// CreateFromOrder mirrors an order's lines into a new ticket.
func (s *Service) CreateFromOrder(ctx context.Context, orderID int64, priority *int32) (models.KitchenOrder, error) {
	order, err := s.Store.GetOrder(ctx, orderID)
	if err != nil {
		return models.KitchenOrder{}, notFound(err, "Order not found")
	}
	table, err := s.Store.GetTable(ctx, order.TableID)
	if err != nil {
		return models.KitchenOrder{}, notFound(err, "Table not found")
	}
	lines, err := s.Store.ListOrderItems(ctx, []int64{orderID})
	if err != nil {
		return models.KitchenOrder{}, apperror.Unexpected(err)
	}

	in := CreateInput{OrderID: orderID, TableNumber: table.TableNumber, Priority: priority}
	for _, line := range lines {
		in.Items = append(in.Items, ItemInput{
			MenuItemName:        line.MenuItemName,
			Quantity:            line.Quantity,
			SpecialInstructions: line.SpecialInstructions,
		})
	}
	return s.Create(ctx, in)
}

func (s *Service) Get(ctx context.Context, id int64) (models.KitchenOrder, error) {
	ticket, err := s.Store.GetKitchenOrder(ctx, id)
	if err != nil {
		return models.KitchenOrder{}, notFound(err, "Kitchen order not found")
	}
	list, err := attachItems(ctx, s.Store, []models.KitchenOrder{ticket})
	if err != nil {
		return models.KitchenOrder{}, apperror.Unexpected(err)
	}
	return list[0], nil
}

// UpdateStatus overwrites the ticket status and estimate. Reaching
// READY_TO_SERVE stamps the completion time; later states keep it.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status models.KitchenStatus, estimatedPrepTime *int32) (models.KitchenOrder, bool, error) {
	if !status.Valid() {
		return models.KitchenOrder{}, false, apperror.Validation("Invalid kitchen order status")
	}
	if estimatedPrepTime != nil && *estimatedPrepTime < 0 {
		return models.KitchenOrder{}, false, apperror.Validation("estimatedPrepTime cannot be negative")
	}

	var completedAt *time.Time
	now := s.Now()
	if status == models.KitchenReadyToServe {
		completedAt = &now
	}

	ok, err := s.Store.UpdateKitchenOrderStatus(ctx, id, status, estimatedPrepTime, completedAt)
	if err != nil {
		return models.KitchenOrder{}, false, apperror.Unexpected(err)
	}
	if !ok {
		return models.KitchenOrder{}, false, nil
	}

	ticket, err := s.Get(ctx, id)
	if err != nil {
		return models.KitchenOrder{}, false, err
	}
	s.Metrics.KitchenStatusChanged(string(status))
	s.changed(ctx, ticket)
	return ticket, true, nil
}

// Active lists NEW, IN_PREPARATION and READY_TO_SERVE tickets, highest
// priority first.
func (s *Service) Active(ctx context.Context) ([]models.KitchenOrder, error) {
	list, err := s.Store.ListKitchenOrders(ctx, models.ActiveKitchenStatuses)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	list, err = attachItems(ctx, s.Store, list)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	return list, nil
}

func (s *Service) changed(ctx context.Context, ticket models.KitchenOrder) {
	evt := events.KitchenStatusUpdated{
		Type:           events.TypeKitchenStatusUpdated,
		KitchenOrderID: ticket.ID,
		OrderID:        ticket.OrderID,
		Status:         string(ticket.Status),
		UpdatedAt:      s.Now(),
	}
	if err := s.Events.Publish(ctx, events.TypeKitchenStatusUpdated, evt); err != nil {
		s.Logger.Warn("kitchen event publish failed", zap.Int64("kitchenOrderId", ticket.ID), zap.Error(err))
	}
	if s.Notifier != nil {
		s.Notifier.KitchenChanged(ctx)
	}
}

func attachItems(ctx context.Context, q store.Querier, list []models.KitchenOrder) ([]models.KitchenOrder, error) {
	if len(list) == 0 {
		return list, nil
	}
	ids := make([]int64, 0, len(list))
	for _, k := range list {
		ids = append(ids, k.ID)
	}
	items, err := q.ListKitchenOrderItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	byTicket := make(map[int64][]models.KitchenOrderItem, len(list))
	for _, it := range items {
		byTicket[it.KitchenOrderID] = append(byTicket[it.KitchenOrderID], it)
	}
	for i := range list {
		list[i].Items = byTicket[list[i].ID]
		if list[i].Items == nil {
			list[i].Items = []models.KitchenOrderItem{}
		}
	}
	return list, nil
}

func notFound(err error, message string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperror.NotFound(message)
	}
	return apperror.Unexpected(err)
}
