package inventory

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

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	DefaultTransactionLimit = 10
	maxTransactionLimit     = 100
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

type CreateItemInput struct {
	Name              string          `json:"name"`
	Description       *string         `json:"description"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitType          models.UnitType `json:"unitType"`
	MinimumStockLevel decimal.Decimal `json:"minimumStockLevel"`
	MaximumStockLevel decimal.Decimal `json:"maximumStockLevel"`
	Cost              decimal.Decimal `json:"cost"`
	Supplier          *string         `json:"supplier"`
	Location          *string         `json:"location"`
}

func (in CreateItemInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperror.Validation("Name is required")
	}
	if !in.UnitType.Valid() {
		return apperror.Validation("Invalid unit type")
	}
	if in.Quantity.IsNegative() {
		return apperror.Validation("Quantity cannot be negative")
	}
	if in.Cost.IsNegative() {
		return apperror.Validation("Cost cannot be negative")
	}
	if in.MinimumStockLevel.IsNegative() {
		return apperror.Validation("Minimum stock level cannot be negative")
	}
	if !in.MinimumStockLevel.LessThan(in.MaximumStockLevel) {
		return apperror.Validation("Minimum stock level must be less than maximum stock level")
	}
	return nil
}

func (s *Service) CreateItem(ctx context.Context, in CreateItemInput) (models.InventoryItem, error) {
	if err := in.validate(); err != nil {
		return models.InventoryItem{}, err
	}
	now := s.Now()
	item, err := s.Store.InsertInventoryItem(ctx, models.InventoryItem{
		Name:              strings.TrimSpace(in.Name),
		Description:       in.Description,
		Quantity:          in.Quantity,
		UnitType:          in.UnitType,
		MinimumStockLevel: in.MinimumStockLevel,
		MaximumStockLevel: in.MaximumStockLevel,
		Status:            Classify(in.Quantity, in.MinimumStockLevel),
		Cost:              in.Cost,
		Supplier:          in.Supplier,
		Location:          in.Location,
		LastRestockedAt:   &now,
	})
	if err != nil {
		return models.InventoryItem{}, apperror.Unexpected(err)
	}
	return item, nil
}

func (s *Service) Get(ctx context.Context, id int64) (models.InventoryItem, error) {
	item, err := s.Store.GetInventoryItem(ctx, id)
	if err != nil {
		return models.InventoryItem{}, notFound(err)
	}
	return item, nil
}

func (s *Service) List(ctx context.Context) ([]models.InventoryItem, error) {
	items, err := s.Store.ListInventoryItems(ctx, nil)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	return items, nil
}

// LowStockItems lists items whose status is LOW_STOCK. Items that ran out are
// reported separately by their OUT_OF_STOCK status.
func (s *Service) LowStockItems(ctx context.Context) ([]models.InventoryItem, error) {
	status := models.StockLow
	items, err := s.Store.ListInventoryItems(ctx, &status)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	return items, nil
}

// ApplyStockUpdate sets an absolute stock level and records the movement in
// the ledger. The item row and its ledger entry commit together.
func (s *Service) ApplyStockUpdate(ctx context.Context, itemID int64, newQuantity decimal.Decimal, reason *string, actingUser *int64) (models.InventoryItem, error) {
	if newQuantity.IsNegative() {
		return models.InventoryItem{}, apperror.Validation("Quantity cannot be negative")
	}

	var (
		updated models.InventoryItem
		txnType models.TransactionType
	)
	err := s.Store.InTx(ctx, func(q store.Querier) error {
		current, err := q.GetInventoryItemForUpdate(ctx, itemID)
		if err != nil {
			return notFound(err)
		}

		now := s.Now()
		delta := newQuantity.Sub(current.Quantity)
		txnType = models.TransactionStockOut
		var restockedAt *time.Time
		if delta.IsPositive() {
			txnType = models.TransactionStockIn
			restockedAt = &now
		}

		if _, err := q.InsertInventoryTransaction(ctx, models.InventoryTransaction{
			ItemID:           itemID,
			Type:             txnType,
			Quantity:         delta.Abs(),
			PreviousQuantity: current.Quantity,
			NewQuantity:      newQuantity,
			Reason:           reason,
			TransactionDate:  now,
			UserID:           actingUser,
		}); err != nil {
			return err
		}

		status := Classify(newQuantity, current.MinimumStockLevel)
		if err := q.UpdateInventoryStock(ctx, itemID, newQuantity, status, restockedAt); err != nil {
			return err
		}

		updated, err = q.GetInventoryItem(ctx, itemID)
		return err
	})
	if err != nil {
		return models.InventoryItem{}, apperror.As(err)
	}

	s.Metrics.StockUpdated(string(txnType))
	if updated.Status == models.StockLow || updated.Status == models.StockOut {
		evt := events.InventoryLowStock{
			Type:              events.TypeInventoryLowStock,
			ItemID:            updated.ID,
			Name:              updated.Name,
			Quantity:          updated.Quantity,
			MinimumStockLevel: updated.MinimumStockLevel,
			Status:            string(updated.Status),
		}
		if err := s.Events.Publish(ctx, events.TypeInventoryLowStock, evt); err != nil {
			s.Logger.Warn("low stock event publish failed", zap.Int64("itemId", updated.ID), zap.Error(err))
		}
	}
	return updated, nil
}

func (s *Service) Transactions(ctx context.Context, itemID int64, limit int) ([]models.InventoryTransaction, error) {
	if limit <= 0 {
		limit = DefaultTransactionLimit
	}
	if limit > maxTransactionLimit {
		limit = maxTransactionLimit
	}
	if _, err := s.Store.GetInventoryItem(ctx, itemID); err != nil {
		return nil, notFound(err)
	}
	txns, err := s.Store.ListInventoryTransactions(ctx, itemID, limit)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	return txns, nil
}

func notFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperror.NotFound("Inventory item not found")
	}
	return apperror.Unexpected(err)
}
