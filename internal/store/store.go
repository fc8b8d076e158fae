// Package store persists the restaurant aggregates. Services talk to the
// Querier interface; multi-row mutations run inside Store.InTx so that a
// failure leaves no partial writes behind.
package store

import (
	"context"
	"errors"
	"time"

	"restaurant-order-services/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound   = errors.New("store: not found")
	ErrDuplicate  = errors.New("store: duplicate key")
	// ErrReferenced is returned when a delete would orphan dependent rows.
	ErrReferenced = errors.New("store: row is still referenced")
)

type Querier interface {
	CreateTable(ctx context.Context, table models.Table) (models.Table, error)
	GetTable(ctx context.Context, id int64) (models.Table, error)
	ListTables(ctx context.Context, status *models.TableStatus) ([]models.Table, error)
	UpdateTableStatus(ctx context.Context, id int64, status models.TableStatus) (bool, error)
	// LockTable serialises session resolution for one table until the
	// surrounding transaction ends.
	LockTable(ctx context.Context, id int64) error

	CreateMenuItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error)
	GetMenuItem(ctx context.Context, id int64) (models.MenuItem, error)
	ListMenuItems(ctx context.Context, available *bool) ([]models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, item models.MenuItem) (bool, error)
	SetMenuItemImages(ctx context.Context, id int64, imageURL string, thumbnailURL string) (bool, error)
	DeleteMenuItem(ctx context.Context, id int64) (bool, error)

	// ActiveSessionID returns the session of the newest non-terminal order on the table.
	ActiveSessionID(ctx context.Context, tableID int64) (string, bool, error)
	InsertOrder(ctx context.Context, order models.Order) (models.Order, error)
	GetOrder(ctx context.Context, id int64) (models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListOrdersByTableSession(ctx context.Context, tableID int64, sessionID string) ([]models.Order, error)
	ListOrdersCreatedBetween(ctx context.Context, from time.Time, to time.Time) ([]models.Order, error)
	CountOpenOrders(ctx context.Context, tableID int64) (int, error)
	AddToOrderTotal(ctx context.Context, orderID int64, delta decimal.Decimal) (bool, error)
	UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (bool, error)
	DeleteOrder(ctx context.Context, id int64) (bool, error)
	InsertOrderItem(ctx context.Context, item models.OrderItem) (models.OrderItem, error)
	GetOrderItem(ctx context.Context, id int64) (models.OrderItem, error)
	ListOrderItems(ctx context.Context, orderIDs []int64) ([]models.OrderItem, error)
	DeleteOrderItem(ctx context.Context, id int64) (bool, error)
	DeleteOrderItemsByOrder(ctx context.Context, orderID int64) error

	InsertPayment(ctx context.Context, payment models.Payment) (models.Payment, error)
	ListPaymentsByOrders(ctx context.Context, orderIDs []int64) ([]models.Payment, error)
	ListPaymentsCreatedBetween(ctx context.Context, from time.Time, to time.Time) ([]models.Payment, error)

	InsertInventoryItem(ctx context.Context, item models.InventoryItem) (models.InventoryItem, error)
	GetInventoryItem(ctx context.Context, id int64) (models.InventoryItem, error)
	GetInventoryItemForUpdate(ctx context.Context, id int64) (models.InventoryItem, error)
	ListInventoryItems(ctx context.Context, status *models.StockStatus) ([]models.InventoryItem, error)
	UpdateInventoryStock(ctx context.Context, id int64, quantity decimal.Decimal, status models.StockStatus, restockedAt *time.Time) error
	InsertInventoryTransaction(ctx context.Context, txn models.InventoryTransaction) (models.InventoryTransaction, error)
	ListInventoryTransactions(ctx context.Context, itemID int64, limit int) ([]models.InventoryTransaction, error)

	InsertKitchenOrder(ctx context.Context, ticket models.KitchenOrder) (models.KitchenOrder, error)
	InsertKitchenOrderItem(ctx context.Context, item models.KitchenOrderItem) (models.KitchenOrderItem, error)
	GetKitchenOrder(ctx context.Context, id int64) (models.KitchenOrder, error)
	ListKitchenOrders(ctx context.Context, statuses []models.KitchenStatus) ([]models.KitchenOrder, error)
	ListKitchenOrderItems(ctx context.Context, kitchenOrderIDs []int64) ([]models.KitchenOrderItem, error)
	UpdateKitchenOrderStatus(ctx context.Context, id int64, status models.KitchenStatus, estimatedPrepTime *int32, completedAt *time.Time) (bool, error)

	InsertReservation(ctx context.Context, reservation models.Reservation) (models.Reservation, error)
	ListReservations(ctx context.Context) ([]models.Reservation, error)
	UpdateReservationStatus(ctx context.Context, id int64, status models.ReservationStatus) (bool, error)

	InsertFeedback(ctx context.Context, feedback models.Feedback) (models.Feedback, error)
	// ListFeedback returns newest first; limit <= 0 means no limit.
	ListFeedback(ctx context.Context, orderID *int64, limit int) ([]models.Feedback, error)

	InsertUser(ctx context.Context, user models.User) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
}

type Store interface {
	Querier
	InTx(ctx context.Context, fn func(q Querier) error) error
}

var (
	_ Store = (*Postgres)(nil)
	_ Store = (*Memory)(nil)
)
