package store

import (
	"context"
	"time"

	"restaurant-order-services/internal/models"
	"restaurant-order-services/internal/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const inventoryColumns = `id, name, description, quantity, unit_type, minimum_stock_level, maximum_stock_level,
	status, cost, supplier, location, last_restocked_at`

func scanInventoryItem(row pgx.Row) (models.InventoryItem, error) {
	var it models.InventoryItem
	var quantity, minimum, maximum, cost pgtype.Numeric
	var unit, status string
	if err := row.Scan(
		&it.ID, &it.Name, &it.Description, &quantity, &unit, &minimum, &maximum,
		&status, &cost, &it.Supplier, &it.Location, &it.LastRestockedAt,
	); err != nil {
		return models.InventoryItem{}, mapError(err)
	}
	it.Quantity = utils.NumericToDecimal(quantity)
	it.MinimumStockLevel = utils.NumericToDecimal(minimum)
	it.MaximumStockLevel = utils.NumericToDecimal(maximum)
	it.Cost = utils.NumericToDecimal(cost)
	it.UnitType = models.UnitType(unit)
	it.Status = models.StockStatus(status)
	return it, nil
}

func (q *Queries) InsertInventoryItem(ctx context.Context, item models.InventoryItem) (models.InventoryItem, error) {
	row := q.db.QueryRow(ctx, `
		insert into inventory_items (
			name, description, quantity, unit_type, minimum_stock_level, maximum_stock_level,
			status, cost, supplier, location, last_restocked_at
		) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		returning `+inventoryColumns,
		item.Name, item.Description, item.Quantity, string(item.UnitType), item.MinimumStockLevel,
		item.MaximumStockLevel, string(item.Status), item.Cost, item.Supplier, item.Location, item.LastRestockedAt,
	)
	return scanInventoryItem(row)
}

func (q *Queries) GetInventoryItem(ctx context.Context, id int64) (models.InventoryItem, error) {
	return scanInventoryItem(q.db.QueryRow(ctx, `select `+inventoryColumns+` from inventory_items where id = $1`, id))
}

func (q *Queries) GetInventoryItemForUpdate(ctx context.Context, id int64) (models.InventoryItem, error) {
	return scanInventoryItem(q.db.QueryRow(ctx, `select `+inventoryColumns+` from inventory_items where id = $1 for update`, id))
}

func (q *Queries) ListInventoryItems(ctx context.Context, status *models.StockStatus) ([]models.InventoryItem, error) {
	if status == nil {
		rows, err := q.db.Query(ctx, `select `+inventoryColumns+` from inventory_items order by name`)
		return collect(rows, err, scanInventoryItem)
	}
	rows, err := q.db.Query(ctx, `
		select `+inventoryColumns+` from inventory_items
		where status = $1
		order by name
	`, string(*status))
	return collect(rows, err, scanInventoryItem)
}

func (q *Queries) UpdateInventoryStock(ctx context.Context, id int64, quantity decimal.Decimal, status models.StockStatus, restockedAt *time.Time) error {
	tag, err := q.db.Exec(ctx, `
		update inventory_items
		set quantity = $2, status = $3, last_restocked_at = coalesce($4, last_restocked_at)
		where id = $1
	`, id, quantity, string(status), restockedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const inventoryTxnColumns = `id, item_id, type, quantity, previous_quantity, new_quantity, reason, transaction_date, user_id`

func scanInventoryTransaction(row pgx.Row) (models.InventoryTransaction, error) {
	var t models.InventoryTransaction
	var kind string
	var quantity, previous, next pgtype.Numeric
	if err := row.Scan(&t.ID, &t.ItemID, &kind, &quantity, &previous, &next, &t.Reason, &t.TransactionDate, &t.UserID); err != nil {
		return models.InventoryTransaction{}, mapError(err)
	}
	t.Type = models.TransactionType(kind)
	t.Quantity = utils.NumericToDecimal(quantity)
	t.PreviousQuantity = utils.NumericToDecimal(previous)
	t.NewQuantity = utils.NumericToDecimal(next)
	return t, nil
}

func (q *Queries) InsertInventoryTransaction(ctx context.Context, txn models.InventoryTransaction) (models.InventoryTransaction, error) {
	row := q.db.QueryRow(ctx, `
		insert into inventory_transactions (item_id, type, quantity, previous_quantity, new_quantity, reason, transaction_date, user_id)
		values ($1,$2,$3,$4,$5,$6,$7,$8)
		returning `+inventoryTxnColumns,
		txn.ItemID, string(txn.Type), txn.Quantity, txn.PreviousQuantity, txn.NewQuantity, txn.Reason, txn.TransactionDate, txn.UserID,
	)
	return scanInventoryTransaction(row)
}

func (q *Queries) ListInventoryTransactions(ctx context.Context, itemID int64, limit int) ([]models.InventoryTransaction, error) {
	rows, err := q.db.Query(ctx, `
		select `+inventoryTxnColumns+` from inventory_transactions
		where item_id = $1
		order by transaction_date desc, id desc
		limit $2
	`, itemID, limit)
	return collect(rows, err, scanInventoryTransaction)
}

const kitchenColumns = `id, order_id, table_number, status, priority, estimated_prep_time, started_at, completed_at`

func scanKitchenOrder(row pgx.Row) (models.KitchenOrder, error) {
	var k models.KitchenOrder
	var status string
	if err := row.Scan(&k.ID, &k.OrderID, &k.TableNumber, &status, &k.Priority, &k.EstimatedPrepTime, &k.StartedAt, &k.CompletedAt); err != nil {
		return models.KitchenOrder{}, mapError(err)
	}
	k.Status = models.KitchenStatus(status)
	return k, nil
}

func (q *Queries) InsertKitchenOrder(ctx context.Context, ticket models.KitchenOrder) (models.KitchenOrder, error) {
	row := q.db.QueryRow(ctx, `
		insert into kitchen_orders (order_id, table_number, status, priority, estimated_prep_time, started_at)
		values ($1,$2,$3,$4,$5,$6)
		returning `+kitchenColumns,
		ticket.OrderID, ticket.TableNumber, string(ticket.Status), ticket.Priority, ticket.EstimatedPrepTime, ticket.StartedAt,
	)
	return scanKitchenOrder(row)
}

func (q *Queries) GetKitchenOrder(ctx context.Context, id int64) (models.KitchenOrder, error) {
	return scanKitchenOrder(q.db.QueryRow(ctx, `select `+kitchenColumns+` from kitchen_orders where id = $1`, id))
}

func (q *Queries) ListKitchenOrders(ctx context.Context, statuses []models.KitchenStatus) ([]models.KitchenOrder, error) {
	values := make([]string, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, string(s))
	}
	rows, err := q.db.Query(ctx, `
		select `+kitchenColumns+` from kitchen_orders
		where status = any($1)
		order by priority desc, id asc
	`, values)
	return collect(rows, err, scanKitchenOrder)
}

func (q *Queries) UpdateKitchenOrderStatus(ctx context.Context, id int64, status models.KitchenStatus, estimatedPrepTime *int32, completedAt *time.Time) (bool, error) {
	return affected(q.db.Exec(ctx, `
		update kitchen_orders
		set status = $2, estimated_prep_time = $3, completed_at = coalesce($4, completed_at)
		where id = $1
	`, id, string(status), estimatedPrepTime, completedAt))
}

const kitchenItemColumns = `id, kitchen_order_id, menu_item_name, quantity, special_instructions, status`

func scanKitchenOrderItem(row pgx.Row) (models.KitchenOrderItem, error) {
	var it models.KitchenOrderItem
	var status string
	if err := row.Scan(&it.ID, &it.KitchenOrderID, &it.MenuItemName, &it.Quantity, &it.SpecialInstructions, &status); err != nil {
		return models.KitchenOrderItem{}, mapError(err)
	}
	it.Status = models.KitchenStatus(status)
	return it, nil
}

func (q *Queries) InsertKitchenOrderItem(ctx context.Context, item models.KitchenOrderItem) (models.KitchenOrderItem, error) {
	row := q.db.QueryRow(ctx, `
		insert into kitchen_order_items (kitchen_order_id, menu_item_name, quantity, special_instructions, status)
		values ($1,$2,$3,$4,$5)
		returning `+kitchenItemColumns,
		item.KitchenOrderID, item.MenuItemName, item.Quantity, item.SpecialInstructions, string(item.Status),
	)
	return scanKitchenOrderItem(row)
}

func (q *Queries) ListKitchenOrderItems(ctx context.Context, kitchenOrderIDs []int64) ([]models.KitchenOrderItem, error) {
	if len(kitchenOrderIDs) == 0 {
		return []models.KitchenOrderItem{}, nil
	}
	rows, err := q.db.Query(ctx, `
		select `+kitchenItemColumns+` from kitchen_order_items
		where kitchen_order_id = any($1)
		order by kitchen_order_id, id
	`, kitchenOrderIDs)
	return collect(rows, err, scanKitchenOrderItem)
}
