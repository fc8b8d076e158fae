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

const tableColumns = `id, table_number, capacity, status`

func scanTable(row pgx.Row) (models.Table, error) {
	var t models.Table
	var status string
	if err := row.Scan(&t.ID, &t.TableNumber, &t.Capacity, &status); err != nil {
		return models.Table{}, mapError(err)
	}
	t.Status = models.TableStatus(status)
	return t, nil
}

func (q *Queries) CreateTable(ctx context.Context, table models.Table) (models.Table, error) {
	row := q.db.QueryRow(ctx, `
		insert into restaurant_tables (table_number, capacity, status)
		values ($1, $2, $3)
		returning `+tableColumns, table.TableNumber, table.Capacity, string(table.Status))
	return scanTable(row)
}

func (q *Queries) GetTable(ctx context.Context, id int64) (models.Table, error) {
	return scanTable(q.db.QueryRow(ctx, `select `+tableColumns+` from restaurant_tables where id = $1`, id))
}

func (q *Queries) ListTables(ctx context.Context, status *models.TableStatus) ([]models.Table, error) {
	if status == nil {
		rows, err := q.db.Query(ctx, `select `+tableColumns+` from restaurant_tables order by table_number`)
		return collect(rows, err, scanTable)
	}
	rows, err := q.db.Query(ctx, `
		select `+tableColumns+` from restaurant_tables
		where status = $1
		order by table_number
	`, string(*status))
	return collect(rows, err, scanTable)
}

func (q *Queries) UpdateTableStatus(ctx context.Context, id int64, status models.TableStatus) (bool, error) {
	return affected(q.db.Exec(ctx, `update restaurant_tables set status = $2 where id = $1`, id, string(status)))
}

func (q *Queries) LockTable(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, `select pg_advisory_xact_lock($1)`, id)
	return err
}

const menuColumns = `id, name, description, price, category, is_available, image_url, thumbnail_url`

func scanMenuItem(row pgx.Row) (models.MenuItem, error) {
	var m models.MenuItem
	var price pgtype.Numeric
	if err := row.Scan(&m.ID, &m.Name, &m.Description, &price, &m.Category, &m.IsAvailable, &m.ImageURL, &m.ThumbnailURL); err != nil {
		return models.MenuItem{}, mapError(err)
	}
	m.Price = utils.NumericToDecimal(price)
	return m, nil
}

func (q *Queries) CreateMenuItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	row := q.db.QueryRow(ctx, `
		insert into menu_items (name, description, price, category, is_available)
		values ($1, $2, $3, $4, $5)
		returning `+menuColumns, item.Name, item.Description, item.Price, item.Category, item.IsAvailable)
	return scanMenuItem(row)
}

func (q *Queries) GetMenuItem(ctx context.Context, id int64) (models.MenuItem, error) {
	return scanMenuItem(q.db.QueryRow(ctx, `select `+menuColumns+` from menu_items where id = $1`, id))
}

func (q *Queries) ListMenuItems(ctx context.Context, available *bool) ([]models.MenuItem, error) {
	if available == nil {
		rows, err := q.db.Query(ctx, `select `+menuColumns+` from menu_items order by category, name`)
		return collect(rows, err, scanMenuItem)
	}
	rows, err := q.db.Query(ctx, `
		select `+menuColumns+` from menu_items
		where is_available = $1
		order by category, name
	`, *available)
	return collect(rows, err, scanMenuItem)
}

func (q *Queries) UpdateMenuItem(ctx context.Context, item models.MenuItem) (bool, error) {
	return affected(q.db.Exec(ctx, `
		update menu_items
		set name = $2, description = $3, price = $4, category = $5, is_available = $6
		where id = $1
	`, item.ID, item.Name, item.Description, item.Price, item.Category, item.IsAvailable))
}

func (q *Queries) SetMenuItemImages(ctx context.Context, id int64, imageURL string, thumbnailURL string) (bool, error) {
	return affected(q.db.Exec(ctx, `
		update menu_items set image_url = $2, thumbnail_url = $3 where id = $1
	`, id, imageURL, thumbnailURL))
}

func (q *Queries) DeleteMenuItem(ctx context.Context, id int64) (bool, error) {
	return affected(q.db.Exec(ctx, `delete from menu_items where id = $1`, id))
}

const orderColumns = `id, table_id, session_id, status, total_amount, created_at`

func scanOrder(row pgx.Row) (models.Order, error) {
	var o models.Order
	var status string
	var total pgtype.Numeric
	if err := row.Scan(&o.ID, &o.TableID, &o.SessionID, &status, &total, &o.CreatedAt); err != nil {
		return models.Order{}, mapError(err)
	}
	o.Status = models.OrderStatus(status)
	o.TotalAmount = utils.NumericToDecimal(total)
	return o, nil
}

func (q *Queries) ActiveSessionID(ctx context.Context, tableID int64) (string, bool, error) {
	var sessionID string
	err := q.db.QueryRow(ctx, `
		select session_id from orders
		where table_id = $1 and status not in ('SERVED', 'CANCELLED')
		order by created_at desc, id desc
		limit 1
	`, tableID).Scan(&sessionID)
	if err != nil {
		if mapError(err) == ErrNotFound {
			return "", false, nil
		}
		return "", false, err
	}
	return sessionID, true, nil
}

func (q *Queries) InsertOrder(ctx context.Context, order models.Order) (models.Order, error) {
	row := q.db.QueryRow(ctx, `
		insert into orders (table_id, session_id, status, total_amount, created_at)
		values ($1, $2, $3, $4, $5)
		returning `+orderColumns,
		order.TableID, order.SessionID, string(order.Status), order.TotalAmount, order.CreatedAt)
	return scanOrder(row)
}

func (q *Queries) GetOrder(ctx context.Context, id int64) (models.Order, error) {
	return scanOrder(q.db.QueryRow(ctx, `select `+orderColumns+` from orders where id = $1`, id))
}

func (q *Queries) ListOrders(ctx context.Context) ([]models.Order, error) {
	rows, err := q.db.Query(ctx, `select `+orderColumns+` from orders order by created_at desc, id desc`)
	return collect(rows, err, scanOrder)
}

func (q *Queries) ListOrdersByTableSession(ctx context.Context, tableID int64, sessionID string) ([]models.Order, error) {
	rows, err := q.db.Query(ctx, `
		select `+orderColumns+` from orders
		where table_id = $1 and session_id = $2
		order by created_at asc, id asc
	`, tableID, sessionID)
	return collect(rows, err, scanOrder)
}

func (q *Queries) ListOrdersCreatedBetween(ctx context.Context, from time.Time, to time.Time) ([]models.Order, error) {
	rows, err := q.db.Query(ctx, `
		select `+orderColumns+` from orders
		where created_at >= $1 and created_at < $2
		order by created_at asc, id asc
	`, from, to)
	return collect(rows, err, scanOrder)
}

func (q *Queries) CountOpenOrders(ctx context.Context, tableID int64) (int, error) {
	var count int
	err := q.db.QueryRow(ctx, `
		select count(*) from orders
		where table_id = $1 and status not in ('SERVED', 'CANCELLED')
	`, tableID).Scan(&count)
	return count, err
}

func (q *Queries) AddToOrderTotal(ctx context.Context, orderID int64, delta decimal.Decimal) (bool, error) {
	return affected(q.db.Exec(ctx, `
		update orders set total_amount = total_amount + $2 where id = $1
	`, orderID, delta))
}

func (q *Queries) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (bool, error) {
	return affected(q.db.Exec(ctx, `update orders set status = $2 where id = $1`, id, string(status)))
}

func (q *Queries) DeleteOrder(ctx context.Context, id int64) (bool, error) {
	return affected(q.db.Exec(ctx, `delete from orders where id = $1`, id))
}

const orderItemColumns = `id, order_id, menu_item_id, menu_item_name, quantity, item_price, special_instructions`

func scanOrderItem(row pgx.Row) (models.OrderItem, error) {
	var it models.OrderItem
	var price pgtype.Numeric
	if err := row.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.MenuItemName, &it.Quantity, &price, &it.SpecialInstructions); err != nil {
		return models.OrderItem{}, mapError(err)
	}
	it.ItemPrice = utils.NumericToDecimal(price)
	return it, nil
}

func (q *Queries) InsertOrderItem(ctx context.Context, item models.OrderItem) (models.OrderItem, error) {
	row := q.db.QueryRow(ctx, `
		insert into order_items (order_id, menu_item_id, menu_item_name, quantity, item_price, special_instructions)
		values ($1, $2, $3, $4, $5, $6)
		returning `+orderItemColumns,
		item.OrderID, item.MenuItemID, item.MenuItemName, item.Quantity, item.ItemPrice, item.SpecialInstructions)
	return scanOrderItem(row)
}

func (q *Queries) GetOrderItem(ctx context.Context, id int64) (models.OrderItem, error) {
	return scanOrderItem(q.db.QueryRow(ctx, `select `+orderItemColumns+` from order_items where id = $1`, id))
}

func (q *Queries) ListOrderItems(ctx context.Context, orderIDs []int64) ([]models.OrderItem, error) {
	if len(orderIDs) == 0 {
		return []models.OrderItem{}, nil
	}
	rows, err := q.db.Query(ctx, `
		select `+orderItemColumns+` from order_items
		where order_id = any($1)
		order by order_id, id
	`, orderIDs)
	return collect(rows, err, scanOrderItem)
}

func (q *Queries) DeleteOrderItem(ctx context.Context, id int64) (bool, error) {
	return affected(q.db.Exec(ctx, `delete from order_items where id = $1`, id))
}

func (q *Queries) DeleteOrderItemsByOrder(ctx context.Context, orderID int64) error {
	_, err := q.db.Exec(ctx, `delete from order_items where order_id = $1`, orderID)
	return err
}

const paymentColumns = `id, order_id, amount, payment_method, payment_status, transaction_reference, created_at`

func scanPayment(row pgx.Row) (models.Payment, error) {
	var p models.Payment
	var amount pgtype.Numeric
	var method, status string
	if err := row.Scan(&p.ID, &p.OrderID, &amount, &method, &status, &p.TransactionReference, &p.CreatedAt); err != nil {
		return models.Payment{}, mapError(err)
	}
	p.Amount = utils.NumericToDecimal(amount)
	p.PaymentMethod = models.PaymentMethod(method)
	p.PaymentStatus = models.PaymentStatus(status)
	return p, nil
}

func (q *Queries) InsertPayment(ctx context.Context, payment models.Payment) (models.Payment, error) {
	row := q.db.QueryRow(ctx, `
		insert into payments (order_id, amount, payment_method, payment_status, transaction_reference, created_at)
		values ($1, $2, $3, $4, $5, $6)
		returning `+paymentColumns,
		payment.OrderID, payment.Amount, string(payment.PaymentMethod), string(payment.PaymentStatus),
		payment.TransactionReference, payment.CreatedAt)
	return scanPayment(row)
}

func (q *Queries) ListPaymentsByOrders(ctx context.Context, orderIDs []int64) ([]models.Payment, error) {
	if len(orderIDs) == 0 {
		return []models.Payment{}, nil
	}
	rows, err := q.db.Query(ctx, `
		select `+paymentColumns+` from payments
		where order_id = any($1)
		order by created_at asc, id asc
	`, orderIDs)
	return collect(rows, err, scanPayment)
}

func (q *Queries) ListPaymentsCreatedBetween(ctx context.Context, from time.Time, to time.Time) ([]models.Payment, error) {
	rows, err := q.db.Query(ctx, `
		select `+paymentColumns+` from payments
		where created_at >= $1 and created_at < $2
		order by created_at asc, id asc
	`, from, to)
	return collect(rows, err, scanPayment)
}
