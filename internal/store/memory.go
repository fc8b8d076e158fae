package store

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"restaurant-order-services/internal/models"

	"github.com/shopspring/decimal"
)

// Memory is an in-process Store. Transactions are serialised and roll back
// by restoring a snapshot taken when they began.
type Memory struct {
	memQueries

	mu   sync.Mutex
	data *memData
}

func NewMemory() *Memory {
	m := &Memory{data: newMemData()}
	m.memQueries = memQueries{m: m}
	return m
}

func (m *Memory) InTx(ctx context.Context, fn func(q Querier) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.data.clone()
	if err := fn(&memQueries{m: m, inTx: true}); err != nil {
		m.data = snapshot
		return err
	}
	return nil
}

type memData struct {
	seq           map[string]int64
	tables        map[int64]models.Table
	menu          map[int64]models.MenuItem
	orders        map[int64]models.Order
	orderItems    map[int64]models.OrderItem
	payments      map[int64]models.Payment
	inventory     map[int64]models.InventoryItem
	inventoryTxns map[int64]models.InventoryTransaction
	kitchen       map[int64]models.KitchenOrder
	kitchenItems  map[int64]models.KitchenOrderItem
	reservations  map[int64]models.Reservation
	feedback      map[int64]models.Feedback
	users         map[int64]models.User
}

func newMemData() *memData {
	return &memData{
		seq:           map[string]int64{},
		tables:        map[int64]models.Table{},
		menu:          map[int64]models.MenuItem{},
		orders:        map[int64]models.Order{},
		orderItems:    map[int64]models.OrderItem{},
		payments:      map[int64]models.Payment{},
		inventory:     map[int64]models.InventoryItem{},
		inventoryTxns: map[int64]models.InventoryTransaction{},
		kitchen:       map[int64]models.KitchenOrder{},
		kitchenItems:  map[int64]models.KitchenOrderItem{},
		reservations:  map[int64]models.Reservation{},
		feedback:      map[int64]models.Feedback{},
		users:         map[int64]models.User{},
	}
}

// Rows are stored by value and never mutated through pointers, so a shallow
// copy of every map is a complete snapshot.
func (d *memData) clone() *memData {
	return &memData{
		seq:           maps.Clone(d.seq),
		tables:        maps.Clone(d.tables),
		menu:          maps.Clone(d.menu),
		orders:        maps.Clone(d.orders),
		orderItems:    maps.Clone(d.orderItems),
		payments:      maps.Clone(d.payments),
		inventory:     maps.Clone(d.inventory),
		inventoryTxns: maps.Clone(d.inventoryTxns),
		kitchen:       maps.Clone(d.kitchen),
		kitchenItems:  maps.Clone(d.kitchenItems),
		reservations:  maps.Clone(d.reservations),
		feedback:      maps.Clone(d.feedback),
		users:         maps.Clone(d.users),
	}
}

func (d *memData) next(name string) int64 {
	d.seq[name]++
	return d.seq[name]
}

type memQueries struct {
	m    *Memory
	inTx bool
}

// acquire takes the store lock unless the caller already runs inside InTx.
func (q *memQueries) acquire() (*memData, func()) {
	if q.inTx {
		return q.m.data, func() {}
	}
	q.m.mu.Lock()
	return q.m.data, q.m.mu.Unlock
}

func nowIfZero(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}

func sortedValues[T any](rows map[int64]T, keep func(T) bool, less func(a, b T) bool) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if keep == nil || keep(row) {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func idSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (q *memQueries) CreateTable(ctx context.Context, table models.Table) (models.Table, error) {
	d, release := q.acquire()
	defer release()
	for _, existing := range d.tables {
		if existing.TableNumber == table.TableNumber {
			return models.Table{}, ErrDuplicate
		}
	}
	table.ID = d.next("tables")
	d.tables[table.ID] = table
	return table, nil
}

func (q *memQueries) GetTable(ctx context.Context, id int64) (models.Table, error) {
	d, release := q.acquire()
	defer release()
	t, ok := d.tables[id]
	if !ok {
		return models.Table{}, ErrNotFound
	}
	return t, nil
}

func (q *memQueries) ListTables(ctx context.Context, status *models.TableStatus) ([]models.Table, error) {
	d, release := q.acquire()
	defer release()
	return sortedValues(d.tables,
		func(t models.Table) bool { return status == nil || t.Status == *status },
		func(a, b models.Table) bool { return a.TableNumber < b.TableNumber },
	), nil
}

func (q *memQueries) UpdateTableStatus(ctx context.Context, id int64, status models.TableStatus) (bool, error) {
	d, release := q.acquire()
	defer release()
	t, ok := d.tables[id]
	if !ok {
		return false, nil
	}
	t.Status = status
	d.tables[id] = t
	return true, nil
}

// LockTable is a no-op: every memory transaction already holds the store lock.
func (q *memQueries) LockTable(ctx context.Context, id int64) error {
	return nil
}

func (q *memQueries) CreateMenuItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	d, release := q.acquire()
	defer release()
	item.ID = d.next("menu")
	d.menu[item.ID] = item
	return item, nil
}

func (q *memQueries) GetMenuItem(ctx context.Context, id int64) (models.MenuItem, error) {
	d, release := q.acquire()
	defer release()
	m, ok := d.menu[id]
	if !ok {
		return models.MenuItem{}, ErrNotFound
	}
	return m, nil
}

func (q *memQueries) ListMenuItems(ctx context.Context, available *bool) ([]models.MenuItem, error) {
	d, release := q.acquire()
	defer release()
	return sortedValues(d.menu,
		func(m models.MenuItem) bool { return available == nil || m.IsAvailable == *available },
		func(a, b models.MenuItem) bool {
			if a.Category != b.Category {
				return a.Category < b.Category
			}
			return a.Name < b.Name
		},
	), nil
}

func (q *memQueries) UpdateMenuItem(ctx context.Context, item models.MenuItem) (bool, error) {
	d, release := q.acquire()
	defer release()
	existing, ok := d.menu[item.ID]
	if !ok {
		return false, nil
	}
	item.ImageURL = existing.ImageURL
	item.ThumbnailURL = existing.ThumbnailURL
	d.menu[item.ID] = item
	return true, nil
}

func (q *memQueries) SetMenuItemImages(ctx context.Context, id int64, imageURL string, thumbnailURL string) (bool, error) {
	d, release := q.acquire()
	defer release()
	m, ok := d.menu[id]
	if !ok {
		return false, nil
	}
	m.ImageURL = &imageURL
	m.ThumbnailURL = &thumbnailURL
	d.menu[id] = m
	return true, nil
}

func (q *memQueries) DeleteMenuItem(ctx context.Context, id int64) (bool, error) {
	d, release := q.acquire()
	defer release()
	if _, ok := d.menu[id]; !ok {
		return false, nil
	}
	for _, item := range d.orderItems {
		if item.MenuItemID == id {
			return false, ErrReferenced
		}
	}
	delete(d.menu, id)
	return true, nil
}

func newestFirst(a, b models.Order) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func oldestFirst(a, b models.Order) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

func (q *memQueries) ActiveSessionID(ctx context.Context, tableID int64) (string, bool, error) {
	d, release := q.acquire()
	defer release()
	open := sortedValues(d.orders,
		func(o models.Order) bool { return o.TableID == tableID && !o.Status.Terminal() },
		newestFirst,
	)
	if len(open) == 0 {
		return "", false, nil
	}
	return open[0].SessionID, true, nil
}

func (q *memQueries) InsertOrder(ctx context.Context, order models.Order) (models.Order, error) {
	d, release := q.acquire()
	defer release()
	order.ID = d.next("orders")
	order.CreatedAt = nowIfZero(order.CreatedAt)
	order.Items = nil
	d.orders[order.ID] = order
	return order, nil
}

func (q *memQueries) GetOrder(ctx context.Context, id int64) (models.Order, error) {
	d, release := q.acquire()
	defer release()
	o, ok := d.orders[id]
	if !ok {
		return models.Order{}, ErrNotFound
	}
	return o, nil
}

func (q *memQueries) ListOrders(ctx context.Context) ([]models.Order, error) {
	d, release := q.acquire()
	defer release()
	return sortedValues(d.orders, nil, newestFirst), nil
}

func (q *memQueries) ListOrdersByTableSession(ctx context.Context, tableID int64, sessionID string) ([]models.Order, error) {
	d, release := q.acquire()
	defer release()
	return sortedValues(d.orders,
		func(o models.Order) bool { return o.TableID == tableID && o.SessionID == sessionID },
		oldestFirst,
	), nil
}

func (q *memQueries) ListOrdersCreatedBetween(ctx context.Context, from time.Time, to time.Time) ([]models.Order, error) {
	d, release := q.acquire()
	defer release()
	return sortedValues(d.orders,
		func(o models.Order) bool { return !o.CreatedAt.Before(from) && o.CreatedAt.Before(to) },
		oldestFirst,
	), nil
}

func (q *memQueries) CountOpenOrders(ctx context.Context, tableID int64) (int, error) {
	d, release := q.acquire()
	defer release()
	count := 0
	for _, o := range d.orders {
		if o.TableID == tableID && !o.Status.Terminal() {
			count++
		}
	}
	return count, nil
}

func (q *memQueries) AddToOrderTotal(ctx context.Context, orderID int64, delta decimal.Decimal) (bool, error) {
	d, release := q.acquire()
	defer release()
	o, ok := d.orders[orderID]
	if !ok {
		return false, nil
	}
	o.TotalAmount = o.TotalAmount.Add(delta)
	d.orders[orderID] = o
	return true, nil
}

func (q *memQueries) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (bool, error) {
	d, release := q.acquire()
	defer release()
	o, ok := d.orders[id]
	if !ok {
		return false, nil
	}
	o.Status = status
	d.orders[id] = o
	return true, nil
}

// DeleteOrder mirrors the relational constraints: payments and items block
// the delete, kitchen tickets and feedback cascade.
func (q *memQueries) DeleteOrder(ctx context.Context, id int64) (bool, error) {
	d, release := q.acquire()
	defer release()
	if _, ok := d.orders[id]; !ok {
		return false, nil
	}
	for _, p := range d.payments {
		if p.OrderID == id {
			return false, ErrReferenced
		}
	}
	for _, it := range d.orderItems {
		if it.OrderID == id {
			return false, ErrReferenced
		}
	}
	for kid, k := range d.kitchen {
		if k.OrderID != id {
			continue
		}
		for iid, it := range d.kitchenItems {
			if it.KitchenOrderID == kid {
				delete(d.kitchenItems, iid)
			}
		}
		delete(d.kitchen, kid)
	}
	for fid, f := range d.feedback {
		if f.OrderID == id {
			delete(d.feedback, fid)
		}
	}
	delete(d.orders, id)
	return true, nil
}

func (q *memQueries) InsertOrderItem(ctx context.Context, item models.OrderItem) (models.OrderItem, error) {
	d, release := q.acquire()
	defer release()
	if _, ok := d.orders[item.OrderID]; !ok {
		return models.OrderItem{}, ErrReferenced
	}
	item.ID = d.next("order_items")
	d.orderItems[item.ID] = item
	return item, nil
}

func (q *memQueries) GetOrderItem(ctx context.Context, id int64) (models.OrderItem, error) {
	d, release := q.acquire()
	defer release()
	it, ok := d.orderItems[id]
	if !ok {
		return models.OrderItem{}, ErrNotFound
	}
	return it, nil
}

func (q *memQueries) ListOrderItems(ctx context.Context, orderIDs []int64) ([]models.OrderItem, error) {
	d, release := q.acquire()
	defer release()
	wanted := idSet(orderIDs)
	return sortedValues(d.orderItems,
		func(it models.OrderItem) bool { _, ok := wanted[it.OrderID]; return ok },
		func(a, b models.OrderItem) bool {
			if a.OrderID != b.OrderID {
				return a.OrderID < b.OrderID
			}
			return a.ID < b.ID
		},
	), nil
}

func (q *memQueries) DeleteOrderItem(ctx context.Context, id int64) (bool, error) {
	d, release := q.acquire()
	defer release()
	if _, ok := d.orderItems[id]; !ok {
		return false, nil
	}
	delete(d.orderItems, id)
	return true, nil
}

func (q *memQueries) DeleteOrderItemsByOrder(ctx context.Context, orderID int64) error {
	d, release := q.acquire()
	defer release()
	for id, it := range d.orderItems {
		if it.OrderID == orderID {
			delete(d.orderItems, id)
		}
	}
	return nil
}

func paymentsOldestFirst(a, b models.Payment) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

func (q *memQueries) InsertPayment(ctx context.Context, payment models.Payment) (models.Payment, error) {
	d, release := q.acquire()
	defer release()
	if _, ok := d.orders[payment.OrderID]; !ok {
		return models.Payment{}, ErrReferenced
	}
	payment.ID = d.next("payments")
	payment.CreatedAt = nowIfZero(payment.CreatedAt)
	d.payments[payment.ID] = payment
	return payment, nil
}

func (q *memQueries) ListPaymentsByOrders(ctx context.Context, orderIDs []int64) ([]models.Payment, error) {
	d, release := q.acquire()
	defer release()
	wanted := idSet(orderIDs)
	return sortedValues(d.payments,
		func(p models.Payment) bool { _, ok := wanted[p.OrderID]; return ok },
		paymentsOldestFirst,
	), nil
}

func (q *memQueries) ListPaymentsCreatedBetween(ctx context.Context, from time.Time, to time.Time) ([]models.Payment, error) {
	d, release := q.acquire()
	defer release()
	return sortedValues(d.payments,
		func(p models.Payment) bool { return !p.CreatedAt.Before(from) && p.CreatedAt.Before(to) },
		paymentsOldestFirst,
	), nil
}

func (q *memQueries) InsertInventoryItem(ctx context.Context, item models.InventoryItem) (models.InventoryItem, error) {
	d, release := q.acquire()
	defer release()
	item.ID = d.next("inventory")
	d.inventory[item.ID] = item
	return item, nil
}

func (q *memQueries) GetInventoryItem(ctx context.Context, id int64) (models.InventoryItem, error) {
	d, release := q.acquire()
	defer release()
	it, ok := d.inventory[id]
	if !ok {
		return models.InventoryItem{}, ErrNotFound
	}
	return it, nil
}

func (q *memQueries) GetInventoryItemForUpdate(ctx context.Context, id int64) (models.InventoryItem, error) {
	return q.GetInventoryItem(ctx, id)
}

func (q *memQueries) ListInventoryItems(ctx context.Context, status *models.StockStatus) ([]models.InventoryItem, error) {
	d, release := q.acquire()
	defer release()
	return sortedValues(d.inventory,
		func(it models.InventoryItem) bool { return status == nil || it.Status == *status },
		func(a, b models.InventoryItem) bool { return a.Name < b.Name },
	), nil
}

func (q *memQueries) UpdateInventoryStock(ctx context.Context, id int64, quantity decimal.Decimal, status models.StockStatus, restockedAt *time.Time) error {
	d, release := q.acquire()
	defer release()
	it, ok := d.inventory[id]
	if !ok {
		return ErrNotFound
	}
	it.Quantity = quantity
	it.Status = status
	if restockedAt != nil {
		at := *restockedAt
		it.LastRestockedAt = &at
	}
	d.inventory[id] = it
	return nil
}

func (q *memQueries) InsertInventoryTransaction(ctx context.Context, txn models.InventoryTransaction) (models.InventoryTransaction, error) {
	d, release := q.acquire()
	defer release()
	if _, ok := d.inventory[txn.ItemID]; !ok {
		return models.InventoryTransaction{}, ErrReferenced
	}
	txn.ID = d.next("inventory_transactions")
	txn.TransactionDate = nowIfZero(txn.TransactionDate)
	d.inventoryTxns[txn.ID] = txn
	return txn, nil
}

func (q *memQueries) ListInventoryTransactions(ctx context.Context, itemID int64, limit int) ([]models.InventoryTransaction, error) {
	d, release := q.acquire()
	defer release()
	out := sortedValues(d.inventoryTxns,
		func(t models.InventoryTransaction) bool { return t.ItemID == itemID },
		func(a, b models.InventoryTransaction) bool {
			if !a.TransactionDate.Equal(b.TransactionDate) {
				return a.TransactionDate.After(b.TransactionDate)
			}
			return a.ID > b.ID
		},
	)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (q *memQueries) InsertKitchenOrder(ctx context.Context, ticket models.KitchenOrder) (models.KitchenOrder, error) {
	d, release := q.acquire()
	defer release()
	if _, ok := d.orders[ticket.OrderID]; !ok {
		return models.KitchenOrder{}, ErrReferenced
	}
	ticket.ID = d.next("kitchen")
	ticket.Items = nil
	d.kitchen[ticket.ID] = ticket
	return ticket, nil
}

func (q *memQueries) InsertKitchenOrderItem(ctx context.Context, item models.KitchenOrderItem) (models.KitchenOrderItem, error) {
	d, release := q.acquire()
	defer release()
	item.ID = d.next("kitchen_items")
	d.kitchenItems[item.ID] = item
	return item, nil
}

func (q *memQueries) GetKitchenOrder(ctx context.Context, id int64) (models.KitchenOrder, error) {
	d, release := q.acquire()
	defer release()
	k, ok := d.kitchen[id]
	if !ok {
		return models.KitchenOrder{}, ErrNotFound
	}
	return k, nil
}

func (q *memQueries) ListKitchenOrders(ctx context.Context, statuses []models.KitchenStatus) ([]models.KitchenOrder, error) {
	d, release := q.acquire()
	defer release()
	wanted := make(map[models.KitchenStatus]bool, len(statuses))
	for _, s := range statuses {
		wanted[s] = true
	}
	return sortedValues(d.kitchen,
		func(k models.KitchenOrder) bool { return wanted[k.Status] },
		func(a, b models.KitchenOrder) bool {
			if a.Priority != b.Priority {
				return a.Priority > b.Priority
			}
			return a.ID < b.ID
		},
	), nil
}

func (q *memQueries) ListKitchenOrderItems(ctx context.Context, kitchenOrderIDs []int64) ([]models.KitchenOrderItem, error) {
	d, release := q.acquire()
	defer release()
	wanted := idSet(kitchenOrderIDs)
	return sortedValues(d.kitchenItems,
		func(it models.KitchenOrderItem) bool { _, ok := wanted[it.KitchenOrderID]; return ok },
		func(a, b models.KitchenOrderItem) bool {
			if a.KitchenOrderID != b.KitchenOrderID {
				return a.KitchenOrderID < b.KitchenOrderID
			}
			return a.ID < b.ID
		},
	), nil
}

func (q *memQueries) UpdateKitchenOrderStatus(ctx context.Context, id int64, status models.KitchenStatus, estimatedPrepTime *int32, completedAt *time.Time) (bool, error) {
	d, release := q.acquire()
	defer release()
	k, ok := d.kitchen[id]
	if !ok {
		return false, nil
	}
	k.Status = status
	k.EstimatedPrepTime = estimatedPrepTime
	if completedAt != nil {
		at := *completedAt
		k.CompletedAt = &at
	}
	d.kitchen[id] = k
	return true, nil
}

func (q *memQueries) InsertReservation(ctx context.Context, reservation models.Reservation) (models.Reservation, error) {
	d, release := q.acquire()
	defer release()
	reservation.ID = d.next("reservations")
	reservation.CreatedAt = nowIfZero(reservation.CreatedAt)
	d.reservations[reservation.ID] = reservation
	return reservation, nil
}

func (q *memQueries) ListReservations(ctx context.Context) ([]models.Reservation, error) {
	d, release := q.acquire()
	defer release()
	return sortedValues(d.reservations, nil, func(a, b models.Reservation) bool {
		if a.ReservationDate != b.ReservationDate {
			return a.ReservationDate < b.ReservationDate
		}
		if a.ReservationTime != b.ReservationTime {
			return a.ReservationTime < b.ReservationTime
		}
		return a.ID < b.ID
	}), nil
}

func (q *memQueries) UpdateReservationStatus(ctx context.Context, id int64, status models.ReservationStatus) (bool, error) {
	d, release := q.acquire()
	defer release()
	r, ok := d.reservations[id]
	if !ok {
		return false, nil
	}
	r.Status = status
	d.reservations[id] = r
	return true, nil
}

func (q *memQueries) InsertFeedback(ctx context.Context, feedback models.Feedback) (models.Feedback, error) {
	d, release := q.acquire()
	defer release()
	if _, ok := d.orders[feedback.OrderID]; !ok {
		return models.Feedback{}, ErrReferenced
	}
	feedback.ID = d.next("feedback")
	feedback.CreatedAt = nowIfZero(feedback.CreatedAt)
	d.feedback[feedback.ID] = feedback
	return feedback, nil
}

func (q *memQueries) ListFeedback(ctx context.Context, orderID *int64, limit int) ([]models.Feedback, error) {
	d, release := q.acquire()
	defer release()
	out := sortedValues(d.feedback,
		func(f models.Feedback) bool { return orderID == nil || f.OrderID == *orderID },
		func(a, b models.Feedback) bool {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID > b.ID
		},
	)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (q *memQueries) InsertUser(ctx context.Context, user models.User) (models.User, error) {
	d, release := q.acquire()
	defer release()
	for _, existing := range d.users {
		if strings.EqualFold(existing.Email, user.Email) || existing.Username == user.Username {
			return models.User{}, ErrDuplicate
		}
	}
	user.ID = d.next("users")
	user.CreatedAt = nowIfZero(user.CreatedAt)
	d.users[user.ID] = user
	return user, nil
}

func (q *memQueries) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	d, release := q.acquire()
	defer release()
	for _, u := range d.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}
