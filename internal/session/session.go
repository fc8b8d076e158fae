// Package session derives table sessions. A session is never stored on its
// own: it is the id shared by a run of orders on one table, and it stays open
// while any of those orders is neither served nor cancelled.
package session

import (
	"context"
	"fmt"
	"time"

	"restaurant-order-services/internal/store"
)

// NewID formats T<tableId>_<yyyymmdd>_<epochMillis> using the UTC date.
func NewID(tableID int64, now time.Time) string {
	now = now.UTC()
	return fmt.Sprintf("T%d_%s_%d", tableID, now.Format("20060102"), now.UnixMilli())
}

// Resolve returns the table's open session or mints a new one. Callers that
// write an order with the result must hold the table lock in the same
// transaction, otherwise two first orders can open two sessions.
func Resolve(ctx context.Context, q store.Querier, tableID int64, now time.Time) (string, bool, error) {
	sessionID, ok, err := q.ActiveSessionID(ctx, tableID)
	if err != nil {
		return "", false, err
	}
	if ok {
		return sessionID, false, nil
	}
	return NewID(tableID, now), true, nil
}

// Active returns the open session of a table, if any.
func Active(ctx context.Context, q store.Querier, tableID int64) (string, bool, error) {
	return q.ActiveSessionID(ctx, tableID)
}
