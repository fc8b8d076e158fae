package payments

import (
	"time"

	"restaurant-order-services/internal/models"

	"github.com/shopspring/decimal"
)

// Summarize reconciles a table session. Only COMPLETED payments count as paid;
// the remaining amount is not clamped, so overpayment shows up as a negative
// balance and still settles the session.
func Summarize(table models.Table, sessionID string, orders []models.Order, payments []models.Payment) models.TablePaymentSummary {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.TotalAmount)
	}

	paid := decimal.Zero
	var last *time.Time
	for _, p := range payments {
		if p.PaymentStatus == models.PaymentCompleted {
			paid = paid.Add(p.Amount)
		}
		if last == nil || p.CreatedAt.After(*last) {
			at := p.CreatedAt
			last = &at
		}
	}

	remaining := total.Sub(paid)
	status := models.PaymentPending
	if remaining.LessThanOrEqual(decimal.Zero) {
		status = models.PaymentCompleted
	}

	if payments == nil {
		payments = []models.Payment{}
	}
	return models.TablePaymentSummary{
		TableID:         table.ID,
		TableNumber:     table.TableNumber,
		SessionID:       sessionID,
		TotalAmount:     total,
		PaidAmount:      paid,
		RemainingAmount: remaining,
		PaymentStatus:   status,
		Payments:        payments,
		LastPaymentAt:   last,
	}
}
