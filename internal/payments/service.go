package payments

import (
	"context"
	"errors"
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

type CreatePaymentInput struct {
	OrderID              int64                `json:"orderId"`
	Amount               decimal.Decimal      `json:"amount"`
	PaymentMethod        models.PaymentMethod `json:"paymentMethod"`
	PaymentStatus        models.PaymentStatus `json:"paymentStatus"`
	TransactionReference *string              `json:"transactionReference"`
}

// CreatePayment records a payment against an order. Amounts are rounded to
// cents and the status defaults to COMPLETED; payments are never modified
// afterwards.
func (s *Service) CreatePayment(ctx context.Context, in CreatePaymentInput) (models.Payment, error) {
	in.Amount = in.Amount.Round(2)
	if !in.Amount.IsPositive() {
		return models.Payment{}, apperror.Validation("Amount must be greater than zero")
	}
	if !in.PaymentMethod.Valid() {
		return models.Payment{}, apperror.Validation("Invalid payment method")
	}
	if in.PaymentStatus == "" {
		in.PaymentStatus = models.PaymentCompleted
	}
	if !in.PaymentStatus.Valid() {
		return models.Payment{}, apperror.Validation("Invalid payment status")
	}

	if _, err := s.Store.GetOrder(ctx, in.OrderID); err != nil {
		return models.Payment{}, notFound(err, "Order not found")
	}

	payment, err := s.Store.InsertPayment(ctx, models.Payment{
		OrderID:              in.OrderID,
		Amount:               in.Amount,
		PaymentMethod:        in.PaymentMethod,
		PaymentStatus:        in.PaymentStatus,
		TransactionReference: in.TransactionReference,
		CreatedAt:            s.Now(),
	})
	if err != nil {
		if errors.Is(err, store.ErrReferenced) {
			return models.Payment{}, apperror.NotFound("Order not found")
		}
		return models.Payment{}, apperror.Unexpected(err)
	}

	s.Metrics.PaymentRecorded(string(payment.PaymentMethod), string(payment.PaymentStatus))
	evt := events.PaymentRecorded{
		Type:          events.TypePaymentRecorded,
		PaymentID:     payment.ID,
		OrderID:       payment.OrderID,
		Amount:        payment.Amount,
		PaymentMethod: string(payment.PaymentMethod),
		PaymentStatus: string(payment.PaymentStatus),
	}
	if err := s.Events.Publish(ctx, events.TypePaymentRecorded, evt); err != nil {
		s.Logger.Warn("payment event publish failed", zap.Int64("paymentId", payment.ID), zap.Error(err))
	}
	return payment, nil
}

// PaymentForOrder returns the most recent payment recorded for the order.
func (s *Service) PaymentForOrder(ctx context.Context, orderID int64) (models.Payment, error) {
	list, err := s.Store.ListPaymentsByOrders(ctx, []int64{orderID})
	if err != nil {
		return models.Payment{}, apperror.Unexpected(err)
	}
	if len(list) == 0 {
		return models.Payment{}, apperror.NotFound("Payment not found")
	}
	return list[len(list)-1], nil
}

// TablePayments reconciles a table session. When sessionID is empty the
// table's open session is used. A session without orders reconciles to zero.
func (s *Service) TablePayments(ctx context.Context, tableID int64, sessionID string) (models.TablePaymentSummary, error) {
	table, err := s.Store.GetTable(ctx, tableID)
	if err != nil {
		return models.TablePaymentSummary{}, notFound(err, "Table not found")
	}

	if sessionID == "" {
		active, ok, err := session.Active(ctx, s.Store, tableID)
		if err != nil {
			return models.TablePaymentSummary{}, apperror.Unexpected(err)
		}
		if !ok {
			return models.TablePaymentSummary{}, apperror.DomainState("NO_ACTIVE_SESSION", "No active session found")
		}
		sessionID = active
	}

	orders, err := s.Store.ListOrdersByTableSession(ctx, tableID, sessionID)
	if err != nil {
		return models.TablePaymentSummary{}, apperror.Unexpected(err)
	}
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	list, err := s.Store.ListPaymentsByOrders(ctx, ids)
	if err != nil {
		return models.TablePaymentSummary{}, apperror.Unexpected(err)
	}
	return Summarize(table, sessionID, orders, list), nil
}

func notFound(err error, message string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperror.NotFound(message)
	}
	return apperror.Unexpected(err)
}
