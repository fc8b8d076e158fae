// Package invoice builds printable PDF invoices for single orders and for
// whole table sessions.
package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restaurant-order-services/internal/apperror"
	"restaurant-order-services/internal/config"
	"restaurant-order-services/internal/models"
	"restaurant-order-services/internal/orders"
	"restaurant-order-services/internal/storage"
	"restaurant-order-services/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Archive receives a copy of every generated PDF.
type Archive interface {
	PutObject(ctx context.Context, key string, body []byte, contentType string, cacheControl string) (string, error)
}

type Line struct {
	Name      string          `json:"name"`
	Quantity  int32           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Amount    decimal.Decimal `json:"amount"`
	Notes     string          `json:"notes,omitempty"`
}

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	TaxRate  decimal.Decimal `json:"taxRate"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

type OrderInvoice struct {
	OrderID       int64              `json:"orderId"`
	OrderDate     time.Time          `json:"orderDate"`
	TableNumber   int32              `json:"tableNumber"`
	Status        models.OrderStatus `json:"status"`
	Items         []Line             `json:"items"`
	Totals        Totals             `json:"totals"`
	PaymentMethod string             `json:"paymentMethod,omitempty"`
}

type SessionInvoice struct {
	TableID       int64          `json:"tableId"`
	TableNumber   int32          `json:"tableNumber"`
	SessionID     string         `json:"sessionId"`
	StartTime     time.Time      `json:"startTime"`
	Orders        []OrderInvoice `json:"orders"`
	Totals        Totals         `json:"totals"`
	PaymentMethod string         `json:"paymentMethod,omitempty"`
}

// Document is a rendered invoice. ArchiveURL is empty when archiving is off
// or failed.
type Document struct {
	Filename   string
	PDF        []byte
	ArchiveURL string
}

type Service struct {
	Store      store.Store
	Restaurant config.Restaurant
	Archive    Archive
	Logger     *zap.Logger
	Now        func() time.Time
}

func NewService(s store.Store, restaurant config.Restaurant, archive Archive, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		Store:      s,
		Restaurant: restaurant,
		Archive:    archive,
		Logger:     logger,
		Now:        func() time.Time { return time.Now().UTC() },
	}
}

// BuildOrder gathers one order's invoice. The subtotal is the sum of its
// lines and the total is the order's stored total.
func (s *Service) BuildOrder(ctx context.Context, orderID int64) (OrderInvoice, error) {
	order, err := s.Store.GetOrder(ctx, orderID)
	if err != nil {
		return OrderInvoice{}, notFound(err, "Order not found")
	}
	table, err := s.Store.GetTable(ctx, order.TableID)
	if err != nil {
		return OrderInvoice{}, notFound(err, "Table not found")
	}
	withItems, err := orders.AttachItems(ctx, s.Store, []models.Order{order})
	if err != nil {
		return OrderInvoice{}, apperror.Unexpected(err)
	}
	payments, err := s.Store.ListPaymentsByOrders(ctx, []int64{orderID})
	if err != nil {
		return OrderInvoice{}, apperror.Unexpected(err)
	}

	inv := orderInvoice(withItems[0], table.TableNumber)
	inv.Totals.TaxRate = s.Restaurant.TaxRate
	inv.Totals.Tax = inv.Totals.Subtotal.Mul(s.Restaurant.TaxRate).Round(2)
	inv.PaymentMethod = latestMethod(payments)
	return inv, nil
}

// BuildSession gathers every order of a table session. The tax is charged on
// the sum of order totals and added to the grand total.
func (s *Service) BuildSession(ctx context.Context, tableID int64, sessionID string) (SessionInvoice, error) {
	table, err := s.Store.GetTable(ctx, tableID)
	if err != nil {
		return SessionInvoice{}, notFound(err, "Table not found")
	}
	list, err := s.Store.ListOrdersByTableSession(ctx, tableID, sessionID)
	if err != nil {
		return SessionInvoice{}, apperror.Unexpected(err)
	}
	if len(list) == 0 {
		return SessionInvoice{}, apperror.NotFound("No orders found for this table session")
	}
	list, err = orders.AttachItems(ctx, s.Store, list)
	if err != nil {
		return SessionInvoice{}, apperror.Unexpected(err)
	}

	ids := make([]int64, 0, len(list))
	for _, o := range list {
		ids = append(ids, o.ID)
	}
	payments, err := s.Store.ListPaymentsByOrders(ctx, ids)
	if err != nil {
		return SessionInvoice{}, apperror.Unexpected(err)
	}

	inv := SessionInvoice{
		TableID:       tableID,
		TableNumber:   table.TableNumber,
		SessionID:     sessionID,
		StartTime:     list[0].CreatedAt,
		Orders:        make([]OrderInvoice, 0, len(list)),
		PaymentMethod: latestMethod(payments),
	}
	subtotal := orders.SumTotals(list)
	for _, o := range list {
		inv.Orders = append(inv.Orders, orderInvoice(o, table.TableNumber))
	}
	tax := subtotal.Mul(s.Restaurant.TaxRate).Round(2)
	inv.Totals = Totals{
		Subtotal: subtotal,
		TaxRate:  s.Restaurant.TaxRate,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
	return inv, nil
}

func (s *Service) OrderPDF(ctx context.Context, orderID int64) (Document, error) {
	inv, err := s.BuildOrder(ctx, orderID)
	if err != nil {
		return Document{}, err
	}
	pdf, err := renderOrder(s.Restaurant, inv)
	if err != nil {
		return Document{}, apperror.Unexpected(fmt.Errorf("render order invoice: %w", err))
	}
	doc := Document{Filename: fmt.Sprintf("invoice-order-%d.pdf", orderID), PDF: pdf}
	doc.ArchiveURL = s.archive(ctx, "invoices/orders", doc)
	return doc, nil
}

func (s *Service) SessionPDF(ctx context.Context, tableID int64, sessionID string) (Document, error) {
	inv, err := s.BuildSession(ctx, tableID, sessionID)
	if err != nil {
		return Document{}, err
	}
	pdf, err := renderSession(s.Restaurant, inv)
	if err != nil {
		return Document{}, apperror.Unexpected(fmt.Errorf("render session invoice: %w", err))
	}
	doc := Document{Filename: fmt.Sprintf("invoice-table-%d-%s.pdf", inv.TableNumber, sessionID), PDF: pdf}
	doc.ArchiveURL = s.archive(ctx, "invoices/sessions", doc)
	return doc, nil
}

func (s *Service) archive(ctx context.Context, prefix string, doc Document) string {
	if s.Archive == nil {
		return ""
	}
	key := storage.NewKey(prefix, "pdf", s.Now())
	url, err := s.Archive.PutObject(ctx, key, doc.PDF, "application/pdf", "private, max-age=0")
	if err != nil {
		s.Logger.Warn("invoice archive failed", zap.String("file", doc.Filename), zap.Error(err))
		return ""
	}
	return url
}

func orderInvoice(o models.Order, tableNumber int32) OrderInvoice {
	inv := OrderInvoice{
		OrderID:     o.ID,
		OrderDate:   o.CreatedAt,
		TableNumber: tableNumber,
		Status:      o.Status,
		Items:       make([]Line, 0, len(o.Items)),
		Totals:      Totals{Subtotal: decimal.Zero, Total: o.TotalAmount},
	}
	for _, it := range o.Items {
		line := Line{
			Name:      it.MenuItemName,
			Quantity:  it.Quantity,
			UnitPrice: it.ItemPrice,
			Amount:    it.LineTotal(),
		}
		if it.SpecialInstructions != nil {
			line.Notes = *it.SpecialInstructions
		}
		inv.Items = append(inv.Items, line)
		inv.Totals.Subtotal = inv.Totals.Subtotal.Add(line.Amount)
	}
	return inv
}

func latestMethod(list []models.Payment) string {
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].PaymentStatus == models.PaymentCompleted {
			return string(list[i].PaymentMethod)
		}
	}
	return ""
}

func notFound(err error, message string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperror.NotFound(message)
	}
	return apperror.Unexpected(err)
}
