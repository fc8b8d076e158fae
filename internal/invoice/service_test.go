package invoice

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"restaurant-order-services/internal/apperror"
	"restaurant-order-services/internal/config"
	"restaurant-order-services/internal/models"
	"restaurant-order-services/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

type archiveStub struct {
	keys []string
	err  error
}

func (a *archiveStub) PutObject(_ context.Context, key string, body []byte, contentType string, _ string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	if !bytes.HasPrefix(body, []byte("%PDF")) || contentType != "application/pdf" {
		return "", errors.New("not a pdf")
	}
	a.keys = append(a.keys, key)
	return "https://cdn.test/" + key, nil
}

type fixture struct {
	store  *store.Memory
	table  models.Table
	first  models.Order
	second models.Order
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	s := store.NewMemory()
	table, err := s.CreateTable(ctx, models.Table{TableNumber: 12, Capacity: 4, Status: models.TableOccupied})
	require.NoError(t, err)

	const session = "T1_20240704_1720108800000"
	at := time.Date(2024, 7, 4, 18, 0, 0, 0, time.UTC)
	first, err := s.InsertOrder(ctx, models.Order{TableID: table.ID, SessionID: session, Status: models.OrderServed, TotalAmount: d("25.50"), CreatedAt: at})
	require.NoError(t, err)
	note := "medium rare"
	_, err = s.InsertOrderItem(ctx, models.OrderItem{OrderID: first.ID, MenuItemID: 1, MenuItemName: "Steak", Quantity: 1, ItemPrice: d("20.00"), SpecialInstructions: &note})
	require.NoError(t, err)
	_, err = s.InsertOrderItem(ctx, models.OrderItem{OrderID: first.ID, MenuItemID: 2, MenuItemName: "Salad", Quantity: 1, ItemPrice: d("5.50")})
	require.NoError(t, err)

	second, err := s.InsertOrder(ctx, models.Order{TableID: table.ID, SessionID: session, Status: models.OrderPending, TotalAmount: d("14.50"), CreatedAt: at.Add(30 * time.Minute)})
	require.NoError(t, err)
	_, err = s.InsertOrderItem(ctx, models.OrderItem{OrderID: second.ID, MenuItemID: 3, MenuItemName: "Wine", Quantity: 2, ItemPrice: d("7.25")})
	require.NoError(t, err)

	_, err = s.InsertPayment(ctx, models.Payment{OrderID: first.ID, Amount: d("25.50"), PaymentMethod: models.PaymentCreditCard, PaymentStatus: models.PaymentCompleted})
	require.NoError(t, err)

	return fixture{store: s, table: table, first: first, second: second}
}

func TestBuildOrder(t *testing.T) {
	f := newFixture(t)
	svc := NewService(f.store, config.DefaultRestaurant(), nil, nil)

	inv, err := svc.BuildOrder(context.Background(), f.first.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(12), inv.TableNumber)
	require.Len(t, inv.Items, 2)
	assert.Equal(t, "medium rare", inv.Items[0].Notes)
	assert.True(t, inv.Totals.Subtotal.Equal(d("25.50")))
	assert.True(t, inv.Totals.Tax.Equal(d("2.55")), inv.Totals.Tax.String())
	assert.True(t, inv.Totals.Total.Equal(d("25.50")))
	assert.Equal(t, "CREDIT_CARD", inv.PaymentMethod)

	_, err = svc.BuildOrder(context.Background(), 999)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestBuildSessionAddsTenPercentTax(t *testing.T) {
	f := newFixture(t)
	svc := NewService(f.store, config.DefaultRestaurant(), nil, nil)

	inv, err := svc.BuildSession(context.Background(), f.table.ID, f.first.SessionID)
	require.NoError(t, err)
	assert.Equal(t, f.first.CreatedAt, inv.StartTime)
	require.Len(t, inv.Orders, 2)
	assert.True(t, inv.Totals.Subtotal.Equal(d("40.00")))
	assert.True(t, inv.Totals.Tax.Equal(d("4.00")))
	assert.True(t, inv.Totals.Total.Equal(d("44.00")))

	_, err = svc.BuildSession(context.Background(), 999, f.first.SessionID)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	_, err = svc.BuildSession(context.Background(), f.table.ID, "T1_19990101_1")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	assert.Equal(t, "No orders found for this table session", err.Error())
}

func TestPDFRenderingAndArchive(t *testing.T) {
	f := newFixture(t)
	profile := config.DefaultRestaurant()
	profile.Currency = "EUR"
	archive := &archiveStub{}
	svc := NewService(f.store, profile, archive, nil)

	doc, err := svc.OrderPDF(context.Background(), f.first.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc.PDF, []byte("%PDF")))
	assert.Equal(t, "invoice-order-1.pdf", doc.Filename)
	assert.True(t, strings.HasPrefix(doc.ArchiveURL, "https://cdn.test/invoices/orders/"))

	doc, err = svc.SessionPDF(context.Background(), f.table.ID, f.first.SessionID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc.PDF, []byte("%PDF")))
	assert.Equal(t, "invoice-table-12-"+f.first.SessionID+".pdf", doc.Filename)
	assert.Len(t, archive.keys, 2)

	archive.err = errors.New("bucket offline")
	doc, err = svc.OrderPDF(context.Background(), f.first.ID)
	require.NoError(t, err)
	assert.Empty(t, doc.ArchiveURL)
}
