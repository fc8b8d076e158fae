package analytics

import (
	"context"
	"sort"
	"strings"
	"time"

	"restaurant-order-services/internal/apperror"
	"restaurant-order-services/internal/models"
	"restaurant-order-services/internal/store"

	"github.com/shopspring/decimal"
)

const DefaultTopLimit = 10

var hundred = decimal.NewFromInt(100)

type Service struct {
	Store    store.Store
	Location *time.Location
}

func NewService(s store.Store, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{Store: s, Location: loc}
}

// Range is the half-open interval [From, To).
type Range struct {
	From time.Time
	To   time.Time
}

// ParseRange accepts YYYY-MM-DD or RFC3339 bounds. A bare end date covers
// that whole day.
func ParseRange(start string, end string, loc *time.Location) (Range, error) {
	if loc == nil {
		loc = time.UTC
	}
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if start == "" {
		return Range{}, apperror.Validation("Start date is required")
	}
	if end == "" {
		return Range{}, apperror.Validation("End date is required")
	}

	from, _, err := parseBound(start, loc)
	if err != nil {
		return Range{}, apperror.Validation("startDate must be YYYY-MM-DD or RFC3339")
	}
	to, dateOnly, err := parseBound(end, loc)
	if err != nil {
		return Range{}, apperror.Validation("endDate must be YYYY-MM-DD or RFC3339")
	}
	if dateOnly {
		to = to.AddDate(0, 0, 1)
	}
	if !to.After(from) {
		return Range{}, apperror.Validation("endDate must be after startDate")
	}
	return Range{From: from, To: to}, nil
}

func parseBound(v string, loc *time.Location) (time.Time, bool, error) {
	if t, err := time.ParseInLocation("2006-01-02", v, loc); err == nil {
		return t, true, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, false, nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04:05", v, loc)
	return t, false, err
}

type SalesSummary struct {
	TotalSales        decimal.Decimal `json:"totalSales"`
	TotalOrders       int             `json:"totalOrders"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	Period            string          `json:"period"`
}

type ItemSales struct {
	MenuItemID           int64           `json:"menuItemId"`
	MenuItemName         string          `json:"menuItemName"`
	QuantitySold         int64           `json:"quantitySold"`
	TotalRevenue         decimal.Decimal `json:"totalRevenue"`
	AverageOrderQuantity decimal.Decimal `json:"averageOrderQuantity"`
}

type PaymentMethodSummary struct {
	PaymentMethod        models.PaymentMethod `json:"paymentMethod"`
	TotalAmount          decimal.Decimal      `json:"totalAmount"`
	NumberOfTransactions int                  `json:"numberOfTransactions"`
	PercentageOfTotal    decimal.Decimal      `json:"percentageOfTotal"`
}

type TimeBucket struct {
	Hour           *int            `json:"hour,omitempty"`
	DayOfWeek      string          `json:"dayOfWeek,omitempty"`
	NumberOfOrders int             `json:"numberOfOrders"`
	TotalSales     decimal.Decimal `json:"totalSales"`
}

type Dashboard struct {
	SalesSummary           SalesSummary           `json:"salesSummary"`
	TopSellingItems        []ItemSales            `json:"topSellingItems"`
	PaymentMethodBreakdown []PaymentMethodSummary `json:"paymentMethodBreakdown"`
	PeakHours              []TimeBucket           `json:"peakHours"`
	RevenueByDay           []TimeBucket           `json:"revenueByDay"`
}

// orders returns the non-cancelled orders created inside r.
func (s *Service) orders(ctx context.Context, r Range) ([]models.Order, error) {
	list, err := s.Store.ListOrdersCreatedBetween(ctx, r.From, r.To)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	out := list[:0]
	for _, o := range list {
		if o.Status != models.OrderCancelled {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *Service) Summary(ctx context.Context, r Range) (SalesSummary, error) {
	list, err := s.orders(ctx, r)
	if err != nil {
		return SalesSummary{}, err
	}
	return summarize(list), nil
}

func summarize(list []models.Order) SalesSummary {
	total := decimal.Zero
	for _, o := range list {
		total = total.Add(o.TotalAmount)
	}
	avg := decimal.Zero
	if len(list) > 0 {
		avg = total.Div(decimal.NewFromInt(int64(len(list)))).Round(2)
	}
	return SalesSummary{TotalSales: total, TotalOrders: len(list), AverageOrderValue: avg, Period: "Custom"}
}

// TopSelling ranks menu items by quantity sold, then by revenue.
func (s *Service) TopSelling(ctx context.Context, r Range, limit int) ([]ItemSales, error) {
	list, err := s.orders(ctx, r)
	if err != nil {
		return nil, err
	}
	return s.topSelling(ctx, list, limit)
}

func (s *Service) topSelling(ctx context.Context, list []models.Order, limit int) ([]ItemSales, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	if len(list) == 0 {
		return []ItemSales{}, nil
	}
	ids := make([]int64, 0, len(list))
	for _, o := range list {
		ids = append(ids, o.ID)
	}
	lines, err := s.Store.ListOrderItems(ctx, ids)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}

	type acc struct {
		ItemSales
		lines int64
	}
	byItem := map[int64]*acc{}
	for _, line := range lines {
		a, ok := byItem[line.MenuItemID]
		if !ok {
			a = &acc{ItemSales: ItemSales{MenuItemID: line.MenuItemID, MenuItemName: line.MenuItemName, TotalRevenue: decimal.Zero}}
			byItem[line.MenuItemID] = a
		}
		a.QuantitySold += int64(line.Quantity)
		a.TotalRevenue = a.TotalRevenue.Add(line.LineTotal())
		a.lines++
	}

	out := make([]ItemSales, 0, len(byItem))
	for _, a := range byItem {
		a.AverageOrderQuantity = decimal.NewFromInt(a.QuantitySold).Div(decimal.NewFromInt(a.lines)).Round(2)
		out = append(out, a.ItemSales)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].QuantitySold != out[j].QuantitySold {
			return out[i].QuantitySold > out[j].QuantitySold
		}
		if !out[i].TotalRevenue.Equal(out[j].TotalRevenue) {
			return out[i].TotalRevenue.GreaterThan(out[j].TotalRevenue)
		}
		return out[i].MenuItemID < out[j].MenuItemID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// PaymentMethods breaks completed payments down by method. Percentages are
// of the completed total and rounded to two places.
func (s *Service) PaymentMethods(ctx context.Context, r Range) ([]PaymentMethodSummary, error) {
	list, err := s.Store.ListPaymentsCreatedBetween(ctx, r.From, r.To)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	return paymentBreakdown(list), nil
}

func paymentBreakdown(list []models.Payment) []PaymentMethodSummary {
	total := decimal.Zero
	byMethod := map[models.PaymentMethod]*PaymentMethodSummary{}
	for _, p := range list {
		if p.PaymentStatus != models.PaymentCompleted {
			continue
		}
		total = total.Add(p.Amount)
		m, ok := byMethod[p.PaymentMethod]
		if !ok {
			m = &PaymentMethodSummary{PaymentMethod: p.PaymentMethod, TotalAmount: decimal.Zero}
			byMethod[p.PaymentMethod] = m
		}
		m.TotalAmount = m.TotalAmount.Add(p.Amount)
		m.NumberOfTransactions++
	}

	out := make([]PaymentMethodSummary, 0, len(byMethod))
	for _, m := range byMethod {
		m.PercentageOfTotal = decimal.Zero
		if total.IsPositive() {
			m.PercentageOfTotal = m.TotalAmount.Div(total).Mul(hundred).Round(2)
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TotalAmount.Equal(out[j].TotalAmount) {
			return out[i].TotalAmount.GreaterThan(out[j].TotalAmount)
		}
		return out[i].PaymentMethod < out[j].PaymentMethod
	})
	return out
}

// Hourly buckets orders by local hour of day; empty hours are omitted.
func (s *Service) Hourly(ctx context.Context, r Range) ([]TimeBucket, error) {
	list, err := s.orders(ctx, r)
	if err != nil {
		return nil, err
	}
	return s.hourly(list), nil
}

func (s *Service) hourly(list []models.Order) []TimeBucket {
	var buckets [24]TimeBucket
	for _, o := range list {
		h := o.CreatedAt.In(s.Location).Hour()
		buckets[h].NumberOfOrders++
		buckets[h].TotalSales = buckets[h].TotalSales.Add(o.TotalAmount)
	}
	out := make([]TimeBucket, 0)
	for h := range buckets {
		if buckets[h].NumberOfOrders == 0 {
			continue
		}
		hour := h
		b := buckets[h]
		b.Hour = &hour
		out = append(out, b)
	}
	return out
}

// Daily buckets orders by local weekday, Monday first; empty days are omitted.
func (s *Service) Daily(ctx context.Context, r Range) ([]TimeBucket, error) {
	list, err := s.orders(ctx, r)
	if err != nil {
		return nil, err
	}
	return s.daily(list), nil
}

func (s *Service) daily(list []models.Order) []TimeBucket {
	var buckets [7]TimeBucket
	for _, o := range list {
		// Monday = 0
		d := (int(o.CreatedAt.In(s.Location).Weekday()) + 6) % 7
		buckets[d].NumberOfOrders++
		buckets[d].TotalSales = buckets[d].TotalSales.Add(o.TotalAmount)
	}
	out := make([]TimeBucket, 0)
	for d := range buckets {
		if buckets[d].NumberOfOrders == 0 {
			continue
		}
		b := buckets[d]
		b.DayOfWeek = strings.ToUpper(time.Weekday((d + 1) % 7).String())
		out = append(out, b)
	}
	return out
}

func (s *Service) Dashboard(ctx context.Context, r Range) (Dashboard, error) {
	list, err := s.orders(ctx, r)
	if err != nil {
		return Dashboard{}, err
	}
	top, err := s.topSelling(ctx, list, DefaultTopLimit)
	if err != nil {
		return Dashboard{}, err
	}
	methods, err := s.PaymentMethods(ctx, r)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		SalesSummary:           summarize(list),
		TopSellingItems:        top,
		PaymentMethodBreakdown: methods,
		PeakHours:              s.hourly(list),
		RevenueByDay:           s.daily(list),
	}, nil
}
