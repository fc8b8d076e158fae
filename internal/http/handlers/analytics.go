package handlers

import (
	"context"
	"net/http"

	"restaurant-order-services/internal/analytics"
	"restaurant-order-services/pkg/response"
)

func (h *Handler) analyticsRange(w http.ResponseWriter, r *http.Request) (analytics.Range, bool) {
	q := r.URL.Query()
	rng, err := analytics.ParseRange(q.Get("startDate"), q.Get("endDate"), h.Analytics.Location)
	if err != nil {
		h.writeError(w, r, err)
		return analytics.Range{}, false
	}
	return rng, true
}

// serveAnalytics runs one report over the requested date range.
func serveAnalytics[T any](h *Handler, w http.ResponseWriter, r *http.Request, report func(context.Context, analytics.Range) (T, error)) {
	rng, ok := h.analyticsRange(w, r)
	if !ok {
		return
	}
	out, err := report(r.Context(), rng)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, out)
}

func (h *Handler) AnalyticsDashboard(w http.ResponseWriter, r *http.Request) {
	serveAnalytics(h, w, r, h.Analytics.Dashboard)
}

func (h *Handler) AnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	serveAnalytics(h, w, r, h.Analytics.Summary)
}

func (h *Handler) AnalyticsTopSelling(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryIntValue(r.URL.Query().Get("limit"), analytics.DefaultTopLimit)
	serveAnalytics(h, w, r, func(ctx context.Context, rng analytics.Range) ([]analytics.ItemSales, error) {
		return h.Analytics.TopSelling(ctx, rng, limit)
	})
}

func (h *Handler) AnalyticsPaymentMethods(w http.ResponseWriter, r *http.Request) {
	serveAnalytics(h, w, r, h.Analytics.PaymentMethods)
}

func (h *Handler) AnalyticsHourly(w http.ResponseWriter, r *http.Request) {
	serveAnalytics(h, w, r, h.Analytics.Hourly)
}

func (h *Handler) AnalyticsDaily(w http.ResponseWriter, r *http.Request) {
	serveAnalytics(h, w, r, h.Analytics.Daily)
}
