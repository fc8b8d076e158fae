package httpapi

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"restaurant-order-services/internal/config"
	"restaurant-order-services/internal/http/handlers"
	"restaurant-order-services/internal/metrics"
	"restaurant-order-services/internal/middleware"
	"restaurant-order-services/internal/ws"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// NewRouter mounts the public and staff API. m and hub may be nil.
func NewRouter(h *handlers.Handler, logger *zap.Logger, cfg config.Config, m *metrics.Metrics, hub *ws.KitchenHub) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Telemetry(logger, m))

	if cfg.Env == "development" || len(cfg.CorsAllowedOrigins) > 0 {
		options := cors.Options{
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{
				"Accept",
				"Authorization",
				"Content-Type",
				"X-Requested-With",
				"X-Request-Id",
				"Cache-Control",
			},
			ExposedHeaders:   []string{"X-Request-Id", "X-Invoice-Url"},
			AllowCredentials: true,
			MaxAge:           300,
		}

		if cfg.Env == "development" {
			options.AllowOriginFunc = func(_ *http.Request, origin string) bool {
				return true
			}
		} else {
			options.AllowedOrigins = cfg.CorsAllowedOrigins
		}

		r.Use(cors.Handler(options))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}
	if hub != nil {
		r.Method(http.MethodGet, "/ws/kitchen", hub)
	}

	// Guest-facing routes.
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuth(cfg.JWTSecret))
		r.Post("/api/auth/register", h.AuthRegister)
		r.Post("/api/auth/login", h.AuthLogin)
		r.Get("/api/menu", h.MenuList)
		r.Get("/api/menu/{id}", h.MenuGet)
		r.Get("/api/tables/available", h.TablesAvailable)
		r.Post("/api/reservations", h.ReservationCreate)
		r.Post("/api/feedback", h.FeedbackSubmit)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.StaffAuth(cfg.JWTSecret))

		r.Post("/api/tables", h.TableCreate)
		r.Get("/api/tables/{id}", h.TableGet)
		r.Put("/api/tables/{id}/status", h.TableUpdateStatus)
		r.Get("/api/tables/{id}/sessions/{sessionId}/orders", h.TableSessionOrders)

		r.Post("/api/menu", h.MenuCreate)
		r.Put("/api/menu/{id}", h.MenuUpdate)
		r.Delete("/api/menu/{id}", h.MenuDelete)
		r.Post("/api/menu/{id}/photo", h.MenuUploadPhoto)

		r.Route("/api/orders", func(r chi.Router) {
			r.Post("/", h.OrderCreate)
			r.Get("/", h.OrderList)
			r.Get("/{id}", h.OrderGet)
			r.Put("/{id}/status", h.OrderUpdateStatus)
			r.Delete("/{id}", h.OrderDelete)
			r.Post("/{id}/items", h.OrderAddItem)
			r.Delete("/items/{itemId}", h.OrderDeleteItem)
		})

		r.Route("/api/payments", func(r chi.Router) {
			r.Post("/", h.PaymentCreate)
			r.Get("/table/{tableId}", h.TablePayments)
			r.Get("/{orderId}", h.PaymentForOrder)
		})

		r.Route("/api/kitchen/orders", func(r chi.Router) {
			r.Post("/", h.KitchenCreate)
			r.Get("/", h.KitchenActive)
			r.Post("/from-order/{orderId}", h.KitchenCreateFromOrder)
			r.Put("/{id}/status", h.KitchenUpdateStatus)
		})

		r.Route("/api/inventory/items", func(r chi.Router) {
			r.Post("/", h.InventoryCreate)
			r.Get("/", h.InventoryList)
			r.Get("/low-stock", h.InventoryLowStock)
			r.Get("/{id}", h.InventoryGet)
			r.Put("/{id}/stock", h.InventoryUpdateStock)
			r.Get("/{id}/transactions", h.InventoryTransactions)
		})

		r.Get("/api/reservations", h.ReservationList)
		r.Put("/api/reservations/{id}/status", h.ReservationUpdateStatus)

		r.Get("/api/feedback/summary", h.FeedbackSummary)
		r.Get("/api/feedback/recent", h.FeedbackRecent)
		r.Get("/api/feedback/order/{orderId}", h.FeedbackByOrder)

		r.Route("/api/analytics", func(r chi.Router) {
			r.Get("/dashboard", h.AnalyticsDashboard)
			r.Get("/summary", h.AnalyticsSummary)
			r.Get("/top-selling", h.AnalyticsTopSelling)
			r.Get("/payment-methods", h.AnalyticsPaymentMethods)
			r.Get("/hourly", h.AnalyticsHourly)
			r.Get("/daily", h.AnalyticsDaily)
		})

		r.Route("/api/invoices", func(r chi.Router) {
			r.Use(setResponseHeader("Cache-Control", "no-store"))
			r.Get("/order/{orderId}", h.InvoiceOrder)
			r.Get("/table/{tableId}/session/{sessionId}", h.InvoiceSession)
		})
	})

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hj.Hijack()
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

func setResponseHeader(name string, value string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(name, value)
			next.ServeHTTP(w, r)
		})
	}
}
