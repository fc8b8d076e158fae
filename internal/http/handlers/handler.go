package handlers

import (
	"restaurant-order-services/internal/analytics"
	"restaurant-order-services/internal/config"
	"restaurant-order-services/internal/feedback"
	"restaurant-order-services/internal/inventory"
	"restaurant-order-services/internal/invoice"
	"restaurant-order-services/internal/kitchen"
	"restaurant-order-services/internal/menu"
	"restaurant-order-services/internal/orders"
	"restaurant-order-services/internal/payments"
	"restaurant-order-services/internal/reservations"
	"restaurant-order-services/internal/tables"
	"restaurant-order-services/internal/users"

	"go.uber.org/zap"
)

type Handler struct {
	Logger *zap.Logger
	Config config.Config

	Tables       *tables.Service
	Menu         *menu.Service
	Orders       *orders.Service
	Payments     *payments.Service
	Kitchen      *kitchen.Service
	Inventory    *inventory.Service
	Reservations *reservations.Service
	Feedback     *feedback.Service
	Analytics    *analytics.Service
	Invoices     *invoice.Service
	Users        *users.Service
}
