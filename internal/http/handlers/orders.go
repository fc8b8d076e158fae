package handlers

import (
	"net/http"

	"restaurant-order-services/internal/apperror"
	"restaurant-order-services/internal/models"
	"restaurant-order-services/internal/orders"
	"restaurant-order-services/pkg/response"
)

type createOrderRequest struct {
	TableID int64              `json:"tableId"`
	Items   []orders.ItemInput `json:"items"`
}

type statusRequest[T ~string] struct {
	Status T `json:"status"`
}

func (h *Handler) OrderCreate(w http.ResponseWriter, r *http.Request) {
	var body createOrderRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.TableID <= 0 {
		h.writeError(w, r, apperror.Validation("tableId is required"))
		return
	}
	order, err := h.Orders.CreateOrder(r.Context(), body.TableID, body.Items)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Created(w, order)
}

func (h *Handler) OrderList(w http.ResponseWriter, r *http.Request) {
	list, err := h.Orders.ListOrders(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, list)
}

func (h *Handler) OrderGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	order, err := h.Orders.GetOrder(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, order)
}

func (h *Handler) OrderUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body statusRequest[models.OrderStatus]
	if !decodeJSON(w, r, &body) {
		return
	}
	found, err := h.Orders.UpdateOrderStatus(r.Context(), id, body.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !found {
		h.writeError(w, r, apperror.NotFound("Order not found"))
		return
	}
	order, err := h.Orders.GetOrder(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, order)
}

func (h *Handler) OrderDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	found, err := h.Orders.DeleteOrder(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !found {
		h.writeError(w, r, apperror.NotFound("Order not found"))
		return
	}
	response.Success(w, map[string]any{"deleted": true})
}

func (h *Handler) OrderAddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body orders.ItemInput
	if !decodeJSON(w, r, &body) {
		return
	}
	item, err := h.Orders.AddOrderItem(r.Context(), id, body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Created(w, item)
}

func (h *Handler) OrderDeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(w, r, "itemId")
	if !ok {
		return
	}
	found, err := h.Orders.DeleteOrderItem(r.Context(), itemID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !found {
		h.writeError(w, r, apperror.NotFound("Order item not found"))
		return
	}
	response.Success(w, map[string]any{"deleted": true})
}

// TableSessionOrders lists a session's orders with the running session total.
func (h *Handler) TableSessionOrders(w http.ResponseWriter, r *http.Request) {
	tableID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	sessionID := readPathString(r, "sessionId")
	list, err := h.Orders.OrdersByTableSession(r.Context(), tableID, sessionID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	total, err := h.Orders.SessionTotal(r.Context(), tableID, sessionID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, map[string]any{
		"tableId":     tableID,
		"sessionId":   sessionID,
		"orders":      list,
		"totalAmount": total,
	})
}
