package handlers

import (
	"net/http"

	"restaurant-order-services/internal/apperror"
	"restaurant-order-services/internal/kitchen"
	"restaurant-order-services/internal/models"
	"restaurant-order-services/pkg/response"
)

type kitchenStatusRequest struct {
	Status            models.KitchenStatus `json:"status"`
	EstimatedPrepTime *int32               `json:"estimatedPrepTime"`
}

func (h *Handler) KitchenCreate(w http.ResponseWriter, r *http.Request) {
	var body kitchen.CreateInput
	if !decodeJSON(w, r, &body) {
		return
	}
	ticket, err := h.Kitchen.Create(r.Context(), body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Created(w, ticket)
}

func (h *Handler) KitchenCreateFromOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "orderId")
	if !ok {
		return
	}
	var priority *int32
	if raw := r.URL.Query().Get("priority"); raw != "" {
		p := int32(parseQueryIntValue(raw, 1))
		priority = &p
	}
	ticket, err := h.Kitchen.CreateFromOrder(r.Context(), orderID, priority)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Created(w, ticket)
}

func (h *Handler) KitchenActive(w http.ResponseWriter, r *http.Request) {
	list, err := h.Kitchen.Active(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, list)
}

func (h *Handler) KitchenUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body kitchenStatusRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	ticket, found, err := h.Kitchen.UpdateStatus(r.Context(), id, body.Status, body.EstimatedPrepTime)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !found {
		h.writeError(w, r, apperror.NotFound("Kitchen order not found"))
		return
	}
	response.Success(w, ticket)
}
