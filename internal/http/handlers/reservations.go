package handlers

import (
	"net/http"

	"restaurant-order-services/internal/models"
	"restaurant-order-services/internal/reservations"
	"restaurant-order-services/pkg/response"
)

func (h *Handler) ReservationCreate(w http.ResponseWriter, r *http.Request) {
	var body reservations.CreateInput
	if !decodeJSON(w, r, &body) {
		return
	}
	reservation, err := h.Reservations.Create(r.Context(), body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Created(w, reservation)
}

func (h *Handler) ReservationList(w http.ResponseWriter, r *http.Request) {
	list, err := h.Reservations.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, list)
}

func (h *Handler) ReservationUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body statusRequest[models.ReservationStatus]
	if !decodeJSON(w, r, &body) {
		return
	}
	if err := h.Reservations.UpdateStatus(r.Context(), id, body.Status); err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, map[string]any{"id": id, "status": body.Status})
}
