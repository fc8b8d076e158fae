package handlers

import (
	"net/http"

	"restaurant-order-services/internal/models"
	"restaurant-order-services/internal/tables"
	"restaurant-order-services/pkg/response"
)

func (h *Handler) TableCreate(w http.ResponseWriter, r *http.Request) {
	var body tables.CreateInput
	if !decodeJSON(w, r, &body) {
		return
	}
	table, err := h.Tables.Create(r.Context(), body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Created(w, table)
}

func (h *Handler) TableGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	table, err := h.Tables.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, table)
}

func (h *Handler) TablesAvailable(w http.ResponseWriter, r *http.Request) {
	list, err := h.Tables.Available(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, list)
}

func (h *Handler) TableUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Status models.TableStatus `json:"status"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	table, err := h.Tables.UpdateStatus(r.Context(), id, body.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, table)
}
