package handlers

import (
	"net/http"

	"restaurant-order-services/internal/apperror"
	"restaurant-order-services/internal/inventory"
	"restaurant-order-services/pkg/response"

	"github.com/shopspring/decimal"
)

type stockUpdateRequest struct {
	Quantity *decimal.Decimal `json:"quantity"`
	Reason   *string          `json:"reason"`
}

func (h *Handler) InventoryCreate(w http.ResponseWriter, r *http.Request) {
	var body inventory.CreateItemInput
	if !decodeJSON(w, r, &body) {
		return
	}
	item, err := h.Inventory.CreateItem(r.Context(), body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Created(w, item)
}

func (h *Handler) InventoryList(w http.ResponseWriter, r *http.Request) {
	items, err := h.Inventory.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, items)
}

func (h *Handler) InventoryGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	item, err := h.Inventory.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, item)
}

func (h *Handler) InventoryLowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.Inventory.LowStockItems(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, items)
}

// InventoryUpdateStock sets an absolute quantity; the caller is recorded on
// the ledger entry.
func (h *Handler) InventoryUpdateStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body stockUpdateRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Quantity == nil {
		h.writeError(w, r, apperror.Validation("Quantity is required"))
		return
	}
	item, err := h.Inventory.ApplyStockUpdate(r.Context(), id, *body.Quantity, body.Reason, actingUserID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, item)
}

func (h *Handler) InventoryTransactions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	limit := parseQueryIntValue(r.URL.Query().Get("limit"), inventory.DefaultTransactionLimit)
	txns, err := h.Inventory.Transactions(r.Context(), id, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, txns)
}
