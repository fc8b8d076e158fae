package handlers

import (
	"net/http"
	"strings"

	"restaurant-order-services/internal/payments"
	"restaurant-order-services/pkg/response"
)

func (h *Handler) PaymentCreate(w http.ResponseWriter, r *http.Request) {
	var body payments.CreatePaymentInput
	if !decodeJSON(w, r, &body) {
		return
	}
	payment, err := h.Payments.CreatePayment(r.Context(), body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Created(w, payment)
}

func (h *Handler) PaymentForOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "orderId")
	if !ok {
		return
	}
	payment, err := h.Payments.PaymentForOrder(r.Context(), orderID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, payment)
}

// TablePayments reconciles ?sessionId= or, when absent, the open session.
func (h *Handler) TablePayments(w http.ResponseWriter, r *http.Request) {
	tableID, ok := pathID(w, r, "tableId")
	if !ok {
		return
	}
	summary, err := h.Payments.TablePayments(r.Context(), tableID, strings.TrimSpace(r.URL.Query().Get("sessionId")))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, summary)
}
