package handlers

import (
	"net/http"
	"strings"

	"restaurant-order-services/internal/invoice"
	"restaurant-order-services/pkg/response"
)

func (h *Handler) writeDocument(w http.ResponseWriter, doc invoice.Document) {
	if doc.ArchiveURL != "" {
		w.Header().Set("X-Invoice-Url", doc.ArchiveURL)
	}
	response.PDF(w, doc.Filename, doc.PDF)
}

func (h *Handler) InvoiceOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "orderId")
	if !ok {
		return
	}
	doc, err := h.Invoices.OrderPDF(r.Context(), orderID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeDocument(w, doc)
}

func (h *Handler) InvoiceSession(w http.ResponseWriter, r *http.Request) {
	tableID, ok := pathID(w, r, "tableId")
	if !ok {
		return
	}
	sessionID := strings.TrimSpace(readPathString(r, "sessionId"))
	doc, err := h.Invoices.SessionPDF(r.Context(), tableID, sessionID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeDocument(w, doc)
}
