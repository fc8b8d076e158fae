package handlers

import (
	"net/http"

	"restaurant-order-services/internal/feedback"
	"restaurant-order-services/pkg/response"
)

// FeedbackSubmit is public; a signed-in guest is linked to the feedback
// unless they ask to stay anonymous.
func (h *Handler) FeedbackSubmit(w http.ResponseWriter, r *http.Request) {
	var body feedback.SubmitInput
	if !decodeJSON(w, r, &body) {
		return
	}
	body.UserID = actingUserID(r)
	fb, err := h.Feedback.Submit(r.Context(), body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Created(w, fb)
}

func (h *Handler) FeedbackByOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "orderId")
	if !ok {
		return
	}
	fb, err := h.Feedback.ByOrder(r.Context(), orderID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, fb)
}

func (h *Handler) FeedbackRecent(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryIntValue(r.URL.Query().Get("limit"), feedback.RecentLimit)
	list, err := h.Feedback.Recent(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, list)
}

func (h *Handler) FeedbackSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Feedback.Summary(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, summary)
}
