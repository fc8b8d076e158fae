package handlers

import (
	"net/http"

	"restaurant-order-services/internal/apperror"
	"restaurant-order-services/internal/middleware"
	"restaurant-order-services/internal/models"
	"restaurant-order-services/internal/users"
	"restaurant-order-services/pkg/response"
)

// AuthRegister is public for customer accounts. Any other role needs an
// admin bearer token.
func (h *Handler) AuthRegister(w http.ResponseWriter, r *http.Request) {
	var body users.RegisterInput
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Role != "" && body.Role != models.RoleCustomer {
		ac, ok := middleware.GetAuthContext(r.Context())
		if !ok || ac.Role != models.RoleAdmin {
			h.writeError(w, r, apperror.Forbidden("Only administrators can create staff accounts"))
			return
		}
	}
	result, err := h.Users.Register(r.Context(), body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Created(w, result)
}

func (h *Handler) AuthLogin(w http.ResponseWriter, r *http.Request) {
	var body users.LoginInput
	if !decodeJSON(w, r, &body) {
		return
	}
	result, err := h.Users.Login(r.Context(), body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, result)
}
