package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"restaurant-order-services/internal/apperror"
	"restaurant-order-services/internal/middleware"
	"restaurant-order-services/pkg/response"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxJSONBody = 1 << 20

var errMissingParam = errors.New("missing param")

func readPathString(r *http.Request, key string) string {
	return strings.TrimSpace(chi.URLParam(r, key))
}

func readPathInt64(r *http.Request, key string) (int64, error) {
	value := readPathString(r, key)
	if value == "" {
		return 0, errMissingParam
	}
	out, err := strconv.ParseInt(value, 10, 64)
	if err != nil || out <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return out, nil
}

// pathID reads an id path parameter, answering 400 itself when it is bad.
func pathID(w http.ResponseWriter, r *http.Request, key string) (int64, bool) {
	id, err := readPathInt64(r, key)
	if err != nil {
		response.Error(w, http.StatusBadRequest, string(apperror.KindValidation), "Invalid "+key)
		return 0, false
	}
	return id, true
}

// decodeJSON reads the request body into dst, answering 400 itself on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := decoder.Decode(dst); err != nil {
		response.Error(w, http.StatusBadRequest, string(apperror.KindValidation), "Invalid request body")
		return false
	}
	return true
}

func parseQueryIntValue(value string, fallback int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func parseQueryBool(value string) (*bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// writeError maps a service error onto the JSON error envelope. Unexpected
// failures are logged and reported without their cause.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperror.As(err)
	if appErr.Kind == apperror.KindUnexpected {
		h.Logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("requestId", r.Header.Get(middleware.RequestIDHeader)),
			zap.Error(appErr.Err),
		)
	}
	response.Error(w, appErr.StatusCode, appErr.Code, appErr.Message)
}

func actingUserID(r *http.Request) *int64 {
	if ac, ok := middleware.GetAuthContext(r.Context()); ok && ac.UserID > 0 {
		id := ac.UserID
		return &id
	}
	return nil
}
