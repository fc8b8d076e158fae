package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"restaurant-order-services/internal/auth"
	"restaurant-order-services/internal/metrics"
	"restaurant-order-services/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const secret = "mw-secret"

func tokenFor(t *testing.T, role models.UserRole) string {
	t.Helper()
	token, _, err := auth.IssueAccessToken(models.User{ID: 3, Username: "sam", Role: role}, secret, time.Hour, time.Now())
	require.NoError(t, err)
	return token
}

func TestRequestIDKeepsOrMintsHeader(t *testing.T) {
	var seen string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(RequestIDHeader)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Correlation-Id", "corr-1")
	h.ServeHTTP(rec, req)
	assert.Equal(t, "corr-1", seen)
	assert.Equal(t, "corr-1", rec.Header().Get(RequestIDHeader))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}

func TestStaffAuth(t *testing.T) {
	var got *AuthContext
	h := StaffAuth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetAuthContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"missing token", http.MethodGet, "/api/orders", "", http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/orders", "nope", http.StatusUnauthorized},
		{"customer", http.MethodGet, "/api/orders", tokenFor(t, models.RoleCustomer), http.StatusForbidden},
		{"staff on analytics", http.MethodGet, "/api/analytics/summary", tokenFor(t, models.RoleStaff), http.StatusForbidden},
		{"staff on orders", http.MethodGet, "/api/orders", tokenFor(t, models.RoleStaff), http.StatusNoContent},
		{"manager on analytics", http.MethodGet, "/api/analytics/summary", tokenFor(t, models.RoleManager), http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got = nil
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusNoContent {
				require.NotNil(t, got)
				assert.Equal(t, "sam", got.Username)
			}
		})
	}
}

func TestOptionalAuthNeverRejects(t *testing.T) {
	var ok bool
	h := OptionalAuth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = GetAuthContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", nil)
	req.Header.Set("Authorization", "Bearer broken")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, ok)

	req = httptest.NewRequest(http.MethodPost, "/api/auth/register", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, models.RoleAdmin))
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, ok)
}

func TestTelemetryRecordsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Telemetry(zap.NewNop(), metrics.New()))
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/9", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestPercentile(t *testing.T) {
	values := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assert.Equal(t, int64(5), percentile(values, 0.5))
	assert.Equal(t, int64(10), percentile(values, 0.95))
	assert.Equal(t, int64(1), percentile(values, 0))
	assert.Equal(t, int64(0), percentile(nil, 0.5))
}
