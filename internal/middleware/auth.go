package middleware

import (
	"context"
	"net/http"

	"restaurant-order-services/internal/auth"
	"restaurant-order-services/internal/models"
	"restaurant-order-services/pkg/response"
)

type contextKey string

const authContextKey contextKey = "authContext"

type AuthContext struct {
	UserID   int64
	Username string
	Role     models.UserRole
}

func WithAuthContext(ctx context.Context, authCtx *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey, authCtx)
}

func GetAuthContext(ctx context.Context) (*AuthContext, bool) {
	value := ctx.Value(authContextKey)
	if value == nil {
		return nil, false
	}
	ac, ok := value.(*AuthContext)
	return ac, ok
}

// StaffAuth requires a valid bearer token whose role may call the route.
func StaffAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.ParseBearerToken(r.Header.Get("Authorization"))
			claims, err := auth.VerifyAccessToken(token, jwtSecret)
			if err != nil {
				response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization token required")
				return
			}

			if !auth.Allowed(claims.Role, r.URL.Path, r.Method) {
				response.Error(w, http.StatusForbidden, "FORBIDDEN", "You do not have permission to access this resource")
				return
			}

			authCtx := &AuthContext{
				UserID:   claims.UserID,
				Username: claims.Username,
				Role:     claims.Role,
			}
			next.ServeHTTP(w, r.WithContext(WithAuthContext(r.Context(), authCtx)))
		})
	}
}

// OptionalAuth attaches the caller's identity when a valid token is sent and
// otherwise lets the request through anonymously.
func OptionalAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.ParseBearerToken(r.Header.Get("Authorization"))
			if token != "" {
				if claims, err := auth.VerifyAccessToken(token, jwtSecret); err == nil {
					r = r.WithContext(WithAuthContext(r.Context(), &AuthContext{
						UserID:   claims.UserID,
						Username: claims.Username,
						Role:     claims.Role,
					}))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
