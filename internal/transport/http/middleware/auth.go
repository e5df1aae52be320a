package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"inkpress/internal/httputil"
	"inkpress/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// viewerKey is the context key for the authenticated viewer
	viewerKey contextKey = "viewer"
)

// RequireAuth validates the JWT and rejects unauthenticated requests.
// Checks Authorization header first (for API clients), then falls back to
// cookie (for web).
func RequireAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer, errCode := viewerFromRequest(r, jwtSecret)
			if errCode != "" {
				switch errCode {
				case model.CodeTokenExpired:
					httputil.WriteUnauthorizedWithCode(w, model.CodeTokenExpired, "Access token has expired")
				case model.CodeTokenInvalid:
					httputil.WriteUnauthorizedWithCode(w, model.CodeTokenInvalid, "Invalid authentication token")
				default:
					httputil.WriteUnauthorized(w, "Missing authentication token")
				}
				return
			}

			ctx := context.WithValue(r.Context(), viewerKey, viewer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the viewer when a valid token is present and lets
// the request through anonymously otherwise. Visibility-sensitive read
// endpoints use this so logged-out readers still get the public view.
func OptionalAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer, errCode := viewerFromRequest(r, jwtSecret)
			if errCode == "" {
				ctx := context.WithValue(r.Context(), viewerKey, viewer)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// viewerFromRequest extracts and validates the token. Returns the viewer, or
// an error code: "" on success, "missing" when no token was sent, or a
// model.CodeToken* value on a bad token.
func viewerFromRequest(r *http.Request, jwtSecret string) (model.Viewer, string) {
	var tokenString string

	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			tokenString = parts[1]
		}
	}

	if tokenString == "" {
		cookie, err := r.Cookie("access_token")
		if err == nil && cookie.Value != "" {
			tokenString = cookie.Value
		}
	}

	if tokenString == "" {
		return model.Viewer{}, "missing"
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		if strings.Contains(err.Error(), "expired") {
			return model.Viewer{}, model.CodeTokenExpired
		}
		return model.Viewer{}, model.CodeTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return model.Viewer{}, model.CodeTokenInvalid
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return model.Viewer{}, model.CodeTokenInvalid
	}

	role, _ := claims["role"].(string)
	if role == "" {
		role = model.RoleUser
	}

	return model.Viewer{
		ID:            int64(userIDFloat),
		Role:          role,
		Authenticated: true,
	}, ""
}

// GetViewer extracts the viewer from the request context. The zero value is
// an unauthenticated visitor.
func GetViewer(ctx context.Context) model.Viewer {
	viewer, _ := ctx.Value(viewerKey).(model.Viewer)
	return viewer
}

// GetUserIDFromContext extracts the authenticated user's ID from the context.
// Returns the user ID and true if found, or 0 and false if not found.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	viewer, ok := ctx.Value(viewerKey).(model.Viewer)
	if !ok || !viewer.Authenticated {
		return 0, false
	}
	return viewer.ID, true
}
