package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"campusverify/pkg"
)

type contextKey string

// SubjectKey holds the authenticated identity-provider subject.
const SubjectKey contextKey = "authSubject"

// SubjectFromContext retrieves the authenticated subject.
func SubjectFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if value, ok := ctx.Value(SubjectKey).(string); ok && value != "" {
		return value, true
	}
	return "", false
}

// Auth validates bearer session tokens and injects the subject into the
// request context.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := extractBearerToken(r.Header.Get("Authorization"))
			if err != nil {
				unauthorized(w, err.Error())
				return
			}
			if secret == "" {
				unauthorized(w, "missing JWT secret")
				return
			}

			claims, err := pkg.ParseToken([]byte(secret), tokenString)
			if err != nil {
				unauthorized(w, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), SubjectKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly gates the review endpoints behind the shared admin key.
func AdminOnly(adminKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminKey == "" {
				unauthorized(w, "admin access not configured")
				return
			}
			if r.Header.Get("X-Admin-Key") != adminKey {
				unauthorized(w, "invalid admin key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractBearerToken(header string) (string, error) {
	if header == "" {
		return "", errAuthHeaderRequired
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errAuthHeaderInvalid
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errAuthHeaderInvalid
	}
	return token, nil
}

var (
	errAuthHeaderRequired = &authError{"authorization header required"}
	errAuthHeaderInvalid  = &authError{"invalid authorization header"}
)

type authError struct{ msg string }

func (e *authError) Error() string { return e.msg }

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
