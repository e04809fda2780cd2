package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKey string

const SubjectKey contextKey = "subject"

// Middleware requires a bearer token on every request when the service is
// enabled.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, "invalid authorization format")
			return
		}

		subject, err := s.ValidateToken(parts[1])
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), SubjectKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Authorize checks a token passed outside the Authorization header, such as
// the websocket "token" query parameter. It returns "" when the service is
// disabled.
func (s *Service) Authorize(token string) (string, error) {
	if !s.Enabled() {
		return "", nil
	}
	if token == "" {
		return "", ErrInvalidToken
	}
	return s.ValidateToken(token)
}

func SubjectFromContext(ctx context.Context) string {
	subject, _ := ctx.Value(SubjectKey).(string)
	return subject
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
