package auth

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Middleware enforces the bearer token contract: a missing credential is 401,
// an invalid or expired one is 403. On success the verified identity is
// attached to the request context.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeAuthError(w, http.StatusUnauthorized, "Access denied")
			return
		}

		claims, err := s.Parse(token)
		if err != nil {
			writeAuthError(w, http.StatusForbidden, "Invalid token")
			return
		}

		ctx := WithIdentity(r.Context(), Identity{ID: claims.ID, Username: claims.Username})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}
