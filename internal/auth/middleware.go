package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

// TokenMiddleware returns a middleware enforcing shared-token authentication.
// In token mode an empty expected token rejects every request.
func TokenMiddleware(mode, header, token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if mode != "token" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(header)
			if got == "" {
				got = r.URL.Query().Get("token")
			}
			if got == "" {
				unauthorized(w, "missing token")
				return
			}
			if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				unauthorized(w, "invalid token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg}) //nolint:errcheck
}
