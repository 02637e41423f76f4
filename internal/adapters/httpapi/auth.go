package httpapi

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/church-livestream/cls/internal/httpjson"
)

// requireAdmin exige "Authorization: Bearer <token>" quand un jeton est configuré.
func requireAdmin(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !hasAdminToken(r, token) {
				w.Header().Set("WWW-Authenticate", `Bearer realm="cls"`)
				httpjson.WriteError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func hasAdminToken(r *http.Request, token string) bool {
	if token == "" {
		return true
	}
	got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(got)), []byte(token)) == 1
}
