package middleware

import (
	"net/http"

	"github.com/artfolio/service/internal/response"
)

// AdminSecretHeader carries the shared admin secret on gated requests.
const AdminSecretHeader = "X-Admin-Secret"

// RequireSecret returns middleware that compares the X-Admin-Secret header to
// the configured shared secret. The secret is injected here rather than read
// from the environment so tests can run gates with different secrets.
func RequireSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get(AdminSecretHeader) != secret {
				response.Forbidden(w, "incorrect admin secret")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
