package web

import (
	"net/http"

	"github.com/JonMunkholm/employees/internal/core"
)

// requestMetadata adds the client IP and User-Agent to the request context
// so failures logged by the data-access operations carry them.
func requestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := core.ContextWithIPAddress(r.Context(), r.RemoteAddr) // already processed by TrustedRealIP
		ctx = core.ContextWithUserAgent(ctx, r.UserAgent())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
