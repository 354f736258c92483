package middleware

import (
	"net/http"

	"github.com/heartmarshall/beavernet-backend/internal/domain"
	"github.com/heartmarshall/beavernet-backend/pkg/ctxutil"
)

// RequireAccess allows the request through only when the context identity's
// access level is exactly one of levels. There is no level hierarchy.
// Requests without an identity are forbidden too.
func RequireAccess(levels ...domain.AccessLevel) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := ctxutil.IdentityFromCtx(r.Context())
			if !ok || !id.HasAccess(levels...) {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
