package rest

import (
	"net/http"

	"github.com/heartmarshall/beavernet-backend/pkg/ctxutil"
)

// Me handles GET /api/me by echoing the authenticated identity.
func Me(w http.ResponseWriter, r *http.Request) {
	id, ok := ctxutil.IdentityFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, id)
}
