package middleware

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/heartmarshall/beavernet-backend/internal/domain"
	"github.com/heartmarshall/beavernet-backend/pkg/ctxutil"
)

type authenticator interface {
	Authenticate(ctx context.Context, username, password string) (domain.Identity, error)
}

// BasicAuth rejects requests without valid Basic credentials with 401 and a
// WWW-Authenticate challenge for realm. On success the identity is attached
// to the request context.
func BasicAuth(auth authenticator, realm string, logger *slog.Logger) Middleware {
	challenge := fmt.Sprintf("Basic realm=%q", realm)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := parseBasicAuth(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w, challenge)
				return
			}

			id, err := auth.Authenticate(r.Context(), username, password)
			if err != nil {
				if !errors.Is(err, domain.ErrUnauthorized) {
					logger.ErrorContext(r.Context(), "authentication failed", slog.String("error", err.Error()))
					writeError(w, http.StatusInternalServerError, "internal server error")
					return
				}
				unauthorized(w, challenge)
				return
			}

			annotate(r.Context(), id.Username)
			ctx := ctxutil.WithIdentity(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// parseBasicAuth decodes "Basic base64(user:pass)". The scheme match is
// case-insensitive; the password may contain colons.
func parseBasicAuth(header string) (username, password string, ok bool) {
	scheme, encoded, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Basic") {
		return "", "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", "", false
	}

	username, password, found = strings.Cut(string(decoded), ":")
	if !found || username == "" {
		return "", "", false
	}
	return username, password, true
}

func unauthorized(w http.ResponseWriter, challenge string) {
	w.Header().Set("WWW-Authenticate", challenge)
	writeError(w, http.StatusUnauthorized, "unauthorized")
}
