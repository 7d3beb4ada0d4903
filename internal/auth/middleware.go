package auth

import (
	"net/http"
	"strings"

	"github.com/meridian-admin/meridian-admin/internal/observability"
	"github.com/meridian-admin/meridian-admin/internal/platform/httpx"
	"github.com/meridian-admin/meridian-admin/internal/shared"
)

// Middleware guards routes with bearer token authentication.
type Middleware struct {
	Service *Service
	Metrics *observability.Metrics
}

// Authenticate verifies the Authorization header and attaches the principal
// to the request context. Requests without a valid, live subject are rejected
// with a single 401 shape regardless of which check failed.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			m.Metrics.RecordAuthDecision("missing_token")
			httpx.RespondError(w, shared.ErrUnauthenticated)
			return
		}
		principal, err := m.Service.Authenticate(r.Context(), token)
		if err != nil {
			m.Metrics.RecordAuthDecision("rejected")
			httpx.RespondError(w, shared.ErrUnauthenticated)
			return
		}
		m.Metrics.RecordAuthDecision("accepted")
		ctx := shared.ContextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireSuperuser rejects authenticated non-superusers with 403.
func (m Middleware) RequireSuperuser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := shared.PrincipalFromContext(r.Context())
		if err := m.Service.RequireSuperuser(principal); err != nil {
			m.Metrics.RecordAuthDecision("forbidden")
			httpx.RespondError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
