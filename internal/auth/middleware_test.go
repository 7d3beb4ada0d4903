package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/meridian-admin/meridian-admin/internal/observability"
	"github.com/meridian-admin/meridian-admin/internal/shared"
)

func middlewareFixture(t *testing.T, accounts ...*Account) (Middleware, *Service) {
	t.Helper()
	repo := &mockRepo{accounts: make(map[int64]*Account)}
	for _, acc := range accounts {
		repo.accounts[acc.ID] = acc
	}
	tokens := NewTokenManager([]byte("unit-test-secret"), time.Minute, time.Hour)
	svc := NewService(repo, tokens)
	return Middleware{Service: svc, Metrics: observability.NewMetrics()}, svc
}

func TestAuthenticateMiddlewareAttachesPrincipal(t *testing.T) {
	acc := testAccount(t, "s3cret-pass")
	mw, svc := middlewareFixture(t, acc)

	pair, _, err := svc.Login(context.Background(), LoginInput{Login: "alice", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	var principal *shared.Principal
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal = shared.PrincipalFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if principal == nil || principal.Username != "alice" {
		t.Fatalf("expected principal alice, got %+v", principal)
	}
}

func TestAuthenticateMiddlewareRejectsMissingHeader(t *testing.T) {
	mw, _ := middlewareFixture(t)

	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if rr.Header().Get("WWW-Authenticate") == "" {
		t.Fatal("expected WWW-Authenticate header")
	}
}

func TestAuthenticateMiddlewareRejectsBadToken(t *testing.T) {
	mw, _ := middlewareFixture(t)

	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestRequireSuperuserMiddleware(t *testing.T) {
	mw, _ := middlewareFixture(t)

	handler := mw.RequireSuperuser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := shared.ContextWithPrincipal(req.Context(), &shared.Principal{ID: 1})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req.WithContext(ctx))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-superuser, got %d", rr.Code)
	}

	ctx = shared.ContextWithPrincipal(req.Context(), &shared.Principal{ID: 1, IsSuperuser: true})
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req.WithContext(ctx))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for superuser, got %d", rr.Code)
	}
}
