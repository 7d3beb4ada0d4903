package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/meridian-admin/meridian-admin/internal/menus"
	"github.com/meridian-admin/meridian-admin/internal/shared"
)

func middlewareFixture() Middleware {
	granted := activeMenu(1, "system:user:list")
	store := &mockStore{
		users: map[int64]*UserGrants{
			1: {ID: 1, IsActive: true, Roles: []RoleGrant{
				{ID: 10, IsActive: true, Menus: []menus.Menu{granted}},
			}},
			2: {ID: 2, IsActive: true, IsSuperuser: true},
		},
		all: []menus.Menu{granted},
	}
	return Middleware{Service: NewService(store)}
}

func serve(t *testing.T, mw func(http.Handler) http.Handler, principal *shared.Principal) *httptest.ResponseRecorder {
	t.Helper()
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if principal != nil {
		req = req.WithContext(shared.ContextWithPrincipal(req.Context(), principal))
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestRequireAnyGrantsMatchingPermission(t *testing.T) {
	mw := middlewareFixture()
	rr := serve(t, mw.RequireAny("system:user:list"), &shared.Principal{ID: 1})
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
}

func TestRequireAnyDeniesMissingPermission(t *testing.T) {
	mw := middlewareFixture()
	rr := serve(t, mw.RequireAny("system:role:list"), &shared.Principal{ID: 1})
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestRequireAnySuperuserBypass(t *testing.T) {
	mw := middlewareFixture()
	rr := serve(t, mw.RequireAny("anything:at:all"), &shared.Principal{ID: 2, IsSuperuser: true})
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
}

func TestRequireAnyWithoutPrincipal(t *testing.T) {
	mw := middlewareFixture()
	rr := serve(t, mw.RequireAny("system:user:list"), nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestRequireAllNeedsEveryPermission(t *testing.T) {
	mw := middlewareFixture()
	rr := serve(t, mw.RequireAll("system:user:list", "system:role:list"), &shared.Principal{ID: 1})
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
	rr = serve(t, mw.RequireAll("system:user:list"), &shared.Principal{ID: 1})
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
}
