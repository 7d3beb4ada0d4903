package auth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-admin/meridian-admin/internal/menus"
	"github.com/meridian-admin/meridian-admin/internal/rbac"
	"github.com/meridian-admin/meridian-admin/internal/shared"
)

type stubGrantStore struct {
	users map[int64]*rbac.UserGrants
	all   []menus.Menu
}

func (s *stubGrantStore) GetUserWithRoles(_ context.Context, userID int64) (*rbac.UserGrants, error) {
	user, ok := s.users[userID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (s *stubGrantStore) GetMenusByIDs(_ context.Context, ids []int64, onlyVisible bool) ([]menus.Menu, error) {
	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := []menus.Menu{}
	for _, m := range s.all {
		if _, ok := want[m.ID]; !ok || !m.IsActive {
			continue
		}
		if onlyVisible && !m.IsVisible {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *stubGrantStore) GetAllActiveMenus(_ context.Context) ([]menus.Menu, error) {
	out := []menus.Menu{}
	for _, m := range s.all {
		if m.IsActive {
			out = append(out, m)
		}
	}
	return out, nil
}

func newAdminRouter(store rbac.Store) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(logger, nil, rbac.NewService(store))
	r := chi.NewRouter()
	r.Route("/menus", func(r chi.Router) {
		h.MountAdminRoutes(r)
	})
	return r
}

func TestUserMenusReturnsTargetUsersForest(t *testing.T) {
	visible := menus.Menu{ID: 1, Name: "System", IsActive: true, IsVisible: true}
	hidden := menus.Menu{ID: 2, Name: "User Edit", IsActive: true, IsVisible: false}
	router := newAdminRouter(&stubGrantStore{
		users: map[int64]*rbac.UserGrants{
			42: {ID: 42, IsActive: true, Roles: []rbac.RoleGrant{
				{ID: 10, IsActive: true, Menus: []menus.Menu{visible, hidden}},
			}},
		},
		all: []menus.Menu{visible, hidden},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/menus/user/42", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Items []struct {
			ID int64 `json:"id"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Items) != 1 || body.Items[0].ID != 1 {
		t.Fatalf("items = %+v, want only the visible menu", body.Items)
	}
}

func TestUserMenusUnknownUserYieldsEmptyForest(t *testing.T) {
	router := newAdminRouter(&stubGrantStore{users: map[int64]*rbac.UserGrants{}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/menus/user/7", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); !strings.Contains(got, `"items":[]`) {
		t.Fatalf("body = %s, want empty items", got)
	}
}

func TestUserMenusRejectsBadUserID(t *testing.T) {
	router := newAdminRouter(&stubGrantStore{users: map[int64]*rbac.UserGrants{}})

	for _, path := range []string{"/menus/user/abc", "/menus/user/0"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: status = %d, want 404", path, rec.Code)
		}
	}
}
