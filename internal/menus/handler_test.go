package menus

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func testRouter(t *testing.T) (chi.Router, *mockRepository) {
	t.Helper()
	repo := newMockRepository()
	handler := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), NewService(repo))
	r := chi.NewRouter()
	r.Route("/menus", handler.MountRoutes)
	return r, repo
}

func TestCreateMenuEndpoint(t *testing.T) {
	router, _ := testRouter(t)

	body := strings.NewReader(`{"name":"System","path":"/system","menu_type":"menu"}`)
	req := httptest.NewRequest(http.MethodPost, "/menus/", body)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var created Menu
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == 0 || created.Name != "System" {
		t.Fatalf("unexpected menu: %+v", created)
	}
}

func TestCreateMenuEndpointRejectsInvalidBody(t *testing.T) {
	router, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/menus/", strings.NewReader(`{"name":""}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestCreateMenuEndpointRejectsBadMenuType(t *testing.T) {
	router, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/menus/", strings.NewReader(`{"name":"X","menu_type":"page"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestGetMenuEndpointNotFound(t *testing.T) {
	router, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/menus/42", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestMenuTreeEndpoint(t *testing.T) {
	router, repo := testRouter(t)
	repo.menus[1] = Menu{ID: 1, Name: "System", IsActive: true, IsVisible: true}
	repo.menus[2] = Menu{ID: 2, Name: "Users", ParentID: 1, IsActive: true, IsVisible: true}

	req := httptest.NewRequest(http.MethodGet, "/menus/tree", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var forest []Node
	if err := json.Unmarshal(rr.Body.Bytes(), &forest); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(forest) != 1 || len(forest[0].Children) != 1 {
		t.Fatalf("unexpected forest shape: %s", rr.Body.String())
	}
}

func TestDeleteMenuEndpointConflictWithChildren(t *testing.T) {
	router, repo := testRouter(t)
	repo.menus[1] = Menu{ID: 1, Name: "System", IsActive: true}
	repo.menus[2] = Menu{ID: 2, Name: "Users", ParentID: 1, IsActive: true}

	req := httptest.NewRequest(http.MethodDelete, "/menus/1", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
