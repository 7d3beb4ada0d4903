package menus

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-admin/meridian-admin/internal/platform/httpx"
	"github.com/meridian-admin/meridian-admin/internal/shared"
)

// Handler manages menu administration endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers menu routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listMenus)
	r.Get("/tree", h.menuTree)
	r.Get("/{menuID}", h.getMenu)
	r.Post("/", h.createMenu)
	r.Put("/{menuID}", h.updateMenu)
	r.Delete("/{menuID}", h.deleteMenu)
}

func (h *Handler) listMenus(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	search := r.URL.Query().Get("search")

	items, pagination, err := h.service.ListMenus(r.Context(), page, perPage, search)
	if err != nil {
		h.logger.Error("list menus", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Menu{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "pagination": pagination})
}

func (h *Handler) menuTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.service.MenuTree(r.Context())
	if err != nil {
		h.logger.Error("menu tree", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tree)
}

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	id, err := menuID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	menu, err := h.service.GetMenu(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, menu)
}

func (h *Handler) createMenu(w http.ResponseWriter, r *http.Request) {
	var in CreateMenuInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validator.Struct(in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	menu, err := h.service.CreateMenu(r.Context(), in)
	if err != nil {
		h.logger.Error("create menu", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, menu)
}

func (h *Handler) updateMenu(w http.ResponseWriter, r *http.Request) {
	id, err := menuID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var in UpdateMenuInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validator.Struct(in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	menu, err := h.service.UpdateMenu(r.Context(), id, in)
	if err != nil {
		h.logger.Error("update menu", slog.Any("error", err), slog.Int64("menu_id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, menu)
}

func (h *Handler) deleteMenu(w http.ResponseWriter, r *http.Request) {
	id, err := menuID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.DeleteMenu(r.Context(), id); err != nil {
		h.logger.Error("delete menu", slog.Any("error", err), slog.Int64("menu_id", id))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func menuID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "menuID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, shared.ErrNotFound
	}
	return id, nil
}
