package role

import (
	"context"
	"net/http"

	"github.com/frahmantamala/task-management/internal/core/common/pagination"
	"github.com/frahmantamala/task-management/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, callerID int64, dto CreateRoleDTO) (*RoleResponse, error)
	Update(ctx context.Context, id, callerID int64, dto UpdateRoleDTO) (*RoleResponse, error)
	Delete(ctx context.Context, id, callerID int64) error
	GetOne(ctx context.Context, id int64) (*RoleResponse, error)
	GetAll(ctx context.Context) ([]RoleResponse, error)
	GetPage(ctx context.Context, page, perPage int, filter PageFilter) (pagination.Page[RoleResponse], error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	var dto CreateRoleDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	role, err := h.Service.Create(r.Context(), callerID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, role)
}

func (h *Handler) GetRoles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if !query.Has("page") {
		roles, err := h.Service.GetAll(r.Context())
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}
		h.WriteSuccess(w, http.StatusOK, roles)
		return
	}

	page, err := h.Service.GetPage(r.Context(),
		transport.QueryInt(r, "page", 1),
		transport.QueryInt(r, "perPage", 0),
		PageFilter{Name: query.Get("name")})
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, page)
}

func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	role, err := h.Service.GetOne(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, role)
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	var dto UpdateRoleDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	role, err := h.Service.Update(r.Context(), id, callerID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, role)
}

func (h *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), id, callerID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
