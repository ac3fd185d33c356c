package permission

import (
	"context"
	"net/http"

	"github.com/frahmantamala/task-management/internal/core/common/pagination"
	"github.com/frahmantamala/task-management/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, callerID int64, dto CreatePermissionDTO) (*PermissionResponse, error)
	Update(ctx context.Context, id, callerID int64, dto UpdatePermissionDTO) (*PermissionResponse, error)
	Delete(ctx context.Context, id, callerID int64) error
	GetOne(ctx context.Context, id int64) (*PermissionResponse, error)
	GetAll(ctx context.Context) ([]PermissionResponse, error)
	GetPage(ctx context.Context, page, perPage int, filter PageFilter) (pagination.Page[PermissionResponse], error)
	Search(ctx context.Context, filter SearchFilter) ([]PermissionResponse, error)
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

func (h *Handler) CreatePermission(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	var dto CreatePermissionDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	permission, err := h.Service.Create(r.Context(), callerID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, permission)
}

func (h *Handler) GetPermissions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if !query.Has("page") {
		permissions, err := h.Service.GetAll(r.Context())
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}
		h.WriteSuccess(w, http.StatusOK, permissions)
		return
	}

	filter := PageFilter{
		RoleID:      query.Get("role_id"),
		OperationID: query.Get("operation_id"),
	}
	page, err := h.Service.GetPage(r.Context(),
		transport.QueryInt(r, "page", 1),
		transport.QueryInt(r, "perPage", 0),
		filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, page)
}

func (h *Handler) GetPermission(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	permission, err := h.Service.GetOne(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, permission)
}

// SearchPermissions narrows by the role_id and operation_id query values.
func (h *Handler) SearchPermissions(w http.ResponseWriter, r *http.Request) {
	roleID, err := transport.QueryInt64Ptr(r, "role_id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	operationID, err := transport.QueryInt64Ptr(r, "operation_id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	permissions, err := h.Service.Search(r.Context(), SearchFilter{RoleID: roleID, OperationID: operationID})
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, permissions)
}

func (h *Handler) UpdatePermission(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	var dto UpdatePermissionDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	permission, err := h.Service.Update(r.Context(), id, callerID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, permission)
}

func (h *Handler) DeletePermission(w http.ResponseWriter, r *http.Request) {
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
