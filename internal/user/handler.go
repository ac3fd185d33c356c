package user

import (
	"context"
	"net/http"

	"github.com/frahmantamala/task-management/internal/core/common/pagination"
	"github.com/frahmantamala/task-management/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(ctx context.Context, dto CreateUserDTO) (*UserResponse, error)
	Update(ctx context.Context, id, callerID int64, dto UpdateUserDTO) (*UserResponse, error)
	Delete(ctx context.Context, id, callerID int64) error
	GetOne(ctx context.Context, id int64) (*UserResponse, error)
	GetAll(ctx context.Context) ([]UserResponse, error)
	GetPage(ctx context.Context, page, perPage int, filter PageFilter) (pagination.Page[UserResponse], error)
	Search(ctx context.Context, name string) ([]UserResponse, error)
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

// CreateUser registers a new account and needs no token.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	user, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, user)
}

func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	user, err := h.Service.GetOne(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, user)
}

func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if !query.Has("page") {
		users, err := h.Service.GetAll(r.Context())
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}
		h.WriteSuccess(w, http.StatusOK, users)
		return
	}

	filter := PageFilter{
		Name:  query.Get("name"),
		Email: query.Get("email"),
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

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	user, err := h.Service.GetOne(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, user)
}

func (h *Handler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.Search(r.Context(), chi.URLParam(r, "query"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, users)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	var dto UpdateUserDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	user, err := h.Service.Update(r.Context(), id, callerID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, user)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
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
