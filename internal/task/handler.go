package task

import (
	"context"
	"net/http"
	"strconv"

	"github.com/frahmantamala/task-management/internal/core/common/pagination"
	"github.com/frahmantamala/task-management/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(ctx context.Context, userID int64, dto CreateTaskDTO) (*TaskResponse, error)
	Update(ctx context.Context, id, userID int64, dto UpdateTaskDTO) (*TaskResponse, error)
	Delete(ctx context.Context, id, userID int64) error
	GetOne(ctx context.Context, id, userID int64) (*TaskResponse, error)
	GetAll(ctx context.Context, userID int64) ([]TaskResponse, error)
	GetPage(ctx context.Context, userID int64, page, perPage int, filter PageFilter) (pagination.Page[TaskResponse], error)
	Search(ctx context.Context, userID int64, term string, status *int) ([]TaskResponse, error)
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

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	var dto CreateTaskDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	task, err := h.Service.Create(r.Context(), userID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, task)
}

// GetTasks pages when a page query parameter is supplied, otherwise lists every task of the caller.
func (h *Handler) GetTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	if !query.Has("page") {
		tasks, err := h.Service.GetAll(r.Context(), userID)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}
		h.WriteSuccess(w, http.StatusOK, tasks)
		return
	}

	filter := PageFilter{
		Name:        query.Get("name"),
		Description: query.Get("description"),
		Status:      query.Get("status"),
	}
	page, err := h.Service.GetPage(r.Context(), userID,
		transport.QueryInt(r, "page", 1),
		transport.QueryInt(r, "perPage", 0),
		filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, page)
}

func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.Service.GetOne(r.Context(), id, userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, task)
}

func (h *Handler) SearchTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	var status *int
	if raw := r.URL.Query().Get("status"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			status = &v
		}
	}

	tasks, err := h.Service.Search(r.Context(), userID, chi.URLParam(r, "query"), status)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, tasks)
}

func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	var dto UpdateTaskDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	task, err := h.Service.Update(r.Context(), id, userID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, task)
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), id, userID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
