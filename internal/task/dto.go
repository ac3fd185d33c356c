package task

import (
	"time"

	"github.com/frahmantamala/task-management/internal/core/common/optional"
)

type CreateTaskDTO struct {
	Name        optional.Field[string] `json:"name"`
	Description optional.Field[string] `json:"description"`
	Status      optional.Field[int]    `json:"status"`
}

// UpdateTaskDTO carries only the fields present in the request.
type UpdateTaskDTO struct {
	Name        optional.Field[string] `json:"name"`
	Description optional.Field[string] `json:"description"`
	Status      optional.Field[int]    `json:"status"`
}

func (d UpdateTaskDTO) HasChanges() bool {
	return optional.AnySet(d.Name.Set, d.Description.Set, d.Status.Set)
}

// PageFilter values are substring matches; empty values match everything.
type PageFilter struct {
	Name        string
	Description string
	Status      string
}

type TaskResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      int       `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
