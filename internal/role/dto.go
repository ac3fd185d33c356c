package role

import (
	"time"

	"github.com/frahmantamala/task-management/internal/core/common/optional"
)

type CreateRoleDTO struct {
	Name        optional.Field[string] `json:"name"`
	Description optional.Field[string] `json:"description"`
}

type UpdateRoleDTO struct {
	Name        optional.Field[string] `json:"name"`
	Description optional.Field[string] `json:"description"`
}

func (d UpdateRoleDTO) HasChanges() bool {
	return optional.AnySet(d.Name.Set, d.Description.Set)
}

type PageFilter struct {
	Name string
}

type RoleResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
