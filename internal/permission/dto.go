package permission

import (
	"time"

	"github.com/frahmantamala/task-management/internal/core/common/optional"
)

type CreatePermissionDTO struct {
	RoleID      optional.Field[int64] `json:"role_id"`
	OperationID optional.Field[int64] `json:"operation_id"`
}

type UpdatePermissionDTO struct {
	RoleID      optional.Field[int64] `json:"role_id"`
	OperationID optional.Field[int64] `json:"operation_id"`
}

func (d UpdatePermissionDTO) HasChanges() bool {
	return optional.AnySet(d.RoleID.Set, d.OperationID.Set)
}

// PageFilter matches substrings of the textual ids.
type PageFilter struct {
	RoleID      string
	OperationID string
}

// SearchFilter narrows by exact ids; nil matches any.
type SearchFilter struct {
	RoleID      *int64
	OperationID *int64
}

type PermissionResponse struct {
	ID          int64     `json:"id"`
	RoleID      int64     `json:"role_id"`
	OperationID int64     `json:"operation_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
