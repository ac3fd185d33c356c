package permission

import (
	"time"

	"github.com/frahmantamala/task-management/internal/core/common/validation"
	permissionDatamodel "github.com/frahmantamala/task-management/internal/core/datamodel/permission"
)

// Permission grants the operation OperationID to every holder of RoleID.
type Permission struct {
	ID          int64     `json:"id"`
	RoleID      int64     `json:"role_id"`
	OperationID int64     `json:"operation_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewPermission() *Permission {
	return &Permission{}
}

func (p *Permission) UpdateRoleID(roleID int64) error {
	v := validation.NewValidator()
	v.Field("role_id", roleID).Required().Positive()
	if err := v.Validate(); err != nil {
		return err
	}
	p.RoleID = roleID
	return nil
}

func (p *Permission) UpdateOperationID(operationID int64) error {
	v := validation.NewValidator()
	v.Field("operation_id", operationID).Required().Positive()
	if err := v.Validate(); err != nil {
		return err
	}
	p.OperationID = operationID
	return nil
}

func (p *Permission) ToResponse() PermissionResponse {
	return PermissionResponse{
		ID:          p.ID,
		RoleID:      p.RoleID,
		OperationID: p.OperationID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToDataModel(p *Permission) *permissionDatamodel.Permission {
	return &permissionDatamodel.Permission{
		ID:          p.ID,
		RoleID:      p.RoleID,
		OperationID: p.OperationID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func FromDataModel(p *permissionDatamodel.Permission) *Permission {
	return &Permission{
		ID:          p.ID,
		RoleID:      p.RoleID,
		OperationID: p.OperationID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
