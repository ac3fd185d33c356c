package role

import (
	"strings"
	"time"

	"github.com/frahmantamala/task-management/internal/core/common/validation"
	roleDatamodel "github.com/frahmantamala/task-management/internal/core/datamodel/role"
)

const (
	maxNameLength        = 50
	maxDescriptionLength = 255
)

type Role struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewRole() *Role {
	return &Role{}
}

func (r *Role) UpdateName(name string) error {
	name = strings.TrimSpace(name)
	v := validation.NewValidator()
	v.Field("name", name).Required().MaxLength(maxNameLength)
	if err := v.Validate(); err != nil {
		return err
	}
	r.Name = name
	return nil
}

func (r *Role) UpdateDescription(description string) error {
	description = strings.TrimSpace(description)
	v := validation.NewValidator()
	v.Field("description", description).MaxLength(maxDescriptionLength)
	if err := v.Validate(); err != nil {
		return err
	}
	r.Description = description
	return nil
}

func (r *Role) ToResponse() RoleResponse {
	return RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func ToDataModel(r *Role) *roleDatamodel.Role {
	return &roleDatamodel.Role{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func FromDataModel(r *roleDatamodel.Role) *Role {
	return &Role{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
