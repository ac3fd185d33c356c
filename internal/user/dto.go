package user

import (
	"time"

	"github.com/frahmantamala/task-management/internal/core/common/optional"
)

type CreateUserDTO struct {
	Name     optional.Field[string] `json:"name"`
	Email    optional.Field[string] `json:"email"`
	Password optional.Field[string] `json:"password"`
}

type UpdateUserDTO struct {
	Name     optional.Field[string] `json:"name"`
	Email    optional.Field[string] `json:"email"`
	Password optional.Field[string] `json:"password"`
}

func (d UpdateUserDTO) HasChanges() bool {
	return optional.AnySet(d.Name.Set, d.Email.Set, d.Password.Set)
}

type PageFilter struct {
	Name  string
	Email string
}

// UserResponse never carries the password hash.
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
