package user

import (
	"strings"
	"time"

	"github.com/frahmantamala/task-management/internal"
	"github.com/frahmantamala/task-management/internal/core/common/validation"
	userDatamodel "github.com/frahmantamala/task-management/internal/core/datamodel/user"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxNameLength     = 100
	minPasswordLength = 6
	// bcrypt ignores input beyond 72 bytes
	maxPasswordLength = 72
)

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewUser() *User {
	return &User{}
}

func (u *User) UpdateName(name string) error {
	name = strings.TrimSpace(name)
	v := validation.NewValidator()
	v.Field("name", name).Required().MinLength(2).MaxLength(maxNameLength)
	if err := v.Validate(); err != nil {
		return err
	}
	u.Name = name
	return nil
}

func (u *User) UpdateEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	v := validation.NewValidator()
	v.Field("email", email).Required().Email()
	if err := v.Validate(); err != nil {
		return err
	}
	u.Email = email
	return nil
}

// UpdatePassword validates the plaintext and keeps only its bcrypt hash.
func (u *User) UpdatePassword(password string, cost int) error {
	v := validation.NewValidator()
	v.Field("password", password).Required().MinLength(minPasswordLength).MaxLength(maxPasswordLength)
	if err := v.Validate(); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
