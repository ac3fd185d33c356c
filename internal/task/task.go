package task

import (
	"strings"
	"time"

	"github.com/frahmantamala/task-management/internal"
	"github.com/frahmantamala/task-management/internal/core/common/validation"
	taskDatamodel "github.com/frahmantamala/task-management/internal/core/datamodel/task"
)

const (
	StatusOpen = 0
	StatusDone = 1

	maxNameLength        = 100
	maxDescriptionLength = 500
)

type Task struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      int       `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask returns an open task owned by userID. The owner never changes afterwards.
func NewTask(userID int64) *Task {
	return &Task{
		UserID: userID,
		Status: StatusOpen,
	}
}

func (t *Task) UpdateName(name string) error {
	name = strings.TrimSpace(name)
	v := validation.NewValidator()
	v.Field("name", name).Required().MaxLength(maxNameLength)
	if err := v.Validate(); err != nil {
		return err
	}
	t.Name = name
	return nil
}

func (t *Task) UpdateDescription(description string) error {
	description = strings.TrimSpace(description)
	v := validation.NewValidator()
	v.Field("description", description).MaxLength(maxDescriptionLength)
	if err := v.Validate(); err != nil {
		return err
	}
	t.Description = description
	return nil
}

func (t *Task) UpdateStatus(status int) error {
	v := validation.NewValidator()
	v.Field("status", status).OneOfInt(internal.ErrCodeInvalidStatus, StatusOpen, StatusDone)
	if err := v.Validate(); err != nil {
		return err
	}
	t.Status = status
	return nil
}

func (t *Task) IsDone() bool {
	return t.Status == StatusDone
}

func (t *Task) ToResponse() TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Name:        t.Name,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func ToDataModel(t *Task) *taskDatamodel.Task {
	return &taskDatamodel.Task{
		ID:          t.ID,
		UserID:      t.UserID,
		Name:        t.Name,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func FromDataModel(t *taskDatamodel.Task) *Task {
	return &Task{
		ID:          t.ID,
		UserID:      t.UserID,
		Name:        t.Name,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
