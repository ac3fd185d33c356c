package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/task-management/internal"
	"github.com/frahmantamala/task-management/internal/core/common/pagination"
	"github.com/frahmantamala/task-management/internal/core/common/persistence"
	taskDatamodel "github.com/frahmantamala/task-management/internal/core/datamodel/task"
	"github.com/frahmantamala/task-management/internal/task"
	"gorm.io/gorm"
)

const notFoundMessage = "Task not found."

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) task.RepositoryAPI {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) GetByID(ctx context.Context, id, userID int64) (*taskDatamodel.Task, error) {
	var t taskDatamodel.Task
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&t).Error
	if err != nil {
		return nil, persistence.ReadError(err, notFoundMessage, internal.ErrCodeTaskNotFound)
	}
	return &t, nil
}

func (r *TaskRepository) GetAllByUser(ctx context.Context, userID int64) ([]*taskDatamodel.Task, error) {
	var tasks []*taskDatamodel.Task
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&tasks).Error
	if err != nil {
		return nil, persistence.ReadError(err, notFoundMessage, internal.ErrCodeTaskNotFound)
	}
	return tasks, nil
}

func (r *TaskRepository) ListByPage(ctx context.Context, userID int64, params pagination.Params, filter task.PageFilter) ([]*taskDatamodel.Task, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&taskDatamodel.Task{}).
		Where("user_id = ?", userID).
		Where("name LIKE ?", pagination.Contains(filter.Name)).
		Where("description LIKE ?", pagination.Contains(filter.Description)).
		Where("CAST(status AS TEXT) LIKE ?", pagination.Contains(filter.Status))

	var tasks []*taskDatamodel.Task
	total, err := persistence.Paginate(query, params, &tasks)
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (r *TaskRepository) Search(ctx context.Context, userID int64, term string, status *int) ([]*taskDatamodel.Task, error) {
	pattern := pagination.Contains(term)
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("(name LIKE ? OR description LIKE ?)", pattern, pattern)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var tasks []*taskDatamodel.Task
	if err := query.Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, persistence.ReadError(err, notFoundMessage, internal.ErrCodeTaskNotFound)
	}
	return tasks, nil
}

// Create inserts the task and returns the row as stored.
func (r *TaskRepository) Create(ctx context.Context, t *taskDatamodel.Task) (*taskDatamodel.Task, error) {
	var stored taskDatamodel.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", t.ID).First(&stored).Error
	})
	if err != nil {
		return nil, persistence.WriteError(err, "Create failed: the task could not be saved.", internal.ErrCodeCreateFailed)
	}
	return &stored, nil
}

// Update writes the mutable columns of a task matched by id and owner, then re-reads it.
func (r *TaskRepository) Update(ctx context.Context, t *taskDatamodel.Task) (*taskDatamodel.Task, error) {
	var stored taskDatamodel.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&taskDatamodel.Task{}).
			Where("id = ? AND user_id = ?", t.ID, t.UserID).
			Updates(map[string]interface{}{
				"name":        t.Name,
				"description": t.Description,
				"status":      t.Status,
				"updated_at":  time.Now(),
			}).Error
		if err != nil {
			return err
		}
		return tx.Where("id = ? AND user_id = ?", t.ID, t.UserID).First(&stored).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, persistence.ReadError(err, notFoundMessage, internal.ErrCodeTaskNotFound)
	}
	if err != nil {
		return nil, persistence.WriteError(err, "Update failed: the task could not be saved.", internal.ErrCodeUpdateFailed)
	}
	return &stored, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id, userID int64) error {
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&taskDatamodel.Task{}).Error
	return persistence.WriteError(err, "Delete failed: the task could not be removed.", internal.ErrCodeDeleteFailed)
}
