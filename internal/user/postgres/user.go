package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/task-management/internal"
	"github.com/frahmantamala/task-management/internal/core/common/pagination"
	"github.com/frahmantamala/task-management/internal/core/common/persistence"
	taskDatamodel "github.com/frahmantamala/task-management/internal/core/datamodel/task"
	userDatamodel "github.com/frahmantamala/task-management/internal/core/datamodel/user"
	"github.com/frahmantamala/task-management/internal/user"
	"gorm.io/gorm"
)

const notFoundMessage = "User not found."

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, persistence.ReadError(err, notFoundMessage, internal.ErrCodeUserNotFound)
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, persistence.ReadError(err, notFoundMessage, internal.ErrCodeUserNotFound)
	}
	return &u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("email = ? AND id <> ?", email, excludeID).
		Count(&count).Error
	if err != nil {
		return false, persistence.ReadError(err, notFoundMessage, internal.ErrCodeUserNotFound)
	}
	return count > 0, nil
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, persistence.ReadError(err, notFoundMessage, internal.ErrCodeUserNotFound)
	}
	return users, nil
}

func (r *UserRepository) ListByPage(ctx context.Context, params pagination.Params, filter user.PageFilter) ([]*userDatamodel.User, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("name LIKE ?", pagination.Contains(filter.Name)).
		Where("email LIKE ?", pagination.Contains(filter.Email))

	var users []*userDatamodel.User
	total, err := persistence.Paginate(query, params, &users)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepository) Search(ctx context.Context, name string) ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	err := r.db.WithContext(ctx).
		Where("name LIKE ?", pagination.Contains(name)).
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, persistence.ReadError(err, notFoundMessage, internal.ErrCodeUserNotFound)
	}
	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, u *userDatamodel.User) (*userDatamodel.User, error) {
	var stored userDatamodel.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", u.ID).First(&stored).Error
	})
	if persistence.IsDuplicateKey(err) {
		return nil, internal.NewConflictError("Email already exists.", internal.ErrCodeEmailExists)
	}
	if err != nil {
		return nil, persistence.WriteError(err, "Create failed: the user could not be saved.", internal.ErrCodeCreateFailed)
	}
	return &stored, nil
}

func (r *UserRepository) Update(ctx context.Context, u *userDatamodel.User) (*userDatamodel.User, error) {
	var stored userDatamodel.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&userDatamodel.User{}).
			Where("id = ?", u.ID).
			Updates(map[string]interface{}{
				"name":          u.Name,
				"email":         u.Email,
				"password_hash": u.PasswordHash,
				"updated_at":    time.Now(),
			}).Error
		if err != nil {
			return err
		}
		return tx.Where("id = ?", u.ID).First(&stored).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, persistence.ReadError(err, notFoundMessage, internal.ErrCodeUserNotFound)
	}
	if persistence.IsDuplicateKey(err) {
		return nil, internal.NewConflictError("Email already exists.", internal.ErrCodeEmailExists)
	}
	if err != nil {
		return nil, persistence.WriteError(err, "Update failed: the user could not be saved.", internal.ErrCodeUpdateFailed)
	}
	return &stored, nil
}

// Delete removes the user's tasks and then the user in one transaction.
func (r *UserRepository) Delete(ctx context.Context, id int64) ([]int64, error) {
	var taskIDs []int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&taskDatamodel.Task{}).Where("user_id = ?", id).Pluck("id", &taskIDs).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&taskDatamodel.Task{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&userDatamodel.User{}).Error
	})
	if err != nil {
		return nil, persistence.WriteError(err, "Delete failed: the user could not be removed.", internal.ErrCodeDeleteFailed)
	}
	return taskIDs, nil
}
