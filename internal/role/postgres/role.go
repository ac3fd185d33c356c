package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/task-management/internal"
	"github.com/frahmantamala/task-management/internal/core/common/pagination"
	"github.com/frahmantamala/task-management/internal/core/common/persistence"
	roleDatamodel "github.com/frahmantamala/task-management/internal/core/datamodel/role"
	"github.com/frahmantamala/task-management/internal/role"
	"gorm.io/gorm"
)

const notFoundMessage = "Role not found."

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) role.RepositoryAPI {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) GetByID(ctx context.Context, id int64) (*roleDatamodel.Role, error) {
	var rl roleDatamodel.Role
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rl).Error; err != nil {
		return nil, persistence.ReadError(err, notFoundMessage, internal.ErrCodeRoleNotFound)
	}
	return &rl, nil
}

func (r *RoleRepository) GetAll(ctx context.Context) ([]*roleDatamodel.Role, error) {
	var roles []*roleDatamodel.Role
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&roles).Error; err != nil {
		return nil, persistence.ReadError(err, notFoundMessage, internal.ErrCodeRoleNotFound)
	}
	return roles, nil
}

func (r *RoleRepository) ListByPage(ctx context.Context, params pagination.Params, filter role.PageFilter) ([]*roleDatamodel.Role, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&roleDatamodel.Role{}).
		Where("name LIKE ?", pagination.Contains(filter.Name))

	var roles []*roleDatamodel.Role
	total, err := persistence.Paginate(query, params, &roles)
	if err != nil {
		return nil, 0, err
	}
	return roles, total, nil
}

func (r *RoleRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&roleDatamodel.Role{}).
		Where("name = ? AND id <> ?", name, excludeID).
		Count(&count).Error
	if err != nil {
		return false, persistence.ReadError(err, notFoundMessage, internal.ErrCodeRoleNotFound)
	}
	return count > 0, nil
}

func (r *RoleRepository) Create(ctx context.Context, rl *roleDatamodel.Role) (*roleDatamodel.Role, error) {
	var stored roleDatamodel.Role
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rl).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", rl.ID).First(&stored).Error
	})
	if persistence.IsDuplicateKey(err) {
		return nil, internal.NewConflictError("Role name already exists.", internal.ErrCodeRoleNameExists)
	}
	if err != nil {
		return nil, persistence.WriteError(err, "Create failed: the role could not be saved.", internal.ErrCodeCreateFailed)
	}
	return &stored, nil
}

func (r *RoleRepository) Update(ctx context.Context, rl *roleDatamodel.Role) (*roleDatamodel.Role, error) {
	var stored roleDatamodel.Role
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&roleDatamodel.Role{}).
			Where("id = ?", rl.ID).
			Updates(map[string]interface{}{
				"name":        rl.Name,
				"description": rl.Description,
				"updated_at":  time.Now(),
			}).Error
		if err != nil {
			return err
		}
		return tx.Where("id = ?", rl.ID).First(&stored).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, persistence.ReadError(err, notFoundMessage, internal.ErrCodeRoleNotFound)
	}
	if persistence.IsDuplicateKey(err) {
		return nil, internal.NewConflictError("Role name already exists.", internal.ErrCodeRoleNameExists)
	}
	if err != nil {
		return nil, persistence.WriteError(err, "Update failed: the role could not be saved.", internal.ErrCodeUpdateFailed)
	}
	return &stored, nil
}

func (r *RoleRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&roleDatamodel.Role{}).Error
	return persistence.WriteError(err, "Delete failed: the role could not be removed.", internal.ErrCodeDeleteFailed)
}
