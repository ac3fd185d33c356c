package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/task-management/internal"
	"github.com/frahmantamala/task-management/internal/core/common/pagination"
	"github.com/frahmantamala/task-management/internal/core/common/persistence"
	permissionDatamodel "github.com/frahmantamala/task-management/internal/core/datamodel/permission"
	"github.com/frahmantamala/task-management/internal/permission"
	"gorm.io/gorm"
)

const notFoundMessage = "Permission not found."

type PermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) permission.RepositoryAPI {
	return &PermissionRepository{db: db}
}

func (r *PermissionRepository) GetByID(ctx context.Context, id int64) (*permissionDatamodel.Permission, error) {
	var p permissionDatamodel.Permission
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, persistence.ReadError(err, notFoundMessage, internal.ErrCodePermissionNotFound)
	}
	return &p, nil
}

func (r *PermissionRepository) GetAll(ctx context.Context) ([]*permissionDatamodel.Permission, error) {
	var permissions []*permissionDatamodel.Permission
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&permissions).Error; err != nil {
		return nil, persistence.ReadError(err, notFoundMessage, internal.ErrCodePermissionNotFound)
	}
	return permissions, nil
}

func (r *PermissionRepository) ListByPage(ctx context.Context, params pagination.Params, filter permission.PageFilter) ([]*permissionDatamodel.Permission, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&permissionDatamodel.Permission{}).
		Where("CAST(role_id AS TEXT) LIKE ?", pagination.Contains(filter.RoleID)).
		Where("CAST(operation_id AS TEXT) LIKE ?", pagination.Contains(filter.OperationID))

	var permissions []*permissionDatamodel.Permission
	total, err := persistence.Paginate(query, params, &permissions)
	if err != nil {
		return nil, 0, err
	}
	return permissions, total, nil
}

func (r *PermissionRepository) Search(ctx context.Context, filter permission.SearchFilter) ([]*permissionDatamodel.Permission, error) {
	query := r.db.WithContext(ctx)
	if filter.RoleID != nil {
		query = query.Where("role_id = ?", *filter.RoleID)
	}
	if filter.OperationID != nil {
		query = query.Where("operation_id = ?", *filter.OperationID)
	}

	var permissions []*permissionDatamodel.Permission
	if err := query.Order("id ASC").Find(&permissions).Error; err != nil {
		return nil, persistence.ReadError(err, notFoundMessage, internal.ErrCodePermissionNotFound)
	}
	return permissions, nil
}

func (r *PermissionRepository) Create(ctx context.Context, p *permissionDatamodel.Permission) (*permissionDatamodel.Permission, error) {
	var stored permissionDatamodel.Permission
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", p.ID).First(&stored).Error
	})
	if err != nil {
		return nil, persistence.WriteError(err, "Create failed: the permission could not be saved.", internal.ErrCodeCreateFailed)
	}
	return &stored, nil
}

func (r *PermissionRepository) Update(ctx context.Context, p *permissionDatamodel.Permission) (*permissionDatamodel.Permission, error) {
	var stored permissionDatamodel.Permission
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&permissionDatamodel.Permission{}).
			Where("id = ?", p.ID).
			Updates(map[string]interface{}{
				"role_id":      p.RoleID,
				"operation_id": p.OperationID,
				"updated_at":   time.Now(),
			}).Error
		if err != nil {
			return err
		}
		return tx.Where("id = ?", p.ID).First(&stored).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, persistence.ReadError(err, notFoundMessage, internal.ErrCodePermissionNotFound)
	}
	if err != nil {
		return nil, persistence.WriteError(err, "Update failed: the permission could not be saved.", internal.ErrCodeUpdateFailed)
	}
	return &stored, nil
}

func (r *PermissionRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&permissionDatamodel.Permission{}).Error
	return persistence.WriteError(err, "Delete failed: the permission could not be removed.", internal.ErrCodeDeleteFailed)
}
