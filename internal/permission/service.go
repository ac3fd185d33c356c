package permission

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/task-management/internal"
	"github.com/frahmantamala/task-management/internal/audit"
	"github.com/frahmantamala/task-management/internal/cache"
	"github.com/frahmantamala/task-management/internal/core/common/pagination"
	permissionDatamodel "github.com/frahmantamala/task-management/internal/core/datamodel/permission"
)

const EntityType = "permission"

type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*permissionDatamodel.Permission, error)
	GetAll(ctx context.Context) ([]*permissionDatamodel.Permission, error)
	ListByPage(ctx context.Context, params pagination.Params, filter PageFilter) ([]*permissionDatamodel.Permission, int64, error)
	Search(ctx context.Context, filter SearchFilter) ([]*permissionDatamodel.Permission, error)
	Create(ctx context.Context, permission *permissionDatamodel.Permission) (*permissionDatamodel.Permission, error)
	Update(ctx context.Context, permission *permissionDatamodel.Permission) (*permissionDatamodel.Permission, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo     RepositoryAPI
	cache    *cache.Cache
	recorder audit.Recorder
	opts     internal.ServiceOptions
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, c *cache.Cache, recorder audit.Recorder, opts internal.ServiceOptions, logger *slog.Logger) *Service {
	if !opts.CacheEnabled {
		c = nil
	}
	if recorder == nil || !opts.AuditEnabled {
		recorder = audit.Nop{}
	}
	return &Service{
		repo:     repo,
		cache:    c,
		recorder: recorder,
		opts:     opts,
		logger:   logger,
	}
}

func (s *Service) Create(ctx context.Context, callerID int64, dto CreatePermissionDTO) (*PermissionResponse, error) {
	if !dto.RoleID.Set {
		return nil, internal.NewValidationFieldError("role_id", "role_id is required", internal.ErrCodeRequiredField)
	}
	if !dto.OperationID.Set {
		return nil, internal.NewValidationFieldError("operation_id", "operation_id is required", internal.ErrCodeRequiredField)
	}

	permission := NewPermission()
	if err := permission.UpdateRoleID(dto.RoleID.Value); err != nil {
		return nil, err
	}
	if err := permission.UpdateOperationID(dto.OperationID.Value); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, ToDataModel(permission))
	if err != nil {
		s.logger.Error("failed to create permission", "error", err, "role_id", permission.RoleID)
		return nil, err
	}

	response := FromDataModel(created).ToResponse()
	s.cache.Put(ctx, EntityType, response.ID, 0, response)
	s.recorder.Record(ctx, audit.NewEntry(EntityType, response.ID, callerID, audit.ActionCreated))

	s.logger.Info("permission created", "permission_id", response.ID)
	return &response, nil
}

func (s *Service) Update(ctx context.Context, id, callerID int64, dto UpdatePermissionDTO) (*PermissionResponse, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !dto.HasChanges() {
		return nil, internal.NewValidationError("enter the data to update", internal.ErrCodeNothingToUpdate)
	}

	permission := FromDataModel(existing)
	if dto.RoleID.Set {
		if err := permission.UpdateRoleID(dto.RoleID.Value); err != nil {
			return nil, err
		}
	}
	if dto.OperationID.Set {
		if err := permission.UpdateOperationID(dto.OperationID.Value); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, ToDataModel(permission))
	if err != nil {
		s.logger.Error("failed to update permission", "error", err, "permission_id", id)
		return nil, err
	}

	response := FromDataModel(updated).ToResponse()
	s.cache.Put(ctx, EntityType, response.ID, 0, response)
	s.recorder.Record(ctx, audit.NewEntry(EntityType, response.ID, callerID, audit.ActionUpdated))

	s.logger.Info("permission updated", "permission_id", response.ID)
	return &response, nil
}

func (s *Service) Delete(ctx context.Context, id, callerID int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete permission", "error", err, "permission_id", id)
		return err
	}

	s.cache.Invalidate(ctx, EntityType, id, 0)
	s.recorder.Record(ctx, audit.NewEntry(EntityType, id, callerID, audit.ActionDeleted))

	s.logger.Info("permission deleted", "permission_id", id)
	return nil
}

func (s *Service) GetOne(ctx context.Context, id int64) (*PermissionResponse, error) {
	var cached PermissionResponse
	if s.cache.Get(ctx, EntityType, id, 0, &cached) {
		return &cached, nil
	}

	dataPermission, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := FromDataModel(dataPermission).ToResponse()
	s.cache.Put(ctx, EntityType, id, 0, response)
	return &response, nil
}

func (s *Service) GetAll(ctx context.Context) ([]PermissionResponse, error) {
	dataPermissions, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to get permissions", "error", err)
		return nil, err
	}
	return toResponses(dataPermissions), nil
}

func (s *Service) GetPage(ctx context.Context, page, perPage int, filter PageFilter) (pagination.Page[PermissionResponse], error) {
	params := pagination.Normalize(page, perPage, s.opts.DefaultPerPage)

	dataPermissions, total, err := s.repo.ListByPage(ctx, params, filter)
	if err != nil {
		s.logger.Error("failed to page permissions", "error", err, "page", params.Page)
		return pagination.Page[PermissionResponse]{}, err
	}

	return pagination.NewPage(toResponses(dataPermissions), params, total), nil
}

func (s *Service) Search(ctx context.Context, filter SearchFilter) ([]PermissionResponse, error) {
	dataPermissions, err := s.repo.Search(ctx, filter)
	if err != nil {
		s.logger.Error("failed to search permissions", "error", err)
		return nil, err
	}
	return toResponses(dataPermissions), nil
}

func toResponses(dataPermissions []*permissionDatamodel.Permission) []PermissionResponse {
	responses := make([]PermissionResponse, 0, len(dataPermissions))
	for _, dataPermission := range dataPermissions {
		responses = append(responses, FromDataModel(dataPermission).ToResponse())
	}
	return responses
}
