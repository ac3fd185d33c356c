package role

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/task-management/internal"
	"github.com/frahmantamala/task-management/internal/audit"
	"github.com/frahmantamala/task-management/internal/core/common/pagination"
	roleDatamodel "github.com/frahmantamala/task-management/internal/core/datamodel/role"
)

const EntityType = "role"

type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*roleDatamodel.Role, error)
	GetAll(ctx context.Context) ([]*roleDatamodel.Role, error)
	ListByPage(ctx context.Context, params pagination.Params, filter PageFilter) ([]*roleDatamodel.Role, int64, error)
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, role *roleDatamodel.Role) (*roleDatamodel.Role, error)
	Update(ctx context.Context, role *roleDatamodel.Role) (*roleDatamodel.Role, error)
	Delete(ctx context.Context, id int64) error
}

// Service manages the role catalogue. Roles are read rarely and are not cached.
type Service struct {
	repo     RepositoryAPI
	recorder audit.Recorder
	opts     internal.ServiceOptions
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, recorder audit.Recorder, opts internal.ServiceOptions, logger *slog.Logger) *Service {
	if recorder == nil || !opts.AuditEnabled {
		recorder = audit.Nop{}
	}
	return &Service{
		repo:     repo,
		recorder: recorder,
		opts:     opts,
		logger:   logger,
	}
}

func (s *Service) Create(ctx context.Context, callerID int64, dto CreateRoleDTO) (*RoleResponse, error) {
	if !dto.Name.Set {
		return nil, internal.NewValidationFieldError("name", "name is required", internal.ErrCodeRequiredField)
	}

	role := NewRole()
	if err := role.UpdateName(dto.Name.Value); err != nil {
		return nil, err
	}
	if dto.Description.Set {
		if err := role.UpdateDescription(dto.Description.Value); err != nil {
			return nil, err
		}
	}
	if err := s.ensureNameAvailable(ctx, role.Name, 0); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, ToDataModel(role))
	if err != nil {
		s.logger.Error("failed to create role", "error", err, "name", role.Name)
		return nil, err
	}

	response := FromDataModel(created).ToResponse()
	s.recorder.Record(ctx, audit.NewEntry(EntityType, response.ID, callerID, audit.ActionCreated))

	s.logger.Info("role created", "role_id", response.ID)
	return &response, nil
}

func (s *Service) Update(ctx context.Context, id, callerID int64, dto UpdateRoleDTO) (*RoleResponse, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !dto.HasChanges() {
		return nil, internal.NewValidationError("enter the data to update", internal.ErrCodeNothingToUpdate)
	}

	role := FromDataModel(existing)
	if dto.Name.Set {
		if err := role.UpdateName(dto.Name.Value); err != nil {
			return nil, err
		}
		if role.Name != existing.Name {
			if err := s.ensureNameAvailable(ctx, role.Name, id); err != nil {
				return nil, err
			}
		}
	}
	if dto.Description.Set {
		if err := role.UpdateDescription(dto.Description.Value); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, ToDataModel(role))
	if err != nil {
		s.logger.Error("failed to update role", "error", err, "role_id", id)
		return nil, err
	}

	response := FromDataModel(updated).ToResponse()
	s.recorder.Record(ctx, audit.NewEntry(EntityType, response.ID, callerID, audit.ActionUpdated))

	s.logger.Info("role updated", "role_id", response.ID)
	return &response, nil
}

func (s *Service) Delete(ctx context.Context, id, callerID int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete role", "error", err, "role_id", id)
		return err
	}

	s.recorder.Record(ctx, audit.NewEntry(EntityType, id, callerID, audit.ActionDeleted))
	s.logger.Info("role deleted", "role_id", id)
	return nil
}

func (s *Service) GetOne(ctx context.Context, id int64) (*RoleResponse, error) {
	dataRole, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := FromDataModel(dataRole).ToResponse()
	return &response, nil
}

func (s *Service) GetAll(ctx context.Context) ([]RoleResponse, error) {
	dataRoles, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to get roles", "error", err)
		return nil, err
	}

	s.logger.Debug("retrieved roles", "count", len(dataRoles))
	return toResponses(dataRoles), nil
}

func (s *Service) GetPage(ctx context.Context, page, perPage int, filter PageFilter) (pagination.Page[RoleResponse], error) {
	params := pagination.Normalize(page, perPage, s.opts.DefaultPerPage)

	dataRoles, total, err := s.repo.ListByPage(ctx, params, filter)
	if err != nil {
		s.logger.Error("failed to page roles", "error", err, "page", params.Page)
		return pagination.Page[RoleResponse]{}, err
	}

	return pagination.NewPage(toResponses(dataRoles), params, total), nil
}

func (s *Service) ensureNameAvailable(ctx context.Context, name string, excludeID int64) error {
	exists, err := s.repo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return internal.NewConflictError("Role name already exists.", internal.ErrCodeRoleNameExists)
	}
	return nil
}

func toResponses(dataRoles []*roleDatamodel.Role) []RoleResponse {
	responses := make([]RoleResponse, 0, len(dataRoles))
	for _, dataRole := range dataRoles {
		responses = append(responses, FromDataModel(dataRole).ToResponse())
	}
	return responses
}
