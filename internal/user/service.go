package user

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/frahmantamala/task-management/internal"
	"github.com/frahmantamala/task-management/internal/audit"
	"github.com/frahmantamala/task-management/internal/cache"
	"github.com/frahmantamala/task-management/internal/core/common/pagination"
	userDatamodel "github.com/frahmantamala/task-management/internal/core/datamodel/user"
	"github.com/frahmantamala/task-management/internal/task"
)

const EntityType = "user"

type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	GetAll(ctx context.Context) ([]*userDatamodel.User, error)
	ListByPage(ctx context.Context, params pagination.Params, filter PageFilter) ([]*userDatamodel.User, int64, error)
	Search(ctx context.Context, name string) ([]*userDatamodel.User, error)
	Create(ctx context.Context, user *userDatamodel.User) (*userDatamodel.User, error)
	Update(ctx context.Context, user *userDatamodel.User) (*userDatamodel.User, error)
	// Delete removes the user together with its tasks and returns the removed task ids.
	Delete(ctx context.Context, id int64) ([]int64, error)
}

type Service struct {
	repo       RepositoryAPI
	cache      *cache.Cache
	recorder   audit.Recorder
	opts       internal.ServiceOptions
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, c *cache.Cache, recorder audit.Recorder, opts internal.ServiceOptions, bcryptCost int, logger *slog.Logger) *Service {
	if !opts.CacheEnabled {
		c = nil
	}
	if recorder == nil || !opts.AuditEnabled {
		recorder = audit.Nop{}
	}
	return &Service{
		repo:       repo,
		cache:      c,
		recorder:   recorder,
		opts:       opts,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) Create(ctx context.Context, dto CreateUserDTO) (*UserResponse, error) {
	if !dto.Name.Set {
		return nil, internal.NewValidationFieldError("name", "name is required", internal.ErrCodeRequiredField)
	}
	if !dto.Email.Set {
		return nil, internal.NewValidationFieldError("email", "email is required", internal.ErrCodeRequiredField)
	}
	if !dto.Password.Set {
		return nil, internal.NewValidationFieldError("password", "password is required", internal.ErrCodeRequiredField)
	}

	user := NewUser()
	if err := user.UpdateName(dto.Name.Value); err != nil {
		return nil, err
	}
	if err := user.UpdateEmail(dto.Email.Value); err != nil {
		return nil, err
	}
	if err := s.ensureEmailAvailable(ctx, user.Email, 0); err != nil {
		return nil, err
	}
	if err := user.UpdatePassword(dto.Password.Value, s.bcryptCost); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, ToDataModel(user))
	if err != nil {
		s.logger.Error("failed to create user", "error", err, "email", user.Email)
		return nil, err
	}

	response := FromDataModel(created).ToResponse()
	s.cache.Put(ctx, EntityType, response.ID, 0, response)
	s.recorder.Record(ctx, audit.NewEntry(EntityType, response.ID, response.ID, audit.ActionCreated))

	s.logger.Info("user created", "user_id", response.ID)
	return &response, nil
}

func (s *Service) Update(ctx context.Context, id, callerID int64, dto UpdateUserDTO) (*UserResponse, error) {
	existing, err := s.load(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	if !dto.HasChanges() {
		return nil, internal.NewValidationError("enter the data to update", internal.ErrCodeNothingToUpdate)
	}

	user := FromDataModel(existing)
	if dto.Name.Set {
		if err := user.UpdateName(dto.Name.Value); err != nil {
			return nil, err
		}
	}
	if dto.Email.Set {
		if err := user.UpdateEmail(dto.Email.Value); err != nil {
			return nil, err
		}
		if user.Email != existing.Email {
			if err := s.ensureEmailAvailable(ctx, user.Email, id); err != nil {
				return nil, err
			}
		}
	}
	if dto.Password.Set {
		if err := user.UpdatePassword(dto.Password.Value, s.bcryptCost); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, ToDataModel(user))
	if err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", id)
		return nil, err
	}

	response := FromDataModel(updated).ToResponse()
	s.cache.Put(ctx, EntityType, response.ID, 0, response)
	s.recorder.Record(ctx, audit.NewEntry(EntityType, response.ID, callerID, audit.ActionUpdated))

	s.logger.Info("user updated", "user_id", response.ID)
	return &response, nil
}

func (s *Service) Delete(ctx context.Context, id, callerID int64) error {
	if _, err := s.load(ctx, id, callerID); err != nil {
		return err
	}

	taskIDs, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete user", "error", err, "user_id", id)
		return err
	}

	s.cache.Invalidate(ctx, EntityType, id, 0)
	for _, taskID := range taskIDs {
		s.cache.Invalidate(ctx, task.EntityType, taskID, id)
	}
	s.recorder.Record(ctx, audit.NewEntry(EntityType, id, callerID, audit.ActionDeleted))

	s.logger.Info("user deleted", "user_id", id, "tasks_removed", len(taskIDs))
	return nil
}

func (s *Service) GetOne(ctx context.Context, id int64) (*UserResponse, error) {
	var cached UserResponse
	if s.cache.Get(ctx, EntityType, id, 0, &cached) {
		return &cached, nil
	}

	dataUser, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := FromDataModel(dataUser).ToResponse()
	s.cache.Put(ctx, EntityType, id, 0, response)
	return &response, nil
}

func (s *Service) GetAll(ctx context.Context) ([]UserResponse, error) {
	dataUsers, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to get users", "error", err)
		return nil, err
	}
	return toResponses(dataUsers), nil
}

func (s *Service) GetPage(ctx context.Context, page, perPage int, filter PageFilter) (pagination.Page[UserResponse], error) {
	params := pagination.Normalize(page, perPage, s.opts.DefaultPerPage)

	dataUsers, total, err := s.repo.ListByPage(ctx, params, filter)
	if err != nil {
		s.logger.Error("failed to page users", "error", err, "page", params.Page)
		return pagination.Page[UserResponse]{}, err
	}

	return pagination.NewPage(toResponses(dataUsers), params, total), nil
}

// Search fails with NotFound when no user name matches, unlike task search.
func (s *Service) Search(ctx context.Context, name string) ([]UserResponse, error) {
	dataUsers, err := s.repo.Search(ctx, name)
	if err != nil {
		s.logger.Error("failed to search users", "error", err, "name", name)
		return nil, err
	}
	if len(dataUsers) == 0 {
		return nil, internal.NewNotFoundError("User name not found.", internal.ErrCodeUserNotFound)
	}
	return toResponses(dataUsers), nil
}

// Authenticate returns the user owning email when password matches its hash.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	dataUser, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, internal.ErrNotFound) {
		return nil, errInvalidCredentials()
	}
	if err != nil {
		return nil, err
	}
	user := FromDataModel(dataUser)
	if !user.CheckPassword(password) {
		return nil, errInvalidCredentials()
	}
	return user, nil
}

func (s *Service) load(ctx context.Context, id, callerID int64) (*userDatamodel.User, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.ID != callerID {
		return nil, internal.NewPermissionError("User permission failed.", internal.ErrCodeUserPermissionFailed)
	}
	return existing, nil
}

func (s *Service) ensureEmailAvailable(ctx context.Context, email string, excludeID int64) error {
	exists, err := s.repo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return internal.NewConflictError("Email already exists.", internal.ErrCodeEmailExists)
	}
	return nil
}

func errInvalidCredentials() error {
	return internal.NewUnauthorizedError("Login failed: Email or password incorrect.", internal.ErrCodeInvalidCredentials)
}

func toResponses(dataUsers []*userDatamodel.User) []UserResponse {
	responses := make([]UserResponse, 0, len(dataUsers))
	for _, dataUser := range dataUsers {
		responses = append(responses, FromDataModel(dataUser).ToResponse())
	}
	return responses
}
