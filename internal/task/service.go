package task

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/task-management/internal"
	"github.com/frahmantamala/task-management/internal/audit"
	"github.com/frahmantamala/task-management/internal/cache"
	"github.com/frahmantamala/task-management/internal/core/common/pagination"
	taskDatamodel "github.com/frahmantamala/task-management/internal/core/datamodel/task"
)

// EntityType names tasks in cache keys and audit lines.
const EntityType = "task"

type RepositoryAPI interface {
	GetByID(ctx context.Context, id, userID int64) (*taskDatamodel.Task, error)
	GetAllByUser(ctx context.Context, userID int64) ([]*taskDatamodel.Task, error)
	ListByPage(ctx context.Context, userID int64, params pagination.Params, filter PageFilter) ([]*taskDatamodel.Task, int64, error)
	Search(ctx context.Context, userID int64, term string, status *int) ([]*taskDatamodel.Task, error)
	Create(ctx context.Context, task *taskDatamodel.Task) (*taskDatamodel.Task, error)
	Update(ctx context.Context, task *taskDatamodel.Task) (*taskDatamodel.Task, error)
	Delete(ctx context.Context, id, userID int64) error
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

func (s *Service) Create(ctx context.Context, userID int64, dto CreateTaskDTO) (*TaskResponse, error) {
	if !dto.Name.Set {
		return nil, internal.NewValidationFieldError("name", "name is required", internal.ErrCodeRequiredField)
	}

	task := NewTask(userID)
	if err := task.UpdateName(dto.Name.Value); err != nil {
		return nil, err
	}
	if dto.Description.Set {
		if err := task.UpdateDescription(dto.Description.Value); err != nil {
			return nil, err
		}
	}
	if dto.Status.Set {
		if err := task.UpdateStatus(dto.Status.Value); err != nil {
			return nil, err
		}
	}

	created, err := s.repo.Create(ctx, ToDataModel(task))
	if err != nil {
		s.logger.Error("failed to create task", "error", err, "user_id", userID)
		return nil, err
	}

	response := FromDataModel(created).ToResponse()
	s.cache.Put(ctx, EntityType, response.ID, userID, response)
	s.recorder.Record(ctx, audit.NewEntry(EntityType, response.ID, userID, audit.ActionCreated))

	s.logger.Info("task created", "task_id", response.ID, "user_id", userID)
	return &response, nil
}

func (s *Service) Update(ctx context.Context, id, userID int64, dto UpdateTaskDTO) (*TaskResponse, error) {
	existing, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if !dto.HasChanges() {
		return nil, internal.NewValidationError("enter the data to update", internal.ErrCodeNothingToUpdate)
	}

	task := FromDataModel(existing)
	if dto.Name.Set {
		if err := task.UpdateName(dto.Name.Value); err != nil {
			return nil, err
		}
	}
	if dto.Description.Set {
		if err := task.UpdateDescription(dto.Description.Value); err != nil {
			return nil, err
		}
	}
	if dto.Status.Set {
		if err := task.UpdateStatus(dto.Status.Value); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, ToDataModel(task))
	if err != nil {
		s.logger.Error("failed to update task", "error", err, "task_id", id, "user_id", userID)
		return nil, err
	}

	response := FromDataModel(updated).ToResponse()
	s.cache.Put(ctx, EntityType, response.ID, userID, response)
	s.recorder.Record(ctx, audit.NewEntry(EntityType, response.ID, userID, audit.ActionUpdated))

	s.logger.Info("task updated", "task_id", response.ID, "user_id", userID)
	return &response, nil
}

func (s *Service) Delete(ctx context.Context, id, userID int64) error {
	if _, err := s.repo.GetByID(ctx, id, userID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		s.logger.Error("failed to delete task", "error", err, "task_id", id, "user_id", userID)
		return err
	}

	s.cache.Invalidate(ctx, EntityType, id, userID)
	s.recorder.Record(ctx, audit.NewEntry(EntityType, id, userID, audit.ActionDeleted))

	s.logger.Info("task deleted", "task_id", id, "user_id", userID)
	return nil
}

func (s *Service) GetOne(ctx context.Context, id, userID int64) (*TaskResponse, error) {
	var cached TaskResponse
	if s.cache.Get(ctx, EntityType, id, userID, &cached) {
		return &cached, nil
	}

	dataTask, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	response := FromDataModel(dataTask).ToResponse()
	s.cache.Put(ctx, EntityType, id, userID, response)
	return &response, nil
}

func (s *Service) GetAll(ctx context.Context, userID int64) ([]TaskResponse, error) {
	dataTasks, err := s.repo.GetAllByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to get tasks", "error", err, "user_id", userID)
		return nil, err
	}
	return toResponses(dataTasks), nil
}

func (s *Service) GetPage(ctx context.Context, userID int64, page, perPage int, filter PageFilter) (pagination.Page[TaskResponse], error) {
	params := pagination.Normalize(page, perPage, s.opts.DefaultPerPage)

	dataTasks, total, err := s.repo.ListByPage(ctx, userID, params, filter)
	if err != nil {
		s.logger.Error("failed to page tasks", "error", err, "user_id", userID, "page", params.Page)
		return pagination.Page[TaskResponse]{}, err
	}

	return pagination.NewPage(toResponses(dataTasks), params, total), nil
}

// Search matches name or description. status narrows the result only when it is a valid task status.
func (s *Service) Search(ctx context.Context, userID int64, term string, status *int) ([]TaskResponse, error) {
	if status != nil && *status != StatusOpen && *status != StatusDone {
		status = nil
	}

	dataTasks, err := s.repo.Search(ctx, userID, term, status)
	if err != nil {
		s.logger.Error("failed to search tasks", "error", err, "user_id", userID, "term", term)
		return nil, err
	}
	return toResponses(dataTasks), nil
}

func toResponses(dataTasks []*taskDatamodel.Task) []TaskResponse {
	responses := make([]TaskResponse, 0, len(dataTasks))
	for _, dataTask := range dataTasks {
		responses = append(responses, FromDataModel(dataTask).ToResponse())
	}
	return responses
}
