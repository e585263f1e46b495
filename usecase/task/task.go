// Package task implements the task lifecycle service: it enforces the
// business rules around task mutations and notifies connected observers
// after every committed change.
package task

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/Esraa999/TeamManagementTask/domain"
	"github.com/Esraa999/TeamManagementTask/repository"
	"github.com/Esraa999/TeamManagementTask/usecase"
)

const maxTitleLen = 200

type Service struct {
	tasks      repository.TaskRepository
	users      repository.UserRepository
	activities repository.ActivityRepository
	hub        usecase.Broadcaster
	logger     *zap.Logger
}

// New wires the lifecycle service. The hub is injected explicitly; there
// is no process-wide hub lookup.
func New(
	tasks repository.TaskRepository,
	users repository.UserRepository,
	activities repository.ActivityRepository,
	hub usecase.Broadcaster,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		tasks:      tasks,
		users:      users,
		activities: activities,
		hub:        hub,
		logger:     logger,
	}
}

// CreateInput carries only the fields accepted from callers; unknown
// fields are rejected at the transport boundary.
type CreateInput struct {
	Title       string
	Description string
	ActivityID  int64
	AssigneeID  *int64
	Priority    string
	Status      string
	DueDate     *time.Time
}

func (s *Service) GetAll(ctx context.Context) ([]domain.TaskProjection, error) {
	records, err := s.tasks.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return projectAll(records), nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.TaskProjection, error) {
	record, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return project(record), nil
}

func (s *Service) GetByUser(ctx context.Context, userID int64) ([]domain.TaskProjection, error) {
	records, err := s.tasks.GetByAssignee(ctx, userID)
	if err != nil {
		return nil, err
	}
	return projectAll(records), nil
}

func (s *Service) GetByStatus(ctx context.Context, rawStatus string) ([]domain.TaskProjection, error) {
	status, err := domain.ParseTaskStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	records, err := s.tasks.GetByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return projectAll(records), nil
}

// Create validates, persists and broadcasts a new task. Validation runs
// shape first, then references, then enumerations; nothing is written and
// nothing is broadcast unless all three pass and the insert commits.
func (s *Service) Create(ctx context.Context, input CreateInput, actorID int64) (*domain.TaskProjection, error) {
	if input.Title == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "task title is required")
	}
	if utf8.RuneCountInString(input.Title) > maxTitleLen {
		return nil, domain.NewError(domain.ErrCodeInvalid, "task title exceeds 200 characters")
	}
	if input.ActivityID == 0 {
		return nil, domain.NewError(domain.ErrCodeInvalid, "activity is required")
	}
	if actorID == 0 {
		return nil, domain.NewError(domain.ErrCodeInvalid, "acting user is required")
	}

	if err := s.checkActivity(ctx, input.ActivityID); err != nil {
		return nil, err
	}
	if input.AssigneeID != nil {
		if err := s.checkAssignee(ctx, *input.AssigneeID); err != nil {
			return nil, err
		}
	}
	if err := s.checkActor(ctx, actorID); err != nil {
		return nil, err
	}

	status := domain.StatusPending
	if input.Status != "" {
		parsed, err := domain.ParseTaskStatus(input.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}
	priority := domain.PriorityMedium
	if input.Priority != "" {
		parsed, err := domain.ParseTaskPriority(input.Priority)
		if err != nil {
			return nil, err
		}
		priority = parsed
	}

	record, err := s.tasks.Create(ctx, &domain.Task{
		Title:       input.Title,
		Description: input.Description,
		ActivityID:  input.ActivityID,
		AssigneeID:  input.AssigneeID,
		Status:      status,
		Priority:    priority,
		DueDate:     input.DueDate,
		CreatedBy:   actorID,
	})
	if err != nil {
		return nil, err
	}

	dto := project(record)
	s.hub.BroadcastAll(usecase.EventTaskCreated, dto)
	s.logger.Info("task created",
		zap.Int64("task_id", dto.TaskID),
		zap.Int64("actor_id", actorID),
	)
	return dto, nil
}

// UpdateStatus is the lightweight status-only mutation. It emits
// taskStatusChanged with the bare (id, status) pair plus a full
// taskUpdated projection for observers that render the whole row.
func (s *Service) UpdateStatus(ctx context.Context, taskID int64, rawStatus string, actorID int64) (*domain.TaskProjection, error) {
	if taskID == 0 {
		return nil, domain.NewError(domain.ErrCodeInvalid, "task id is required")
	}
	status, err := domain.ParseTaskStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	ok, err := s.tasks.UpdateStatus(ctx, taskID, status)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrTaskNotFound
	}

	record, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	dto := project(record)
	s.hub.BroadcastAll(usecase.EventTaskStatusChanged, taskID, status)
	s.hub.BroadcastAll(usecase.EventTaskUpdated, dto)
	s.logger.Info("task status changed",
		zap.Int64("task_id", taskID),
		zap.String("status", string(status)),
		zap.Int64("actor_id", actorID),
	)
	return dto, nil
}

// Assign sets the task's assignee and notifies both the whole audience
// and the assignee's own connection group.
func (s *Service) Assign(ctx context.Context, taskID, userID, actorID int64) (*domain.TaskProjection, error) {
	if taskID == 0 || userID == 0 {
		return nil, domain.NewError(domain.ErrCodeInvalid, "task id and user id are required")
	}
	if err := s.checkAssignee(ctx, userID); err != nil {
		return nil, err
	}

	record, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	updated := record.Task
	updated.AssigneeID = &userID
	persisted, err := s.tasks.Update(ctx, &updated)
	if err != nil {
		return nil, err
	}

	dto := project(persisted)
	s.hub.BroadcastAll(usecase.EventTaskAssigned, dto)
	s.hub.BroadcastUser(userID, usecase.EventNotification,
		fmt.Sprintf("You have been assigned task %q", dto.Title))
	s.logger.Info("task assigned",
		zap.Int64("task_id", taskID),
		zap.Int64("assignee_id", userID),
		zap.Int64("actor_id", actorID),
	)
	return dto, nil
}

func (s *Service) Delete(ctx context.Context, taskID int64) error {
	ok, err := s.tasks.Delete(ctx, taskID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrTaskNotFound
	}

	s.hub.BroadcastAll(usecase.EventTaskDeleted, taskID)
	s.logger.Info("task deleted", zap.Int64("task_id", taskID))
	return nil
}

func (s *Service) checkActivity(ctx context.Context, id int64) error {
	record, err := s.activities.GetByID(ctx, id)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return domain.NewError(domain.ErrCodeReference, fmt.Sprintf("activity %d does not exist", id))
		}
		return err
	}
	if !record.Activity.IsActive {
		return domain.NewError(domain.ErrCodeReference, fmt.Sprintf("activity %d does not exist", id))
	}
	return nil
}

func (s *Service) checkAssignee(ctx context.Context, id int64) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return domain.NewError(domain.ErrCodeReference, fmt.Sprintf("assignee %d does not exist", id))
		}
		return err
	}
	if !user.IsActive {
		return domain.NewError(domain.ErrCodeReference, fmt.Sprintf("assignee %d is not an active user", id))
	}
	return nil
}

func (s *Service) checkActor(ctx context.Context, id int64) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return domain.NewError(domain.ErrCodeReference, fmt.Sprintf("creator %d does not exist", id))
		}
		return err
	}
	return nil
}

func project(record *repository.TaskRecord) *domain.TaskProjection {
	if record == nil {
		return nil
	}
	assigneeName := domain.UnassignedName
	if record.AssigneeName != nil && *record.AssigneeName != "" {
		assigneeName = *record.AssigneeName
	}
	t := record.Task
	return &domain.TaskProjection{
		TaskID:       t.ID,
		Title:        t.Title,
		Description:  t.Description,
		ActivityID:   t.ActivityID,
		ActivityName: record.ActivityName,
		AssigneeID:   t.AssigneeID,
		AssigneeName: assigneeName,
		Status:       t.Status,
		Priority:     t.Priority,
		DueDate:      t.DueDate,
		CreatedBy:    t.CreatedBy,
		CreatorName:  record.CreatorName,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		CompletedAt:  t.CompletedAt,
	}
}

func projectAll(records []repository.TaskRecord) []domain.TaskProjection {
	out := make([]domain.TaskProjection, 0, len(records))
	for i := range records {
		out = append(out, *project(&records[i]))
	}
	return out
}
