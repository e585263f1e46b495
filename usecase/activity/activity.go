// Package activity manages the work packages grouping tasks.
package activity

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/Esraa999/TeamManagementTask/domain"
	"github.com/Esraa999/TeamManagementTask/repository"
)

const maxNameLen = 200

type Service struct {
	activities repository.ActivityRepository
	tasks      repository.TaskRepository
	users      repository.UserRepository
	logger     *zap.Logger
}

func New(
	activities repository.ActivityRepository,
	tasks repository.TaskRepository,
	users repository.UserRepository,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		activities: activities,
		tasks:      tasks,
		users:      users,
		logger:     logger,
	}
}

type CreateInput struct {
	Name        string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
}

func (s *Service) List(ctx context.Context) ([]domain.ActivityProjection, error) {
	records, err := s.activities.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ActivityProjection, 0, len(records))
	for i := range records {
		out = append(out, *project(&records[i]))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.ActivityProjection, error) {
	record, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return project(record), nil
}

func (s *Service) Create(ctx context.Context, input CreateInput, actorID int64) (*domain.ActivityProjection, error) {
	if input.Name == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "activity name is required")
	}
	if utf8.RuneCountInString(input.Name) > maxNameLen {
		return nil, domain.NewError(domain.ErrCodeInvalid, "activity name exceeds 200 characters")
	}
	if actorID == 0 {
		return nil, domain.NewError(domain.ErrCodeInvalid, "acting user is required")
	}
	if _, err := s.users.GetByID(ctx, actorID); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.NewError(domain.ErrCodeReference, fmt.Sprintf("creator %d does not exist", actorID))
		}
		return nil, err
	}

	record, err := s.activities.Create(ctx, &domain.Activity{
		Name:        input.Name,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		CreatedBy:   actorID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("activity created",
		zap.Int64("activity_id", record.Activity.ID),
		zap.Int64("actor_id", actorID),
	)
	return project(record), nil
}

// Delete soft-deletes an activity that still owns task rows (active or
// soft-deleted, both keep a reference to it) and hard-deletes one that
// owns none. Returns whether the delete was a soft delete.
func (s *Service) Delete(ctx context.Context, id int64) (softDeleted bool, err error) {
	count, err := s.tasks.CountByActivity(ctx, id)
	if err != nil {
		return false, err
	}

	if count > 0 {
		ok, err := s.activities.Deactivate(ctx, id)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, domain.ErrActivityNotFound
		}
		s.logger.Info("activity deactivated",
			zap.Int64("activity_id", id),
			zap.Int("task_count", count),
		)
		return true, nil
	}

	ok, err := s.activities.Remove(ctx, id)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, domain.ErrActivityNotFound
	}
	s.logger.Info("activity removed", zap.Int64("activity_id", id))
	return false, nil
}

func project(record *repository.ActivityRecord) *domain.ActivityProjection {
	if record == nil {
		return nil
	}
	a := record.Activity
	return &domain.ActivityProjection{
		ActivityID:  a.ID,
		Name:        a.Name,
		Description: a.Description,
		StartDate:   a.StartDate,
		EndDate:     a.EndDate,
		CreatedBy:   a.CreatedBy,
		CreatorName: record.CreatorName,
		TaskCount:   record.TaskCount,
	}
}
