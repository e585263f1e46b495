package repository

import (
	"context"

	"github.com/Esraa999/TeamManagementTask/domain"
)

// TaskRecord carries a task together with the display names joined from
// its activity, assignee and creator. AssigneeName is nil for unassigned
// tasks; the presentation fallback is applied by the lifecycle service.
type TaskRecord struct {
	Task         domain.Task
	ActivityName string
	AssigneeName *string
	CreatorName  string
}

// TaskRepository is the typed persistence contract for tasks.
//
// All listing operations return only active tasks. Any storage failure is
// wrapped as a domain error with code STORAGE; absence of the target row
// is NOT_FOUND.
type TaskRepository interface {
	// GetAll returns active tasks newest-first.
	GetAll(ctx context.Context) ([]TaskRecord, error)
	GetByID(ctx context.Context, id int64) (*TaskRecord, error)
	// GetByAssignee returns a user's active tasks ordered by due date
	// ascending, then priority (most urgent first).
	GetByAssignee(ctx context.Context, userID int64) ([]TaskRecord, error)
	// GetByStatus rejects values outside the status enumeration.
	GetByStatus(ctx context.Context, status domain.TaskStatus) ([]TaskRecord, error)
	// CountByActivity counts every task row under an activity, soft-deleted
	// ones included: those rows still reference the activity, so they block
	// a physical activity delete just as live ones do.
	CountByActivity(ctx context.Context, activityID int64) (int, error)
	// Create persists a new task and returns it with generated id and
	// timestamps, display names included.
	Create(ctx context.Context, task *domain.Task) (*TaskRecord, error)
	// Update overwrites the mutable fields of an existing task and
	// refreshes updated_at. The completed timestamp is set the first time
	// the status reaches Completed and never cleared afterwards.
	Update(ctx context.Context, task *domain.Task) (*TaskRecord, error)
	// UpdateStatus changes only the status, applying the same completed
	// timestamp rule. Returns false when the task does not exist.
	UpdateStatus(ctx context.Context, id int64, status domain.TaskStatus) (bool, error)
	// Delete soft-deletes a task. Returns false when the task does not exist.
	Delete(ctx context.Context, id int64) (bool, error)
}
