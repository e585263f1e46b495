package repository

import (
	"context"

	"github.com/Esraa999/TeamManagementTask/domain"
)

// ActivityRecord carries an activity with its creator name and the number
// of active tasks it owns.
type ActivityRecord struct {
	Activity    domain.Activity
	CreatorName string
	TaskCount   int
}

type ActivityRepository interface {
	// GetAll returns active activities ordered by name.
	GetAll(ctx context.Context) ([]ActivityRecord, error)
	GetByID(ctx context.Context, id int64) (*ActivityRecord, error)
	Create(ctx context.Context, activity *domain.Activity) (*ActivityRecord, error)
	// Deactivate soft-deletes an activity (used when it still owns tasks).
	Deactivate(ctx context.Context, id int64) (bool, error)
	// Remove hard-deletes an activity (only valid for activities with no
	// tasks; the lifecycle layer enforces that invariant).
	Remove(ctx context.Context, id int64) (bool, error)
}
