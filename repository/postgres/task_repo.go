package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Esraa999/TeamManagementTask/domain"
	"github.com/Esraa999/TeamManagementTask/repository"
)

// taskColumns joins the display names needed by projections so a single
// round trip materializes a full TaskRecord.
const taskColumns = `
	t.id, t.title, t.description, t.activity_id, t.assignee_id,
	t.status, t.priority, t.due_date, t.created_by,
	t.created_at, t.updated_at, t.completed_at, t.is_active,
	a.name AS activity_name,
	u.full_name AS assignee_name,
	c.full_name AS creator_name
`

const taskJoins = `
	FROM tasks t
	JOIN activities a ON a.id = t.activity_id
	LEFT JOIN users u ON u.id = t.assignee_id
	JOIN users c ON c.id = t.created_by
`

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetAll(ctx context.Context) ([]repository.TaskRecord, error) {
	query := `SELECT ` + taskColumns + taskJoins + `
	WHERE t.is_active
	ORDER BY t.created_at DESC
	`
	return r.queryRecords(ctx, query)
}

func (r *taskRepository) GetByID(ctx context.Context, id int64) (*repository.TaskRecord, error) {
	query := `SELECT ` + taskColumns + taskJoins + `
	WHERE t.id = $1 AND t.is_active
	`
	row := r.pool.QueryRow(ctx, query, id)
	return scanTaskRecord(row)
}

func (r *taskRepository) GetByAssignee(ctx context.Context, userID int64) ([]repository.TaskRecord, error) {
	query := `SELECT ` + taskColumns + taskJoins + `
	WHERE t.assignee_id = $1 AND t.is_active
	ORDER BY t.due_date ASC NULLS LAST,
		CASE t.priority
			WHEN 'Critical' THEN 0
			WHEN 'High' THEN 1
			WHEN 'Medium' THEN 2
			ELSE 3
		END
	`
	return r.queryRecords(ctx, query, userID)
}

func (r *taskRepository) GetByStatus(ctx context.Context, status domain.TaskStatus) ([]repository.TaskRecord, error) {
	if !status.Valid() {
		return nil, domain.NewError(domain.ErrCodeEnum, "unknown task status: "+string(status))
	}
	query := `SELECT ` + taskColumns + taskJoins + `
	WHERE t.status = $1 AND t.is_active
	ORDER BY t.created_at DESC
	`
	return r.queryRecords(ctx, query, string(status))
}

func (r *taskRepository) CountByActivity(ctx context.Context, activityID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM tasks WHERE activity_id = $1`
	var count int
	if err := r.pool.QueryRow(ctx, query, activityID).Scan(&count); err != nil {
		return 0, storageErr("count tasks by activity", err)
	}
	return count, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*repository.TaskRecord, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.Status == "" {
		task.Status = domain.StatusPending
	}

	const query = `
	INSERT INTO tasks (title, description, activity_id, assignee_id, status, priority, due_date, created_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id
	`
	if err := r.pool.QueryRow(ctx, query,
		task.Title,
		task.Description,
		task.ActivityID,
		task.AssigneeID,
		string(task.Status),
		string(task.Priority),
		nullTime(task.DueDate),
		task.CreatedBy,
	).Scan(&task.ID); err != nil {
		return nil, storageErr("insert task", err)
	}

	// Re-read with joined display names.
	return r.GetByID(ctx, task.ID)
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) (*repository.TaskRecord, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}

	// completed_at is set on the first transition into Completed and kept
	// forever after, even if the status later moves away again.
	const query = `
	UPDATE tasks
	SET title = $2,
		description = $3,
		activity_id = $4,
		assignee_id = $5,
		status = $6,
		priority = $7,
		due_date = $8,
		updated_at = NOW(),
		completed_at = CASE
			WHEN $6 = 'Completed' AND completed_at IS NULL THEN NOW()
			ELSE completed_at
		END
	WHERE id = $1 AND is_active
	RETURNING updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.ActivityID,
		task.AssigneeID,
		string(task.Status),
		string(task.Priority),
		nullTime(task.DueDate),
	).Scan(&task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, storageErr("update task", err)
	}

	return r.GetByID(ctx, task.ID)
}

func (r *taskRepository) UpdateStatus(ctx context.Context, id int64, status domain.TaskStatus) (bool, error) {
	const query = `
	UPDATE tasks
	SET status = $2,
		updated_at = NOW(),
		completed_at = CASE
			WHEN $2 = 'Completed' AND completed_at IS NULL THEN NOW()
			ELSE completed_at
		END
	WHERE id = $1 AND is_active
	`
	tag, err := r.pool.Exec(ctx, query, id, string(status))
	if err != nil {
		return false, storageErr("update task status", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *taskRepository) Delete(ctx context.Context, id int64) (bool, error) {
	const query = `
	UPDATE tasks
	SET is_active = FALSE, updated_at = NOW()
	WHERE id = $1 AND is_active
	`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, storageErr("delete task", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *taskRepository) queryRecords(ctx context.Context, query string, args ...interface{}) ([]repository.TaskRecord, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr("query tasks", err)
	}
	defer rows.Close()

	var records []repository.TaskRecord
	for rows.Next() {
		record, err := scanTaskRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate tasks", err)
	}
	return records, nil
}

func scanTaskRecord(row interface {
	Scan(dest ...interface{}) error
}) (*repository.TaskRecord, error) {
	var record repository.TaskRecord
	task := &record.Task

	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.ActivityID,
		&task.AssigneeID,
		&task.Status,
		&task.Priority,
		&task.DueDate,
		&task.CreatedBy,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.CompletedAt,
		&task.IsActive,
		&record.ActivityName,
		&record.AssigneeName,
		&record.CreatorName,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, storageErr("scan task", err)
	}

	return &record, nil
}
