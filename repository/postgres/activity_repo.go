package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Esraa999/TeamManagementTask/domain"
	"github.com/Esraa999/TeamManagementTask/repository"
)

const activityColumns = `
	a.id, a.name, a.description, a.start_date, a.end_date,
	a.created_by, a.is_active, a.created_at,
	c.full_name AS creator_name,
	(SELECT COUNT(*) FROM tasks t WHERE t.activity_id = a.id AND t.is_active) AS task_count
`

type activityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository returns a Postgres-backed implementation of ActivityRepository.
func NewActivityRepository(pool *pgxpool.Pool) repository.ActivityRepository {
	return &activityRepository{pool: pool}
}

func (r *activityRepository) GetAll(ctx context.Context) ([]repository.ActivityRecord, error) {
	query := `SELECT ` + activityColumns + `
	FROM activities a
	JOIN users c ON c.id = a.created_by
	WHERE a.is_active
	ORDER BY a.name
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, storageErr("query activities", err)
	}
	defer rows.Close()

	var records []repository.ActivityRecord
	for rows.Next() {
		record, err := scanActivityRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate activities", err)
	}
	return records, nil
}

func (r *activityRepository) GetByID(ctx context.Context, id int64) (*repository.ActivityRecord, error) {
	query := `SELECT ` + activityColumns + `
	FROM activities a
	JOIN users c ON c.id = a.created_by
	WHERE a.id = $1 AND a.is_active
	`
	return scanActivityRecord(r.pool.QueryRow(ctx, query, id))
}

func (r *activityRepository) Create(ctx context.Context, activity *domain.Activity) (*repository.ActivityRecord, error) {
	if activity == nil {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO activities (name, description, start_date, end_date, created_by)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id
	`
	if err := r.pool.QueryRow(ctx, query,
		activity.Name,
		activity.Description,
		nullTime(activity.StartDate),
		nullTime(activity.EndDate),
		activity.CreatedBy,
	).Scan(&activity.ID); err != nil {
		return nil, storageErr("insert activity", err)
	}

	return r.GetByID(ctx, activity.ID)
}

func (r *activityRepository) Deactivate(ctx context.Context, id int64) (bool, error) {
	const query = `UPDATE activities SET is_active = FALSE WHERE id = $1 AND is_active`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, storageErr("deactivate activity", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *activityRepository) Remove(ctx context.Context, id int64) (bool, error) {
	const query = `DELETE FROM activities WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, storageErr("remove activity", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanActivityRecord(row interface {
	Scan(dest ...interface{}) error
}) (*repository.ActivityRecord, error) {
	var record repository.ActivityRecord
	activity := &record.Activity

	if err := row.Scan(
		&activity.ID,
		&activity.Name,
		&activity.Description,
		&activity.StartDate,
		&activity.EndDate,
		&activity.CreatedBy,
		&activity.IsActive,
		&activity.CreatedAt,
		&record.CreatorName,
		&record.TaskCount,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrActivityNotFound
		}
		return nil, storageErr("scan activity", err)
	}
	return &record, nil
}
