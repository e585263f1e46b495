package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Esraa999/TeamManagementTask/domain"
	"github.com/Esraa999/TeamManagementTask/repository"
)

const userColumns = `id, username, full_name, email, role, is_active, created_at`

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates a Postgres-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) GetAll(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE is_active ORDER BY full_name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, storageErr("query users", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate users", err)
	}
	return users, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.pool.QueryRow(ctx, query, username))
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO users (username, full_name, email, role)
	VALUES ($1, $2, $3, $4)
	RETURNING id, is_active, created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		user.Username,
		user.FullName,
		user.Email,
		string(user.Role),
	).Scan(&user.ID, &user.IsActive, &user.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.NewError(domain.ErrCodeConflict, "username or email already taken")
		}
		return nil, storageErr("insert user", err)
	}
	return user, nil
}

func (r *userRepository) Deactivate(ctx context.Context, id int64) (bool, error) {
	const query = `UPDATE users SET is_active = FALSE WHERE id = $1 AND is_active`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, storageErr("deactivate user", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanUser(row interface {
	Scan(dest ...interface{}) error
}) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.FullName,
		&user.Email,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storageErr("scan user", err)
	}
	return &user, nil
}
