package repository

import (
	"context"

	"github.com/Esraa999/TeamManagementTask/domain"
)

type UserRepository interface {
	// GetAll returns active users ordered by full name.
	GetAll(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// Create persists a new user. Username and email collisions surface
	// as CONFLICT.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Deactivate soft-deletes a user. Users are never physically removed.
	Deactivate(ctx context.Context, id int64) (bool, error)
}
