// Package user manages team-member records for selection inputs and the
// admin stand-in.
package user

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Esraa999/TeamManagementTask/domain"
	"github.com/Esraa999/TeamManagementTask/repository"
)

type Service struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{users: users, logger: logger}
}

type CreateInput struct {
	Username string
	FullName string
	Email    string
	Role     string
}

func (s *Service) List(ctx context.Context) ([]domain.UserProjection, error) {
	users, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.UserProjection, 0, len(users))
	for i := range users {
		out = append(out, *domain.ProjectUser(&users[i]))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.UserProjection, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return domain.ProjectUser(user), nil
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.UserProjection, error) {
	if input.Username == "" || input.FullName == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "username and full name are required")
	}
	if !strings.Contains(input.Email, "@") {
		return nil, domain.NewError(domain.ErrCodeInvalid, "a valid email is required")
	}

	role := domain.RoleUser
	if input.Role != "" {
		parsed, err := domain.ParseUserRole(input.Role)
		if err != nil {
			return nil, err
		}
		role = parsed
	}

	user, err := s.users.Create(ctx, &domain.User{
		Username: input.Username,
		FullName: input.FullName,
		Email:    input.Email,
		Role:     role,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username),
	)
	return domain.ProjectUser(user), nil
}

// Delete is always a soft delete; historical task and activity references
// to the user stay resolvable.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ok, err := s.users.Deactivate(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrUserNotFound
	}
	s.logger.Info("user deactivated", zap.Int64("user_id", id))
	return nil
}
