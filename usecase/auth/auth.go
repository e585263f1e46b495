// Package auth is the identity stand-in: it resolves a username to a
// session-backed acting-user id. It performs no credential checks.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Esraa999/TeamManagementTask/domain"
	"github.com/Esraa999/TeamManagementTask/repository"
)

type Service struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	logger   *zap.Logger
}

func New(users repository.UserRepository, sessions repository.SessionRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		users:    users,
		sessions: sessions,
		logger:   logger,
	}
}

// Login resolves an active user by username and opens a session for it.
func (s *Service) Login(ctx context.Context, username string, ttl time.Duration) (*domain.Session, *domain.User, error) {
	if username == "" {
		return nil, nil, domain.NewError(domain.ErrCodeInvalid, "username is required")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, domain.ErrUserNotFound
	}

	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, nil, err
	}

	s.logger.Info("session opened",
		zap.String("session_id", session.ID),
		zap.Int64("user_id", user.ID),
	)
	return session, user, nil
}

func (s *Service) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = s.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *Service) RefreshSession(ctx context.Context, sessionID string, ttl time.Duration) (*domain.Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Extend(ctx, sessionID, int(ttl.Seconds())); err != nil {
		return nil, err
	}
	session.ExpiresAt = time.Now().Add(ttl)
	return session, nil
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}
