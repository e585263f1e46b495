package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Esraa999/TeamManagementTask/domain"
	"github.com/Esraa999/TeamManagementTask/repository"
)

type fakeUsers struct {
	repository.UserRepository
	byName map[string]*domain.User
}

func (f *fakeUsers) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, ok := f.byName[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

type fakeSessions struct {
	store map[string]*domain.Session
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{store: map[string]*domain.Session{}}
}

func (f *fakeSessions) Get(ctx context.Context, id string) (*domain.Session, error) {
	s, ok := f.store[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessions) Save(ctx context.Context, session *domain.Session) error {
	cp := *session
	f.store[session.ID] = &cp
	return nil
}

func (f *fakeSessions) Delete(ctx context.Context, id string) error {
	delete(f.store, id)
	return nil
}

func (f *fakeSessions) Extend(ctx context.Context, id string, ttlSeconds int) error {
	s, ok := f.store[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.ExpiresAt = time.Now().Add(time.Duration(ttlSeconds) * time.Second)
	return nil
}

func fixture() (*Service, *fakeSessions) {
	users := &fakeUsers{byName: map[string]*domain.User{
		"dina": {ID: 1, Username: "dina", FullName: "Dina Adel", Role: domain.RoleAdmin, IsActive: true},
		"gone": {ID: 2, Username: "gone", FullName: "Former Member", Role: domain.RoleUser, IsActive: false},
	}}
	sessions := newFakeSessions()
	return New(users, sessions, nil), sessions
}

func TestLoginOpensSession(t *testing.T) {
	svc, sessions := fixture()

	session, user, err := svc.Login(context.Background(), "dina", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), session.UserID)
	assert.Equal(t, "dina", session.Username)
	assert.Equal(t, int64(1), user.ID)
	assert.NotEmpty(t, session.ID)
	assert.True(t, session.ExpiresAt.After(time.Now()))

	_, ok := sessions.store[session.ID]
	assert.True(t, ok)
}

func TestLoginRejectsUnknownAndInactiveUsers(t *testing.T) {
	svc, _ := fixture()
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "nobody", time.Hour)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))

	_, _, err = svc.Login(ctx, "gone", time.Hour)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))

	_, _, err = svc.Login(ctx, "", time.Hour)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestGetSessionDropsExpired(t *testing.T) {
	svc, sessions := fixture()
	ctx := context.Background()

	session, _, err := svc.Login(ctx, "dina", -time.Minute)
	require.NoError(t, err)

	_, err = svc.GetSession(ctx, session.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))

	// The expired session is evicted on lookup.
	_, ok := sessions.store[session.ID]
	assert.False(t, ok)
}

func TestRefreshExtendsExpiry(t *testing.T) {
	svc, _ := fixture()
	ctx := context.Background()

	session, _, err := svc.Login(ctx, "dina", time.Minute)
	require.NoError(t, err)

	refreshed, err := svc.RefreshSession(ctx, session.ID, time.Hour)
	require.NoError(t, err)
	assert.True(t, refreshed.ExpiresAt.After(session.ExpiresAt))
}

func TestLogoutRemovesSession(t *testing.T) {
	svc, sessions := fixture()
	ctx := context.Background()

	session, _, err := svc.Login(ctx, "dina", time.Hour)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, session.ID))
	_, ok := sessions.store[session.ID]
	assert.False(t, ok)
}
