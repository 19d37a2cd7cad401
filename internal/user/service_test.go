package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nekogravitycat/coworking-booking-backend/internal/auth"
)

func newTestService() Service {
	return NewService(NewMemoryRepository(), auth.NewBcryptPasswordHasherWithCost(bcrypt.MinCost))
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	u, err := svc.Register(ctx, "  Alice ", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.NotZero(t, u.ID)
	assert.False(t, u.IsAdmin)

	logged, err := svc.Login(ctx, "ALICE", "password123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)
	require.NotNil(t, logged.LastLoginAt)

	_, err = svc.Login(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.Register(ctx, "   ", "password123")
	assert.ErrorIs(t, err, ErrUsernameRequired)

	_, err = svc.Register(ctx, "bob", "short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = svc.Register(ctx, "bob", "password123")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "Bob", "password456")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	u, err := svc.Register(ctx, "carol", "password123")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(ctx, u.ID, "not-it", "newpassword1"), ErrInvalidCredentials)
	assert.ErrorIs(t, svc.ChangePassword(ctx, u.ID, "password123", "short"), ErrPasswordTooShort)
	require.NoError(t, svc.ChangePassword(ctx, u.ID, "password123", "newpassword1"))

	_, err = svc.Login(ctx, "carol", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "carol", "newpassword1")
	assert.NoError(t, err)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	u, err := svc.Register(ctx, "dave", "password123")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, u.ID))
	_, err = svc.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, u.ID), ErrNotFound)
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	admin, err := svc.EnsureAdmin(ctx, "root", "rootpassword")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)

	again, err := svc.EnsureAdmin(ctx, "root", "something-else")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, again.ID)
}

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*User)
	return u, args.Error(1)
}

func (m *mockRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*User)
	return u, args.Error(1)
}

func (m *mockRepository) Create(ctx context.Context, u *User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockRepository) UpdateLastLogin(ctx context.Context, id int64, t time.Time) error {
	return m.Called(ctx, id, t).Error(0)
}

func (m *mockRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func TestLoginSurvivesLastLoginFailure(t *testing.T) {
	ctx := context.Background()
	hasher := auth.NewBcryptPasswordHasherWithCost(bcrypt.MinCost)
	hash, err := hasher.Hash("password123")
	require.NoError(t, err)

	repo := new(mockRepository)
	repo.On("GetByUsername", ctx, "erin").Return(&User{ID: 5, Username: "erin", PasswordHash: hash}, nil)
	repo.On("UpdateLastLogin", ctx, int64(5), mock.AnythingOfType("time.Time")).Return(errors.New("db down"))

	u, err := NewService(repo, hasher).Login(ctx, "erin", "password123")
	require.NoError(t, err)
	assert.Nil(t, u.LastLoginAt)
	repo.AssertExpectations(t)
}

func TestLoginPropagatesStorageError(t *testing.T) {
	ctx := context.Background()
	storageErr := errors.New("connection reset")

	repo := new(mockRepository)
	repo.On("GetByUsername", ctx, "frank").Return(nil, storageErr)

	_, err := NewService(repo, auth.NewBcryptPasswordHasher()).Login(ctx, "frank", "password123")
	assert.ErrorIs(t, err, storageErr)
}
