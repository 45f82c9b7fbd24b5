package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/solguard/scan-orchestrator/internal/user"
	"github.com/solguard/scan-orchestrator/internal/user/domain"
	mocks "github.com/solguard/scan-orchestrator/tests/mocks/repo"
)

func TestUserService_CreateUser(t *testing.T) {
	mockRepo := new(mocks.MockUserRepo)
	svc := user.NewUserService(mockRepo)

	expectedID := uuid.New()
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		// The service assigns the id and timestamps before persisting
		return u.Username == "alice" && u.ID != uuid.Nil && !u.CreatedAt.IsZero()
	})).Return(domain.UserID(expectedID), nil)

	uid, err := svc.CreateUser(context.Background(), domain.User{Username: "alice", Password: "hashed"})

	require.NoError(t, err)
	assert.Equal(t, domain.UserID(expectedID), uid)
	mockRepo.AssertExpectations(t)
}

func TestUserService_CreateUser_RepoError(t *testing.T) {
	mockRepo := new(mocks.MockUserRepo)
	svc := user.NewUserService(mockRepo)

	mockRepo.On("Create", mock.Anything, mock.Anything).
		Return(domain.UserID(uuid.Nil), errors.New("duplicate entry"))

	_, err := svc.CreateUser(context.Background(), domain.User{Username: "alice"})
	assert.ErrorIs(t, err, user.ErrUserOnCreate)
}

func TestUserService_GetUserByUsername(t *testing.T) {
	mockRepo := new(mocks.MockUserRepo)
	svc := user.NewUserService(mockRepo)

	stored := &domain.User{ID: uuid.New(), Username: "alice"}
	mockRepo.On("GetByUsername", mock.Anything, domain.UserFilter{Username: "alice"}).
		Return(stored, nil)

	found, err := svc.GetUserByUsername(context.Background(), domain.UserFilter{Username: "alice"})

	require.NoError(t, err)
	assert.Equal(t, stored, found)
}

func TestUserService_GetUserByUsername_NotFound(t *testing.T) {
	mockRepo := new(mocks.MockUserRepo)
	svc := user.NewUserService(mockRepo)

	mockRepo.On("GetByUsername", mock.Anything, mock.Anything).Return(nil, nil)

	_, err := svc.GetUserByUsername(context.Background(), domain.UserFilter{Username: "ghost"})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserService_Sessions(t *testing.T) {
	mockRepo := new(mocks.MockUserRepo)
	svc := user.NewUserService(mockRepo)

	session := domain.Session{UserID: uuid.New(), RefreshToken: "token", Active: true}
	mockRepo.On("StoreSession", mock.Anything, session).Return(nil)
	mockRepo.On("InvalidateSession", mock.Anything, "token").Return(errors.New("session not found"))

	require.NoError(t, svc.StoreUserSession(context.Background(), session))
	assert.ErrorIs(t, svc.InvalidateUserSession(context.Background(), "token"), user.ErrSessionOnInvalidate)
}

func TestUserPasswordHashing(t *testing.T) {
	hash, err := domain.HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	u := &domain.User{Username: "alice", Password: hash}
	assert.True(t, u.CheckPassword("s3cret"))
	assert.False(t, u.CheckPassword("wrong"))
}
