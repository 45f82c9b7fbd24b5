package service

import (
	"context"
	"errors"
	"time"

	jwt2 "github.com/golang-jwt/jwt/v5"

	"github.com/solguard/scan-orchestrator/api/dto"
	"github.com/solguard/scan-orchestrator/internal/user"
	"github.com/solguard/scan-orchestrator/internal/user/domain"
	userPort "github.com/solguard/scan-orchestrator/internal/user/port"
	"github.com/solguard/scan-orchestrator/pkg/jwt"
	timeutils "github.com/solguard/scan-orchestrator/pkg/time"
)

var (
	ErrUserOnCreate        = user.ErrUserOnCreate
	ErrUserNotFound        = user.ErrUserNotFound
	ErrSessionOnCreate     = user.ErrSessionOnCreate
	ErrSessionOnInvalidate = user.ErrSessionOnInvalidate

	ErrInvalidUserPassword = errors.New("invalid username or password")
)

type UserService struct {
	service               userPort.Service
	authSecret            string
	expMin, refreshExpMin uint
}

func NewUserService(srv userPort.Service, authSecret string, expMin, refreshExpMin uint) *UserService {
	return &UserService{
		service:       srv,
		authSecret:    authSecret,
		expMin:        expMin,
		refreshExpMin: refreshExpMin,
	}
}

func (s *UserService) SignUp(ctx context.Context, req *dto.UserSignUpRequest) (*dto.UserSignUpResponse, error) {
	hPassword, err := domain.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	uid, err := s.service.CreateUser(ctx, domain.User{
		Name:     req.Name,
		Username: req.Username,
		Password: hPassword,
	})
	if err != nil {
		return nil, err
	}

	access, refresh, err := s.createTokens(uid)
	if err != nil {
		return nil, err
	}
	return &dto.UserSignUpResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (s *UserService) SignIn(ctx context.Context, req *dto.UserSignInRequest) (*dto.UserSignInResponse, error) {
	u, err := s.service.GetUserByUsername(ctx, domain.UserFilter{
		Username: req.Username,
	})
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	if !u.CheckPassword(req.Password) {
		return nil, ErrInvalidUserPassword
	}

	access, refresh, err := s.createTokens(u.ID)
	if err != nil {
		return nil, err
	}

	err = s.service.StoreUserSession(ctx, domain.Session{
		UserID:       u.ID,
		AccessToken:  access,
		RefreshToken: refresh,
		Active:       true,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		return nil, ErrSessionOnCreate
	}

	return &dto.UserSignInResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (s *UserService) SignOut(ctx context.Context, req *dto.UserSignOutRequest) error {
	if err := s.service.InvalidateUserSession(ctx, req.RefreshToken); err != nil {
		return ErrSessionOnInvalidate
	}
	return nil
}

func (s *UserService) createTokens(userID domain.UserID) (access, refresh string, err error) {
	access, err = jwt.CreateToken([]byte(s.authSecret), &jwt.UserClaims{
		RegisteredClaims: jwt2.RegisteredClaims{
			ExpiresAt: jwt2.NewNumericDate(timeutils.AddMinutes(s.expMin)),
		},
		UserID: userID.String(),
	})
	if err != nil {
		return
	}

	refresh, err = jwt.CreateToken([]byte(s.authSecret), &jwt.UserClaims{
		RegisteredClaims: jwt2.RegisteredClaims{
			ExpiresAt: jwt2.NewNumericDate(timeutils.AddMinutes(s.refreshExpMin)),
		},
		UserID: userID.String(),
	})
	return
}
