package mapper

import (
	"github.com/google/uuid"

	"github.com/solguard/scan-orchestrator/internal/user/domain"
	"github.com/solguard/scan-orchestrator/pkg/adapter/storage/types"
)

func UserDomain2Storage(user domain.User) *types.User {
	return &types.User{
		ID:        user.ID.String(),
		Name:      &user.Name,
		Username:  user.Username,
		Password:  user.Password,
		CreatedAt: user.CreatedAt,
		UpdatedAt: &user.UpdatedAt,
	}
}

func UserStorage2Domain(user types.User) (*domain.User, error) {
	uid, err := domain.UserIDFromString(user.ID)
	if err != nil {
		return nil, err
	}

	out := &domain.User{
		ID:        uid,
		Username:  user.Username,
		Password:  user.Password,
		CreatedAt: user.CreatedAt,
	}
	if user.Name != nil {
		out.Name = *user.Name
	}
	if user.UpdatedAt != nil {
		out.UpdatedAt = *user.UpdatedAt
	}
	return out, nil
}

func UserSessionDomain2Storage(session domain.Session) *types.Session {
	return &types.Session{
		UserID:       session.UserID.String(),
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		Active:       session.Active,
		CreatedAt:    session.CreatedAt,
	}
}

func UserSessionStorage2Domain(session types.Session) (*domain.Session, error) {
	uid, err := uuid.Parse(session.UserID)
	if err != nil {
		return nil, err
	}

	out := &domain.Session{
		UserID:       uid,
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		Active:       session.Active,
		CreatedAt:    session.CreatedAt,
	}
	if session.RevokedAt != nil {
		out.RevokedAt = *session.RevokedAt
	}
	return out, nil
}
