package port

import (
	"context"

	"github.com/solguard/scan-orchestrator/internal/user/domain"
)

type Repo interface {
	Create(ctx context.Context, user domain.User) (domain.UserID, error)
	GetByUsername(ctx context.Context, filter domain.UserFilter) (*domain.User, error)
	StoreSession(ctx context.Context, session domain.Session) error
	InvalidateSession(ctx context.Context, refreshToken string) error
}
