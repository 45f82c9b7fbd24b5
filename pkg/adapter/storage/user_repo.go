package storage

import (
	"context"
	"errors"
	"time"

	"github.com/solguard/scan-orchestrator/internal/user/domain"
	userPort "github.com/solguard/scan-orchestrator/internal/user/port"
	"github.com/solguard/scan-orchestrator/pkg/adapter/storage/types"
	"github.com/solguard/scan-orchestrator/pkg/adapter/storage/types/mapper"
	"gorm.io/gorm"
)

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) userPort.Repo {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user domain.User) (domain.UserID, error) {
	u := mapper.UserDomain2Storage(user)
	u.UpdatedAt = nil
	return user.ID, r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepo) GetByUsername(ctx context.Context, filter domain.UserFilter) (*domain.User, error) {
	var record types.User
	err := r.db.WithContext(ctx).Where("username = ?", filter.Username).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapper.UserStorage2Domain(record)
}

func (r *userRepo) StoreSession(ctx context.Context, session domain.Session) error {
	s := mapper.UserSessionDomain2Storage(session)
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *userRepo) InvalidateSession(ctx context.Context, refreshToken string) error {
	result := r.db.WithContext(ctx).Model(&types.Session{}).
		Where("refresh_token = ?", refreshToken).
		Updates(map[string]interface{}{
			"active":     false,
			"revoked_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("session not found")
	}
	return nil
}
