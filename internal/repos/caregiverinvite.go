package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/semillitas/semillitas-backend/internal/platform/logger"
	"github.com/semillitas/semillitas-backend/internal/types"
)

type CaregiverInviteRepo interface {
	Create(ctx context.Context, tx *gorm.DB, invite *types.CaregiverInvite) (*types.CaregiverInvite, error)
	GetByToken(ctx context.Context, tx *gorm.DB, token string) (*types.CaregiverInvite, error)
	MarkClaimed(ctx context.Context, tx *gorm.DB, inviteID, claimedBy uuid.UUID, claimedAt time.Time) error
}

type caregiverInviteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCaregiverInviteRepo(db *gorm.DB, baseLog *logger.Logger) CaregiverInviteRepo {
	return &caregiverInviteRepo{db: db, log: baseLog.With("repo", "CaregiverInviteRepo")}
}

func (r *caregiverInviteRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *caregiverInviteRepo) Create(ctx context.Context, tx *gorm.DB, invite *types.CaregiverInvite) (*types.CaregiverInvite, error) {
	if err := r.handle(tx).WithContext(ctx).Create(invite).Error; err != nil {
		return nil, err
	}
	return invite, nil
}

func (r *caregiverInviteRepo) GetByToken(ctx context.Context, tx *gorm.DB, token string) (*types.CaregiverInvite, error) {
	var result types.CaregiverInvite
	err := r.handle(tx).WithContext(ctx).
		Where("token = ?", token).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *caregiverInviteRepo) MarkClaimed(ctx context.Context, tx *gorm.DB, inviteID, claimedBy uuid.UUID, claimedAt time.Time) error {
	return r.handle(tx).WithContext(ctx).
		Model(&types.CaregiverInvite{}).
		Where("id = ? AND claimed_by IS NULL", inviteID).
		Updates(map[string]any{
			"claimed_by": claimedBy,
			"claimed_at": claimedAt,
		}).Error
}
