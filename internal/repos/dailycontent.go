package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/semillitas/semillitas-backend/internal/platform/logger"
	"github.com/semillitas/semillitas-backend/internal/types"
)

type DailyContentRepo interface {
	GetByChildDate(ctx context.Context, tx *gorm.DB, childID uuid.UUID, localDate string) (*types.DailyContent, error)
	Create(ctx context.Context, tx *gorm.DB, row *types.DailyContent) (*types.DailyContent, error)
}

type dailyContentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDailyContentRepo(db *gorm.DB, baseLog *logger.Logger) DailyContentRepo {
	return &dailyContentRepo{db: db, log: baseLog.With("repo", "DailyContentRepo")}
}

func (r *dailyContentRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *dailyContentRepo) GetByChildDate(ctx context.Context, tx *gorm.DB, childID uuid.UUID, localDate string) (*types.DailyContent, error) {
	var result types.DailyContent
	err := r.handle(tx).WithContext(ctx).
		Where("child_id = ? AND local_date = ?", childID, localDate).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *dailyContentRepo) Create(ctx context.Context, tx *gorm.DB, row *types.DailyContent) (*types.DailyContent, error) {
	if err := r.handle(tx).WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}
