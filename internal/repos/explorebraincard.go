package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/semillitas/semillitas-backend/internal/platform/logger"
	"github.com/semillitas/semillitas-backend/internal/types"
)

type ExploreBrainCardRepo interface {
	Create(ctx context.Context, tx *gorm.DB, card *types.ExploreBrainCard) (*types.ExploreBrainCard, error)
	ListForAge(ctx context.Context, tx *gorm.DB, language string, ageMonths int) ([]*types.ExploreBrainCard, error)
}

type exploreBrainCardRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExploreBrainCardRepo(db *gorm.DB, baseLog *logger.Logger) ExploreBrainCardRepo {
	return &exploreBrainCardRepo{db: db, log: baseLog.With("repo", "ExploreBrainCardRepo")}
}

func (r *exploreBrainCardRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *exploreBrainCardRepo) Create(ctx context.Context, tx *gorm.DB, card *types.ExploreBrainCard) (*types.ExploreBrainCard, error) {
	if err := r.handle(tx).WithContext(ctx).Create(card).Error; err != nil {
		return nil, err
	}
	return card, nil
}

func (r *exploreBrainCardRepo) ListForAge(ctx context.Context, tx *gorm.DB, language string, ageMonths int) ([]*types.ExploreBrainCard, error) {
	var results []*types.ExploreBrainCard
	if err := r.handle(tx).WithContext(ctx).
		Where("language = ? AND age_min_months <= ? AND age_max_months >= ?", language, ageMonths, ageMonths).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
