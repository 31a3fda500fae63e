package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/semillitas/semillitas-backend/internal/platform/logger"
	"github.com/semillitas/semillitas-backend/internal/types"
)

type ExploreArticleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, article *types.ExploreArticle) (*types.ExploreArticle, error)
	GetByID(ctx context.Context, tx *gorm.DB, articleID uuid.UUID) (*types.ExploreArticle, error)
	ListForAge(ctx context.Context, tx *gorm.DB, language string, ageMonths int) ([]*types.ExploreArticle, error)
	ListByCell(ctx context.Context, tx *gorm.DB, language string, ageMin, ageMax int) ([]*types.ExploreArticle, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.ExploreArticle, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type exploreArticleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExploreArticleRepo(db *gorm.DB, baseLog *logger.Logger) ExploreArticleRepo {
	return &exploreArticleRepo{db: db, log: baseLog.With("repo", "ExploreArticleRepo")}
}

func (r *exploreArticleRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *exploreArticleRepo) Create(ctx context.Context, tx *gorm.DB, article *types.ExploreArticle) (*types.ExploreArticle, error) {
	if err := r.handle(tx).WithContext(ctx).Create(article).Error; err != nil {
		return nil, err
	}
	return article, nil
}

func (r *exploreArticleRepo) GetByID(ctx context.Context, tx *gorm.DB, articleID uuid.UUID) (*types.ExploreArticle, error) {
	var result types.ExploreArticle
	err := r.handle(tx).WithContext(ctx).
		Where("id = ?", articleID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *exploreArticleRepo) ListForAge(ctx context.Context, tx *gorm.DB, language string, ageMonths int) ([]*types.ExploreArticle, error) {
	var results []*types.ExploreArticle
	if err := r.handle(tx).WithContext(ctx).
		Where("language = ? AND age_min_months <= ? AND age_max_months >= ?", language, ageMonths, ageMonths).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *exploreArticleRepo) ListByCell(ctx context.Context, tx *gorm.DB, language string, ageMin, ageMax int) ([]*types.ExploreArticle, error) {
	var results []*types.ExploreArticle
	if err := r.handle(tx).WithContext(ctx).
		Where("language = ? AND age_min_months = ? AND age_max_months = ?", language, ageMin, ageMax).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *exploreArticleRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.ExploreArticle, error) {
	var results []*types.ExploreArticle
	if err := r.handle(tx).WithContext(ctx).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *exploreArticleRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.handle(tx).WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.ExploreArticle{}).Error
}
