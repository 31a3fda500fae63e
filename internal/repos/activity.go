package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/semillitas/semillitas-backend/internal/platform/logger"
	"github.com/semillitas/semillitas-backend/internal/types"
)

type ActivityRepo interface {
	Create(ctx context.Context, tx *gorm.DB, activity *types.Activity) (*types.Activity, error)
	GetByID(ctx context.Context, tx *gorm.DB, activityID uuid.UUID) (*types.Activity, error)
	// ListForAge returns rows whose band contains the age, for one language.
	ListForAge(ctx context.Context, tx *gorm.DB, language string, ageMonths int) ([]*types.Activity, error)
	// ListByCell returns all rows of one (language, band) inventory cell.
	ListByCell(ctx context.Context, tx *gorm.DB, language string, ageMin, ageMax int) ([]*types.Activity, error)
	// RecentTitles returns the newest stored titles for a cell, newest first.
	RecentTitles(ctx context.Context, tx *gorm.DB, language string, ageMin, ageMax, limit int) ([]string, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Activity, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type activityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityRepo(db *gorm.DB, baseLog *logger.Logger) ActivityRepo {
	return &activityRepo{db: db, log: baseLog.With("repo", "ActivityRepo")}
}

func (r *activityRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *activityRepo) Create(ctx context.Context, tx *gorm.DB, activity *types.Activity) (*types.Activity, error) {
	if err := r.handle(tx).WithContext(ctx).Create(activity).Error; err != nil {
		return nil, err
	}
	return activity, nil
}

func (r *activityRepo) GetByID(ctx context.Context, tx *gorm.DB, activityID uuid.UUID) (*types.Activity, error) {
	var result types.Activity
	err := r.handle(tx).WithContext(ctx).
		Where("id = ?", activityID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *activityRepo) ListForAge(ctx context.Context, tx *gorm.DB, language string, ageMonths int) ([]*types.Activity, error) {
	var results []*types.Activity
	if err := r.handle(tx).WithContext(ctx).
		Where("language = ? AND age_min_months <= ? AND age_max_months >= ?", language, ageMonths, ageMonths).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *activityRepo) ListByCell(ctx context.Context, tx *gorm.DB, language string, ageMin, ageMax int) ([]*types.Activity, error) {
	var results []*types.Activity
	if err := r.handle(tx).WithContext(ctx).
		Where("language = ? AND age_min_months = ? AND age_max_months = ?", language, ageMin, ageMax).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *activityRepo) RecentTitles(ctx context.Context, tx *gorm.DB, language string, ageMin, ageMax, limit int) ([]string, error) {
	var titles []string
	q := r.handle(tx).WithContext(ctx).
		Model(&types.Activity{}).
		Where("language = ? AND age_min_months = ? AND age_max_months = ?", language, ageMin, ageMax).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Pluck("title", &titles).Error; err != nil {
		return nil, err
	}
	return titles, nil
}

func (r *activityRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Activity, error) {
	var results []*types.Activity
	if err := r.handle(tx).WithContext(ctx).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *activityRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.handle(tx).WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Activity{}).Error
}
