package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/semillitas/semillitas-backend/internal/platform/logger"
	"github.com/semillitas/semillitas-backend/internal/types"
)

type ActivitySaveRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, row *types.ActivitySave) error
	Delete(ctx context.Context, tx *gorm.DB, userID, activityID uuid.UUID) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ActivitySave, error)
}

type activitySaveRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivitySaveRepo(db *gorm.DB, baseLog *logger.Logger) ActivitySaveRepo {
	return &activitySaveRepo{db: db, log: baseLog.With("repo", "ActivitySaveRepo")}
}

func (r *activitySaveRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *activitySaveRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.ActivitySave) error {
	return r.handle(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "activity_id"}},
			DoNothing: true,
		}).
		Create(row).Error
}

func (r *activitySaveRepo) Delete(ctx context.Context, tx *gorm.DB, userID, activityID uuid.UUID) error {
	return r.handle(tx).WithContext(ctx).
		Where("user_id = ? AND activity_id = ?", userID, activityID).
		Delete(&types.ActivitySave{}).Error
}

func (r *activitySaveRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ActivitySave, error) {
	var results []*types.ActivitySave
	if err := r.handle(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type ActivityCompletionRepo interface {
	// Upsert keeps the unique (user, activity) row, refreshing rating,
	// note and completion time on conflict.
	Upsert(ctx context.Context, tx *gorm.DB, row *types.ActivityCompletion) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ActivityCompletion, error)
}

type activityCompletionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityCompletionRepo(db *gorm.DB, baseLog *logger.Logger) ActivityCompletionRepo {
	return &activityCompletionRepo{db: db, log: baseLog.With("repo", "ActivityCompletionRepo")}
}

func (r *activityCompletionRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *activityCompletionRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.ActivityCompletion) error {
	return r.handle(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "activity_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "note", "completed_at"}),
		}).
		Create(row).Error
}

func (r *activityCompletionRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ActivityCompletion, error) {
	var results []*types.ActivityCompletion
	if err := r.handle(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
