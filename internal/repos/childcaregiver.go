package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/semillitas/semillitas-backend/internal/platform/logger"
	"github.com/semillitas/semillitas-backend/internal/types"
)

type ChildCaregiverRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, row *types.ChildCaregiver) error
	Exists(ctx context.Context, tx *gorm.DB, childID, userID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ChildCaregiver, error)
}

type childCaregiverRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChildCaregiverRepo(db *gorm.DB, baseLog *logger.Logger) ChildCaregiverRepo {
	return &childCaregiverRepo{db: db, log: baseLog.With("repo", "ChildCaregiverRepo")}
}

func (r *childCaregiverRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *childCaregiverRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.ChildCaregiver) error {
	return r.handle(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "child_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(row).Error
}

func (r *childCaregiverRepo) Exists(ctx context.Context, tx *gorm.DB, childID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.handle(tx).WithContext(ctx).
		Model(&types.ChildCaregiver{}).
		Where("child_id = ? AND user_id = ?", childID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *childCaregiverRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ChildCaregiver, error) {
	var results []*types.ChildCaregiver
	if err := r.handle(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
