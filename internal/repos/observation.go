package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/semillitas/semillitas-backend/internal/platform/logger"
	"github.com/semillitas/semillitas-backend/internal/types"
)

type ObservationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, obs *types.Observation) (*types.Observation, error)
	ListByChild(ctx context.Context, tx *gorm.DB, childID uuid.UUID, limit int) ([]*types.Observation, error)
}

type observationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewObservationRepo(db *gorm.DB, baseLog *logger.Logger) ObservationRepo {
	return &observationRepo{db: db, log: baseLog.With("repo", "ObservationRepo")}
}

func (r *observationRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *observationRepo) Create(ctx context.Context, tx *gorm.DB, obs *types.Observation) (*types.Observation, error) {
	if err := r.handle(tx).WithContext(ctx).Create(obs).Error; err != nil {
		return nil, err
	}
	return obs, nil
}

func (r *observationRepo) ListByChild(ctx context.Context, tx *gorm.DB, childID uuid.UUID, limit int) ([]*types.Observation, error) {
	var results []*types.Observation
	q := r.handle(tx).WithContext(ctx).
		Where("child_id = ?", childID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
