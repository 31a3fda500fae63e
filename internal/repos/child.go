package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/semillitas/semillitas-backend/internal/platform/logger"
	"github.com/semillitas/semillitas-backend/internal/types"
)

type ChildRepo interface {
	Create(ctx context.Context, tx *gorm.DB, child *types.Child) (*types.Child, error)
	GetByID(ctx context.Context, tx *gorm.DB, childID uuid.UUID) (*types.Child, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerUserID uuid.UUID) ([]*types.Child, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, childIDs []uuid.UUID) ([]*types.Child, error)
	// EarliestCreated returns the oldest child record across the whole
	// store; the backfill orchestrator uses it to pick the active band.
	EarliestCreated(ctx context.Context, tx *gorm.DB) (*types.Child, error)
}

type childRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChildRepo(db *gorm.DB, baseLog *logger.Logger) ChildRepo {
	return &childRepo{db: db, log: baseLog.With("repo", "ChildRepo")}
}

func (r *childRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *childRepo) Create(ctx context.Context, tx *gorm.DB, child *types.Child) (*types.Child, error) {
	if err := r.handle(tx).WithContext(ctx).Create(child).Error; err != nil {
		return nil, err
	}
	return child, nil
}

func (r *childRepo) GetByID(ctx context.Context, tx *gorm.DB, childID uuid.UUID) (*types.Child, error) {
	var result types.Child
	err := r.handle(tx).WithContext(ctx).
		Where("id = ?", childID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *childRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerUserID uuid.UUID) ([]*types.Child, error) {
	var results []*types.Child
	if err := r.handle(tx).WithContext(ctx).
		Where("owner_user_id = ?", ownerUserID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *childRepo) GetByIDs(ctx context.Context, tx *gorm.DB, childIDs []uuid.UUID) ([]*types.Child, error) {
	var results []*types.Child
	if len(childIDs) == 0 {
		return results, nil
	}
	if err := r.handle(tx).WithContext(ctx).
		Where("id IN ?", childIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *childRepo) EarliestCreated(ctx context.Context, tx *gorm.DB) (*types.Child, error) {
	var result types.Child
	err := r.handle(tx).WithContext(ctx).
		Order("created_at ASC").
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}
