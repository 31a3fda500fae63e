package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/semillitas/semillitas-backend/internal/platform/logger"
	"github.com/semillitas/semillitas-backend/internal/types"
)

type ArticleBookmarkRepo interface {
	Get(ctx context.Context, tx *gorm.DB, userID, articleID uuid.UUID) (*types.ArticleBookmark, error)
	Create(ctx context.Context, tx *gorm.DB, row *types.ArticleBookmark) error
	Delete(ctx context.Context, tx *gorm.DB, userID, articleID uuid.UUID) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ArticleBookmark, error)
}

type articleBookmarkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewArticleBookmarkRepo(db *gorm.DB, baseLog *logger.Logger) ArticleBookmarkRepo {
	return &articleBookmarkRepo{db: db, log: baseLog.With("repo", "ArticleBookmarkRepo")}
}

func (r *articleBookmarkRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *articleBookmarkRepo) Get(ctx context.Context, tx *gorm.DB, userID, articleID uuid.UUID) (*types.ArticleBookmark, error) {
	var result types.ArticleBookmark
	err := r.handle(tx).WithContext(ctx).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *articleBookmarkRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ArticleBookmark) error {
	return r.handle(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "article_id"}},
			DoNothing: true,
		}).
		Create(row).Error
}

func (r *articleBookmarkRepo) Delete(ctx context.Context, tx *gorm.DB, userID, articleID uuid.UUID) error {
	return r.handle(tx).WithContext(ctx).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Delete(&types.ArticleBookmark{}).Error
}

func (r *articleBookmarkRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ArticleBookmark, error) {
	var results []*types.ArticleBookmark
	if err := r.handle(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type ArticleReadRepo interface {
	// Open records that the user opened the article. The first open wins;
	// later opens keep the original opened_at.
	Open(ctx context.Context, tx *gorm.DB, row *types.ArticleRead) error
	Get(ctx context.Context, tx *gorm.DB, userID, articleID uuid.UUID) (*types.ArticleRead, error)
	MarkCompleted(ctx context.Context, tx *gorm.DB, userID, articleID uuid.UUID, completedAt time.Time, readTimeSeconds int) error
	// UpdateReadTime stores elapsed reading time for a not-yet-completed
	// read.
	UpdateReadTime(ctx context.Context, tx *gorm.DB, userID, articleID uuid.UUID, readTimeSeconds int) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ArticleRead, error)
}

type articleReadRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewArticleReadRepo(db *gorm.DB, baseLog *logger.Logger) ArticleReadRepo {
	return &articleReadRepo{db: db, log: baseLog.With("repo", "ArticleReadRepo")}
}

func (r *articleReadRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *articleReadRepo) Open(ctx context.Context, tx *gorm.DB, row *types.ArticleRead) error {
	return r.handle(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "article_id"}},
			DoNothing: true,
		}).
		Create(row).Error
}

func (r *articleReadRepo) Get(ctx context.Context, tx *gorm.DB, userID, articleID uuid.UUID) (*types.ArticleRead, error) {
	var result types.ArticleRead
	err := r.handle(tx).WithContext(ctx).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *articleReadRepo) MarkCompleted(ctx context.Context, tx *gorm.DB, userID, articleID uuid.UUID, completedAt time.Time, readTimeSeconds int) error {
	return r.handle(tx).WithContext(ctx).
		Model(&types.ArticleRead{}).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Updates(map[string]any{
			"read_completed":    true,
			"completed_at":      completedAt,
			"read_time_seconds": readTimeSeconds,
		}).Error
}

func (r *articleReadRepo) UpdateReadTime(ctx context.Context, tx *gorm.DB, userID, articleID uuid.UUID, readTimeSeconds int) error {
	return r.handle(tx).WithContext(ctx).
		Model(&types.ArticleRead{}).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Update("read_time_seconds", readTimeSeconds).Error
}

func (r *articleReadRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ArticleRead, error) {
	var results []*types.ArticleRead
	if err := r.handle(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
