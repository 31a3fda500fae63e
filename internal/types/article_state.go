package types

import (
	"time"

	"github.com/google/uuid"
)

type ArticleBookmark struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_article_bookmark;column:user_id" json:"user_id"`
	ArticleID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_article_bookmark;column:article_id" json:"article_id"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ArticleBookmark) TableName() string {
	return "article_bookmarks"
}

type ArticleRead struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_article_read;column:user_id" json:"user_id"`
	ArticleID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_article_read;column:article_id" json:"article_id"`
	OpenedAt        time.Time  `gorm:"not null;column:opened_at" json:"opened_at"`
	ReadCompleted   bool       `gorm:"not null;default:false;column:read_completed" json:"read_completed"`
	CompletedAt     *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	ReadTimeSeconds int        `gorm:"not null;default:0;column:read_time_seconds" json:"read_time_seconds"`
}

func (ArticleRead) TableName() string {
	return "article_reads"
}
