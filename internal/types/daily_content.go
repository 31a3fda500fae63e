package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DailyContent is the cached per-child daily card. LocalDate is the
// America/Bogota calendar date the card was generated for.
type DailyContent struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ChildID   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_daily_content;column:child_id" json:"child_id"`
	LocalDate string         `gorm:"not null;uniqueIndex:idx_daily_content;column:local_date" json:"local_date"`
	Language  string         `gorm:"not null;column:language" json:"language"`
	Body      datatypes.JSON `gorm:"column:body" json:"body"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (DailyContent) TableName() string {
	return "daily_content"
}
