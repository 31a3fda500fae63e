package types

import (
	"time"

	"github.com/google/uuid"
)

type ActivitySave struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_activity_save;column:user_id" json:"user_id"`
	ActivityID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_activity_save;column:activity_id" json:"activity_id"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ActivitySave) TableName() string {
	return "activity_saves"
}

type ActivityCompletion struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_activity_completion;column:user_id" json:"user_id"`
	ActivityID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_activity_completion;column:activity_id" json:"activity_id"`
	Rating      *int      `gorm:"column:rating" json:"rating,omitempty"`
	Note        string    `gorm:"column:note" json:"note,omitempty"`
	CompletedAt time.Time `gorm:"not null;default:now();column:completed_at" json:"completed_at"`
}

func (ActivityCompletion) TableName() string {
	return "activity_completions"
}
