package types

import (
	"time"

	"github.com/google/uuid"
)

type ChildCaregiver struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ChildID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_child_caregiver;column:child_id" json:"child_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_child_caregiver;column:user_id" json:"user_id"`
	Role      string    `gorm:"not null;default:caregiver;column:role" json:"role"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ChildCaregiver) TableName() string {
	return "child_caregivers"
}
