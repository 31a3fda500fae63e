package types

import (
	"time"

	"github.com/google/uuid"
)

type CaregiverInvite struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Token     string     `gorm:"not null;uniqueIndex;column:token" json:"token"`
	ChildID   uuid.UUID  `gorm:"type:uuid;not null;index;column:child_id" json:"child_id"`
	CreatedBy uuid.UUID  `gorm:"type:uuid;not null;column:created_by" json:"created_by"`
	Role      string     `gorm:"not null;default:caregiver;column:role" json:"role"`
	ExpiresAt time.Time  `gorm:"not null;column:expires_at" json:"expires_at"`
	ClaimedBy *uuid.UUID `gorm:"type:uuid;column:claimed_by" json:"claimed_by,omitempty"`
	ClaimedAt *time.Time `gorm:"column:claimed_at" json:"claimed_at,omitempty"`
	CreatedAt time.Time  `gorm:"not null;default:now()" json:"created_at"`
}

func (CaregiverInvite) TableName() string {
	return "caregiver_invites"
}
