package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Observation is a caregiver-logged note about the child, tagged with the
// developmental schemas detected in the moment.
type Observation struct {
	ID        uuid.UUID                   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ChildID   uuid.UUID                   `gorm:"type:uuid;not null;index;column:child_id" json:"child_id"`
	UserID    uuid.UUID                   `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Note      string                      `gorm:"not null;column:note" json:"note"`
	Schemas   datatypes.JSONSlice[string] `gorm:"column:schemas" json:"schemas"`
	CreatedAt time.Time                   `gorm:"not null;default:now();index" json:"created_at"`
}

func (Observation) TableName() string {
	return "wonders"
}
