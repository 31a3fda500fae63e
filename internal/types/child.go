package types

import (
	"time"

	"github.com/google/uuid"
)

type Child struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OwnerUserID uuid.UUID `gorm:"type:uuid;not null;index;column:owner_user_id" json:"owner_user_id"`
	Name        string    `gorm:"not null;column:name" json:"name"`
	BirthDate   time.Time `gorm:"not null;column:birth_date" json:"birth_date"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Child) TableName() string {
	return "children"
}

// AgeMonths returns the child's age in whole months at the given instant.
func (c *Child) AgeMonths(now time.Time) int {
	if c == nil || c.BirthDate.IsZero() {
		return 0
	}
	months := (now.Year()-c.BirthDate.Year())*12 + int(now.Month()) - int(c.BirthDate.Month())
	if now.Day() < c.BirthDate.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
