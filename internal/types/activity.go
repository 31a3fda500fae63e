package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Activity is a generated play activity for one (language, age band) cell.
// Rows are immutable after insert; only the pruning pass deletes them.
type Activity struct {
	ID              uuid.UUID                   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Emoji           string                      `gorm:"column:emoji" json:"emoji"`
	Title           string                      `gorm:"not null;column:title" json:"title"`
	Subtitle        string                      `gorm:"column:subtitle" json:"subtitle"`
	SchemaTarget    string                      `gorm:"column:schema_target;index" json:"schema_target"`
	Domain          string                      `gorm:"column:domain" json:"domain"`
	Materials       datatypes.JSONSlice[string] `gorm:"column:materials" json:"materials"`
	DurationMinutes int                         `gorm:"not null;column:duration_minutes" json:"duration_minutes"`
	Steps           string                      `gorm:"column:steps" json:"steps"`
	ScienceNote     string                      `gorm:"column:science_note" json:"science_note"`
	AgeMinMonths    int                         `gorm:"not null;column:age_min_months;index:idx_activity_cell" json:"age_min_months"`
	AgeMaxMonths    int                         `gorm:"not null;column:age_max_months;index:idx_activity_cell" json:"age_max_months"`
	Language        string                      `gorm:"not null;column:language;index:idx_activity_cell" json:"language"`
	IsFeatured      bool                        `gorm:"not null;default:false;column:is_featured" json:"is_featured"`
	CreatedAt       time.Time                   `gorm:"not null;default:now();index" json:"created_at"`
}

func (Activity) TableName() string {
	return "activities"
}
