package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	ArticleTypeArticle  = "article"
	ArticleTypeResearch = "research"
	ArticleTypeGuide    = "guide"
)

// ExploreArticle is a generated long-form article for one
// (language, age band) cell. Refill may clone rows verbatim; the pruning
// pass collapses the clones later.
type ExploreArticle struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Type            string    `gorm:"not null;default:article;column:type;index" json:"type"`
	Title           string    `gorm:"not null;column:title" json:"title"`
	Summary         string    `gorm:"column:summary" json:"summary"`
	Body            string    `gorm:"column:body" json:"body"`
	SchemaTarget    string    `gorm:"column:schema_target" json:"schema_target"`
	Domain          string    `gorm:"column:domain" json:"domain"`
	AgeMinMonths    int       `gorm:"not null;column:age_min_months;index:idx_article_cell" json:"age_min_months"`
	AgeMaxMonths    int       `gorm:"not null;column:age_max_months;index:idx_article_cell" json:"age_max_months"`
	Language        string    `gorm:"not null;column:language;index:idx_article_cell" json:"language"`
	ReadTimeMinutes int       `gorm:"not null;default:5;column:read_time_minutes" json:"read_time_minutes"`
	IsFeatured      bool      `gorm:"not null;default:false;column:is_featured" json:"is_featured"`
	CreatedAt       time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (ExploreArticle) TableName() string {
	return "explore_articles"
}

// ExploreBrainCard is the legacy short-card content kind, served only when
// a feed would otherwise be empty.
type ExploreBrainCard struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title        string    `gorm:"not null;column:title" json:"title"`
	Summary      string    `gorm:"column:summary" json:"summary"`
	Language     string    `gorm:"not null;column:language;index" json:"language"`
	AgeMinMonths int       `gorm:"not null;column:age_min_months" json:"age_min_months"`
	AgeMaxMonths int       `gorm:"not null;column:age_max_months" json:"age_max_months"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ExploreBrainCard) TableName() string {
	return "explore_brain_cards"
}
