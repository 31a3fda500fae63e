package content

import (
	"context"

	"gorm.io/gorm"

	"github.com/semillitas/semillitas-backend/internal/platform/logger"
	"github.com/semillitas/semillitas-backend/internal/repos"
	"github.com/semillitas/semillitas-backend/internal/types"
)

const (
	DefaultActivityThreshold = 12
	DefaultTopUpMargin       = 3

	// Article cells carry a fixed quota independent of the activity knobs.
	ArticleCellTarget  = 3
	ResearchCellTarget = 3
	minDistinctDomains = 4
	minDistinctSchemas = 3
)

// ShortageRecord describes one deficient (language, band) inventory cell.
// Derived on demand, never persisted.
type ShortageRecord struct {
	Language         string  `json:"language"`
	Band             AgeBand `json:"-"`
	BandLabel        string  `json:"band"`
	Total            int     `json:"total"`
	MissingTotal     int     `json:"missing_total"`
	UniqueDomains    int     `json:"unique_domains"`
	UniqueSchemas    int     `json:"unique_schemas"`
	DiversityWarning bool    `json:"diversity_warning"`

	// Article cells only.
	ResearchTotal   int `json:"research_total,omitempty"`
	MissingResearch int `json:"missing_research,omitempty"`
}

// CellStats is the raw per-cell scan input to the shortage computation.
type CellStats struct {
	Total         int
	UniqueDomains int
	UniqueSchemas int
	ResearchTotal int
}

// ComputeActivityShortage applies the count and diversity thresholds to
// one cell. A cell is short when total < threshold+margin or when either
// diversity count is low; the missing count tops the cell up to the full
// target.
func ComputeActivityShortage(language string, band AgeBand, stats CellStats, threshold, margin int) (ShortageRecord, bool) {
	target := threshold + margin
	missing := target - stats.Total
	if missing < 0 {
		missing = 0
	}
	diversityWarning := stats.UniqueDomains < minDistinctDomains || stats.UniqueSchemas < minDistinctSchemas
	rec := ShortageRecord{
		Language:         language,
		Band:             band,
		BandLabel:        band.Label(),
		Total:            stats.Total,
		MissingTotal:     missing,
		UniqueDomains:    stats.UniqueDomains,
		UniqueSchemas:    stats.UniqueSchemas,
		DiversityWarning: diversityWarning,
	}
	return rec, missing > 0 || diversityWarning
}

// ComputeArticleShortage applies the fixed article quotas to one cell.
func ComputeArticleShortage(language string, band AgeBand, stats CellStats) (ShortageRecord, bool) {
	missing := ArticleCellTarget - stats.Total
	if missing < 0 {
		missing = 0
	}
	missingResearch := ResearchCellTarget - stats.ResearchTotal
	if missingResearch < 0 {
		missingResearch = 0
	}
	rec := ShortageRecord{
		Language:        language,
		Band:            band,
		BandLabel:       band.Label(),
		Total:           stats.Total,
		MissingTotal:    missing,
		UniqueDomains:   stats.UniqueDomains,
		UniqueSchemas:   stats.UniqueSchemas,
		ResearchTotal:   stats.ResearchTotal,
		MissingResearch: missingResearch,
	}
	return rec, missing > 0 || missingResearch > 0
}

// ShortageDetector scans persisted inventory cells and reports the short
// ones. Every scan re-queries the store; there is no cached view.
type ShortageDetector struct {
	log          *logger.Logger
	activityRepo repos.ActivityRepo
	articleRepo  repos.ExploreArticleRepo
}

func NewShortageDetector(log *logger.Logger, activityRepo repos.ActivityRepo, articleRepo repos.ExploreArticleRepo) *ShortageDetector {
	return &ShortageDetector{
		log:          log.With("service", "ShortageDetector"),
		activityRepo: activityRepo,
		articleRepo:  articleRepo,
	}
}

// ScanActivities returns the short activity cells for the given language
// and band filters (empty language means both, zero band means all).
func (d *ShortageDetector) ScanActivities(ctx context.Context, tx *gorm.DB, languageFilter string, bandFilter *AgeBand, threshold, margin int) ([]ShortageRecord, error) {
	if threshold <= 0 {
		threshold = DefaultActivityThreshold
	}
	if margin < 0 {
		margin = DefaultTopUpMargin
	}
	var short []ShortageRecord
	for _, language := range Languages {
		if languageFilter != "" && language != languageFilter {
			continue
		}
		for _, band := range Bands() {
			if bandFilter != nil && band != *bandFilter {
				continue
			}
			rows, err := d.activityRepo.ListByCell(ctx, tx, language, band.MinMonths, band.MaxMonths)
			if err != nil {
				return nil, err
			}
			stats := CellStats{Total: len(rows)}
			domains := map[string]struct{}{}
			schemaTargets := map[string]struct{}{}
			for _, row := range rows {
				if row.Domain != "" {
					domains[row.Domain] = struct{}{}
				}
				if row.SchemaTarget != "" {
					schemaTargets[row.SchemaTarget] = struct{}{}
				}
			}
			stats.UniqueDomains = len(domains)
			stats.UniqueSchemas = len(schemaTargets)
			if rec, isShort := ComputeActivityShortage(language, band, stats, threshold, margin); isShort {
				short = append(short, rec)
			}
		}
	}
	return short, nil
}

// ScanArticles returns the short article cells for the given filters.
func (d *ShortageDetector) ScanArticles(ctx context.Context, tx *gorm.DB, languageFilter string, bandFilter *AgeBand) ([]ShortageRecord, error) {
	var short []ShortageRecord
	for _, language := range Languages {
		if languageFilter != "" && language != languageFilter {
			continue
		}
		for _, band := range Bands() {
			if bandFilter != nil && band != *bandFilter {
				continue
			}
			rows, err := d.articleRepo.ListByCell(ctx, tx, language, band.MinMonths, band.MaxMonths)
			if err != nil {
				return nil, err
			}
			stats := CellStats{Total: len(rows)}
			domains := map[string]struct{}{}
			schemaTargets := map[string]struct{}{}
			for _, row := range rows {
				if row.Type == types.ArticleTypeResearch {
					stats.ResearchTotal++
				}
				if row.Domain != "" {
					domains[row.Domain] = struct{}{}
				}
				if row.SchemaTarget != "" {
					schemaTargets[row.SchemaTarget] = struct{}{}
				}
			}
			stats.UniqueDomains = len(domains)
			stats.UniqueSchemas = len(schemaTargets)
			if rec, isShort := ComputeArticleShortage(language, band, stats); isShort {
				short = append(short, rec)
			}
		}
	}
	return short, nil
}
