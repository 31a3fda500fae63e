package content

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/semillitas/semillitas-backend/internal/platform/logger"
	"github.com/semillitas/semillitas-backend/internal/repos"
	"github.com/semillitas/semillitas-backend/internal/types"
)

// CloneCapPerCell bounds how many verbatim article clones one refill run
// may add to a cell. Clones are collapsed later by the pruning pass; the
// cap keeps duplicate accumulation bounded between prune runs.
const CloneCapPerCell = 3

// BackfillOptions filter and throttle one orchestrator run. Unless All is
// set or an explicit single band is given, only the highest-priority cell
// is processed, bounding generation cost per invocation.
type BackfillOptions struct {
	Language  string
	Band      *AgeBand
	All       bool
	Threshold int
	Margin    int
}

// BackfillResult summarizes one processed cell.
type BackfillResult struct {
	Language   string
	Band       AgeBand
	Requested  int
	Generated  int
	Failed     int
	TotalAfter int
}

// BackfillOrchestrator resolves shortage cells to generator invocations.
// The generator is called in process; each unit runs to completion before
// the next starts.
type BackfillOrchestrator struct {
	db           *gorm.DB
	log          *logger.Logger
	generator    *Generator
	detector     *ShortageDetector
	activityRepo repos.ActivityRepo
	articleRepo  repos.ExploreArticleRepo
	childRepo    repos.ChildRepo
	now          func() time.Time
}

func NewBackfillOrchestrator(
	db *gorm.DB,
	log *logger.Logger,
	generator *Generator,
	detector *ShortageDetector,
	activityRepo repos.ActivityRepo,
	articleRepo repos.ExploreArticleRepo,
	childRepo repos.ChildRepo,
) *BackfillOrchestrator {
	return &BackfillOrchestrator{
		db:           db,
		log:          log.With("service", "BackfillOrchestrator"),
		generator:    generator,
		detector:     detector,
		activityRepo: activityRepo,
		articleRepo:  articleRepo,
		childRepo:    childRepo,
		now:          time.Now,
	}
}

// prioritizeCells orders shortage records for processing: the active band
// (the band containing the earliest-created child's age) is pinned first,
// the rest sort by descending missing count.
func prioritizeCells(records []ShortageRecord, activeBand *AgeBand) []ShortageRecord {
	out := make([]ShortageRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		if activeBand != nil {
			iActive := out[i].Band == *activeBand
			jActive := out[j].Band == *activeBand
			if iActive != jActive {
				return iActive
			}
		}
		return out[i].MissingTotal > out[j].MissingTotal
	})
	return out
}

func (o *BackfillOrchestrator) activeBand(ctx context.Context) *AgeBand {
	child, err := o.childRepo.EarliestCreated(ctx, nil)
	if err != nil {
		o.log.Warn("Failed to resolve active child", "error", err)
		return nil
	}
	if child == nil {
		return nil
	}
	band, ok := BandFor(child.AgeMonths(o.now()))
	if !ok {
		return nil
	}
	return &band
}

// RefillActivities runs one activity backfill pass and returns the
// processed cells.
func (o *BackfillOrchestrator) RefillActivities(ctx context.Context, opts BackfillOptions) ([]BackfillResult, error) {
	short, err := o.detector.ScanActivities(ctx, nil, opts.Language, opts.Band, opts.Threshold, opts.Margin)
	if err != nil {
		return nil, fmt.Errorf("shortage scan failed: %w", err)
	}
	if len(short) == 0 {
		o.log.Info("No short activity cells found")
		return nil, nil
	}

	cells := prioritizeCells(short, o.activeBand(ctx))
	if !opts.All && opts.Band == nil {
		cells = cells[:1]
	}

	var results []BackfillResult
	for _, cell := range cells {
		res := BackfillResult{Language: cell.Language, Band: cell.Band, Requested: cell.MissingTotal}
		if cell.MissingTotal == 0 {
			results = append(results, res)
			continue
		}
		batchLabel := fmt.Sprintf("refill-%s-%s", cell.Band.Label(), cell.Language)
		variants := Variants(cell.Band)
		recent, err := o.activityRepo.RecentTitles(ctx, nil, cell.Language, cell.Band.MinMonths, cell.Band.MaxMonths, maxRecentTitles)
		if err != nil {
			return results, fmt.Errorf("failed to load recent titles: %w", err)
		}

		for i := 0; i < cell.MissingTotal; i++ {
			variant := variants[i%len(variants)]
			activity, err := o.generator.GenerateActivity(ctx, GenerateActivityInput{
				Variant:      variant,
				Language:     cell.Language,
				BatchLabel:   batchLabel,
				Index:        i + 1,
				RecentTitles: recent,
			})
			if err != nil {
				res.Failed++
				o.log.Warn("Backfill unit failed",
					"band", cell.Band.Label(),
					"language", cell.Language,
					"unit", i+1,
					"error", err,
				)
				continue
			}
			if _, err := o.activityRepo.Create(ctx, nil, activity); err != nil {
				res.Failed++
				o.log.Error("Failed to persist generated activity", "error", err)
				continue
			}
			res.Generated++
			recent = append([]string{activity.Title}, recent...)
			if len(recent) > maxRecentTitles {
				recent = recent[:maxRecentTitles]
			}
		}

		// Post-refill verification pass.
		rows, err := o.activityRepo.ListByCell(ctx, nil, cell.Language, cell.Band.MinMonths, cell.Band.MaxMonths)
		if err == nil {
			res.TotalAfter = len(rows)
		}
		o.log.Info("Activity cell refilled",
			"band", cell.Band.Label(),
			"language", cell.Language,
			"requested", res.Requested,
			"generated", res.Generated,
			"failed", res.Failed,
			"total_after", res.TotalAfter,
		)
		results = append(results, res)
	}
	return results, nil
}

// RefillArticles runs one article backfill pass. Articles are cloned from
// existing cell rows instead of regenerated; long-form generation is too
// expensive for a routine top-up. Clones are verbatim duplicates behind a
// title suffix and rely on the pruning pass to collapse, so each cell
// accepts at most CloneCapPerCell clones per run.
func (o *BackfillOrchestrator) RefillArticles(ctx context.Context, opts BackfillOptions) ([]BackfillResult, error) {
	short, err := o.detector.ScanArticles(ctx, nil, opts.Language, opts.Band)
	if err != nil {
		return nil, fmt.Errorf("shortage scan failed: %w", err)
	}
	if len(short) == 0 {
		o.log.Info("No short article cells found")
		return nil, nil
	}

	cells := prioritizeCells(short, o.activeBand(ctx))
	if !opts.All && opts.Band == nil {
		cells = cells[:1]
	}

	var results []BackfillResult
	for _, cell := range cells {
		res := BackfillResult{Language: cell.Language, Band: cell.Band, Requested: cell.MissingTotal + cell.MissingResearch}
		rows, err := o.articleRepo.ListByCell(ctx, nil, cell.Language, cell.Band.MinMonths, cell.Band.MaxMonths)
		if err != nil {
			return results, fmt.Errorf("failed to load cell articles: %w", err)
		}
		if len(rows) == 0 {
			o.log.Warn("Article cell empty, nothing to clone",
				"band", cell.Band.Label(),
				"language", cell.Language,
			)
			results = append(results, res)
			continue
		}

		batchLabel := fmt.Sprintf("refill-%s-%s", cell.Band.Label(), cell.Language)
		cloned := 0
		cloneUnit := func(forceResearch bool, index int) {
			if cloned >= CloneCapPerCell {
				return
			}
			source := rows[cloned%len(rows)]
			clone := cloneArticle(source, batchLabel, index, forceResearch)
			if _, err := o.articleRepo.Create(ctx, nil, clone); err != nil {
				res.Failed++
				o.log.Error("Failed to persist article clone", "error", err)
				return
			}
			cloned++
			res.Generated++
		}
		for i := 0; i < cell.MissingResearch; i++ {
			cloneUnit(true, i+1)
		}
		for i := 0; i < cell.MissingTotal; i++ {
			cloneUnit(false, cell.MissingResearch+i+1)
		}
		if cloned >= CloneCapPerCell && res.Generated < res.Requested {
			o.log.Warn("Clone cap reached, leaving cell short until prune converges",
				"band", cell.Band.Label(),
				"language", cell.Language,
				"cap", CloneCapPerCell,
			)
		}

		after, err := o.articleRepo.ListByCell(ctx, nil, cell.Language, cell.Band.MinMonths, cell.Band.MaxMonths)
		if err == nil {
			res.TotalAfter = len(after)
		}
		o.log.Info("Article cell refilled",
			"band", cell.Band.Label(),
			"language", cell.Language,
			"requested", res.Requested,
			"cloned", res.Generated,
			"total_after", res.TotalAfter,
		)
		results = append(results, res)
	}
	return results, nil
}

// cloneArticle copies every content field, replaces identity and
// timestamp, and retitles with the refill suffix.
func cloneArticle(source *types.ExploreArticle, batchLabel string, index int, forceResearch bool) *types.ExploreArticle {
	clone := *source
	clone.ID = uuid.New()
	clone.Title = BatchTitle(CanonicalSourceTitle(source.Title), batchLabel, index)
	clone.CreatedAt = time.Time{}
	if forceResearch {
		clone.Type = types.ArticleTypeResearch
	}
	return &clone
}

// CanonicalSourceTitle strips any existing batch or refill suffix so that
// re-cloning a clone does not stack suffixes.
func CanonicalSourceTitle(title string) string {
	s := refillSuffixRe.ReplaceAllString(title, "")
	s = versionSuffixRe.ReplaceAllString(s, "")
	s = batchSuffixRe.ReplaceAllString(s, "")
	return s
}
