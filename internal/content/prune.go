package content

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/semillitas/semillitas-backend/internal/observability"
	"github.com/semillitas/semillitas-backend/internal/platform/logger"
	"github.com/semillitas/semillitas-backend/internal/repos"
)

// Content kinds for duplicate grouping. Rows of different kinds never
// collapse onto each other.
const (
	KindActivity = "activity"
	KindArticle  = "article"
)

const shortBodyWordFloor = 200

// PruneRow is the projection of a stored row the pruner needs.
type PruneRow struct {
	ID        uuid.UUID
	Title     string
	Language  string
	AgeMin    int
	AgeMax    int
	Kind      string
	BodyWords int
	CreatedAt time.Time
}

type PruneOptions struct {
	DryRun      bool
	Limit       int
	DeleteShort bool
}

type PruneReport struct {
	GroupsScanned   int
	DuplicateGroups int
	Victims         int
	ShortDeleted    int
	Deleted         int
}

// selectPruneVictims groups rows by (canonical key, language, band, kind)
// and marks every row but the cleanest, oldest representative. Sorting is
// ascending noise score with created_at as the tiebreak, so the survivor
// is the first element of each sorted group.
func selectPruneVictims(rows []PruneRow) ([]uuid.UUID, int, int) {
	groups := map[string][]PruneRow{}
	for _, row := range rows {
		key := fmt.Sprintf("%s|%s|%d|%d|%s", CanonicalTitleKey(row.Title), row.Language, row.AgeMin, row.AgeMax, row.Kind)
		groups[key] = append(groups[key], row)
	}

	var victims []uuid.UUID
	duplicateGroups := 0
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		duplicateGroups++
		sort.SliceStable(group, func(i, j int) bool {
			ni, nj := NoiseScore(group[i].Title), NoiseScore(group[j].Title)
			if ni != nj {
				return ni < nj
			}
			return group[i].CreatedAt.Before(group[j].CreatedAt)
		})
		for _, row := range group[1:] {
			victims = append(victims, row.ID)
		}
	}
	return victims, len(groups), duplicateGroups
}

// selectShortBodies returns article rows whose body is too short to be
// worth keeping. Activities carry no body and are never selected.
func selectShortBodies(rows []PruneRow) []uuid.UUID {
	var out []uuid.UUID
	for _, row := range rows {
		if row.Kind == KindArticle && row.BodyWords < shortBodyWordFloor {
			out = append(out, row.ID)
		}
	}
	return out
}

// Pruner collapses duplicate groups accumulated by generation batches and
// clone-based refills.
type Pruner struct {
	log          *logger.Logger
	activityRepo repos.ActivityRepo
	articleRepo  repos.ExploreArticleRepo
}

func NewPruner(log *logger.Logger, activityRepo repos.ActivityRepo, articleRepo repos.ExploreArticleRepo) *Pruner {
	return &Pruner{
		log:          log.With("service", "Pruner"),
		activityRepo: activityRepo,
		articleRepo:  articleRepo,
	}
}

func (p *Pruner) Run(ctx context.Context, opts PruneOptions) (*PruneReport, error) {
	activities, err := p.activityRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	articles, err := p.articleRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}

	rows := make([]PruneRow, 0, len(activities)+len(articles))
	activityIDs := map[uuid.UUID]struct{}{}
	for _, a := range activities {
		activityIDs[a.ID] = struct{}{}
		rows = append(rows, PruneRow{
			ID:        a.ID,
			Title:     a.Title,
			Language:  a.Language,
			AgeMin:    a.AgeMinMonths,
			AgeMax:    a.AgeMaxMonths,
			Kind:      KindActivity,
			CreatedAt: a.CreatedAt,
		})
	}
	for _, a := range articles {
		rows = append(rows, PruneRow{
			ID:        a.ID,
			Title:     a.Title,
			Language:  a.Language,
			AgeMin:    a.AgeMinMonths,
			AgeMax:    a.AgeMaxMonths,
			Kind:      KindArticle,
			BodyWords: len(strings.Fields(a.Body)),
			CreatedAt: a.CreatedAt,
		})
	}

	victims, groups, duplicateGroups := selectPruneVictims(rows)
	report := &PruneReport{
		GroupsScanned:   groups,
		DuplicateGroups: duplicateGroups,
		Victims:         len(victims),
	}

	if opts.DeleteShort {
		shorts := selectShortBodies(rows)
		report.ShortDeleted = len(shorts)
		victims = append(victims, shorts...)
	}
	if opts.Limit > 0 && len(victims) > opts.Limit {
		victims = victims[:opts.Limit]
	}
	if opts.DryRun {
		p.log.Info("Prune dry run",
			"duplicate_groups", report.DuplicateGroups,
			"would_delete", len(victims),
		)
		return report, nil
	}

	var victimActivities, victimArticles []uuid.UUID
	seen := map[uuid.UUID]struct{}{}
	for _, id := range victims {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := activityIDs[id]; ok {
			victimActivities = append(victimActivities, id)
		} else {
			victimArticles = append(victimArticles, id)
		}
	}
	if err := p.activityRepo.DeleteByIDs(ctx, nil, victimActivities); err != nil {
		return report, fmt.Errorf("failed to delete activities: %w", err)
	}
	if err := p.articleRepo.DeleteByIDs(ctx, nil, victimArticles); err != nil {
		return report, fmt.Errorf("failed to delete articles: %w", err)
	}
	report.Deleted = len(victimActivities) + len(victimArticles)
	observability.Current().AddRowsPruned(int64(report.Deleted))

	p.log.Info("Prune completed",
		"duplicate_groups", report.DuplicateGroups,
		"deleted", report.Deleted,
		"short_deleted", report.ShortDeleted,
	)
	return report, nil
}
