package services

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/semillitas/semillitas-backend/internal/content"
	"github.com/semillitas/semillitas-backend/internal/platform/apierr"
	"github.com/semillitas/semillitas-backend/internal/platform/logger"
	"github.com/semillitas/semillitas-backend/internal/repos"
	"github.com/semillitas/semillitas-backend/internal/types"
)

const (
	activityFeedRequired = 6
	topSchemaCount       = 3
	maxCompletionNote    = 1000
	observationScanLimit = 50
)

// ActivityView joins one activity row with the caller's state.
type ActivityView struct {
	*types.Activity
	Saved     bool `json:"saved"`
	Completed bool `json:"completed"`
}

// ActivityShortageReport is the read-time availability signal attached to
// every feed response. A shortage is rendered, not erred on.
type ActivityShortageReport struct {
	Required             int `json:"required"`
	AvailableUncompleted int `json:"available_uncompleted"`
	Returned             int `json:"returned"`
	Shortage             int `json:"shortage"`
}

type ActivityFeed struct {
	Featured   *ActivityView          `json:"featured"`
	Activities []*ActivityView        `json:"activities"`
	Saved      []*ActivityView        `json:"saved"`
	Completed  []*ActivityView        `json:"completed"`
	Stats      ActivityShortageReport `json:"stats"`
}

type CompleteActivityInput struct {
	Rating *int   `json:"rating"`
	Note   string `json:"note"`
}

type ActivityService interface {
	GetFeed(ctx context.Context, childID *uuid.UUID) (*ActivityFeed, error)
	Save(ctx context.Context, activityID uuid.UUID) error
	Unsave(ctx context.Context, activityID uuid.UUID) error
	Complete(ctx context.Context, activityID uuid.UUID, input CompleteActivityInput) error
}

type activityService struct {
	db              *gorm.DB
	log             *logger.Logger
	activityRepo    repos.ActivityRepo
	saveRepo        repos.ActivitySaveRepo
	completionRepo  repos.ActivityCompletionRepo
	observationRepo repos.ObservationRepo
	userRepo        repos.UserRepo
	childService    ChildService
	now             func() time.Time
}

func NewActivityService(
	db *gorm.DB,
	log *logger.Logger,
	activityRepo repos.ActivityRepo,
	saveRepo repos.ActivitySaveRepo,
	completionRepo repos.ActivityCompletionRepo,
	observationRepo repos.ObservationRepo,
	userRepo repos.UserRepo,
	childService ChildService,
) ActivityService {
	return &activityService{
		db:              db,
		log:             log.With("service", "ActivityService"),
		activityRepo:    activityRepo,
		saveRepo:        saveRepo,
		completionRepo:  completionRepo,
		observationRepo: observationRepo,
		userRepo:        userRepo,
		childService:    childService,
		now:             time.Now,
	}
}

// rankActivities orders the pool: featured first, then by how often the
// activity's schema target appears among the caller's top observed
// schemas, then newest first. Pure so the ordering is testable.
func rankActivities(pool []*ActivityView, topSchemas []string) {
	counts := map[string]int{}
	for _, s := range topSchemas {
		counts[s]++
	}
	sort.SliceStable(pool, func(i, j int) bool {
		a, b := pool[i], pool[j]
		if a.IsFeatured != b.IsFeatured {
			return a.IsFeatured
		}
		sa, sb := counts[a.SchemaTarget], counts[b.SchemaTarget]
		if sa != sb {
			return sa > sb
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}

// dedupeByTitleKey keeps the first row per canonical title key.
func dedupeByTitleKey(pool []*ActivityView) []*ActivityView {
	seen := map[string]struct{}{}
	out := pool[:0]
	for _, v := range pool {
		key := content.CanonicalTitleKey(v.Title)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

// pickFeatured walks the fallback chain for the featured slot: first
// non-completed featured item, else first non-completed item, else any
// featured item, else the first item, else nil.
func pickFeatured(ranked []*ActivityView) *ActivityView {
	for _, v := range ranked {
		if v.IsFeatured && !v.Completed {
			return v
		}
	}
	for _, v := range ranked {
		if !v.Completed {
			return v
		}
	}
	for _, v := range ranked {
		if v.IsFeatured {
			return v
		}
	}
	if len(ranked) > 0 {
		return ranked[0]
	}
	return nil
}

// topObservedSchemas returns the caller's most frequent schema tags
// across recent observations, most frequent first, capped at n.
func topObservedSchemas(observations []*types.Observation, n int) []string {
	counts := map[string]int{}
	order := []string{}
	for _, obs := range observations {
		for _, s := range obs.Schemas {
			if counts[s] == 0 {
				order = append(order, s)
			}
			counts[s]++
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	return order
}

func (as *activityService) GetFeed(ctx context.Context, childID *uuid.UUID) (*ActivityFeed, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	user, err := as.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if user == nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("user not found"))
	}

	child, err := as.resolveChild(ctx, userID, childID)
	if err != nil {
		return nil, err
	}
	if child == nil {
		// No child yet: an empty feed with a full shortage report.
		return &ActivityFeed{
			Activities: []*ActivityView{},
			Saved:      []*ActivityView{},
			Completed:  []*ActivityView{},
			Stats:      ActivityShortageReport{Required: activityFeedRequired, Shortage: activityFeedRequired},
		}, nil
	}

	ageMonths := child.AgeMonths(as.now())
	rows, err := as.activityRepo.ListForAge(ctx, nil, user.PreferredLanguage, ageMonths)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	var (
		saves       []*types.ActivitySave
		completions []*types.ActivityCompletion
		obs         []*types.Observation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		saves, err = as.saveRepo.ListByUser(gctx, nil, userID)
		return err
	})
	g.Go(func() error {
		var err error
		completions, err = as.completionRepo.ListByUser(gctx, nil, userID)
		return err
	})
	g.Go(func() error {
		var err error
		obs, err = as.observationRepo.ListByChild(gctx, nil, child.ID, observationScanLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load user state: %w", err)
	}

	savedSet := map[uuid.UUID]struct{}{}
	for _, s := range saves {
		savedSet[s.ActivityID] = struct{}{}
	}
	completedSet := map[uuid.UUID]struct{}{}
	for _, c := range completions {
		completedSet[c.ActivityID] = struct{}{}
	}

	pool := make([]*ActivityView, 0, len(rows))
	for _, row := range rows {
		_, saved := savedSet[row.ID]
		_, completed := completedSet[row.ID]
		pool = append(pool, &ActivityView{Activity: row, Saved: saved, Completed: completed})
	}
	pool = dedupeByTitleKey(pool)
	rankActivities(pool, topObservedSchemas(obs, topSchemaCount))

	featured := pickFeatured(pool)
	feed := &ActivityFeed{
		Featured:   featured,
		Activities: []*ActivityView{},
		Saved:      []*ActivityView{},
		Completed:  []*ActivityView{},
	}
	availableUncompleted := 0
	for _, v := range pool {
		if !v.Completed {
			availableUncompleted++
		}
		if v.Saved && !v.Completed {
			feed.Saved = append(feed.Saved, v)
		}
		if v.Completed {
			feed.Completed = append(feed.Completed, v)
			continue
		}
		if featured != nil && v == featured {
			continue
		}
		feed.Activities = append(feed.Activities, v)
	}

	returned := len(feed.Activities)
	if featured != nil {
		returned++
	}
	shortage := activityFeedRequired - availableUncompleted
	if shortage < 0 {
		shortage = 0
	}
	feed.Stats = ActivityShortageReport{
		Required:             activityFeedRequired,
		AvailableUncompleted: availableUncompleted,
		Returned:             returned,
		Shortage:             shortage,
	}
	return feed, nil
}

// resolveChild returns the explicitly requested child (access-checked) or
// the caller's earliest child when none is given. A nil result means the
// caller has no children yet.
func (as *activityService) resolveChild(ctx context.Context, userID uuid.UUID, childID *uuid.UUID) (*types.Child, error) {
	if childID != nil {
		return as.childService.RequireAccess(ctx, *childID)
	}
	children, err := as.childService.ListChildren(ctx)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return nil, nil
	}
	return children[0], nil
}

func (as *activityService) Save(ctx context.Context, activityID uuid.UUID) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}
	activity, err := as.activityRepo.GetByID(ctx, nil, activityID)
	if err != nil {
		return fmt.Errorf("failed to fetch activity: %w", err)
	}
	if activity == nil {
		return apierr.New(http.StatusNotFound, "activity_not_found", fmt.Errorf("activity not found"))
	}
	return as.saveRepo.Upsert(ctx, nil, &types.ActivitySave{
		ID:         uuid.New(),
		UserID:     userID,
		ActivityID: activityID,
	})
}

func (as *activityService) Unsave(ctx context.Context, activityID uuid.UUID) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}
	return as.saveRepo.Delete(ctx, nil, userID, activityID)
}

func (as *activityService) Complete(ctx context.Context, activityID uuid.UUID, input CompleteActivityInput) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}
	if input.Rating != nil && (*input.Rating < 1 || *input.Rating > 5) {
		return apierr.New(http.StatusBadRequest, "invalid_rating", fmt.Errorf("rating must be between 1 and 5"))
	}
	if len(input.Note) > maxCompletionNote {
		return apierr.New(http.StatusBadRequest, "note_too_long", fmt.Errorf("note exceeds %d characters", maxCompletionNote))
	}
	activity, err := as.activityRepo.GetByID(ctx, nil, activityID)
	if err != nil {
		return fmt.Errorf("failed to fetch activity: %w", err)
	}
	if activity == nil {
		return apierr.New(http.StatusNotFound, "activity_not_found", fmt.Errorf("activity not found"))
	}
	return as.completionRepo.Upsert(ctx, nil, &types.ActivityCompletion{
		ID:          uuid.New(),
		UserID:      userID,
		ActivityID:  activityID,
		Rating:      input.Rating,
		Note:        input.Note,
		CompletedAt: as.now(),
	})
}
