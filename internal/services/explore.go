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

	"github.com/semillitas/semillitas-backend/internal/platform/apierr"
	"github.com/semillitas/semillitas-backend/internal/platform/logger"
	"github.com/semillitas/semillitas-backend/internal/repos"
	"github.com/semillitas/semillitas-backend/internal/types"
)

const (
	newForYouLimit    = 3
	keepReadingLimit  = 2
	recentlyReadLimit = 10
	keepReadingMinAge = 5 * time.Minute
)

// ExploreItem is the common feed projection. Kind tags which content row
// the item came from; each kind is adapted explicitly rather than coerced
// through one overloaded row shape.
type ExploreItem struct {
	Kind            string     `json:"kind"` // article or brain_card
	ID              uuid.UUID  `json:"id"`
	Type            string     `json:"type,omitempty"`
	Title           string     `json:"title"`
	Summary         string     `json:"summary"`
	SchemaTarget    string     `json:"schema_target,omitempty"`
	Domain          string     `json:"domain,omitempty"`
	Language        string     `json:"language"`
	ReadTimeMinutes int        `json:"read_time_minutes,omitempty"`
	Bookmarked      bool       `json:"bookmarked"`
	Opened          bool       `json:"opened"`
	ReadCompleted   bool       `json:"read_completed"`
	OpenedAt        *time.Time `json:"opened_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

type ExploreFeed struct {
	NewForYou     []*ExploreItem `json:"new_for_you"`
	KeepReading   []*ExploreItem `json:"keep_reading"`
	DeepDives     []*ExploreItem `json:"deep_dives"`
	RecentlyRead  []*ExploreItem `json:"recently_read"`
	ReadingStreak int            `json:"reading_streak"`
}

type MarkReadInput struct {
	Completed       bool `json:"completed"`
	ReadTimeSeconds int  `json:"read_time_seconds"`
}

type ExploreService interface {
	GetFeed(ctx context.Context, childID *uuid.UUID) (*ExploreFeed, error)
	ToggleBookmark(ctx context.Context, articleID uuid.UUID) (bool, error)
	OpenArticle(ctx context.Context, articleID uuid.UUID) error
	MarkRead(ctx context.Context, articleID uuid.UUID, input MarkReadInput) error
}

type exploreService struct {
	db            *gorm.DB
	log           *logger.Logger
	articleRepo   repos.ExploreArticleRepo
	brainCardRepo repos.ExploreBrainCardRepo
	bookmarkRepo  repos.ArticleBookmarkRepo
	readRepo      repos.ArticleReadRepo
	userRepo      repos.UserRepo
	childService  ChildService
	now           func() time.Time
}

func NewExploreService(
	db *gorm.DB,
	log *logger.Logger,
	articleRepo repos.ExploreArticleRepo,
	brainCardRepo repos.ExploreBrainCardRepo,
	bookmarkRepo repos.ArticleBookmarkRepo,
	readRepo repos.ArticleReadRepo,
	userRepo repos.UserRepo,
	childService ChildService,
) ExploreService {
	return &exploreService{
		db:            db,
		log:           log.With("service", "ExploreService"),
		articleRepo:   articleRepo,
		brainCardRepo: brainCardRepo,
		bookmarkRepo:  bookmarkRepo,
		readRepo:      readRepo,
		userRepo:      userRepo,
		childService:  childService,
		now:           time.Now,
	}
}

// languageChain returns the lookup order: preferred language first, then
// the other. The fallback fires only when the preferred language has zero
// rows; languages are never blended.
func languageChain(preferred string) []string {
	if preferred == "en" {
		return []string{"en", "es"}
	}
	return []string{"es", "en"}
}

func adaptArticle(a *types.ExploreArticle, bookmarked bool, read *types.ArticleRead) *ExploreItem {
	item := &ExploreItem{
		Kind:            "article",
		ID:              a.ID,
		Type:            a.Type,
		Title:           a.Title,
		Summary:         a.Summary,
		SchemaTarget:    a.SchemaTarget,
		Domain:          a.Domain,
		Language:        a.Language,
		ReadTimeMinutes: a.ReadTimeMinutes,
		Bookmarked:      bookmarked,
	}
	if read != nil {
		item.Opened = true
		item.OpenedAt = &read.OpenedAt
		item.ReadCompleted = read.ReadCompleted
		item.CompletedAt = read.CompletedAt
	}
	return item
}

func adaptBrainCard(c *types.ExploreBrainCard) *ExploreItem {
	return &ExploreItem{
		Kind:     "brain_card",
		ID:       c.ID,
		Title:    c.Title,
		Summary:  c.Summary,
		Language: c.Language,
	}
}

// interleaveByType round-robins across the type buckets in the given
// order, preserving in-bucket order, until limit items are emitted.
func interleaveByType(items []*ExploreItem, typeOrder []string, limit int) []*ExploreItem {
	buckets := map[string][]*ExploreItem{}
	for _, item := range items {
		buckets[item.Type] = append(buckets[item.Type], item)
	}
	out := []*ExploreItem{}
	for len(out) < limit {
		emitted := false
		for _, t := range typeOrder {
			if len(buckets[t]) == 0 {
				continue
			}
			out = append(out, buckets[t][0])
			buckets[t] = buckets[t][1:]
			emitted = true
			if len(out) == limit {
				break
			}
		}
		if !emitted {
			break
		}
	}
	return out
}

// readingStreak counts consecutive UTC calendar days with at least one
// completion, walking back from today. A day with no completion yet today
// does not break the streak; the walk then starts at yesterday.
func readingStreak(completions []time.Time, now time.Time) int {
	days := map[string]struct{}{}
	for _, t := range completions {
		days[t.UTC().Format("2006-01-02")] = struct{}{}
	}
	today := now.UTC().Truncate(24 * time.Hour)
	cursor := today
	if _, ok := days[cursor.Format("2006-01-02")]; !ok {
		cursor = cursor.AddDate(0, 0, -1)
	}
	streak := 0
	for {
		if _, ok := days[cursor.Format("2006-01-02")]; !ok {
			break
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

func (es *exploreService) GetFeed(ctx context.Context, childID *uuid.UUID) (*ExploreFeed, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	user, err := es.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if user == nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("user not found"))
	}

	ageMonths := 12
	if childID != nil {
		child, err := es.childService.RequireAccess(ctx, *childID)
		if err != nil {
			return nil, err
		}
		ageMonths = child.AgeMonths(es.now())
	} else if children, err := es.childService.ListChildren(ctx); err == nil && len(children) > 0 {
		ageMonths = children[0].AgeMonths(es.now())
	}

	var articles []*types.ExploreArticle
	for _, language := range languageChain(user.PreferredLanguage) {
		articles, err = es.articleRepo.ListForAge(ctx, nil, language, ageMonths)
		if err != nil {
			return nil, fmt.Errorf("failed to list articles: %w", err)
		}
		if len(articles) > 0 {
			break
		}
	}

	var (
		bookmarks []*types.ArticleBookmark
		reads     []*types.ArticleRead
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bookmarks, err = es.bookmarkRepo.ListByUser(gctx, nil, userID)
		return err
	})
	g.Go(func() error {
		var err error
		reads, err = es.readRepo.ListByUser(gctx, nil, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load reading state: %w", err)
	}

	bookmarked := map[uuid.UUID]struct{}{}
	for _, b := range bookmarks {
		bookmarked[b.ArticleID] = struct{}{}
	}
	readByArticle := map[uuid.UUID]*types.ArticleRead{}
	for _, r := range reads {
		readByArticle[r.ArticleID] = r
	}

	items := make([]*ExploreItem, 0, len(articles))
	for _, a := range articles {
		_, isBookmarked := bookmarked[a.ID]
		items = append(items, adaptArticle(a, isBookmarked, readByArticle[a.ID]))
	}

	// Legacy brain cards back-fill an otherwise empty feed only.
	if len(items) == 0 {
		for _, language := range languageChain(user.PreferredLanguage) {
			cards, err := es.brainCardRepo.ListForAge(ctx, nil, language, ageMonths)
			if err != nil {
				return nil, fmt.Errorf("failed to list brain cards: %w", err)
			}
			if len(cards) == 0 {
				continue
			}
			for _, c := range cards {
				items = append(items, adaptBrainCard(c))
			}
			break
		}
	}

	feed := &ExploreFeed{
		NewForYou:    []*ExploreItem{},
		KeepReading:  []*ExploreItem{},
		DeepDives:    []*ExploreItem{},
		RecentlyRead: []*ExploreItem{},
	}

	// The streak counts every completion the user ever made, including
	// articles that have since left the age or language pool.
	var completionTimes []time.Time
	for _, r := range reads {
		if r.ReadCompleted && r.CompletedAt != nil {
			completionTimes = append(completionTimes, *r.CompletedAt)
		}
	}

	var unread []*ExploreItem
	nowT := es.now()
	for _, item := range items {
		if item.Kind != "article" {
			continue
		}
		if item.Type == types.ArticleTypeResearch {
			feed.DeepDives = append(feed.DeepDives, item)
		}
		switch {
		case item.ReadCompleted:
			feed.RecentlyRead = append(feed.RecentlyRead, item)
		case item.Opened:
			if item.OpenedAt != nil && nowT.Sub(*item.OpenedAt) >= keepReadingMinAge {
				feed.KeepReading = append(feed.KeepReading, item)
			}
		default:
			unread = append(unread, item)
		}
	}

	feed.NewForYou = interleaveByType(unread, []string{types.ArticleTypeArticle, types.ArticleTypeGuide, types.ArticleTypeResearch}, newForYouLimit)
	if len(feed.NewForYou) == 0 && len(items) > 0 && items[0].Kind == "brain_card" {
		limit := newForYouLimit
		if len(items) < limit {
			limit = len(items)
		}
		feed.NewForYou = items[:limit]
	}

	sort.SliceStable(feed.KeepReading, func(i, j int) bool {
		return feed.KeepReading[i].OpenedAt.After(*feed.KeepReading[j].OpenedAt)
	})
	if len(feed.KeepReading) > keepReadingLimit {
		feed.KeepReading = feed.KeepReading[:keepReadingLimit]
	}
	sort.SliceStable(feed.RecentlyRead, func(i, j int) bool {
		ti, tj := feed.RecentlyRead[i].CompletedAt, feed.RecentlyRead[j].CompletedAt
		if ti == nil || tj == nil {
			return tj == nil && ti != nil
		}
		return ti.After(*tj)
	})
	if len(feed.RecentlyRead) > recentlyReadLimit {
		feed.RecentlyRead = feed.RecentlyRead[:recentlyReadLimit]
	}

	feed.ReadingStreak = readingStreak(completionTimes, nowT)
	return feed, nil
}

func (es *exploreService) ToggleBookmark(ctx context.Context, articleID uuid.UUID) (bool, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return false, err
	}
	article, err := es.articleRepo.GetByID(ctx, nil, articleID)
	if err != nil {
		return false, fmt.Errorf("failed to fetch article: %w", err)
	}
	if article == nil {
		return false, apierr.New(http.StatusNotFound, "article_not_found", fmt.Errorf("article not found"))
	}
	existing, err := es.bookmarkRepo.Get(ctx, nil, userID, articleID)
	if err != nil {
		return false, fmt.Errorf("failed to check bookmark: %w", err)
	}
	if existing != nil {
		if err := es.bookmarkRepo.Delete(ctx, nil, userID, articleID); err != nil {
			return false, fmt.Errorf("failed to remove bookmark: %w", err)
		}
		return false, nil
	}
	if err := es.bookmarkRepo.Create(ctx, nil, &types.ArticleBookmark{
		ID:        uuid.New(),
		UserID:    userID,
		ArticleID: articleID,
	}); err != nil {
		return false, fmt.Errorf("failed to create bookmark: %w", err)
	}
	return true, nil
}

func (es *exploreService) OpenArticle(ctx context.Context, articleID uuid.UUID) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}
	article, err := es.articleRepo.GetByID(ctx, nil, articleID)
	if err != nil {
		return fmt.Errorf("failed to fetch article: %w", err)
	}
	if article == nil {
		return apierr.New(http.StatusNotFound, "article_not_found", fmt.Errorf("article not found"))
	}
	return es.readRepo.Open(ctx, nil, &types.ArticleRead{
		ID:        uuid.New(),
		UserID:    userID,
		ArticleID: articleID,
		OpenedAt:  es.now(),
	})
}

func (es *exploreService) MarkRead(ctx context.Context, articleID uuid.UUID, input MarkReadInput) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}
	read, err := es.readRepo.Get(ctx, nil, userID, articleID)
	if err != nil {
		return fmt.Errorf("failed to fetch read state: %w", err)
	}
	if read == nil {
		return apierr.New(http.StatusNotFound, "read_not_found", fmt.Errorf("article was never opened"))
	}
	if !input.Completed {
		// Partial progress still counts; keep the elapsed time without
		// touching the completion state.
		if input.ReadTimeSeconds > 0 {
			return es.readRepo.UpdateReadTime(ctx, nil, userID, articleID, input.ReadTimeSeconds)
		}
		return nil
	}
	return es.readRepo.MarkCompleted(ctx, nil, userID, articleID, es.now(), input.ReadTimeSeconds)
}
