package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/semillitas/semillitas-backend/internal/platform/logger"
	"github.com/semillitas/semillitas-backend/internal/repos"
	"github.com/semillitas/semillitas-backend/internal/requestdata"
	"github.com/semillitas/semillitas-backend/internal/types"
)

func TestReadingStreak(t *testing.T) {
	now := time.Date(2026, 8, 20, 15, 0, 0, 0, time.UTC)
	day := func(offset int) time.Time { return now.AddDate(0, 0, offset) }

	cases := []struct {
		name        string
		completions []time.Time
		want        int
	}{
		{"gap breaks the walk", []time.Time{day(0), day(-1), day(-3)}, 2},
		{"no completion today starts at yesterday", []time.Time{day(-1), day(-2)}, 2},
		{"two-day-old completion yields zero", []time.Time{day(-2)}, 0},
		{"empty history", nil, 0},
		{"single completion today", []time.Time{day(0)}, 1},
		{"multiple completions one day count once", []time.Time{day(0), day(0).Add(time.Hour), day(-1)}, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := readingStreak(tc.completions, now); got != tc.want {
				t.Errorf("streak = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestInterleaveByType(t *testing.T) {
	item := func(title, typ string) *ExploreItem {
		return &ExploreItem{Kind: "article", Title: title, Type: typ}
	}
	order := []string{types.ArticleTypeArticle, types.ArticleTypeGuide, types.ArticleTypeResearch}

	t.Run("round robin across types", func(t *testing.T) {
		items := []*ExploreItem{
			item("a1", types.ArticleTypeArticle),
			item("a2", types.ArticleTypeArticle),
			item("g1", types.ArticleTypeGuide),
			item("r1", types.ArticleTypeResearch),
		}
		out := interleaveByType(items, order, 3)
		if len(out) != 3 {
			t.Fatalf("len = %d, want 3", len(out))
		}
		if out[0].Title != "a1" || out[1].Title != "g1" || out[2].Title != "r1" {
			t.Errorf("order = [%s %s %s], want one of each type", out[0].Title, out[1].Title, out[2].Title)
		}
	})

	t.Run("single type fills the limit", func(t *testing.T) {
		items := []*ExploreItem{
			item("a1", types.ArticleTypeArticle),
			item("a2", types.ArticleTypeArticle),
			item("a3", types.ArticleTypeArticle),
			item("a4", types.ArticleTypeArticle),
		}
		out := interleaveByType(items, order, 3)
		if len(out) != 3 {
			t.Fatalf("len = %d, want 3", len(out))
		}
		if out[2].Title != "a3" {
			t.Errorf("in-bucket order broken: %q", out[2].Title)
		}
	})

	t.Run("fewer items than limit", func(t *testing.T) {
		out := interleaveByType([]*ExploreItem{item("g1", types.ArticleTypeGuide)}, order, 3)
		if len(out) != 1 {
			t.Errorf("len = %d, want 1", len(out))
		}
	})
}

func TestLanguageChain(t *testing.T) {
	if got := languageChain("en"); got[0] != "en" || got[1] != "es" {
		t.Errorf("en chain = %v", got)
	}
	if got := languageChain("es"); got[0] != "es" || got[1] != "en" {
		t.Errorf("es chain = %v", got)
	}
	if got := languageChain(""); got[0] != "es" {
		t.Errorf("default chain should lead with es, got %v", got)
	}
}

// Stubs embed the repo interface so only the methods GetFeed and
// MarkRead touch need real bodies.

type stubArticleRepo struct {
	repos.ExploreArticleRepo
	articles []*types.ExploreArticle
}

func (s *stubArticleRepo) ListForAge(ctx context.Context, tx *gorm.DB, language string, ageMonths int) ([]*types.ExploreArticle, error) {
	var out []*types.ExploreArticle
	for _, a := range s.articles {
		if a.Language == language && a.AgeMinMonths <= ageMonths && a.AgeMaxMonths >= ageMonths {
			out = append(out, a)
		}
	}
	return out, nil
}

type stubBrainCardRepo struct{ repos.ExploreBrainCardRepo }

func (stubBrainCardRepo) ListForAge(ctx context.Context, tx *gorm.DB, language string, ageMonths int) ([]*types.ExploreBrainCard, error) {
	return nil, nil
}

type stubBookmarkRepo struct{ repos.ArticleBookmarkRepo }

func (stubBookmarkRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ArticleBookmark, error) {
	return nil, nil
}

type stubReadRepo struct {
	repos.ArticleReadRepo
	reads          []*types.ArticleRead
	partialSeconds map[uuid.UUID]int
	completedCalls int
}

func (s *stubReadRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ArticleRead, error) {
	return s.reads, nil
}

func (s *stubReadRepo) Get(ctx context.Context, tx *gorm.DB, userID, articleID uuid.UUID) (*types.ArticleRead, error) {
	for _, r := range s.reads {
		if r.UserID == userID && r.ArticleID == articleID {
			return r, nil
		}
	}
	return nil, nil
}

func (s *stubReadRepo) UpdateReadTime(ctx context.Context, tx *gorm.DB, userID, articleID uuid.UUID, readTimeSeconds int) error {
	if s.partialSeconds == nil {
		s.partialSeconds = map[uuid.UUID]int{}
	}
	s.partialSeconds[articleID] = readTimeSeconds
	return nil
}

func (s *stubReadRepo) MarkCompleted(ctx context.Context, tx *gorm.DB, userID, articleID uuid.UUID, completedAt time.Time, readTimeSeconds int) error {
	s.completedCalls++
	return nil
}

type stubUserRepo struct {
	repos.UserRepo
	user *types.User
}

func (s *stubUserRepo) GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.User, error) {
	return s.user, nil
}

type stubChildAccess struct {
	ChildService
	child *types.Child
}

func (s *stubChildAccess) RequireAccess(ctx context.Context, childID uuid.UUID) (*types.Child, error) {
	return s.child, nil
}

func newExploreTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func authedCtx(userID uuid.UUID) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: userID})
}

func TestGetFeedStreakCountsCompletionsOutsidePool(t *testing.T) {
	now := time.Date(2026, 8, 20, 15, 0, 0, 0, time.UTC)
	userID := uuid.New()
	child := &types.Child{ID: uuid.New(), Name: "Sol", BirthDate: now.AddDate(0, -18, 0)}

	inBand := &types.ExploreArticle{
		ID: uuid.New(), Type: types.ArticleTypeArticle, Title: "Juego en banda",
		Language: "es", AgeMinMonths: 14, AgeMaxMonths: 24,
	}
	outgrown := &types.ExploreArticle{
		ID: uuid.New(), Type: types.ArticleTypeArticle, Title: "Banda anterior",
		Language: "es", AgeMinMonths: 9, AgeMaxMonths: 13,
	}

	today := now.Add(-time.Hour)
	yesterday := now.AddDate(0, 0, -1)
	reads := []*types.ArticleRead{
		{ID: uuid.New(), UserID: userID, ArticleID: inBand.ID, OpenedAt: today.Add(-time.Hour), ReadCompleted: true, CompletedAt: &today, ReadTimeSeconds: 300},
		{ID: uuid.New(), UserID: userID, ArticleID: outgrown.ID, OpenedAt: yesterday, ReadCompleted: true, CompletedAt: &yesterday, ReadTimeSeconds: 240},
	}

	svc := &exploreService{
		log:           newExploreTestLogger(t),
		articleRepo:   &stubArticleRepo{articles: []*types.ExploreArticle{inBand, outgrown}},
		brainCardRepo: stubBrainCardRepo{},
		bookmarkRepo:  stubBookmarkRepo{},
		readRepo:      &stubReadRepo{reads: reads},
		userRepo:      &stubUserRepo{user: &types.User{ID: userID, PreferredLanguage: "es"}},
		childService:  &stubChildAccess{child: child},
		now:           func() time.Time { return now },
	}

	childID := child.ID
	feed, err := svc.GetFeed(authedCtx(userID), &childID)
	if err != nil {
		t.Fatalf("GetFeed: %v", err)
	}
	if feed.ReadingStreak != 2 {
		t.Errorf("reading streak = %d, want 2 (yesterday's completion was on an outgrown band)", feed.ReadingStreak)
	}
	if len(feed.RecentlyRead) != 1 {
		t.Errorf("recently read = %d items, want only the in-band article", len(feed.RecentlyRead))
	}
}

func TestMarkReadKeepsPartialProgress(t *testing.T) {
	userID := uuid.New()
	articleID := uuid.New()
	readRepo := &stubReadRepo{reads: []*types.ArticleRead{
		{ID: uuid.New(), UserID: userID, ArticleID: articleID, OpenedAt: time.Now()},
	}}
	svc := &exploreService{
		log:      newExploreTestLogger(t),
		readRepo: readRepo,
		now:      time.Now,
	}

	if err := svc.MarkRead(authedCtx(userID), articleID, MarkReadInput{Completed: false, ReadTimeSeconds: 95}); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if got := readRepo.partialSeconds[articleID]; got != 95 {
		t.Errorf("stored read time = %d, want 95", got)
	}
	if readRepo.completedCalls != 0 {
		t.Error("partial update must not mark the read completed")
	}
}
