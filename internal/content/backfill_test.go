package content

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/semillitas/semillitas-backend/internal/platform/logger"
	"github.com/semillitas/semillitas-backend/internal/repos"
	"github.com/semillitas/semillitas-backend/internal/types"
)

func TestPrioritizeCells(t *testing.T) {
	records := []ShortageRecord{
		{Language: "es", Band: AgeBand{0, 4}, MissingTotal: 2},
		{Language: "es", Band: AgeBand{14, 24}, MissingTotal: 8},
		{Language: "en", Band: AgeBand{25, 36}, MissingTotal: 5},
	}

	t.Run("active band pinned first", func(t *testing.T) {
		active := AgeBand{0, 4}
		out := prioritizeCells(records, &active)
		if out[0].Band != active {
			t.Errorf("first cell band = %v, want active band %v", out[0].Band, active)
		}
		if out[1].MissingTotal != 8 || out[2].MissingTotal != 5 {
			t.Errorf("remaining cells not ordered by missing desc: %v", out)
		}
	})

	t.Run("no active band sorts by missing desc", func(t *testing.T) {
		out := prioritizeCells(records, nil)
		if out[0].MissingTotal != 8 || out[1].MissingTotal != 5 || out[2].MissingTotal != 2 {
			t.Errorf("unexpected order: %v", out)
		}
	})

	t.Run("input slice untouched", func(t *testing.T) {
		_ = prioritizeCells(records, nil)
		if records[0].MissingTotal != 2 {
			t.Error("prioritizeCells must not mutate its input")
		}
	})
}

func TestCloneArticle(t *testing.T) {
	source := &types.ExploreArticle{
		ID:           uuid.New(),
		Type:         types.ArticleTypeArticle,
		Title:        "El poder del juego · B9-2",
		Summary:      "Resumen",
		Body:         "Cuerpo largo",
		SchemaTarget: "connecting",
		Language:     "es",
		AgeMinMonths: 14,
		AgeMaxMonths: 24,
	}

	clone := cloneArticle(source, "refill-14-24-es", 1, true)

	if clone.ID == source.ID {
		t.Error("clone must get a fresh id")
	}
	if clone.Type != types.ArticleTypeResearch {
		t.Errorf("forced research clone type = %q", clone.Type)
	}
	if clone.Body != source.Body || clone.Summary != source.Summary {
		t.Error("clone must copy content fields verbatim")
	}
	want := "El poder del juego · refill-14-24-es-1"
	if clone.Title != want {
		t.Errorf("clone title = %q, want %q", clone.Title, want)
	}
	if CanonicalTitleKey(clone.Title) != CanonicalTitleKey(source.Title) {
		t.Error("clone and source must share a canonical key")
	}
}

func TestCanonicalSourceTitleStripsStackedSuffixes(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Título · B9-2", "Título"},
		{"Título · refill-14-24-es-1", "Título"},
		{"Título", "Título"},
	}
	for _, tc := range cases {
		if got := CanonicalSourceTitle(tc.in); got != tc.want {
			t.Errorf("CanonicalSourceTitle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

type stubArticleStore struct {
	repos.ExploreArticleRepo
	rows    []*types.ExploreArticle
	created []*types.ExploreArticle
}

func (s *stubArticleStore) ListByCell(ctx context.Context, tx *gorm.DB, language string, ageMin, ageMax int) ([]*types.ExploreArticle, error) {
	var out []*types.ExploreArticle
	for _, r := range append(append([]*types.ExploreArticle{}, s.rows...), s.created...) {
		if r.Language == language && r.AgeMinMonths == ageMin && r.AgeMaxMonths == ageMax {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubArticleStore) Create(ctx context.Context, tx *gorm.DB, article *types.ExploreArticle) (*types.ExploreArticle, error) {
	s.created = append(s.created, article)
	return article, nil
}

type stubChildStore struct{ repos.ChildRepo }

func (stubChildStore) EarliestCreated(ctx context.Context, tx *gorm.DB) (*types.Child, error) {
	return nil, nil
}

func TestRefillArticlesStopsAtCloneCap(t *testing.T) {
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	band := AgeBand{14, 24}
	store := &stubArticleStore{rows: []*types.ExploreArticle{{
		ID:           uuid.New(),
		Type:         types.ArticleTypeArticle,
		Title:        "El poder del juego",
		Body:         "Cuerpo largo",
		Language:     "es",
		AgeMinMonths: band.MinMonths,
		AgeMaxMonths: band.MaxMonths,
	}}}
	detector := NewShortageDetector(log, nil, store)
	orch := NewBackfillOrchestrator(nil, log, nil, detector, nil, store, stubChildStore{})

	// One existing article leaves the cell 2 short of the article quota
	// and 3 short of the research quota, so 5 clones are wanted.
	results, err := orch.RefillArticles(context.Background(), BackfillOptions{Language: "es", Band: &band})
	if err != nil {
		t.Fatalf("RefillArticles: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d cells, want 1", len(results))
	}
	res := results[0]
	if res.Requested != 5 {
		t.Errorf("requested = %d, want 5", res.Requested)
	}
	if res.Generated != CloneCapPerCell {
		t.Errorf("generated = %d, want the cap of %d", res.Generated, CloneCapPerCell)
	}
	if len(store.created) != CloneCapPerCell {
		t.Fatalf("persisted clones = %d, want %d", len(store.created), CloneCapPerCell)
	}
	for _, clone := range store.created {
		if clone.Type != types.ArticleTypeResearch {
			t.Errorf("clone %q type = %q, research deficit must be served first", clone.Title, clone.Type)
		}
		if !strings.Contains(clone.Title, "refill-14-24-es") {
			t.Errorf("clone title %q missing the refill batch suffix", clone.Title)
		}
	}
	if res.TotalAfter != 1+CloneCapPerCell {
		t.Errorf("total after = %d, want %d", res.TotalAfter, 1+CloneCapPerCell)
	}
}
