package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/semillitas/semillitas-backend/internal/types"
)

func view(title, schemaTarget string, featured, completed bool, createdAt time.Time) *ActivityView {
	return &ActivityView{
		Activity: &types.Activity{
			ID:           uuid.New(),
			Title:        title,
			SchemaTarget: schemaTarget,
			IsFeatured:   featured,
			CreatedAt:    createdAt,
		},
		Completed: completed,
	}
}

func TestRankActivities(t *testing.T) {
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("featured beats schema score", func(t *testing.T) {
		featured := view("A", "positioning", true, false, base)
		matching := view("B", "connecting", false, false, base.Add(time.Hour))
		pool := []*ActivityView{matching, featured}
		rankActivities(pool, []string{"connecting", "positioning", "trajectory"})
		if pool[0] != featured {
			t.Error("featured item must rank first regardless of schema score")
		}
	})

	t.Run("schema match breaks non-featured ties", func(t *testing.T) {
		connecting := view("A", "connecting", false, false, base)
		positioning := view("B", "positioning", false, false, base.Add(time.Hour))
		unrelated := view("C", "rotation", false, false, base.Add(2*time.Hour))
		pool := []*ActivityView{unrelated, positioning, connecting}
		rankActivities(pool, []string{"connecting", "positioning", "connecting"})
		if pool[0] != connecting {
			t.Errorf("connecting (2 hits) should rank first, got %q", pool[0].Title)
		}
		if pool[1] != positioning {
			t.Errorf("positioning (1 hit) should rank second, got %q", pool[1].Title)
		}
	})

	t.Run("recency breaks remaining ties", func(t *testing.T) {
		older := view("A", "rotation", false, false, base)
		newer := view("B", "rotation", false, false, base.Add(time.Hour))
		pool := []*ActivityView{older, newer}
		rankActivities(pool, nil)
		if pool[0] != newer {
			t.Error("newer activity should rank first on a full tie")
		}
	})
}

func TestPickFeatured(t *testing.T) {
	base := time.Now()
	t.Run("prefers non-completed featured", func(t *testing.T) {
		completedFeatured := view("A", "", true, true, base)
		plain := view("B", "", false, false, base)
		freshFeatured := view("C", "", true, false, base)
		got := pickFeatured([]*ActivityView{completedFeatured, plain, freshFeatured})
		if got != freshFeatured {
			t.Errorf("featured slot = %q, want the non-completed featured item", got.Title)
		}
	})

	t.Run("falls back to first non-completed", func(t *testing.T) {
		done := view("A", "", false, true, base)
		fresh := view("B", "", false, false, base)
		if got := pickFeatured([]*ActivityView{done, fresh}); got != fresh {
			t.Errorf("featured slot = %q, want first non-completed", got.Title)
		}
	})

	t.Run("all completed falls back to featured then first", func(t *testing.T) {
		done := view("A", "", false, true, base)
		doneFeatured := view("B", "", true, true, base)
		if got := pickFeatured([]*ActivityView{done, doneFeatured}); got != doneFeatured {
			t.Errorf("featured slot = %q, want the completed featured item", got.Title)
		}
		if got := pickFeatured([]*ActivityView{done}); got != done {
			t.Error("single completed item should still fill the slot")
		}
	})

	t.Run("empty pool yields nil", func(t *testing.T) {
		if got := pickFeatured(nil); got != nil {
			t.Error("empty pool must yield a nil featured slot")
		}
	})
}

func TestDedupeByTitleKey(t *testing.T) {
	base := time.Now()
	first := view("Torres que caen · B1-1", "", false, false, base)
	clone := view("Torres que caen · refill-14-24-es-2", "", false, false, base)
	other := view("Rodar pelotas", "", false, false, base)

	out := dedupeByTitleKey([]*ActivityView{first, clone, other})
	if len(out) != 2 {
		t.Fatalf("deduped length = %d, want 2", len(out))
	}
	if out[0] != first {
		t.Error("first-seen row must win within a duplicate group")
	}
}

func TestTopObservedSchemas(t *testing.T) {
	obs := []*types.Observation{
		{Schemas: datatypes.JSONSlice[string]{"connecting", "positioning"}},
		{Schemas: datatypes.JSONSlice[string]{"connecting"}},
		{Schemas: datatypes.JSONSlice[string]{"trajectory", "connecting", "rotation"}},
	}
	got := topObservedSchemas(obs, 3)
	if len(got) != 3 {
		t.Fatalf("top schemas = %v, want 3 entries", got)
	}
	if got[0] != "connecting" {
		t.Errorf("most frequent = %q, want connecting", got[0])
	}
}
