package content

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSelectPruneVictims(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("noisier duplicate is deleted", func(t *testing.T) {
		clean := PruneRow{ID: uuid.New(), Title: "Title · B1-1", Language: "es", AgeMin: 14, AgeMax: 24, Kind: KindActivity, CreatedAt: base}
		noisy := PruneRow{ID: uuid.New(), Title: "Title · refill-x-1 · v2", Language: "es", AgeMin: 14, AgeMax: 24, Kind: KindActivity, CreatedAt: base.Add(time.Hour)}

		victims, groups, dupGroups := selectPruneVictims([]PruneRow{noisy, clean})
		if groups != 1 || dupGroups != 1 {
			t.Fatalf("groups = %d dup = %d, want 1/1", groups, dupGroups)
		}
		if len(victims) != 1 || victims[0] != noisy.ID {
			t.Errorf("victims = %v, want the refill row %v", victims, noisy.ID)
		}
	})

	t.Run("equal noise keeps the oldest", func(t *testing.T) {
		older := PruneRow{ID: uuid.New(), Title: "Title · B1-1", Language: "es", AgeMin: 14, AgeMax: 24, Kind: KindActivity, CreatedAt: base}
		newer := PruneRow{ID: uuid.New(), Title: "Title · B2-2", Language: "es", AgeMin: 14, AgeMax: 24, Kind: KindActivity, CreatedAt: base.Add(time.Hour)}

		victims, _, _ := selectPruneVictims([]PruneRow{newer, older})
		if len(victims) != 1 || victims[0] != newer.ID {
			t.Errorf("victims = %v, want the newer row %v", victims, newer.ID)
		}
	})

	t.Run("different cells never collapse", func(t *testing.T) {
		a := PruneRow{ID: uuid.New(), Title: "Title", Language: "es", AgeMin: 14, AgeMax: 24, Kind: KindActivity, CreatedAt: base}
		b := PruneRow{ID: uuid.New(), Title: "Title", Language: "en", AgeMin: 14, AgeMax: 24, Kind: KindActivity, CreatedAt: base}
		c := PruneRow{ID: uuid.New(), Title: "Title", Language: "es", AgeMin: 14, AgeMax: 24, Kind: KindArticle, CreatedAt: base}

		victims, groups, dupGroups := selectPruneVictims([]PruneRow{a, b, c})
		if len(victims) != 0 {
			t.Errorf("victims = %v, want none across language/kind boundaries", victims)
		}
		if groups != 3 || dupGroups != 0 {
			t.Errorf("groups = %d dup = %d, want 3/0", groups, dupGroups)
		}
	})
}

func TestSelectShortBodies(t *testing.T) {
	shortArticle := PruneRow{ID: uuid.New(), Kind: KindArticle, BodyWords: 50}
	fullArticle := PruneRow{ID: uuid.New(), Kind: KindArticle, BodyWords: 900}
	activity := PruneRow{ID: uuid.New(), Kind: KindActivity, BodyWords: 0}

	out := selectShortBodies([]PruneRow{shortArticle, fullArticle, activity})
	if len(out) != 1 || out[0] != shortArticle.ID {
		t.Errorf("short bodies = %v, want only %v", out, shortArticle.ID)
	}
}
