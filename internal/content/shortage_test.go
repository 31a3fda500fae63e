package content

import "testing"

func TestComputeActivityShortage(t *testing.T) {
	band := AgeBand{14, 24}

	t.Run("short on count and diversity", func(t *testing.T) {
		stats := CellStats{Total: 5, UniqueDomains: 2, UniqueSchemas: 2}
		rec, short := ComputeActivityShortage("es", band, stats, 12, 3)
		if !short {
			t.Fatal("cell should be short")
		}
		if rec.MissingTotal != 10 {
			t.Errorf("missing = %d, want 10", rec.MissingTotal)
		}
		if !rec.DiversityWarning {
			t.Error("diversity warning should be set")
		}
	})

	t.Run("full cell is not short", func(t *testing.T) {
		stats := CellStats{Total: 20, UniqueDomains: 5, UniqueSchemas: 4}
		rec, short := ComputeActivityShortage("en", band, stats, 12, 3)
		if short {
			t.Fatal("cell should not be short")
		}
		if rec.MissingTotal != 0 {
			t.Errorf("missing = %d, want 0", rec.MissingTotal)
		}
	})

	t.Run("diversity alone flags a full cell", func(t *testing.T) {
		stats := CellStats{Total: 20, UniqueDomains: 2, UniqueSchemas: 4}
		rec, short := ComputeActivityShortage("es", band, stats, 12, 3)
		if !short {
			t.Fatal("low-diversity cell should be flagged")
		}
		if rec.MissingTotal != 0 {
			t.Errorf("missing = %d, want 0", rec.MissingTotal)
		}
	})
}

func TestComputeArticleShortage(t *testing.T) {
	band := AgeBand{0, 4}

	rec, short := ComputeArticleShortage("es", band, CellStats{Total: 1, ResearchTotal: 0})
	if !short {
		t.Fatal("cell should be short")
	}
	if rec.MissingTotal != 2 {
		t.Errorf("missing total = %d, want 2", rec.MissingTotal)
	}
	if rec.MissingResearch != 3 {
		t.Errorf("missing research = %d, want 3", rec.MissingResearch)
	}

	_, short = ComputeArticleShortage("es", band, CellStats{Total: 6, ResearchTotal: 3})
	if short {
		t.Error("cell meeting both quotas should not be short")
	}
}
